package main

import (
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeGzTSV writes lines (header included) as a gzipped TSV fixture.
func writeGzTSV(t *testing.T, name string, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	gz := gzip.NewWriter(f)
	if _, err := gz.Write([]byte(strings.Join(lines, "\n") + "\n")); err != nil {
		t.Fatal(err)
	}
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseRatings(t *testing.T) {
	path := writeGzTSV(t, "ratings.tsv.gz",
		"tconst\taverageRating\tnumVotes",
		"tt0001\t8.5\t1200",
		"tt0002\tnot-a-number\t10",
		"tt0003\t6.1\t300",
	)

	got, err := parseRatings(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d rows, want 2", len(got))
	}
	if r := got["tt0001"]; r.Rating != 8.5 || r.Votes != 1200 {
		t.Errorf("tt0001 = %+v", r)
	}
	if _, ok := got["tt0002"]; ok {
		t.Error("malformed row was not skipped")
	}
}

func TestParseMovies(t *testing.T) {
	path := writeGzTSV(t, "basics.tsv.gz",
		"tconst\ttitleType\tprimaryTitle\toriginalTitle\tisAdult\tstartYear\tendYear\truntimeMinutes\tgenres",
		`tt0001	movie	Heat	Heat	0	1995	\N	170	Action,Crime`,
		`tt0002	tvSeries	Lost	Lost	0	2004	2010	44	Drama`,
		`tt0003	movie	Unrated	Unrated	0	\N	\N	\N	\N`,
		`tt0004	movie	Rated	Rated	0	2001	\N	90	Drama`,
	)
	ratings := map[string]ratingRow{
		"tt0001": {Rating: 8.3, Votes: 700000},
		"tt0002": {Rating: 8.2, Votes: 500000},
		"tt0004": {Rating: 7.0, Votes: 100},
	}

	got, err := parseMovies(path, ratings)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d movies, want 2 (series and unrated excluded): %+v", len(got), got)
	}

	heat := got[0]
	if heat.TConst != "tt0001" || heat.Title != "Heat" || heat.Year != 1995 {
		t.Errorf("heat = %+v", heat)
	}
	if heat.Runtime != 170 || heat.Rating != 8.3 || heat.Votes != 700000 {
		t.Errorf("heat = %+v", heat)
	}
	if len(heat.Genres) != 2 || heat.Genres[0] != "Action" {
		t.Errorf("heat genres = %v", heat.Genres)
	}
}

func TestParsePrincipals(t *testing.T) {
	path := writeGzTSV(t, "principals.tsv.gz",
		"tconst\tordering\tnconst\tcategory\tjob\tcharacters",
		`tt0001	1	nm0001	actor	\N	["Neil McCauley"]`,
		`tt0001	2	nm0002	actress	\N	\N`,
		`tt0001	3	nm0003	director	director	\N`,
		`tt0001	4	nm0004	cinematographer	\N	\N`,
		`tt0009	1	nm0001	actor	\N	["Other"]`,
	)

	got, err := parsePrincipals(path, map[string]bool{"tt0001": true})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d credits, want 3: %+v", len(got), got)
	}
	if got[0].Role != "Neil McCauley" || got[0].Ordering != 1 || got[0].Category != "actor" {
		t.Errorf("actor credit = %+v", got[0])
	}
	if got[1].Role != "" {
		t.Errorf("missing characters produced role %q", got[1].Role)
	}
	if got[2].Category != "director" || got[2].Job != "director" {
		t.Errorf("director credit = %+v", got[2])
	}
}

func TestFirstCharacter(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{`["Jake Sully"]`, "Jake Sully"},
		{`["A","B"]`, "A"},
		{`[]`, `[]`},
		{`Self`, "Self"},
	}
	for _, tt := range tests {
		if got := firstCharacter(tt.raw); got != tt.want {
			t.Errorf("firstCharacter(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestParseNames(t *testing.T) {
	path := writeGzTSV(t, "names.tsv.gz",
		"nconst\tprimaryName\tbirthYear\tdeathYear\tprimaryProfession\tknownForTitles",
		`nm0001	Robert De Niro	1943	\N	actor	tt0001`,
		`nm0002	Unknown Extra	\N	\N	actor	tt0009`,
	)

	got, err := parseNames(path, map[string]bool{"nm0001": true})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d people, want 1", len(got))
	}
	p := got["nm0001"]
	if p.Name != "Robert De Niro" || p.BirthYear != 1943 {
		t.Errorf("person = %+v", p)
	}
}
