package main

import (
	"bufio"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// datasetBaseURL hosts the public IMDb TSV dumps.
const datasetBaseURL = "https://datasets.imdbws.com/"

const (
	datasetBasics     = "title.basics.tsv.gz"
	datasetRatings    = "title.ratings.tsv.gz"
	datasetPrincipals = "title.principals.tsv.gz"
	datasetNames      = "name.basics.tsv.gz"
)

// missing marks an absent field in the IMDb TSV format.
const missing = `\N`

type movie struct {
	TConst  string
	Title   string
	Year    int
	Runtime int
	Genres  []string
	Rating  float64
	Votes   int
}

type person struct {
	NConst    string
	Name      string
	BirthYear int
}

type credit struct {
	TConst   string
	NConst   string
	Category string
	Ordering int
	Job      string
	Role     string
}

// fetchDataset downloads one dump into dir unless a cached copy exists,
// and returns the local path.
func fetchDataset(ctx context.Context, dir, name string) (string, error) {
	path := filepath.Join(dir, name)
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating data dir: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, datasetBaseURL+name, nil)
	if err != nil {
		return "", err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("downloading %s: %w", name, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("downloading %s: unexpected status %d", name, resp.StatusCode)
	}

	// Write to a temp file first so an interrupted download never
	// poisons the cache.
	tmp, err := os.CreateTemp(dir, name+".partial-*")
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("downloading %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	return path, nil
}

// forEachRow streams the gzipped TSV at path, skipping the header line,
// and calls fn with the split fields of every record.
func forEachRow(path string, fn func(fields []string) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return fmt.Errorf("opening %s: %w", filepath.Base(path), err)
	}
	defer gz.Close()

	sc := bufio.NewScanner(gz)
	sc.Buffer(make([]byte, 0, 1<<20), 1<<20)

	first := true
	for sc.Scan() {
		if first {
			first = false
			continue
		}
		if err := fn(strings.Split(sc.Text(), "\t")); err != nil {
			return err
		}
	}
	return sc.Err()
}

// parseRatings returns tconst -> (rating, votes) for every rated title.
func parseRatings(path string) (map[string]ratingRow, error) {
	out := make(map[string]ratingRow)
	err := forEachRow(path, func(f []string) error {
		if len(f) < 3 {
			return nil
		}
		rating, err := strconv.ParseFloat(f[1], 64)
		if err != nil {
			return nil
		}
		votes, err := strconv.Atoi(f[2])
		if err != nil {
			return nil
		}
		out[f[0]] = ratingRow{Rating: rating, Votes: votes}
		return nil
	})
	return out, err
}

type ratingRow struct {
	Rating float64
	Votes  int
}

// parseMovies returns every feature film that has a rating, joined with
// its rating row.
func parseMovies(path string, ratings map[string]ratingRow) ([]movie, error) {
	var out []movie
	err := forEachRow(path, func(f []string) error {
		if len(f) < 9 || f[1] != "movie" {
			return nil
		}
		r, ok := ratings[f[0]]
		if !ok {
			return nil
		}
		m := movie{
			TConst: f[0],
			Title:  f[2],
			Rating: r.Rating,
			Votes:  r.Votes,
		}
		if f[5] != missing {
			m.Year, _ = strconv.Atoi(f[5])
		}
		if f[7] != missing {
			m.Runtime, _ = strconv.Atoi(f[7])
		}
		if f[8] != missing {
			m.Genres = strings.Split(f[8], ",")
		}
		out = append(out, m)
		return nil
	})
	return out, err
}

// parsePrincipals returns actor, actress and director credits for the
// given titles. The characters column is a JSON array; only the first
// entry is kept as the role.
func parsePrincipals(path string, titles map[string]bool) ([]credit, error) {
	var out []credit
	err := forEachRow(path, func(f []string) error {
		if len(f) < 6 || !titles[f[0]] {
			return nil
		}
		cat := f[3]
		if cat != "actor" && cat != "actress" && cat != "director" {
			return nil
		}
		c := credit{TConst: f[0], NConst: f[2], Category: cat}
		c.Ordering, _ = strconv.Atoi(f[1])
		if f[4] != missing {
			c.Job = f[4]
		}
		if len(f) > 5 && f[5] != missing {
			c.Role = firstCharacter(f[5])
		}
		out = append(out, c)
		return nil
	})
	return out, err
}

// firstCharacter extracts the first name from a JSON-encoded character
// list, falling back to the raw text when it does not parse.
func firstCharacter(raw string) string {
	var names []string
	if err := json.Unmarshal([]byte(raw), &names); err != nil || len(names) == 0 {
		return raw
	}
	return names[0]
}

// parseNames returns the people named by keep.
func parseNames(path string, keep map[string]bool) (map[string]person, error) {
	out := make(map[string]person, len(keep))
	err := forEachRow(path, func(f []string) error {
		if len(f) < 3 || !keep[f[0]] {
			return nil
		}
		p := person{NConst: f[0], Name: f[1]}
		if f[2] != missing {
			p.BirthYear, _ = strconv.Atoi(f[2])
		}
		out[f[0]] = p
		return nil
	})
	return out, err
}
