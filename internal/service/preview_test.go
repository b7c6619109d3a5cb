package service

import (
	"strings"
	"testing"

	"github.com/stardustdb/stardust-mcp/internal/models"
)

func TestRenderPreview_Basic(t *testing.T) {
	nodes := []models.Node{
		{ID: 1, Labels: []string{"Movie"}, Props: map[string]models.Value{
			"title": models.Text("The Matrix"),
			"year":  models.Int(1999),
		}},
		{ID: 2, Labels: nil, Props: map[string]models.Value{}},
	}

	got := RenderPreview(nodes, nil)
	want := "# Subgraph Preview\n" +
		"- Node 1 (Movie): {title: The Matrix, year: 1999}\n" +
		"- Node 2: {}"
	if got != want {
		t.Errorf("preview mismatch:\ngot  %q\nwant %q", got, want)
	}
}

func TestRenderPreview_ScoreAnnotation(t *testing.T) {
	nodes := []models.Node{
		{ID: 5, Labels: []string{"Movie", "Classic"}, Props: map[string]models.Value{}},
		{ID: 7, Labels: []string{"Person"}, Props: map[string]models.Value{}},
	}
	scores := map[int64]float64{5: 0.9}

	got := RenderPreview(nodes, scores)
	if !strings.Contains(got, "- Node 5 (Movie, Classic) [score=0.900]: {}") {
		t.Errorf("missing score annotation:\n%s", got)
	}
	if strings.Contains(got, "Node 7 (Person) [score") {
		t.Errorf("node without a score must not be annotated:\n%s", got)
	}
}

func TestRenderPreview_CapsAtTwentyNodes(t *testing.T) {
	nodes := make([]models.Node, 30)
	for i := range nodes {
		nodes[i] = models.Node{ID: int64(i + 1), Props: map[string]models.Value{}}
	}

	got := RenderPreview(nodes, nil)
	if n := strings.Count(got, "- Node "); n != 20 {
		t.Errorf("expected 20 preview lines, got %d", n)
	}
	if strings.Contains(got, "- Node 21:") {
		t.Error("node 21 must not appear in the preview")
	}
}

func TestRenderPreview_TruncatesProps(t *testing.T) {
	nodes := []models.Node{{ID: 1, Props: map[string]models.Value{
		"plot": models.Text(strings.Repeat("x", 500)),
	}}}

	got := RenderPreview(nodes, nil)
	line := strings.Split(got, "\n")[1]
	propsPart := strings.SplitN(line, ": ", 2)[1]
	if len(propsPart) > previewMaxProps {
		t.Errorf("props must be truncated to %d chars, got %d", previewMaxProps, len(propsPart))
	}
}

func TestRenderPreview_Deterministic(t *testing.T) {
	nodes := []models.Node{{ID: 1, Props: map[string]models.Value{
		"c": models.Int(3), "a": models.Int(1), "b": models.Int(2),
	}}}

	first := RenderPreview(nodes, nil)
	for i := 0; i < 10; i++ {
		if got := RenderPreview(nodes, nil); got != first {
			t.Fatalf("preview is not deterministic:\n%q\nvs\n%q", first, got)
		}
	}
	if !strings.Contains(first, "{a: 1, b: 2, c: 3}") {
		t.Errorf("props must render in sorted key order, got %q", first)
	}
}
