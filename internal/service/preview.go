package service

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/stardustdb/stardust-mcp/internal/models"
)

// Preview formatting limits.
const (
	previewMaxNodes = 20
	previewMaxProps = 300
)

// RenderPreview produces the human-readable markdown preview of a node
// list. Scores, when present for a node, are annotated on its line. Pure
// formatting: identical inputs always produce identical output.
func RenderPreview(nodes []models.Node, scores map[int64]float64) string {
	var b strings.Builder
	b.WriteString("# Subgraph Preview")

	for i, n := range nodes {
		if i >= previewMaxNodes {
			break
		}

		b.WriteString("\n- Node ")
		fmt.Fprintf(&b, "%d", n.ID)
		if len(n.Labels) > 0 {
			b.WriteString(" (")
			b.WriteString(strings.Join(n.Labels, ", "))
			b.WriteString(")")
		}
		if score, ok := scores[n.ID]; ok {
			fmt.Fprintf(&b, " [score=%.3f]", score)
		}
		b.WriteString(": ")
		b.WriteString(truncate(formatProps(n.Props), previewMaxProps))
	}

	return b.String()
}

// formatProps renders a property map as {key: value, ...} with sorted keys
// so the preview is stable across runs.
func formatProps(props map[string]models.Value) string {
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(props[k].String())
	}
	b.WriteByte('}')

	return b.String()
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}

	cut := s[:limit]
	for len(cut) > 0 && !utf8.ValidString(cut) {
		cut = cut[:len(cut)-1]
	}

	return cut
}
