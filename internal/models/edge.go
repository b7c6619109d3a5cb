package models

// Edge is a directed relationship between two nodes. Traversal follows
// edges in both directions unless the request constrains it; Src and Dst
// are fixed regardless of which endpoint the edge was discovered from.
type Edge struct {
	ID    int64            `json:"id"`
	Src   int64            `json:"src"`
	Dst   int64            `json:"dst"`
	Type  string           `json:"type"`
	Props map[string]Value `json:"props"`
}
