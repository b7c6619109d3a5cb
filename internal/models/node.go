// Package models defines data types for the Stardust retrieval layer.
package models

// Node is a materialized graph vertex: header labels plus the full
// property map fetched during subgraph assembly.
type Node struct {
	ID     int64            `json:"id"`
	Labels []string         `json:"labels"`
	Props  map[string]Value `json:"props"`
}

// NodeHeader is the lightweight record returned by a header fetch,
// before properties are resolved.
type NodeHeader struct {
	ID       int64            `json:"id"`
	Labels   []string         `json:"labels"`
	HotProps map[string]Value `json:"hotProps,omitempty"`
}

// ScoredID pairs a node id with a similarity score from a KNN query.
// Explicit seeds carry a uniform score of 1.0.
type ScoredID struct {
	ID    int64   `json:"id"`
	Score float64 `json:"score"`
}
