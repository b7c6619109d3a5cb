package models

import "fmt"

// Direction constrains which adjacency a traversal follows.
type Direction string

const (
	DirectionOut  Direction = "out"
	DirectionIn   Direction = "in"
	DirectionBoth Direction = "both"
)

// ParseDirection validates a direction string. Empty defaults to both.
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case "":
		return DirectionBoth, nil
	case DirectionOut, DirectionIn, DirectionBoth:
		return Direction(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDirection, s)
}

// RowShape tags the two adjacency response shapes the store can return.
type RowShape uint8

const (
	// RowEmbedded rows carry the full edge and its metadata inline.
	RowEmbedded RowShape = iota + 1
	// RowReference rows carry only an edge id; detail is fetched separately.
	RowReference
)

// AdjacencyRow is the normalized adjacency record. The shape is decided
// once when the response is decoded; traversal switches on Shape and
// never re-inspects raw rows.
type AdjacencyRow struct {
	Shape    RowShape
	Neighbor int64 // node on the far end; zero when the row carried none
	Edge     Edge  // populated for RowEmbedded only
	EdgeID   int64 // populated for RowReference only
}

// Limits on a single expansion call. Hops and fan-out are capped so one
// request cannot walk an unbounded fraction of the graph.
const (
	MaxExpandHops   = 8
	MaxPerNodeLimit = 1000
	MaxSeeds        = 1024
)

// ExpandRequest parameterizes a subgraph expansion.
type ExpandRequest struct {
	Seeds        []int64
	Hops         int
	PerNodeLimit int
	Direction    Direction
}

// Validate checks bounds and fills the zero-valued direction.
func (r *ExpandRequest) Validate() error {
	dir, err := ParseDirection(string(r.Direction))
	if err != nil {
		return err
	}
	r.Direction = dir

	if len(r.Seeds) > MaxSeeds {
		return fmt.Errorf("seeds exceed maximum of %d", MaxSeeds)
	}

	if r.Hops < 0 {
		return fmt.Errorf("hops must be >= 0")
	}

	if r.Hops > MaxExpandHops {
		return fmt.Errorf("hops exceed maximum of %d", MaxExpandHops)
	}

	if r.PerNodeLimit < 1 {
		return fmt.Errorf("per-node limit must be >= 1")
	}

	if r.PerNodeLimit > MaxPerNodeLimit {
		return fmt.Errorf("per-node limit exceeds maximum of %d", MaxPerNodeLimit)
	}

	return nil
}

// SearchRequest parameterizes the embed-then-KNN entry path. Tag empty
// means the configured default vector tag.
type SearchRequest struct {
	Query        string
	Tag          string
	K            int
	Hops         int
	PerNodeLimit int
	Direction    Direction
}

// Validate checks bounds on SearchRequest and the embedded expansion
// parameters.
func (r *SearchRequest) Validate() error {
	if r.Query == "" {
		return ErrMissingQuery
	}

	if r.K < 1 {
		return fmt.Errorf("k must be >= 1")
	}

	if r.K > MaxSeeds {
		return fmt.Errorf("k exceeds maximum of %d", MaxSeeds)
	}

	exp := ExpandRequest{Hops: r.Hops, PerNodeLimit: r.PerNodeLimit, Direction: r.Direction}
	if err := exp.Validate(); err != nil {
		return err
	}
	r.Direction = exp.Direction

	return nil
}

// SubgraphType marks stored payloads so resource readers can recognize them.
const SubgraphType = "stardust-subgraph"

// Subgraph is the assembled retrieval payload. Immutable once stored;
// field order mirrors the resource JSON.
type Subgraph struct {
	Type            string     `json:"type"`
	Seeds           []int64    `json:"seeds"`
	VectorTag       string     `json:"vector_tag,omitempty"`
	Hops            int        `json:"hops"`
	Nodes           []Node     `json:"nodes"`
	Edges           []Edge     `json:"edges"`
	TopK            []ScoredID `json:"topk"`
	PreviewMarkdown string     `json:"preview_markdown"`
}
