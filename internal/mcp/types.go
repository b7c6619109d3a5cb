package mcp

// Tool defaults, matching the documented tool signatures.
const (
	defaultHops         = 1
	defaultPerNodeLimit = 32
	defaultK            = 8
)

// ExpandFromSeedsArgs are the arguments of the expand_from_seeds tool.
type ExpandFromSeedsArgs struct {
	Seeds        []int64 `json:"seeds" jsonschema:"Node ids to expand from,required"`
	Hops         *int    `json:"hops,omitempty" jsonschema:"How many hops to expand (default 1; 0 fetches only the seeds)"`
	PerNodeLimit int     `json:"per_node_limit,omitempty" jsonschema:"Max adjacency rows fetched per node per hop (default 32)"`
	Direction    string  `json:"direction,omitempty" jsonschema:"Edge direction to follow: 'out', 'in' or 'both' (default 'both'),enum=out,enum=in,enum=both"`
}

// GraphRAGSearchArgs are the arguments of the graph_rag_search tool.
type GraphRAGSearchArgs struct {
	QueryText    string `json:"query_text" jsonschema:"Free-text query to embed and search for,required"`
	Tag          string `json:"tag,omitempty" jsonschema:"Vector tag to search under (defaults to the configured tag)"`
	K            int    `json:"k,omitempty" jsonschema:"Number of nearest neighbors to use as seeds (default 8)"`
	Hops         *int   `json:"hops,omitempty" jsonschema:"How many hops to expand from the hits (default 1)"`
	PerNodeLimit int    `json:"per_node_limit,omitempty" jsonschema:"Max adjacency rows fetched per node per hop (default 32)"`
	Direction    string `json:"direction,omitempty" jsonschema:"Edge direction to follow: 'out', 'in' or 'both' (default 'both'),enum=out,enum=in,enum=both"`
}

func hopsOrDefault(hops *int) int {
	if hops == nil {
		return defaultHops
	}

	return *hops
}

func intOrDefault(v, fallback int) int {
	if v == 0 {
		return fallback
	}

	return v
}
