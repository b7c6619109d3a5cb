package client

import (
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/stardustdb/stardust-mcp/internal/models"
)

// HealthResponse is the liveness check payload.
type HealthResponse struct {
	OK bool `json:"ok"`
}

type idResponse struct {
	ID int64 `json:"id"`
}

// The store speaks two dialects depending on which transport produced the
// response: the HTTP facade emits plain arrays and objects, the RPC bridge
// emits named wrappers ({"names": [...]}) and key/val lists. The decoders
// below accept both so callers never see the difference.

// labelList accepts ["A","B"] or {"names":["A","B"]}.
type labelList []string

func (l *labelList) UnmarshalJSON(data []byte) error {
	switch leadByte(data) {
	case '[':
		var names []string
		if err := json.Unmarshal(data, &names); err != nil {
			return err
		}
		*l = names
		return nil
	case '{':
		var obj struct {
			Names []string `json:"names"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		*l = obj.Names
		return nil
	case 'n':
		*l = nil
		return nil
	}
	return fmt.Errorf("unsupported labels encoding")
}

type wireProp struct {
	Key string       `json:"key"`
	Val models.Value `json:"val"`
}

// propMap accepts {"k": v, ...} or [{"key":"k","val":v}, ...].
type propMap map[string]models.Value

func (p *propMap) UnmarshalJSON(data []byte) error {
	switch leadByte(data) {
	case '{':
		var m map[string]models.Value
		if err := json.Unmarshal(data, &m); err != nil {
			return err
		}
		*p = m
		return nil
	case '[':
		var list []wireProp
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		m := make(map[string]models.Value, len(list))
		for _, kv := range list {
			if kv.Key != "" {
				m[kv.Key] = kv.Val
			}
		}
		*p = m
		return nil
	case 'n':
		*p = nil
		return nil
	}
	return fmt.Errorf("unsupported props encoding")
}

type wireNode struct {
	ID       int64     `json:"id"`
	Labels   labelList `json:"labels"`
	HotProps propMap   `json:"hotProps"`
}

type nodeEnvelope struct {
	Header *wireNode `json:"header"`
	Node   *wireNode `json:"node"`
}

func (e *nodeEnvelope) header() (*wireNode, error) {
	if e.Header != nil {
		return e.Header, nil
	}
	if e.Node != nil {
		return e.Node, nil
	}
	return nil, fmt.Errorf("malformed node response: no header")
}

type wireEdgeIDs struct {
	ID  int64 `json:"id"`
	Src int64 `json:"src"`
	Dst int64 `json:"dst"`
}

type wireEdgeMeta struct {
	Type  string  `json:"type"`
	Props propMap `json:"props"`
}

// edgeEnvelope accepts the flat {"id","src","dst"} form or the merged
// {"edge": {...}, "meta": {...}} form.
type edgeEnvelope struct {
	wireEdgeIDs
	Edge *wireEdgeIDs  `json:"edge"`
	Meta *wireEdgeMeta `json:"meta"`
}

func (e *edgeEnvelope) toEdge() models.Edge {
	out := models.Edge{ID: e.ID, Src: e.Src, Dst: e.Dst, Props: map[string]models.Value{}}
	if e.Edge != nil {
		out.ID, out.Src, out.Dst = e.Edge.ID, e.Edge.Src, e.Edge.Dst
	}
	if e.Meta != nil {
		out.Type = e.Meta.Type
		if e.Meta.Props != nil {
			out.Props = map[string]models.Value(e.Meta.Props)
		}
	}
	return out
}

type adjacencyItem struct {
	EdgeID    *int64        `json:"edgeId"`
	Neighbor  *int64        `json:"neighbor"`
	Edge      *wireEdgeIDs  `json:"edge"`
	Meta      *wireEdgeMeta `json:"meta"`
	OtherNode *int64        `json:"otherNode"`
}

type adjacencyResponse struct {
	Items    []adjacencyItem `json:"items"`
	Adjacent []adjacencyItem `json:"adjacent"`
}

// rows normalizes both adjacency dialects into the closed row variant.
// Items that match neither shape contribute nothing.
func (r *adjacencyResponse) rows() []models.AdjacencyRow {
	raw := r.Items
	if len(raw) == 0 {
		raw = r.Adjacent
	}
	out := make([]models.AdjacencyRow, 0, len(raw))
	for _, it := range raw {
		switch {
		case it.Edge != nil:
			edge := models.Edge{
				ID:    it.Edge.ID,
				Src:   it.Edge.Src,
				Dst:   it.Edge.Dst,
				Props: map[string]models.Value{},
			}
			if it.Meta != nil {
				edge.Type = it.Meta.Type
				if it.Meta.Props != nil {
					edge.Props = map[string]models.Value(it.Meta.Props)
				}
			}
			out = append(out, models.AdjacencyRow{
				Shape:    models.RowEmbedded,
				Edge:     edge,
				Neighbor: deref(it.OtherNode),
			})
		case it.EdgeID != nil:
			out = append(out, models.AdjacencyRow{
				Shape:    models.RowReference,
				EdgeID:   *it.EdgeID,
				Neighbor: deref(it.Neighbor),
			})
		}
	}
	return out
}

type knnResponse struct {
	Hits []models.ScoredID `json:"hits"`
}

type neighborsResponse struct {
	Neighbors []int64 `json:"neighbors"`
}

type degreeResponse struct {
	Degree int64 `json:"degree"`
}

// TaggedVector is a stored vector with its tag. Data travels base64
// encoded as little-endian float32s.
type TaggedVector struct {
	Tag  string `json:"tag"`
	Dim  int    `json:"dim"`
	Data []float32
}

func (v *TaggedVector) UnmarshalJSON(data []byte) error {
	var wire struct {
		Tag  string `json:"tag"`
		Dim  int    `json:"dim"`
		Data string `json:"data"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	raw, err := base64.StdEncoding.DecodeString(wire.Data)
	if err != nil {
		return fmt.Errorf("decode vector data: %w", err)
	}
	if len(raw)%4 != 0 {
		return fmt.Errorf("vector data length %d not a multiple of 4", len(raw))
	}
	floats := make([]float32, len(raw)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[i*4:]))
	}
	v.Tag = wire.Tag
	v.Dim = wire.Dim
	v.Data = floats
	return nil
}

type vectorsResponse struct {
	Vectors []TaggedVector `json:"vectors"`
}

// encodeFloatsCSV renders a vector for the q/data query parameters.
func encodeFloatsCSV(vec []float32) string {
	var b strings.Builder
	for i, f := range vec {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(float64(f), 'g', -1, 32))
	}
	return b.String()
}

func deref(p *int64) int64 {
	if p == nil {
		return 0
	}
	return *p
}

func leadByte(data []byte) byte {
	for _, c := range data {
		switch c {
		case ' ', '\t', '\n', '\r':
			continue
		}
		return c
	}
	return 0
}
