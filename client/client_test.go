package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stardustdb/stardust-mcp/internal/models"
)

// newTestServer creates a test server that routes to the given handler map.
// Keys are "METHOD /path", values are handler funcs.
func newTestServer(t *testing.T, routes map[string]http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	mux := http.NewServeMux()
	for pattern, handler := range routes {
		mux.HandleFunc(pattern, handler)
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	c := New(srv.URL, WithAPIKey("test-key"))
	return srv, c
}

func jsonResponse(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func TestHealth(t *testing.T) {
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/health": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 200, map[string]bool{"ok": true})
		},
	})
	resp, err := c.Health(context.Background())
	if err != nil {
		t.Fatalf("Health() error: %v", err)
	}
	if !resp.OK {
		t.Error("got ok=false, want true")
	}
}

func TestNodeGet(t *testing.T) {
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/node": func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Query().Get("id") {
			case "1":
				// HTTP dialect: labels as plain array, hotProps as object.
				jsonResponse(w, 200, map[string]any{
					"header": map[string]any{
						"id":       1,
						"labels":   []string{"Movie"},
						"hotProps": map[string]any{"title": "The Matrix", "year": 1999},
					},
				})
			case "7":
				// RPC dialect: node wrapper, labels under names.
				jsonResponse(w, 200, map[string]any{
					"node": map[string]any{
						"labels": map[string]any{"names": []string{"Person", "Actor"}},
					},
				})
			default:
				jsonResponse(w, 404, map[string]string{"error": "node not found"})
			}
		},
	})

	ctx := context.Background()

	h, err := c.Nodes.Get(ctx, 1)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if h.ID != 1 || len(h.Labels) != 1 || h.Labels[0] != "Movie" {
		t.Errorf("Get: got id=%d labels=%v", h.ID, h.Labels)
	}
	if v, ok := h.HotProps["year"].AsInt(); !ok || v != 1999 {
		t.Errorf("Get: hot prop year = %v", h.HotProps["year"])
	}

	h, err = c.Nodes.Get(ctx, 7)
	if err != nil {
		t.Fatalf("Get (rpc dialect) error: %v", err)
	}
	if h.ID != 7 {
		t.Errorf("Get: missing id should fall back to requested, got %d", h.ID)
	}
	if len(h.Labels) != 2 || h.Labels[0] != "Person" {
		t.Errorf("Get: labels = %v", h.Labels)
	}

	_, err = c.Nodes.Get(ctx, 99)
	if !IsNotFound(err) {
		t.Errorf("expected not found, got: %v", err)
	}
}

func TestNodeProps(t *testing.T) {
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/nodeProps": func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("keys") == "title" {
				// RPC dialect: key/val list.
				jsonResponse(w, 200, map[string]any{
					"props": []map[string]any{{"key": "title", "val": "Heat"}},
				})
				return
			}
			jsonResponse(w, 200, map[string]any{
				"props": map[string]any{"title": "Heat", "rating": 8.3},
			})
		},
	})

	ctx := context.Background()

	props, err := c.Nodes.Props(ctx, 5)
	if err != nil {
		t.Fatalf("Props error: %v", err)
	}
	if v, _ := props["title"].AsText(); v != "Heat" {
		t.Errorf("title = %v", props["title"])
	}
	if v, ok := props["rating"].AsFloat(); !ok || v != 8.3 {
		t.Errorf("rating = %v", props["rating"])
	}

	props, err = c.Nodes.Props(ctx, 5, "title")
	if err != nil {
		t.Fatalf("Props (keys) error: %v", err)
	}
	if len(props) != 1 {
		t.Errorf("filtered props: got %d entries", len(props))
	}
}

func TestNodeCreateUpsertDelete(t *testing.T) {
	var gotCreate, gotUpsert url.Values
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"POST /api/node": func(w http.ResponseWriter, r *http.Request) {
			gotCreate = r.URL.Query()
			jsonResponse(w, 200, map[string]int64{"id": 42})
		},
		"POST /api/upsertNodeProps": func(w http.ResponseWriter, r *http.Request) {
			gotUpsert = r.URL.Query()
			jsonResponse(w, 200, map[string]bool{"ok": true})
		},
		"DELETE /api/node": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 200, map[string]bool{"ok": true})
		},
	})

	ctx := context.Background()

	id, err := c.Nodes.Create(ctx, []string{"Movie", "Classic"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if id != 42 {
		t.Errorf("Create: got id %d", id)
	}
	if gotCreate.Get("labels") != "Movie,Classic" {
		t.Errorf("Create labels param: %q", gotCreate.Get("labels"))
	}

	err = c.Nodes.UpsertProps(ctx, 42, UpsertPropsRequest{
		SetHot: map[string]models.Value{
			"year":  models.Int(1999),
			"title": models.Text("The Matrix"),
		},
		Unset: []string{"stale"},
	})
	if err != nil {
		t.Fatalf("UpsertProps error: %v", err)
	}
	if gotUpsert.Get("setHot") != "title=The Matrix,year=1999" {
		t.Errorf("setHot param: %q", gotUpsert.Get("setHot"))
	}
	if gotUpsert.Get("unset") != "stale" {
		t.Errorf("unset param: %q", gotUpsert.Get("unset"))
	}

	if err := c.Nodes.Delete(ctx, 42); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
}

func TestEdgeGet(t *testing.T) {
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/edge": func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Query().Get("edgeId") {
			case "10":
				// Flat HTTP dialect, endpoints only.
				jsonResponse(w, 200, map[string]int64{"id": 10, "src": 1, "dst": 2})
			case "11":
				// Merged RPC dialect with metadata.
				jsonResponse(w, 200, map[string]any{
					"edge": map[string]int64{"id": 11, "src": 1, "dst": 3},
					"meta": map[string]any{
						"type":  "ACTED_IN",
						"props": []map[string]any{{"key": "role", "val": "Neo"}},
					},
				})
			default:
				jsonResponse(w, 404, map[string]string{"error": "edge not found"})
			}
		},
	})

	ctx := context.Background()

	e, err := c.Edges.Get(ctx, 10)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if e.ID != 10 || e.Src != 1 || e.Dst != 2 || e.Type != "" {
		t.Errorf("flat edge: %+v", e)
	}

	e, err = c.Edges.Get(ctx, 11)
	if err != nil {
		t.Fatalf("Get (merged) error: %v", err)
	}
	if e.Type != "ACTED_IN" || e.Dst != 3 {
		t.Errorf("merged edge: %+v", e)
	}
	if v, _ := e.Props["role"].AsText(); v != "Neo" {
		t.Errorf("edge prop role = %v", e.Props["role"])
	}
}

func TestEdgeCreateUpdateDelete(t *testing.T) {
	var gotCreate url.Values
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"POST /api/edge": func(w http.ResponseWriter, r *http.Request) {
			gotCreate = r.URL.Query()
			jsonResponse(w, 200, map[string]int64{"id": 77})
		},
		"POST /api/updateEdgeProps": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 200, map[string]bool{"ok": true})
		},
		"DELETE /api/edge": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 200, map[string]bool{"ok": true})
		},
	})

	ctx := context.Background()

	id, err := c.Edges.Create(ctx, 1, 2, "DIRECTED")
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if id != 77 {
		t.Errorf("Create: got id %d", id)
	}
	if gotCreate.Get("src") != "1" || gotCreate.Get("dst") != "2" || gotCreate.Get("type") != "DIRECTED" {
		t.Errorf("Create params: %v", gotCreate)
	}

	err = c.Edges.UpdateProps(ctx, 77, map[string]models.Value{"job": models.Text("director")}, nil)
	if err != nil {
		t.Fatalf("UpdateProps error: %v", err)
	}

	if err := c.Edges.Delete(ctx, 77); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
}

func TestAdjacencyShapes(t *testing.T) {
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/adjacency": func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Query().Get("node") {
			case "1":
				// Reference dialect.
				jsonResponse(w, 200, map[string]any{
					"items": []map[string]any{
						{"edgeId": 10, "neighbor": 2},
						{"edgeId": 11, "neighbor": 3},
					},
				})
			case "2":
				// Embedded dialect.
				jsonResponse(w, 200, map[string]any{
					"adjacent": []map[string]any{
						{
							"edge":      map[string]int64{"id": 10, "src": 1, "dst": 2},
							"meta":      map[string]any{"type": "KNOWS"},
							"otherNode": 1,
						},
					},
				})
			case "3":
				// Rows matching neither shape contribute nothing.
				jsonResponse(w, 200, map[string]any{
					"items": []map[string]any{
						{"edgeId": 12, "neighbor": 4},
						{"mystery": true},
					},
				})
			}
		},
	})

	ctx := context.Background()

	rows, err := c.Graph.Adjacency(ctx, 1, models.DirectionBoth, 32)
	if err != nil {
		t.Fatalf("Adjacency error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("reference rows: got %d", len(rows))
	}
	if rows[0].Shape != models.RowReference || rows[0].EdgeID != 10 || rows[0].Neighbor != 2 {
		t.Errorf("row 0: %+v", rows[0])
	}

	rows, err = c.Graph.Adjacency(ctx, 2, models.DirectionOut, 0)
	if err != nil {
		t.Fatalf("Adjacency (embedded) error: %v", err)
	}
	if len(rows) != 1 || rows[0].Shape != models.RowEmbedded {
		t.Fatalf("embedded rows: %+v", rows)
	}
	if rows[0].Edge.ID != 10 || rows[0].Edge.Type != "KNOWS" || rows[0].Neighbor != 1 {
		t.Errorf("embedded row: %+v", rows[0])
	}

	rows, err = c.Graph.Adjacency(ctx, 3, models.DirectionBoth, 0)
	if err != nil {
		t.Fatalf("Adjacency (mixed) error: %v", err)
	}
	if len(rows) != 1 || rows[0].EdgeID != 12 {
		t.Errorf("unknown rows should be dropped: %+v", rows)
	}
}

func TestNeighborsAndDegree(t *testing.T) {
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/neighbors": func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("direction") != "out" {
				jsonResponse(w, 400, map[string]string{"error": "bad direction"})
				return
			}
			jsonResponse(w, 200, map[string]any{"neighbors": []int64{2, 3, 5}})
		},
		"GET /api/degree": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 200, map[string]int64{"degree": 3})
		},
	})

	ctx := context.Background()

	ids, err := c.Graph.Neighbors(ctx, 1, models.DirectionOut, 10)
	if err != nil || len(ids) != 3 {
		t.Fatalf("Neighbors: err=%v, len=%d", err, len(ids))
	}

	deg, err := c.Graph.Degree(ctx, 1, models.DirectionBoth)
	if err != nil || deg != 3 {
		t.Fatalf("Degree: err=%v, deg=%d", err, deg)
	}
}

func TestKNN(t *testing.T) {
	var gotQuery url.Values
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/knn": func(w http.ResponseWriter, r *http.Request) {
			gotQuery = r.URL.Query()
			jsonResponse(w, 200, map[string]any{
				"hits": []map[string]any{
					{"id": 5, "score": 0.9},
					{"id": 7, "score": 0.7},
				},
			})
		},
	})

	hits, err := c.Search.KNN(context.Background(), "text", []float32{0.5, -1.25}, 2)
	if err != nil {
		t.Fatalf("KNN error: %v", err)
	}
	if len(hits) != 2 || hits[0].ID != 5 || hits[0].Score != 0.9 {
		t.Errorf("hits: %+v", hits)
	}
	if gotQuery.Get("q") != "0.5,-1.25" {
		t.Errorf("q param: %q", gotQuery.Get("q"))
	}
	if gotQuery.Get("tag") != "text" || gotQuery.Get("k") != "2" {
		t.Errorf("params: %v", gotQuery)
	}
}

func TestVectors(t *testing.T) {
	var gotUpsert url.Values
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"POST /api/upsertVector": func(w http.ResponseWriter, r *http.Request) {
			gotUpsert = r.URL.Query()
			jsonResponse(w, 200, map[string]bool{"ok": true})
		},
		"GET /api/vectors": func(w http.ResponseWriter, _ *http.Request) {
			// 1.0 and -2.0 as little-endian float32: AACAPwAAAMA=
			jsonResponse(w, 200, map[string]any{
				"vectors": []map[string]any{
					{"tag": "text", "dim": 2, "data": "AACAPwAAAMA="},
				},
			})
		},
		"POST /api/deleteVector": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 200, map[string]bool{"ok": true})
		},
	})

	ctx := context.Background()

	if err := c.Vectors.Upsert(ctx, 9, "text", []float32{1, -2}); err != nil {
		t.Fatalf("Upsert error: %v", err)
	}
	if gotUpsert.Get("dim") != "2" || gotUpsert.Get("data_b64") == "" {
		t.Errorf("Upsert params: %v", gotUpsert)
	}

	vecs, err := c.Vectors.Get(ctx, 9)
	if err != nil || len(vecs) != 1 {
		t.Fatalf("Get: err=%v, len=%d", err, len(vecs))
	}
	if vecs[0].Tag != "text" || len(vecs[0].Data) != 2 || vecs[0].Data[0] != 1 || vecs[0].Data[1] != -2 {
		t.Errorf("vector: %+v", vecs[0])
	}

	if err := c.Vectors.Delete(ctx, 9, "text"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
}

func TestAPIErrorFallback(t *testing.T) {
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/node": func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(500)
			w.Write([]byte("upstream exploded")) //nolint:errcheck
		},
	})

	_, err := c.Nodes.Get(context.Background(), 1)
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.StatusCode != 500 || apiErr.Message != "upstream exploded" {
		t.Errorf("error: %+v", apiErr)
	}
	if IsNotFound(err) {
		t.Error("500 should not be not-found")
	}
}

func TestAuthHeader(t *testing.T) {
	var gotAuth string
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/health": func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			jsonResponse(w, 200, map[string]bool{"ok": true})
		},
	})

	c.Health(context.Background()) //nolint:errcheck
	if gotAuth != "Bearer test-key" {
		t.Errorf("auth header: got %q, want %q", gotAuth, "Bearer test-key")
	}
}
