package service

import (
	"context"
	"sync"

	"github.com/stardustdb/stardust-mcp/internal/models"
)

// mockGraphStore records calls and returns configured responses.
type mockGraphStore struct {
	mu    sync.Mutex
	calls []string

	adjacency func(ctx context.Context, node int64, direction models.Direction, limit int) ([]models.AdjacencyRow, error)
	getEdge   func(ctx context.Context, edgeID int64) (*models.Edge, error)
	getNode   func(ctx context.Context, id int64) (*models.NodeHeader, error)
	nodeProps func(ctx context.Context, id int64, keys ...string) (map[string]models.Value, error)
}

func (m *mockGraphStore) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, name)
}

func (m *mockGraphStore) callCount(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if c == name {
			n++
		}
	}
	return n
}

func (m *mockGraphStore) Adjacency(ctx context.Context, node int64, direction models.Direction, limit int) ([]models.AdjacencyRow, error) {
	m.record("Adjacency")
	return m.adjacency(ctx, node, direction, limit)
}

func (m *mockGraphStore) GetEdge(ctx context.Context, edgeID int64) (*models.Edge, error) {
	m.record("GetEdge")
	return m.getEdge(ctx, edgeID)
}

func (m *mockGraphStore) GetNode(ctx context.Context, id int64) (*models.NodeHeader, error) {
	m.record("GetNode")
	if m.getNode != nil {
		return m.getNode(ctx, id)
	}
	return &models.NodeHeader{ID: id, Labels: []string{}}, nil
}

func (m *mockGraphStore) NodeProps(ctx context.Context, id int64, keys ...string) (map[string]models.Value, error) {
	m.record("NodeProps")
	if m.nodeProps != nil {
		return m.nodeProps(ctx, id, keys...)
	}
	return map[string]models.Value{}, nil
}

// mockKNNStore records calls and returns configured responses.
type mockKNNStore struct {
	mu    sync.Mutex
	calls []string

	knn func(ctx context.Context, tag string, query []float32, k int) ([]models.ScoredID, error)
}

func (m *mockKNNStore) KNN(ctx context.Context, tag string, query []float32, k int) ([]models.ScoredID, error) {
	m.mu.Lock()
	m.calls = append(m.calls, "KNN")
	m.mu.Unlock()
	return m.knn(ctx, tag, query, k)
}

// mockEmbedder returns a configured vector or error.
type mockEmbedder struct {
	generate func(ctx context.Context, text string) ([]float32, error)
}

func (m *mockEmbedder) Generate(ctx context.Context, text string) ([]float32, error) {
	return m.generate(ctx, text)
}
