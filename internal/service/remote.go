package service

import (
	"context"
	"errors"

	"github.com/stardustdb/stardust-mcp/client"
	"github.com/stardustdb/stardust-mcp/internal/metrics"
	"github.com/stardustdb/stardust-mcp/internal/models"
)

// RemoteStore adapts the Stardust SDK client to the store interfaces the
// services consume, counting every remote call by operation and outcome.
type RemoteStore struct {
	c *client.Client
}

// NewRemoteStore wraps a Stardust client.
func NewRemoteStore(c *client.Client) *RemoteStore {
	return &RemoteStore{c: c}
}

// Compile-time checks against the consumer interfaces.
var (
	_ GraphStore = (*RemoteStore)(nil)
	_ KNNStore   = (*RemoteStore)(nil)
)

func (r *RemoteStore) Adjacency(ctx context.Context, node int64, direction models.Direction, limit int) ([]models.AdjacencyRow, error) {
	rows, err := r.c.Graph.Adjacency(ctx, node, direction, limit)
	count("adjacency", err)

	return rows, err
}

func (r *RemoteStore) GetEdge(ctx context.Context, edgeID int64) (*models.Edge, error) {
	edge, err := r.c.Edges.Get(ctx, edgeID)
	count("get_edge", err)

	return edge, err
}

func (r *RemoteStore) GetNode(ctx context.Context, id int64) (*models.NodeHeader, error) {
	header, err := r.c.Nodes.Get(ctx, id)
	count("get_node", err)

	return header, err
}

func (r *RemoteStore) NodeProps(ctx context.Context, id int64, keys ...string) (map[string]models.Value, error) {
	props, err := r.c.Nodes.Props(ctx, id, keys...)
	count("node_props", err)

	return props, err
}

func (r *RemoteStore) KNN(ctx context.Context, tag string, query []float32, k int) ([]models.ScoredID, error) {
	hits, err := r.c.Search.KNN(ctx, tag, query, k)
	count("knn", err)

	return hits, err
}

// Health reports whether the remote store answers its liveness check.
func (r *RemoteStore) Health(ctx context.Context) error {
	resp, err := r.c.Health(ctx)
	count("health", err)
	if err != nil {
		return err
	}
	if !resp.OK {
		return errNotReady
	}

	return nil
}

var errNotReady = errors.New("stardust store reports not ok")

func count(op string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.RemoteCalls.WithLabelValues(op, status).Inc()
}
