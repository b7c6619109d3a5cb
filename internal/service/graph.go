package service

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/stardustdb/stardust-mcp/internal/metrics"
	"github.com/stardustdb/stardust-mcp/internal/models"
)

// Traversal limits. Adjacency and edge-detail fetches share one in-flight
// ceiling per hop; node materialization runs in fixed chunks so a large
// visited set cannot open thousands of simultaneous requests.
const (
	hopConcurrency       = 16
	materializeChunkSize = 64
)

// GraphStore is the remote-store surface the expansion engine depends on.
type GraphStore interface {
	Adjacency(ctx context.Context, node int64, direction models.Direction, limit int) ([]models.AdjacencyRow, error)
	GetEdge(ctx context.Context, edgeID int64) (*models.Edge, error)
	GetNode(ctx context.Context, id int64) (*models.NodeHeader, error)
	NodeProps(ctx context.Context, id int64, keys ...string) (map[string]models.Value, error)
}

// GraphService performs hop-synchronous breadth-first subgraph expansion
// against a remote graph store.
type GraphService struct {
	store GraphStore
	log   *logrus.Logger
}

// NewGraphService creates a GraphService.
func NewGraphService(store GraphStore, log *logrus.Logger) *GraphService {
	return &GraphService{store: store, log: log}
}

// Expand grows a subgraph outward from the seed nodes, one frontier per
// hop. Adjacency and edge-detail failures degrade the result (the failing
// node or edge contributes nothing); a node materialization failure aborts
// the whole call, since every discovered id is expected to resolve.
// Returned nodes follow discovery order with seeds first; edges follow
// accumulation order.
func (s *GraphService) Expand(ctx context.Context, req models.ExpandRequest) ([]models.Node, []models.Edge, error) {
	if err := req.Validate(); err != nil {
		return nil, nil, err
	}

	s.log.WithFields(logrus.Fields{
		"seeds":          len(req.Seeds),
		"hops":           req.Hops,
		"per_node_limit": req.PerNodeLimit,
		"direction":      req.Direction,
	}).Debug("graph.expand")

	if len(req.Seeds) == 0 {
		return []models.Node{}, []models.Edge{}, nil
	}

	timer := prometheus.NewTimer(metrics.ExpansionDuration)
	defer timer.ObserveDuration()

	visited := make(map[int64]bool, len(req.Seeds))
	order := make([]int64, 0, len(req.Seeds))
	for _, id := range req.Seeds {
		if visited[id] {
			continue
		}
		visited[id] = true
		order = append(order, id)
	}

	edges := make(map[int64]models.Edge)
	var edgeOrder []int64

	frontier := order
	for hop := 0; hop < req.Hops && len(frontier) > 0; hop++ {
		next := s.expandHop(ctx, req, frontier, visited, edges, &edgeOrder)
		order = append(order, next...)
		frontier = next
	}

	nodes, err := s.materialize(ctx, order)
	if err != nil {
		metrics.ExpansionsTotal.WithLabelValues("error").Inc()

		return nil, nil, err
	}

	edgeList := make([]models.Edge, 0, len(edgeOrder))
	for _, id := range edgeOrder {
		edgeList = append(edgeList, edges[id])
	}

	metrics.ExpansionsTotal.WithLabelValues("ok").Inc()
	metrics.ExpansionNodes.Observe(float64(len(nodes)))
	metrics.ExpansionEdges.Observe(float64(len(edgeList)))

	return nodes, edgeList, nil
}

// expandHop queries adjacency for every frontier node, folds the rows into
// the edge accumulator, and returns the ids discovered this hop. Failures
// are tolerated per node and per edge.
func (s *GraphService) expandHop(
	ctx context.Context,
	req models.ExpandRequest,
	frontier []int64,
	visited map[int64]bool,
	edges map[int64]models.Edge,
	edgeOrder *[]int64,
) []int64 {
	results := RunAll(ctx, hopConcurrency, len(frontier), func(ctx context.Context, i int) ([]models.AdjacencyRow, error) {
		return s.store.Adjacency(ctx, frontier[i], req.Direction, req.PerNodeLimit)
	})

	var next []int64
	var pendingEdges []int64
	queued := make(map[int64]bool)

	for i, res := range results {
		if res.Err != nil {
			metrics.ToleratedFailures.WithLabelValues("adjacency").Inc()
			s.log.WithFields(logrus.Fields{
				"node":  frontier[i],
				"error": res.Err.Error(),
			}).Debug("graph.expand adjacency fetch dropped")

			continue
		}

		for _, row := range res.Value {
			switch row.Shape {
			case models.RowEmbedded:
				if _, ok := edges[row.Edge.ID]; !ok {
					edges[row.Edge.ID] = row.Edge
					*edgeOrder = append(*edgeOrder, row.Edge.ID)
				}
			case models.RowReference:
				if _, ok := edges[row.EdgeID]; !ok && !queued[row.EdgeID] {
					queued[row.EdgeID] = true
					pendingEdges = append(pendingEdges, row.EdgeID)
				}
			default:
				continue
			}

			if row.Neighbor != 0 && !visited[row.Neighbor] {
				visited[row.Neighbor] = true
				next = append(next, row.Neighbor)
			}
		}
	}

	if len(pendingEdges) > 0 {
		s.fetchEdgeDetails(ctx, pendingEdges, edges, edgeOrder)
	}

	return next
}

// fetchEdgeDetails resolves reference-shape edge ids in one batch. A
// failing detail fetch drops that edge from the result.
func (s *GraphService) fetchEdgeDetails(ctx context.Context, ids []int64, edges map[int64]models.Edge, edgeOrder *[]int64) {
	results := RunAll(ctx, hopConcurrency, len(ids), func(ctx context.Context, i int) (*models.Edge, error) {
		return s.store.GetEdge(ctx, ids[i])
	})

	for i, res := range results {
		if res.Err != nil {
			metrics.ToleratedFailures.WithLabelValues("edge_detail").Inc()
			s.log.WithFields(logrus.Fields{
				"edge":  ids[i],
				"error": res.Err.Error(),
			}).Debug("graph.expand edge detail dropped")

			continue
		}
		edge := *res.Value
		if _, ok := edges[edge.ID]; !ok {
			edges[edge.ID] = edge
			*edgeOrder = append(*edgeOrder, edge.ID)
		}
	}
}

// materialize fetches header and properties for every discovered node, in
// chunks. Any failure is fatal: adjacency gaps are expected under eventual
// consistency, a discovered id that no longer resolves is not.
func (s *GraphService) materialize(ctx context.Context, ids []int64) ([]models.Node, error) {
	nodes := make([]models.Node, 0, len(ids))
	for start := 0; start < len(ids); start += materializeChunkSize {
		end := min(start+materializeChunkSize, len(ids))
		chunk := ids[start:end]

		fetched, err := RunAllFailFast(ctx, materializeChunkSize, len(chunk), func(ctx context.Context, i int) (models.Node, error) {
			return s.fetchNode(ctx, chunk[i])
		})
		if err != nil {
			return nil, fmt.Errorf("materializing nodes: %w", err)
		}
		nodes = append(nodes, fetched...)
	}

	return nodes, nil
}

// FetchNode materializes a single node: header for labels, then the full
// property map overlaid on the header's hot properties.
func (s *GraphService) FetchNode(ctx context.Context, id int64) (*models.Node, error) {
	node, err := s.fetchNode(ctx, id)
	if err != nil {
		return nil, err
	}

	return &node, nil
}

func (s *GraphService) fetchNode(ctx context.Context, id int64) (models.Node, error) {
	header, err := s.store.GetNode(ctx, id)
	if err != nil {
		return models.Node{}, fmt.Errorf("fetching node %d: %w", id, err)
	}

	props, err := s.store.NodeProps(ctx, id)
	if err != nil {
		return models.Node{}, fmt.Errorf("fetching node %d props: %w", id, err)
	}

	merged := make(map[string]models.Value, len(header.HotProps)+len(props))
	for k, v := range header.HotProps {
		merged[k] = v
	}
	for k, v := range props {
		merged[k] = v
	}

	labels := header.Labels
	if labels == nil {
		labels = []string{}
	}

	return models.Node{ID: id, Labels: labels, Props: merged}, nil
}
