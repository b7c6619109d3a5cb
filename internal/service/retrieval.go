package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/stardustdb/stardust-mcp/internal/models"
)

// SubgraphURIPrefix is the resource scheme under which stored payloads are
// readable.
const SubgraphURIPrefix = "stardust://subgraph/"

// Default vector tag when neither the request nor the configuration names
// one.
const defaultVectorTag = "text"

// KNNStore is the vector-search surface the retrieval service depends on.
type KNNStore interface {
	KNN(ctx context.Context, tag string, query []float32, k int) ([]models.ScoredID, error)
}

// Embedder generates vector embeddings from text.
type Embedder interface {
	Generate(ctx context.Context, text string) ([]float32, error)
}

// RAGResult summarizes a stored subgraph for the tool caller. The payload
// itself is read later through the resource URI.
type RAGResult struct {
	ResourceURI string  `json:"resource_uri"`
	SeedIDs     []int64 `json:"seed_ids"`
	K           int     `json:"k"`
	Hops        int     `json:"hops"`
	TotalNodes  int     `json:"total_nodes"`
	TotalEdges  int     `json:"total_edges"`
}

// RetrievalService ties seed resolution, subgraph expansion, preview
// rendering and session storage together. Both entry paths converge on
// the same expansion engine; a session key is only ever created after the
// whole call has succeeded.
type RetrievalService struct {
	graph    *GraphService
	knn      KNNStore
	embedder Embedder
	sessions *SessionStore
	tag      string
	log      *logrus.Logger
}

// NewRetrievalService creates a RetrievalService. embedder may be nil, in
// which case the KNN entry path reports a configuration error; tag empty
// falls back to "text".
func NewRetrievalService(
	graph *GraphService,
	knn KNNStore,
	embedder Embedder,
	sessions *SessionStore,
	tag string,
	log *logrus.Logger,
) *RetrievalService {
	if tag == "" {
		tag = defaultVectorTag
	}

	return &RetrievalService{
		graph:    graph,
		knn:      knn,
		embedder: embedder,
		sessions: sessions,
		tag:      tag,
		log:      log,
	}
}

// ExpandFromSeeds expands a subgraph from explicitly supplied seed ids and
// stores the payload. Every seed carries a uniform score of 1.0 so the
// payload has the same shape on both entry paths.
func (s *RetrievalService) ExpandFromSeeds(ctx context.Context, req models.ExpandRequest) (*RAGResult, error) {
	nodes, edges, err := s.graph.Expand(ctx, req)
	if err != nil {
		return nil, err
	}

	topk := make([]models.ScoredID, 0, len(req.Seeds))
	for _, id := range req.Seeds {
		topk = append(topk, models.ScoredID{ID: id, Score: 1.0})
	}

	payload := &models.Subgraph{
		Type:            models.SubgraphType,
		Seeds:           req.Seeds,
		Hops:            req.Hops,
		Nodes:           nodes,
		Edges:           edges,
		TopK:            topk,
		PreviewMarkdown: RenderPreview(nodes, nil),
	}

	return s.store(payload, req.Seeds, len(req.Seeds), req.Hops)
}

// GraphRAGSearch embeds the query, finds the k nearest vectors under the
// tag, and expands a subgraph from the hits. The hit scores travel into
// the payload's topk and preview. An embedding or KNN failure is fatal and
// nothing is stored.
func (s *RetrievalService) GraphRAGSearch(ctx context.Context, req models.SearchRequest) (*RAGResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if s.embedder == nil {
		return nil, models.ErrNoEmbedder
	}

	tag := req.Tag
	if tag == "" {
		tag = s.tag
	}

	s.log.WithFields(logrus.Fields{
		"tag":  tag,
		"k":    req.K,
		"hops": req.Hops,
	}).Debug("retrieval.graph_rag_search")

	vector, err := s.embedder.Generate(ctx, req.Query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	hits, err := s.knn.KNN(ctx, tag, vector, req.K)
	if err != nil {
		return nil, fmt.Errorf("knn search: %w", err)
	}

	seeds := make([]int64, 0, len(hits))
	scores := make(map[int64]float64, len(hits))
	for _, hit := range hits {
		seeds = append(seeds, hit.ID)
		scores[hit.ID] = hit.Score
	}

	nodes, edges, err := s.graph.Expand(ctx, models.ExpandRequest{
		Seeds:        seeds,
		Hops:         req.Hops,
		PerNodeLimit: req.PerNodeLimit,
		Direction:    req.Direction,
	})
	if err != nil {
		return nil, err
	}

	payload := &models.Subgraph{
		Type:            models.SubgraphType,
		Seeds:           seeds,
		VectorTag:       tag,
		Hops:            req.Hops,
		Nodes:           nodes,
		Edges:           edges,
		TopK:            hits,
		PreviewMarkdown: RenderPreview(nodes, scores),
	}

	return s.store(payload, seeds, req.K, req.Hops)
}

// ReadSubgraph returns a stored payload by session key.
func (s *RetrievalService) ReadSubgraph(key string) (*models.Subgraph, error) {
	return s.sessions.Get(key)
}

// FetchNode materializes a single node for the node resource.
func (s *RetrievalService) FetchNode(ctx context.Context, id int64) (*models.Node, error) {
	return s.graph.FetchNode(ctx, id)
}

func (s *RetrievalService) store(payload *models.Subgraph, seeds []int64, k, hops int) (*RAGResult, error) {
	key := s.sessions.Put(payload)

	s.log.WithFields(logrus.Fields{
		"key":   key,
		"nodes": len(payload.Nodes),
		"edges": len(payload.Edges),
	}).Info("retrieval.subgraph stored")

	return &RAGResult{
		ResourceURI: SubgraphURIPrefix + key,
		SeedIDs:     seeds,
		K:           k,
		Hops:        hops,
		TotalNodes:  len(payload.Nodes),
		TotalEdges:  len(payload.Edges),
	}, nil
}
