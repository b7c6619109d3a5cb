// Package mcp exposes the retrieval engine over the Model Context
// Protocol: two tools, two resources, and one grounding prompt.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"

	"github.com/stardustdb/stardust-mcp/internal/models"
	"github.com/stardustdb/stardust-mcp/internal/service"
)

// Resource URI prefixes served by this server.
const (
	nodeURIPrefix = "stardust://node/"
	subgraphURI   = service.SubgraphURIPrefix
)

// Retriever is the retrieval surface the MCP handlers depend on.
type Retriever interface {
	ExpandFromSeeds(ctx context.Context, req models.ExpandRequest) (*service.RAGResult, error)
	GraphRAGSearch(ctx context.Context, req models.SearchRequest) (*service.RAGResult, error)
	ReadSubgraph(key string) (*models.Subgraph, error)
	FetchNode(ctx context.Context, id int64) (*models.Node, error)
}

// Service implements the MCP tool, resource and prompt handlers.
type Service struct {
	retriever Retriever
	log       *logrus.Logger
}

// NewService creates a Service.
func NewService(retriever Retriever, log *logrus.Logger) *Service {
	return &Service{retriever: retriever, log: log}
}

// ExpandFromSeeds handles the expand_from_seeds tool.
func (s *Service) ExpandFromSeeds(ctx context.Context, _ *mcp.CallToolRequest, args ExpandFromSeedsArgs) (*mcp.CallToolResult, service.RAGResult, error) {
	direction, err := models.ParseDirection(args.Direction)
	if err != nil {
		return nil, service.RAGResult{}, err
	}

	result, err := s.retriever.ExpandFromSeeds(ctx, models.ExpandRequest{
		Seeds:        args.Seeds,
		Hops:         hopsOrDefault(args.Hops),
		PerNodeLimit: intOrDefault(args.PerNodeLimit, defaultPerNodeLimit),
		Direction:    direction,
	})
	if err != nil {
		return nil, service.RAGResult{}, err
	}

	return nil, *result, nil
}

// GraphRAGSearch handles the graph_rag_search tool.
func (s *Service) GraphRAGSearch(ctx context.Context, _ *mcp.CallToolRequest, args GraphRAGSearchArgs) (*mcp.CallToolResult, service.RAGResult, error) {
	direction, err := models.ParseDirection(args.Direction)
	if err != nil {
		return nil, service.RAGResult{}, err
	}

	result, err := s.retriever.GraphRAGSearch(ctx, models.SearchRequest{
		Query:        args.QueryText,
		Tag:          args.Tag,
		K:            intOrDefault(args.K, defaultK),
		Hops:         hopsOrDefault(args.Hops),
		PerNodeLimit: intOrDefault(args.PerNodeLimit, defaultPerNodeLimit),
		Direction:    direction,
	})
	if err != nil {
		return nil, service.RAGResult{}, err
	}

	return nil, *result, nil
}

// ReadNode serves the stardust://node/{id} resource.
func (s *Service) ReadNode(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := req.Params.URI

	raw := strings.TrimPrefix(uri, nodeURIPrefix)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid node id %q: %w", raw, err)
	}

	node, err := s.retriever.FetchNode(ctx, id)
	if err != nil {
		return nil, mcp.ResourceNotFoundError(uri)
	}

	return jsonResource(uri, node)
}

// ReadSubgraph serves the stardust://subgraph/{key} resource.
func (s *Service) ReadSubgraph(_ context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := req.Params.URI

	key := strings.TrimPrefix(uri, subgraphURI)
	payload, err := s.retriever.ReadSubgraph(key)
	if err != nil {
		if errors.Is(err, models.ErrSessionNotFound) {
			return nil, mcp.ResourceNotFoundError(uri)
		}

		return nil, err
	}

	return jsonResource(uri, payload)
}

// AnswerWithStardust serves the grounding prompt.
func (s *Service) AnswerWithStardust(_ context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	question := req.Params.Arguments["question"]
	subgraphURI := req.Params.Arguments["subgraph_uri"]

	text := "You are given a Stardust subgraph resource at: " + subgraphURI +
		".\n1) Read it and ground your answer ONLY on nodes/edges/props present.\n" +
		"2) Cite node ids in parentheses when asserting facts, e.g., (node 123).\n" +
		"3) If information is insufficient, say so and propose follow-up graph expansions.\n\n" +
		"Question: " + question

	return &mcp.GetPromptResult{
		Description: "Answer a question grounded on a retrieved Stardust subgraph",
		Messages: []*mcp.PromptMessage{
			{Role: "user", Content: &mcp.TextContent{Text: text}},
		},
	}, nil
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding resource %s: %w", uri, err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{URI: uri, MIMEType: "application/json", Text: string(data)},
		},
	}, nil
}
