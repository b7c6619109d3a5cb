package mcp

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"

	"github.com/stardustdb/stardust-mcp/internal/config"
)

// NewServer creates the stardust MCP server with its tools, resources and
// prompt registered.
func NewServer(retriever Retriever, log *logrus.Logger) *mcp.Server {
	svc := NewService(retriever, log)

	s := mcp.NewServer(&mcp.Implementation{
		Name:    "stardust",
		Version: config.Version,
	}, nil)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "expand_from_seeds",
		Description: "Expand a bounded subgraph outward from explicit node ids and store it as a readable resource.",
	}, svc.ExpandFromSeeds)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "graph_rag_search",
		Description: "Embed a query, find the k nearest nodes, expand a subgraph around them and store it as a readable resource.",
	}, svc.GraphRAGSearch)

	s.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: nodeURIPrefix + "{id}",
		Name:        "node",
		Description: "A single materialized graph node with labels and properties.",
		MIMEType:    "application/json",
	}, svc.ReadNode)

	s.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: subgraphURI + "{key}",
		Name:        "subgraph",
		Description: "A stored subgraph payload produced by expand_from_seeds or graph_rag_search.",
		MIMEType:    "application/json",
	}, svc.ReadSubgraph)

	s.AddPrompt(&mcp.Prompt{
		Name:        "answer_with_stardust",
		Description: "Answer a question grounded on a retrieved Stardust subgraph.",
		Arguments: []*mcp.PromptArgument{
			{Name: "question", Description: "The question to answer", Required: true},
			{Name: "subgraph_uri", Description: "URI of a stored subgraph resource", Required: true},
		},
	}, svc.AnswerWithStardust)

	return s
}
