// Package metrics defines Prometheus metrics for the Stardust MCP server.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stardust_mcp_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stardust_mcp_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	ExpansionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stardust_mcp_expansions_total",
			Help: "Total subgraph expansion calls by outcome",
		},
		[]string{"status"},
	)

	ExpansionDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "stardust_mcp_expansion_duration_seconds",
			Help:    "Subgraph expansion duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	ExpansionNodes = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "stardust_mcp_expansion_nodes",
			Help:    "Nodes returned per successful expansion",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		},
	)

	ExpansionEdges = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "stardust_mcp_expansion_edges",
			Help:    "Edges returned per successful expansion",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		},
	)

	ToleratedFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stardust_mcp_tolerated_failures_total",
			Help: "Remote failures swallowed during traversal by phase",
		},
		[]string{"phase"},
	)

	RemoteCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stardust_mcp_remote_calls_total",
			Help: "Calls issued to the Stardust store by operation and outcome",
		},
		[]string{"op", "status"},
	)

	EmbedRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stardust_mcp_embed_requests_total",
			Help: "Embedding requests by outcome",
		},
		[]string{"status"},
	)

	SessionsStored = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "stardust_mcp_sessions_stored_total",
			Help: "Subgraph payloads written to the session store",
		},
	)

	SessionStoreSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "stardust_mcp_session_store_size",
			Help: "Payloads currently held by the session store",
		},
	)
)

func init() {
	prometheus.MustRegister(
		RequestDuration, RequestsTotal,
		ExpansionsTotal, ExpansionDuration, ExpansionNodes, ExpansionEdges,
		ToleratedFailures, RemoteCalls, EmbedRequests,
		SessionsStored, SessionStoreSize,
	)
}
