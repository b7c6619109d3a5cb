package models

import "errors"

// Sentinel errors for validation.
var (
	ErrMissingQuery     = errors.New("query text is required")
	ErrInvalidDirection = errors.New("direction must be one of in, out, both")
)

// ErrNoEmbedder is returned when the KNN entry path is requested but no
// embedding provider is configured. It is raised before any remote call.
var ErrNoEmbedder = errors.New("no embedder configured")

// ErrSessionNotFound is returned by the session store for unknown keys.
var ErrSessionNotFound = errors.New("subgraph session not found")
