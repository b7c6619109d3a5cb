package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/ollama/ollama/api"

	"github.com/stardustdb/stardust-mcp/internal/metrics"
)

const embeddingTimeout = 30 * time.Second

// Circuit breaker configuration.
const (
	cbFailureThreshold = 5
	cbCooldown         = 30 * time.Second
)

// Circuit breaker states.
const (
	cbClosed   = iota // Normal operation.
	cbOpen            // Fail fast.
	cbHalfOpen        // Probe with one request.
)

// ErrCircuitOpen is returned when the circuit breaker is open and requests
// are being rejected without calling the embedding service.
var ErrCircuitOpen = errors.New("embedding circuit breaker is open")

// embedClient is the slice of the Ollama API the service uses.
type embedClient interface {
	Embed(ctx context.Context, req *api.EmbedRequest) (*api.EmbedResponse, error)
}

// EmbeddingService generates vector embeddings via the Ollama API. The
// breaker fails fast while Ollama is down; it never retries a call.
type EmbeddingService struct {
	client embedClient
	model  string

	mu              sync.Mutex
	cbState         int
	cbFailures      int
	cbLastFailureAt time.Time
}

// NewEmbeddingService creates an EmbeddingService for the given Ollama
// endpoint and model.
func NewEmbeddingService(ollamaURL, model string) (*EmbeddingService, error) {
	base, err := url.Parse(ollamaURL)
	if err != nil {
		return nil, fmt.Errorf("parsing ollama URL: %w", err)
	}

	return &EmbeddingService{
		client:  api.NewClient(base, &http.Client{Timeout: embeddingTimeout}),
		model:   model,
		cbState: cbClosed,
	}, nil
}

// Generate produces a vector embedding for the given text.
func (s *EmbeddingService) Generate(ctx context.Context, text string) ([]float32, error) {
	if err := s.cbAllow(); err != nil {
		metrics.EmbedRequests.WithLabelValues("rejected").Inc()

		return nil, err
	}

	result, err := s.doGenerate(ctx, text)
	if err != nil {
		s.cbRecordFailure()
		metrics.EmbedRequests.WithLabelValues("error").Inc()

		return nil, err
	}

	s.cbRecordSuccess()
	metrics.EmbedRequests.WithLabelValues("ok").Inc()

	return result, nil
}

func (s *EmbeddingService) doGenerate(ctx context.Context, text string) ([]float32, error) {
	resp, err := s.client.Embed(ctx, &api.EmbedRequest{Model: s.model, Input: text})
	if err != nil {
		return nil, fmt.Errorf("calling ollama embed API: %w", err)
	}

	if len(resp.Embeddings) == 0 {
		return nil, fmt.Errorf("ollama returned empty embeddings")
	}

	return resp.Embeddings[0], nil
}

// cbAllow checks whether the circuit breaker permits a request.
// In closed state, all requests pass. In open state, requests are rejected
// until the cooldown expires, at which point we transition to half-open.
// In half-open state, one probe request is allowed.
func (s *EmbeddingService) cbAllow() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.cbState {
	case cbClosed:
		return nil
	case cbOpen:
		if time.Since(s.cbLastFailureAt) >= cbCooldown {
			s.cbState = cbHalfOpen

			return nil
		}

		return ErrCircuitOpen
	case cbHalfOpen:
		return nil
	}

	return nil
}

func (s *EmbeddingService) cbRecordFailure() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cbFailures++
	s.cbLastFailureAt = time.Now()

	if s.cbState == cbHalfOpen || s.cbFailures >= cbFailureThreshold {
		s.cbState = cbOpen
	}
}

func (s *EmbeddingService) cbRecordSuccess() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cbFailures = 0
	s.cbState = cbClosed
}
