package service

import (
	"sync"

	"github.com/google/uuid"

	"github.com/stardustdb/stardust-mcp/internal/metrics"
	"github.com/stardustdb/stardust-mcp/internal/models"
)

// SessionStore holds assembled subgraph payloads keyed by opaque session
// keys, for handoff between a tool call and a later resource read. Entries
// are written once and never evicted; the store lives for the process
// lifetime and its size is exported as a gauge so growth stays visible.
type SessionStore struct {
	mu       sync.RWMutex
	payloads map[string]*models.Subgraph
}

// NewSessionStore creates an empty SessionStore.
func NewSessionStore() *SessionStore {
	return &SessionStore{payloads: make(map[string]*models.Subgraph)}
}

// Put stores a payload under a fresh random key and returns the key.
func (s *SessionStore) Put(payload *models.Subgraph) string {
	key := uuid.NewString()

	s.mu.Lock()
	s.payloads[key] = payload
	size := len(s.payloads)
	s.mu.Unlock()

	metrics.SessionsStored.Inc()
	metrics.SessionStoreSize.Set(float64(size))

	return key
}

// Get returns the payload stored under key, or ErrSessionNotFound.
func (s *SessionStore) Get(key string) (*models.Subgraph, error) {
	s.mu.RLock()
	payload, ok := s.payloads[key]
	s.mu.RUnlock()

	if !ok {
		return nil, models.ErrSessionNotFound
	}

	return payload, nil
}

// Len returns the number of stored payloads.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.payloads)
}
