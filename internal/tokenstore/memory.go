package tokenstore

import (
	"context"
	"sync"

	"github.com/tunelink/oauth2-device-client/internal/token"
)

// MemStore holds the record in memory only. Useful in tests and for callers
// that never persist.
type MemStore struct {
	mu  sync.Mutex
	rec *token.Record
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{}
}

// Save keeps a copy of the record.
func (s *MemStore) Save(ctx context.Context, rec *token.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *rec
	s.rec = &cp
	return nil
}

// Load returns a copy of the last saved record.
func (s *MemStore) Load(ctx context.Context) (*token.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rec == nil {
		return nil, ErrNotFound
	}
	cp := *s.rec
	return &cp, nil
}
