// Package store persists match outcomes. The engine treats stored records
// as opaque; no component reads them back on the scoring path.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/match-engine/internal/types"
)

// MatchRecord is one persisted match outcome.
type MatchRecord struct {
	ID        uuid.UUID      `json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	Method    string         `json:"method"`
	Status    string         `json:"status"`
	Outcome   *types.Outcome `json:"outcome"`
}

// MatchStore is the persistence collaborator interface.
type MatchStore interface {
	// SaveMatch persists one match record.
	SaveMatch(ctx context.Context, record MatchRecord) error
}

// MemoryStore is an in-memory MatchStore for tests and storage-less runs.
type MemoryStore struct {
	mu      sync.Mutex
	records []MatchRecord
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// SaveMatch appends the record.
func (s *MemoryStore) SaveMatch(_ context.Context, record MatchRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record)
	return nil
}

// Records returns a copy of everything saved so far.
func (s *MemoryStore) Records() []MatchRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]MatchRecord, len(s.records))
	copy(out, s.records)
	return out
}
