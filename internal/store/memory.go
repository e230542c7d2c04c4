// internal/store/memory.go
//
// In-memory registry of match statuses.
// The CLI saves a fresh match.Status after every phase change; the status API
// reads from here so HTTP handlers never touch a live match.
//
// Characteristics:
//   - Stores match.Status values keyed by match ID.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process restarts.

package store

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/jorbDehmel/OOP-final-project/internal/match"
)

// ErrNotFound is returned by Get for unknown IDs.
var ErrNotFound = errors.New("match not found")

// Store defines the registry interface for match statuses.
type Store interface {
	// Save adds or replaces a status.
	Save(ctx context.Context, s match.Status) error

	// Get retrieves a status by match ID.
	Get(ctx context.Context, id string) (match.Status, error)

	// List returns every status, oldest match first.
	List(ctx context.Context) ([]match.Status, error)
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu      sync.RWMutex
	matches map[string]match.Status
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{matches: make(map[string]match.Status)}
}

func (m *memory) Save(ctx context.Context, s match.Status) error {
	if s.ID == "" {
		return errors.New("status has no match id")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matches[s.ID] = s
	return nil
}

func (m *memory) Get(ctx context.Context, id string) (match.Status, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.matches[id]; ok {
		return s, nil
	}
	return match.Status{}, ErrNotFound
}

func (m *memory) List(ctx context.Context) ([]match.Status, error) {
	m.mu.RLock()
	out := make([]match.Status, 0, len(m.matches))
	for _, s := range m.matches {
		out = append(out, s)
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].StartedAt.Before(out[j].StartedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
