// Package storetest provides in-memory implementations of the domain repositories
// for use-case tests. All repositories of one Store share a single transaction
// boundary: WithinTransaction serializes transactions and restores the previous
// state when fn fails.
package storetest

import (
	"context"
	"sync"
	"time"
)

type txKey struct{}

// Store holds the in-memory state of every repository
type Store struct {
	txMu sync.Mutex
	mu   sync.Mutex
	data *state
	Now  func() time.Time
}

// New creates an empty store
func New() *Store {
	return &Store{data: newState(), Now: time.Now}
}

// WithinTransaction implements database.Transactor
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	saved := s.data.clone()
	s.mu.Unlock()

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		s.mu.Lock()
		s.data = saved
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *Store) nextID() uint {
	s.data.seq++
	return s.data.seq
}

func (s *Store) stamp(created, updated *time.Time) {
	now := s.Now()
	if created.IsZero() {
		*created = now
	}
	*updated = now
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
