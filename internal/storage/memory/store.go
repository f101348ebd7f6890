package memory

import (
	"context"
	"slices"
	"sync"
)

// Store owns a Collection and serializes access to it: any number of
// concurrent readers or a single writer.
type Store[K comparable, V any] struct {
	mu   sync.RWMutex
	coll *Collection[K, V]
}

// NewStore creates an empty store whose values are keyed by key.
func NewStore[K comparable, V any](key func(V) K) *Store[K, V] {
	return &Store[K, V]{coll: newCollection(key)}
}

// View runs fn under the read lock. fn must not modify the collection.
func (s *Store[K, V]) View(ctx context.Context, fn func(*Collection[K, V]) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return fn(s.coll)
}

// WithTx runs fn under the write lock. When fn returns an error every change
// it made is discarded, so a failed fn leaves the collection as it found it.
func (s *Store[K, V]) WithTx(ctx context.Context, fn func(*Collection[K, V]) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := slices.Clone(s.coll.items)
	if err := fn(s.coll); err != nil {
		s.coll.items = snapshot
		return err
	}

	return nil
}
