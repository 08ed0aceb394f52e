package testutil

import (
	"context"
	"fmt"
	"sync"
)

// InMemoryStore is a generic thread-safe key/value store backing the
// in-memory repository implementations used in service tests
type InMemoryStore[T any] struct {
	mu    sync.RWMutex
	items map[string]T
}

// NewInMemoryStore creates a new in-memory store
func NewInMemoryStore[T any]() *InMemoryStore[T] {
	return &InMemoryStore[T]{
		items: make(map[string]T),
	}
}

// Create inserts an item, failing if the key already exists
func (s *InMemoryStore[T]) Create(ctx context.Context, id string, item T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.items[id]; exists {
		return fmt.Errorf("item already exists: %s", id)
	}
	s.items[id] = item
	return nil
}

// Get returns the item for the key
func (s *InMemoryStore[T]) Get(ctx context.Context, id string) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, exists := s.items[id]
	if !exists {
		var zero T
		return zero, fmt.Errorf("item not found: %s", id)
	}
	return item, nil
}

// Set inserts or replaces the item for the key
func (s *InMemoryStore[T]) Set(ctx context.Context, id string, item T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[id] = item
}

// Delete removes the item for the key
func (s *InMemoryStore[T]) Delete(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, id)
}

// All returns a snapshot of all items
func (s *InMemoryStore[T]) All(ctx context.Context) []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]T, 0, len(s.items))
	for _, item := range s.items {
		items = append(items, item)
	}
	return items
}

// Clear removes all items
func (s *InMemoryStore[T]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make(map[string]T)
}
