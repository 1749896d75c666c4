package cache

import (
	"context"
	"sync"

	"github.com/DeBrosOfficial/contacts/pkg/contact"
)

// Store holds one page per key. Implementations must not retain or hand out
// pages that callers can mutate; PageCache clones on both sides anyway.
type Store interface {
	Load(ctx context.Context, key string) (*contact.Page, bool, error)
	Save(ctx context.Context, key string, page *contact.Page) error
	Remove(ctx context.Context, key string) error
}

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu    sync.RWMutex
	pages map[string]*contact.Page
}

// NewMemoryStore creates an empty in-process store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{pages: make(map[string]*contact.Page)}
}

// Load returns a copy of the page stored under key.
func (s *MemoryStore) Load(_ context.Context, key string) (*contact.Page, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	page, ok := s.pages[key]
	if !ok {
		return nil, false, nil
	}
	return page.Clone(), true, nil
}

// Save stores a copy of page under key.
func (s *MemoryStore) Save(_ context.Context, key string, page *contact.Page) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pages[key] = page.Clone()
	return nil
}

// Remove deletes the page stored under key.
func (s *MemoryStore) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.pages, key)
	return nil
}

// Len returns the number of stored pages.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.pages)
}
