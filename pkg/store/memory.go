package store

import (
	"context"
	"sort"
	"sync"

	"github.com/DeBrosOfficial/contacts/pkg/contact"
)

// MemoryStore keeps contacts in process memory.
type MemoryStore struct {
	mu       sync.RWMutex
	contacts map[contact.ID]contact.Contact
	nextID   contact.ID
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		contacts: make(map[contact.ID]contact.Contact),
		nextID:   1,
	}
}

func (s *MemoryStore) List(_ context.Context, opts ListOptions) ([]contact.Contact, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	found := make([]contact.Contact, 0, len(s.contacts))
	for _, c := range s.contacts {
		if matches(c, opts.Search) {
			found = append(found, c)
		}
	}
	sort.Slice(found, func(i, j int) bool { return found[i].ID > found[j].ID })

	lo, hi := window(len(found), opts)
	return append([]contact.Contact(nil), found[lo:hi]...), len(found), nil
}

func (s *MemoryStore) Get(_ context.Context, id contact.ID) (contact.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.contacts[id]
	if !ok {
		return contact.Contact{}, notFound(id)
	}
	return c, nil
}

func (s *MemoryStore) Create(_ context.Context, c contact.Contact) (contact.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c.ID = s.nextID
	s.nextID++
	s.contacts[c.ID] = c
	return c, nil
}

func (s *MemoryStore) Update(_ context.Context, id contact.ID, c contact.Contact) (contact.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.contacts[id]
	if !ok {
		return contact.Contact{}, notFound(id)
	}
	updated := merge(stored, c)
	s.contacts[id] = updated
	return updated, nil
}

func (s *MemoryStore) Delete(_ context.Context, id contact.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.contacts[id]; !ok {
		return notFound(id)
	}
	delete(s.contacts, id)
	return nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }

var _ ContactStore = (*MemoryStore)(nil)
