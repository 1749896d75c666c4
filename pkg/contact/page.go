package contact

import (
	"net/url"
	"strconv"
	"strings"
)

// Resource is the entity segment leading every query key.
const Resource = "contacts"

// Page is the result of one list call.
type Page struct {
	Contacts []Contact `json:"contacts"`
	Total    int       `json:"total"`
	Skip     int       `json:"skip"`
	Limit    int       `json:"limit"`
}

// Clone returns a deep copy so that optimistic edits never alias a snapshot.
func (p *Page) Clone() *Page {
	if p == nil {
		return nil
	}
	cp := *p
	cp.Contacts = append([]Contact(nil), p.Contacts...)
	return &cp
}

// Prepend returns a copy with c inserted first and the total incremented.
func (p *Page) Prepend(c Contact) *Page {
	cp := p.Clone()
	cp.Contacts = append([]Contact{c}, cp.Contacts...)
	cp.Total++
	return cp
}

// Replace returns a copy where the entry with the given identifier has been
// swapped for c. The total is unchanged. The second result is false when no
// entry matched.
func (p *Page) Replace(id ID, c Contact) (*Page, bool) {
	cp := p.Clone()
	for i := range cp.Contacts {
		if cp.Contacts[i].ID == id {
			cp.Contacts[i] = c
			return cp, true
		}
	}
	return cp, false
}

// Remove returns a copy without the entry with the given identifier and the
// total decremented. The second result is false when no entry matched.
func (p *Page) Remove(id ID) (*Page, bool) {
	cp := p.Clone()
	for i := range cp.Contacts {
		if cp.Contacts[i].ID == id {
			cp.Contacts = append(cp.Contacts[:i], cp.Contacts[i+1:]...)
			cp.Total--
			return cp, true
		}
	}
	return cp, false
}

// Find returns the entry with the given identifier.
func (p *Page) Find(id ID) (Contact, bool) {
	if p == nil {
		return Contact{}, false
	}
	for _, c := range p.Contacts {
		if c.ID == id {
			return c, true
		}
	}
	return Contact{}, false
}

// Query is the descriptor of a cached page: search text plus the skip/limit
// window. Two queries are the same cache entry iff all three fields match.
type Query struct {
	Search string
	Skip   int
	Limit  int
}

// Searching reports whether the query is a search rather than a plain list.
func (q Query) Searching() bool {
	return q.Search != ""
}

// Key returns the ordered key parts of the query, led by Resource.
// Cancellation matches on a leading subset of these parts.
func (q Query) Key() []string {
	return []string{Resource, q.Search, strconv.Itoa(q.Skip), strconv.Itoa(q.Limit)}
}

// String renders the key in a form safe to use as a map or cache key.
func (q Query) String() string {
	parts := q.Key()
	for i := range parts {
		parts[i] = url.QueryEscape(parts[i])
	}
	return strings.Join(parts, "|")
}

// HasPrefix reports whether the leading key parts equal prefix.
// An empty prefix matches every query.
func (q Query) HasPrefix(prefix ...string) bool {
	key := q.Key()
	if len(prefix) > len(key) {
		return false
	}
	for i, part := range prefix {
		if key[i] != part {
			return false
		}
	}
	return true
}
