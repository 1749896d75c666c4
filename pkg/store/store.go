// Package store persists contacts for the development contact service.
package store

import (
	"context"
	"strconv"
	"strings"

	"github.com/DeBrosOfficial/contacts/pkg/contact"
	"github.com/DeBrosOfficial/contacts/pkg/errors"
)

// ListOptions selects a window of contacts, optionally filtered by search.
type ListOptions struct {
	Search string
	Skip   int
	Limit  int // 0 returns every matching contact
}

// ContactStore is the storage behind the contact service. Listing is ordered
// newest first so that a refetch after an optimistic create keeps the new
// row on top.
type ContactStore interface {
	List(ctx context.Context, opts ListOptions) ([]contact.Contact, int, error)
	Get(ctx context.Context, id contact.ID) (contact.Contact, error)
	Create(ctx context.Context, c contact.Contact) (contact.Contact, error)
	Update(ctx context.Context, id contact.ID, c contact.Contact) (contact.Contact, error)
	Delete(ctx context.Context, id contact.ID) error
	Close() error
}

func notFound(id contact.ID) error {
	return errors.NewNotFoundError("contact", strconv.FormatInt(int64(id), 10))
}

// matches reports whether c is found by a search for text. Names and email
// are matched case-insensitively.
func matches(c contact.Contact, text string) bool {
	if text == "" {
		return true
	}
	text = foldASCII(text)
	for _, field := range []string{c.FirstName, c.LastName, c.Email} {
		if strings.Contains(foldASCII(field), text) {
			return true
		}
	}
	return false
}

// foldASCII lowercases A-Z only, the same folding SQLite's LOWER applies, so
// every backend agrees on which records a search matches.
func foldASCII(s string) string {
	return strings.Map(func(r rune) rune {
		if 'A' <= r && r <= 'Z' {
			return r + ('a' - 'A')
		}
		return r
	}, s)
}

// escapeLike escapes the LIKE wildcards in s for use with ESCAPE '\'.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// merge applies an update to the stored record. Editable fields are always
// replaced; server-only address fields are replaced only when provided.
func merge(stored, patch contact.Contact) contact.Contact {
	out := stored
	out.FirstName = patch.FirstName
	out.LastName = patch.LastName
	out.Email = patch.Email
	out.Phone = patch.Phone
	out.Address.Address = patch.Address.Address
	out.Address.City = patch.Address.City
	out.Address.Country = patch.Address.Country

	if patch.Address.State != "" {
		out.Address.State = patch.Address.State
	}
	if patch.Address.StateCode != "" {
		out.Address.StateCode = patch.Address.StateCode
	}
	if patch.Address.PostalCode != "" {
		out.Address.PostalCode = patch.Address.PostalCode
	}
	if patch.Address.Coordinates != (contact.Coordinates{}) {
		out.Address.Coordinates = patch.Address.Coordinates
	}
	return out
}

// window applies skip and limit to n rows and returns the slice bounds.
func window(n int, opts ListOptions) (int, int) {
	lo := opts.Skip
	if lo < 0 {
		lo = 0
	}
	if lo > n {
		lo = n
	}
	hi := n
	if opts.Limit > 0 && lo+opts.Limit < n {
		hi = lo + opts.Limit
	}
	return lo, hi
}
