// Package contact defines the contact record, the result page returned by a
// list call, and the query descriptor that identifies a cached page.
package contact

import (
	"strings"
	"sync/atomic"
)

// ID identifies a contact. Server-assigned identifiers are positive;
// placeholders handed out by NewPlaceholderID are negative.
type ID int64

// IsPlaceholder reports whether the identifier was assigned client-side and
// has not yet been replaced by a server identifier.
func (id ID) IsPlaceholder() bool {
	return id < 0
}

var placeholderSeq atomic.Int64

// NewPlaceholderID returns a process-unique negative identifier for a contact
// that has not been acknowledged by the server yet. Two optimistic creates
// in flight at the same time never share an identifier.
func NewPlaceholderID() ID {
	return ID(-placeholderSeq.Add(1))
}

// Coordinates is a geographic point. Server-only.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Address holds the postal address of a contact. Address, City and Country
// are edited client-side; the remaining fields are filled by the server.
type Address struct {
	Address     string      `json:"address"`
	City        string      `json:"city"`
	State       string      `json:"state,omitempty"`
	StateCode   string      `json:"stateCode,omitempty"`
	PostalCode  string      `json:"postalCode,omitempty"`
	Coordinates Coordinates `json:"coordinates"`
	Country     string      `json:"country"`
}

// Contact is a single contact record as it travels on the wire.
// Email and Phone are ListSeparator-joined lists.
type Contact struct {
	ID        ID      `json:"id"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Email     string  `json:"email"`
	Phone     string  `json:"phone"`
	Address   Address `json:"address"`
}

// Emails returns the email field split into its entries.
func (c Contact) Emails() []string {
	return SplitList(c.Email)
}

// Phones returns the phone field split into its entries.
func (c Contact) Phones() []string {
	return SplitList(c.Phone)
}

// FullName joins first and last name with a single space.
func (c Contact) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// ListSeparator joins list-valued fields (email, phone) on the wire.
const ListSeparator = ", "

// JoinList collapses an ordered list of values into the wire representation.
func JoinList(values []string) string {
	return strings.Join(values, ListSeparator)
}

// SplitList expands the wire representation into its ordered entries.
// An empty string yields a single empty entry, matching an edit surface that
// always shows at least one input.
func SplitList(s string) []string {
	return strings.Split(s, ListSeparator)
}

// HasNonBlank reports whether at least one entry is non-empty after trimming.
func HasNonBlank(values []string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return true
		}
	}
	return false
}
