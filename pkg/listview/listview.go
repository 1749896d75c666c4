// Package listview turns table parameters into query descriptors and cached
// pages into display rows.
package listview

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/DeBrosOfficial/contacts/pkg/contact"
)

// SortField is a sortable column.
type SortField string

const (
	SortNone      SortField = ""
	SortFirstName SortField = "firstName"
	SortLastName  SortField = "lastName"
	SortCountry   SortField = "country"
)

// SortOrder is the direction of a sort.
type SortOrder int

const (
	Ascend SortOrder = iota
	Descend
)

// TableParams is the pagination and sort state of the list.
type TableParams struct {
	Page      int // 1-based
	PageSize  int
	SortField SortField
	SortOrder SortOrder
	Search    string
}

// View owns the table parameters. It is not safe for concurrent use.
type View struct {
	params   TableParams
	collator *collate.Collator
	last     *contact.Page
}

// Option configures a View.
type Option func(*View)

// WithLanguage sets the collation used for sorting.
func WithLanguage(tag language.Tag) Option {
	return func(v *View) { v.collator = collate.New(tag, collate.IgnoreCase) }
}

// New creates a view on page 1 with the given page size.
func New(pageSize int, opts ...Option) *View {
	if pageSize < 1 {
		pageSize = 10
	}
	v := &View{
		params:   TableParams{Page: 1, PageSize: pageSize},
		collator: collate.New(language.English, collate.IgnoreCase),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Params returns the current table parameters.
func (v *View) Params() TableParams { return v.params }

// SetPage moves to page n (1-based). Values below 1 are clamped.
func (v *View) SetPage(n int) {
	if n < 1 {
		n = 1
	}
	v.params.Page = n
}

// SetPageSize changes the page size and keeps the first visible row on screen.
func (v *View) SetPageSize(size int) {
	if size < 1 || size == v.params.PageSize {
		return
	}
	skip := (v.params.Page - 1) * v.params.PageSize
	v.params.PageSize = size
	v.params.Page = skip/size + 1
}

// SetSearch changes the search text and returns to page 1 when it changed.
func (v *View) SetSearch(text string) {
	if text == v.params.Search {
		return
	}
	v.params.Search = text
	v.params.Page = 1
}

// SetSort selects the sort column. SortNone clears it.
func (v *View) SetSort(field SortField, order SortOrder) {
	v.params.SortField = field
	v.params.SortOrder = order
}

// Query derives the descriptor of the page to show.
func (v *View) Query() contact.Query {
	return contact.Query{
		Search: v.params.Search,
		Skip:   (v.params.Page - 1) * v.params.PageSize,
		Limit:  v.params.PageSize,
	}
}

// PageCount returns the number of pages for total rows.
func (v *View) PageCount(total int) int {
	if total <= 0 {
		return 1
	}
	return (total + v.params.PageSize - 1) / v.params.PageSize
}

// Segment is a run of text, highlighted when Match is set.
type Segment struct {
	Text  string
	Match bool
}

// Highlight splits text into segments marking every case-insensitive,
// non-overlapping occurrence of search. An empty search yields one plain
// segment.
func Highlight(text, search string) []Segment {
	if search == "" || text == "" {
		return []Segment{{Text: text}}
	}

	hay := []rune(text)
	needle := []rune(search)
	for i := range needle {
		needle[i] = unicode.ToLower(needle[i])
	}

	var segs []Segment
	start := 0
	for i := 0; i+len(needle) <= len(hay); {
		if !matchAt(hay, needle, i) {
			i++
			continue
		}
		if i > start {
			segs = append(segs, Segment{Text: string(hay[start:i])})
		}
		segs = append(segs, Segment{Text: string(hay[i : i+len(needle)]), Match: true})
		i += len(needle)
		start = i
	}
	if start < len(hay) {
		segs = append(segs, Segment{Text: string(hay[start:])})
	}
	return segs
}

func matchAt(hay, needle []rune, at int) bool {
	for j, r := range needle {
		if unicode.ToLower(hay[at+j]) != r {
			return false
		}
	}
	return true
}

// Row is the display projection of one contact.
type Row struct {
	ID        contact.ID
	FirstName []Segment
	LastName  []Segment
	Address   string
	City      string
	Country   string
	Email     string
	Phone     string
	Contact   contact.Contact
}

// Rows projects page into rows, highlighting the search text in the name
// columns and applying the selected sort to this page.
func (v *View) Rows(page *contact.Page) []Row {
	if page == nil {
		return nil
	}
	contacts := append([]contact.Contact(nil), page.Contacts...)
	v.sort(contacts)

	search := strings.TrimSpace(v.params.Search)
	rows := make([]Row, len(contacts))
	for i, c := range contacts {
		rows[i] = Row{
			ID:        c.ID,
			FirstName: Highlight(c.FirstName, search),
			LastName:  Highlight(c.LastName, search),
			Address:   c.Address.Address,
			City:      c.Address.City,
			Country:   c.Address.Country,
			Email:     c.Email,
			Phone:     c.Phone,
			Contact:   c,
		}
	}
	return rows
}

func (v *View) sort(contacts []contact.Contact) {
	var key func(contact.Contact) string
	switch v.params.SortField {
	case SortFirstName:
		key = func(c contact.Contact) string { return c.FirstName }
	case SortLastName:
		key = func(c contact.Contact) string { return c.LastName }
	case SortCountry:
		key = func(c contact.Contact) string { return c.Address.Country }
	default:
		return
	}

	desc := v.params.SortOrder == Descend
	sort.SliceStable(contacts, func(i, j int) bool {
		cmp := v.collator.CompareString(key(contacts[i]), key(contacts[j]))
		if desc {
			return cmp > 0
		}
		return cmp < 0
	})
}

// Display is what the table shows for the current descriptor.
type Display struct {
	Page        *contact.Page
	Loading     bool // A fetch for the current descriptor is outstanding
	Placeholder bool // Page belongs to a previous descriptor
}

// Stale reports whether the table should be drawn under a loading overlay.
func (d Display) Stale() bool { return d.Loading || d.Placeholder }

// Resolve decides what to show. cached is the page for the current
// descriptor, if any. Without one the last shown page is kept as a
// placeholder instead of blanking the table.
func (v *View) Resolve(cached *contact.Page, ok, loading bool) Display {
	if ok {
		v.last = cached
		return Display{Page: cached, Loading: loading}
	}
	if v.last != nil {
		return Display{Page: v.last, Loading: loading, Placeholder: true}
	}
	return Display{Loading: loading}
}
