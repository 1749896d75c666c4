package listview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DeBrosOfficial/contacts/pkg/cache"
	"github.com/DeBrosOfficial/contacts/pkg/contact"
)

func page(contacts ...contact.Contact) *contact.Page {
	return &contact.Page{Contacts: contacts, Total: len(contacts), Limit: 10}
}

func person(id contact.ID, first, last, country string) contact.Contact {
	return contact.Contact{ID: id, FirstName: first, LastName: last, Address: contact.Address{Country: country}}
}

func TestQueryDerivation(t *testing.T) {
	v := New(10)
	assert.Equal(t, contact.Query{Search: "", Skip: 0, Limit: 10}, v.Query())

	v.SetPage(3)
	assert.Equal(t, contact.Query{Skip: 20, Limit: 10}, v.Query())

	v.SetSearch("ann")
	assert.Equal(t, 1, v.Params().Page, "search change returns to page 1")
	assert.Equal(t, contact.Query{Search: "ann", Skip: 0, Limit: 10}, v.Query())

	v.SetPage(2)
	v.SetSearch("ann")
	assert.Equal(t, 2, v.Params().Page, "same search keeps the page")

	v.SetPage(0)
	assert.Equal(t, 1, v.Params().Page)
}

func TestSetPageSizeKeepsFirstRow(t *testing.T) {
	v := New(10)
	v.SetPage(3) // rows 20..29
	v.SetPageSize(25)
	assert.Equal(t, 1, v.Params().Page)
	assert.Equal(t, 25, v.Query().Limit)

	v.SetPage(4) // rows 75..99
	v.SetPageSize(10)
	assert.Equal(t, 8, v.Params().Page)
	assert.Equal(t, 70, v.Query().Skip)
}

func TestPageCount(t *testing.T) {
	v := New(10)
	assert.Equal(t, 1, v.PageCount(0))
	assert.Equal(t, 1, v.PageCount(10))
	assert.Equal(t, 21, v.PageCount(208))
}

func TestHighlight(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		search string
		want   []Segment
	}{
		{"no search", "Annabel", "", []Segment{{Text: "Annabel"}}},
		{"prefix, case-insensitive", "Annabel", "ann", []Segment{{Text: "Ann", Match: true}, {Text: "abel"}}},
		{"middle", "Joann", "ANN", []Segment{{Text: "Jo"}, {Text: "ann", Match: true}}},
		{"repeated", "annann", "ann", []Segment{{Text: "ann", Match: true}, {Text: "ann", Match: true}}},
		{"no match", "Bob", "ann", []Segment{{Text: "Bob"}}},
		{"non-ascii", "Ånnika", "ånn", []Segment{{Text: "Ånn", Match: true}, {Text: "ika"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Highlight(tt.text, tt.search))
		})
	}
}

func TestSortIsLocaleAwareAndPageLocal(t *testing.T) {
	v := New(10)
	p := page(
		person(1, "émile", "Zola", "France"),
		person(2, "Bob", "young", "Canada"),
		person(3, "alice", "Smith", "Åland"),
		person(4, "Zed", "Adams", "Brazil"),
	)

	v.SetSort(SortFirstName, Ascend)
	assert.Equal(t, []contact.ID{3, 2, 1, 4}, ids(v.Rows(p)), "accents and case do not push names to the end")

	v.SetSort(SortCountry, Descend)
	assert.Equal(t, []contact.ID{1, 2, 4, 3}, ids(v.Rows(p)))

	v.SetSort(SortNone, Ascend)
	assert.Equal(t, []contact.ID{1, 2, 3, 4}, ids(v.Rows(p)), "server order without a sort")

	assert.Equal(t, contact.ID(1), p.Contacts[0].ID, "sorting never reorders the cached page")
}

func ids(rows []Row) []contact.ID {
	out := make([]contact.ID, len(rows))
	for i, r := range rows {
		out[i] = r.ID
	}
	return out
}

// End-to-end scenario: changing the search text yields a distinct cache
// entry and highlighted name columns.
func TestSearchScenario(t *testing.T) {
	c := cache.New(nil)
	v := New(10)

	all := v.Query()
	c.Write(all, page(person(1, "Ann", "Lee", "US"), person(2, "Bob", "Joanns", "US")))

	v.SetSearch("ann")
	searched := v.Query()
	assert.Equal(t, contact.Query{Search: "ann", Skip: 0, Limit: 10}, searched)
	assert.NotEqual(t, all.String(), searched.String())
	_, ok := c.Read(searched)
	assert.False(t, ok, "the search descriptor is a separate entry")

	c.Write(searched, page(person(1, "Ann", "Lee", "US"), person(2, "Bob", "Joanns", "US")))
	got, ok := c.Read(searched)
	require.True(t, ok)

	rows := v.Rows(got)
	require.Len(t, rows, 2)
	assert.Equal(t, []Segment{{Text: "Ann", Match: true}}, rows[0].FirstName)
	assert.Equal(t, []Segment{{Text: "Jo"}, {Text: "ann", Match: true}, {Text: "s"}}, rows[1].LastName)
	assert.Equal(t, []Segment{{Text: "Bob"}}, rows[1].FirstName)
}

func TestResolveKeepsPreviousPage(t *testing.T) {
	v := New(10)

	d := v.Resolve(nil, false, true)
	assert.Nil(t, d.Page)
	assert.True(t, d.Stale(), "first load shows the loading state")

	first := page(person(1, "Ann", "Lee", "US"))
	d = v.Resolve(first, true, false)
	assert.Equal(t, first, d.Page)
	assert.False(t, d.Stale())

	v.SetPage(2)
	d = v.Resolve(nil, false, true)
	assert.Equal(t, first, d.Page, "previous data stays visible")
	assert.True(t, d.Placeholder)
	assert.True(t, d.Stale())

	d = v.Resolve(first, true, true)
	assert.False(t, d.Placeholder)
	assert.True(t, d.Stale(), "refetching the current descriptor is stale too")
}
