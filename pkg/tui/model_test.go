package tui

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DeBrosOfficial/contacts/pkg/cache"
	"github.com/DeBrosOfficial/contacts/pkg/contact"
	"github.com/DeBrosOfficial/contacts/pkg/errors"
	"github.com/DeBrosOfficial/contacts/pkg/mutation"
)

type fakeAPI struct {
	mu       sync.Mutex
	contacts []contact.Contact
	nextID   contact.ID
	fail     error
	block    chan struct{} // When set, Update waits on it
	lists    int
	mutates  int
}

func newFakeAPI(contacts ...contact.Contact) *fakeAPI {
	return &fakeAPI{contacts: contacts, nextID: 100}
}

func (f *fakeAPI) List(_ context.Context, q contact.Query) (*contact.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists++

	var found []contact.Contact
	for _, c := range f.contacts {
		s := strings.ToLower(q.Search)
		if s == "" || strings.Contains(strings.ToLower(c.FirstName), s) || strings.Contains(strings.ToLower(c.LastName), s) {
			found = append(found, c)
		}
	}
	page := &contact.Page{Contacts: []contact.Contact{}, Total: len(found), Skip: q.Skip, Limit: q.Limit}
	for i := q.Skip; i < len(found) && i < q.Skip+q.Limit; i++ {
		page.Contacts = append(page.Contacts, found[i])
	}
	return page, nil
}

func (f *fakeAPI) Create(_ context.Context, c contact.Contact) (*contact.Contact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mutates++
	if f.fail != nil {
		return nil, f.fail
	}
	c.ID = f.nextID
	f.nextID++
	f.contacts = append([]contact.Contact{c}, f.contacts...)
	return &c, nil
}

func (f *fakeAPI) Update(_ context.Context, id contact.ID, c contact.Contact) (*contact.Contact, error) {
	f.mu.Lock()
	block := f.block
	f.mutates++
	fail := f.fail
	f.mu.Unlock()

	if block != nil {
		<-block
	}
	if fail != nil {
		return nil, fail
	}
	return &c, nil
}

func (f *fakeAPI) Delete(_ context.Context, id contact.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mutates++
	return f.fail
}

func (f *fakeAPI) mutations() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mutates
}

func ann() contact.Contact {
	return contact.Contact{
		ID: 1, FirstName: "Ann", LastName: "Lee", Email: "ann@example.com", Phone: "5550100",
		Address: contact.Address{Address: "1 Main St", City: "Springfield", Country: "United States", PostalCode: "62701"},
	}
}

func bob() contact.Contact {
	return contact.Contact{
		ID: 2, FirstName: "Bob", LastName: "Joanns", Email: "bob@example.com", Phone: "5550101",
		Address: contact.Address{Address: "2 Side St", City: "Shelbyville", Country: "Canada"},
	}
}

func newTestModel(t *testing.T, api *fakeAPI) (*Model, *cache.PageCache) {
	t.Helper()
	pages := cache.New(nil)
	m := New(context.Background(), api, pages, Options{PageSize: 10})
	t.Cleanup(m.Close)
	exec(t, m, m.load())
	return m, pages
}

// exec runs cmd and feeds load and mutation results back into the model
// until nothing further is produced. Other commands (blink, spinner,
// listen) are not run.
func exec(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	for cmd != nil {
		switch msg := cmd().(type) {
		case pageLoadedMsg, mutationDoneMsg:
			_, cmd = m.Update(msg)
		default:
			return
		}
	}
}

func press(m *Model, s string) tea.Cmd {
	var msg tea.KeyMsg
	switch s {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	case "backspace":
		msg = tea.KeyMsg{Type: tea.KeyBackspace}
	case "ctrl+e":
		msg = tea.KeyMsg{Type: tea.KeyCtrlE}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
	_, cmd := m.Update(msg)
	return cmd
}

func TestInitialLoadRendersRows(t *testing.T) {
	m, _ := newTestModel(t, newFakeAPI(ann(), bob()))

	view := m.View()
	assert.Contains(t, view, "Contacts")
	assert.Contains(t, view, "Ann")
	assert.Contains(t, view, "Joanns")
	assert.Contains(t, view, "2 contacts")
	assert.False(t, m.disp.Stale())
}

func TestSearchMovesToNewDescriptor(t *testing.T) {
	m, pages := newTestModel(t, newFakeAPI(ann(), bob()))
	initial := m.view.Query()

	press(m, "/")
	require.Equal(t, modeSearch, m.mode)
	press(m, "ann")
	exec(t, m, press(m, "enter"))

	q := m.view.Query()
	assert.Equal(t, contact.Query{Search: "ann", Skip: 0, Limit: 10}, q)
	assert.Equal(t, q, m.active.ActiveQuery())

	_, ok := pages.Read(initial)
	assert.True(t, ok, "the unfiltered page stays cached")
	page, ok := pages.Read(q)
	require.True(t, ok)
	assert.Equal(t, 2, page.Total)

	require.Len(t, m.rows, 2)
	assert.True(t, m.rows[0].FirstName[0].Match)
	assert.Contains(t, m.View(), `search: "ann"`)
}

func TestClearingSearchResetsImmediately(t *testing.T) {
	m, _ := newTestModel(t, newFakeAPI(ann(), bob()))
	press(m, "/")
	press(m, "a")
	exec(t, m, press(m, "enter"))
	require.Equal(t, "a", m.view.Params().Search)

	press(m, "/")
	press(m, "backspace")
	assert.Equal(t, "", m.view.Params().Search, "an empty box resets the search without enter")
	assert.Equal(t, modeSearch, m.mode)
}

func fillForm(m *Model) {
	for _, v := range []string{"Cara", "Diaz", "3 Elm St", "Ogdenville", "Mexico", "cara@example.com", "5550102"} {
		press(m, v)
		press(m, "tab")
	}
}

func TestCreateFlow(t *testing.T) {
	api := newFakeAPI(ann())
	m, pages := newTestModel(t, api)

	press(m, "n")
	require.Equal(t, modeForm, m.mode)
	assert.Contains(t, m.View(), "Create a new contact")

	fillForm(m)
	exec(t, m, press(m, "enter"))

	assert.Equal(t, modeList, m.mode, "the form closes on success")
	assert.Contains(t, m.View(), "Contact created successfully")

	page, ok := pages.Read(m.view.Query())
	require.True(t, ok)
	assert.Equal(t, 2, page.Total)
	assert.Equal(t, "Cara", page.Contacts[0].FirstName)
	assert.Equal(t, contact.ID(100), page.Contacts[0].ID, "placeholder replaced by the server id")
}

func TestSubmitInvalidFormMakesNoCall(t *testing.T) {
	api := newFakeAPI(ann())
	m, _ := newTestModel(t, api)

	press(m, "n")
	cmd := press(m, "enter")

	assert.Nil(t, cmd)
	assert.Equal(t, 0, api.mutations())
	assert.Equal(t, modeForm, m.mode)
	view := m.View()
	assert.Contains(t, view, "Please input the name of the contact!")
	assert.Contains(t, view, "Please input a email")
}

func TestAddAndRemoveEmailSlot(t *testing.T) {
	m, _ := newTestModel(t, newFakeAPI(ann()))
	press(m, "n")
	before := len(m.inputs)

	press(m, "ctrl+e")
	require.Len(t, m.inputs, before+1)
	focused := m.inputs[m.focus]
	assert.NotEmpty(t, focused.slot, "focus moves to the new slot")

	press(m, "second@example.com")
	require.Len(t, m.form.Emails(), 2)
	assert.Equal(t, "second@example.com", m.form.Emails()[1].Value)

	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlD})
	assert.Len(t, m.inputs, before)
	assert.Len(t, m.form.Emails(), 1)
}

func TestCancelFormMakesNoCall(t *testing.T) {
	api := newFakeAPI(ann())
	m, _ := newTestModel(t, api)

	press(m, "n")
	press(m, "Cara")
	press(m, "esc")

	assert.Equal(t, modeList, m.mode)
	assert.Nil(t, m.form)
	assert.Equal(t, 0, api.mutations())
}

func TestDeleteFailureRollsBack(t *testing.T) {
	api := newFakeAPI(ann())
	m, pages := newTestModel(t, api)
	before, _ := pages.Read(m.view.Query())

	api.fail = errors.New("service unavailable")
	press(m, "d")
	require.Equal(t, modeConfirmDelete, m.mode)
	assert.Contains(t, m.View(), "Delete Ann Lee (#1)?")

	exec(t, m, press(m, "y"))

	after, ok := pages.Read(m.view.Query())
	require.True(t, ok)
	assert.Equal(t, before, after)
	view := m.View()
	assert.Contains(t, view, "Failed to delete the contact: service unavailable")
	assert.Contains(t, view, "Ann")
}

func TestDeleteSuccessRemovesRow(t *testing.T) {
	m, pages := newTestModel(t, newFakeAPI(ann(), bob()))
	press(m, "d")
	exec(t, m, press(m, "y"))

	page, _ := pages.Read(m.view.Query())
	assert.Equal(t, 1, page.Total)
	assert.Contains(t, m.View(), "Contact #1 deleted successfully")
}

func TestFormDisabledWhileSubmitting(t *testing.T) {
	api := newFakeAPI(ann())
	api.block = make(chan struct{})
	m, pages := newTestModel(t, api)

	press(m, "e")
	require.True(t, m.form.Editing())
	assert.Contains(t, m.View(), "Edit contact")

	press(m, "x")
	cmd := press(m, "enter")
	require.NotNil(t, cmd)
	assert.True(t, m.submitting)

	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()

	require.Eventually(t, func() bool {
		_, ok := m.mutator.Pending(1)
		return ok
	}, time.Second, 5*time.Millisecond)

	press(m, "ignored")
	assert.Equal(t, "Annx", m.form.Get("firstName"), "keys are ignored while submitting")
	assert.Contains(t, m.View(), "Saving...")

	page, _ := pages.Read(m.view.Query())
	assert.Equal(t, "Annx", page.Contacts[0].FirstName, "optimistic write is visible")
	m.refresh()
	assert.Contains(t, m.renderTable(), pendingMarker(mutation.KindUpdate))

	close(api.block)
	_, next := m.Update(<-done)
	exec(t, m, next)

	assert.False(t, m.submitting)
	assert.Equal(t, modeList, m.mode)
	assert.Contains(t, m.View(), "Contact #1 updated successfully")
	page, _ = pages.Read(m.view.Query())
	assert.Equal(t, "62701", page.Contacts[0].Address.PostalCode)
}

func TestPagingKeepsPreviousPageAsPlaceholder(t *testing.T) {
	var many []contact.Contact
	for i := 1; i <= 15; i++ {
		c := ann()
		c.ID = contact.ID(i)
		many = append(many, c)
	}
	m, pages := newTestModel(t, newFakeAPI(many...))

	cmd := press(m, "l")
	require.NotNil(t, cmd)
	assert.Equal(t, 2, m.view.Params().Page)
	assert.True(t, m.disp.Placeholder, "page 1 stays on screen while page 2 loads")
	assert.True(t, m.disp.Stale())

	exec(t, m, cmd)
	assert.False(t, m.disp.Stale())
	page, ok := pages.Read(contact.Query{Skip: 10, Limit: 10})
	require.True(t, ok)
	assert.Len(t, page.Contacts, 5)
	assert.Contains(t, m.View(), "2/2")
}

func TestSortCycles(t *testing.T) {
	m, _ := newTestModel(t, newFakeAPI(bob(), ann()))
	require.Equal(t, contact.ID(2), m.rows[0].ID)

	press(m, "s")
	assert.Equal(t, contact.ID(1), m.rows[0].ID, "name ascending")
	assert.Contains(t, m.View(), "sort: name ↑")
}
