package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"go.uber.org/zap"

	"github.com/DeBrosOfficial/contacts/pkg/contact"
	"github.com/DeBrosOfficial/contacts/pkg/errors"
	"github.com/DeBrosOfficial/contacts/pkg/listview"
	"github.com/DeBrosOfficial/contacts/pkg/mutation"
)

var pageSizes = []int{10, 20, 50, 100}

var sortCycle = []struct {
	field listview.SortField
	order listview.SortOrder
	label string
}{
	{listview.SortNone, listview.Ascend, ""},
	{listview.SortFirstName, listview.Ascend, "name ↑"},
	{listview.SortFirstName, listview.Descend, "name ↓"},
	{listview.SortLastName, listview.Ascend, "last name ↑"},
	{listview.SortLastName, listview.Descend, "last name ↓"},
	{listview.SortCountry, listview.Ascend, "country ↑"},
	{listview.SortCountry, listview.Descend, "country ↓"},
}

// load publishes the current descriptor and fetches its page when the cache
// has none and no load is running.
func (m *Model) load() tea.Cmd {
	q := m.view.Query()
	m.active.set(q)
	m.refresh()

	if _, ok := m.pages.Read(q); ok || m.pages.InFlight(q) {
		return nil
	}
	m.disp.Loading = true

	ctx := m.ctx
	return func() tea.Msg {
		_, err := m.pages.Fetch(ctx, q, func(ctx context.Context) (*contact.Page, error) {
			return m.api.List(ctx, q)
		})
		return pageLoadedMsg{q: q, err: err}
	}
}

// refresh recomputes what the table shows from the cache.
func (m *Model) refresh() {
	q := m.view.Query()
	page, ok := m.pages.Read(q)
	m.disp = m.view.Resolve(page, ok, m.pages.InFlight(q))
	m.rows = m.view.Rows(m.disp.Page)
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}

	total := 0
	if m.disp.Page != nil {
		total = m.disp.Page.Total
	}
	m.pager.PerPage = m.view.Params().PageSize
	m.pager.SetTotalPages(total)
	m.pager.Page = m.view.Params().Page - 1
}

func (m *Model) handleLoaded(msg pageLoadedMsg) tea.Cmd {
	if msg.q != m.view.Query() {
		return nil
	}
	switch {
	case msg.err == nil:
		m.err = nil
	case errors.IsCancelled(msg.err):
		// Superseded by a mutation; load again if nothing replaced it.
		m.refresh()
		return m.load()
	default:
		m.logger.Warn("list failed", zap.String("query", msg.q.String()), zap.Error(msg.err))
		m.err = msg.err
	}
	m.refresh()
	return nil
}

func (m *Model) handleMutationDone(msg mutationDoneMsg) tea.Cmd {
	if msg.fromForm {
		m.submitting = false
		if msg.res.State == mutation.StateSucceeded {
			m.closeForm()
		}
	}
	m.refresh()
	return m.load()
}

func (m *Model) selected() (contact.Contact, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return contact.Contact{}, false
	}
	return m.rows[m.cursor].Contact, true
}

func (m *Model) updateList(msg tea.KeyMsg) tea.Cmd {
	k := defaultListKeys
	switch {
	case key.Matches(msg, k.Quit):
		return tea.Quit

	case key.Matches(msg, k.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, k.Down):
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}

	case key.Matches(msg, k.PrevPage):
		if p := m.view.Params().Page; p > 1 {
			m.view.SetPage(p - 1)
			m.cursor = 0
			return m.load()
		}

	case key.Matches(msg, k.NextPage):
		if m.disp.Page != nil && m.view.Params().Page < m.view.PageCount(m.disp.Page.Total) {
			m.view.SetPage(m.view.Params().Page + 1)
			m.cursor = 0
			return m.load()
		}

	case key.Matches(msg, k.Search):
		m.mode = modeSearch
		m.search.SetValue(m.view.Params().Search)
		m.search.CursorEnd()
		return m.search.Focus()

	case key.Matches(msg, k.New):
		return m.openForm(nil)

	case key.Matches(msg, k.Edit):
		if c, ok := m.selected(); ok {
			return m.openForm(&c)
		}

	case key.Matches(msg, k.Delete):
		if c, ok := m.selected(); ok {
			m.confirm = c
			m.mode = modeConfirmDelete
		}

	case key.Matches(msg, k.Sort):
		m.cycleSort()
		m.refresh()

	case key.Matches(msg, k.PageSize):
		m.cyclePageSize()
		return m.load()

	case key.Matches(msg, k.Refresh):
		m.pages.Invalidate(m.view.Query())
		return m.load()

	case key.Matches(msg, k.Dismiss):
		m.board.Dismiss()
	}
	return nil
}

func (m *Model) cycleSort() {
	p := m.view.Params()
	next := 0
	for i, s := range sortCycle {
		if s.field == p.SortField && s.order == p.SortOrder {
			next = (i + 1) % len(sortCycle)
			break
		}
	}
	m.view.SetSort(sortCycle[next].field, sortCycle[next].order)
}

func (m *Model) cyclePageSize() {
	size := m.view.Params().PageSize
	next := pageSizes[0]
	for i, s := range pageSizes {
		if s == size {
			next = pageSizes[(i+1)%len(pageSizes)]
			break
		}
	}
	m.view.SetPageSize(next)
}

func (m *Model) updateSearch(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEnter:
		m.search.Blur()
		m.mode = modeList
		m.view.SetSearch(strings.TrimSpace(m.search.Value()))
		m.cursor = 0
		return m.load()
	case tea.KeyEsc:
		m.search.Blur()
		m.mode = modeList
		return nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)

	// Clearing the box resets the search without waiting for enter.
	if m.search.Value() == "" && m.view.Params().Search != "" {
		m.view.SetSearch("")
		m.cursor = 0
		return tea.Batch(cmd, m.load())
	}
	return cmd
}

func (m *Model) updateConfirm(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y", "enter":
		id := m.confirm.ID
		m.mode = modeList
		ctx := m.ctx
		return func() tea.Msg {
			return mutationDoneMsg{res: m.mutator.Delete(ctx, id)}
		}
	case "n", "esc":
		m.mode = modeList
	}
	return nil
}

func (m *Model) viewList() string {
	var s strings.Builder

	p := m.view.Params()
	header := titleStyle.Render("Contacts")
	if p.Search != "" {
		header += subtitleStyle.Render(fmt.Sprintf("  search: %q", p.Search))
	}
	if label := sortLabel(p); label != "" {
		header += subtitleStyle.Render("  sort: " + label)
	}
	s.WriteString(header + "\n")

	if m.mode == modeSearch {
		s.WriteString(m.search.View() + "\n\n")
	}

	switch {
	case m.err != nil && m.disp.Page == nil:
		s.WriteString(errorStyle.Render("Failed to load contacts: "+m.err.Error()) + "\n")
	case m.disp.Page == nil:
		s.WriteString(m.spinner.View() + " Loading contacts...\n")
	default:
		s.WriteString(m.renderTable() + "\n")
		status := m.pager.View() + subtitleStyle.Render(fmt.Sprintf("  %d contacts  %d per page", m.disp.Page.Total, p.PageSize))
		if m.disp.Stale() {
			status = m.spinner.View() + " " + status
		}
		s.WriteString(status + "\n")
		if m.err != nil {
			s.WriteString(errorStyle.Render(m.err.Error()) + "\n")
		}
	}

	if m.mode == modeConfirmDelete {
		s.WriteString("\n" + m.viewConfirm() + "\n")
	}
	return s.String()
}

func sortLabel(p listview.TableParams) string {
	for _, s := range sortCycle {
		if s.field == p.SortField && s.order == p.SortOrder {
			return s.label
		}
	}
	return ""
}

func (m *Model) renderTable() string {
	search := m.view.Params().Search
	rows := make([][]string, len(m.rows))
	for i, r := range m.rows {
		marker := " "
		if kind, ok := m.mutator.Pending(r.ID); ok {
			marker = pendingStyle.Render(pendingMarker(kind))
		}
		rows[i] = []string{
			marker,
			renderSegments(r.FirstName),
			renderSegments(r.LastName),
			r.Address,
			r.City,
			r.Country,
			strings.Join(r.Contact.Emails(), "\n"),
			strings.Join(r.Contact.Phones(), "\n"),
		}
	}

	stale := m.disp.Stale()
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(blurredStyle).
		Headers("", "Name", "Last name", "Address", "City", "Country", "Emails", "Numbers").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case stale:
				return staleStyle
			case row == m.cursor:
				return selectedStyle
			default:
				return cellStyle
			}
		})
	if len(rows) == 0 {
		msg := "No contacts"
		if search != "" {
			msg = fmt.Sprintf("No contacts match %q", search)
		}
		return t.String() + "\n" + subtitleStyle.Render(msg)
	}
	return t.String()
}

func pendingMarker(kind mutation.Kind) string {
	switch kind {
	case mutation.KindCreate:
		return "+"
	case mutation.KindDelete:
		return "-"
	default:
		return "~"
	}
}

func renderSegments(segs []listview.Segment) string {
	var b strings.Builder
	for _, seg := range segs {
		if seg.Match {
			b.WriteString(highlightStyle.Render(seg.Text))
		} else {
			b.WriteString(seg.Text)
		}
	}
	return b.String()
}

func (m *Model) viewConfirm() string {
	body := fmt.Sprintf("Delete %s (#%d)?\n\n", m.confirm.FullName(), m.confirm.ID) +
		helpStyle.Render("y/enter: delete • n/esc: keep")
	return dangerBoxStyle.Render(body)
}

func (m *Model) viewNotices() string {
	notices := m.board.Notices()
	if len(notices) == 0 {
		return ""
	}
	var s strings.Builder
	for _, n := range notices {
		line := n.Message
		if n.Description != "" {
			line += ": " + n.Description
		}
		if n.Level == mutation.LevelFailure {
			s.WriteString(errorStyle.Render("✗ "+line) + "\n")
		} else {
			s.WriteString(successStyle.Render("✓ "+line) + "\n")
		}
	}
	return s.String()
}
