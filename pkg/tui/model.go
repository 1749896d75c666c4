// Package tui is the terminal screen: a paginated, searchable contact table
// with a create/edit form, delete confirmation and mutation notices.
package tui

import (
	"context"
	"sync"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/DeBrosOfficial/contacts/pkg/cache"
	"github.com/DeBrosOfficial/contacts/pkg/contact"
	"github.com/DeBrosOfficial/contacts/pkg/form"
	"github.com/DeBrosOfficial/contacts/pkg/listview"
	"github.com/DeBrosOfficial/contacts/pkg/mutation"
)

// API is the remote contact service as the screen uses it.
type API interface {
	mutation.API
	List(ctx context.Context, q contact.Query) (*contact.Page, error)
}

// Options configures the screen.
type Options struct {
	PageSize int
	Logger   *zap.Logger
}

type mode int

const (
	modeList mode = iota
	modeSearch
	modeForm
	modeConfirmDelete
)

// Messages
type (
	// changedMsg is sent when the cache or a mutation state changed.
	changedMsg struct{}

	pageLoadedMsg struct {
		q   contact.Query
		err error
	}

	mutationDoneMsg struct {
		res      mutation.Result
		fromForm bool
	}
)

// activeQuery is the descriptor on screen, readable from command goroutines.
type activeQuery struct {
	mu sync.RWMutex
	q  contact.Query
}

func (a *activeQuery) set(q contact.Query) {
	a.mu.Lock()
	a.q = q
	a.mu.Unlock()
}

func (a *activeQuery) ActiveQuery() contact.Query {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.q
}

// Model is the bubbletea model.
type Model struct {
	ctx     context.Context
	api     API
	pages   *cache.PageCache
	mutator *mutation.Mutator
	board   *mutation.Board
	logger  *zap.Logger

	active  *activeQuery
	changed chan struct{}
	unwatch func()

	mode   mode
	view   *listview.View
	disp   listview.Display
	rows   []listview.Row
	cursor int
	err    error

	search  textinput.Model
	spinner spinner.Model
	pager   paginator.Model
	help    help.Model

	form       *form.Form
	inputs     []formInput
	focus      int
	formErrs   form.Errors
	submitting bool

	confirm contact.Contact

	width  int
	height int
}

// New creates the screen model. The cache is shared with anything else
// that reads the same descriptors.
func New(ctx context.Context, api API, pages *cache.PageCache, opts Options) *Model {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &Model{
		ctx:     ctx,
		api:     api,
		pages:   pages,
		board:   mutation.NewBoard(5),
		logger:  logger,
		active:  &activeQuery{},
		changed: make(chan struct{}, 1),
		view:    listview.New(opts.PageSize),
		help:    help.New(),
	}

	m.mutator = mutation.New(api, pages, m.active,
		mutation.WithNotifier(m.board),
		mutation.WithObserver(func(mutation.Kind, contact.ID, mutation.State) { m.signal() }),
		mutation.WithLogger(logger),
	)
	m.unwatch = pages.Watch(func(contact.Query, *contact.Page) { m.signal() })

	m.search = textinput.New()
	m.search.Placeholder = "Search by name"
	m.search.Prompt = "🔍 "
	m.search.CharLimit = 128
	m.search.Width = 40

	m.spinner = spinner.New()
	m.spinner.Spinner = spinner.Dot
	m.spinner.Style = focusedStyle

	m.pager = paginator.New()
	m.pager.Type = paginator.Arabic

	m.active.set(m.view.Query())
	return m
}

// signal wakes the update loop. It never blocks; pending wake-ups coalesce.
func (m *Model) signal() {
	select {
	case m.changed <- struct{}{}:
	default:
	}
}

func (m *Model) listen() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-m.changed:
			return changedMsg{}
		case <-m.ctx.Done():
			return nil
		}
	}
}

// Close stops watching the cache.
func (m *Model) Close() {
	if m.unwatch != nil {
		m.unwatch()
	}
}

// Init starts the first load.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.listen(), m.spinner.Tick, m.load())
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case changedMsg:
		m.refresh()
		return m, m.listen()

	case pageLoadedMsg:
		return m, m.handleLoaded(msg)

	case mutationDoneMsg:
		return m, m.handleMutationDone(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.mode {
		case modeSearch:
			return m, m.updateSearch(msg)
		case modeForm:
			return m, m.updateForm(msg)
		case modeConfirmDelete:
			return m, m.updateConfirm(msg)
		default:
			return m, m.updateList(msg)
		}
	}
	return m, nil
}
