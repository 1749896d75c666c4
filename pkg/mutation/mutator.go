// Package mutation runs create, update and delete against the contact
// service with an optimistic write to the page cache that is rolled back
// when the call fails.
package mutation

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/DeBrosOfficial/contacts/pkg/contact"
	"github.com/DeBrosOfficial/contacts/pkg/errors"
)

// Kind is the mutation being performed.
type Kind int

const (
	KindCreate Kind = iota
	KindUpdate
	KindDelete
)

func (k Kind) String() string {
	switch k {
	case KindCreate:
		return "create"
	case KindUpdate:
		return "update"
	case KindDelete:
		return "delete"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// State is the lifecycle of one invocation:
// Idle -> Submitting -> Succeeded | Failed. Both settled states are terminal.
type State int

const (
	StateIdle State = iota
	StateSubmitting
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Settled reports whether s is terminal.
func (s State) Settled() bool {
	return s == StateSucceeded || s == StateFailed
}

// API is the remote side of a mutation.
type API interface {
	Create(ctx context.Context, c contact.Contact) (*contact.Contact, error)
	Update(ctx context.Context, id contact.ID, c contact.Contact) (*contact.Contact, error)
	Delete(ctx context.Context, id contact.ID) error
}

// Cache is the part of the page cache a mutation touches.
type Cache interface {
	Read(q contact.Query) (*contact.Page, bool)
	Write(q contact.Query, page *contact.Page)
	CancelInFlight(prefix ...string)
}

// ActiveQuery resolves the descriptor currently displayed by the list.
type ActiveQuery interface {
	ActiveQuery() contact.Query
}

// ActiveQueryFunc adapts a function to ActiveQuery.
type ActiveQueryFunc func() contact.Query

func (f ActiveQueryFunc) ActiveQuery() contact.Query { return f() }

// Observer is told about every state change of every invocation.
type Observer func(kind Kind, id contact.ID, state State)

// Result is the settled outcome of one invocation.
type Result struct {
	Kind    Kind
	State   State
	Notice  Notice
	Err     error
	Contact contact.Contact // The contact as it ended up in the cache
}

// Mutator runs mutations. It is safe for concurrent use; each call is an
// independent invocation.
type Mutator struct {
	api      API
	cache    Cache
	active   ActiveQuery
	notifier Notifier
	observer Observer
	logger   *zap.Logger

	mu      sync.Mutex
	pending map[contact.ID]Kind
}

// Option configures a Mutator.
type Option func(*Mutator)

// WithNotifier sets where notices are sent.
func WithNotifier(n Notifier) Option {
	return func(m *Mutator) { m.notifier = n }
}

// WithObserver sets the state change observer.
func WithObserver(o Observer) Option {
	return func(m *Mutator) { m.observer = o }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(m *Mutator) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// New creates a Mutator.
func New(api API, cache Cache, active ActiveQuery, opts ...Option) *Mutator {
	m := &Mutator{
		api:     api,
		cache:   cache,
		active:  active,
		logger:  zap.NewNop(),
		pending: make(map[contact.ID]Kind),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Pending reports whether a mutation for id is submitting, and which.
func (m *Mutator) Pending(id contact.ID) (Kind, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k, ok := m.pending[id]
	return k, ok
}

// Create adds c. When c has no identifier a placeholder is assigned; on
// success it is replaced in the cache by the identifier the service returns.
func (m *Mutator) Create(ctx context.Context, c contact.Contact) Result {
	if c.ID == 0 {
		c.ID = contact.NewPlaceholderID()
	}
	placeholder := c.ID
	var created *contact.Contact

	res := m.run(ctx, invocation{
		kind: KindCreate,
		id:   placeholder,
		apply: func(p *contact.Page) *contact.Page {
			return p.Prepend(c)
		},
		call: func(ctx context.Context) error {
			out, err := m.api.Create(ctx, c)
			created = out
			return err
		},
		reconcile: func(q contact.Query) contact.Contact {
			return m.reconcile(q, placeholder, c, created)
		},
	})
	if res.State == StateSucceeded {
		res.Notice = m.notify(Notice{Level: LevelSuccess, Message: "Contact created successfully"})
	}
	return res
}

// Update replaces the contact with identifier id by c.
func (m *Mutator) Update(ctx context.Context, id contact.ID, c contact.Contact) Result {
	c.ID = id
	final := c

	res := m.run(ctx, invocation{
		kind: KindUpdate,
		id:   id,
		apply: func(p *contact.Page) *contact.Page {
			if prev, ok := p.Find(id); ok {
				final = withServerFields(c, prev)
			}
			next, _ := p.Replace(id, final)
			return next
		},
		call: func(ctx context.Context) error {
			_, err := m.api.Update(ctx, id, final)
			return err
		},
		reconcile: func(contact.Query) contact.Contact { return final },
	})
	if res.State == StateSucceeded {
		res.Notice = m.notify(Notice{
			Level:   LevelSuccess,
			Message: fmt.Sprintf("Contact #%d updated successfully", id),
		})
	}
	return res
}

// Delete removes the contact with identifier id.
func (m *Mutator) Delete(ctx context.Context, id contact.ID) Result {
	var removed contact.Contact

	res := m.run(ctx, invocation{
		kind: KindDelete,
		id:   id,
		apply: func(p *contact.Page) *contact.Page {
			removed, _ = p.Find(id)
			next, _ := p.Remove(id)
			return next
		},
		call: func(ctx context.Context) error {
			return m.api.Delete(ctx, id)
		},
		reconcile: func(contact.Query) contact.Contact { return removed },
	})
	if res.State == StateSucceeded {
		res.Notice = m.notify(Notice{
			Key:     DeleteNoticeKey,
			Level:   LevelSuccess,
			Message: fmt.Sprintf("Contact #%d deleted successfully", id),
		})
	}
	return res
}

type invocation struct {
	kind      Kind
	id        contact.ID
	apply     func(*contact.Page) *contact.Page
	call      func(context.Context) error
	reconcile func(contact.Query) contact.Contact
}

var failureMessages = map[Kind]string{
	KindCreate: "Failed to create the contact",
	KindUpdate: "Failed to update the contact",
	KindDelete: "Failed to delete the contact",
}

func (m *Mutator) run(ctx context.Context, inv invocation) Result {
	res := Result{Kind: inv.kind, State: StateIdle}
	log := m.logger.With(zap.Stringer("kind", inv.kind), zap.Int64("id", int64(inv.id)))

	q := m.active.ActiveQuery()
	m.cache.CancelInFlight(q.Key()...)

	snapshot, hadSnapshot := m.cache.Read(q)
	if hadSnapshot {
		m.cache.Write(q, inv.apply(snapshot))
		log.Debug("optimistic write", zap.String("query", q.String()))
	} else {
		log.Debug("no cached page, skipping optimistic write", zap.String("query", q.String()))
	}

	m.transition(inv, &res, StateSubmitting)
	err := inv.call(ctx)

	if err != nil {
		if hadSnapshot {
			m.cache.Write(q, snapshot)
		}
		log.Warn("mutation failed, rolled back",
			zap.String("category", string(errors.GetCategory(errors.GetErrorCode(err)))),
			zap.Error(err))
		if stack := errors.StackTrace(err); stack != "" {
			log.Debug("mutation failure stack", zap.String("stack", stack))
		}
		res.Err = err
		notice := Notice{
			Level:       LevelFailure,
			Message:     failureMessages[inv.kind],
			Description: err.Error(),
		}
		if inv.kind == KindDelete {
			notice.Key = DeleteNoticeKey
		}
		res.Notice = m.notify(notice)
		m.transition(inv, &res, StateFailed)
		return res
	}

	res.Contact = inv.reconcile(q)
	log.Info("mutation succeeded", zap.Int64("result_id", int64(res.Contact.ID)))
	m.transition(inv, &res, StateSucceeded)
	return res
}

// reconcile swaps the placeholder for the server identifier in the active
// page and returns the contact as cached.
func (m *Mutator) reconcile(q contact.Query, placeholder contact.ID, sent contact.Contact, created *contact.Contact) contact.Contact {
	if created == nil || created.ID == 0 || created.ID == placeholder {
		return sent
	}

	final := sent
	final.ID = created.ID

	page, ok := m.cache.Read(q)
	if !ok {
		return final
	}
	if next, found := page.Replace(placeholder, final); found {
		m.cache.Write(q, next)
		m.logger.Debug("reconciled placeholder identifier",
			zap.Int64("placeholder", int64(placeholder)),
			zap.Int64("id", int64(final.ID)))
	}
	return final
}

func (m *Mutator) transition(inv invocation, res *Result, to State) {
	res.State = to

	m.mu.Lock()
	if to == StateSubmitting {
		m.pending[inv.id] = inv.kind
	} else if to.Settled() {
		delete(m.pending, inv.id)
	}
	m.mu.Unlock()

	if m.observer != nil {
		m.observer(inv.kind, inv.id, to)
	}
}

func (m *Mutator) notify(n Notice) Notice {
	if m.notifier != nil {
		m.notifier.Notify(n)
	}
	return n
}

// withServerFields keeps the address fields only the service fills in
// when the edited contact leaves them empty.
func withServerFields(edited, prev contact.Contact) contact.Contact {
	a := &edited.Address
	if a.State == "" {
		a.State = prev.Address.State
	}
	if a.StateCode == "" {
		a.StateCode = prev.Address.StateCode
	}
	if a.PostalCode == "" {
		a.PostalCode = prev.Address.PostalCode
	}
	if a.Coordinates == (contact.Coordinates{}) {
		a.Coordinates = prev.Address.Coordinates
	}
	return edited
}
