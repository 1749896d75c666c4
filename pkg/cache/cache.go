// Package cache is the client-side page cache: one page per query
// descriptor, de-duplicated reads, and cancellation of in-flight reads that
// must not overwrite a newer write.
package cache

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/DeBrosOfficial/contacts/pkg/contact"
	"github.com/DeBrosOfficial/contacts/pkg/errors"
)

// Loader fetches a page from its source of truth.
type Loader func(ctx context.Context) (*contact.Page, error)

// Listener is called after the page stored for q changed. page is nil when
// the entry was removed.
type Listener func(q contact.Query, page *contact.Page)

type flight struct {
	gen    uint64
	cancel context.CancelFunc
}

// PageCache maps query descriptors to the last known page.
//
// Every key carries a generation. Writes and cancellations bump it; a load
// only stores its result if the generation observed before its cache miss is
// still current, so a late response never clobbers an optimistic write.
//
// Store I/O runs outside mu. Each write reserves a sequence number under mu
// and is applied under a per-key lock only if no later write for the key was
// reserved meanwhile.
type PageCache struct {
	store   Store
	logger  *zap.Logger
	timeout time.Duration

	group singleflight.Group

	mu       sync.Mutex
	gens     map[string]uint64
	inflight map[string]*flight
	queries  map[string]contact.Query
	writes   map[string]uint64
	locks    map[string]*sync.Mutex

	listenersMu sync.RWMutex
	listeners   map[int]Listener
	nextID      int
}

// Option configures a PageCache.
type Option func(*PageCache)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *PageCache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithStoreTimeout bounds each Store call made by Read, Write and Invalidate.
func WithStoreTimeout(d time.Duration) Option {
	return func(c *PageCache) { c.timeout = d }
}

// New creates a cache over store. A nil store means an in-process MemoryStore.
func New(store Store, opts ...Option) *PageCache {
	if store == nil {
		store = NewMemoryStore()
	}
	c := &PageCache{
		store:     store,
		logger:    zap.NewNop(),
		timeout:   5 * time.Second,
		gens:      make(map[string]uint64),
		inflight:  make(map[string]*flight),
		queries:   make(map[string]contact.Query),
		writes:    make(map[string]uint64),
		locks:     make(map[string]*sync.Mutex),
		listeners: make(map[int]Listener),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *PageCache) storeCtx() (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), c.timeout)
}

// Read returns a copy of the page stored for exactly q.
func (c *PageCache) Read(q contact.Query) (*contact.Page, bool) {
	ctx, cancel := c.storeCtx()
	defer cancel()

	page, ok, err := c.store.Load(ctx, q.String())
	if err != nil {
		c.logger.Warn("cache read failed", zap.String("key", q.String()), zap.Error(err))
		return nil, false
	}
	if !ok {
		return nil, false
	}
	return page.Clone(), true
}

// Write replaces the page stored for q. A nil page removes the entry.
// Any load for q that is still running will have its result discarded.
func (c *PageCache) Write(q contact.Query, page *contact.Page) {
	key := q.String()

	c.mu.Lock()
	c.gens[key]++
	c.queries[key] = q
	c.group.Forget(key)
	seq := c.reserve(key)
	c.mu.Unlock()

	c.commit(q, seq, page)
}

// reserve takes the next write sequence for key. Callers hold c.mu.
func (c *PageCache) reserve(key string) uint64 {
	c.writes[key]++
	return c.writes[key]
}

func (c *PageCache) keyLock(key string) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	l, ok := c.locks[key]
	if !ok {
		l = &sync.Mutex{}
		c.locks[key] = l
	}
	return l
}

// commit stores page under write sequence seq and notifies listeners. It is
// a no-op when a later write for the same key has been reserved; that write
// will store its own page.
func (c *PageCache) commit(q contact.Query, seq uint64, page *contact.Page) {
	key := q.String()
	l := c.keyLock(key)
	l.Lock()

	c.mu.Lock()
	latest := c.writes[key] == seq
	c.mu.Unlock()
	if !latest {
		l.Unlock()
		c.logger.Debug("skipped superseded cache write", zap.String("key", key))
		return
	}

	err := c.put(key, page)
	l.Unlock()

	if err != nil {
		c.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
		return
	}
	c.notify(q, page.Clone())
}

func (c *PageCache) put(key string, page *contact.Page) error {
	ctx, cancel := c.storeCtx()
	defer cancel()

	if page == nil {
		return c.store.Remove(ctx, key)
	}
	return c.store.Save(ctx, key, page.Clone())
}

// CancelInFlight cancels every outstanding load whose key starts with
// prefix (see contact.Query.Key). Cancellation is advisory: a cancelled
// load that still completes is ignored and its waiters get ErrCancelled.
func (c *PageCache) CancelInFlight(prefix ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, f := range c.inflight {
		if !c.queries[key].HasPrefix(prefix...) {
			continue
		}
		c.gens[key]++
		f.cancel()
		delete(c.inflight, key)
		c.group.Forget(key)
		c.logger.Debug("cancelled in-flight read", zap.String("key", key))
	}
}

// Invalidate drops the page stored for q so that the next Fetch loads it.
func (c *PageCache) Invalidate(q contact.Query) {
	c.Write(q, nil)
}

// InFlight reports whether a load for q is outstanding.
func (c *PageCache) InFlight(q contact.Query) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.inflight[q.String()]
	return ok
}

// Fetch returns the page for q, loading it on a miss. Concurrent misses for
// the same descriptor share one load. The load runs detached from ctx so one
// waiter giving up does not fail the others; ctx only bounds this caller's wait.
func (c *PageCache) Fetch(ctx context.Context, q contact.Query, load Loader) (*contact.Page, error) {
	key := q.String()

	// The generation is taken before the miss so that a write landing
	// between the miss and the load invalidates the load.
	c.mu.Lock()
	gen := c.gens[key]
	c.mu.Unlock()

	if page, ok := c.Read(q); ok {
		return page, nil
	}

	ch := c.group.DoChan(key, func() (interface{}, error) {
		return c.load(ctx, q, gen, load)
	})

	select {
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		return r.Val.(*contact.Page).Clone(), nil
	case <-ctx.Done():
		return nil, errors.Wrapf(ctx.Err(), "fetch %s", key)
	}
}

func (c *PageCache) load(parent context.Context, q contact.Query, gen uint64, load Loader) (*contact.Page, error) {
	key := q.String()
	loadCtx, cancel := context.WithCancel(context.WithoutCancel(parent))
	defer cancel()

	c.mu.Lock()
	if c.gens[key] != gen {
		c.mu.Unlock()
		c.logger.Debug("page changed before load started", zap.String("key", key))
		if page, ok := c.Read(q); ok {
			return page, nil
		}
		return nil, errors.ErrCancelled
	}
	f :=&flight{gen: gen, cancel: cancel}
	c.inflight[key] = f
	c.queries[key] = q
	c.mu.Unlock()

	c.logger.Debug("loading page", zap.String("key", key))
	page, err := load(loadCtx)

	c.mu.Lock()
	if c.inflight[key] == f {
		delete(c.inflight, key)
	}
	if c.gens[key] != gen {
		c.mu.Unlock()
		c.logger.Debug("discarded superseded read", zap.String("key", key))
		return nil, errors.ErrCancelled
	}
	if err != nil {
		c.mu.Unlock()
		if errors.IsCancelled(err) {
			return nil, errors.ErrCancelled
		}
		return nil, err
	}
	if page == nil {
		page = &contact.Page{Contacts: []contact.Contact{}}
	}
	c.gens[key]++
	seq := c.reserve(key)
	c.mu.Unlock()

	c.commit(q, seq, page)
	return page, nil
}

// Watch registers fn to be called after every change. The returned function
// unregisters it.
func (c *PageCache) Watch(fn Listener) func() {
	c.listenersMu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	c.listenersMu.Unlock()

	return func() {
		c.listenersMu.Lock()
		delete(c.listeners, id)
		c.listenersMu.Unlock()
	}
}

func (c *PageCache) notify(q contact.Query, page *contact.Page) {
	c.listenersMu.RLock()
	defer c.listenersMu.RUnlock()
	for _, fn := range c.listeners {
		fn(q, page.Clone())
	}
}
