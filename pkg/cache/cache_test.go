package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DeBrosOfficial/contacts/pkg/contact"
	"github.com/DeBrosOfficial/contacts/pkg/errors"
)

var listAll = contact.Query{Skip: 0, Limit: 10}

func annPage() *contact.Page {
	return &contact.Page{
		Contacts: []contact.Contact{{ID: 1, FirstName: "Ann"}},
		Total:    1,
		Limit:    10,
	}
}

func TestReadWrite(t *testing.T) {
	c := New(nil)

	_, ok := c.Read(listAll)
	assert.False(t, ok, "empty cache should miss")

	c.Write(listAll, annPage())
	got, ok := c.Read(listAll)
	require.True(t, ok)
	assert.Equal(t, annPage(), got)

	got.Contacts[0].FirstName = "Mutated"
	again, _ := c.Read(listAll)
	assert.Equal(t, "Ann", again.Contacts[0].FirstName, "readers must not alias the stored page")

	_, ok = c.Read(contact.Query{Search: "ann", Limit: 10})
	assert.False(t, ok, "different descriptor is a different entry")

	c.Write(listAll, nil)
	_, ok = c.Read(listAll)
	assert.False(t, ok, "nil write removes the entry")
}

func TestFetchCachesResult(t *testing.T) {
	c := New(nil)
	var calls atomic.Int32
	load := func(ctx context.Context) (*contact.Page, error) {
		calls.Add(1)
		return annPage(), nil
	}

	first, err := c.Fetch(context.Background(), listAll, load)
	require.NoError(t, err)
	second, err := c.Fetch(context.Background(), contact.Query{Skip: 0, Limit: 10}, load)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.EqualValues(t, 1, calls.Load(), "equal descriptors must share the cache entry")
}

func TestFetchCoalescesConcurrentMisses(t *testing.T) {
	c := New(nil)
	release := make(chan struct{})
	var calls atomic.Int32
	load := func(ctx context.Context) (*contact.Page, error) {
		calls.Add(1)
		<-release
		return annPage(), nil
	}

	const readers = 8
	var wg sync.WaitGroup
	errs := make(chan error, readers)
	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.Fetch(context.Background(), listAll, load)
			errs <- err
		}()
	}

	require.Eventually(t, func() bool { return c.InFlight(listAll) }, time.Second, time.Millisecond)
	close(release)
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	assert.EqualValues(t, 1, calls.Load(), "concurrent reads of one descriptor must issue one fetch")
}

func TestCancelledReadNeverOverwritesWrite(t *testing.T) {
	c := New(nil)
	started := make(chan struct{})
	release := make(chan struct{})
	stale := &contact.Page{Contacts: []contact.Contact{{ID: 9, FirstName: "Stale"}}, Total: 1, Limit: 10}

	load := func(ctx context.Context) (*contact.Page, error) {
		close(started)
		<-release
		// Responds even though it was cancelled.
		return stale, nil
	}

	done := make(chan error, 1)
	go func() {
		_, err := c.Fetch(context.Background(), listAll, load)
		done <- err
	}()

	<-started
	c.CancelInFlight(listAll.Key()...)
	optimistic := annPage()
	c.Write(listAll, optimistic)
	close(release)

	err := <-done
	assert.True(t, errors.IsCancelled(err), "cancelled read should report ErrCancelled, got %v", err)

	got, ok := c.Read(listAll)
	require.True(t, ok)
	assert.Equal(t, optimistic, got, "late response must be ignored")
}

func TestWriteSupersedesRunningLoad(t *testing.T) {
	c := New(nil)
	started := make(chan struct{})
	release := make(chan struct{})

	done := make(chan error, 1)
	go func() {
		_, err := c.Fetch(context.Background(), listAll, func(ctx context.Context) (*contact.Page, error) {
			close(started)
			<-release
			return &contact.Page{Total: 42}, nil
		})
		done <- err
	}()

	<-started
	c.Write(listAll, annPage())
	close(release)

	assert.True(t, errors.IsCancelled(<-done))
	got, _ := c.Read(listAll)
	assert.Equal(t, 1, got.Total)
}

func TestCancelInFlightPrefix(t *testing.T) {
	c := New(nil)
	search := contact.Query{Search: "ann", Limit: 10}

	ctxs := make(chan context.Context, 2)
	block := func(ctx context.Context) (*contact.Page, error) {
		ctxs <- ctx
		<-ctx.Done()
		return nil, ctx.Err()
	}

	results := make(chan error, 2)
	for _, q := range []contact.Query{listAll, search} {
		q := q
		go func() {
			_, err := c.Fetch(context.Background(), q, block)
			results <- err
		}()
	}
	<-ctxs
	<-ctxs

	c.CancelInFlight(contact.Resource, "ann")
	assert.True(t, errors.IsCancelled(<-results), "search read should be cancelled")
	assert.True(t, c.InFlight(listAll), "list read does not match the prefix")
	assert.False(t, c.InFlight(search))

	c.CancelInFlight()
	assert.True(t, errors.IsCancelled(<-results))
	assert.False(t, c.InFlight(listAll))
}

func TestFetchAfterCancelStartsFreshLoad(t *testing.T) {
	c := New(nil)
	started := make(chan struct{})
	first := make(chan error, 1)
	go func() {
		_, err := c.Fetch(context.Background(), listAll, func(ctx context.Context) (*contact.Page, error) {
			close(started)
			<-ctx.Done()
			return nil, ctx.Err()
		})
		first <- err
	}()
	<-started
	c.CancelInFlight(contact.Resource)

	page, err := c.Fetch(context.Background(), listAll, func(ctx context.Context) (*contact.Page, error) {
		return annPage(), nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
	assert.True(t, errors.IsCancelled(<-first))
}

func TestFetchErrorIsNotCached(t *testing.T) {
	c := New(nil)
	boom := errors.NewNetworkError("list contacts", context.DeadlineExceeded)

	_, err := c.Fetch(context.Background(), listAll, func(ctx context.Context) (*contact.Page, error) {
		return nil, boom
	})
	assert.True(t, errors.IsNetwork(err))

	_, ok := c.Read(listAll)
	assert.False(t, ok, "failed reads leave the cache untouched")
}

func TestFetchCallerContext(t *testing.T) {
	c := New(nil)
	release := make(chan struct{})
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		assert.Eventually(t, func() bool { return c.InFlight(listAll) }, time.Second, time.Millisecond)
		cancel()
	}()

	_, err := c.Fetch(ctx, listAll, func(ctx context.Context) (*contact.Page, error) {
		<-release
		return annPage(), nil
	})
	assert.True(t, errors.IsCancelled(err))
	assert.True(t, c.InFlight(listAll), "one waiter leaving does not cancel the shared load")
}

func TestInvalidate(t *testing.T) {
	c := New(nil)
	c.Write(listAll, annPage())
	c.Invalidate(listAll)

	var calls int
	_, err := c.Fetch(context.Background(), listAll, func(ctx context.Context) (*contact.Page, error) {
		calls++
		return annPage(), nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestWatch(t *testing.T) {
	c := New(nil)
	var seen []contact.Query
	stop := c.Watch(func(q contact.Query, page *contact.Page) {
		seen = append(seen, q)
	})

	c.Write(listAll, annPage())
	c.Invalidate(listAll)
	stop()
	c.Write(listAll, annPage())

	assert.Equal(t, []contact.Query{listAll, listAll}, seen)
}

// missHookStore runs onMiss once, after the first Load that misses and before
// that Load returns.
type missHookStore struct {
	*MemoryStore
	once   sync.Once
	onMiss func()
}

func (s *missHookStore) Load(ctx context.Context, key string) (*contact.Page, bool, error) {
	page, ok, err := s.MemoryStore.Load(ctx, key)
	if !ok && err == nil {
		s.once.Do(s.onMiss)
	}
	return page, ok, err
}

func TestWriteBetweenMissAndLoadWins(t *testing.T) {
	store := &missHookStore{MemoryStore: NewMemoryStore()}
	c := New(store)
	optimistic := &contact.Page{Contacts: []contact.Contact{{ID: 2, FirstName: "Bo"}}, Total: 2, Limit: 10}
	store.onMiss = func() { c.Write(listAll, optimistic) }

	var calls atomic.Int32
	got, err := c.Fetch(context.Background(), listAll, func(ctx context.Context) (*contact.Page, error) {
		calls.Add(1)
		return annPage(), nil
	})
	require.NoError(t, err)
	assert.Equal(t, optimistic, got)
	assert.Zero(t, calls.Load(), "a load started after the write must not run")

	cached, ok := c.Read(listAll)
	require.True(t, ok)
	assert.Equal(t, 2, cached.Total, "stale server page must not replace the optimistic one")
}

// slowStore blocks every Save until release is closed.
type slowStore struct {
	*MemoryStore
	entered chan struct{}
	release chan struct{}
}

func (s *slowStore) Save(ctx context.Context, key string, page *contact.Page) error {
	s.entered <- struct{}{}
	<-s.release
	return s.MemoryStore.Save(ctx, key, page)
}

func TestSlowStoreDoesNotBlockCache(t *testing.T) {
	store := &slowStore{
		MemoryStore: NewMemoryStore(),
		entered:     make(chan struct{}, 4),
		release:     make(chan struct{}),
	}
	c := New(store)

	go c.Write(listAll, annPage())
	<-store.entered

	other := contact.Query{Search: "bo", Limit: 10}
	done := make(chan struct{})
	go func() {
		c.CancelInFlight()
		c.InFlight(listAll)
		c.Write(other, annPage())
		close(done)
	}()

	// The second Write reaches the store while the first is still blocked.
	select {
	case <-store.entered:
	case <-time.After(time.Second):
		t.Fatal("cache operations blocked behind a slow store write")
	}
	close(store.release)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("write to another key did not finish")
	}
	_, ok := c.Read(other)
	assert.True(t, ok)
}

func TestConcurrentWritesKeepLatest(t *testing.T) {
	store := &slowStore{
		MemoryStore: NewMemoryStore(),
		entered:     make(chan struct{}, 4),
		release:     make(chan struct{}),
	}
	c := New(store)

	first := make(chan struct{})
	go func() {
		c.Write(listAll, annPage())
		close(first)
	}()
	<-store.entered

	latest := &contact.Page{Total: 7, Limit: 10}
	second := make(chan struct{})
	go func() {
		c.Write(listAll, latest)
		close(second)
	}()

	close(store.release)
	<-first
	<-second

	got, ok := c.Read(listAll)
	require.True(t, ok)
	assert.Equal(t, 7, got.Total)
}
