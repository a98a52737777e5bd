package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func countingFetch(counter *atomic.Int32, value any) FetchFunc {
	return func(context.Context) (any, error) {
		counter.Add(1)
		return value, nil
	}
}

func TestGetServesCachedValueUntilInvalidated(t *testing.T) {
	t.Parallel()

	store := NewStore(Policy{}, newFakeClock(), zerolog.Nop())
	key := K("trips", "mine")

	var fetches atomic.Int32
	fetch := countingFetch(&fetches, "first")

	value, err := store.Get(context.Background(), key, fetch)
	require.NoError(t, err)
	assert.Equal(t, "first", value)

	value, err = store.Get(context.Background(), key, fetch)
	require.NoError(t, err)
	assert.Equal(t, "first", value)
	assert.Equal(t, int32(1), fetches.Load())

	store.Invalidate(K("trips"))

	_, err = store.Get(context.Background(), key, fetch)
	require.NoError(t, err)
	assert.Equal(t, int32(2), fetches.Load())
}

func TestConcurrentGetsShareOneFetch(t *testing.T) {
	t.Parallel()

	store := NewStore(Policy{}, newFakeClock(), zerolog.Nop())
	key := K("chats", "list")

	var fetches atomic.Int32
	var startedOnce sync.Once
	started := make(chan struct{})
	release := make(chan struct{})
	fetch := func(context.Context) (any, error) {
		fetches.Add(1)
		startedOnce.Do(func() { close(started) })
		<-release
		return "payload", nil
	}

	first := make(chan struct{})
	var firstValue any
	var firstErr error
	go func() {
		defer close(first)
		firstValue, firstErr = store.Get(context.Background(), key, fetch)
	}()
	<-started

	// The fetch is held open until every reader has entered Get, so they
	// all join the first caller's flight.
	const readers = 10
	var entered, wg sync.WaitGroup
	entered.Add(readers)
	wg.Add(readers)
	values := make([]any, readers)
	errs := make([]error, readers)
	for i := range readers {
		go func() {
			defer wg.Done()
			entered.Done()
			values[i], errs[i] = store.Get(context.Background(), key, fetch)
		}()
	}
	entered.Wait()
	close(release)
	wg.Wait()
	<-first

	require.NoError(t, firstErr)
	assert.Equal(t, "payload", firstValue)

	for i := range readers {
		require.NoError(t, errs[i])
		assert.Equal(t, "payload", values[i])
	}
	assert.Equal(t, int32(1), fetches.Load())
}

func TestFreshnessWindowExpires(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	policy := Policy{Freshness: []FreshnessRule{{Prefix: K("chats", "unread"), Window: 15 * time.Second}}}
	store := NewStore(policy, clock, zerolog.Nop())
	key := K("chats", "unread")

	var fetches atomic.Int32
	fetch := countingFetch(&fetches, 3)

	_, err := store.Get(context.Background(), key, fetch)
	require.NoError(t, err)

	clock.Advance(10 * time.Second)
	_, err = store.Get(context.Background(), key, fetch)
	require.NoError(t, err)
	assert.Equal(t, int32(1), fetches.Load(), "inside the window the cached count is served")

	clock.Advance(6 * time.Second)
	_, err = store.Get(context.Background(), key, fetch)
	require.NoError(t, err)
	assert.Equal(t, int32(2), fetches.Load(), "past the window the count is refetched")
}

func TestInvalidatePrefixLeavesSiblingsFresh(t *testing.T) {
	t.Parallel()

	store := NewStore(Policy{}, newFakeClock(), zerolog.Nop())

	var tripFetches, chatFetches atomic.Int32
	tripKey := K("trips", "search", "berlin", "hamburg")
	chatKey := K("chats", "list")

	_, err := store.Get(context.Background(), tripKey, countingFetch(&tripFetches, "trips"))
	require.NoError(t, err)
	_, err = store.Get(context.Background(), chatKey, countingFetch(&chatFetches, "chats"))
	require.NoError(t, err)

	store.Invalidate(K("trips"))

	_, err = store.Get(context.Background(), tripKey, countingFetch(&tripFetches, "trips"))
	require.NoError(t, err)
	_, err = store.Get(context.Background(), chatKey, countingFetch(&chatFetches, "chats"))
	require.NoError(t, err)

	assert.Equal(t, int32(2), tripFetches.Load())
	assert.Equal(t, int32(1), chatFetches.Load())
}

func TestWriteStalesPolicyTargets(t *testing.T) {
	t.Parallel()

	policy := Policy{
		Invalidation: []InvalidationRule{
			{Mutation: K("chats", "send"), Targets: []Key{K("chats")}},
		},
	}
	store := NewStore(policy, newFakeClock(), zerolog.Nop())

	var listFetches, unreadFetches, messageFetches atomic.Int32
	listKey := K("chats", "list")
	unreadKey := K("chats", "unread")
	messagesKey := K("chats", "messages", "trip-1", "user-2")

	for _, seed := range []struct {
		key     Key
		counter *atomic.Int32
	}{
		{listKey, &listFetches},
		{unreadKey, &unreadFetches},
		{messagesKey, &messageFetches},
	} {
		_, err := store.Get(context.Background(), seed.key, countingFetch(seed.counter, "seed"))
		require.NoError(t, err)
	}

	sent, err := store.Write(context.Background(), K("chats", "send", "trip-1", "user-2"), func(context.Context) (any, error) {
		return "message-1", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "message-1", sent)

	_, err = store.Get(context.Background(), listKey, countingFetch(&listFetches, "seed"))
	require.NoError(t, err)
	_, err = store.Get(context.Background(), unreadKey, countingFetch(&unreadFetches, "seed"))
	require.NoError(t, err)
	_, err = store.Get(context.Background(), messagesKey, countingFetch(&messageFetches, "seed"))
	require.NoError(t, err)

	assert.Equal(t, int32(2), listFetches.Load())
	assert.Equal(t, int32(2), unreadFetches.Load())
	assert.Equal(t, int32(2), messageFetches.Load())
}

func TestWriteFailureSkipsInvalidation(t *testing.T) {
	t.Parallel()

	policy := Policy{
		Invalidation: []InvalidationRule{
			{Mutation: K("trips"), Targets: []Key{K("trips")}},
		},
	}
	store := NewStore(policy, newFakeClock(), zerolog.Nop())

	var fetches atomic.Int32
	key := K("trips", "mine")
	_, err := store.Get(context.Background(), key, countingFetch(&fetches, "seed"))
	require.NoError(t, err)

	boom := errors.New("seat conflict")
	_, err = store.Write(context.Background(), K("trips", "post"), func(context.Context) (any, error) {
		return nil, boom
	})
	require.ErrorIs(t, err, boom)

	_, err = store.Get(context.Background(), key, countingFetch(&fetches, "seed"))
	require.NoError(t, err)
	assert.Equal(t, int32(1), fetches.Load(), "failed writes leave the cache untouched")
}

func TestReadReturnsImmediatelyAndNotifiesSubscribers(t *testing.T) {
	t.Parallel()

	store := NewStore(Policy{}, newFakeClock(), zerolog.Nop())
	key := K("chats", "messages", "trip-1", "user-2")

	updates, dispose := store.Subscribe(key)
	defer dispose()

	result := store.Read(context.Background(), key, func(context.Context) (any, error) {
		return []string{"hi"}, nil
	})
	assert.True(t, result.IsLoading)
	assert.Nil(t, result.Data)

	select {
	case update := <-updates:
		require.NoError(t, update.Err)
		assert.Equal(t, []string{"hi"}, update.Data)
		assert.False(t, update.IsLoading)
	case <-time.After(2 * time.Second):
		t.Fatal("no update delivered")
	}

	cached := store.Read(context.Background(), key, func(context.Context) (any, error) {
		t.Fatal("fresh entry must not refetch")
		return nil, nil
	})
	assert.Equal(t, []string{"hi"}, cached.Data)
	assert.False(t, cached.IsLoading)
}

func TestReadKeepsServingStaleValueWhileRefetching(t *testing.T) {
	t.Parallel()

	store := NewStore(Policy{}, newFakeClock(), zerolog.Nop())
	key := K("notifications", "list")

	_, err := store.Get(context.Background(), key, func(context.Context) (any, error) {
		return "old", nil
	})
	require.NoError(t, err)

	store.Invalidate(K("notifications"))

	updates, dispose := store.Subscribe(key)
	defer dispose()

	release := make(chan struct{})
	result := store.Read(context.Background(), key, func(context.Context) (any, error) {
		<-release
		return "new", nil
	})
	assert.Equal(t, "old", result.Data, "stale value stays visible during the refetch")
	assert.True(t, result.IsLoading)

	close(release)
	select {
	case update := <-updates:
		assert.Equal(t, "new", update.Data)
	case <-time.After(2 * time.Second):
		t.Fatal("no update delivered")
	}
}

func TestSubscriberReceivesLatestResult(t *testing.T) {
	t.Parallel()

	store := NewStore(Policy{}, newFakeClock(), zerolog.Nop())
	key := K("chats", "unread")

	updates, dispose := store.Subscribe(key)
	defer dispose()

	// Two completions without the subscriber draining in between: the
	// buffered channel must end up holding the newest result.
	_, err := store.Get(context.Background(), key, func(context.Context) (any, error) { return 1, nil })
	require.NoError(t, err)
	store.Invalidate(key)
	_, err = store.Get(context.Background(), key, func(context.Context) (any, error) { return 2, nil })
	require.NoError(t, err)

	select {
	case update := <-updates:
		assert.Equal(t, 2, update.Data)
	default:
		t.Fatal("expected a buffered update")
	}
}

func TestDisposedSubscriberGetsNothing(t *testing.T) {
	t.Parallel()

	store := NewStore(Policy{}, newFakeClock(), zerolog.Nop())
	key := K("chats", "list")

	updates, dispose := store.Subscribe(key)
	dispose()
	dispose() // safe to call twice

	_, err := store.Get(context.Background(), key, func(context.Context) (any, error) { return "x", nil })
	require.NoError(t, err)

	select {
	case <-updates:
		t.Fatal("disposed subscriber must not be notified")
	default:
	}
}

func TestForgetDropsLateCompletion(t *testing.T) {
	t.Parallel()

	store := NewStore(Policy{}, newFakeClock(), zerolog.Nop())
	key := K("trips", "mine")

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = store.Get(context.Background(), key, func(context.Context) (any, error) {
			close(started)
			<-release
			return "late", nil
		})
	}()

	<-started
	store.Forget(K("trips"))
	close(release)
	<-done

	var fetches atomic.Int32
	value, err := store.Get(context.Background(), key, countingFetch(&fetches, "fresh"))
	require.NoError(t, err)
	assert.Equal(t, "fresh", value)
	assert.Equal(t, int32(1), fetches.Load(), "the late completion must not resurrect the entry")
}

func TestForgetNilPrefixEvictsEverything(t *testing.T) {
	t.Parallel()

	store := NewStore(Policy{}, newFakeClock(), zerolog.Nop())

	var tripFetches, chatFetches atomic.Int32
	_, err := store.Get(context.Background(), K("trips", "mine"), countingFetch(&tripFetches, "t"))
	require.NoError(t, err)
	_, err = store.Get(context.Background(), K("chats", "list"), countingFetch(&chatFetches, "c"))
	require.NoError(t, err)

	store.Forget(nil)

	_, err = store.Get(context.Background(), K("trips", "mine"), countingFetch(&tripFetches, "t"))
	require.NoError(t, err)
	_, err = store.Get(context.Background(), K("chats", "list"), countingFetch(&chatFetches, "c"))
	require.NoError(t, err)

	assert.Equal(t, int32(2), tripFetches.Load())
	assert.Equal(t, int32(2), chatFetches.Load())
}

func TestFetchErrorIsSurfacedAndRetried(t *testing.T) {
	t.Parallel()

	store := NewStore(Policy{}, newFakeClock(), zerolog.Nop())
	key := K("notifications", "unread")

	boom := errors.New("network unreachable")
	_, err := store.Get(context.Background(), key, func(context.Context) (any, error) {
		return nil, boom
	})
	require.ErrorIs(t, err, boom)

	value, err := store.Get(context.Background(), key, func(context.Context) (any, error) {
		return 4, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 4, value, "a failed fetch leaves the entry retryable")
}
