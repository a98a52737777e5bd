package cache

import (
	"context"
	"sync"

	"github.com/ridebird/ride-cli/internal/ports"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// FetchFunc loads the payload for one key from the API.
type FetchFunc func(ctx context.Context) (any, error)

type Result struct {
	Data      any
	IsLoading bool
	Err       error
}

type entry struct {
	key         Key
	value       any
	hasValue    bool
	fetchedAt   int64 // unix nanos of the last successful fetch
	stale       bool
	fetching    bool
	err         error
	subscribers map[int]chan Result
}

// Store is a keyed, observable cache over remote reads. For any key at
// most one fetch is in flight; concurrent readers share it. Writes stale
// related keys through the declarative invalidation policy.
type Store struct {
	policy Policy
	clock  ports.Clock
	log    zerolog.Logger

	mu      sync.Mutex
	entries map[string]*entry
	nextSub int
	flight  singleflight.Group
}

func NewStore(policy Policy, clock ports.Clock, log zerolog.Logger) *Store {
	if clock == nil {
		clock = ports.SystemClock{}
	}

	return &Store{
		policy:  policy,
		clock:   clock,
		log:     log,
		entries: map[string]*entry{},
	}
}

// Get returns the cached value for key, fetching first when the entry is
// missing or stale. Blocks until the value is available.
func (s *Store) Get(ctx context.Context, key Key, fetch FetchFunc) (any, error) {
	s.mu.Lock()
	e := s.ensureEntry(key)
	if e.hasValue && !s.isStaleLocked(e) {
		value := e.value
		s.mu.Unlock()
		return value, nil
	}
	s.mu.Unlock()

	return s.fetchKey(ctx, key, fetch)
}

// Read returns the latest known state for key immediately and, when the
// entry is missing or stale, starts a background fetch whose outcome
// reaches subscribers.
func (s *Store) Read(ctx context.Context, key Key, fetch FetchFunc) Result {
	s.mu.Lock()
	e := s.ensureEntry(key)
	needsFetch := !e.hasValue || s.isStaleLocked(e)
	alreadyFetching := e.fetching
	result := s.resultLocked(e)
	s.mu.Unlock()

	if needsFetch && !alreadyFetching {
		result.IsLoading = true
		go func() {
			if _, err := s.fetchKey(ctx, key, fetch); err != nil {
				s.log.Debug().Err(err).Str("key", key.String()).Msg("background fetch failed")
			}
		}()
	}

	return result
}

// Subscribe registers for updates on key. The returned disposer must be
// invoked exactly once on teardown; late fetch completions after disposal
// are dropped, never delivered.
func (s *Store) Subscribe(key Key) (<-chan Result, func()) {
	s.mu.Lock()
	e := s.ensureEntry(key)
	id := s.nextSub
	s.nextSub++
	ch := make(chan Result, 1)
	e.subscribers[id] = ch
	s.mu.Unlock()

	var once sync.Once
	dispose := func() {
		once.Do(func() {
			s.mu.Lock()
			if current, ok := s.entries[key.String()]; ok {
				delete(current.subscribers, id)
			}
			s.mu.Unlock()
		})
	}

	return ch, dispose
}

// Write runs a mutating call and, on success, stales every key prefix the
// policy associates with the mutation key.
func (s *Store) Write(ctx context.Context, mutation Key, executor func(ctx context.Context) (any, error)) (any, error) {
	value, err := executor(ctx)
	if err != nil {
		return nil, err
	}

	for _, target := range s.policy.targetsFor(mutation) {
		s.Invalidate(target)
	}

	return value, nil
}

// Invalidate marks every cached key under prefix stale; the next read
// refetches instead of serving the cached value.
func (s *Store) Invalidate(prefix Key) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.entries {
		if e.key.HasPrefix(prefix) {
			e.stale = true
		}
	}
}

// Forget evicts every entry under prefix outright. In-flight fetches for
// forgotten keys complete without resurrecting the entry.
func (s *Store) Forget(prefix Key) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, e := range s.entries {
		if e.key.HasPrefix(prefix) {
			delete(s.entries, id)
		}
	}
}

func (s *Store) fetchKey(ctx context.Context, key Key, fetch FetchFunc) (any, error) {
	value, err, _ := s.flight.Do(key.String(), func() (any, error) {
		s.setFetching(key, true)
		value, err := fetch(ctx)
		s.complete(key, value, err)
		return value, err
	})
	return value, err
}

func (s *Store) setFetching(key Key, fetching bool) {
	s.mu.Lock()
	if e, ok := s.entries[key.String()]; ok {
		e.fetching = fetching
	}
	s.mu.Unlock()
}

func (s *Store) complete(key Key, value any, err error) {
	s.mu.Lock()
	e, ok := s.entries[key.String()]
	if !ok {
		// Forgotten while in flight; drop the late completion.
		s.mu.Unlock()
		return
	}

	e.fetching = false
	if err != nil {
		e.err = err
	} else {
		e.value = value
		e.hasValue = true
		e.err = nil
		e.stale = false
		e.fetchedAt = s.clock.Now().UnixNano()
	}

	result := s.resultLocked(e)
	notify := make([]chan Result, 0, len(e.subscribers))
	for _, ch := range e.subscribers {
		notify = append(notify, ch)
	}
	s.mu.Unlock()

	for _, ch := range notify {
		// Latest value wins: displace an undrained older result.
		select {
		case ch <- result:
			continue
		default:
		}
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- result:
		default:
		}
	}
}

// ensureEntry must be called with s.mu held.
func (s *Store) ensureEntry(key Key) *entry {
	id := key.String()
	e, ok := s.entries[id]
	if !ok {
		e = &entry{key: key, subscribers: map[int]chan Result{}}
		s.entries[id] = e
	}
	return e
}

// isStaleLocked must be called with s.mu held.
func (s *Store) isStaleLocked(e *entry) bool {
	if e.stale {
		return true
	}
	window := s.policy.windowFor(e.key)
	if window <= 0 {
		return false
	}
	age := s.clock.Now().UnixNano() - e.fetchedAt
	return age >= window.Nanoseconds()
}

// resultLocked must be called with s.mu held.
func (s *Store) resultLocked(e *entry) Result {
	return Result{
		Data:      e.value,
		IsLoading: e.fetching,
		Err:       e.err,
	}
}
