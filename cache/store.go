package cache

import (
	"container/list"
	"context"
	"sync"
	"time"
)

// entry is the stored record for one key. Owned exclusively by its Store.
type entry[V any] struct {
	key            string
	value          V
	createdAt      time.Time
	lastAccessedAt time.Time
	accessCount    int64
}

// Store is a bounded in-memory memoization cache with LRU eviction and lazy
// TTL expiry. Values are stored by reference; callers must treat returned
// values as immutable or accept that in-place mutation is visible to all
// subsequent readers.
//
// Contract:
// - Concurrency: safe for concurrent use; a single mutex serializes every
//   operation, including the recency update on Get.
// - Context: operations never block or perform I/O; ctx is accepted for
//   call-site symmetry with other caches.
// - Errors: operations fail only when key derivation fails.
type Store[V any] struct {
	mu    sync.Mutex
	cfg   Config
	keyer Keyer

	// order is the recency list; front is most recently used.
	order *list.List
	items map[string]*list.Element

	rec recorder
}

// New creates a Store with the given configuration and the default keyer.
func New[V any](cfg Config) (*Store[V], error) {
	return NewWithKeyer[V](cfg, NewDefaultKeyer())
}

// NewWithKeyer creates a Store using a custom Keyer.
// A nil keyer falls back to the default.
func NewWithKeyer[V any](cfg Config, keyer Keyer) (*Store[V], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if keyer == nil {
		keyer = NewDefaultKeyer()
	}

	var rec recorder = noopRecorder{}
	if cfg.EnableMetrics {
		rec = newCollector()
	}

	return &Store[V]{
		cfg:   cfg,
		keyer: keyer,
		order: list.New(),
		items: make(map[string]*list.Element, cfg.MaxSize),
		rec:   rec,
	}, nil
}

// Get retrieves the value cached for params. A stale entry is removed and
// reported as a miss: the evictions counter is reserved for capacity-driven
// removals, so "expired for staleness" never shows up as "evicted for
// space". A hit updates the entry's access metadata and recency.
func (s *Store[V]) Get(_ context.Context, params any) (V, bool, error) {
	var zero V

	key, err := s.keyer.Key(params)
	if err != nil {
		return zero, false, err
	}

	start := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	elem, ok := s.items[key]
	if !ok {
		s.rec.miss(time.Since(start))
		return zero, false, nil
	}

	ent := elem.Value.(*entry[V])
	if s.expired(ent, time.Now()) {
		// Lazy expiry: reclaimed on read, counted as a miss.
		s.order.Remove(elem)
		delete(s.items, key)
		s.rec.miss(time.Since(start))
		return zero, false, nil
	}

	ent.accessCount++
	ent.lastAccessedAt = time.Now()
	s.order.MoveToFront(elem)
	s.rec.hit(time.Since(start))
	return ent.value, true, nil
}

// Set stores value under the key derived from params. Overwriting an
// existing key restarts its TTL window and moves it to the most recently
// used position without counting an eviction. Inserting at capacity evicts
// exactly the least recently used entry first.
func (s *Store[V]) Set(_ context.Context, params any, value V) error {
	key, err := s.keyer.Key(params)
	if err != nil {
		return err
	}

	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if elem, ok := s.items[key]; ok {
		ent := elem.Value.(*entry[V])
		ent.value = value
		ent.createdAt = now
		s.order.MoveToFront(elem)
		return nil
	}

	if s.order.Len() >= s.cfg.MaxSize {
		s.evictOldest()
	}

	elem := s.order.PushFront(&entry[V]{
		key:            key,
		value:          value,
		createdAt:      now,
		lastAccessedAt: now,
	})
	s.items[key] = elem
	return nil
}

// Has reports whether a valid entry exists for params. It is a pure peek:
// neither recency order nor metrics are touched, and an expired entry is
// left in place for Get to reap.
func (s *Store[V]) Has(params any) (bool, error) {
	key, err := s.keyer.Key(params)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	elem, ok := s.items[key]
	if !ok {
		return false, nil
	}
	return !s.expired(elem.Value.(*entry[V]), time.Now()), nil
}

// Delete removes the entry for params. Idempotent - no error on miss, and
// no eviction is counted.
func (s *Store[V]) Delete(_ context.Context, params any) error {
	key, err := s.keyer.Key(params)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if elem, ok := s.items[key]; ok {
		s.order.Remove(elem)
		delete(s.items, key)
	}
	return nil
}

// Clear removes all entries and resets the store's metrics to zero.
func (s *Store[V]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.order.Init()
	s.items = make(map[string]*list.Element, s.cfg.MaxSize)
	s.rec.reset()
}

// Len returns the number of physically stored entries, including any not
// yet reaped by lazy expiry.
func (s *Store[V]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.order.Len()
}

// Config returns a copy of the store's configuration.
func (s *Store[V]) Config() Config {
	return s.cfg
}

// Stats returns a snapshot of the store's metrics plus a bounded listing of
// the most recently used keys. Only short key prefixes are exposed; full
// keys are derived-content fingerprints and never leave the store. Returns
// zero values when metrics are disabled.
func (s *Store[V]) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, disabled := s.rec.(noopRecorder); disabled {
		return Stats{}
	}

	st := s.rec.snapshot()
	st.Entries = s.order.Len()

	for elem := s.order.Front(); elem != nil && len(st.RecentKeys) < recentKeyLimit; elem = elem.Next() {
		prefix := elem.Value.(*entry[V]).key
		if len(prefix) > keyPrefixLen {
			prefix = prefix[:keyPrefixLen]
		}
		st.RecentKeys = append(st.RecentKeys, prefix)
	}

	return st
}

// evictOldest removes the least recently used entry and counts it as an
// eviction. Caller must hold s.mu.
func (s *Store[V]) evictOldest() {
	back := s.order.Back()
	if back == nil {
		return
	}

	ent := back.Value.(*entry[V])
	s.order.Remove(back)
	delete(s.items, ent.key)
	s.rec.eviction()
}

// expired reports whether ent is past the store's TTL at now.
func (s *Store[V]) expired(ent *entry[V], now time.Time) bool {
	if s.cfg.TTL == NoExpiry {
		return false
	}
	return now.Sub(ent.createdAt) > s.cfg.TTL
}
