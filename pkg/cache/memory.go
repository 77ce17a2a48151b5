package cache

import (
	"container/list"
	"context"
	"sync"
	"time"
)

type memEntry[V any] struct {
	key       string
	value     V
	expiresAt time.Time // zero means never
}

func (e *memEntry[V]) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// Memory is an in-process cache with TTL expiration and LRU eviction
// once maxEntries is reached. Lookups are O(1) via a map; recency is
// tracked with an intrusive list, most recent at the front.
type Memory[V any] struct {
	mu      sync.Mutex
	items   map[string]*list.Element
	recency *list.List
	closed  bool
	done    chan struct{}

	defaultTTL time.Duration
	maxEntries int
}

// MemoryOption configures a Memory cache.
type MemoryOption func(*memoryConfig)

type memoryConfig struct {
	defaultTTL      time.Duration
	maxEntries      int
	cleanupInterval time.Duration
}

// WithDefaultTTL sets the TTL applied when Set is called with zero.
func WithDefaultTTL(ttl time.Duration) MemoryOption {
	return func(c *memoryConfig) { c.defaultTTL = ttl }
}

// WithMaxEntries caps the entry count; inserting past the cap evicts the
// least recently used entry. Zero means unbounded.
func WithMaxEntries(n int) MemoryOption {
	return func(c *memoryConfig) { c.maxEntries = n }
}

// WithCleanupInterval sets how often the janitor sweeps expired entries.
// Zero disables the janitor; expired entries are then dropped lazily on
// access.
func WithCleanupInterval(d time.Duration) MemoryOption {
	return func(c *memoryConfig) { c.cleanupInterval = d }
}

// NewMemory creates an in-memory cache. Close it to stop the janitor.
func NewMemory[V any](opts ...MemoryOption) *Memory[V] {
	cfg := memoryConfig{
		defaultTTL:      time.Hour,
		cleanupInterval: time.Minute,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	m := &Memory[V]{
		items:      make(map[string]*list.Element),
		recency:    list.New(),
		done:       make(chan struct{}),
		defaultTTL: cfg.defaultTTL,
		maxEntries: cfg.maxEntries,
	}
	if cfg.cleanupInterval > 0 {
		go m.janitor(cfg.cleanupInterval)
	}
	return m
}

func (m *Memory[V]) Get(_ context.Context, key string) (V, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var zero V
	elem, ok := m.items[key]
	if !ok {
		return zero, ErrNotFound
	}
	e := elem.Value.(*memEntry[V])
	if e.expired(time.Now()) {
		m.remove(elem)
		return zero, ErrNotFound
	}
	m.recency.MoveToFront(elem)
	return e.value, nil
}

func (m *Memory[V]) Set(_ context.Context, key string, value V, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	if ttl == 0 {
		ttl = m.defaultTTL
	}
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl)
	}

	if elem, ok := m.items[key]; ok {
		e := elem.Value.(*memEntry[V])
		e.value = value
		e.expiresAt = expiresAt
		m.recency.MoveToFront(elem)
		return nil
	}

	if m.maxEntries > 0 && len(m.items) >= m.maxEntries {
		if oldest := m.recency.Back(); oldest != nil {
			m.remove(oldest)
		}
	}
	m.items[key] = m.recency.PushFront(&memEntry[V]{key: key, value: value, expiresAt: expiresAt})
	return nil
}

func (m *Memory[V]) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	if elem, ok := m.items[key]; ok {
		m.remove(elem)
	}
	return nil
}

func (m *Memory[V]) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	m.items = make(map[string]*list.Element)
	m.recency.Init()
	return nil
}

// Close stops the janitor. Idempotent.
func (m *Memory[V]) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.closed {
		m.closed = true
		close(m.done)
	}
	return nil
}

func (m *Memory[V]) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			m.sweep()
		}
	}
}

func (m *Memory[V]) sweep() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	for elem := m.recency.Back(); elem != nil; {
		prev := elem.Prev()
		if elem.Value.(*memEntry[V]).expired(now) {
			m.remove(elem)
		}
		elem = prev
	}
}

// remove unlinks an element. Caller holds the mutex.
func (m *Memory[V]) remove(elem *list.Element) {
	m.recency.Remove(elem)
	delete(m.items, elem.Value.(*memEntry[V]).key)
}

var _ Cache[any] = (*Memory[any])(nil)
