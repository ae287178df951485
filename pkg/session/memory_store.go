package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore implements Store using in-memory storage. Suitable for a
// single process and for tests.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Record
	now      func() time.Time
	ticker   *time.Ticker
	done     chan struct{}
	once     sync.Once
}

// MemoryStoreOption configures a MemoryStore.
type MemoryStoreOption func(*MemoryStore)

// WithMemoryClock overrides the clock used for expiry.
func WithMemoryClock(now func() time.Time) MemoryStoreOption {
	return func(m *MemoryStore) {
		if now != nil {
			m.now = now
		}
	}
}

// NewMemoryStore creates a new in-memory session store
func NewMemoryStore(cleanupInterval time.Duration, opts ...MemoryStoreOption) *MemoryStore {
	store := &MemoryStore{
		sessions: make(map[string]Record),
		now:      time.Now,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(store)
	}

	if cleanupInterval > 0 {
		store.ticker = time.NewTicker(cleanupInterval)
		go store.cleanupLoop()
	}

	return store
}

// Save stores a session
func (m *MemoryStore) Save(ctx context.Context, token string, rec Record) error {
	if token == "" || !rec.valid() {
		return ErrInvalidRecord
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions[TokenKey(token)] = rec
	return nil
}

// Get retrieves a session by token. Expired entries are reported as missing
// and left for the cleanup loop.
func (m *MemoryStore) Get(ctx context.Context, token string) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}

	m.mu.RLock()
	rec, exists := m.sessions[TokenKey(token)]
	m.mu.RUnlock()

	if !exists || rec.IsExpired(m.now()) {
		return Record{}, ErrSessionNotFound
	}
	return rec, nil
}

// Delete removes a session by token
func (m *MemoryStore) Delete(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, TokenKey(token))
	return nil
}

// DeleteByUserID removes all sessions for a specific user
func (m *MemoryStore) DeleteByUserID(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for key, rec := range m.sessions {
		if rec.UserID == userID {
			delete(m.sessions, key)
		}
	}
	return nil
}

// DeleteExpired removes all expired sessions
func (m *MemoryStore) DeleteExpired(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for key, rec := range m.sessions {
		if rec.IsExpired(now) {
			delete(m.sessions, key)
		}
	}
	return nil
}

// Len returns the number of stored sessions, expired ones included.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Close stops the cleanup goroutine
func (m *MemoryStore) Close() error {
	m.once.Do(func() {
		if m.ticker != nil {
			m.ticker.Stop()
		}
		close(m.done)
	})
	return nil
}

func (m *MemoryStore) cleanupLoop() {
	for {
		select {
		case <-m.ticker.C:
			_ = m.DeleteExpired(context.Background())
		case <-m.done:
			return
		}
	}
}
