package explore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/matzehuels/graphview/pkg/cache"
	"github.com/matzehuels/graphview/pkg/observability"
	"github.com/matzehuels/graphview/pkg/snapshot"
)

// ErrSessionNotFound is returned when a session does not exist or has
// expired.
var ErrSessionNotFound = errors.New("session not found")

// Store persists session snapshots.
type Store interface {
	// Load returns the snapshot of a session, or ErrSessionNotFound.
	Load(ctx context.Context, session string) (*snapshot.Snapshot, error)

	// Save stores the snapshot of a session, replacing any previous one.
	Save(ctx context.Context, session string, s *snapshot.Snapshot) error

	// Delete removes a session. Deleting a missing session is not an error.
	Delete(ctx context.Context, session string) error
}

// CacheStore keeps snapshots in a [cache.Cache] as JSON. Transient backend
// errors are retried with [cache.RetryWithBackoff].
type CacheStore struct {
	cache cache.Cache
	keyer cache.Keyer
	ttl   time.Duration
}

// NewCacheStore creates a store over c. A nil keyer selects the default
// layout and a zero ttl selects [cache.SnapshotTTL].
func NewCacheStore(c cache.Cache, keyer cache.Keyer, ttl time.Duration) *CacheStore {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if ttl == 0 {
		ttl = cache.SnapshotTTL
	}
	return &CacheStore{cache: c, keyer: keyer, ttl: ttl}
}

// Load reads and decodes a session snapshot.
func (st *CacheStore) Load(ctx context.Context, session string) (*snapshot.Snapshot, error) {
	key := st.keyer.SnapshotKey(session)

	var (
		data []byte
		hit  bool
	)
	err := cache.RetryWithBackoff(ctx, func() error {
		var err error
		data, hit, err = st.cache.Get(ctx, key)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", session, err)
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, "snapshot")
		return nil, ErrSessionNotFound
	}
	observability.Cache().OnCacheHit(ctx, "snapshot")

	s, err := snapshot.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("decode session %s: %w", session, err)
	}
	return s, nil
}

// Save encodes and writes a session snapshot. Every save refreshes the
// session's ttl.
func (st *CacheStore) Save(ctx context.Context, session string, s *snapshot.Snapshot) error {
	data, err := snapshot.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", session, err)
	}
	key := st.keyer.SnapshotKey(session)
	err = cache.RetryWithBackoff(ctx, func() error {
		return st.cache.Set(ctx, key, data, st.ttl)
	})
	if err != nil {
		return fmt.Errorf("save session %s: %w", session, err)
	}
	observability.Cache().OnCacheSet(ctx, "snapshot", len(data))
	return nil
}

// Delete removes a session snapshot.
func (st *CacheStore) Delete(ctx context.Context, session string) error {
	key := st.keyer.SnapshotKey(session)
	return cache.RetryWithBackoff(ctx, func() error {
		return st.cache.Delete(ctx, key)
	})
}

// MemoryStore keeps snapshots in process memory. Loads and saves copy the
// snapshot, so callers never share state with the store.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*snapshot.Snapshot
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*snapshot.Snapshot)}
}

func (st *MemoryStore) Load(_ context.Context, session string) (*snapshot.Snapshot, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[session]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s.Clone(), nil
}

func (st *MemoryStore) Save(_ context.Context, session string, s *snapshot.Snapshot) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.sessions[session] = s.Clone()
	return nil
}

func (st *MemoryStore) Delete(_ context.Context, session string) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, session)
	return nil
}

// Len returns the number of stored sessions.
func (st *MemoryStore) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

var (
	_ Store = (*CacheStore)(nil)
	_ Store = (*MemoryStore)(nil)
)
