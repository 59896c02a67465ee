package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/arbor/internal/logging"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/ports"
)

// DefaultLockTTL bounds how long a distributed lock survives a crashed holder.
const DefaultLockTTL = 30 * time.Second

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager implements ports.ContextDAO over a ports.ContextStore.
// It uses reference counting to garbage collect unused locks.
type Manager struct {
	store ports.ContextStore

	mu    sync.Mutex            // guards locks
	locks map[string]*lockEntry // active locks by target key

	locker  ports.DistributedLocker
	lockTTL time.Duration
	logger  *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL overrides DefaultLockTTL.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.lockTTL = ttl
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a context manager backed by store.
func NewManager(store ports.ContextStore, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		locks:   make(map[string]*lockEntry),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST lock entry.mu, and then call release(key) after unlocking.
func (m *Manager) acquire(key string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[key]
	if !exists {
		entry = &lockEntry{}
		m.locks[key] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[key]
	if !exists {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, key)
	}
}

// GetContext returns the stored context, or an empty one.
func (m *Manager) GetContext(ctx context.Context, target domain.Target) (domain.Context, error) {
	var current domain.Context
	err := m.WithLock(ctx, target, func(ctx context.Context) error {
		var err error
		current, err = m.load(ctx, target)
		return err
	})
	return current, err
}

// AppendContext shallow-merges additional over the current context and saves it.
// A non-nil old is used as the current context and the store read is skipped.
func (m *Manager) AppendContext(ctx context.Context, target domain.Target, additional, old domain.Context) (ports.ContextChange, error) {
	var change ports.ContextChange
	err := m.WithLock(ctx, target, func(ctx context.Context) error {
		if old == nil {
			var err error
			if old, err = m.load(ctx, target); err != nil {
				return err
			}
		}

		merged := old.Merge(additional)
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := m.store.Save(ctx, target.Key(), merged); err != nil {
			return fmt.Errorf("failed to save context for %s: %w", target.Key(), err)
		}

		change = ports.ContextChange{OldContext: old.Clone(), NewContext: merged}
		return nil
	})
	return change, err
}

// ResetContext removes the stored context.
func (m *Manager) ResetContext(ctx context.Context, target domain.Target) error {
	return m.WithLock(ctx, target, func(ctx context.Context) error {
		return m.store.Delete(ctx, target.Key())
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying context store.
func (m *Manager) Store() ports.ContextStore {
	return m.store
}

func (m *Manager) load(ctx context.Context, target domain.Target) (domain.Context, error) {
	current, err := m.store.Load(ctx, target.Key())
	if errors.Is(err, domain.ErrContextNotFound) {
		return domain.Context{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load context for %s: %w", target.Key(), err)
	}
	return current, nil
}

// WithLock executes fn while holding the lock for the target's conversation.
func (m *Manager) WithLock(ctx context.Context, target domain.Target, fn func(context.Context) error) error {
	key := target.Key()
	entry := m.acquire(key)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(key)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, key, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"target", key,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
