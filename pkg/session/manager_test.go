package session_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/arbor/pkg/adapters/memory"
	"github.com/aretw0/arbor/pkg/adapters/redis"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/ports/tests"
	"github.com/aretw0/arbor/pkg/session"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// SlowStore simulates latency to provoke lost updates if locking is missing.
type SlowStore struct {
	data map[string]domain.Context
	mu   sync.Mutex
}

func (s *SlowStore) Save(ctx context.Context, key string, value domain.Context) error {
	time.Sleep(5 * time.Millisecond)
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data == nil {
		s.data = make(map[string]domain.Context)
	}
	s.data[key] = value.Clone()
	return nil
}

func (s *SlowStore) Load(ctx context.Context, key string) (domain.Context, error) {
	time.Sleep(5 * time.Millisecond)
	s.mu.Lock()
	defer s.mu.Unlock()

	if value, ok := s.data[key]; ok {
		return value.Clone(), nil
	}
	return nil, domain.ErrContextNotFound
}

func (s *SlowStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

func (s *SlowStore) List(ctx context.Context) ([]string, error) {
	return nil, nil
}

func TestManager_Contract(t *testing.T) {
	tests.RunContextDAOContract(t, session.NewManager(memory.NewStore()))
}

func TestManager_ConcurrentAppendsAreSerialized(t *testing.T) {
	manager := session.NewManager(&SlowStore{})
	ctx := context.Background()
	target := domain.Target{ID: "race", Platform: domain.PlatformTelegram}

	var wg sync.WaitGroup
	const writers = 10
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := manager.AppendContext(ctx, target, domain.Context{fmt.Sprintf("k%d", i): i}, nil)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	got, err := manager.GetContext(ctx, target)
	require.NoError(t, err)
	assert.Len(t, got, writers, "every append must survive")
}

func TestManager_AppendSkipsWriteWhenCancelled(t *testing.T) {
	store := memory.NewStore()
	manager := session.NewManager(store)
	target := domain.Target{ID: "late", Platform: domain.PlatformFacebook}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := manager.AppendContext(ctx, target, domain.Context{"a": 1}, domain.Context{})
	assert.ErrorIs(t, err, context.Canceled)

	_, err = store.Load(context.Background(), target.Key())
	assert.ErrorIs(t, err, domain.ErrContextNotFound)
}

func TestManager_WithRedisLocker(t *testing.T) {
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	defer client.Close()

	manager := session.NewManager(
		redis.NewFromClient(client),
		session.WithLocker(redis.NewLocker(client, "test:")),
		session.WithLockTTL(time.Second),
	)
	ctx := context.Background()
	target := domain.Target{ID: "7", Platform: domain.PlatformTelegram}

	change, err := manager.AppendContext(ctx, target, domain.Context{"step": "menu"}, nil)
	require.NoError(t, err)
	assert.Empty(t, change.OldContext)
	assert.Equal(t, domain.Context{"step": "menu"}, change.NewContext)

	assert.False(t, mr.Exists("test:lock:telegram:7"), "lock must be released")

	got, err := manager.GetContext(ctx, target)
	require.NoError(t, err)
	assert.Equal(t, "menu", got["step"])
}
