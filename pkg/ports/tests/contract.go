package tests

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunContextStoreContract verifies that a ContextStore implementation
// adheres to the interface contract.
func RunContextStoreContract(t *testing.T, store ports.ContextStore) {
	t.Helper()
	ctx := context.Background()
	key := "telegram:contract-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		err := store.Save(ctx, key, domain.Context{"foo": "bar", "count": 42})
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, key)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, "bar", loaded["foo"])
		// JSON backends turn ints into floats; only check presence.
		assert.NotNil(t, loaded["count"])
	})

	t.Run("Load returns a copy", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, key, domain.Context{"foo": "bar"}))

		loaded, err := store.Load(ctx, key)
		require.NoError(t, err)
		loaded["foo"] = "mutated"

		again, err := store.Load(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, "bar", again["foo"])
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+key)
		assert.ErrorIs(t, err, domain.ErrContextNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, key, domain.Context{"a": 1}))

		require.NoError(t, store.Delete(ctx, key), "Delete should not return error")

		_, err := store.Load(ctx, key)
		assert.ErrorIs(t, err, domain.ErrContextNotFound, "Load after Delete should return ErrContextNotFound")
	})

	t.Run("List", func(t *testing.T) {
		k1 := key + "-1"
		k2 := key + "-2"
		require.NoError(t, store.Save(ctx, k1, domain.Context{}))
		require.NoError(t, store.Save(ctx, k2, domain.Context{}))
		defer func() {
			_ = store.Delete(ctx, k1)
			_ = store.Delete(ctx, k2)
		}()

		keys, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, keys, k1)
		assert.Contains(t, keys, k2)
	})
}

// RunContextDAOContract verifies the get/append/reset semantics of a ContextDAO.
func RunContextDAOContract(t *testing.T, dao ports.ContextDAO) {
	t.Helper()
	ctx := context.Background()
	target := domain.Target{ID: "dao-contract", Platform: domain.PlatformFacebook}

	t.Run("Get on empty target", func(t *testing.T) {
		got, err := dao.GetContext(ctx, domain.Target{ID: "nobody", Platform: domain.PlatformTelegram})
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("Append merges shallowly", func(t *testing.T) {
		_, err := dao.AppendContext(ctx, target, domain.Context{"a": "1", "b": "2"}, nil)
		require.NoError(t, err)

		change, err := dao.AppendContext(ctx, target, domain.Context{"b": "3"}, nil)
		require.NoError(t, err)
		assert.Equal(t, "2", change.OldContext["b"])
		assert.Equal(t, domain.Context{"a": "1", "b": "3"}, change.NewContext)

		got, err := dao.GetContext(ctx, target)
		require.NoError(t, err)
		assert.Equal(t, domain.Context{"a": "1", "b": "3"}, got)
	})

	t.Run("Append with explicit old context skips the read", func(t *testing.T) {
		change, err := dao.AppendContext(ctx, target, domain.Context{"c": "4"}, domain.Context{"z": "0"})
		require.NoError(t, err)
		assert.Equal(t, domain.Context{"z": "0"}, change.OldContext)
		assert.Equal(t, domain.Context{"z": "0", "c": "4"}, change.NewContext)
	})

	t.Run("Reset", func(t *testing.T) {
		require.NoError(t, dao.ResetContext(ctx, target))

		got, err := dao.GetContext(ctx, target)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}
