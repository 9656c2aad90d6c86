package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/salah-sync-engine/internal/core/domain"
)

// runStoreContract exercises the behaviour every KeyValueStore must share.
func runStoreContract(t *testing.T, store domain.KeyValueStore) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, store.Clear(ctx))

	t.Run("Missing key returns ErrKeyNotFound", func(t *testing.T) {
		_, err := store.Get(ctx, "missing")
		assert.ErrorIs(t, err, domain.ErrKeyNotFound)
	})

	t.Run("Set then Get round trips", func(t *testing.T) {
		blob := `[{"date":"2024-01-15","prayer":"fajr","completed":true}]`
		require.NoError(t, store.Set(ctx, "prayer_records", blob))

		got, err := store.Get(ctx, "prayer_records")
		require.NoError(t, err)
		assert.Equal(t, blob, got)
	})

	t.Run("Set overwrites", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "prayer_records", "[]"))

		got, err := store.Get(ctx, "prayer_records")
		require.NoError(t, err)
		assert.Equal(t, "[]", got)
	})

	t.Run("Remove deletes only that key", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "other", "x"))
		require.NoError(t, store.Remove(ctx, "prayer_records"))

		_, err := store.Get(ctx, "prayer_records")
		assert.ErrorIs(t, err, domain.ErrKeyNotFound)

		got, err := store.Get(ctx, "other")
		require.NoError(t, err)
		assert.Equal(t, "x", got)
	})

	t.Run("Remove of missing key is not an error", func(t *testing.T) {
		assert.NoError(t, store.Remove(ctx, "never-set"))
	})

	t.Run("Clear deletes everything", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "a", "1"))
		require.NoError(t, store.Set(ctx, "b", "2"))
		require.NoError(t, store.Clear(ctx))

		for _, k := range []string{"a", "b", "other"} {
			_, err := store.Get(ctx, k)
			assert.ErrorIs(t, err, domain.ErrKeyNotFound, "key %s", k)
		}
	})

	t.Run("Ping", func(t *testing.T) {
		assert.NoError(t, store.Ping(ctx))
	})
}
