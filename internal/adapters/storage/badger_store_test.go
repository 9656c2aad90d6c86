package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBadgerStore_InMemoryContract(t *testing.T) {
	store, err := OpenBadgerStore("")
	require.NoError(t, err)
	defer store.Close()

	runStoreContract(t, store)
}

func TestBadgerStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store, err := OpenBadgerStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, "prayer_records", "[]"))
	require.NoError(t, store.Close())

	assert.Error(t, store.Ping(ctx), "closed store must not report healthy")

	reopened, err := OpenBadgerStore(dir)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Get(ctx, "prayer_records")
	require.NoError(t, err)
	assert.Equal(t, "[]", got)
}
