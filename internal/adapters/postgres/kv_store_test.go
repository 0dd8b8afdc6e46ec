package postgres

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/folioworks/folio/internal/ports"
	"github.com/folioworks/folio/internal/testutil"
)

func TestKVStore(t *testing.T) {
	testutil.WithEphemeralDB(t, func(db *sql.DB) {
		store := NewKVStore(db)
		ctx := context.Background()

		_, err := store.Get(ctx, "c1:token")
		require.ErrorIs(t, err, ports.ErrNotFound)

		require.NoError(t, store.Set(ctx, "c1:token", "first"))
		require.NoError(t, store.Set(ctx, "c1:token", "second"))
		require.NoError(t, store.Set(ctx, "c1:user", "{}"))

		got, err := store.Get(ctx, "c1:token")
		require.NoError(t, err)
		assert.Equal(t, "second", got)

		require.NoError(t, store.Delete(ctx, "c1:token", "c1:user", "c1:missing"))
		_, err = store.Get(ctx, "c1:user")
		assert.ErrorIs(t, err, ports.ErrNotFound)

		require.NoError(t, store.Delete(ctx))
		assert.NoError(t, store.Ping(ctx))
	})
}

func TestKVStore_SetEmptyKey(t *testing.T) {
	store := NewKVStore(nil)
	assert.Error(t, store.Set(context.Background(), "", "x"))
}
