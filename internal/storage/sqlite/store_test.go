// Copyright (c) 2025 The Junjo Authors.
// SPDX-License-Identifier: Apache-2.0

package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func testStore(t *testing.T) *Store {
	store, err := NewStore(Configuration{
		Path: filepath.Join(t.TempDir(), "junjo.db"),
	}, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})
	return store
}

func TestPollerState(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	// A fresh database has no cursor.
	lastKey, err := store.LoadPollerState(ctx)
	require.NoError(t, err)
	assert.Nil(t, lastKey)

	cursor := []byte("01H2XCEJ4QKW7PZ3M9V5T8RBND")
	require.NoError(t, store.SavePollerState(ctx, cursor))

	lastKey, err = store.LoadPollerState(ctx)
	require.NoError(t, err)
	assert.Equal(t, cursor, lastKey)

	// The singleton row is overwritten, never duplicated.
	next := []byte("01H2XCEJ4QKW7PZ3M9V5T8RBNE")
	require.NoError(t, store.SavePollerState(ctx, next))

	lastKey, err = store.LoadPollerState(ctx)
	require.NoError(t, err)
	assert.Equal(t, next, lastKey)

	var count int
	require.NoError(t, store.db.Get(&count, `SELECT COUNT(*) FROM poller_state`))
	assert.Equal(t, 1, count)
}

func TestClearPollerState(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	require.NoError(t, store.SavePollerState(ctx, []byte("cursor")))
	require.NoError(t, store.ClearPollerState(ctx))

	lastKey, err := store.LoadPollerState(ctx)
	require.NoError(t, err)
	assert.Nil(t, lastKey)

	// Clearing an empty table is also fine.
	fresh := testStore(t)
	require.NoError(t, fresh.ClearPollerState(ctx))
}

func TestAPIKeys(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	created, err := store.CreateAPIKey(ctx, "jk_live_0123456789abcdef", "ci-runner")
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "ci-runner", created.Name)

	found, err := store.GetAPIKeyByKey(ctx, "jk_live_0123456789abcdef")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, created.ID, found.ID)

	missing, err := store.GetAPIKeyByKey(ctx, "jk_live_unknown")
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = store.CreateAPIKey(ctx, "jk_live_second", "dashboard")
	require.NoError(t, err)

	keys, err := store.ListAPIKeys(ctx)
	require.NoError(t, err)
	assert.Len(t, keys, 2)

	require.NoError(t, store.DeleteAPIKey(ctx, created.ID))
	found, err = store.GetAPIKeyByKey(ctx, "jk_live_0123456789abcdef")
	require.NoError(t, err)
	assert.Nil(t, found)

	// Deleting an unknown id is not an error.
	require.NoError(t, store.DeleteAPIKey(ctx, "no-such-id"))
}

func TestDuplicateAPIKeyRejected(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	_, err := store.CreateAPIKey(ctx, "jk_live_dup", "first")
	require.NoError(t, err)
	_, err = store.CreateAPIKey(ctx, "jk_live_dup", "second")
	require.Error(t, err)
}

func TestCheckpoint(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	require.NoError(t, store.SavePollerState(ctx, []byte("cursor")))
	require.NoError(t, store.Checkpoint(ctx))

	lastKey, err := store.LoadPollerState(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte("cursor"), lastKey)
}
