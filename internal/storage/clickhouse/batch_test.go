// Copyright (c) 2025 The Junjo Authors.
// SPDX-License-Identifier: Apache-2.0

package clickhouse

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junjo-ai/junjo-server/internal/storage/clickhouse/dbmodel"
	"github.com/junjo-ai/junjo-server/internal/storage/clickhouse/sql"
)

func TestBeginBatchCommit(t *testing.T) {
	store, conn := testStore(t)

	batch, err := store.BeginBatch(context.Background())
	require.NoError(t, err)
	require.Len(t, conn.batches, 2)
	assert.Equal(t, sql.InsertSpan, conn.batches[0].query)
	assert.Equal(t, sql.InsertStatePatch, conn.batches[1].query)

	require.NoError(t, batch.AppendSpan(testSpanRow()))
	require.NoError(t, batch.AppendPatch(testPatchRow()))
	require.NoError(t, batch.Commit())

	assert.True(t, conn.batches[0].sent)
	assert.True(t, conn.batches[1].sent)
	assert.Len(t, conn.batches[0].rows, 1)
	assert.Len(t, conn.batches[1].rows, 1)
}

func TestBeginBatchPatchPrepareError(t *testing.T) {
	store, conn := testStore(t)
	conn.prepareErrs = []error{nil, errors.New("no connection")}

	_, err := store.BeginBatch(context.Background())
	require.ErrorContains(t, err, "failed to prepare state patch batch")
	// The already prepared span batch must not linger.
	require.Len(t, conn.batches, 1)
	assert.True(t, conn.batches[0].aborted)
}

func TestBatchRollback(t *testing.T) {
	store, conn := testStore(t)

	batch, err := store.BeginBatch(context.Background())
	require.NoError(t, err)
	require.NoError(t, batch.AppendSpan(testSpanRow()))
	require.NoError(t, batch.Rollback())

	assert.True(t, conn.batches[0].aborted)
	assert.True(t, conn.batches[1].aborted)
	assert.False(t, conn.batches[0].sent)
}

func TestBatchRollbackAfterCommitIsNoop(t *testing.T) {
	store, conn := testStore(t)

	batch, err := store.BeginBatch(context.Background())
	require.NoError(t, err)
	require.NoError(t, batch.Commit())
	require.NoError(t, batch.Rollback())

	assert.False(t, conn.batches[0].aborted)
	assert.False(t, conn.batches[1].aborted)
}

func TestBatchCommitSpanSendError(t *testing.T) {
	store, conn := testStore(t)

	batch, err := store.BeginBatch(context.Background())
	require.NoError(t, err)
	sendErr := errors.New("server gone")
	conn.batches[0].sendErr = sendErr

	require.ErrorIs(t, batch.Commit(), sendErr)
	// The patch batch is discarded when the span batch cannot be sent.
	assert.True(t, conn.batches[1].aborted)
	assert.False(t, conn.batches[1].sent)
}

func TestBatchCommitTwice(t *testing.T) {
	store, _ := testStore(t)

	batch, err := store.BeginBatch(context.Background())
	require.NoError(t, err)
	require.NoError(t, batch.Commit())
	require.ErrorContains(t, batch.Commit(), "batch already finished")
}

func TestBatchAppendAfterConnFailure(t *testing.T) {
	store, conn := testStore(t)
	appendErr := errors.New("bad value")
	conn.appendErr = appendErr

	batch, err := store.BeginBatch(context.Background())
	require.NoError(t, err)
	require.ErrorIs(t, batch.AppendSpan(testSpanRow()), appendErr)
	require.ErrorIs(t, batch.AppendPatch(dbmodel.StatePatch{}), appendErr)
}
