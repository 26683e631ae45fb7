// Copyright (c) 2025 The Junjo Authors.
// SPDX-License-Identifier: Apache-2.0

package clickhouse

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/junjo-ai/junjo-server/internal/storage/clickhouse/dbmodel"
	"github.com/junjo-ai/junjo-server/internal/storage/clickhouse/sql"
)

func testStore(t *testing.T) (*Store, *fakeConn) {
	conn := &fakeConn{}
	return &Store{conn: conn, logger: zaptest.NewLogger(t)}, conn
}

func testSpanRow() dbmodel.Span {
	parent := "1111111111111111"
	return dbmodel.Span{
		TraceID:               "0102030405060708090a0b0c0d0e0f10",
		SpanID:                "1112131415161718",
		ParentSpanID:          &parent,
		ServiceName:           "test-service",
		Name:                  "test-operation",
		Kind:                  "SERVER",
		StartTime:             time.Date(2023, 11, 14, 22, 13, 20, 0, time.UTC),
		EndTime:               time.Date(2023, 11, 14, 22, 13, 21, 0, time.UTC),
		StatusCode:            "0",
		AttributesJSON:        "{}",
		EventsJSON:            "[]",
		LinksJSON:             "[]",
		JunjoWfStateStart:     "{}",
		JunjoWfStateEnd:       "{}",
		JunjoWfGraphStructure: "{}",
	}
}

func testPatchRow() dbmodel.StatePatch {
	return dbmodel.StatePatch{
		PatchID:     "patch-1",
		ServiceName: "test-service",
		TraceID:     "0102030405060708090a0b0c0d0e0f10",
		SpanID:      "1112131415161718",
		NodeID:      "node-1",
		EventTime:   time.Date(2023, 11, 14, 22, 13, 20, 500000000, time.UTC),
		PatchJSON:   "{}",
	}
}

func TestBatchInsertSpans(t *testing.T) {
	store, conn := testStore(t)

	err := store.BatchInsertSpans(context.Background(), []dbmodel.Span{testSpanRow(), testSpanRow()})
	require.NoError(t, err)

	require.Len(t, conn.batches, 1)
	batch := conn.batches[0]
	assert.Equal(t, sql.InsertSpan, batch.query)
	assert.True(t, batch.sent)
	require.Len(t, batch.rows, 2)
	assert.Equal(t, "0102030405060708090a0b0c0d0e0f10", batch.rows[0][0])
	assert.Equal(t, "1112131415161718", batch.rows[0][1])
	assert.Equal(t, "test-service", batch.rows[0][3])
}

func TestBatchInsertSpansAppendError(t *testing.T) {
	store, conn := testStore(t)
	appendErr := errors.New("bad column")
	conn.appendErr = appendErr

	err := store.BatchInsertSpans(context.Background(), []dbmodel.Span{testSpanRow()})
	require.ErrorIs(t, err, appendErr)
	require.Len(t, conn.batches, 1)
	assert.True(t, conn.batches[0].aborted)
	assert.False(t, conn.batches[0].sent)
}

func TestBatchInsertPatches(t *testing.T) {
	store, conn := testStore(t)

	err := store.BatchInsertPatches(context.Background(), []dbmodel.StatePatch{testPatchRow()})
	require.NoError(t, err)

	require.Len(t, conn.batches, 1)
	batch := conn.batches[0]
	assert.Equal(t, sql.InsertStatePatch, batch.query)
	assert.True(t, batch.sent)
	require.Len(t, batch.rows, 1)
	assert.Equal(t, "patch-1", batch.rows[0][0])
	assert.Equal(t, "node-1", batch.rows[0][5])
}

func TestBatchInsertPrepareError(t *testing.T) {
	store, conn := testStore(t)
	conn.prepareErrs = []error{errors.New("no connection")}

	err := store.BatchInsertSpans(context.Background(), []dbmodel.Span{testSpanRow()})
	require.ErrorContains(t, err, "failed to prepare span batch")
}

func TestInitSchema(t *testing.T) {
	store, conn := testStore(t)

	require.NoError(t, store.initSchema(context.Background()))
	require.Len(t, conn.execQueries, 2)
	assert.Contains(t, conn.execQueries[0], "CREATE TABLE IF NOT EXISTS spans")
	assert.Contains(t, conn.execQueries[1], "CREATE TABLE IF NOT EXISTS state_patches")
}

func TestInitSchemaError(t *testing.T) {
	store, conn := testStore(t)
	conn.execErr = errors.New("DDL rejected")

	err := store.initSchema(context.Background())
	require.ErrorContains(t, err, "failed to create spans table")
}

func TestStoreClose(t *testing.T) {
	store, conn := testStore(t)
	require.NoError(t, store.Close())
	assert.True(t, conn.closed)
}
