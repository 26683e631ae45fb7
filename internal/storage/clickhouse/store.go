// Copyright (c) 2025 The Junjo Authors.
// SPDX-License-Identifier: Apache-2.0

// Package clickhouse implements the columnar span store: batched writes of
// span and state-patch rows, schema bootstrap, and the typed read helpers
// used by the query layer.
package clickhouse

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"go.uber.org/zap"

	"github.com/junjo-ai/junjo-server/internal/storage/clickhouse/dbmodel"
	"github.com/junjo-ai/junjo-server/internal/storage/clickhouse/sql"
)

var _ io.Closer = (*Store)(nil)

// Store owns the ClickHouse connection. Writers acquire batches from it,
// readers run queries through it; the connection is released only by Close.
type Store struct {
	conn   driver.Conn
	logger *zap.Logger
}

// NewStore connects to ClickHouse, verifies the connection, and creates the
// spans and state_patches tables when schema creation is enabled. A store
// that fails to initialize holds no resources.
func NewStore(ctx context.Context, cfg Configuration, logger *zap.Logger) (*Store, error) {
	cfg.applyDefaults()
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: cfg.Addresses,
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
		DialTimeout: cfg.DialTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create ClickHouse connection: %w", err)
	}
	if err := conn.Ping(ctx); err != nil {
		return nil, errors.Join(
			fmt.Errorf("failed to ping ClickHouse: %w", err),
			conn.Close(),
		)
	}
	s := &Store{conn: conn, logger: logger}
	if cfg.CreateSchema {
		if err := s.initSchema(ctx); err != nil {
			return nil, errors.Join(err, conn.Close())
		}
	}
	return s, nil
}

func (s *Store) initSchema(ctx context.Context) error {
	schemas := []struct {
		name  string
		query string
	}{
		{"spans table", sql.CreateSpansTable},
		{"state patches table", sql.CreateStatePatchesTable},
	}
	for _, schema := range schemas {
		if err := s.conn.Exec(ctx, schema.query); err != nil {
			return fmt.Errorf("failed to create %s: %w", schema.name, err)
		}
	}
	return nil
}

// BatchInsertSpans inserts span rows in a single prepared batch. Rows whose
// (trace_id, span_id) already exists collapse to a single stored row.
func (s *Store) BatchInsertSpans(ctx context.Context, rows []dbmodel.Span) error {
	batch, err := s.conn.PrepareBatch(ctx, sql.InsertSpan)
	if err != nil {
		return fmt.Errorf("failed to prepare span batch: %w", err)
	}
	for _, row := range rows {
		if err := appendSpan(batch, row); err != nil {
			return errors.Join(
				fmt.Errorf("failed to append span to batch: %w", err),
				batch.Abort(),
			)
		}
	}
	if err := batch.Send(); err != nil {
		return fmt.Errorf("failed to send span batch: %w", err)
	}
	return nil
}

// BatchInsertPatches inserts state patch rows in a single prepared batch.
func (s *Store) BatchInsertPatches(ctx context.Context, rows []dbmodel.StatePatch) error {
	batch, err := s.conn.PrepareBatch(ctx, sql.InsertStatePatch)
	if err != nil {
		return fmt.Errorf("failed to prepare state patch batch: %w", err)
	}
	for _, row := range rows {
		if err := appendPatch(batch, row); err != nil {
			return errors.Join(
				fmt.Errorf("failed to append state patch to batch: %w", err),
				batch.Abort(),
			)
		}
	}
	if err := batch.Send(); err != nil {
		return fmt.Errorf("failed to send state patch batch: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.conn.Close()
}

func appendSpan(batch driver.Batch, row dbmodel.Span) error {
	return batch.Append(
		row.TraceID,
		row.SpanID,
		row.ParentSpanID,
		row.ServiceName,
		row.Name,
		row.Kind,
		row.StartTime,
		row.EndTime,
		row.StatusCode,
		row.StatusMessage,
		row.AttributesJSON,
		row.EventsJSON,
		row.LinksJSON,
		row.TraceFlags,
		row.TraceState,
		row.JunjoID,
		row.JunjoParentID,
		row.JunjoSpanType,
		row.JunjoWfStateStart,
		row.JunjoWfStateEnd,
		row.JunjoWfGraphStructure,
		row.JunjoWfStoreID,
	)
}

func appendPatch(batch driver.Batch, row dbmodel.StatePatch) error {
	return batch.Append(
		row.PatchID,
		row.ServiceName,
		row.TraceID,
		row.SpanID,
		row.WorkflowID,
		row.NodeID,
		row.EventTime,
		row.PatchJSON,
		row.PatchStoreID,
	)
}
