// Copyright (c) 2025 The Junjo Authors.
// SPDX-License-Identifier: Apache-2.0

package clickhouse

import (
	"context"
	"errors"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/junjo-ai/junjo-server/internal/storage/clickhouse/dbmodel"
	"github.com/junjo-ai/junjo-server/internal/storage/clickhouse/sql"
)

// Batch groups one poll cycle's span rows and their derived state patches
// so the poller can commit or discard them together. Nothing reaches the
// server before Commit. ClickHouse offers no cross-statement transaction,
// so a failure between the two sends can leave spans visible without their
// patches; the caller must not advance its cursor on error, and the
// ReplacingMergeTree dedup keys absorb the redelivery.
type Batch struct {
	spans   driver.Batch
	patches driver.Batch
	done    bool
}

// BeginBatch prepares the span and state-patch inserts for one batch.
func (s *Store) BeginBatch(ctx context.Context) (*Batch, error) {
	spans, err := s.conn.PrepareBatch(ctx, sql.InsertSpan)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare span batch: %w", err)
	}
	patches, err := s.conn.PrepareBatch(ctx, sql.InsertStatePatch)
	if err != nil {
		return nil, errors.Join(
			fmt.Errorf("failed to prepare state patch batch: %w", err),
			spans.Abort(),
		)
	}
	return &Batch{spans: spans, patches: patches}, nil
}

func (b *Batch) AppendSpan(row dbmodel.Span) error {
	if err := appendSpan(b.spans, row); err != nil {
		return fmt.Errorf("failed to append span to batch: %w", err)
	}
	return nil
}

func (b *Batch) AppendPatch(row dbmodel.StatePatch) error {
	if err := appendPatch(b.patches, row); err != nil {
		return fmt.Errorf("failed to append state patch to batch: %w", err)
	}
	return nil
}

// Commit sends the span rows, then the state patch rows.
func (b *Batch) Commit() error {
	if b.done {
		return errors.New("batch already finished")
	}
	b.done = true
	if err := b.spans.Send(); err != nil {
		return errors.Join(
			fmt.Errorf("failed to send span batch: %w", err),
			b.patches.Abort(),
		)
	}
	if err := b.patches.Send(); err != nil {
		return fmt.Errorf("failed to send state patch batch: %w", err)
	}
	return nil
}

// Rollback discards both pending inserts. Safe to defer after Commit.
func (b *Batch) Rollback() error {
	if b.done {
		return nil
	}
	b.done = true
	return errors.Join(b.spans.Abort(), b.patches.Abort())
}
