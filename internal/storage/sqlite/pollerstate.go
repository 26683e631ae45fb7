// Copyright (c) 2025 The Junjo Authors.
// SPDX-License-Identifier: Apache-2.0

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// LoadPollerState returns the last processed upstream cursor, or nil when no
// state exists yet. A missing row and a row with a NULL cursor are the same
// thing to callers: start from the beginning.
func (s *Store) LoadPollerState(ctx context.Context) ([]byte, error) {
	var lastKey []byte
	err := s.db.GetContext(ctx, &lastKey, `SELECT last_key FROM poller_state WHERE id = 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load poller state: %w", err)
	}
	return lastKey, nil
}

// SavePollerState upserts the singleton cursor row.
func (s *Store) SavePollerState(ctx context.Context, lastKey []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO poller_state (id, last_key) VALUES (1, ?)
		ON CONFLICT (id) DO UPDATE SET last_key = excluded.last_key`,
		lastKey,
	)
	if err != nil {
		return fmt.Errorf("failed to save poller state: %w", err)
	}
	return nil
}

// ClearPollerState resets the cursor so the next run replays the upstream
// log from the beginning. Exposed for operator-driven replay.
func (s *Store) ClearPollerState(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO poller_state (id, last_key) VALUES (1, NULL)
		ON CONFLICT (id) DO UPDATE SET last_key = NULL`,
	)
	if err != nil {
		return fmt.Errorf("failed to clear poller state: %w", err)
	}
	return nil
}
