// Copyright (c) 2025 The Junjo Authors.
// SPDX-License-Identifier: Apache-2.0

// Package sqlite implements the transactional row store shared by the
// poller (resumption cursor) and the internal auth server (API keys).
package sqlite

import (
	"context"
	"fmt"
	"io"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
	"go.uber.org/zap"
)

var _ io.Closer = (*Store)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS poller_state (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    last_key BLOB
);

CREATE TABLE IF NOT EXISTS api_keys (
    id TEXT PRIMARY KEY,
    key TEXT UNIQUE NOT NULL,
    name TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL
);
`

// Configuration holds options for the SQLite row store.
type Configuration struct {
	// Path to the database file. ":memory:" is accepted for tests.
	Path string `mapstructure:"path"`
}

// Store wraps the SQLite connection pool. The database runs with WAL
// journaling and NORMAL synchronous mode so the auth server can read while
// the poller writes.
type Store struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewStore opens the database, applies the journaling pragmas, and
// bootstraps the schema.
func NewStore(cfg Configuration, logger *zap.Logger) (*Store, error) {
	dsn := fmt.Sprintf(
		"file:%s?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000&_foreign_keys=on",
		cfg.Path,
	)
	db, err := sqlx.Connect("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize sqlite schema: %w", err)
	}
	return &Store{db: db, logger: logger}, nil
}

// Checkpoint flushes the write-ahead log into the main database file. The
// lifecycle manager calls this once after both long-lived tasks stop.
func (s *Store) Checkpoint(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `PRAGMA wal_checkpoint(TRUNCATE)`); err != nil {
		return fmt.Errorf("failed to checkpoint sqlite database: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
