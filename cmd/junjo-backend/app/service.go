// Copyright (c) 2025 The Junjo Authors.
// SPDX-License-Identifier: Apache-2.0

// Package app wires the backend's two long-lived tasks, the span poller
// and the internal auth server, to their storage backends.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/junjo-ai/junjo-server/internal/authgrpc"
	"github.com/junjo-ai/junjo-server/internal/ingester"
	"github.com/junjo-ai/junjo-server/internal/ingester/upstream"
	"github.com/junjo-ai/junjo-server/internal/storage/clickhouse"
	"github.com/junjo-ai/junjo-server/internal/storage/sqlite"
)

// checkpointTimeout bounds the final WAL flush during shutdown.
const checkpointTimeout = 5 * time.Second

// columnarWriter adapts the concrete ClickHouse store to the poller's
// batch interface.
type columnarWriter struct {
	store *clickhouse.Store
}

func (w columnarWriter) BeginBatch(ctx context.Context) (ingester.Batch, error) {
	batch, err := w.store.BeginBatch(ctx)
	if err != nil {
		return nil, err
	}
	return batch, nil
}

// Service owns every component of the backend process.
type Service struct {
	logger     *zap.Logger
	sqlite     *sqlite.Store
	clickhouse *clickhouse.Store
	upstream   *upstream.Client
	authServer *authgrpc.Server
	poller     *ingester.Poller
}

// NewService connects to both stores and the upstream log and builds the
// poller and auth server. Nothing starts running until Run.
func NewService(ctx context.Context, opts *Options, logger *zap.Logger) (*Service, error) {
	sqliteStore, err := sqlite.NewStore(opts.SQLite, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open row store: %w", err)
	}
	clickhouseStore, err := clickhouse.NewStore(ctx, opts.ClickHouse, logger)
	if err != nil {
		return nil, errors.Join(
			fmt.Errorf("failed to open span store: %w", err),
			sqliteStore.Close(),
		)
	}
	upstreamClient, err := upstream.NewClient(opts.Upstream)
	if err != nil {
		return nil, errors.Join(
			fmt.Errorf("failed to create upstream client: %w", err),
			clickhouseStore.Close(),
			sqliteStore.Close(),
		)
	}
	return &Service{
		logger:     logger,
		sqlite:     sqliteStore,
		clickhouse: clickhouseStore,
		upstream:   upstreamClient,
		authServer: authgrpc.NewServer(opts.Auth, sqliteStore, logger),
		poller: ingester.NewPoller(
			upstreamClient,
			columnarWriter{store: clickhouseStore},
			sqliteStore,
			opts.Poller,
			logger,
			prometheus.DefaultRegisterer,
		),
	}, nil
}

// Run serves until ctx is cancelled or the poller fails to start, then
// shuts everything down in reverse order: poller first, auth server with
// its drain period, finally checkpoint and close the stores.
func (s *Service) Run(ctx context.Context) error {
	if err := s.authServer.Start(); err != nil {
		return errors.Join(fmt.Errorf("failed to start auth server: %w", err), s.closeStores())
	}

	pollerDone := make(chan error, 1)
	go func() {
		pollerDone <- s.poller.Run(ctx)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		s.logger.Info("Shutdown signal received")
		runErr = <-pollerDone
	case runErr = <-pollerDone:
		// Poller could not start; bring the rest down too.
	}

	var errs []error
	if runErr != nil {
		errs = append(errs, runErr)
	}
	if err := s.upstream.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close upstream client: %w", err))
	}
	if err := s.authServer.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to stop auth server: %w", err))
	}
	errs = append(errs, s.closeStores())
	return errors.Join(errs...)
}

func (s *Service) closeStores() error {
	ctx, cancel := context.WithTimeout(context.Background(), checkpointTimeout)
	defer cancel()
	var errs []error
	if err := s.sqlite.Checkpoint(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := s.sqlite.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := s.clickhouse.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
