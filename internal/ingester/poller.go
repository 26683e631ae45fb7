// Copyright (c) 2025 The Junjo Authors.
// SPDX-License-Identifier: Apache-2.0

// Package ingester runs the poll loop that drains the upstream span log
// into the columnar store.
package ingester

import (
	"context"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/junjo-ai/junjo-server/internal/decoder"
	"github.com/junjo-ai/junjo-server/internal/ingester/upstream"
	"github.com/junjo-ai/junjo-server/internal/storage/clickhouse/dbmodel"
)

const (
	DefaultPollInterval = 5 * time.Second
	minPollInterval     = time.Second
	maxPollInterval     = 3600 * time.Second
)

// Reader pulls one batch of raw span frames strictly after the given cursor.
// Implemented by upstream.Client.
type Reader interface {
	ReadSpans(ctx context.Context, startCursor []byte, batchSize int) ([]upstream.SpanRecord, error)
}

// Batch collects the rows of one poll cycle. Either everything in it is
// committed or nothing is; in both cases the caller decides separately
// whether the cursor moves.
type Batch interface {
	AppendSpan(row dbmodel.Span) error
	AppendPatch(row dbmodel.StatePatch) error
	Commit() error
	Rollback() error
}

// BatchWriter opens per-cycle batches against the columnar store.
type BatchWriter interface {
	BeginBatch(ctx context.Context) (Batch, error)
}

// CursorStore persists the resumption cursor between process runs.
// Implemented by sqlite.Store.
type CursorStore interface {
	LoadPollerState(ctx context.Context) ([]byte, error)
	SavePollerState(ctx context.Context, lastKey []byte) error
}

// Options control one Poller. Values outside the documented ranges are
// clamped rather than rejected.
type Options struct {
	// PollInterval is the sleep between polls, 1s..3600s.
	PollInterval time.Duration `mapstructure:"poll_interval"`
	// BatchSize is the maximum number of frames per read, 1..10000.
	BatchSize int `mapstructure:"batch_size"`
	// StrictMode aborts the whole batch on any decode or patch failure
	// instead of skipping the offending frame.
	StrictMode bool `mapstructure:"strict_mode"`
}

func (o Options) applyDefaults() Options {
	if o.PollInterval == 0 {
		o.PollInterval = DefaultPollInterval
	}
	if o.PollInterval < minPollInterval {
		o.PollInterval = minPollInterval
	}
	if o.PollInterval > maxPollInterval {
		o.PollInterval = maxPollInterval
	}
	if o.BatchSize <= 0 {
		o.BatchSize = upstream.DefaultBatchSize
	}
	if o.BatchSize > upstream.MaxBatchSize {
		o.BatchSize = upstream.MaxBatchSize
	}
	return o
}

// Poller is the single long-lived task that sequences read, decode, write
// and cursor save. There is exactly one poll in flight at a time; cursor
// values only ever move forward, and only after a successful commit.
type Poller struct {
	reader  Reader
	writer  BatchWriter
	cursors CursorStore
	decoder *decoder.Decoder
	options Options
	logger  *zap.Logger
	metrics *pollerMetrics
}

func NewPoller(
	reader Reader,
	writer BatchWriter,
	cursors CursorStore,
	options Options,
	logger *zap.Logger,
	registerer prometheus.Registerer,
) *Poller {
	return &Poller{
		reader:  reader,
		writer:  writer,
		cursors: cursors,
		decoder: decoder.New(logger),
		options: options.applyDefaults(),
		logger:  logger,
		metrics: newPollerMetrics(registerer),
	}
}

// Run polls until ctx is cancelled. It returns a non-nil error only when
// the saved cursor cannot be loaded at startup; every per-cycle failure is
// logged and retried on the next tick.
func (p *Poller) Run(ctx context.Context) error {
	cursor, err := p.cursors.LoadPollerState(ctx)
	if err != nil {
		return fmt.Errorf("failed to load poller cursor: %w", err)
	}
	if cursor == nil {
		p.logger.Info("No saved cursor, reading upstream log from the beginning")
	} else {
		p.logger.Info("Resuming from saved cursor", zap.String("cursor", hex.EncodeToString(cursor)))
	}

	ticker := time.NewTicker(p.options.PollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("Poller draining, no new polls will start")
			return nil
		case <-ticker.C:
			cursor = p.pollOnce(ctx, cursor)
		}
	}
}

// pollOnce runs one read-decode-write-save cycle and returns the cursor the
// next cycle should read from. Any failure keeps the cursor where it was;
// the upstream log re-delivers and the store's dedup keys absorb it.
func (p *Poller) pollOnce(ctx context.Context, cursor []byte) []byte {
	records, err := p.reader.ReadSpans(ctx, cursor, p.options.BatchSize)
	if err != nil {
		p.metrics.readErrors.Inc()
		p.logger.Error("Failed to read from upstream log", zap.Error(err))
		return cursor
	}
	if len(records) == 0 {
		return cursor
	}
	nextCursor := records[len(records)-1].Cursor

	rows, patches, err := p.decodeBatch(records)
	if err != nil {
		p.metrics.batchesFailed.Inc()
		p.logger.Error("Abandoning batch", zap.Int("frames", len(records)), zap.Error(err))
		return cursor
	}
	if len(rows) == 0 {
		p.metrics.batchesFailed.Inc()
		p.logger.Warn("No frame in batch could be decoded, abandoning batch",
			zap.Int("frames", len(records)))
		return cursor
	}

	if err := p.writeBatch(ctx, rows, patches); err != nil {
		p.metrics.batchesFailed.Inc()
		p.logger.Error("Failed to write batch", zap.Error(err))
		return cursor
	}
	p.metrics.batchesCommitted.Inc()
	p.metrics.spansWritten.Add(float64(len(rows)))
	p.metrics.patchesWritten.Add(float64(len(patches)))

	if err := p.cursors.SavePollerState(ctx, nextCursor); err != nil {
		// The committed rows will be re-read next cycle and deduplicated.
		p.logger.Error("Failed to save poller cursor", zap.Error(err))
		return cursor
	}
	p.logger.Debug("Committed batch",
		zap.Int("spans", len(rows)),
		zap.Int("patches", len(patches)),
		zap.String("cursor", hex.EncodeToString(nextCursor)))
	return nextCursor
}

// decodeBatch turns raw frames into store rows. The batch's service name
// comes from the first frame that decodes; later frames reuse it. Frames
// that fail to decode are skipped, unless StrictMode is set, in which case
// the first failure fails the whole batch.
func (p *Poller) decodeBatch(records []upstream.SpanRecord) ([]dbmodel.Span, []dbmodel.StatePatch, error) {
	var (
		rows        []dbmodel.Span
		patches     []dbmodel.StatePatch
		serviceName string
	)
	for _, record := range records {
		name := serviceName
		if name == "" {
			name = p.decoder.ServiceNameFromResource(record.ResourceBytes)
		}
		row, spanPatches, err := p.decoder.DecodeRaw(name, record.SpanBytes)
		if err != nil {
			p.metrics.framesSkipped.Inc()
			if p.options.StrictMode {
				return nil, nil, fmt.Errorf("failed to decode span frame: %w", err)
			}
			p.logger.Warn("Skipping undecodable span frame", zap.Error(err))
			continue
		}
		serviceName = name
		rows = append(rows, row)
		patches = append(patches, spanPatches...)
	}
	return rows, patches, nil
}

func (p *Poller) writeBatch(ctx context.Context, rows []dbmodel.Span, patches []dbmodel.StatePatch) error {
	batch, err := p.writer.BeginBatch(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin batch: %w", err)
	}
	for _, row := range rows {
		if err := batch.AppendSpan(row); err != nil {
			return errorsJoinRollback(err, batch)
		}
	}
	for _, patch := range patches {
		if err := batch.AppendPatch(patch); err != nil {
			if p.options.StrictMode {
				return errorsJoinRollback(fmt.Errorf("failed to append state patch: %w", err), batch)
			}
			p.logger.Error("Dropping state patch that could not be appended",
				zap.String("trace_id", patch.TraceID),
				zap.String("span_id", patch.SpanID),
				zap.Error(err))
		}
	}
	if err := batch.Commit(); err != nil {
		return errorsJoinRollback(err, batch)
	}
	return nil
}

func errorsJoinRollback(err error, batch Batch) error {
	if rollbackErr := batch.Rollback(); rollbackErr != nil {
		return fmt.Errorf("%w (rollback also failed: %w)", err, rollbackErr)
	}
	return err
}
