// Copyright (c) 2025 The Junjo Authors.
// SPDX-License-Identifier: Apache-2.0

package ingester

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type pollerMetrics struct {
	batchesCommitted prometheus.Counter
	batchesFailed    prometheus.Counter
	spansWritten     prometheus.Counter
	patchesWritten   prometheus.Counter
	framesSkipped    prometheus.Counter
	readErrors       prometheus.Counter
}

func newPollerMetrics(registerer prometheus.Registerer) *pollerMetrics {
	factory := promauto.With(registerer)
	return &pollerMetrics{
		batchesCommitted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "junjo",
			Subsystem: "ingester",
			Name:      "batches_committed_total",
			Help:      "Number of span batches committed to the span store.",
		}),
		batchesFailed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "junjo",
			Subsystem: "ingester",
			Name:      "batches_failed_total",
			Help:      "Number of span batches abandoned and left for redelivery.",
		}),
		spansWritten: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "junjo",
			Subsystem: "ingester",
			Name:      "spans_written_total",
			Help:      "Number of span rows written.",
		}),
		patchesWritten: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "junjo",
			Subsystem: "ingester",
			Name:      "state_patches_written_total",
			Help:      "Number of state patch rows written.",
		}),
		framesSkipped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "junjo",
			Subsystem: "ingester",
			Name:      "frames_skipped_total",
			Help:      "Number of corrupt frames skipped during decoding.",
		}),
		readErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "junjo",
			Subsystem: "ingester",
			Name:      "read_errors_total",
			Help:      "Number of failed upstream read calls.",
		}),
	}
}
