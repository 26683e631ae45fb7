// Copyright (c) 2025 The Junjo Authors.
// SPDX-License-Identifier: Apache-2.0

package dbmodel

import "time"

// Span is a single row of the spans table. JSON-typed bodies are stored as
// strings so the write path stays portable across storage engines; the read
// helpers parse them before returning.
type Span struct {
	TraceID        string    `ch:"trace_id"`
	SpanID         string    `ch:"span_id"`
	ParentSpanID   *string   `ch:"parent_span_id"`
	ServiceName    string    `ch:"service_name"`
	Name           string    `ch:"name"`
	Kind           string    `ch:"kind"`
	StartTime      time.Time `ch:"start_time"`
	EndTime        time.Time `ch:"end_time"`
	StatusCode     string    `ch:"status_code"`
	StatusMessage  string    `ch:"status_message"`
	AttributesJSON string    `ch:"attributes_json"`
	EventsJSON     string    `ch:"events_json"`
	LinksJSON      string    `ch:"links_json"`
	TraceFlags     uint32    `ch:"trace_flags"`
	TraceState     *string   `ch:"trace_state"`

	// Junjo attributes promoted to dedicated columns. The workflow state
	// fields hold "{}" rather than NULL when absent so that queries see a
	// stable schema.
	JunjoID               string `ch:"junjo_id"`
	JunjoParentID         string `ch:"junjo_parent_id"`
	JunjoSpanType         string `ch:"junjo_span_type"`
	JunjoWfStateStart     string `ch:"junjo_wf_state_start"`
	JunjoWfStateEnd       string `ch:"junjo_wf_state_end"`
	JunjoWfGraphStructure string `ch:"junjo_wf_graph_structure"`
	JunjoWfStoreID        string `ch:"junjo_wf_store_id"`
}

// StatePatch is a single row of the state_patches table, one per "set_state"
// event on an ingested span. PatchID is a fresh surrogate per insert;
// deduplication of redelivered batches happens on
// (trace_id, span_id, event_time).
type StatePatch struct {
	PatchID      string    `ch:"patch_id"`
	ServiceName  string    `ch:"service_name"`
	TraceID      string    `ch:"trace_id"`
	SpanID       string    `ch:"span_id"`
	WorkflowID   string    `ch:"workflow_id"`
	NodeID       string    `ch:"node_id"`
	EventTime    time.Time `ch:"event_time"`
	PatchJSON    string    `ch:"patch_json"`
	PatchStoreID string    `ch:"patch_store_id"`
}
