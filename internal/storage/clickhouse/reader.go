// Copyright (c) 2025 The Junjo Authors.
// SPDX-License-Identifier: Apache-2.0

package clickhouse

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"go.uber.org/zap"

	"github.com/junjo-ai/junjo-server/internal/storage/clickhouse/sql"
)

const (
	// DefaultLimit applies when callers have no preference.
	DefaultLimit = 500
	// MaxLimit caps every listing query.
	MaxLimit = 10000
)

// Span is the read-side representation of a stored span. The JSON string
// columns are parsed before returning so callers never see raw strings.
type Span struct {
	TraceID          string         `json:"trace_id"`
	SpanID           string         `json:"span_id"`
	ParentSpanID     *string        `json:"parent_span_id"`
	ServiceName      string         `json:"service_name"`
	Name             string         `json:"name"`
	Kind             string         `json:"kind"`
	StartTime        time.Time      `json:"start_time"`
	EndTime          time.Time      `json:"end_time"`
	StatusCode       string         `json:"status_code"`
	StatusMessage    string         `json:"status_message"`
	Attributes       map[string]any `json:"attributes_json"`
	Events           []any          `json:"events_json"`
	Links            []any          `json:"links_json"`
	TraceFlags       uint32         `json:"trace_flags"`
	TraceState       *string        `json:"trace_state"`
	JunjoID          string         `json:"junjo_id"`
	JunjoParentID    string         `json:"junjo_parent_id"`
	JunjoSpanType    string         `json:"junjo_span_type"`
	WfStateStart     map[string]any `json:"junjo_wf_state_start"`
	WfStateEnd       map[string]any `json:"junjo_wf_state_end"`
	WfGraphStructure map[string]any `json:"junjo_wf_graph_structure"`
	WfStoreID        string         `json:"junjo_wf_store_id"`
}

// StatePatch is the read-side representation of a stored state patch.
type StatePatch struct {
	PatchID      string         `json:"patch_id"`
	ServiceName  string         `json:"service_name"`
	TraceID      string         `json:"trace_id"`
	SpanID       string         `json:"span_id"`
	WorkflowID   string         `json:"workflow_id"`
	NodeID       string         `json:"node_id"`
	EventTime    time.Time      `json:"event_time"`
	Patch        map[string]any `json:"patch_json"`
	PatchStoreID string         `json:"patch_store_id"`
}

// ListServices returns all distinct service names in alphabetical order.
func (s *Store) ListServices(ctx context.Context) ([]string, error) {
	rows, err := s.conn.Query(ctx, sql.SelectServices)
	if err != nil {
		return nil, fmt.Errorf("failed to query services: %w", err)
	}
	defer rows.Close()

	var services []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		services = append(services, name)
	}
	return services, rows.Err()
}

// ListServiceSpans returns the most recent spans of a service.
func (s *Store) ListServiceSpans(ctx context.Context, service string, limit int) ([]Span, error) {
	limit, err := validateLimit(limit)
	if err != nil {
		return nil, err
	}
	return s.querySpans(ctx, sql.SelectServiceSpans, service, limit)
}

// ListRootSpans returns the most recent parentless spans of a service. With
// llmOnly set, only traces containing at least one LLM span are considered.
func (s *Store) ListRootSpans(ctx context.Context, service string, limit int, llmOnly bool) ([]Span, error) {
	limit, err := validateLimit(limit)
	if err != nil {
		return nil, err
	}
	query := sql.SelectRootSpans
	if llmOnly {
		query = sql.SelectRootSpansLLM
	}
	return s.querySpans(ctx, query, service, limit)
}

// ListWorkflowSpans returns the most recent workflow-type spans of a service.
func (s *Store) ListWorkflowSpans(ctx context.Context, service string, limit int) ([]Span, error) {
	limit, err := validateLimit(limit)
	if err != nil {
		return nil, err
	}
	return s.querySpans(ctx, sql.SelectWorkflowSpans, service, limit)
}

// ListTraceSpans returns every span of a trace, most recent first.
func (s *Store) ListTraceSpans(ctx context.Context, traceID string) ([]Span, error) {
	return s.querySpans(ctx, sql.SelectTraceSpans, strings.ToLower(traceID))
}

// GetSpan returns a single span, or nil when it does not exist.
func (s *Store) GetSpan(ctx context.Context, traceID, spanID string) (*Span, error) {
	spans, err := s.querySpans(ctx, sql.SelectSpan, strings.ToLower(traceID), strings.ToLower(spanID))
	if err != nil {
		return nil, err
	}
	if len(spans) == 0 {
		return nil, nil
	}
	return &spans[0], nil
}

// ListSpanPatches returns the state patches of a span in event order.
func (s *Store) ListSpanPatches(ctx context.Context, traceID, spanID string) ([]StatePatch, error) {
	rows, err := s.conn.Query(ctx, sql.SelectStatePatches, strings.ToLower(traceID), strings.ToLower(spanID))
	if err != nil {
		return nil, fmt.Errorf("failed to query state patches: %w", err)
	}
	defer rows.Close()

	var patches []StatePatch
	for rows.Next() {
		var (
			patch     StatePatch
			patchJSON string
		)
		err := rows.Scan(
			&patch.PatchID,
			&patch.ServiceName,
			&patch.TraceID,
			&patch.SpanID,
			&patch.WorkflowID,
			&patch.NodeID,
			&patch.EventTime,
			&patchJSON,
			&patch.PatchStoreID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		patch.Patch = s.parseJSONObject(patchJSON, "patch_json")
		patches = append(patches, patch)
	}
	return patches, rows.Err()
}

func (s *Store) querySpans(ctx context.Context, query string, args ...any) ([]Span, error) {
	rows, err := s.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query spans: %w", err)
	}
	defer rows.Close()

	var spans []Span
	for rows.Next() {
		span, err := s.scanSpanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan span row: %w", err)
		}
		spans = append(spans, span)
	}
	return spans, rows.Err()
}

func (s *Store) scanSpanRow(rows driver.Rows) (Span, error) {
	var (
		span                                       Span
		attributesJSON, eventsJSON, linksJSON      string
		wfStateStart, wfStateEnd, wfGraphStructure string
	)
	err := rows.Scan(
		&span.TraceID,
		&span.SpanID,
		&span.ParentSpanID,
		&span.ServiceName,
		&span.Name,
		&span.Kind,
		&span.StartTime,
		&span.EndTime,
		&span.StatusCode,
		&span.StatusMessage,
		&attributesJSON,
		&eventsJSON,
		&linksJSON,
		&span.TraceFlags,
		&span.TraceState,
		&span.JunjoID,
		&span.JunjoParentID,
		&span.JunjoSpanType,
		&wfStateStart,
		&wfStateEnd,
		&wfGraphStructure,
		&span.WfStoreID,
	)
	if err != nil {
		return span, err
	}
	span.Attributes = s.parseJSONObject(attributesJSON, "attributes_json")
	span.Events = s.parseJSONArray(eventsJSON, "events_json")
	span.Links = s.parseJSONArray(linksJSON, "links_json")
	span.WfStateStart = s.parseJSONObject(wfStateStart, "junjo_wf_state_start")
	span.WfStateEnd = s.parseJSONObject(wfStateEnd, "junjo_wf_state_end")
	span.WfGraphStructure = s.parseJSONObject(wfGraphStructure, "junjo_wf_graph_structure")
	return span, nil
}

func (s *Store) parseJSONObject(raw, column string) map[string]any {
	var obj map[string]any
	if err := json.Unmarshal([]byte(raw), &obj); err != nil {
		s.logger.Warn("Failed to parse JSON column", zap.String("column", column), zap.Error(err))
		return nil
	}
	return obj
}

func (s *Store) parseJSONArray(raw, column string) []any {
	var arr []any
	if err := json.Unmarshal([]byte(raw), &arr); err != nil {
		s.logger.Warn("Failed to parse JSON column", zap.String("column", column), zap.Error(err))
		return nil
	}
	return arr
}

func validateLimit(limit int) (int, error) {
	if limit == 0 {
		return DefaultLimit, nil
	}
	if limit < 1 || limit > MaxLimit {
		return 0, fmt.Errorf("limit must be between 1 and %d, got %d", MaxLimit, limit)
	}
	return limit, nil
}
