// Copyright (c) 2025 The Junjo Authors.
// SPDX-License-Identifier: Apache-2.0

package sql

import _ "embed"

const InsertSpan = `
INSERT INTO
    spans (
        trace_id,
        span_id,
        parent_span_id,
        service_name,
        name,
        kind,
        start_time,
        end_time,
        status_code,
        status_message,
        attributes_json,
        events_json,
        links_json,
        trace_flags,
        trace_state,
        junjo_id,
        junjo_parent_id,
        junjo_span_type,
        junjo_wf_state_start,
        junjo_wf_state_end,
        junjo_wf_graph_structure,
        junjo_wf_store_id
    )
VALUES
    (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const InsertStatePatch = `
INSERT INTO
    state_patches (
        patch_id,
        service_name,
        trace_id,
        span_id,
        workflow_id,
        node_id,
        event_time,
        patch_json,
        patch_store_id
    )
VALUES
    (?, ?, ?, ?, ?, ?, ?, ?, ?)
`

// selectSpans is the shared projection for all span read helpers. Reads go
// through FINAL so rows merged by ReplacingMergeTree are observed
// exactly once even before background merges run.
const selectSpans = `
SELECT
    trace_id,
    span_id,
    parent_span_id,
    service_name,
    name,
    kind,
    start_time,
    end_time,
    status_code,
    status_message,
    attributes_json,
    events_json,
    links_json,
    trace_flags,
    trace_state,
    junjo_id,
    junjo_parent_id,
    junjo_span_type,
    junjo_wf_state_start,
    junjo_wf_state_end,
    junjo_wf_graph_structure,
    junjo_wf_store_id
FROM
    spans FINAL
`

const SelectServices = `SELECT DISTINCT service_name FROM spans ORDER BY service_name ASC`

const SelectServiceSpans = selectSpans + `
WHERE service_name = ?
ORDER BY start_time DESC
LIMIT ?`

const SelectRootSpans = selectSpans + `
WHERE service_name = ?
  AND parent_span_id IS NULL
ORDER BY start_time DESC
LIMIT ?`

// SelectRootSpansLLM restricts root spans to traces that contain at least
// one span tagged as an LLM operation by OpenInference instrumentation.
const SelectRootSpansLLM = selectSpans + `
WHERE service_name = ?
  AND parent_span_id IS NULL
  AND trace_id IN (
    SELECT trace_id
    FROM spans
    WHERE JSONExtractString(attributes_json, 'openinference.span.kind') = 'LLM'
  )
ORDER BY start_time DESC
LIMIT ?`

const SelectWorkflowSpans = selectSpans + `
WHERE junjo_span_type = 'workflow'
  AND service_name = ?
ORDER BY start_time DESC
LIMIT ?`

const SelectTraceSpans = selectSpans + `
WHERE trace_id = ?
ORDER BY start_time DESC`

const SelectSpan = selectSpans + `
WHERE trace_id = ?
  AND span_id = ?`

const SelectStatePatches = `
SELECT
    patch_id,
    service_name,
    trace_id,
    span_id,
    workflow_id,
    node_id,
    event_time,
    patch_json,
    patch_store_id
FROM
    state_patches FINAL
WHERE trace_id = ?
  AND span_id = ?
ORDER BY event_time ASC`

//go:embed create_spans_table.sql
var CreateSpansTable string

//go:embed create_state_patches_table.sql
var CreateStatePatchesTable string
