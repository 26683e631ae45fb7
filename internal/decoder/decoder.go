// Copyright (c) 2025 The Junjo Authors.
// SPDX-License-Identifier: Apache-2.0

// Package decoder converts raw OTLP span frames into storage rows. It is
// pure and stateless: the same frame always produces the same span row and
// state patch rows, and no mutable state is shared between calls.
package decoder

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	commonpb "go.opentelemetry.io/proto/otlp/common/v1"
	resourcepb "go.opentelemetry.io/proto/otlp/resource/v1"
	tracepb "go.opentelemetry.io/proto/otlp/trace/v1"
	"go.uber.org/zap"
	"google.golang.org/protobuf/proto"

	"github.com/junjo-ai/junjo-server/internal/storage/clickhouse/dbmodel"
)

// DefaultServiceName is used when a resource carries no service.name.
const DefaultServiceName = "NO_SERVICE_NAME"

const setStateEventName = "set_state"

// filteredAttributeKeys are promoted to dedicated span columns and removed
// from attributes_json. The first two are legacy keys that are filtered but
// no longer extracted.
var filteredAttributeKeys = map[string]struct{}{
	"junjo.workflow_id":              {},
	"node.id":                        {},
	"junjo.id":                       {},
	"junjo.parent_id":                {},
	"junjo.span_type":                {},
	"junjo.workflow.state.start":     {},
	"junjo.workflow.state.end":       {},
	"junjo.workflow.graph_structure": {},
	"junjo.workflow.store.id":        {},
}

type Decoder struct {
	logger *zap.Logger
}

func New(logger *zap.Logger) *Decoder {
	return &Decoder{logger: logger}
}

// DecodeRaw unmarshals a serialized OTLP Span and decodes it. A protobuf
// parse failure is the only error path; the caller decides whether to skip
// the frame or abort the batch.
func (d *Decoder) DecodeRaw(serviceName string, raw []byte) (dbmodel.Span, []dbmodel.StatePatch, error) {
	var span tracepb.Span
	if err := proto.Unmarshal(raw, &span); err != nil {
		return dbmodel.Span{}, nil, fmt.Errorf("failed to unmarshal span: %w", err)
	}
	row, patches := d.Decode(serviceName, &span)
	return row, patches, nil
}

// Decode converts one OTLP span into a span row and zero or more state patch
// rows. Absent domain attributes yield defaults; extraction never fails.
func (d *Decoder) Decode(serviceName string, span *tracepb.Span) (dbmodel.Span, []dbmodel.StatePatch) {
	row := dbmodel.Span{
		TraceID:     hex.EncodeToString(span.TraceId),
		SpanID:      hex.EncodeToString(span.SpanId),
		ServiceName: serviceName,
		Name:        span.Name,
		Kind:        convertKind(int32(span.Kind)),
		StartTime:   convertTimestamp(span.StartTimeUnixNano),
		EndTime:     convertTimestamp(span.EndTimeUnixNano),
		TraceFlags:  span.Flags,
		LinksJSON:   "[]",
	}

	// An all-zero parent span id marks a root span and is stored as absent.
	if id := parentSpanID(span.ParentSpanId); id != "" {
		row.ParentSpanID = &id
	}
	if span.TraceState != "" {
		ts := span.TraceState
		row.TraceState = &ts
	}
	if span.Status != nil {
		row.StatusCode = strconv.Itoa(int(span.Status.Code))
		row.StatusMessage = span.Status.Message
	}

	row.JunjoSpanType = extractStringAttribute(span.Attributes, "junjo.span_type")
	row.JunjoParentID = extractStringAttribute(span.Attributes, "junjo.parent_id")
	row.JunjoID = extractStringAttribute(span.Attributes, "junjo.id")

	workflowID := ""
	if row.JunjoSpanType == "workflow" {
		workflowID = row.JunjoID
	}
	nodeID := ""
	if row.JunjoSpanType == "node" {
		nodeID = row.JunjoID
	}

	row.JunjoWfStateStart = "{}"
	row.JunjoWfStateEnd = "{}"
	row.JunjoWfGraphStructure = "{}"
	if row.JunjoSpanType == "workflow" || row.JunjoSpanType == "subflow" {
		row.JunjoWfStateStart = extractJSONAttribute(span.Attributes, "junjo.workflow.state.start")
		row.JunjoWfStateEnd = extractJSONAttribute(span.Attributes, "junjo.workflow.state.end")
		row.JunjoWfGraphStructure = extractJSONAttribute(span.Attributes, "junjo.workflow.graph_structure")
		row.JunjoWfStoreID = extractStringAttribute(span.Attributes, "junjo.workflow.store.id")
	}

	row.AttributesJSON = d.convertAttributesToJSON(filterAttributes(span.Attributes))
	row.EventsJSON = d.convertEventsToJSON(span.Events)

	var patches []dbmodel.StatePatch
	for _, event := range span.Events {
		if event.Name != setStateEventName {
			continue
		}
		patches = append(patches, dbmodel.StatePatch{
			PatchID:      uuid.NewString(),
			ServiceName:  serviceName,
			TraceID:      row.TraceID,
			SpanID:       row.SpanID,
			WorkflowID:   workflowID,
			NodeID:       nodeID,
			EventTime:    convertTimestamp(event.TimeUnixNano),
			PatchJSON:    extractJSONAttribute(event.Attributes, "junjo.state_json_patch"),
			PatchStoreID: extractStringAttribute(event.Attributes, "junjo.store.id"),
		})
	}

	return row, patches
}

// ServiceNameFromResource parses a serialized OTLP Resource and returns its
// service.name attribute, or DefaultServiceName when the resource is empty,
// malformed, or carries no such attribute.
func (d *Decoder) ServiceNameFromResource(raw []byte) string {
	if len(raw) == 0 {
		return DefaultServiceName
	}
	var resource resourcepb.Resource
	if err := proto.Unmarshal(raw, &resource); err != nil {
		d.logger.Warn("Failed to unmarshal resource, using default service name", zap.Error(err))
		return DefaultServiceName
	}
	if name := extractStringAttribute(resource.Attributes, "service.name"); name != "" {
		return name
	}
	return DefaultServiceName
}

func convertKind(kind int32) string {
	switch kind {
	case 1:
		return "CLIENT"
	case 2:
		return "SERVER"
	case 3:
		return "INTERNAL"
	case 4:
		return "PRODUCER"
	case 5:
		return "CONSUMER"
	default:
		return "UNSPECIFIED"
	}
}

// convertTimestamp converts OTLP epoch nanoseconds to a UTC wall-clock value
// truncated to microseconds. The final three decimal digits are dropped.
func convertTimestamp(nanos uint64) time.Time {
	return time.Unix(0, int64(nanos)).UTC().Truncate(time.Microsecond)
}

func parentSpanID(id []byte) string {
	allZero := true
	for _, b := range id {
		if b != 0 {
			allZero = false
			break
		}
	}
	if len(id) == 0 || allZero {
		return ""
	}
	return hex.EncodeToString(id)
}

func extractStringAttribute(attributes []*commonpb.KeyValue, key string) string {
	for _, attr := range attributes {
		if attr.Key == key {
			if v, ok := attr.Value.GetValue().(*commonpb.AnyValue_StringValue); ok {
				return v.StringValue
			}
		}
	}
	return ""
}

// extractJSONAttribute is extractStringAttribute with an empty JSON object
// default, for columns that must always parse as JSON.
func extractJSONAttribute(attributes []*commonpb.KeyValue, key string) string {
	if v := extractStringAttribute(attributes, key); v != "" {
		return v
	}
	return "{}"
}

func filterAttributes(attributes []*commonpb.KeyValue) []*commonpb.KeyValue {
	filtered := make([]*commonpb.KeyValue, 0, len(attributes))
	for _, attr := range attributes {
		if _, ok := filteredAttributeKeys[attr.Key]; ok {
			continue
		}
		filtered = append(filtered, attr)
	}
	return filtered
}

func (d *Decoder) convertAttributesToJSON(attributes []*commonpb.KeyValue) string {
	attrMap := make(map[string]any, len(attributes))
	for _, attr := range attributes {
		if v, ok := d.convertAnyValue(attr.Key, attr.Value); ok {
			attrMap[attr.Key] = v
		}
	}
	jsonBytes, err := json.Marshal(attrMap)
	if err != nil {
		// Only non-finite floats reach this path; store what can be kept.
		d.logger.Warn("Failed to marshal attributes", zap.Error(err))
		return "{}"
	}
	return string(jsonBytes)
}

// convertAnyValue bridges the six OTLP attribute variants into JSON-ready
// values. Arrays and kvlists support primitive elements only; anything else
// is dropped with a warning rather than silently coerced.
func (d *Decoder) convertAnyValue(key string, value *commonpb.AnyValue) (any, bool) {
	switch v := value.GetValue().(type) {
	case *commonpb.AnyValue_StringValue:
		return v.StringValue, true
	case *commonpb.AnyValue_IntValue:
		return v.IntValue, true
	case *commonpb.AnyValue_DoubleValue:
		return v.DoubleValue, true
	case *commonpb.AnyValue_BoolValue:
		return v.BoolValue, true
	case *commonpb.AnyValue_ArrayValue:
		arr := make([]any, 0, len(v.ArrayValue.Values))
		for _, item := range v.ArrayValue.Values {
			switch i := item.GetValue().(type) {
			case *commonpb.AnyValue_StringValue:
				arr = append(arr, i.StringValue)
			case *commonpb.AnyValue_IntValue:
				arr = append(arr, i.IntValue)
			case *commonpb.AnyValue_DoubleValue:
				arr = append(arr, i.DoubleValue)
			case *commonpb.AnyValue_BoolValue:
				arr = append(arr, i.BoolValue)
			default:
				d.logger.Warn("Unsupported array element type", zap.String("attribute", key))
			}
		}
		return arr, true
	case *commonpb.AnyValue_KvlistValue:
		kvMap := make(map[string]any, len(v.KvlistValue.Values))
		for _, kv := range v.KvlistValue.Values {
			switch k := kv.Value.GetValue().(type) {
			case *commonpb.AnyValue_StringValue:
				kvMap[kv.Key] = k.StringValue
			case *commonpb.AnyValue_IntValue:
				kvMap[kv.Key] = k.IntValue
			case *commonpb.AnyValue_DoubleValue:
				kvMap[kv.Key] = k.DoubleValue
			case *commonpb.AnyValue_BoolValue:
				kvMap[kv.Key] = k.BoolValue
			default:
				d.logger.Warn("Unsupported kvlist element type", zap.String("attribute", key))
			}
		}
		return kvMap, true
	case *commonpb.AnyValue_BytesValue:
		return hex.EncodeToString(v.BytesValue), true
	default:
		d.logger.Warn("Unsupported attribute type",
			zap.String("type", fmt.Sprintf("%T", v)), zap.String("attribute", key))
		return nil, false
	}
}

func (d *Decoder) convertEventsToJSON(events []*tracepb.Span_Event) string {
	eventList := make([]map[string]any, 0, len(events))
	for _, event := range events {
		eventList = append(eventList, map[string]any{
			"name":                   event.Name,
			"timeUnixNano":           event.TimeUnixNano,
			"droppedAttributesCount": event.DroppedAttributesCount,
			"attributes":             json.RawMessage(d.convertAttributesToJSON(event.Attributes)),
		})
	}
	jsonBytes, err := json.Marshal(eventList)
	if err != nil {
		d.logger.Warn("Failed to marshal events", zap.Error(err))
		return "[]"
	}
	return string(jsonBytes)
}
