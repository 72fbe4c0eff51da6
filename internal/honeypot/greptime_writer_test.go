package honeypot

import (
	"context"
	"math"
	"testing"
	"time"

	gpb "github.com/GreptimeTeam/greptime-proto/go/greptime/v1"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"

	"qhoneypot-sim/internal/cell"
	"qhoneypot-sim/internal/timeline"
)

type mockGreptimeClient struct {
	table *table.Table
}

func (m *mockGreptimeClient) Write(ctx context.Context, tables ...*table.Table) (*gpb.GreptimeResponse, error) {
	if len(tables) > 0 {
		m.table = tables[0]
	}
	return &gpb.GreptimeResponse{}, nil
}

func TestGreptimeWriterSampleUnknownValue(t *testing.T) {
	ts := time.Unix(0, 0).UTC()
	rows := []timeline.Sample{
		{SessionID: "t1", Source: timeline.SourceInit, Elapsed: 0, Timestamp: ts},
	}

	m := &mockGreptimeClient{}
	w := &GreptimeDBWriter{client: m, sampleTable: "honeypot_samples"}

	if err := w.WriteBatch(rows); err != nil {
		t.Fatalf("WriteBatch: %v", err)
	}
	if m.table == nil {
		t.Fatalf("expected table to be captured")
	}

	schema := m.table.GetRows().Schema
	if len(schema) != 6 {
		t.Fatalf("unexpected schema length: %d", len(schema))
	}
	if schema[3].Datatype != gpb.ColumnDataType_FLOAT64 {
		t.Fatalf("value column type = %v, want %v", schema[3].Datatype, gpb.ColumnDataType_FLOAT64)
	}
	if schema[4].Datatype != gpb.ColumnDataType_BOOLEAN {
		t.Fatalf("collapsed column type = %v, want %v", schema[4].Datatype, gpb.ColumnDataType_BOOLEAN)
	}

	values := m.table.GetRows().Rows[0].Values
	if !math.IsNaN(values[3].GetF64Value()) {
		t.Fatalf("pre-collapse value = %v, want NaN", values[3].GetF64Value())
	}
	if values[4].GetBoolValue() {
		t.Fatalf("pre-collapse sample must carry collapsed=false")
	}
}

func TestGreptimeWriterSampleCollapsedValue(t *testing.T) {
	one := cell.One
	rows := []timeline.Sample{
		{SessionID: "t1", Source: timeline.SourceMeasure, Elapsed: 2.5, Value: &one, Timestamp: time.Unix(2, 0).UTC()},
	}

	m := &mockGreptimeClient{}
	w := &GreptimeDBWriter{client: m, sampleTable: "honeypot_samples"}

	if err := w.Write(rows[0]); err != nil {
		t.Fatalf("Write: %v", err)
	}
	values := m.table.GetRows().Rows[0].Values
	if got := values[0].GetStringValue(); got != "t1" {
		t.Fatalf("session tag = %q, want t1", got)
	}
	if got := values[3].GetF64Value(); got != 1 {
		t.Fatalf("value = %v, want 1", got)
	}
	if !values[4].GetBoolValue() {
		t.Fatalf("collapsed sample must carry collapsed=true")
	}
}

func TestGreptimeWriterIntrusion(t *testing.T) {
	m := &mockGreptimeClient{}
	w := &GreptimeDBWriter{client: m, intrusionTable: "honeypot_intrusions"}

	marker := timeline.Intrusion{
		SessionID:      "t1",
		IntrusionID:    "i1",
		Origin:         timeline.OriginAuto,
		CausedCollapse: true,
		Elapsed:        4.5,
		Value:          cell.Zero,
		Timestamp:      time.Unix(4, 0).UTC(),
	}
	if err := w.WriteIntrusion(marker); err != nil {
		t.Fatalf("WriteIntrusion: %v", err)
	}
	if m.table == nil {
		t.Fatalf("expected table to be captured")
	}
	values := m.table.GetRows().Rows[0].Values
	if got := values[1].GetStringValue(); got != timeline.OriginAuto {
		t.Fatalf("origin = %q, want %q", got, timeline.OriginAuto)
	}
	if !values[3].GetBoolValue() {
		t.Fatalf("caused_collapse not persisted")
	}
}

func TestGreptimeWriterEvent(t *testing.T) {
	m := &mockGreptimeClient{}
	w := &GreptimeDBWriter{client: m, eventTable: "honeypot_events"}

	e := timeline.Event{
		SessionID: "t1",
		Kind:      timeline.EventReset,
		Message:   "System reset.",
		Elapsed:   9,
		Timestamp: time.Unix(9, 0).UTC(),
	}
	if err := w.WriteEvent(e); err != nil {
		t.Fatalf("WriteEvent: %v", err)
	}
	values := m.table.GetRows().Rows[0].Values
	if got := values[1].GetStringValue(); got != timeline.EventReset {
		t.Fatalf("kind = %q, want %q", got, timeline.EventReset)
	}
	if got := values[2].GetStringValue(); got != e.Message {
		t.Fatalf("message = %q, want %q", got, e.Message)
	}
}

func TestGreptimeWriterState(t *testing.T) {
	m := &mockGreptimeClient{}
	w := &GreptimeDBWriter{client: m, stateTable: "honeypot_state"}

	row := timeline.StateRow{
		SessionID:       "t1",
		State:           "|+⟩",
		AutoEnabled:     true,
		AutoIntervalSec: 5,
		SampleCount:     42,
		IntrusionCount:  3,
		Elapsed:         21,
		Timestamp:       time.Unix(21, 0).UTC(),
	}
	if err := w.WriteState(row); err != nil {
		t.Fatalf("WriteState: %v", err)
	}
	values := m.table.GetRows().Rows[0].Values
	if got := values[1].GetStringValue(); got != row.State {
		t.Fatalf("state = %q, want %q", got, row.State)
	}
	if !math.IsNaN(values[3].GetF64Value()) {
		t.Fatalf("uncollapsed state row should carry NaN value")
	}
	if got := values[6].GetI64Value(); got != 42 {
		t.Fatalf("sample count = %d, want 42", got)
	}
}
