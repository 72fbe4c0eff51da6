package honeypot

import (
	"testing"
	"time"

	"qhoneypot-sim/internal/timeline"
)

type stubControlWriter struct {
	samples  []timeline.Sample
	controls *Controls
	admin    string
}

func (s *stubControlWriter) Write(row timeline.Sample) error {
	s.samples = append(s.samples, row)
	return nil
}
func (s *stubControlWriter) SetControls(c Controls) { s.controls = &c }

func (s *stubControlWriter) SetAdminStatus(addr string) { s.admin = addr }

type batchCountWriter struct {
	writes  int
	batches int
}

func (b *batchCountWriter) Write(timeline.Sample) error { b.writes++; return nil }
func (b *batchCountWriter) WriteBatch(rows []timeline.Sample) error {
	b.batches++
	return nil
}

func TestMultiWriterFanOut(t *testing.T) {
	a := &MockWriter{}
	b := &MockWriter{}
	mw := NewMultiWriter(
		[]SampleWriter{a, b},
		[]IntrusionWriter{a, b},
	)

	ts := time.Unix(0, 0).UTC()
	if err := mw.Write(timeline.Sample{SessionID: "t1", Timestamp: ts}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := mw.WriteIntrusion(timeline.Intrusion{SessionID: "t1", Timestamp: ts}); err != nil {
		t.Fatalf("intrusion: %v", err)
	}
	if err := mw.WriteEvent(timeline.Event{Kind: timeline.EventMeasurement, Timestamp: ts}); err != nil {
		t.Fatalf("event: %v", err)
	}
	if err := mw.WriteState(timeline.StateRow{SessionID: "t1", Timestamp: ts}); err != nil {
		t.Fatalf("state: %v", err)
	}
	if err := mw.WriteAlert(Alert{Message: AlertMessage, Timestamp: ts}); err != nil {
		t.Fatalf("alert: %v", err)
	}

	for i, w := range []*MockWriter{a, b} {
		if len(w.Samples) != 1 || len(w.Intrusions) != 1 || len(w.Events) != 1 || len(w.States) != 1 || len(w.Alerts) != 1 {
			t.Fatalf("writer %d missed rows: %d/%d/%d/%d/%d", i,
				len(w.Samples), len(w.Intrusions), len(w.Events), len(w.States), len(w.Alerts))
		}
	}
}

func TestMultiWriterSkipsUnsupportedRoles(t *testing.T) {
	plain := &sampleOnlyWriter{}
	mw := NewMultiWriter([]SampleWriter{plain}, nil)

	if err := mw.WriteEvent(timeline.Event{Kind: timeline.EventReset}); err != nil {
		t.Fatalf("event on plain writer: %v", err)
	}
	if err := mw.WriteState(timeline.StateRow{}); err != nil {
		t.Fatalf("state on plain writer: %v", err)
	}
	if err := mw.WriteAlert(Alert{}); err != nil {
		t.Fatalf("alert on plain writer: %v", err)
	}
	if plain.n != 0 {
		t.Fatalf("optional roles must not hit Write, got %d calls", plain.n)
	}
}

func TestMultiWriterWriteBatch(t *testing.T) {
	batched := &batchCountWriter{}
	plain := &sampleOnlyWriter{}
	mw := NewMultiWriter([]SampleWriter{batched, plain}, nil)

	rows := []timeline.Sample{{}, {}, {}}
	if err := mw.WriteBatch(rows); err != nil {
		t.Fatalf("batch: %v", err)
	}
	if batched.batches != 1 || batched.writes != 0 {
		t.Fatalf("batch-capable writer got %d batches / %d writes", batched.batches, batched.writes)
	}
	if plain.n != len(rows) {
		t.Fatalf("plain writer got %d writes, want %d", plain.n, len(rows))
	}
}

func TestMultiWriterSetControls(t *testing.T) {
	s := &stubControlWriter{}
	mw := NewMultiWriter([]SampleWriter{s}, nil)
	mw.SetControls(Controls{})
	if s.controls == nil {
		t.Fatalf("controls not forwarded")
	}
}

func TestMultiWriterSetAdminStatus(t *testing.T) {
	s := &stubControlWriter{}
	mw := NewMultiWriter([]SampleWriter{s}, nil)
	mw.SetAdminStatus(":8080")
	if s.admin != ":8080" {
		t.Fatalf("admin status not forwarded, got %q", s.admin)
	}
}
