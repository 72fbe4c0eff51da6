package honeypot

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"qhoneypot-sim/internal/cell"
	"qhoneypot-sim/internal/timeline"
)

type fakeProgram struct{ msgs []tea.Msg }

func (f *fakeProgram) Send(msg tea.Msg) { f.msgs = append(f.msgs, msg) }

func TestTUIWriterMessages(t *testing.T) {
	p := &fakeProgram{}
	w := &TUIWriter{program: p}
	ts := time.Unix(0, 0).UTC()

	if err := w.Write(timeline.Sample{SessionID: "t1", Timestamp: ts}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, ok := p.msgs[0].(sampleMsg); !ok {
		t.Fatalf("expected sampleMsg, got %T", p.msgs[0])
	}
	if err := w.WriteIntrusion(timeline.Intrusion{SessionID: "t1", Timestamp: ts}); err != nil {
		t.Fatalf("intrusion: %v", err)
	}
	if _, ok := p.msgs[1].(intrusionMsg); !ok {
		t.Fatalf("expected intrusionMsg, got %T", p.msgs[1])
	}
	if err := w.WriteEvent(timeline.Event{Kind: timeline.EventMeasurement, Message: "measured", Timestamp: ts}); err != nil {
		t.Fatalf("event: %v", err)
	}
	lm, ok := p.msgs[2].(logMsg)
	if !ok {
		t.Fatalf("expected logMsg, got %T", p.msgs[2])
	}
	if !strings.Contains(lm.line, "measured") {
		t.Fatalf("log line missing message: %q", lm.line)
	}
	if err := w.WriteState(timeline.StateRow{SessionID: "t1", Timestamp: ts}); err != nil {
		t.Fatalf("state: %v", err)
	}
	if _, ok := p.msgs[3].(stateMsg); !ok {
		t.Fatalf("expected stateMsg, got %T", p.msgs[3])
	}
	if err := w.WriteAlert(Alert{Message: AlertMessage, Timestamp: ts}); err != nil {
		t.Fatalf("alert: %v", err)
	}
	if _, ok := p.msgs[4].(alertMsg); !ok {
		t.Fatalf("expected alertMsg, got %T", p.msgs[4])
	}
	w.SetAdminStatus(":8080")
	if _, ok := p.msgs[5].(adminMsg); !ok {
		t.Fatalf("expected adminMsg, got %T", p.msgs[5])
	}
}

func TestTUIWriterControlsSurfaceRejection(t *testing.T) {
	p := &fakeProgram{}
	w := &TUIWriter{program: p}
	w.SetControls(Controls{
		SetAutoIntrusion: func(enabled bool, seconds int) error {
			return ErrIntervalOutOfRange
		},
	})
	cm, ok := p.msgs[0].(setControlsMsg)
	if !ok {
		t.Fatalf("expected setControlsMsg, got %T", p.msgs[0])
	}
	if err := cm.controls.SetAutoIntrusion(true, 999); err == nil {
		t.Fatalf("expected wrapped control to return the error")
	}
	if len(p.msgs) != 2 {
		t.Fatalf("expected rejection log line, got %d messages", len(p.msgs))
	}
	lm, ok := p.msgs[1].(logMsg)
	if !ok || !strings.Contains(lm.line, "rejected") {
		t.Fatalf("expected rejection logMsg, got %#v", p.msgs[1])
	}
}

func TestModelStateUpdatesTable(t *testing.T) {
	m := newTUIModel(testConfig())
	one := cell.One
	row := timeline.StateRow{State: "1", Collapsed: true, Value: &one, AutoEnabled: true, AutoIntervalSec: 7, SampleCount: 12, IntrusionCount: 2}
	mi, _ := m.Update(stateMsg{StateRow: row})
	m = mi.(tuiModel)
	view := m.table.View()
	if !strings.Contains(view, "enabled") || !strings.Contains(view, "12") {
		t.Fatalf("state not reflected in table: %q", view)
	}
}

func TestModelResetSampleClearsChart(t *testing.T) {
	m := newTUIModel(testConfig())
	one := cell.One
	mi, _ := m.Update(sampleMsg{timeline.Sample{Source: timeline.SourceTick, Elapsed: 1, Value: &one}})
	m = mi.(tuiModel)
	mi, _ = m.Update(intrusionMsg{timeline.Intrusion{Elapsed: 1, Value: one}})
	m = mi.(tuiModel)
	if len(m.samples) != 1 || len(m.intrusions) != 1 {
		t.Fatalf("expected 1 sample and 1 marker, got %d/%d", len(m.samples), len(m.intrusions))
	}
	mi, _ = m.Update(sampleMsg{timeline.Sample{Source: timeline.SourceReset, Elapsed: 2}})
	m = mi.(tuiModel)
	if len(m.samples) != 1 || len(m.intrusions) != 0 {
		t.Fatalf("reset sample should clear chart, got %d/%d", len(m.samples), len(m.intrusions))
	}
	if m.samples[0].Source != timeline.SourceReset {
		t.Fatalf("expected reset sample kept, got %q", m.samples[0].Source)
	}
}

func TestModelTimelineRender(t *testing.T) {
	m := newTUIModel(testConfig())
	m.vp.Width = 40
	m.height = 30
	one := cell.One
	zero := cell.Zero
	for _, s := range []timeline.Sample{
		{Source: timeline.SourceInit, Elapsed: 0},
		{Source: timeline.SourceTick, Elapsed: 0.5},
		{Source: timeline.SourceIntrusion, Elapsed: 1, Value: &one},
		{Source: timeline.SourceTick, Elapsed: 1.5, Value: &zero},
	} {
		mi, _ := m.Update(sampleMsg{s})
		m = mi.(tuiModel)
	}
	mi, _ := m.Update(intrusionMsg{timeline.Intrusion{Elapsed: 1, Value: one, CausedCollapse: true}})
	m = mi.(tuiModel)

	chart := m.renderTimeline()
	if !strings.Contains(chart, "·") {
		t.Fatalf("expected unknown dot in chart: %q", chart)
	}
	if !strings.Contains(chart, "●") {
		t.Fatalf("expected value dot in chart: %q", chart)
	}
	if !strings.Contains(chart, "┊") {
		t.Fatalf("expected intrusion marker in chart: %q", chart)
	}
	if !strings.Contains(chart, "intrusions=1") {
		t.Fatalf("expected intrusion count in chart header: %q", chart)
	}
}

func TestModelTimelineEmpty(t *testing.T) {
	m := newTUIModel(testConfig())
	if got := m.renderTimeline(); !strings.Contains(got, "no samples") {
		t.Fatalf("expected empty-chart placeholder, got %q", got)
	}
}

func TestScrollToggle(t *testing.T) {
	m := newTUIModel(testConfig())
	m.vp.Height = 1
	m.vp.Width = 20
	mi, _ := m.Update(logMsg{line: "l1"})
	m = mi.(tuiModel)
	mi, _ = m.Update(logMsg{line: "l2"})
	m = mi.(tuiModel)
	if m.vp.YOffset != 1 {
		t.Fatalf("expected YOffset 1, got %d", m.vp.YOffset)
	}
	mi, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
	m = mi.(tuiModel)
	if m.autoscroll {
		t.Fatalf("autoscroll should be off")
	}
	mi, _ = m.Update(logMsg{line: "l3"})
	m = mi.(tuiModel)
	if m.vp.YOffset != 1 {
		t.Fatalf("expected YOffset unchanged, got %d", m.vp.YOffset)
	}
	mi, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = mi.(tuiModel)
	if m.vp.YOffset != 0 {
		t.Fatalf("expected YOffset 0 after scrolling up, got %d", m.vp.YOffset)
	}
	mi, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
	m = mi.(tuiModel)
	if !m.autoscroll {
		t.Fatalf("autoscroll should be on")
	}
	if expected := len(m.logs) - m.vp.Height; m.vp.YOffset != expected {
		t.Fatalf("expected YOffset %d, got %d", expected, m.vp.YOffset)
	}
}

func TestWrapToggle(t *testing.T) {
	m := newTUIModel(testConfig())
	m.vp.Width = 20
	m.vp.Height = 4
	m.height = 30
	long := "one two three four five six seven"
	mi, _ := m.Update(logMsg{line: long})
	m = mi.(tuiModel)
	lines := strings.Split(m.vp.View(), "\n")
	if len(lines) < 2 || strings.TrimSpace(lines[1]) != "" {
		t.Fatalf("expected single line before wrap: %q", m.vp.View())
	}
	mi, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'w'}})
	m = mi.(tuiModel)
	if !m.wrap {
		t.Fatalf("wrap not toggled")
	}
	lines = strings.Split(m.vp.View(), "\n")
	if strings.TrimSpace(lines[1]) == "" {
		t.Fatalf("expected wrapped content on second line: %q", m.vp.View())
	}
}

func TestHelpToggle(t *testing.T) {
	m := newTUIModel(testConfig())
	mi, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'h'}})
	m = mi.(tuiModel)
	if !m.help {
		t.Fatalf("help not toggled on")
	}
	if !strings.Contains(m.View(), "Key Bindings") {
		t.Fatalf("help view not rendered")
	}
	mi, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'h'}})
	m = mi.(tuiModel)
	if m.help {
		t.Fatalf("help not toggled off")
	}
}

func TestAlertDismiss(t *testing.T) {
	m := newTUIModel(testConfig())
	mi, _ := m.Update(alertMsg{Alert{Message: AlertMessage, Elapsed: 3}})
	m = mi.(tuiModel)
	if m.alert == nil {
		t.Fatalf("alert not stored")
	}
	mi, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = mi.(tuiModel)
	if m.alert != nil {
		t.Fatalf("alert not dismissed by esc")
	}
}
