// Honeypot orchestrating the trap cell and timeline ticks
package honeypot

import (
	"errors"
	"fmt"
	log "log/slog"
	"math/rand"
	"sync"
	"time"

	"qhoneypot-sim/internal/cell"
	"qhoneypot-sim/internal/config"
	"qhoneypot-sim/internal/metrics"
	"qhoneypot-sim/internal/timeline"

	"github.com/google/uuid"
)

// DefaultTickInterval is the sampling cadence used when none is configured.
const DefaultTickInterval = 500 * time.Millisecond

// ErrIntervalOutOfRange is returned by SetAutoIntrusion for intervals
// outside the configured bounds. The previous schedule stays in effect.
var ErrIntervalOutOfRange = errors.New("auto intrusion interval out of range")

// SampleWriter is an interface to support different output writers.
type SampleWriter interface {
	Write(timeline.Sample) error
}

// Optional: writers can also support batch mode.
type batchSampleWriter interface {
	WriteBatch([]timeline.Sample) error
}

// Status is a point-in-time view of the trap for admin and TUI rendering.
type Status struct {
	SessionID       string    `json:"session_id"`
	State           string    `json:"state"`
	PreState        string    `json:"pre_state"`
	Collapsed       bool      `json:"collapsed"`
	Value           *cell.Bit `json:"value"`
	AutoEnabled     bool      `json:"auto_intrusion_enabled"`
	AutoIntervalSec int       `json:"auto_intrusion_interval_s"`
	Samples         int       `json:"samples"`
	Intrusions      int       `json:"intrusions"`
	Elapsed         float64   `json:"elapsed_s"`
	Timestamp       time.Time `json:"ts"`
}

// Honeypot orchestrates the simulated quantum cell, its timeline, and the
// writers. All operations serialize on one mutex; ticks, the TUI, and the
// admin server call in from different goroutines.
type Honeypot struct {
	sessionID       string
	cell            *cell.Cell
	buffer          *timeline.Buffer
	writer          SampleWriter
	intrusionWriter IntrusionWriter
	metrics         *metrics.Metrics
	tickInterval    time.Duration

	autoEnabled     bool
	autoIntervalSec int
	minIntervalSec  int
	maxIntervalSec  int
	autoReload      chan struct{}

	startedAt time.Time
	rand      *rand.Rand
	now       func() time.Time
	mu        sync.Mutex
}

// New initializes the trap from config. rng and now may be nil, in which
// case a time-seeded source and the wall clock are used. The timeline is
// seeded with one unknown sample so views have a starting point.
func New(sessionID string, cfg *config.HoneypotConfig, writer SampleWriter, intrusionWriter IntrusionWriter, tickInterval time.Duration, rng *rand.Rand, now func() time.Time) *Honeypot {
	if cfg == nil {
		cfg = &config.HoneypotConfig{}
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if now == nil {
		now = time.Now
	}
	if tickInterval <= 0 {
		tickInterval = DefaultTickInterval
	}
	if sessionID == "" {
		sessionID = "trap-" + uuid.New().String()[:8]
	}
	min, max := cfg.AutoIntrusion.Bounds()

	h := &Honeypot{
		sessionID:       sessionID,
		cell:            cell.New(rng),
		buffer:          timeline.NewBuffer(cfg.Timeline.MaxSamples, cfg.Timeline.MaxIntrusions),
		writer:          writer,
		intrusionWriter: intrusionWriter,
		tickInterval:    tickInterval,
		autoEnabled:     cfg.AutoIntrusion.Enabled,
		autoIntervalSec: cfg.AutoIntrusion.Interval(),
		minIntervalSec:  min,
		maxIntervalSec:  max,
		autoReload:      make(chan struct{}, 1),
		rand:            rng,
		now:             now,
	}
	h.startedAt = h.now()

	h.mu.Lock()
	el := h.elapsed()
	h.appendSample(el, timeline.SourceInit)
	h.logEvent(el, timeline.EventInit, fmt.Sprintf("System initialized. Quantum state set to %s.", h.cell.PreState()))
	if h.autoEnabled {
		h.logEvent(el, timeline.EventAutoEnabled, fmt.Sprintf("Auto intrusion enabled every %d s.", h.autoIntervalSec))
	}
	h.mu.Unlock()

	return h
}

// SetMetrics attaches Prometheus collectors. Nil disables recording.
func (h *Honeypot) SetMetrics(m *metrics.Metrics) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.metrics = m
}

// SessionID returns the trap session identifier.
func (h *Honeypot) SessionID() string {
	return h.sessionID
}

// Measure collapses the cell (first call only) and returns the outcome.
// Every call records a sample and a security log entry, matching an
// operator reading out the trap.
func (h *Honeypot) Measure() cell.Bit {
	h.mu.Lock()
	defer h.mu.Unlock()

	first := !h.cell.Collapsed()
	v := h.cell.Measure()
	el := h.elapsed()
	h.appendSample(el, timeline.SourceMeasure)
	h.logEvent(el, timeline.EventMeasurement, fmt.Sprintf("Measurement performed: collapsed to %s.", v))
	if first {
		h.metrics.RecordCollapse(metrics.CauseMeasurement)
	}
	h.metrics.SetCollapsed(true)
	return v
}

// TriggerIntrusion simulates a manual unauthorized access. It reports
// whether this intrusion caused the collapse and the resulting value.
func (h *Honeypot) TriggerIntrusion() (causedCollapse bool, v cell.Bit) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.intrudeLocked(timeline.OriginManual)
}

func (h *Honeypot) intrudeLocked(origin string) (bool, cell.Bit) {
	caused, v := h.cell.IntrusionAttempt()
	el := h.elapsed()

	// A marker is always recorded; a sample only when this intrusion
	// collapsed the cell.
	if caused {
		h.appendSample(el, timeline.SourceIntrusion)
		h.logEvent(el, timeline.EventIntrusionCollapse, fmt.Sprintf("⚠ Intrusion: triggered collapse to %s.", v))
		h.metrics.RecordCollapse(metrics.CauseIntrusion)
		h.metrics.SetCollapsed(true)
	} else {
		h.logEvent(el, timeline.EventIntrusionDetected, fmt.Sprintf("⚠ Intrusion detected (post-collapse). Value remains %s.", v))
	}

	marker := timeline.Intrusion{
		SessionID:      h.sessionID,
		IntrusionID:    uuid.New().String(),
		Origin:         origin,
		CausedCollapse: caused,
		Elapsed:        el,
		Value:          v,
		Timestamp:      h.now().UTC(),
	}
	h.buffer.MarkIntrusion(marker)
	h.writeIntrusion(marker)
	h.metrics.RecordIntrusion(origin)
	h.raiseAlert(marker)
	return caused, v
}

// Reset reinitializes the cell and clears the timeline. The elapsed clock
// keeps running across resets.
func (h *Honeypot) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.cell.Reset()
	h.buffer.Clear()
	el := h.elapsed()
	h.appendSample(el, timeline.SourceReset)
	h.logEvent(el, timeline.EventReset, "System reset. Quantum state reinitialized.")
	h.metrics.RecordReset()
	h.metrics.SetCollapsed(false)
}

// SetAutoIntrusion enables, reconfigures, or disables the simulated
// attacker. Enabling with an interval outside the configured bounds
// returns ErrIntervalOutOfRange and leaves the previous schedule intact.
// After a disabling call returns, no further auto intrusion fires.
func (h *Honeypot) SetAutoIntrusion(enabled bool, seconds int) error {
	h.mu.Lock()
	if enabled {
		if seconds < h.minIntervalSec || seconds > h.maxIntervalSec {
			h.mu.Unlock()
			return fmt.Errorf("%w: %ds not within %d..%ds", ErrIntervalOutOfRange, seconds, h.minIntervalSec, h.maxIntervalSec)
		}
		h.autoEnabled = true
		h.autoIntervalSec = seconds
		h.logEvent(h.elapsed(), timeline.EventAutoEnabled, fmt.Sprintf("Auto intrusion enabled every %d s.", seconds))
	} else {
		if h.autoEnabled {
			h.logEvent(h.elapsed(), timeline.EventAutoDisabled, "Auto intrusion disabled.")
		}
		h.autoEnabled = false
	}
	h.mu.Unlock()

	// Wake the run loop so it swaps the auto ticker. Coalescing is fine:
	// the loop reads the current schedule when it handles the poke.
	select {
	case h.autoReload <- struct{}{}:
	default:
	}
	return nil
}

// AutoIntrusion returns the current attacker schedule.
func (h *Honeypot) AutoIntrusion() (enabled bool, interval time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.autoEnabled, time.Duration(h.autoIntervalSec) * time.Second
}

// Status returns a snapshot of the trap state.
func (h *Honeypot) Status() Status {
	h.mu.Lock()
	defer h.mu.Unlock()

	s := Status{
		SessionID:       h.sessionID,
		State:           h.cell.DisplayState(),
		PreState:        string(h.cell.PreState()),
		Collapsed:       h.cell.Collapsed(),
		AutoEnabled:     h.autoEnabled,
		AutoIntervalSec: h.autoIntervalSec,
		Elapsed:         h.elapsed(),
		Timestamp:       h.now().UTC(),
	}
	if v, ok := h.cell.Value(); ok {
		vv := v
		s.Value = &vv
	}
	s.Samples, s.Intrusions = h.buffer.Counts()
	return s
}

// Timeline returns copies of the recorded samples and intrusion markers.
func (h *Honeypot) Timeline() ([]timeline.Sample, []timeline.Intrusion) {
	return h.buffer.Snapshot()
}

// TickInterval returns the sampling cadence.
func (h *Honeypot) TickInterval() time.Duration {
	return h.tickInterval
}

func (h *Honeypot) elapsed() float64 {
	return h.now().Sub(h.startedAt).Seconds()
}

// appendSample records the cell's current value in the buffer and writers.
// Callers hold h.mu.
func (h *Honeypot) appendSample(elapsed float64, source string) {
	s := timeline.Sample{
		SessionID: h.sessionID,
		Source:    source,
		Elapsed:   elapsed,
		Timestamp: h.now().UTC(),
	}
	if v, ok := h.cell.Value(); ok {
		vv := v
		s.Value = &vv
	}
	h.buffer.AppendSample(s)
	h.writeSample(s)
	h.metrics.RecordSample()
	n, _ := h.buffer.Counts()
	h.metrics.SetTimelineSamples(n)
}

func (h *Honeypot) writeSample(s timeline.Sample) {
	if h.writer == nil {
		return
	}
	if err := h.writer.Write(s); err != nil {
		log.Error("sample write failed", "source", s.Source, "err", err)
	}
}

func (h *Honeypot) writeIntrusion(i timeline.Intrusion) {
	if h.intrusionWriter == nil {
		return
	}
	if err := h.intrusionWriter.WriteIntrusion(i); err != nil {
		log.Error("intrusion write failed", "origin", i.Origin, "err", err)
	}
}

func (h *Honeypot) logEvent(elapsed float64, kind, msg string) {
	w, ok := h.writer.(EventWriter)
	if !ok {
		return
	}
	e := timeline.Event{
		SessionID: h.sessionID,
		Kind:      kind,
		Message:   msg,
		Elapsed:   elapsed,
		Timestamp: h.now().UTC(),
	}
	if err := w.WriteEvent(e); err != nil {
		log.Error("event write failed", "kind", kind, "err", err)
	}
}

func (h *Honeypot) raiseAlert(marker timeline.Intrusion) {
	w, ok := h.writer.(AlertWriter)
	if !ok {
		return
	}
	a := Alert{
		SessionID:      h.sessionID,
		IntrusionID:    marker.IntrusionID,
		Message:        AlertMessage,
		CausedCollapse: marker.CausedCollapse,
		Elapsed:        marker.Elapsed,
		Timestamp:      marker.Timestamp,
	}
	if err := w.WriteAlert(a); err != nil {
		log.Error("alert write failed", "err", err)
	}
}
