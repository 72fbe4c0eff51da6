package honeypot

import (
	"context"
	log "log/slog"
	"time"

	"qhoneypot-sim/internal/logging"
	"qhoneypot-sim/internal/timeline"
)

// Run samples the trap on the tick interval and drives the auto intrusion
// schedule until ctx is canceled. SetAutoIntrusion pokes the loop through
// a reload channel so schedule changes take effect without restarting.
func (h *Honeypot) Run(ctx context.Context) {
	log := logging.FromContext(ctx)

	ticker := time.NewTicker(h.tickInterval)
	defer ticker.Stop()

	// autoC stays nil while the attacker is disabled; a nil channel
	// never fires in the select below.
	var autoTicker *time.Ticker
	var autoC <-chan time.Time
	reload := func() {
		if autoTicker != nil {
			autoTicker.Stop()
			autoTicker = nil
			autoC = nil
		}
		enabled, interval := h.AutoIntrusion()
		if enabled && interval > 0 {
			autoTicker = time.NewTicker(interval)
			autoC = autoTicker.C
		}
	}
	reload()
	defer func() {
		if autoTicker != nil {
			autoTicker.Stop()
		}
	}()

	log.Info("honeypot started",
		"session_id", h.sessionID,
		"tick_interval", h.tickInterval.String(),
	)

	for {
		select {
		case <-ticker.C:
			h.tick(ctx)
		case <-autoC:
			h.autoIntrude(ctx)
		case <-h.autoReload:
			reload()
		case <-ctx.Done():
			log.Info("honeypot stopped", "session_id", h.sessionID)
			return
		}
	}
}

// tick records one sample of the current cell value plus a state row for
// dashboards.
func (h *Honeypot) tick(ctx context.Context) {
	start := time.Now()

	h.mu.Lock()
	el := h.elapsed()
	h.appendSample(el, timeline.SourceTick)
	h.writeStateRow(el)
	h.metrics.SetCollapsed(h.cell.Collapsed())
	h.mu.Unlock()

	h.metrics.ObserveTick(time.Since(start).Seconds())
}

// autoIntrude fires one scheduled intrusion. The enabled flag is checked
// again under the lock so a disable that raced the ticker wins: once
// SetAutoIntrusion(false) returns, no further intrusion is recorded.
func (h *Honeypot) autoIntrude(ctx context.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.autoEnabled {
		return
	}
	caused, v := h.intrudeLocked(timeline.OriginAuto)
	logging.FromContext(ctx).Debug("auto intrusion fired",
		"session_id", h.sessionID,
		"caused_collapse", caused,
		"value", v.String(),
	)
}

// writeStateRow emits the per-tick trap state when the writer supports it.
// Callers hold h.mu.
func (h *Honeypot) writeStateRow(elapsed float64) {
	w, ok := h.writer.(StateWriter)
	if !ok {
		return
	}
	samples, intrusions := h.buffer.Counts()
	row := timeline.StateRow{
		SessionID:       h.sessionID,
		State:           h.cell.DisplayState(),
		Collapsed:       h.cell.Collapsed(),
		AutoEnabled:     h.autoEnabled,
		AutoIntervalSec: h.autoIntervalSec,
		SampleCount:     samples,
		IntrusionCount:  intrusions,
		Elapsed:         elapsed,
		Timestamp:       h.now().UTC(),
	}
	if v, ok := h.cell.Value(); ok {
		vv := v
		row.Value = &vv
	}
	if err := w.WriteState(row); err != nil {
		log.Error("state write failed", "err", err)
	}
}
