package honeypot

import "qhoneypot-sim/internal/timeline"

// MultiWriter fan-outs samples and intrusion markers to multiple writers.
// Optional roles (events, state rows, alerts, controls) are forwarded to
// every sample writer that supports them, so the honeypot can treat the
// fan-out as a single writer.
type MultiWriter struct {
	samplewriters    []SampleWriter
	intrusionwriters []IntrusionWriter
}

// NewMultiWriter creates a new MultiWriter.
func NewMultiWriter(sws []SampleWriter, iws []IntrusionWriter) *MultiWriter {
	return &MultiWriter{samplewriters: sws, intrusionwriters: iws}
}

// Write sends a sample to all writers.
func (mw *MultiWriter) Write(s timeline.Sample) error {
	for _, w := range mw.samplewriters {
		if err := w.Write(s); err != nil {
			return err
		}
	}
	return nil
}

// WriteBatch sends multiple samples to all writers, using batch if supported.
func (mw *MultiWriter) WriteBatch(samples []timeline.Sample) error {
	for _, w := range mw.samplewriters {
		if bw, ok := w.(batchSampleWriter); ok {
			if err := bw.WriteBatch(samples); err != nil {
				return err
			}
			continue
		}
		for _, s := range samples {
			if err := w.Write(s); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteIntrusion sends an intrusion marker to all intrusion writers.
func (mw *MultiWriter) WriteIntrusion(i timeline.Intrusion) error {
	for _, w := range mw.intrusionwriters {
		if err := w.WriteIntrusion(i); err != nil {
			return err
		}
	}
	return nil
}

// WriteEvent sends a security log event to all writers that handle events.
func (mw *MultiWriter) WriteEvent(e timeline.Event) error {
	for _, w := range mw.samplewriters {
		ew, ok := w.(EventWriter)
		if !ok {
			continue
		}
		if err := ew.WriteEvent(e); err != nil {
			return err
		}
	}
	return nil
}

// WriteState sends a state row to all writers that handle state rows.
func (mw *MultiWriter) WriteState(row timeline.StateRow) error {
	for _, w := range mw.samplewriters {
		sw, ok := w.(StateWriter)
		if !ok {
			continue
		}
		if err := sw.WriteState(row); err != nil {
			return err
		}
	}
	return nil
}

// WriteAlert sends an alert to all writers that handle alerts.
func (mw *MultiWriter) WriteAlert(a Alert) error {
	for _, w := range mw.samplewriters {
		aw, ok := w.(AlertWriter)
		if !ok {
			continue
		}
		if err := aw.WriteAlert(a); err != nil {
			return err
		}
	}
	return nil
}

// SetAdminStatus forwards the admin address to writers that display it.
func (mw *MultiWriter) SetAdminStatus(addr string) {
	for _, w := range mw.samplewriters {
		if sw, ok := w.(AdminStatusWriter); ok {
			sw.SetAdminStatus(addr)
		}
	}
}

// SetControls forwards the trap controls to interactive writers.
func (mw *MultiWriter) SetControls(c Controls) {
	for _, w := range mw.samplewriters {
		if cw, ok := w.(ControlWriter); ok {
			cw.SetControls(c)
		}
	}
}
