package honeypot

import "qhoneypot-sim/internal/cell"

// Controls bundles the trap operations an interactive view can invoke.
type Controls struct {
	Measure          func() cell.Bit
	TriggerIntrusion func() (bool, cell.Bit)
	Reset            func()
	SetAutoIntrusion func(enabled bool, seconds int) error
}

// ControlWriter is implemented by writers that accept operator input,
// such as the terminal UI. The composition root hands them the controls
// after wiring.
type ControlWriter interface {
	SetControls(Controls)
}

// ControlsFor returns Controls bound to h.
func ControlsFor(h *Honeypot) Controls {
	return Controls{
		Measure:          h.Measure,
		TriggerIntrusion: h.TriggerIntrusion,
		Reset:            h.Reset,
		SetAutoIntrusion: h.SetAutoIntrusion,
	}
}
