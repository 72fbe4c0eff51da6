package honeypot

import "qhoneypot-sim/internal/timeline"

// StateWriter is implemented by writers that persist the per-tick trap
// state rows used by dashboards.
type StateWriter interface {
	WriteState(timeline.StateRow) error
}
