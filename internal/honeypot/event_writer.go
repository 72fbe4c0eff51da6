package honeypot

import "qhoneypot-sim/internal/timeline"

// EventWriter is implemented by writers that persist security log events.
// The honeypot discovers it by type assertion on the primary writer.
type EventWriter interface {
	WriteEvent(timeline.Event) error
}
