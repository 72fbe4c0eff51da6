package honeypot

import "qhoneypot-sim/internal/timeline"

// IntrusionWriter is implemented by writers that persist intrusion markers.
type IntrusionWriter interface {
	WriteIntrusion(timeline.Intrusion) error
}
