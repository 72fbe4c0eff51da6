package honeypot

import "time"

// AlertMessage is the operator-facing text raised on every intrusion.
const AlertMessage = "Unauthorized access detected! Quantum trap triggered."

// Alert is raised synchronously for every intrusion, whether or not it
// caused the collapse.
type Alert struct {
	SessionID      string    `json:"session_id"`
	IntrusionID    string    `json:"intrusion_id"`
	Message        string    `json:"message"`
	CausedCollapse bool      `json:"caused_collapse"`
	Elapsed        float64   `json:"elapsed_s"`
	Timestamp      time.Time `json:"ts"`
}

// AlertWriter is implemented by writers that surface intrusion alerts.
type AlertWriter interface {
	WriteAlert(Alert) error
}
