// Timeline row structs with greptime tags
package timeline

import (
	"os"
	"time"

	"qhoneypot-sim/internal/cell"
)

// Sample sources.
const (
	SourceInit      = "init"
	SourceTick      = "tick"
	SourceMeasure   = "measure"
	SourceIntrusion = "intrusion"
	SourceReset     = "reset"
)

// Sample represents one observed cell value for GreptimeDB.
// Value is nil while the cell is still in superposition.
type Sample struct {
	SessionID string    `json:"session_id"` // TAG
	Source    string    `json:"source"`     // TAG
	Elapsed   float64   `json:"elapsed_s"`  // FIELD
	Value     *cell.Bit `json:"value"`      // FIELD (null before collapse)
	Timestamp time.Time `json:"ts"`         // TIME INDEX
}

// SampleTableName holds the table name used when writing samples to
// GreptimeDB. It defaults to "honeypot_samples" but can be overridden via
// the GREPTIMEDB_TABLE environment variable.
var SampleTableName = func() string {
	if env := os.Getenv("GREPTIMEDB_TABLE"); env != "" {
		return env
	}
	return "honeypot_samples"
}()

func (Sample) TableName() string {
	return SampleTableName
}

// Intrusion origins.
const (
	OriginManual = "manual"
	OriginAuto   = "auto"
)

// Intrusion represents one unauthorized-access marker. An intrusion always
// observes the cell, so Value is always concrete.
type Intrusion struct {
	SessionID      string    `json:"session_id"`   // TAG
	IntrusionID    string    `json:"intrusion_id"` // TAG
	Origin         string    `json:"origin"`       // FIELD (manual|auto)
	CausedCollapse bool      `json:"caused_collapse"`
	Elapsed        float64   `json:"elapsed_s"`
	Value          cell.Bit  `json:"value"`
	Timestamp      time.Time `json:"ts"` // TIME INDEX
}

// Security log event kinds.
const (
	EventInit              = "init"
	EventMeasurement       = "measurement"
	EventIntrusionCollapse = "intrusion_collapse"
	EventIntrusionDetected = "intrusion_detected"
	EventReset             = "reset"
	EventAutoEnabled       = "auto_enabled"
	EventAutoDisabled      = "auto_disabled"
)

// Event represents one security log entry.
type Event struct {
	SessionID string    `json:"session_id"` // TAG
	Kind      string    `json:"kind"`       // TAG
	Message   string    `json:"message"`    // FIELD
	Elapsed   float64   `json:"elapsed_s"`  // FIELD
	Timestamp time.Time `json:"ts"`         // TIME INDEX
}

// StateRow captures per-tick trap state for dashboards.
type StateRow struct {
	SessionID       string    `json:"session_id"`
	State           string    `json:"state"`
	Collapsed       bool      `json:"collapsed"`
	Value           *cell.Bit `json:"value"`
	AutoEnabled     bool      `json:"auto_intrusion_enabled"`
	AutoIntervalSec int       `json:"auto_intrusion_interval_s"`
	SampleCount     int       `json:"sample_count"`
	IntrusionCount  int       `json:"intrusion_count"`
	Elapsed         float64   `json:"elapsed_s"`
	Timestamp       time.Time `json:"ts"`
}
