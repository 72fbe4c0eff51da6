// Writer implementation printing timeline rows to STDOUT
package honeypot

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"qhoneypot-sim/internal/timeline"
)

// StdoutWriter prints timeline rows to STDOUT as JSON lines.
type StdoutWriter struct {
	out io.Writer
}

// NewStdoutWriter creates a StdoutWriter writing to os.Stdout.
func NewStdoutWriter() *StdoutWriter {
	return &StdoutWriter{out: os.Stdout}
}

// Write outputs a single sample.
func (w *StdoutWriter) Write(s timeline.Sample) error {
	data, _ := json.Marshal(s)
	fmt.Fprintln(w.out, string(data))
	return nil
}

// WriteBatch outputs multiple samples.
func (w *StdoutWriter) WriteBatch(samples []timeline.Sample) error {
	for _, s := range samples {
		_ = w.Write(s)
	}
	return nil
}

// WriteIntrusion prints an intrusion marker.
func (w *StdoutWriter) WriteIntrusion(i timeline.Intrusion) error {
	data, _ := json.Marshal(i)
	fmt.Fprintln(w.out, string(data))
	return nil
}

// WriteEvent prints a security log event.
func (w *StdoutWriter) WriteEvent(e timeline.Event) error {
	data, _ := json.Marshal(e)
	fmt.Fprintln(w.out, string(data))
	return nil
}

// WriteState prints a per-tick trap state row.
func (w *StdoutWriter) WriteState(row timeline.StateRow) error {
	data, _ := json.Marshal(row)
	fmt.Fprintln(w.out, string(data))
	return nil
}

// WriteAlert prints an intrusion alert.
func (w *StdoutWriter) WriteAlert(a Alert) error {
	data, _ := json.Marshal(a)
	fmt.Fprintln(w.out, string(data))
	return nil
}
