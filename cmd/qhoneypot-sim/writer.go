package main

import (
	"fmt"
	"os"

	"golang.org/x/term"

	"qhoneypot-sim/internal/config"
	"qhoneypot-sim/internal/honeypot"
)

// Output modes selectable via --output.
const (
	outputAuto     = "auto"
	outputJSON     = "json"
	outputColor    = "color"
	outputTUI      = "tui"
	outputGreptime = "greptime"
)

// resolveOutput maps the auto mode to a concrete writer choice: GreptimeDB
// when an endpoint is configured, the TUI on an interactive terminal, JSON
// lines otherwise.
func resolveOutput(output string, interactive bool) string {
	if output != outputAuto && output != "" {
		return output
	}
	if os.Getenv("GREPTIMEDB_ENDPOINT") != "" {
		return outputGreptime
	}
	if interactive {
		return outputTUI
	}
	return outputJSON
}

func stdoutIsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// newWriters sets up the trap writers based on flags and env vars. It
// returns the sample writer, the intrusion writer, and a cleanup function
// closing any resources.
func newWriters(cfg *config.HoneypotConfig, output, logFile string) (honeypot.SampleWriter, honeypot.IntrusionWriter, func(), error) {
	writer, err := baseWriter(cfg, resolveOutput(output, stdoutIsTerminal()))
	if err != nil {
		return nil, nil, nil, err
	}
	cleanup := closerFor(writer)
	intrusionWriter, _ := writer.(honeypot.IntrusionWriter)
	if logFile == "" {
		return writer, intrusionWriter, cleanup, nil
	}

	fw, err := honeypot.NewFileWriter(logFile, logFile+".intrusions", logFile+".events", logFile+".state")
	if err != nil {
		cleanup()
		return nil, nil, nil, err
	}
	mw := honeypot.NewMultiWriter(
		[]honeypot.SampleWriter{writer, fw},
		intrusionWriters(intrusionWriter, fw),
	)
	base := cleanup
	cleanup = func() {
		fw.Close()
		base()
	}
	return mw, mw, cleanup, nil
}

func intrusionWriters(iw honeypot.IntrusionWriter, fw *honeypot.FileWriter) []honeypot.IntrusionWriter {
	if iw == nil {
		return []honeypot.IntrusionWriter{fw}
	}
	return []honeypot.IntrusionWriter{iw, fw}
}

// baseWriter chooses the underlying writer for a concrete output mode.
func baseWriter(cfg *config.HoneypotConfig, output string) (honeypot.SampleWriter, error) {
	switch output {
	case outputJSON:
		return honeypot.NewStdoutWriter(), nil
	case outputColor:
		return honeypot.NewColorStdoutWriter(cfg), nil
	case outputTUI:
		return honeypot.NewTUIWriter(cfg), nil
	case outputGreptime:
		endpoint := os.Getenv("GREPTIMEDB_ENDPOINT")
		if endpoint == "" {
			return nil, fmt.Errorf("output mode greptime requires GREPTIMEDB_ENDPOINT")
		}
		database := os.Getenv("GREPTIMEDB_DATABASE")
		if database == "" {
			database = "public"
		}
		return honeypot.NewGreptimeDBWriter(endpoint, database)
	default:
		return nil, fmt.Errorf("unknown output mode %q", output)
	}
}

func closerFor(w honeypot.SampleWriter) func() {
	type closer interface{ Close() error }
	if c, ok := w.(closer); ok {
		return func() { c.Close() }
	}
	return func() {}
}

// newReplayWriter creates a sample writer for replay. Replay never picks
// the TUI on its own; piping a recorded log through a pager stays useful.
func newReplayWriter(cfg *config.HoneypotConfig, output string) (honeypot.SampleWriter, func(), error) {
	resolved := resolveOutput(output, false)
	w, err := baseWriter(cfg, resolved)
	if err != nil {
		return nil, nil, err
	}
	return w, closerFor(w), nil
}
