// ColorStdoutWriter prints human-friendly, colorized trap activity to STDOUT.
package honeypot

import (
	"fmt"
	"io"
	"os"
	"sync"
	"text/tabwriter"
	"time"

	"qhoneypot-sim/internal/config"
	"qhoneypot-sim/internal/timeline"
)

const (
	colorReset   = "\x1b[0m"
	colorRed     = "\x1b[31m"
	colorGreen   = "\x1b[32m"
	colorYellow  = "\x1b[33m"
	colorBlue    = "\x1b[34m"
	colorMagenta = "\x1b[35m"
	colorCyan    = "\x1b[36m"
	colorWhite   = "\x1b[37m"
	colorGray    = "\x1b[90m"
)

// ColorStdoutWriter prints timeline rows using ANSI colors.
type ColorStdoutWriter struct {
	cfg          *config.HoneypotConfig
	out          io.Writer
	once         sync.Once
	sourceColors map[string]string
	colorIdx     int
}

var sourcePalette = []string{colorGreen, colorYellow, colorMagenta, colorCyan, colorBlue}

// NewColorStdoutWriter creates a ColorStdoutWriter writing to os.Stdout.
func NewColorStdoutWriter(cfg *config.HoneypotConfig) *ColorStdoutWriter {
	return &ColorStdoutWriter{
		cfg:          cfg,
		out:          os.Stdout,
		sourceColors: make(map[string]string),
	}
}

func (w *ColorStdoutWriter) getSourceColor(source string) string {
	if c, ok := w.sourceColors[source]; ok {
		return c
	}
	c := sourcePalette[w.colorIdx%len(sourcePalette)]
	w.sourceColors[source] = c
	w.colorIdx++
	return c
}

func (w *ColorStdoutWriter) printOverview() {
	if w.cfg == nil {
		return
	}

	fmt.Fprintln(w.out, "Trap Configuration:")
	tw := tabwriter.NewWriter(w.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Session:\t%s\n", w.cfg.SessionID)
	fmt.Fprintf(tw, "Timeline Capacity:\t%d\n", w.cfg.Timeline.MaxSamples)
	auto := "disabled"
	if w.cfg.AutoIntrusion.Enabled {
		auto = "enabled"
	}
	fmt.Fprintf(tw, "Auto Intrusion:\t%s (every %d s)\n", auto, w.cfg.AutoIntrusion.Interval())
	min, max := w.cfg.AutoIntrusion.Bounds()
	fmt.Fprintf(tw, "Interval Bounds (s):\t%d..%d\n", min, max)
	fmt.Fprintf(tw, "Admin:\t%s\n", w.cfg.Admin.Addr)
	tw.Flush()
	fmt.Fprintln(w.out)
}

// Write outputs a single sample in colorized format.
func (w *ColorStdoutWriter) Write(s timeline.Sample) error {
	w.once.Do(w.printOverview)

	srcColor := w.getSourceColor(s.Source)
	valColor := colorGray
	val := "unknown"
	if s.Value != nil {
		valColor = colorWhite
		val = s.Value.String()
	}

	fmt.Fprintf(w.out, "%s[%s]%s ", colorGray, s.Timestamp.Format(time.RFC3339), colorReset)
	fmt.Fprintf(w.out, "%ssession=%s%s ", colorBlue, s.SessionID, colorReset)
	fmt.Fprintf(w.out, "%ssource=%s%s ", srcColor, s.Source, colorReset)
	fmt.Fprintf(w.out, "%st=%.2f%s ", colorCyan, s.Elapsed, colorReset)
	fmt.Fprintf(w.out, "%svalue=%s%s", valColor, val, colorReset)
	fmt.Fprintln(w.out)
	return nil
}

// WriteBatch outputs multiple samples.
func (w *ColorStdoutWriter) WriteBatch(samples []timeline.Sample) error {
	for _, s := range samples {
		_ = w.Write(s)
	}
	return nil
}

// WriteIntrusion prints an intrusion marker to STDOUT.
func (w *ColorStdoutWriter) WriteIntrusion(i timeline.Intrusion) error {
	w.once.Do(w.printOverview)
	fmt.Fprintf(w.out, "%s[%s]%s %sINTRUSION%s origin=%s caused_collapse=%t value=%s t=%.2f id=%s\n",
		colorGray, i.Timestamp.Format(time.RFC3339), colorReset,
		colorRed, colorReset, i.Origin, i.CausedCollapse,
		i.Value, i.Elapsed, i.IntrusionID)
	return nil
}

// WriteEvent prints a security log event to STDOUT.
func (w *ColorStdoutWriter) WriteEvent(e timeline.Event) error {
	w.once.Do(w.printOverview)
	fmt.Fprintf(w.out, "%s[%s]%s %sEVENT%s kind=%s %s\n",
		colorGray, e.Timestamp.Format(time.RFC3339), colorReset,
		colorCyan, colorReset, e.Kind, e.Message)
	return nil
}

// WriteState prints trap state metrics to STDOUT.
func (w *ColorStdoutWriter) WriteState(row timeline.StateRow) error {
	w.once.Do(w.printOverview)
	fmt.Fprintf(w.out, "%s[%s]%s %sSTATE%s state=%s collapsed=%t auto=%t interval=%ds samples=%d intrusions=%d\n",
		colorGray, row.Timestamp.Format(time.RFC3339), colorReset,
		colorBlue, colorReset, row.State, row.Collapsed,
		row.AutoEnabled, row.AutoIntervalSec, row.SampleCount, row.IntrusionCount)
	return nil
}

// WriteAlert prints an intrusion alert to STDOUT.
func (w *ColorStdoutWriter) WriteAlert(a Alert) error {
	w.once.Do(w.printOverview)
	fmt.Fprintf(w.out, "%s[%s]%s %sALERT%s %s (caused_collapse=%t)\n",
		colorGray, a.Timestamp.Format(time.RFC3339), colorReset,
		colorRed, colorReset, a.Message, a.CausedCollapse)
	return nil
}
