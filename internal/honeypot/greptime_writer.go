package honeypot

import (
	"context"
	log "log/slog"
	"math"
	"net"
	"strconv"

	"qhoneypot-sim/internal/cell"
	"qhoneypot-sim/internal/timeline"

	gpb "github.com/GreptimeTeam/greptime-proto/go/greptime/v1"
	greptime "github.com/GreptimeTeam/greptimedb-ingester-go"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table/types"
)

// greptimeClient is the slice of the ingester client the writer needs.
// Tests substitute a mock.
type greptimeClient interface {
	Write(ctx context.Context, tables ...*table.Table) (*gpb.GreptimeResponse, error)
}

// GreptimeDBWriter writes trap activity to GreptimeDB via the ingester client.
type GreptimeDBWriter struct {
	client         greptimeClient
	sampleTable    string
	intrusionTable string
	eventTable     string
	stateTable     string
}

// NewGreptimeDBWriter creates a GreptimeDB writer for the given endpoint
// (host or host:port) and database.
func NewGreptimeDBWriter(endpoint, database string) (*GreptimeDBWriter, error) {
	host, port, err := net.SplitHostPort(endpoint)
	if err != nil {
		host, port = endpoint, ""
	}
	cfg := greptime.NewConfig(host).WithDatabase(database)
	if port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return nil, err
		}
		cfg = cfg.WithPort(p)
	}
	client, err := greptime.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	return &GreptimeDBWriter{
		client:         client,
		sampleTable:    timeline.SampleTableName,
		intrusionTable: "honeypot_intrusions",
		eventTable:     "honeypot_events",
		stateTable:     "honeypot_state",
	}, nil
}

// The value column is a DOUBLE so pre-collapse samples can carry NaN;
// the collapsed flag makes unknown distinguishable from a real reading.
func valueOrNaN(v *cell.Bit) float64 {
	if v == nil {
		return math.NaN()
	}
	return float64(*v)
}

// Write inserts a single sample.
func (w *GreptimeDBWriter) Write(s timeline.Sample) error {
	return w.WriteBatch([]timeline.Sample{s})
}

// WriteBatch inserts multiple samples.
func (w *GreptimeDBWriter) WriteBatch(samples []timeline.Sample) error {
	if len(samples) == 0 {
		return nil
	}

	tbl, err := table.New(w.sampleTable)
	if err != nil {
		return err
	}
	if err := tbl.AddTagColumn("session_id", types.STRING); err != nil {
		return err
	}
	if err := tbl.AddTagColumn("source", types.STRING); err != nil {
		return err
	}
	if err := tbl.AddFieldColumn("elapsed_s", types.FLOAT); err != nil {
		return err
	}
	if err := tbl.AddFieldColumn("value", types.FLOAT); err != nil {
		return err
	}
	if err := tbl.AddFieldColumn("collapsed", types.BOOLEAN); err != nil {
		return err
	}
	if err := tbl.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND); err != nil {
		return err
	}
	for _, s := range samples {
		if err := tbl.AddRow(s.SessionID, s.Source, s.Elapsed, valueOrNaN(s.Value), s.Value != nil, s.Timestamp); err != nil {
			return err
		}
	}
	if err := w.write(tbl); err != nil {
		return err
	}
	log.Debug("greptime write", "table", w.sampleTable, "rows", len(samples))
	return nil
}

// WriteIntrusion inserts an intrusion marker.
func (w *GreptimeDBWriter) WriteIntrusion(i timeline.Intrusion) error {
	tbl, err := table.New(w.intrusionTable)
	if err != nil {
		return err
	}
	if err := tbl.AddTagColumn("session_id", types.STRING); err != nil {
		return err
	}
	if err := tbl.AddTagColumn("origin", types.STRING); err != nil {
		return err
	}
	if err := tbl.AddFieldColumn("intrusion_id", types.STRING); err != nil {
		return err
	}
	if err := tbl.AddFieldColumn("caused_collapse", types.BOOLEAN); err != nil {
		return err
	}
	if err := tbl.AddFieldColumn("value", types.FLOAT); err != nil {
		return err
	}
	if err := tbl.AddFieldColumn("elapsed_s", types.FLOAT); err != nil {
		return err
	}
	if err := tbl.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND); err != nil {
		return err
	}
	if err := tbl.AddRow(i.SessionID, i.Origin, i.IntrusionID, i.CausedCollapse, float64(i.Value), i.Elapsed, i.Timestamp); err != nil {
		return err
	}
	return w.write(tbl)
}

// WriteEvent inserts a security log event.
func (w *GreptimeDBWriter) WriteEvent(e timeline.Event) error {
	tbl, err := table.New(w.eventTable)
	if err != nil {
		return err
	}
	if err := tbl.AddTagColumn("session_id", types.STRING); err != nil {
		return err
	}
	if err := tbl.AddTagColumn("kind", types.STRING); err != nil {
		return err
	}
	if err := tbl.AddFieldColumn("message", types.STRING); err != nil {
		return err
	}
	if err := tbl.AddFieldColumn("elapsed_s", types.FLOAT); err != nil {
		return err
	}
	if err := tbl.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND); err != nil {
		return err
	}
	if err := tbl.AddRow(e.SessionID, e.Kind, e.Message, e.Elapsed, e.Timestamp); err != nil {
		return err
	}
	return w.write(tbl)
}

// WriteState inserts a per-tick trap state row.
func (w *GreptimeDBWriter) WriteState(row timeline.StateRow) error {
	tbl, err := table.New(w.stateTable)
	if err != nil {
		return err
	}
	if err := tbl.AddTagColumn("session_id", types.STRING); err != nil {
		return err
	}
	if err := tbl.AddFieldColumn("state", types.STRING); err != nil {
		return err
	}
	if err := tbl.AddFieldColumn("collapsed", types.BOOLEAN); err != nil {
		return err
	}
	if err := tbl.AddFieldColumn("value", types.FLOAT); err != nil {
		return err
	}
	if err := tbl.AddFieldColumn("auto_enabled", types.BOOLEAN); err != nil {
		return err
	}
	if err := tbl.AddFieldColumn("auto_interval_s", types.INT64); err != nil {
		return err
	}
	if err := tbl.AddFieldColumn("samples", types.INT64); err != nil {
		return err
	}
	if err := tbl.AddFieldColumn("intrusions", types.INT64); err != nil {
		return err
	}
	if err := tbl.AddFieldColumn("elapsed_s", types.FLOAT); err != nil {
		return err
	}
	if err := tbl.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND); err != nil {
		return err
	}
	if err := tbl.AddRow(row.SessionID, row.State, row.Collapsed, valueOrNaN(row.Value),
		row.AutoEnabled, int64(row.AutoIntervalSec), int64(row.SampleCount),
		int64(row.IntrusionCount), row.Elapsed, row.Timestamp); err != nil {
		return err
	}
	return w.write(tbl)
}

func (w *GreptimeDBWriter) write(tbl *table.Table) error {
	if _, err := w.client.Write(context.Background(), tbl); err != nil {
		log.Error("greptime write failed", "err", err)
		return err
	}
	return nil
}
