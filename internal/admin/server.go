// Admin HTTP server exposing trap status and controls
package admin

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"qhoneypot-sim/internal/honeypot"
	"qhoneypot-sim/internal/timeline"
)

//go:embed templates/index.html
var content embed.FS

// Server serves the admin UI and JSON endpoints for one trap.
type Server struct {
	Trap *honeypot.Honeypot
	tpl  *template.Template
}

// NewServer creates an admin server for the given trap.
func NewServer(trap *honeypot.Honeypot) *Server {
	tpl := template.Must(template.New("index.html").ParseFS(content, "templates/index.html"))
	return &Server{Trap: trap, tpl: tpl}
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/status", s.handleStatus)
	mux.HandleFunc("/timeline", s.handleTimeline)
	mux.HandleFunc("/measure", s.handleMeasure)
	mux.HandleFunc("/intrude", s.handleIntrude)
	mux.HandleFunc("/reset", s.handleReset)
	mux.HandleFunc("/auto-intrusion", s.handleAutoIntrusion)
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

// Start serves until ctx is done, then shuts the listener down.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.routes()}
	go func() {
		<-ctx.Done()
		srv.Shutdown(context.Background())
	}()
	return srv.ListenAndServe()
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	data := struct {
		Status honeypot.Status
	}{
		Status: s.Trap.Status(),
	}
	s.tpl.Execute(w, data)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.Trap.Status())
}

func (s *Server) handleTimeline(w http.ResponseWriter, r *http.Request) {
	samples, intrusions := s.Trap.Timeline()
	if samples == nil {
		samples = []timeline.Sample{}
	}
	if intrusions == nil {
		intrusions = []timeline.Intrusion{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"samples":    samples,
		"intrusions": intrusions,
	})
}

func (s *Server) handleMeasure(w http.ResponseWriter, r *http.Request) {
	v := s.Trap.Measure()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"value": v})
}

func (s *Server) handleIntrude(w http.ResponseWriter, r *http.Request) {
	caused, v := s.Trap.TriggerIntrusion()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"caused_collapse": caused,
		"value":           v,
	})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.Trap.Reset()
	w.WriteHeader(http.StatusNoContent)
}

// handleAutoIntrusion enables, reconfigures, or disables the simulated
// attacker. Out-of-range intervals answer 422 so callers see the rejection
// instead of a silently clamped schedule.
func (s *Server) handleAutoIntrusion(w http.ResponseWriter, r *http.Request) {
	enabled := r.URL.Query().Get("enabled") == "true"
	interval := 0
	if v := r.URL.Query().Get("interval"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			http.Error(w, "interval must be an integer", http.StatusBadRequest)
			return
		}
		interval = n
	}

	if err := s.Trap.SetAutoIntrusion(enabled, interval); err != nil {
		if errors.Is(err, honeypot.ErrIntervalOutOfRange) {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"enabled":    enabled,
		"interval_s": interval,
	})
}
