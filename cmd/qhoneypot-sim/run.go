package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"qhoneypot-sim/internal/admin"
	"qhoneypot-sim/internal/config"
	"qhoneypot-sim/internal/honeypot"
	"qhoneypot-sim/internal/logging"
	"qhoneypot-sim/internal/metrics"
)

var (
	runConfigPath string
	runSchemaPath string
	runTick       time.Duration
	runLogFile    string
	runOutput     string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the quantum honeypot trap",
	Long:  "run starts the trap cell, the sampling loop, and the admin endpoint.",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logging.New()
		ctx, cancel := context.WithCancel(logging.NewContext(context.Background(), log))
		defer cancel()

		cfg, err := config.Load(runConfigPath, runSchemaPath)
		if err != nil {
			return err
		}

		writer, intrusionWriter, cleanup, err := newWriters(cfg, runOutput, runLogFile)
		if err != nil {
			return err
		}
		defer cleanup()

		// TRAP_ID wins over the config so deployments can name sessions
		// without editing YAML.
		sessionID := os.Getenv("TRAP_ID")
		if sessionID == "" {
			sessionID = cfg.SessionID
		}

		tickInterval := runTick
		if envTick := os.Getenv("TICK_INTERVAL"); envTick != "" {
			d, err := time.ParseDuration(envTick)
			if err != nil {
				return err
			}
			tickInterval = d
		}

		trap := honeypot.New(sessionID, cfg, writer, intrusionWriter, tickInterval, nil, nil)
		trap.SetMetrics(metrics.New())
		if cw, ok := writer.(honeypot.ControlWriter); ok {
			cw.SetControls(honeypot.ControlsFor(trap))
		}

		adminAddr := cfg.Admin.Addr
		if adminAddr == "" {
			adminAddr = ":8080"
		}
		srv := admin.NewServer(trap)
		go func() {
			log.Info("admin endpoint listening", "addr", adminAddr)
			if err := srv.Start(ctx, adminAddr); err != nil && err != http.ErrServerClosed {
				log.Error("admin server failed", "err", err)
			}
		}()
		if aw, ok := writer.(honeypot.AdminStatusWriter); ok {
			aw.SetAdminStatus(adminAddr)
		}

		go trap.Run(ctx)

		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
		<-sigs

		cancel()
		log.Info("honeypot shut down", "session_id", trap.SessionID())
		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&runConfigPath, "config", "config/honeypot.yaml", "Path to trap configuration YAML")
	runCmd.Flags().StringVar(&runSchemaPath, "schema", "schemas/honeypot.cue", "Path to CUE schema file")
	runCmd.Flags().DurationVar(&runTick, "tick", honeypot.DefaultTickInterval, "Sampling tick interval (e.g. 500ms, 2s)")
	runCmd.Flags().StringVar(&runLogFile, "log-file", "", "Path to export timeline logs (JSONL)")
	runCmd.Flags().StringVar(&runOutput, "output", outputAuto, "Output mode: auto, json, color, tui, or greptime")
}
