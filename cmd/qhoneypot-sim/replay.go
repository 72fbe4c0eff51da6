package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"qhoneypot-sim/internal/honeypot"
)

var (
	replayInput  string
	replaySpeed  float64
	replayOutput string
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay a recorded timeline log file",
	Long:  "replay feeds sample rows from a JSONL log back into GreptimeDB or STDOUT.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if replayInput == "" {
			return fmt.Errorf("input file required")
		}
		writer, cleanup, err := newReplayWriter(nil, replayOutput)
		if err != nil {
			return err
		}
		defer cleanup()
		return honeypot.ReplayLogFile(replayInput, writer, replaySpeed)
	},
}

func init() {
	replayCmd.Flags().StringVar(&replayInput, "input", "", "Path to timeline sample log file")
	replayCmd.Flags().Float64Var(&replaySpeed, "speed", 1.0, "Playback speed multiplier (0 flushes immediately)")
	replayCmd.Flags().StringVar(&replayOutput, "output", outputAuto, "Output mode: auto, json, color, or greptime")
	replayCmd.MarkFlagRequired("input")
}
