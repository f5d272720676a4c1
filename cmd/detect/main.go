package main

import (
	"fmt"
	"os"

	"github.com/Jouhafa/ClaimPilot-sub001/internal/cli"
	"github.com/Jouhafa/ClaimPilot-sub001/internal/infrastructure/config"
	"github.com/Jouhafa/ClaimPilot-sub001/internal/infrastructure/logging"
)

func main() {
	flags := cli.ParseDetectFlags()
	cfg := config.LoadOrEnvWithPath(flags.ConfigPath)

	loggingCfg := cfg.Observability.Logging
	if flags.Verbose {
		loggingCfg.Level = "debug"
	}
	logger := logging.NewLoggerWithSystem(loggingCfg, "detect")

	svc, store, err := cli.BuildService(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	patterns, err := svc.RunDetection()
	if err != nil {
		fmt.Fprintf(os.Stderr, "detection failed: %v\n", err)
		os.Exit(1)
	}

	summary, err := svc.GetSummary()
	if err != nil {
		fmt.Fprintf(os.Stderr, "summary failed: %v\n", err)
		os.Exit(1)
	}
	cli.PrintDetectionSummary(patterns, summary)

	window := flags.Window
	if window <= 0 {
		window = cfg.Detection.UpcomingWindow
	}
	if window <= 0 {
		window = 30
	}

	bills, err := svc.GetUpcoming(window)
	if err != nil {
		fmt.Fprintf(os.Stderr, "upcoming failed: %v\n", err)
		os.Exit(1)
	}
	cli.PrintUpcoming(bills, window)
}
