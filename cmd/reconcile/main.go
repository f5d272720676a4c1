package main

import (
	"fmt"
	"os"

	"github.com/Jouhafa/ClaimPilot-sub001/internal/cli"
	"github.com/Jouhafa/ClaimPilot-sub001/internal/infrastructure/config"
	"github.com/Jouhafa/ClaimPilot-sub001/internal/infrastructure/logging"
)

func main() {
	flags := cli.ParseReconcileFlags()
	cfg := config.LoadOrEnvWithPath(flags.ConfigPath)

	loggingCfg := cfg.Observability.Logging
	if flags.Verbose {
		loggingCfg.Level = "debug"
	}
	logger := logging.NewLoggerWithSystem(loggingCfg, "reconcile")

	svc, store, err := cli.BuildService(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	result, err := svc.RunReconciliation()
	if err != nil {
		fmt.Fprintf(os.Stderr, "reconciliation failed: %v\n", err)
		os.Exit(1)
	}

	cli.PrintReconcileSummary(result)

	if flags.Apply {
		accepted := 0
		for _, m := range result.Matches {
			if _, err := svc.AcceptMatch(m.Pending.ID, m.Confirmed.ID); err != nil {
				fmt.Fprintf(os.Stderr, "accept %s -> %s failed: %v\n", m.Pending.ID, m.Confirmed.ID, err)
				continue
			}
			accepted++
		}
		fmt.Printf("\nAccepted %d of %d matches\n", accepted, len(result.Matches))
	}
}
