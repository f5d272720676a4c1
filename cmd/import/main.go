package main

import (
	"fmt"
	"os"

	"github.com/Jouhafa/ClaimPilot-sub001/internal/cli"
	"github.com/Jouhafa/ClaimPilot-sub001/internal/infrastructure/config"
	"github.com/Jouhafa/ClaimPilot-sub001/internal/infrastructure/logging"
)

func main() {
	flags := cli.ParseImportFlags()
	if flags.File == "" {
		fmt.Fprintln(os.Stderr, "usage: import -file <transactions.csv>")
		os.Exit(2)
	}

	cfg := config.LoadOrEnvWithPath(flags.ConfigPath)

	loggingCfg := cfg.Observability.Logging
	if flags.Verbose {
		loggingCfg.Level = "debug"
	}
	logger := logging.NewLoggerWithSystem(loggingCfg, "import")

	svc, store, err := cli.BuildService(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	f, err := os.Open(flags.File)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open %s: %v\n", flags.File, err)
		os.Exit(1)
	}
	defer f.Close()

	result, err := svc.ImportCSV(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "import failed: %v\n", err)
		os.Exit(1)
	}

	cli.PrintImportSummary(result)
}
