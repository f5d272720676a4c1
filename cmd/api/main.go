package main

import (
	"fmt"
	"os"

	"github.com/Jouhafa/ClaimPilot-sub001/internal/cli"
	"github.com/Jouhafa/ClaimPilot-sub001/internal/infrastructure/config"
)

func main() {
	flags := cli.ParseServeFlags()
	cfg := config.LoadOrEnvWithPath(flags.ConfigPath)

	if err := cli.RunServe(cfg, flags); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
