package cli

import "flag"

// CommonFlags are shared by all ledger commands
type CommonFlags struct {
	ConfigPath string
	Verbose    bool
}

func registerCommonFlags(flags *CommonFlags) {
	flag.StringVar(&flags.ConfigPath, "config", "", "Path to config file (falls back to env)")
	flag.BoolVar(&flags.Verbose, "verbose", false, "Verbose output")
}

// DetectFlags holds flags for the detect command
type DetectFlags struct {
	CommonFlags
	Window int
}

// ParseDetectFlags parses command line flags for the detect command
func ParseDetectFlags() DetectFlags {
	var flags DetectFlags
	registerCommonFlags(&flags.CommonFlags)
	flag.IntVar(&flags.Window, "window", 0, "Upcoming bill window in days (0 = from config)")
	flag.Parse()
	return flags
}

// ReconcileFlags holds flags for the reconcile command
type ReconcileFlags struct {
	CommonFlags
	Apply bool
}

// ParseReconcileFlags parses command line flags for the reconcile command
func ParseReconcileFlags() ReconcileFlags {
	var flags ReconcileFlags
	registerCommonFlags(&flags.CommonFlags)
	flag.BoolVar(&flags.Apply, "apply", false, "Accept all proposed matches instead of just reporting them")
	flag.Parse()
	return flags
}

// ImportFlags holds flags for the import command
type ImportFlags struct {
	CommonFlags
	File string
}

// ParseImportFlags parses command line flags for the import command
func ParseImportFlags() ImportFlags {
	var flags ImportFlags
	registerCommonFlags(&flags.CommonFlags)
	flag.StringVar(&flags.File, "file", "", "CSV file to import (required)")
	flag.Parse()
	return flags
}

// ServeFlags holds the CLI flags for the serve command
type ServeFlags struct {
	CommonFlags
	Port int
}

// ParseServeFlags parses command line flags for the serve command
func ParseServeFlags() ServeFlags {
	var flags ServeFlags
	registerCommonFlags(&flags.CommonFlags)
	flag.IntVar(&flags.Port, "port", 0, "Port to listen on (0 = from config)")
	flag.Parse()
	return flags
}
