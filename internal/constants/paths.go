package constants

// Log file names.
const (
	// CLILogFileName is the name of the global CLI log file.
	// This file is located in ~/.rcli/logs/rcli.log
	CLILogFileName = "rcli.log"
)

// Configuration file names.
const (
	// GlobalConfigName is the name of the global rcli configuration file.
	// This file is located in the rcli home directory.
	GlobalConfigName = "config.yaml"

	// ProjectConfigDir is the project-level configuration directory.
	ProjectConfigDir = ".rcli"
)
