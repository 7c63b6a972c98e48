package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mrz1836/rcli/internal/constants"
	"github.com/mrz1836/rcli/internal/errors"
)

// HomeDir returns the rcli home directory: $RCLI_HOME when set, otherwise
// ~/.rcli. Config and logs live under it.
//
// Returns an error if the home directory cannot be determined.
func HomeDir() (string, error) {
	if dir := os.Getenv(constants.HomeEnvVar); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get home directory")
	}
	return filepath.Join(home, constants.RcliHome), nil
}

// GlobalConfigDir returns the directory holding the global config file.
func GlobalConfigDir() (string, error) {
	return HomeDir()
}

// ProjectConfigDir returns the relative path to the project configuration directory.
func ProjectConfigDir() string {
	return constants.ProjectConfigDir
}

// GlobalConfigPath returns the full path to the global configuration file.
func GlobalConfigPath() (string, error) {
	dir, err := GlobalConfigDir()
	if err != nil {
		return "", fmt.Errorf("get global config path: %w", err)
	}
	return filepath.Join(dir, constants.GlobalConfigName), nil
}

// ProjectConfigPath returns the relative path to the project configuration file.
func ProjectConfigPath() string {
	return filepath.Join(ProjectConfigDir(), constants.GlobalConfigName)
}
