package app

import (
	"fmt"
	"os"
	"path/filepath"
)

// GetDefaults returns application default paths, checking environment variables first.
// Environment variables:
//   - INTAKE_CONFIG_PATH: config file location (default: ~/.config/intake.toml)
//   - INTAKE_HOME: base directory of the working tree (default: ~/.local/share/intake)
func GetDefaults() (map[string]string, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	baseDir, err := getBaseDir()
	if err != nil {
		return nil, err
	}

	return map[string]string{
		"config_path": configPath,
		"base_dir":    baseDir,
	}, nil
}

// getConfigPath returns the config file path, checking INTAKE_CONFIG_PATH first,
// then falling back to ~/.config/intake.toml.
func getConfigPath() (string, error) {
	if path := os.Getenv("INTAKE_CONFIG_PATH"); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "intake.toml"), nil
}

// getBaseDir returns the working tree root, checking INTAKE_HOME first,
// then falling back to the XDG default ~/.local/share/intake.
func getBaseDir() (string, error) {
	if path := os.Getenv("INTAKE_HOME"); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".local", "share", "intake"), nil
}
