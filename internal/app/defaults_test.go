package app

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetDefaults(t *testing.T) {
	t.Run("uses env vars when set", func(t *testing.T) {
		t.Setenv("INTAKE_CONFIG_PATH", "/custom/config.toml")
		t.Setenv("INTAKE_HOME", "/custom/intake")

		defaults, err := GetDefaults()
		if err != nil {
			t.Fatalf("GetDefaults() error = %v", err)
		}

		if defaults["config_path"] != "/custom/config.toml" {
			t.Errorf("config_path = %q, want %q", defaults["config_path"], "/custom/config.toml")
		}
		if defaults["base_dir"] != "/custom/intake" {
			t.Errorf("base_dir = %q, want %q", defaults["base_dir"], "/custom/intake")
		}
		if _, ok := defaults["log_dir"]; ok {
			t.Error("log_dir is derived from the config, not a default")
		}
	})

	t.Run("falls back to home dir defaults", func(t *testing.T) {
		t.Setenv("INTAKE_CONFIG_PATH", "")
		t.Setenv("INTAKE_HOME", "")

		defaults, err := GetDefaults()
		if err != nil {
			t.Fatalf("GetDefaults() error = %v", err)
		}

		homeDir, _ := os.UserHomeDir()

		wantConfig := filepath.Join(homeDir, ".config", "intake.toml")
		if defaults["config_path"] != wantConfig {
			t.Errorf("config_path = %q, want %q", defaults["config_path"], wantConfig)
		}

		wantBase := filepath.Join(homeDir, ".local", "share", "intake")
		if defaults["base_dir"] != wantBase {
			t.Errorf("base_dir = %q, want %q", defaults["base_dir"], wantBase)
		}
	})
}
