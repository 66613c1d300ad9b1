package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func TestProcessConfigDefaults(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		viper.Reset()
		cfg := Config{}
		if err := processConfigDefaults(&cfg); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}

		if cfg.DefaultLoader != "fabric" {
			t.Errorf("Expected DefaultLoader to be fabric, got %s", cfg.DefaultLoader)
		}
		if cfg.UserAgent == "" {
			t.Error("Expected UserAgent to have a default value")
		}
	})

	t.Run("respects existing values", func(t *testing.T) {
		viper.Reset()
		cfg := Config{
			DefaultLoader: "vanilla",
			UserAgent:     "custom-agent",
		}
		if err := processConfigDefaults(&cfg); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}

		if cfg.DefaultLoader != "vanilla" {
			t.Errorf("Expected DefaultLoader to stay vanilla, got %s", cfg.DefaultLoader)
		}
		if cfg.UserAgent != "custom-agent" {
			t.Errorf("Expected UserAgent to stay custom-agent, got %s", cfg.UserAgent)
		}
	})

	t.Run("rejects unknown loader", func(t *testing.T) {
		viper.Reset()
		cfg := Config{DefaultLoader: "forge"}
		if err := processConfigDefaults(&cfg); err == nil {
			t.Error("Expected error for unsupported loader")
		}
	})
}

func TestValidateAndEnsureDirectories(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("missing launcher dir", func(t *testing.T) {
		cfg := Config{LauncherDir: ""}
		err := validateAndEnsureDirectories(&cfg)
		if err == nil {
			t.Error("Expected error for missing LauncherDir")
		}
	})

	t.Run("creates directories", func(t *testing.T) {
		launcherDir := filepath.Join(tmpDir, "launcher")
		cfg := Config{LauncherDir: launcherDir}
		err := validateAndEnsureDirectories(&cfg)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}

		subDirs := []string{"instances", "icons"}
		for _, sub := range subDirs {
			path := filepath.Join(launcherDir, sub)
			if _, err := os.Stat(path); os.IsNotExist(err) {
				t.Errorf("Directory %s was not created", sub)
			}
		}
	})
}
