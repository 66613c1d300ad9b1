package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all configuration for the launcher.
// Values are loaded by Viper from a config file and/or environment variables.
type Config struct {
	LauncherDir        string `mapstructure:"LAUNCHER_DIR"`
	ModrinthAPIKey     string `mapstructure:"MODRINTH_API_KEY"`
	UserAgent          string `mapstructure:"USERAGENT"`
	DefaultLoader      string `mapstructure:"DEFAULT_LOADER"`
	DefaultGameVersion string `mapstructure:"DEFAULT_GAME_VERSION"`
	DatabasePath       string `mapstructure:"-"` // Not from env, derived
}

// LoadConfig reads configuration from file and environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)   // Path to look for the config file in
	viper.SetConfigName(".env") // Name of config file (without extension)
	viper.SetConfigType("env")  // REQUIRED if the config file does not have the extension in the name

	vipErr := viper.ReadInConfig()
	if _, ok := vipErr.(viper.ConfigFileNotFoundError); ok {
		slog.Info("Config file (.env) not found, relying on environment variables.")
	} else if vipErr != nil {
		return Config{}, fmt.Errorf("fatal error config file: %w", vipErr)
	}

	// Bind environment variables automatically.
	viper.AutomaticEnv()

	for key, env := range map[string]string{
		"launcher_dir":         "LAUNCHER_DIR",
		"modrinth_api_key":     "MODRINTH_API_KEY",
		"useragent":            "USERAGENT",
		"default_loader":       "DEFAULT_LOADER",
		"default_game_version": "DEFAULT_GAME_VERSION",
	} {
		if bindErr := viper.BindEnv(key, env); bindErr != nil {
			slog.Warn("Unable to bind env var", "var", env, "error", bindErr)
		}
	}

	// Unmarshal the config
	if vipErr = viper.Unmarshal(&config); vipErr != nil {
		return Config{}, fmt.Errorf("unable to decode into struct, %w", vipErr)
	}

	if err := processConfigDefaults(&config); err != nil {
		return Config{}, err
	}
	if err := validateAndEnsureDirectories(&config); err != nil {
		return Config{}, err
	}

	// Derive DatabasePath (place it in the launcher dir for portability)
	config.DatabasePath = filepath.Join(config.LauncherDir, "launcher.db")

	return config, nil
}

// processConfigDefaults fills unset values and validates the loader choice.
func processConfigDefaults(config *Config) error {
	if config.DefaultLoader == "" {
		config.DefaultLoader = "fabric"
	}
	if config.DefaultLoader != "vanilla" && config.DefaultLoader != "fabric" {
		return fmt.Errorf("DEFAULT_LOADER must be 'vanilla' or 'fabric', got %q", config.DefaultLoader)
	}

	if config.UserAgent == "" {
		config.UserAgent = "modpack-launcher/dev (unknown-user)"
		slog.Warn("USERAGENT not set in config or environment, using default.")
	}
	return nil
}

// validateAndEnsureDirectories checks LauncherDir and creates the directory
// tree the launcher expects.
func validateAndEnsureDirectories(config *Config) error {
	if config.LauncherDir == "" {
		slog.Error("LAUNCHER_DIR is not set")
		return fmt.Errorf("LAUNCHER_DIR is required")
	}

	for _, dir := range []string{
		config.LauncherDir,
		filepath.Join(config.LauncherDir, "instances"),
		filepath.Join(config.LauncherDir, "icons"),
	} {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			slog.Info("Directory does not exist, creating it", "path", dir)
			if err := os.MkdirAll(dir, 0755); err != nil {
				slog.Error("Failed to create directory", "path", dir, "error", err)
				return err
			}
		} else if err != nil {
			slog.Error("Failed to check directory", "path", dir, "error", err)
			return err
		}
	}
	return nil
}
