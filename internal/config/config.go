// Package config resolves runtime settings from the environment. A .env
// file in the working directory is loaded first when present.
package config

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/joho/godotenv"
)

type Config struct {
	DBPath   string
	LogLevel string
	LogFile  string
}

// Load reads REMINDR_DB, REMINDR_LOG_LEVEL and REMINDR_LOG_FILE, filling
// defaults for anything unset. Variables already in the environment win
// over the .env file.
func Load(envFiles ...string) *Config {
	// .env is optional
	_ = godotenv.Load(envFiles...)

	return &Config{
		DBPath:   getEnvOrDefault("REMINDR_DB", DefaultDBPath()),
		LogLevel: getEnvOrDefault("REMINDR_LOG_LEVEL", "info"),
		LogFile:  getEnvOrDefault("REMINDR_LOG_FILE", DefaultLogFile()),
	}
}

// DefaultDBPath returns <config dir>/remindr/remindr.db.
func DefaultDBPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "remindr", "remindr.db")
}

// DefaultLogFile returns the log path under the user's state directory.
// On macOS: ~/Library/Logs/remindr/remindr.log
// On Linux: $XDG_STATE_HOME/remindr/remindr.log (defaults to ~/.local/state)
func DefaultLogFile() string {
	if stateHome := os.Getenv("XDG_STATE_HOME"); stateHome != "" {
		return filepath.Join(stateHome, "remindr", "remindr.log")
	}
	home, _ := os.UserHomeDir()
	if runtime.GOOS == "darwin" {
		return filepath.Join(home, "Library", "Logs", "remindr", "remindr.log")
	}
	return filepath.Join(home, ".local", "state", "remindr", "remindr.log")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
