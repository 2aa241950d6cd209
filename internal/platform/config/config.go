package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const DefaultPollInterval = 300 * time.Millisecond

// DiscardLogs as the log file turns logging off.
const DiscardLogs = "-"

type Config struct {
	MethodsFile  string
	LogFile      string
	LogLevel     string
	LogFormat    string
	PollInterval time.Duration
}

// Overrides carries values set explicitly on the command line. Empty
// fields keep whatever the environment provided.
type Overrides struct {
	MethodsFile  string
	LogFile      string
	LogLevel     string
	PollInterval time.Duration
}

// Load builds the configuration from defaults, an optional .env file and
// DOSER_* environment variables, then applies command-line overrides.
func Load(envFile string, over Overrides) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("load env file: %w", err)
		}
	}

	cfg := Config{
		MethodsFile:  os.Getenv("DOSER_METHODS_FILE"),
		LogFile:      getEnvOrDefault("DOSER_LOG_FILE", defaultLogFile()),
		LogLevel:     getEnvOrDefault("DOSER_LOG_LEVEL", "info"),
		LogFormat:    getEnvOrDefault("DOSER_LOG_FORMAT", "text"),
		PollInterval: DefaultPollInterval,
	}
	if raw := os.Getenv("DOSER_POLL_INTERVAL"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("parse DOSER_POLL_INTERVAL: %w", err)
		}
		cfg.PollInterval = d
	}

	if over.MethodsFile != "" {
		cfg.MethodsFile = over.MethodsFile
	}
	if over.LogFile != "" {
		cfg.LogFile = over.LogFile
	}
	if over.LogLevel != "" {
		cfg.LogLevel = over.LogLevel
	}
	if over.PollInterval != 0 {
		cfg.PollInterval = over.PollInterval
	}

	if cfg.LogFile == DiscardLogs {
		cfg.LogFile = ""
	}

	if cfg.PollInterval <= 0 {
		return Config{}, fmt.Errorf("poll interval must be positive, got %s", cfg.PollInterval)
	}
	switch strings.ToLower(cfg.LogFormat) {
	case "text", "json":
	default:
		return Config{}, fmt.Errorf("unsupported log format %q", cfg.LogFormat)
	}
	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func defaultLogFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "doser", "doser.log")
}
