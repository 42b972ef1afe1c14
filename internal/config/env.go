package config

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads .env / .env.local into the process environment before
// config resolution. Existing environment variables win. A missing file is
// not an error.
func LoadDotEnv() {
	for _, path := range []string{".env", ".env.local"} {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			slog.Warn("Failed to load env file", "path", path, "error", err)
			continue
		}
		slog.Debug("Loaded environment variables", "path", path)
		return
	}
}

// applyEnvOverrides applies COURSEGEN_* environment overrides on top of the
// file-based configuration. Only deployment-dependent knobs are exposed.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("COURSEGEN_URL"); v != "" {
		cfg.URL = v
	}
	if v := os.Getenv("COURSEGEN_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("COURSEGEN_OUTPUT_DIR"); v != "" {
		cfg.Output.Directory = v
	}
	if v := os.Getenv("COURSEGEN_CONTENT_DIR"); v != "" {
		cfg.Content.Dir = v
	}
	if v := os.Getenv("COURSEGEN_STATE_DB"); v != "" {
		cfg.Build.StateDB = v
	}
	if v := os.Getenv("COURSEGEN_SERVE_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Serve.Port = port
		} else {
			slog.Warn("Ignoring non-numeric COURSEGEN_SERVE_PORT", "value", v)
		}
	}
	if v := os.Getenv("COURSEGEN_NATS_URL"); v != "" {
		if cfg.Events == nil {
			cfg.Events = &EventsConfig{Enabled: true, Subject: "coursegen.builds"}
		}
		cfg.Events.NATSURL = v
	}
}
