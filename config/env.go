package config

import (
	"os"
	"strconv"
)

// FromEnv overlays WIDEID_* environment variables onto cfg.
func FromEnv(cfg *Config) {
	if v := os.Getenv("WIDEID_BACKEND"); v != "" {
		cfg.Backend = v
	}
	if v := os.Getenv("WIDEID_FILE_THRESHOLD"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.FileThreshold = n
		}
	}
	if v := os.Getenv("WIDEID_BYTE_ORDER"); v != "" {
		cfg.ByteOrder = v
	}
	if v := os.Getenv("WIDEID_TEMP_DIR"); v != "" {
		cfg.TempDir = v
	}
	if v := os.Getenv("WIDEID_WIRE_FORMAT"); v != "" {
		cfg.WireFormat = v
	}
	if v := os.Getenv("WIDEID_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}
