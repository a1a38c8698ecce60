package config

import (
	"fmt"
	"os"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap/zapcore"

	"github.com/quickwritereader/wideid/codec"
	wideerrors "github.com/quickwritereader/wideid/errors"
	"github.com/quickwritereader/wideid/ndarray"
	"github.com/quickwritereader/wideid/types"
	"github.com/quickwritereader/wideid/wire"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Config is the top-level configuration loaded from file/env.
type Config struct {
	// Backend names the foreign runtime (see ndarray.Backends).
	Backend string `json:"backend"`
	// FileThreshold is the sequence length from which outbound transfers use
	// a temp file.
	FileThreshold int `json:"fileThreshold"`
	// ByteOrder of raw identifier buffers: little, big or native.
	ByteOrder string `json:"byteOrder"`
	// TempDir holds transfer files; empty means os.TempDir().
	TempDir    string `json:"tempDir"`
	WireFormat string `json:"wireFormat"`
	LogLevel   string `json:"logLevel"`
}

// Default returns built-in defaults.
func Default() Config {
	return Config{
		Backend:       ndarray.DefaultBackend,
		FileThreshold: codec.DefaultFileThreshold,
		ByteOrder:     types.LittleEndian.String(),
		WireFormat:    wire.JSON.String(),
		LogLevel:      "info",
	}
}

// Load reads configuration from a JSON file over the defaults. If path is
// empty, returns defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, wideerrors.Wrap(wideerrors.PhaseConfig, wideerrors.KindIO, err, "read config file")
	}
	cfg := Default()
	if err := json.Unmarshal(b, &cfg); err != nil {
		return Config{}, wideerrors.Wrap(wideerrors.PhaseConfig, wideerrors.KindInvalidInput, err, fmt.Sprintf("parse %s", path))
	}
	return cfg, nil
}

// Validate checks every field can be used.
func (c Config) Validate() error {
	if c.Backend == "" {
		return invalid("backend", c.Backend, "must not be empty")
	}
	if c.FileThreshold <= 0 {
		return invalid("fileThreshold", c.FileThreshold, "must be positive")
	}
	if _, err := types.ParseByteOrder(c.ByteOrder); err != nil {
		return invalid("byteOrder", c.ByteOrder, err.Error())
	}
	if _, err := wire.ParseFormat(c.WireFormat); err != nil {
		return invalid("wireFormat", c.WireFormat, err.Error())
	}
	if _, err := c.Level(); err != nil {
		return invalid("logLevel", c.LogLevel, err.Error())
	}
	return nil
}

// CodecOptions maps the config onto codec options.
func (c Config) CodecOptions() ([]codec.Option, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	order, _ := types.ParseByteOrder(c.ByteOrder)
	opts := []codec.Option{
		codec.WithFileThreshold(c.FileThreshold),
		codec.WithByteOrder(order),
	}
	if c.TempDir != "" {
		opts = append(opts, codec.WithTempDir(c.TempDir))
	}
	return opts, nil
}

// Provider returns a lazily initialised runtime provider for the configured
// backend. The default backend shares the process-wide provider.
func (c Config) Provider() *ndarray.Provider {
	if c.Backend == "" || c.Backend == ndarray.DefaultBackend {
		return ndarray.Default()
	}
	return ndarray.NewProvider(c.Backend)
}

// Format returns the parsed wire format.
func (c Config) Format() (wire.Format, error) {
	return wire.ParseFormat(c.WireFormat)
}

// Level returns the parsed log level; empty means info.
func (c Config) Level() (zapcore.Level, error) {
	if c.LogLevel == "" {
		return zapcore.InfoLevel, nil
	}
	return zapcore.ParseLevel(c.LogLevel)
}

func invalid(field string, value any, detail string) error {
	return wideerrors.New(wideerrors.PhaseConfig, wideerrors.KindInvalidInput).
		Value(value).
		Detail("config %s: %s", field, detail).
		Build()
}
