package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/quickwritereader/wideid/codec"
	wideerrors "github.com/quickwritereader/wideid/errors"
	"github.com/quickwritereader/wideid/ndarray"
	"github.com/quickwritereader/wideid/types"
	"github.com/quickwritereader/wideid/wire"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, ndarray.HeapBackend, cfg.Backend)
	assert.Equal(t, 10000, cfg.FileThreshold)
	assert.Equal(t, "little", cfg.ByteOrder)
	assert.Equal(t, "json", cfg.WireFormat)
	assert.NoError(t, cfg.Validate())
	assert.Same(t, ndarray.Default(), cfg.Provider())
}

func TestLoadJSON(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "wideid.json")
	data := []byte(`{"backend":"wasm","fileThreshold":500,"byteOrder":"big","wireFormat":"msgpack"}`)
	require.NoError(t, os.WriteFile(file, data, 0o644))

	cfg, err := Load(file)
	require.NoError(t, err)
	assert.Equal(t, "wasm", cfg.Backend)
	assert.Equal(t, 500, cfg.FileThreshold)
	assert.Equal(t, "big", cfg.ByteOrder)
	// untouched fields keep their defaults
	assert.Equal(t, "info", cfg.LogLevel)

	f, err := cfg.Format()
	require.NoError(t, err)
	assert.Equal(t, wire.MsgPack, f)
	assert.Equal(t, "wasm", cfg.Provider().Name())
}

func TestLoad_Errors(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, wideerrors.ErrIO)

	file := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(file, []byte(`{"fileThreshold":"many"}`), 0o644))
	_, err = Load(file)
	assert.ErrorIs(t, err, wideerrors.ErrInvalidInput)
}

func TestFromEnv(t *testing.T) {
	cfg := Default()
	t.Setenv("WIDEID_BACKEND", "wasm")
	t.Setenv("WIDEID_FILE_THRESHOLD", "24")
	t.Setenv("WIDEID_BYTE_ORDER", "native")
	t.Setenv("WIDEID_TEMP_DIR", "/var/tmp")
	t.Setenv("WIDEID_LOG_LEVEL", "debug")

	FromEnv(&cfg)
	assert.Equal(t, "wasm", cfg.Backend)
	assert.Equal(t, 24, cfg.FileThreshold)
	assert.Equal(t, "native", cfg.ByteOrder)
	assert.Equal(t, "/var/tmp", cfg.TempDir)

	lvl, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, zapcore.DebugLevel, lvl)
}

func TestFromEnv_IgnoresBadNumbers(t *testing.T) {
	cfg := Default()
	t.Setenv("WIDEID_FILE_THRESHOLD", "lots")
	FromEnv(&cfg)
	assert.Equal(t, codec.DefaultFileThreshold, cfg.FileThreshold)
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"backend":   func(c *Config) { c.Backend = "" },
		"threshold": func(c *Config) { c.FileThreshold = 0 },
		"order":     func(c *Config) { c.ByteOrder = "middle" },
		"format":    func(c *Config) { c.WireFormat = "xml" },
		"level":     func(c *Config) { c.LogLevel = "chatty" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(&cfg)
			err := cfg.Validate()
			assert.ErrorIs(t, err, wideerrors.ErrInvalidInput)

			_, err = cfg.CodecOptions()
			assert.Error(t, err)
		})
	}
}

func TestCodecOptions(t *testing.T) {
	cfg := Default()
	cfg.FileThreshold = 42
	cfg.ByteOrder = "big"
	cfg.TempDir = t.TempDir()

	opts, err := cfg.CodecOptions()
	require.NoError(t, err)
	c := codec.New(cfg.Provider(), opts...)
	assert.Equal(t, 42, c.Threshold())
	assert.Equal(t, types.BigEndian, c.ByteOrder())
}
