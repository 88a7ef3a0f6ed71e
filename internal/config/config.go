// Package config holds the run configuration of floatmem.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"

	"github.com/mariiatuzovska/floatmem/internal/program"
)

const (
	MB = 1024 * 1024

	// MaxFileSize bounds config files read by Load.
	MaxFileSize = 1 * MB

	DefaultWidth   = 36
	DefaultChunk   = 32 * MB
	DefaultOverlap = 128
)

var ErrInvalidConfig = errors.New("invalid config")

// Config controls how a program file is read and decoded.
type Config struct {
	// Width is the bit width of masks, addresses and values.
	Width int `yaml:"width"`
	// Decoders are run side by side over the same program, in order.
	Decoders []string `yaml:"decoders"`
	// ChunkSize is the number of bytes each worker maps at a time.
	ChunkSize int64 `yaml:"chunk_size"`
	// Overlap is read past the end of each chunk to finish its last line.
	Overlap int64 `yaml:"overlap"`
	Workers int   `yaml:"workers"`
}

func Default() Config {
	return Config{
		Width:     DefaultWidth,
		Decoders:  []string{program.DecoderAddress},
		ChunkSize: DefaultChunk,
		Overlap:   DefaultOverlap,
		Workers:   runtime.GOMAXPROCS(0),
	}
}

// Load reads a YAML file over the defaults. Unknown fields are rejected.
func Load(path string) (Config, error) {
	cfg := Default()

	info, err := os.Stat(path)
	if err != nil {
		return cfg, fmt.Errorf("stat config: %w", err)
	}
	if info.Size() > MaxFileSize {
		return cfg, fmt.Errorf("%w: %s is %d bytes, limit %d", ErrInvalidConfig, path, info.Size(), MaxFileSize)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
	}
	return cfg, nil
}

// Validate checks cfg and rounds ChunkSize up to a multiple of pageSize, as
// mapped offsets must be page aligned.
func (cfg *Config) Validate(pageSize int) error {
	if cfg.Width < 1 || cfg.Width > 64 {
		return fmt.Errorf("%w: width %d not in [1, 64]", ErrInvalidConfig, cfg.Width)
	}
	if len(cfg.Decoders) == 0 {
		return fmt.Errorf("%w: no decoders", ErrInvalidConfig)
	}
	for _, name := range cfg.Decoders {
		if name != program.DecoderValue && name != program.DecoderAddress {
			return fmt.Errorf("%w: unknown decoder %q", ErrInvalidConfig, name)
		}
	}
	if cfg.ChunkSize < 1 {
		return fmt.Errorf("%w: chunk size %d", ErrInvalidConfig, cfg.ChunkSize)
	}
	if cfg.Overlap < 0 {
		return fmt.Errorf("%w: overlap %d", ErrInvalidConfig, cfg.Overlap)
	}
	if cfg.Workers < 1 {
		return fmt.Errorf("%w: workers %d", ErrInvalidConfig, cfg.Workers)
	}
	if pageSize > 0 {
		ps := int64(pageSize)
		cfg.ChunkSize = (cfg.ChunkSize + ps - 1) / ps * ps
	}
	return nil
}
