// SPDX-License-Identifier: EPL-2.0

// Package config loads the engine configuration from YAML and the
// environment.
//
// A file only needs the keys it changes; everything else keeps the value
// from Default. Environment variables are applied last:
//
//	AUDMIX_OUT_DRIVER    malgo | oto | wav
//	AUDMIX_OUT_DEVICE    output device name fragment
//	AUDMIX_OUT_CHANNELS  output channel count
//	AUDMIX_OUT_RATE      output sample rate in Hz
//	AUDMIX_OUT_FORMAT    int16 | float32
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/goccy/go-yaml"
	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/pcm"
)

// Output drivers.
const (
	DriverMalgo = "malgo"
	DriverOto   = "oto"
	DriverWAV   = "wav"
)

// Environment variables read by ApplyEnv.
const (
	EnvDriver   = "AUDMIX_OUT_DRIVER"
	EnvDevice   = "AUDMIX_OUT_DEVICE"
	EnvChannels = "AUDMIX_OUT_CHANNELS"
	EnvRate     = "AUDMIX_OUT_RATE"
	EnvFormat   = "AUDMIX_OUT_FORMAT"
)

const (
	DefaultChannels     = 2
	DefaultRate         = 44100
	DefaultFormat       = pcm.Float32
	DefaultPeriodFrames = 512
)

var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	Output   Output   `yaml:"output"`
	Resample Resample `yaml:"resample"`
	Log      Log      `yaml:"log"`
}

// Output describes the canonical output format and where it goes.
type Output struct {
	Driver       string           `yaml:"driver"`
	Device       string           `yaml:"device,omitempty"`
	Channels     int              `yaml:"channels"`
	Rate         int              `yaml:"rate"`
	Format       pcm.SampleFormat `yaml:"format"`
	PeriodFrames int              `yaml:"period_frames"`
	// WAVPath and Realtime only apply to the wav driver.
	WAVPath  string `yaml:"wav_path,omitempty"`
	Realtime bool   `yaml:"realtime,omitempty"`
}

type Resample struct {
	Method audio.Method `yaml:"method"`
}

type Log struct {
	Level slog.Level `yaml:"level"`
}

// Default returns the built-in configuration: stereo float32 at 44.1 kHz
// on the malgo driver.
func Default() *Config {
	return &Config{
		Output: Output{
			Driver:       DriverMalgo,
			Channels:     DefaultChannels,
			Rate:         DefaultRate,
			Format:       DefaultFormat,
			PeriodFrames: DefaultPeriodFrames,
		},
		Resample: Resample{Method: audio.MethodFFT},
		Log:      Log{Level: slog.LevelInfo},
	}
}

// Load reads path over the defaults, applies the environment and
// validates the result. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		if err := cfg.Parse(data); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes YAML into c. Unknown keys are rejected.
func (c *Config) Parse(data []byte) error {
	return yaml.UnmarshalWithOptions(data, c, yaml.DisallowUnknownField())
}

// Marshal encodes c as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// ApplyEnv overrides output settings from the environment through lookup,
// usually os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvDriver); ok {
		c.Output.Driver = v
	}
	if v, ok := lookup(EnvDevice); ok {
		c.Output.Device = v
	}
	if v, ok := lookup(EnvChannels); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %w", ErrInvalid, EnvChannels, v, err)
		}
		c.Output.Channels = n
	}
	if v, ok := lookup(EnvRate); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %w", ErrInvalid, EnvRate, v, err)
		}
		c.Output.Rate = n
	}
	if v, ok := lookup(EnvFormat); ok {
		f, err := pcm.ParseSampleFormat(v)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalid, EnvFormat, err)
		}
		c.Output.Format = f
	}
	return nil
}

// Validate reports the first setting the engine cannot run with.
func (c *Config) Validate() error {
	o := c.Output
	switch o.Driver {
	case DriverMalgo, DriverOto:
	case DriverWAV:
		if o.WAVPath == "" {
			return fmt.Errorf("%w: output.wav_path is required for the wav driver", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: unknown output.driver %q", ErrInvalid, o.Driver)
	}
	if o.PeriodFrames <= 0 {
		return fmt.Errorf("%w: output.period_frames must be positive, got %d", ErrInvalid, o.PeriodFrames)
	}
	if err := c.Canonical().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	switch c.Resample.Method {
	case audio.MethodFFT, audio.MethodPolyphase, audio.MethodCubic:
	default:
		return fmt.Errorf("%w: %w: %s", ErrInvalid, audio.ErrInvalidMethod, c.Resample.Method)
	}
	return nil
}

// Canonical returns the engine output format.
func (c *Config) Canonical() pcm.Canonical {
	return pcm.Canonical{
		Channels:   c.Output.Channels,
		SampleRate: c.Output.Rate,
		Format:     c.Output.Format,
	}
}
