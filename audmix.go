// SPDX-License-Identifier: EPL-2.0

package audmix

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/config"
	"github.com/ik5/audmix/device"
	"github.com/ik5/audmix/device/malgo"
	"github.com/ik5/audmix/device/oto"
	"github.com/ik5/audmix/device/wavfile"
	"github.com/ik5/audmix/formats/aiff"
	"github.com/ik5/audmix/formats/mp3"
	"github.com/ik5/audmix/formats/vorbis"
	"github.com/ik5/audmix/formats/wav"
	"github.com/ik5/audmix/mixer"
)

// NewDriver builds the output driver named by o.Driver. The selector is
// nil for drivers that cannot enumerate devices.
func NewDriver(o config.Output, log *slog.Logger) (device.Driver, device.Selector, error) {
	switch o.Driver {
	case config.DriverMalgo:
		d := malgo.New(log)
		return d, d, nil
	case config.DriverOto:
		return oto.New(log), nil, nil
	case config.DriverWAV:
		return &wavfile.Driver{Path: o.WAVPath, Realtime: o.Realtime, Log: log}, nil, nil
	}
	return nil, nil, fmt.Errorf("%w: unknown driver %q", config.ErrInvalid, o.Driver)
}

// Options translates cfg into mixer options. Device selection is left to
// the caller because it depends on the driver.
func Options(cfg *config.Config, log *slog.Logger) []mixer.Option {
	return []mixer.Option{
		mixer.WithLogger(log),
		mixer.WithResampleMethod(cfg.Resample.Method),
		mixer.WithPeriodFrames(cfg.Output.PeriodFrames),
	}
}

// New validates cfg and returns a mixer on the configured driver. opts are
// applied after the ones derived from cfg.
func New(cfg *config.Config, log *slog.Logger, opts ...mixer.Option) (*mixer.Mixer, error) {
	if log == nil {
		log = slog.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	drv, sel, err := NewDriver(cfg.Output, log)
	if err != nil {
		return nil, err
	}

	all := Options(cfg, log)
	if sel != nil {
		all = append(all, mixer.WithDevice(cfg.Output.Device, sel))
	} else if cfg.Output.Device != "" {
		log.Warn("driver cannot select devices, using default", "driver", cfg.Output.Driver, "device", cfg.Output.Device)
	}
	return mixer.New(cfg.Canonical(), drv, append(all, opts...)...)
}

// NewRegistry returns a registry with every bundled decoder.
func NewRegistry() *audio.Registry {
	r := audio.NewRegistry()
	r.Register("wav", wav.Decoder{}, ".wav", ".wave")
	r.Register("aiff", aiff.Decoder{}, ".aif", ".aiff")
	r.Register("mp3", mp3.Decoder{}, ".mp3")
	r.Register("vorbis", vorbis.Decoder{}, ".ogg", ".oga")
	return r
}

var defaultRegistry = sync.OnceValue(NewRegistry)

// DefaultRegistry is the shared registry used by DecodeFile.
func DefaultRegistry() *audio.Registry { return defaultRegistry() }

type fileSource struct {
	audio.Source
	f *os.File
}

func (s *fileSource) Close() error {
	return errors.Join(s.Source.Close(), s.f.Close())
}

// DecodeFile opens path with the decoder registered for its extension in
// DefaultRegistry. Closing the returned Source closes the file.
func DecodeFile(path string) (audio.Source, error) {
	return DecodeFileWith(DefaultRegistry(), path)
}

// DecodeFileWith is DecodeFile with an explicit registry.
func DecodeFileWith(r *audio.Registry, path string) (audio.Source, error) {
	format, dec, err := r.ForPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	src, err := dec.Decode(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("decode %s as %s: %w", path, format, err)
	}
	return &fileSource{Source: src, f: f}, nil
}

// PlayFile decodes path and queues all of it on t.
func PlayFile(t *mixer.Track, path string) error {
	src, err := DecodeFile(path)
	if err != nil {
		return err
	}
	defer src.Close()

	if err := t.WriteSource(src, 0); err != nil {
		return fmt.Errorf("play %s: %w", path, err)
	}
	return nil
}
