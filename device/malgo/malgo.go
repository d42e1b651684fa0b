// SPDX-License-Identifier: EPL-2.0

// Package malgo drives hardware output through miniaudio. The device pulls
// one period at a time on its own thread and the callback is invoked
// directly from it.
package malgo

import (
	"fmt"
	"log/slog"
	"sync"

	ma "github.com/gen2brain/malgo"
	"github.com/ik5/audmix/device"
	"github.com/ik5/audmix/pcm"
)

// Driver opens playback devices. The zero value logs to slog.Default().
type Driver struct {
	Log *slog.Logger
}

var (
	_ device.Driver   = (*Driver)(nil)
	_ device.Selector = (*Driver)(nil)
)

func New(log *slog.Logger) *Driver {
	return &Driver{Log: log}
}

func (d *Driver) logger() *slog.Logger {
	if d.Log != nil {
		return d.Log
	}
	return slog.Default()
}

func (d *Driver) initContext() (*ma.AllocatedContext, error) {
	log := d.logger()
	ctx, err := ma.InitContext(nil, ma.ContextConfig{}, func(message string) {
		log.Debug("miniaudio", "message", message)
	})
	if err != nil {
		return nil, fmt.Errorf("init context: %w", err)
	}
	return ctx, nil
}

func freeContext(ctx *ma.AllocatedContext) {
	_ = ctx.Uninit()
	ctx.Free()
}

func sampleFormat(f pcm.SampleFormat) (ma.FormatType, error) {
	switch f {
	case pcm.Int16:
		return ma.FormatS16, nil
	case pcm.Float32:
		return ma.FormatF32, nil
	}
	return ma.FormatUnknown, &pcm.FormatError{Format: f, Err: pcm.ErrUnsupportedFormat}
}

// Open initializes a playback device for cfg. The stream does not run
// until Start.
func (d *Driver) Open(cfg device.StreamConfig, cb device.Callback) (device.Stream, error) {
	format, err := sampleFormat(cfg.Format)
	if err != nil {
		return nil, err
	}

	ctx, err := d.initContext()
	if err != nil {
		return nil, err
	}

	dc := ma.DefaultDeviceConfig(ma.Playback)
	dc.Playback.Format = format
	dc.Playback.Channels = uint32(cfg.Channels)
	dc.SampleRate = uint32(cfg.SampleRate)
	dc.PeriodSizeInFrames = uint32(cfg.PeriodFrames)
	if cfg.Device != nil {
		if id, ok := cfg.Device.ID.(ma.DeviceID); ok {
			dc.Playback.DeviceID = id.Pointer()
		}
	}

	dev, err := ma.InitDevice(ctx.Context, dc, ma.DeviceCallbacks{
		Data: func(out, _ []byte, frames uint32) {
			cb(out, int(frames))
		},
	})
	if err != nil {
		freeContext(ctx)
		return nil, fmt.Errorf("init device: %w", err)
	}

	d.logger().Debug("playback device initialized",
		"device", deviceName(cfg.Device),
		"rate", cfg.SampleRate,
		"channels", cfg.Channels,
		"format", cfg.Format,
	)
	return &stream{ctx: ctx, dev: dev}, nil
}

func deviceName(info *device.Info) string {
	if info == nil {
		return "default"
	}
	return info.Name
}

// Devices lists playback devices.
func (d *Driver) Devices() ([]device.Info, error) {
	ctx, err := d.initContext()
	if err != nil {
		return nil, err
	}
	defer freeContext(ctx)

	infos, err := ctx.Devices(ma.Playback)
	if err != nil {
		return nil, fmt.Errorf("enumerate playback devices: %w", err)
	}

	out := make([]device.Info, 0, len(infos))
	for _, info := range infos {
		out = append(out, device.Info{
			Name:    info.Name(),
			Default: info.IsDefault != 0,
			ID:      info.ID,
		})
	}
	return out, nil
}

// Lookup resolves fragment with device.FindByName.
func (d *Driver) Lookup(fragment string) (*device.Info, error) {
	list, err := d.Devices()
	if err != nil {
		return nil, err
	}
	return device.FindByName(list, fragment)
}

type stream struct {
	once sync.Once
	ctx  *ma.AllocatedContext
	dev  *ma.Device
}

func (s *stream) Start() error {
	if err := s.dev.Start(); err != nil {
		return fmt.Errorf("start device: %w", err)
	}
	return nil
}

// Close stops the device, waiting for an in-flight callback, and frees the
// context.
func (s *stream) Close() error {
	var err error
	s.once.Do(func() {
		if s.dev.IsStarted() {
			err = s.dev.Stop()
		}
		s.dev.Uninit()
		freeContext(s.ctx)
	})
	if err != nil {
		return fmt.Errorf("stop device: %w", err)
	}
	return nil
}
