// SPDX-License-Identifier: EPL-2.0

// Package oto plays through github.com/ebitengine/oto/v3. Oto pulls bytes
// from an io.Reader; every Read is turned into one callback of as many
// whole frames as fit.
//
// Oto allows a single context per process, so every Driver shares it and
// all streams must use the format of the first one.
package oto

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	otov3 "github.com/ebitengine/oto/v3"
	"github.com/ik5/audmix/device"
	"github.com/ik5/audmix/pcm"
)

var ErrFormatMismatch = errors.New("oto context already running with another format")

var shared struct {
	mu     sync.Mutex
	ctx    *otov3.Context
	format pcm.Canonical
}

// Driver opens oto players. Device selection is not supported; oto
// always plays on the system default output.
type Driver struct {
	Log *slog.Logger
}

var _ device.Driver = (*Driver)(nil)

func New(log *slog.Logger) *Driver {
	return &Driver{Log: log}
}

func (d *Driver) logger() *slog.Logger {
	if d.Log != nil {
		return d.Log
	}
	return slog.Default()
}

func otoFormat(f pcm.SampleFormat) (otov3.Format, error) {
	switch f {
	case pcm.Int16:
		return otov3.FormatSignedInt16LE, nil
	case pcm.Float32:
		return otov3.FormatFloat32LE, nil
	}
	return 0, &pcm.FormatError{Format: f, Err: pcm.ErrUnsupportedFormat}
}

func sharedContext(cfg device.StreamConfig) (*otov3.Context, error) {
	shared.mu.Lock()
	defer shared.mu.Unlock()

	want := cfg.Canonical()
	if shared.ctx != nil {
		if shared.format != want {
			return nil, fmt.Errorf("%w: have %s, want %s", ErrFormatMismatch, shared.format, want)
		}
		return shared.ctx, nil
	}

	format, err := otoFormat(cfg.Format)
	if err != nil {
		return nil, err
	}
	ctx, ready, err := otov3.NewContext(&otov3.NewContextOptions{
		SampleRate:   cfg.SampleRate,
		ChannelCount: cfg.Channels,
		Format:       format,
		BufferSize:   want.Duration(cfg.PeriodFrames),
	})
	if err != nil {
		return nil, fmt.Errorf("new context: %w", err)
	}
	<-ready

	shared.ctx = ctx
	shared.format = want
	return ctx, nil
}

func (d *Driver) Open(cfg device.StreamConfig, cb device.Callback) (device.Stream, error) {
	if cfg.Device != nil {
		d.logger().Warn("oto ignores device selection", "device", cfg.Device.Name)
	}

	ctx, err := sharedContext(cfg)
	if err != nil {
		return nil, err
	}

	r := &reader{cb: cb, bpf: cfg.Canonical().BytesPerFrame()}
	p := ctx.NewPlayer(r)
	if cfg.PeriodFrames > 0 {
		p.SetBufferSize(cfg.PeriodFrames * r.bpf)
	}
	return &stream{player: p}, nil
}

// reader adapts the pull-style player to the period callback.
type reader struct {
	cb  device.Callback
	bpf int
}

func (r *reader) Read(p []byte) (int, error) {
	frames := len(p) / r.bpf
	if frames == 0 {
		return 0, nil
	}
	n := frames * r.bpf
	r.cb(p[:n], frames)
	return n, nil
}

type stream struct {
	once   sync.Once
	player *otov3.Player
}

func (s *stream) Start() error {
	s.player.Play()
	if err := s.player.Err(); err != nil {
		return fmt.Errorf("play: %w", err)
	}
	return nil
}

// Close stops the player. The shared context stays alive for later
// streams.
func (s *stream) Close() error {
	var err error
	s.once.Do(func() {
		err = s.player.Close()
	})
	if err != nil {
		return fmt.Errorf("close player: %w", err)
	}
	return nil
}
