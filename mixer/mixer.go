// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/device"
	"github.com/ik5/audmix/pcm"
)

// Mixer owns the source registry and the output stream.
//
// It is safe to call methods on Mixer from multiple goroutines.
type Mixer struct {
	out pcm.Canonical
	drv device.Driver
	log *slog.Logger

	method       audio.Method
	mix          MixFunc
	deviceName   string
	selector     device.Selector
	periodFrames int
	onDrained    func(TrackID)

	// startMu serializes opening and closing the stream.
	startMu sync.Mutex
	stream  device.Stream
	running atomic.Bool
	closed  atomic.Bool

	// mu guards the registry and the mixing buffers.
	mu      sync.Mutex
	sources map[TrackID]*source
	signal  *CompletionSignal
	acc     []float32
	scratch []float32
	drained []TrackID
}

// New creates a Mixer that emits out through drv. The stream is not opened
// until the first write or Start.
func New(out pcm.Canonical, drv device.Driver, opts ...Option) (*Mixer, error) {
	if err := out.Validate(); err != nil {
		return nil, err
	}
	if drv == nil {
		return nil, ErrNoDriver
	}

	m := &Mixer{
		out:          out,
		drv:          drv,
		log:          slog.Default(),
		method:       audio.MethodFFT,
		mix:          Sum,
		periodFrames: defaultPeriodFrames,
		sources:      make(map[TrackID]*source),
		signal:       NewCompletionSignal(true),
	}
	for _, opt := range opts {
		opt.apply(m)
	}
	return m, nil
}

// Format returns the canonical output format.
func (m *Mixer) Format() pcm.Canonical { return m.out }

// Running reports whether the output stream is open and started.
func (m *Mixer) Running() bool { return m.running.Load() }

// Signal exposes the completion signal.
func (m *Mixer) Signal() *CompletionSignal { return m.signal }

// OpenTrack returns a new, empty source handle.
func (m *Mixer) OpenTrack(opts ...TrackOption) *Track {
	t := &Track{id: TrackID(uuid.New()), m: m}
	for _, opt := range opts {
		opt.apply(t)
	}
	m.log.Debug("track opened", "track", t.id, "label", t.label)
	return t
}

// Write converts raw PCM to the canonical format and appends it to t's
// queue. Empty input is accepted and ignored.
func (m *Mixer) Write(t *Track, data []byte, f pcm.SampleFormat, channels, rate int) error {
	if err := checkInput(f, channels, rate); err != nil {
		return err
	}
	samples, err := pcm.DecodeFrames(data, f, channels)
	if err != nil {
		return err
	}
	return m.write(t, samples, channels, rate)
}

// WriteFloat32 is Write for samples that are already float32.
func (m *Mixer) WriteFloat32(t *Track, samples []float32, channels, rate int) error {
	if err := checkInput(pcm.Float32, channels, rate); err != nil {
		return err
	}
	if len(samples)%channels != 0 {
		return &pcm.FormatError{Format: pcm.Float32, Err: pcm.ErrMisalignedBuffer}
	}
	return m.write(t, slices.Clone(samples), channels, rate)
}

func checkInput(f pcm.SampleFormat, channels, rate int) error {
	if !f.Valid() {
		return &pcm.FormatError{Format: f, Err: pcm.ErrUnsupportedFormat}
	}
	if channels <= 0 {
		return &pcm.FormatError{Format: f, Err: pcm.ErrInvalidChannels}
	}
	if rate <= 0 {
		return &pcm.FormatError{Format: f, Err: pcm.ErrInvalidRate}
	}
	return nil
}

// write takes ownership of samples.
func (m *Mixer) write(t *Track, samples []float32, channels, rate int) error {
	if m.closed.Load() {
		return ErrClosed
	}
	if t == nil || t.m != m {
		return ErrForeignTrack
	}
	if len(samples) == 0 {
		return nil
	}

	canon, err := m.convert(samples, channels, rate)
	if err != nil {
		return err
	}
	return m.enqueue(t, canon)
}

// convert resamples and then remaps channels.
func (m *Mixer) convert(samples []float32, channels, rate int) ([]float32, error) {
	out, err := audio.Resample(samples, channels, rate, m.out.SampleRate, m.method)
	if err != nil {
		return nil, fmt.Errorf("resample %d -> %d: %w", rate, m.out.SampleRate, err)
	}
	return audio.RemapChannels(out, channels, m.out.Channels), nil
}

// enqueue appends canonical samples to t's queue, starting the stream
// first if needed.
func (m *Mixer) enqueue(t *Track, samples []float32) error {
	if len(samples) < m.out.Channels {
		return nil
	}
	if err := m.ensureStarted(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed.Load() {
		return ErrClosed
	}
	s, ok := m.sources[t.id]
	if !ok {
		s = &source{id: t.id}
		m.sources[t.id] = s
	}
	s.push(chunk{samples: samples, channels: m.out.Channels})
	m.signal.Clear()
	return nil
}

// Start opens and starts the output stream. It is a no-op when the stream
// is already running, and may be retried after a *device.DeviceError.
func (m *Mixer) Start() error {
	return m.ensureStarted()
}

func (m *Mixer) ensureStarted() error {
	if m.running.Load() {
		return nil
	}

	m.startMu.Lock()
	defer m.startMu.Unlock()

	if m.running.Load() {
		return nil
	}
	if m.closed.Load() {
		return ErrClosed
	}

	cfg := device.StreamConfig{
		SampleRate:   m.out.SampleRate,
		Channels:     m.out.Channels,
		Format:       m.out.Format,
		PeriodFrames: m.periodFrames,
	}
	if m.selector != nil {
		info, err := m.selector.Lookup(m.deviceName)
		if err != nil {
			m.log.Error("output device lookup failed", "device", m.deviceName, "error", err)
			return device.Wrap("lookup", err)
		}
		cfg.Device = info
	}

	stream, err := m.drv.Open(cfg, m.Mix)
	if err != nil {
		m.log.Error("failed to open output stream", "error", err)
		return device.Wrap("open", err)
	}
	if err := stream.Start(); err != nil {
		_ = stream.Close()
		m.log.Error("failed to start output stream", "error", err)
		return device.Wrap("start", err)
	}

	m.stream = stream
	m.running.Store(true)
	m.log.Info("output stream started",
		"rate", m.out.SampleRate,
		"channels", m.out.Channels,
		"format", m.out.Format,
		"device", deviceLabel(cfg.Device),
		"period_frames", m.periodFrames,
	)
	return nil
}

func deviceLabel(info *device.Info) string {
	if info == nil {
		return "default"
	}
	return info.Name
}

// Shutdown stops and releases the output stream, drops queued audio and
// sets the completion signal. Later writes fail with ErrClosed. It is safe
// to call more than once.
func (m *Mixer) Shutdown() error {
	if m.closed.Swap(true) {
		return nil
	}

	m.startMu.Lock()
	stream := m.stream
	m.stream = nil
	m.running.Store(false)
	m.startMu.Unlock()

	var err error
	if stream != nil {
		err = device.Wrap("close", stream.Close())
	}

	m.mu.Lock()
	dropped := len(m.sources)
	clear(m.sources)
	m.signal.Set()
	m.mu.Unlock()

	if err != nil {
		m.log.Error("failed to close output stream", "error", err)
		return err
	}
	m.log.Info("mixer shut down", "dropped_sources", dropped)
	return nil
}

// WaitUntilFinished blocks until no audio is queued or timeout elapses and
// reports whether the queue drained. A timeout <= 0 waits forever.
func (m *Mixer) WaitUntilFinished(timeout time.Duration) bool {
	return m.signal.Wait(timeout)
}

// Wait is WaitUntilFinished bounded by ctx.
func (m *Mixer) Wait(ctx context.Context) bool {
	return m.signal.WaitContext(ctx)
}

// Sources returns the number of tracks with queued audio.
func (m *Mixer) Sources() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sources)
}

func (m *Mixer) queued(id TrackID) (chunks, frames int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sources[id]
	if !ok {
		return 0, 0
	}
	return len(s.queue), s.frames
}
