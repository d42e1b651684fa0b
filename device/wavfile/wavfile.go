// SPDX-License-Identifier: EPL-2.0

// Package wavfile renders the mixer output into a WAV file instead of a
// sound card. The stream calls back once per period, either as fast as
// the encoder accepts data or paced in real time, and encodes every period
// through github.com/go-audio/wav.
//
// Int16 output is stored as 16-bit PCM and Float32 output as 32-bit PCM.
package wavfile

import (
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"sync"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/ik5/audmix/device"
	"github.com/ik5/audmix/pcm"
	"github.com/ik5/audmix/utils"
)

const (
	defaultPeriodFrames = 512
	wavFormatPCM        = 1
)

var ErrNoPath = errors.New("wavfile: no output path")

// Driver opens one WAV file per stream.
type Driver struct {
	// Path of the file to create. An existing file is truncated.
	Path string
	// Realtime paces periods with a ticker instead of rendering as fast as
	// possible.
	Realtime bool
	// Gate, when set, holds rendering until it is closed.
	Gate <-chan struct{}
	// Until, when set, is checked after every period; the stream stops
	// after the first period for which it reports true.
	Until func() bool
	// MaxFrames caps the rendered length. Zero means no cap.
	MaxFrames int
	Log       *slog.Logger
}

var _ device.Driver = (*Driver)(nil)

func (d *Driver) logger() *slog.Logger {
	if d.Log != nil {
		return d.Log
	}
	return slog.Default()
}

func bitDepth(f pcm.SampleFormat) (int, error) {
	switch f {
	case pcm.Int16:
		return 16, nil
	case pcm.Float32:
		return 32, nil
	}
	return 0, &pcm.FormatError{Format: f, Err: pcm.ErrUnsupportedFormat}
}

func (d *Driver) Open(cfg device.StreamConfig, cb device.Callback) (device.Stream, error) {
	if d.Path == "" {
		return nil, ErrNoPath
	}
	canon := cfg.Canonical()
	if err := canon.Validate(); err != nil {
		return nil, err
	}
	depth, err := bitDepth(cfg.Format)
	if err != nil {
		return nil, err
	}
	if cfg.Device != nil {
		d.logger().Warn("wavfile ignores device selection", "device", cfg.Device.Name)
	}

	period := cfg.PeriodFrames
	if period <= 0 {
		period = defaultPeriodFrames
	}

	f, err := os.Create(d.Path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", d.Path, err)
	}

	return &stream{
		d:      d,
		cb:     cb,
		out:    canon,
		depth:  depth,
		period: period,
		f:      f,
		enc:    wav.NewEncoder(f, cfg.SampleRate, depth, cfg.Channels, wavFormatPCM),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}, nil
}

type stream struct {
	d      *Driver
	cb     device.Callback
	out    pcm.Canonical
	depth  int
	period int

	f   *os.File
	enc *wav.Encoder

	startOnce sync.Once
	closeOnce sync.Once
	started   bool
	stop      chan struct{}
	done      chan struct{}

	// written and renderErr belong to the render goroutine until done is
	// closed.
	written   int
	renderErr error
	closeErr  error
}

func (s *stream) Start() error {
	s.startOnce.Do(func() {
		s.started = true
		go s.render()
	})
	return nil
}

func (s *stream) render() {
	defer close(s.done)

	if s.d.Gate != nil {
		select {
		case <-s.d.Gate:
		case <-s.stop:
			return
		}
	}

	var tick <-chan time.Time
	if s.d.Realtime {
		t := time.NewTicker(s.out.Duration(s.period))
		defer t.Stop()
		tick = t.C
	}

	raw := make([]byte, s.period*s.out.BytesPerFrame())
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: s.out.Channels, SampleRate: s.out.SampleRate},
		Data:           make([]int, s.period*s.out.Channels),
		SourceBitDepth: s.depth,
	}

	for {
		select {
		case <-s.stop:
			return
		default:
		}

		frames := s.period
		if limit := s.d.MaxFrames; limit > 0 {
			frames = min(frames, limit-s.written)
		}
		if frames <= 0 {
			return
		}

		period := raw[:frames*s.out.BytesPerFrame()]
		s.cb(period, frames)

		buf.Data = buf.Data[:frames*s.out.Channels]
		toInts(buf.Data, period, s.out.Format)
		if err := s.enc.Write(buf); err != nil {
			s.renderErr = fmt.Errorf("encode period: %w", err)
			return
		}
		s.written += frames

		if s.d.Until != nil && s.d.Until() {
			return
		}
		if tick != nil {
			select {
			case <-tick:
			case <-s.stop:
				return
			}
		}
	}
}

// toInts converts one encoded period into the integer samples the WAV
// encoder expects.
func toInts(dst []int, src []byte, f pcm.SampleFormat) {
	switch f {
	case pcm.Int16:
		for i := range dst {
			dst[i] = int(int16(binary.LittleEndian.Uint16(src[2*i:])))
		}
	case pcm.Float32:
		scale := float64(goaudio.IntMaxSignedValue(32))
		for i := range dst {
			v := utils.Clip(math.Float32frombits(binary.LittleEndian.Uint32(src[4*i:])))
			dst[i] = int(int32(float64(v) * scale))
		}
	}
}

// Done is closed once rendering has stopped, whether because Until
// reported true, MaxFrames was reached, encoding failed or the stream was
// closed.
func (s *stream) Done() <-chan struct{} { return s.done }

// Close stops rendering, finalizes the WAV header and closes the file. A
// render error, if any, is returned here.
func (s *stream) Close() error {
	s.closeOnce.Do(func() {
		close(s.stop)
		s.startOnce.Do(func() {})
		if s.started {
			<-s.done
		}

		err := s.renderErr
		if err == nil && s.written == 0 {
			// An empty render still gets a valid header and data chunk.
			err = s.enc.Write(&goaudio.IntBuffer{
				Format: &goaudio.Format{NumChannels: s.out.Channels, SampleRate: s.out.SampleRate},
			})
		}
		if encErr := s.enc.Close(); encErr != nil && err == nil {
			err = fmt.Errorf("finalize wav: %w", encErr)
		}
		if fErr := s.f.Close(); fErr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", s.f.Name(), fErr)
		}
		if err == nil {
			s.d.logger().Debug("wav render finished", "path", s.d.Path, "frames", s.written)
		}
		s.closeErr = err
	})
	return s.closeErr
}
