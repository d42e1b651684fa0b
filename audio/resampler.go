// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/audmix/utils"
)

// Resampler streams src at a different sample rate using cubic
// interpolation over a four-frame window. It preserves the channel count
// and runs a one-pole low-pass over the input when downsampling.
//
// Equal rates pass reads straight through to src.
type Resampler struct {
	src      Source
	dstRate  int
	ratio    float64 // source frames per output frame
	channels int

	// window[1] and window[2] bracket the current position; window[0] and
	// window[3] are the outer neighbours.
	window [4][]float32
	live   int // real frames in window[1:]
	primed bool

	pos float64
	eof bool

	frame []float32

	lowpass bool
	state   []float32
}

const lowpassAlpha = 0.5

func NewResampler(src Source, dstRate int) *Resampler {
	channels := src.Channels()
	ratio := float64(src.SampleRate()) / float64(dstRate)

	r := &Resampler{
		src:      src,
		dstRate:  dstRate,
		ratio:    ratio,
		channels: channels,
		frame:    make([]float32, channels),
		lowpass:  ratio > 1.0,
		state:    make([]float32, channels),
	}
	for i := range r.window {
		r.window[i] = make([]float32, channels)
	}

	return r
}

func (r *Resampler) SampleRate() int { return r.dstRate }
func (r *Resampler) Channels() int   { return r.channels }
func (r *Resampler) BufSize() int    { return r.src.BufSize() }

func (r *Resampler) Close() error {
	if err := r.src.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

// pull reads one source frame into r.frame. ok is false once src is done.
func (r *Resampler) pull() (bool, error) {
	if r.eof {
		return false, nil
	}

	n, err := r.src.ReadSamples(r.frame)
	if errors.Is(err, io.EOF) {
		r.eof = true
		err = nil
	}
	if err != nil {
		return false, fmt.Errorf("%w", err)
	}
	if n < r.channels {
		r.eof = true
		return false, nil
	}

	if r.lowpass {
		if !r.primed && r.live == 0 {
			copy(r.state, r.frame)
		}
		for c, x := range r.frame {
			y := lowpassAlpha*x + (1-lowpassAlpha)*r.state[c]
			r.frame[c] = y
			r.state[c] = y
		}
	}
	return true, nil
}

// advance shifts the window by one frame. Once the source is exhausted
// the last frame is held so the tail interpolates against itself.
func (r *Resampler) advance() error {
	ok, err := r.pull()
	if err != nil {
		return err
	}

	head := r.window[0]
	copy(r.window[:], r.window[1:])
	r.window[3] = head
	if ok {
		copy(r.window[3], r.frame)
	} else {
		copy(r.window[3], r.window[2])
		r.live--
	}
	return nil
}

// prime loads up to three frames; window[0] duplicates the first one.
func (r *Resampler) prime() error {
	for i := 1; i < 4; i++ {
		ok, err := r.pull()
		if err != nil {
			return err
		}
		if !ok {
			if i == 1 {
				return io.EOF
			}
			copy(r.window[i], r.window[i-1])
			continue
		}
		copy(r.window[i], r.frame)
		r.live++
	}
	copy(r.window[0], r.window[1])
	r.primed = true
	return nil
}

// ReadSamples produces samples at the destination rate. dst length should
// be a multiple of Channels.
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}
	if r.ratio == 1.0 {
		return r.src.ReadSamples(dst)
	}

	if !r.primed {
		if err := r.prime(); err != nil {
			r.live = 0
			r.primed = true
			return 0, err
		}
	}

	written := 0
	frames := len(dst) / r.channels

	for written < frames {
		for r.pos >= 1.0 && r.live >= 2 {
			r.pos -= 1.0
			if err := r.advance(); err != nil {
				return written * r.channels, err
			}
		}
		// Interpolation needs real frames on both sides of pos.
		if r.live < 2 {
			return written * r.channels, io.EOF
		}

		x := float32(r.pos)
		out := dst[written*r.channels : (written+1)*r.channels]
		for c := range out {
			out[c] = utils.CubicInterpolate(r.window[0][c], r.window[1][c], r.window[2][c], r.window[3][c], x)
		}

		written++
		r.pos += r.ratio
	}

	return written * r.channels, nil
}
