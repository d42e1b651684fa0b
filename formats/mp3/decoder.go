// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"encoding/binary"
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"
	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/utils"
)

const (
	// go-mp3 always emits 16-bit little-endian stereo.
	channels      = 2
	bytesPerFrame = 2 * channels
	bufSize       = 4096
)

// mp3Reader is the part of gomp3.Decoder the source needs.
type mp3Reader interface {
	Read([]byte) (int, error)
	SampleRate() int
}

type source struct {
	dec        mp3Reader
	sampleRate int
	buf        []byte
	eof        bool
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return channels }
func (s *source) Close() error    { return nil }
func (s *source) BufSize() int    { return cap(s.buf) / 2 } // samples, not bytes

func (s *source) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}
	if s.eof {
		return 0, io.EOF
	}
	frames := len(dst) / channels
	if frames == 0 {
		return 0, audio.ErrInvalidDstSize
	}

	need := frames * bytesPerFrame
	if cap(s.buf) < need {
		s.buf = make([]byte, need)
	}
	s.buf = s.buf[:need]

	n, err := io.ReadFull(s.dec, s.buf)
	switch err {
	case nil:
	case io.EOF, io.ErrUnexpectedEOF:
		s.eof = true
	default:
		return 0, fmt.Errorf("decode mp3: %w", err)
	}

	// A trailing partial frame is dropped.
	samples := (n / bytesPerFrame) * channels
	for i := range samples {
		dst[i] = utils.Int16ToFloat32(int16(binary.LittleEndian.Uint16(s.buf[2*i:])))
	}
	if s.eof {
		return samples, io.EOF
	}
	return samples, nil
}

// Decoder reads MPEG-1/2 Layer III streams. Output is always stereo.
type Decoder struct{}

var _ audio.Decoder = Decoder{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotMP3File, err)
	}

	return &source{
		dec:        dec,
		sampleRate: dec.SampleRate(),
		buf:        make([]byte, bufSize*2),
	}, nil
}
