// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"fmt"
	"io"

	"github.com/ik5/audmix/audio"
	"github.com/jfreymuth/oggvorbis"
)

const bufSize = 4096

// oggReader is the part of oggvorbis.Reader the source needs. Read fills
// whole frames of interleaved samples and returns the number of values,
// not frames.
type oggReader interface {
	SampleRate() int
	Channels() int
	Read([]float32) (int, error)
}

type source struct {
	dec        oggReader
	sampleRate int
	channels   int
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return s.channels }
func (s *source) Close() error    { return nil }
func (s *source) BufSize() int    { return bufSize - bufSize%s.channels }

func (s *source) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}
	want := len(dst) - len(dst)%s.channels
	if want == 0 {
		return 0, audio.ErrInvalidDstSize
	}

	// Vorbis already decodes to float32, so the decoder writes into dst
	// directly.
	n, err := s.dec.Read(dst[:want])
	n -= n % s.channels
	switch {
	case err == io.EOF:
		return n, io.EOF
	case err != nil:
		return n, fmt.Errorf("decode vorbis: %w", err)
	}
	return n, nil
}

// Decoder reads Ogg Vorbis streams.
type Decoder struct{}

var _ audio.Decoder = Decoder{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotVorbisFile, err)
	}
	if dec.Channels() <= 0 {
		return nil, ErrNotVorbisFile
	}

	return &source{
		dec:        dec,
		sampleRate: dec.SampleRate(),
		channels:   dec.Channels(),
	}, nil
}
