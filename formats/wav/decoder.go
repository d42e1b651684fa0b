// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"fmt"
	"io"
	"math"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/riff"
	gowav "github.com/go-audio/wav"
	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/utils"
)

// WAVE format tags from the fmt chunk.
const (
	formatPCM        = 0x0001
	formatIEEEFloat  = 0x0003
	formatExtensible = 0xFFFE
)

const bufSize = 4096

// pcmReader is the part of gowav.Decoder the source needs.
type pcmReader interface {
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

type source struct {
	dec        pcmReader
	sampleRate int
	channels   int
	bitDepth   int
	float      bool
	// remaining counts samples left in the data chunk; the decoder itself
	// reads past it into trailing chunks.
	remaining int
	intBuf    *goaudio.IntBuffer
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return s.channels }
func (s *source) BufSize() int    { return bufSize - bufSize%s.channels }
func (s *source) Close() error    { return nil }

func (s *source) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}
	want := min(len(dst), s.remaining)
	want -= want % s.channels
	if want == 0 {
		return 0, io.EOF
	}

	if s.intBuf == nil || cap(s.intBuf.Data) < want {
		s.intBuf = &goaudio.IntBuffer{Data: make([]int, want)}
	}
	s.intBuf.Data = s.intBuf.Data[:want]

	n, err := s.dec.PCMBuffer(s.intBuf)
	if err != nil {
		return 0, fmt.Errorf("read pcm: %w", err)
	}
	n -= n % s.channels
	if n == 0 {
		s.remaining = 0
		return 0, io.EOF
	}
	s.remaining -= n

	for i, v := range s.intBuf.Data[:n] {
		dst[i] = s.toFloat(v)
	}
	if s.remaining == 0 {
		return n, io.EOF
	}
	return n, nil
}

func (s *source) toFloat(v int) float32 {
	switch {
	case s.float:
		return math.Float32frombits(uint32(int32(v)))
	case s.bitDepth == 8:
		// 8-bit WAV is unsigned.
		return utils.IntToFloat32(v-128, 8)
	default:
		return utils.IntToFloat32(v, s.bitDepth)
	}
}

// isWave checks the RIFF container header and rewinds rs.
func isWave(rs io.ReadSeeker) bool {
	var hdr [12]byte
	if _, err := io.ReadFull(rs, hdr[:]); err != nil {
		return false
	}
	if _, err := rs.Seek(-int64(len(hdr)), io.SeekCurrent); err != nil {
		return false
	}
	return bytes.Equal(hdr[:4], riff.RiffID[:]) && bytes.Equal(hdr[8:], riff.WavFormatID[:])
}

// Decoder reads RIFF/WAVE files with 8, 16, 24 or 32-bit integer PCM or
// 32-bit IEEE float samples.
type Decoder struct{}

var _ audio.Decoder = Decoder{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("reading wav data: %w", err)
		}
		rs = bytes.NewReader(data)
	}
	if !isWave(rs) {
		return nil, ErrNotWavFile
	}

	dec := gowav.NewDecoder(rs)
	dec.ReadInfo()
	if err := dec.Err(); err != nil || dec.NumChans == 0 {
		return nil, ErrNotWavFile
	}

	bitDepth := int(dec.BitDepth)
	float := false
	switch dec.WavAudioFormat {
	case formatPCM, formatExtensible:
		switch bitDepth {
		case 8, 16, 24, 32:
		default:
			return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, bitDepth)
		}
	case formatIEEEFloat:
		if bitDepth != 32 {
			return nil, fmt.Errorf("%w: %d-bit float", ErrUnsupportedBitDepth, bitDepth)
		}
		float = true
	default:
		return nil, fmt.Errorf("%w: format tag %#04x", ErrUnsupportedEncoding, dec.WavAudioFormat)
	}

	if err := dec.FwdToPCM(); err != nil || dec.PCMChunk == nil {
		return nil, ErrNoPCMData
	}

	format := dec.Format()
	return &source{
		dec:        dec,
		sampleRate: format.SampleRate,
		channels:   format.NumChannels,
		bitDepth:   bitDepth,
		float:      float,
		remaining:  int(dec.PCMLen()) / (bitDepth / 8),
	}, nil
}
