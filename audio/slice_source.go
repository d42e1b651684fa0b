// SPDX-License-Identifier: EPL-2.0

package audio

import "io"

// SliceSource serves an in-memory interleaved buffer as a Source.
type SliceSource struct {
	samples  []float32
	pos      int
	rate     int
	channels int
}

func NewSliceSource(samples []float32, channels, rate int) *SliceSource {
	return &SliceSource{samples: samples, rate: rate, channels: channels}
}

func (s *SliceSource) SampleRate() int { return s.rate }
func (s *SliceSource) Channels() int   { return s.channels }
func (s *SliceSource) BufSize() int    { return 4096 }
func (s *SliceSource) Close() error    { return nil }

func (s *SliceSource) ReadSamples(dst []float32) (int, error) {
	if s.pos >= len(s.samples) {
		return 0, io.EOF
	}
	n := copy(dst, s.samples[s.pos:])
	s.pos += n
	if s.pos >= len(s.samples) {
		return n, io.EOF
	}
	return n, nil
}
