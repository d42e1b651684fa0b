// SPDX-License-Identifier: EPL-2.0

package pcm

import (
	"encoding/binary"
	"math"

	"github.com/ik5/audmix/utils"
)

// Decode turns little-endian raw samples of format f into canonical floats.
// The result is interleaved exactly like the input.
func Decode(data []byte, f SampleFormat) ([]float32, error) {
	bps := f.BytesPerSample()
	if bps == 0 {
		return nil, &FormatError{Format: f, Err: ErrUnsupportedFormat}
	}
	if len(data)%bps != 0 {
		return nil, &FormatError{Format: f, Err: ErrMisalignedBuffer}
	}

	out := make([]float32, len(data)/bps)
	switch f {
	case Int16:
		for i := range out {
			out[i] = utils.Int16ToFloat32(int16(binary.LittleEndian.Uint16(data[2*i:])))
		}
	case Float32:
		for i := range out {
			out[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[4*i:]))
		}
	}
	return out, nil
}

// DecodeFrames is Decode plus a check that the sample count is a whole
// number of frames for the declared channel count.
func DecodeFrames(data []byte, f SampleFormat, channels int) ([]float32, error) {
	if channels <= 0 {
		return nil, &FormatError{Format: f, Err: ErrInvalidChannels}
	}
	samples, err := Decode(data, f)
	if err != nil {
		return nil, err
	}
	if len(samples)%channels != 0 {
		return nil, &FormatError{Format: f, Err: ErrMisalignedBuffer}
	}
	return samples, nil
}

// Encode writes src into dst in format f and returns the number of bytes
// written. Float32 values are written as is; Int16 values are clamped,
// scaled by 32767 and truncated. Encode does not allocate.
func Encode(dst []byte, src []float32, f SampleFormat) (int, error) {
	bps := f.BytesPerSample()
	if bps == 0 {
		return 0, &FormatError{Format: f, Err: ErrUnsupportedFormat}
	}
	n := len(src) * bps
	if len(dst) < n {
		return 0, ErrShortBuffer
	}

	switch f {
	case Int16:
		for i, x := range src {
			binary.LittleEndian.PutUint16(dst[2*i:], uint16(utils.Float32ToInt16(x)))
		}
	case Float32:
		for i, x := range src {
			binary.LittleEndian.PutUint32(dst[4*i:], math.Float32bits(x))
		}
	}
	return n, nil
}

// Silence zeroes dst. Both supported formats encode silence as zero bytes.
func Silence(dst []byte) {
	clear(dst)
}
