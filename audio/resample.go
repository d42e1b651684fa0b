// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"strings"
)

// Method selects the algorithm used by Resample.
type Method int

const (
	// MethodFFT is band-limited Fourier resampling. It is the default.
	MethodFFT Method = iota
	// MethodPolyphase runs a polyphase FIR filter bank.
	MethodPolyphase
	// MethodCubic is Catmull-Rom interpolation with no filtering.
	MethodCubic
)

func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "fft", "fourier":
		return MethodFFT, nil
	case "polyphase", "soxr":
		return MethodPolyphase, nil
	case "cubic":
		return MethodCubic, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidMethod, s)
}

func (m Method) String() string {
	switch m {
	case MethodFFT:
		return "fft"
	case MethodPolyphase:
		return "polyphase"
	case MethodCubic:
		return "cubic"
	}
	return fmt.Sprintf("Method(%d)", int(m))
}

func (m Method) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Method) UnmarshalText(b []byte) error {
	v, err := ParseMethod(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// ResampledFrames returns floor(frames * outRate / inRate).
func ResampledFrames(frames, inRate, outRate int) int {
	return int(int64(frames) * int64(outRate) / int64(inRate))
}

// Resample converts interleaved samples from inRate to outRate. Every
// channel is processed independently and the result always holds exactly
// ResampledFrames(len(samples)/channels, inRate, outRate) frames. Equal
// rates return samples unchanged.
func Resample(samples []float32, channels, inRate, outRate int, m Method) ([]float32, error) {
	if inRate <= 0 || outRate <= 0 {
		return nil, fmt.Errorf("%w: %d -> %d", ErrInvalidRate, inRate, outRate)
	}
	if channels <= 0 {
		return nil, ErrChannels
	}
	if len(samples)%channels != 0 {
		return nil, ErrMisaligned
	}
	if inRate == outRate {
		return samples, nil
	}

	inFrames := len(samples) / channels
	outFrames := ResampledFrames(inFrames, inRate, outRate)
	if outFrames == 0 {
		return []float32{}, nil
	}

	switch m {
	case MethodFFT:
		return resampleFFT(samples, channels, inFrames, outFrames), nil
	case MethodPolyphase:
		return resamplePolyphase(samples, channels, inRate, outRate, outFrames)
	case MethodCubic:
		return resampleCubic(samples, channels, inFrames, outFrames), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrInvalidMethod, m)
}

// deinterleave copies channel c of an interleaved buffer into dst.
func deinterleave(dst []float64, src []float32, channels, c int) {
	for i := range dst {
		dst[i] = float64(src[i*channels+c])
	}
}
