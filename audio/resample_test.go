// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allMethods = []Method{MethodFFT, MethodPolyphase, MethodCubic}

func sine(frames, channels, rate int, freq float64) []float32 {
	out := make([]float32, frames*channels)
	for f := range frames {
		v := float32(0.5 * math.Sin(2*math.Pi*freq*float64(f)/float64(rate)))
		for c := range channels {
			out[f*channels+c] = v
		}
	}
	return out
}

func TestResample_FrameCount(t *testing.T) {
	t.Parallel()

	cases := []struct {
		frames, in, out int
	}{
		{frames: 1000, in: 44100, out: 48000},
		{frames: 1000, in: 48000, out: 44100},
		{frames: 441, in: 44100, out: 16000},
		{frames: 7, in: 22050, out: 44100},
		{frames: 333, in: 8000, out: 44100},
		{frames: 100, in: 96000, out: 8000},
		{frames: 1, in: 16000, out: 48000},
		{frames: 2, in: 48000, out: 16000},
	}

	for _, m := range allMethods {
		for _, tc := range cases {
			for _, channels := range []int{1, 2} {
				name := fmt.Sprintf("%s/%d@%d->%d/ch%d", m, tc.frames, tc.in, tc.out, channels)
				t.Run(name, func(t *testing.T) {
					t.Parallel()

					src := sine(tc.frames, channels, tc.in, 440)
					got, err := Resample(src, channels, tc.in, tc.out, m)
					require.NoError(t, err)

					want := int(int64(tc.frames) * int64(tc.out) / int64(tc.in))
					assert.Len(t, got, want*channels)
				})
			}
		}
	}
}

func TestResample_EqualRatesIsIdentity(t *testing.T) {
	t.Parallel()

	src := sine(100, 2, 44100, 1000)
	for _, m := range allMethods {
		got, err := Resample(src, 2, 44100, 44100, m)
		require.NoError(t, err)
		assert.Same(t, &src[0], &got[0])
	}
}

func TestResample_ConstantLevel(t *testing.T) {
	t.Parallel()

	src := make([]float32, 480)
	for i := range src {
		src[i] = 0.5
	}

	for _, m := range []Method{MethodFFT, MethodCubic} {
		for _, rate := range []int{16000, 44100, 96000} {
			got, err := Resample(src, 1, 48000, rate, m)
			require.NoError(t, err)
			for i, v := range got {
				require.InDelta(t, 0.5, v, 1e-4, "%s rate %d sample %d", m, rate, i)
			}
		}
	}
}

func TestResample_FFTPreservesTone(t *testing.T) {
	t.Parallel()

	// A whole number of periods is periodic in the window, so the
	// band-limited result is the same tone sampled at the new rate.
	src := sine(4800, 1, 48000, 500)
	got, err := Resample(src, 1, 48000, 16000, MethodFFT)
	require.NoError(t, err)

	want := sine(1600, 1, 16000, 500)
	assert.InDeltaSlice(t, want, got, 1e-3)
}

func TestResample_ChannelsIndependent(t *testing.T) {
	t.Parallel()

	const frames = 4800
	src := make([]float32, 2*frames)
	for f := range frames {
		src[2*f] = 0.25
		src[2*f+1] = -0.75
	}

	for _, m := range allMethods {
		got, err := Resample(src, 2, 24000, 48000, m)
		require.NoError(t, err)
		require.Len(t, got, 2*2*frames)

		// Stay clear of the filter edges.
		for f := 2000; f < 8000; f++ {
			require.InDelta(t, 0.25, got[2*f], 0.05, "%s left %d", m, f)
			require.InDelta(t, -0.75, got[2*f+1], 0.05, "%s right %d", m, f)
		}
	}
}

func TestResample_Errors(t *testing.T) {
	t.Parallel()

	_, err := Resample([]float32{0}, 1, 0, 44100, MethodFFT)
	require.ErrorIs(t, err, ErrInvalidRate)

	_, err = Resample([]float32{0}, 1, 44100, -1, MethodFFT)
	require.ErrorIs(t, err, ErrInvalidRate)

	_, err = Resample([]float32{0, 0, 0}, 2, 8000, 16000, MethodFFT)
	require.ErrorIs(t, err, ErrMisaligned)

	_, err = Resample([]float32{0}, 0, 8000, 16000, MethodFFT)
	require.ErrorIs(t, err, ErrChannels)

	_, err = Resample([]float32{0, 0}, 1, 8000, 16000, Method(99))
	require.ErrorIs(t, err, ErrInvalidMethod)
}

func TestResample_Empty(t *testing.T) {
	t.Parallel()

	for _, m := range allMethods {
		got, err := Resample(nil, 2, 8000, 16000, m)
		require.NoError(t, err)
		assert.Empty(t, got)

		got, err = Resample([]float32{0.1, 0.1}, 2, 48000, 8000, m)
		require.NoError(t, err)
		assert.Empty(t, got)
	}
}

func TestParseMethod(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]Method{
		"":          MethodFFT,
		"FFT":       MethodFFT,
		"polyphase": MethodPolyphase,
		"cubic":     MethodCubic,
	} {
		got, err := ParseMethod(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseMethod("linear")
	require.ErrorIs(t, err, ErrInvalidMethod)

	var m Method
	require.NoError(t, m.UnmarshalText([]byte("cubic")))
	assert.Equal(t, MethodCubic, m)
	b, err := MethodPolyphase.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "polyphase", string(b))
}

func BenchmarkResample(b *testing.B) {
	src := sine(4410, 2, 44100, 440)
	for _, m := range allMethods {
		b.Run(m.String(), func(b *testing.B) {
			b.ReportAllocs()
			for b.Loop() {
				_, _ = Resample(src, 2, 44100, 48000, m)
			}
		})
	}
}
