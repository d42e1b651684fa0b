// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"bytes"
	"errors"
	"io"
	"testing"

	goaudio "github.com/go-audio/audio"
	"github.com/ik5/audmix/audio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockAiffReader simulates the aiff.Decoder for testing.
type mockAiffReader struct {
	samples []int
	offset  int
	err     error
	// eofWithData returns io.EOF together with the last samples instead
	// of a short read.
	eofWithData bool
}

func (m *mockAiffReader) PCMBuffer(buf *goaudio.IntBuffer) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	if m.offset >= len(m.samples) {
		return 0, io.EOF
	}

	n := copy(buf.Data, m.samples[m.offset:])
	m.offset += n
	if m.eofWithData && m.offset >= len(m.samples) {
		return n, io.EOF
	}
	return n, nil
}

func newTestSource(channels, bitDepth int, dec *mockAiffReader) *source {
	return &source{dec: dec, sampleRate: 44100, channels: channels, bitDepth: bitDepth}
}

func TestDecoder_InvalidInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
	}{
		{"garbage", []byte("This is not AIFF data")},
		{"empty", nil},
		{"wav header", []byte("RIFF\x24\x00\x00\x00WAVEfmt ")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Decoder{}.Decode(bytes.NewReader(tt.data))
			require.ErrorIs(t, err, ErrNotAiffFile)
		})
	}
}

func TestSource_Metadata(t *testing.T) {
	t.Parallel()

	src := newTestSource(2, 16, &mockAiffReader{samples: make([]int, 100)})

	assert.Equal(t, 44100, src.SampleRate())
	assert.Equal(t, 2, src.Channels())
	assert.Equal(t, 4096, src.BufSize())
	assert.NoError(t, src.Close())

	odd := newTestSource(3, 16, &mockAiffReader{})
	assert.Zero(t, odd.BufSize()%3)
}

func TestSource_ReadSamples(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		eofWithData bool
	}{
		{"short read marks end", false},
		{"eof with data", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src := newTestSource(1, 16, &mockAiffReader{
				samples:     []int{0, 16384, -16384, 32767, -32768},
				eofWithData: tt.eofWithData,
			})

			dst := make([]float32, 10)
			n, err := src.ReadSamples(dst)
			require.ErrorIs(t, err, io.EOF)
			require.Equal(t, 5, n)

			want := []float32{0, 16384.0 / 32767.0, -0.5, 1, -1}
			for i := range want {
				assert.InDelta(t, want[i], dst[i], 1e-6, "sample %d", i)
			}

			n, err = src.ReadSamples(dst)
			assert.Zero(t, n)
			assert.ErrorIs(t, err, io.EOF)
		})
	}
}

func TestSource_ReadSamples_WholeFrames(t *testing.T) {
	t.Parallel()

	src := newTestSource(2, 16, &mockAiffReader{samples: []int{1, 2, 3, 4, 5, 6, 7, 8}})

	dst := make([]float32, 5)
	n, err := src.ReadSamples(dst)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	n, err = src.ReadSamples(make([]float32, 1))
	assert.Zero(t, n)
	assert.ErrorIs(t, err, audio.ErrInvalidDstSize)
}

func TestSource_ReadSamples_EmptyBuffer(t *testing.T) {
	t.Parallel()

	src := newTestSource(1, 16, &mockAiffReader{samples: []int{1}})

	n, err := src.ReadSamples(nil)
	assert.Zero(t, n)
	assert.NoError(t, err)
}

func TestSource_ReadSamples_Error(t *testing.T) {
	t.Parallel()

	src := newTestSource(1, 16, &mockAiffReader{err: io.ErrUnexpectedEOF})

	_, err := src.ReadSamples(make([]float32, 4))
	require.Error(t, err)
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))
}

func TestSource_MultipleReads(t *testing.T) {
	t.Parallel()

	samples := make([]int, 1000)
	for i := range samples {
		samples[i] = i
	}
	src := newTestSource(2, 16, &mockAiffReader{samples: samples})

	got, err := audio.ReadAll(src)
	require.NoError(t, err)
	assert.Len(t, got, 1000)
	assert.InDelta(t, 999.0/32767.0, got[999], 1e-7)
}

func TestSource_BitDepthNormalization(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		bitDepth int
		input    int
		expected float32
	}{
		{"8-bit max", 8, 127, 1},
		{"8-bit min", 8, -128, -1},
		{"16-bit max", 16, 32767, 1},
		{"16-bit min", 16, -32768, -1},
		{"24-bit max", 24, 8388607, 1},
		{"24-bit half", 24, -4194304, -0.5},
		{"32-bit max", 32, 2147483647, 1},
		{"32-bit min", 32, -2147483648, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src := newTestSource(1, tt.bitDepth, &mockAiffReader{samples: []int{tt.input}})

			dst := make([]float32, 1)
			n, _ := src.ReadSamples(dst)
			require.Equal(t, 1, n)
			assert.InDelta(t, tt.expected, dst[0], 1e-6)
		})
	}
}

func BenchmarkSource_ReadSamples(b *testing.B) {
	samples := make([]int, 44100*2)
	buf := make([]float32, 4096)

	b.ReportAllocs()
	for b.Loop() {
		src := newTestSource(2, 16, &mockAiffReader{samples: samples})
		for {
			if _, err := src.ReadSamples(buf); err != nil {
				break
			}
		}
	}
}
