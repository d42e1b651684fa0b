// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRemapChannels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in, out int
		src     []float32
		want    []float32
	}{
		{
			name: "mono to stereo duplicates",
			in:   1, out: 2,
			src:  []float32{0.1, -0.2, 0.3},
			want: []float32{0.1, 0.1, -0.2, -0.2, 0.3, 0.3},
		},
		{
			name: "stereo to mono averages",
			in:   2, out: 1,
			src:  []float32{0.2, 0.4, -1, 1},
			want: []float32{0.3, 0},
		},
		{
			name: "surround to stereo truncates",
			in:   6, out: 2,
			src:  []float32{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12},
			want: []float32{1, 2, 7, 8},
		},
		{
			name: "quad to mono keeps first channel",
			in:   4, out: 1,
			src:  []float32{0.5, 0.1, 0.1, 0.1},
			want: []float32{0.5},
		},
		{
			name: "stereo to quad zero fills",
			in:   2, out: 4,
			src:  []float32{1, 2, 3, 4},
			want: []float32{1, 2, 0, 0, 3, 4, 0, 0},
		},
		{
			name: "mono to surround zero fills",
			in:   1, out: 3,
			src:  []float32{0.7},
			want: []float32{0.7, 0, 0},
		},
		{
			name: "partial frame dropped",
			in:   2, out: 1,
			src:  []float32{1, 1, 0.5},
			want: []float32{1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := RemapChannels(tt.src, tt.in, tt.out)
			assert.InDeltaSlice(t, tt.want, got, 1e-6)
		})
	}
}

func TestRemapChannels_IdentityReturnsInput(t *testing.T) {
	t.Parallel()

	src := []float32{1, 2, 3, 4}
	got := RemapChannels(src, 2, 2)
	assert.Same(t, &src[0], &got[0])
}

func TestRemapChannels_MonoStereoRoundTrip(t *testing.T) {
	t.Parallel()

	mono := make([]float32, 1000)
	for i := range mono {
		mono[i] = float32(i%200)/100 - 1
	}

	back := RemapChannels(RemapChannels(mono, 1, 2), 2, 1)
	assert.Equal(t, mono, back)
}
