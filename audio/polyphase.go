// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"

	resampling "github.com/tphakala/go-audio-resampling"
)

// resamplePolyphase runs one mono filter bank per channel.
func resamplePolyphase(samples []float32, channels, inRate, outRate, outFrames int) ([]float32, error) {
	inFrames := len(samples) / channels
	out := make([]float32, outFrames*channels)
	input := make([]float64, inFrames)

	for c := range channels {
		r, err := resampling.New(&resampling.Config{
			InputRate:  float64(inRate),
			OutputRate: float64(outRate),
			Channels:   1,
			Quality:    resampling.QualitySpec{Preset: resampling.QualityHigh},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create resampler: %w", err)
		}

		deinterleave(input, samples, channels, c)
		output, err := r.Process(input)
		if err != nil {
			return nil, fmt.Errorf("resample error: %w", err)
		}
		tail, err := r.Flush()
		if err != nil {
			return nil, fmt.Errorf("resample flush: %w", err)
		}
		output = append(output, tail...)

		for f, v := range fitFrames(output, outFrames) {
			out[f*channels+c] = v
		}
	}
	return out, nil
}

// fitFrames truncates or pads a mono buffer to exactly frames samples.
// Padding holds the last produced sample, or silence when nothing was
// produced.
func fitFrames(src []float64, frames int) []float32 {
	out := make([]float32, frames)
	have := min(len(src), frames)
	for i := range have {
		out[i] = float32(src[i])
	}
	if have == 0 {
		return out
	}
	last := out[have-1]
	for i := have; i < frames; i++ {
		out[i] = last
	}
	return out
}
