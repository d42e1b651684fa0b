// SPDX-License-Identifier: EPL-2.0

package audio

import "github.com/ik5/audmix/utils"

// resampleCubic maps every output frame back onto the input timeline and
// interpolates between its four neighbours, clamping at the edges.
func resampleCubic(samples []float32, channels, inFrames, outFrames int) []float32 {
	out := make([]float32, outFrames*channels)
	step := float64(inFrames) / float64(outFrames)

	at := func(f, c int) float32 {
		f = max(0, min(f, inFrames-1))
		return samples[f*channels+c]
	}

	for f := range outFrames {
		pos := float64(f) * step
		i := int(pos)
		x := float32(pos - float64(i))
		for c := range channels {
			out[f*channels+c] = utils.CubicInterpolate(at(i-1, c), at(i, c), at(i+1, c), at(i+2, c), x)
		}
	}
	return out
}
