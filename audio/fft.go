// SPDX-License-Identifier: EPL-2.0

package audio

import "gonum.org/v1/gonum/dsp/fourier"

// resampleFFT truncates or zero-pads the real spectrum of every channel and
// transforms it back at the target length. For even lengths the Nyquist bin
// is doubled when shrinking and halved when growing, and the result is
// scaled by outFrames/inFrames, so a constant signal keeps its level.
func resampleFFT(samples []float32, channels, inFrames, outFrames int) []float32 {
	out := make([]float32, outFrames*channels)

	if inFrames == 1 {
		for f := range outFrames {
			copy(out[f*channels:(f+1)*channels], samples[:channels])
		}
		return out
	}

	fwd := fourier.NewFFT(inFrames)
	var inv *fourier.FFT
	if outFrames > 1 {
		inv = fourier.NewFFT(outFrames)
	}

	n := min(inFrames, outFrames)
	seq := make([]float64, inFrames)
	coeff := make([]complex128, inFrames/2+1)
	spec := make([]complex128, outFrames/2+1)
	res := make([]float64, outFrames)
	scale := 1 / float64(inFrames)

	for c := range channels {
		deinterleave(seq, samples, channels, c)
		coeff = fwd.Coefficients(coeff, seq)

		clear(spec)
		copy(spec[:n/2+1], coeff[:n/2+1])
		if n%2 == 0 {
			switch {
			case outFrames < inFrames:
				spec[n/2] *= 2
			case outFrames > inFrames:
				spec[n/2] *= 0.5
			}
		}

		if inv == nil {
			res[0] = real(spec[0])
		} else {
			res = inv.Sequence(res, spec)
		}
		for f := range outFrames {
			out[f*channels+c] = float32(res[f] * scale)
		}
	}
	return out
}
