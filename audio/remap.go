// SPDX-License-Identifier: EPL-2.0

package audio

// RemapChannels maps an interleaved buffer from in to out channels.
//
// Equal counts return samples itself. Mono to stereo duplicates, stereo to
// mono averages, more inputs than outputs keeps the leading channels, and
// fewer inputs copies them into the leading slots and zero-fills the rest.
// A trailing partial frame is dropped.
func RemapChannels(samples []float32, in, out int) []float32 {
	if in == out {
		return samples
	}
	frames := len(samples) / in
	dst := make([]float32, frames*out)
	remapInto(dst, samples[:frames*in], in, out)
	return dst
}

// remapInto writes len(src)/in frames into dst, which must hold that many
// frames of out channels.
func remapInto(dst, src []float32, in, out int) {
	frames := len(src) / in

	switch {
	case in == out:
		copy(dst, src)
	case in == 1 && out == 2:
		for f := range frames {
			v := src[f]
			dst[2*f] = v
			dst[2*f+1] = v
		}
	case in == 2 && out == 1:
		for f := range frames {
			dst[f] = (src[2*f] + src[2*f+1]) * 0.5
		}
	case in > out:
		for f := range frames {
			copy(dst[f*out:(f+1)*out], src[f*in:f*in+out])
		}
	default:
		for f := range frames {
			row := dst[f*out : (f+1)*out]
			copy(row, src[f*in:(f+1)*in])
			clear(row[in:])
		}
	}
}
