// SPDX-License-Identifier: EPL-2.0

// Package pcm converts raw interleaved PCM buffers to and from the mixer's
// canonical float32 representation.
//
// A SampleFormat is decided at the call boundary and never inferred from the
// data:
//
//	samples, err := pcm.Decode(raw, pcm.Int16)
//	if errors.Is(err, pcm.ErrUnsupportedFormat) {
//	    // caller declared a format the engine does not know
//	}
//
// Int16 input is scaled by its true signed range, so the most negative value
// maps to exactly -1.0. Float32 input is passed through untouched; values
// outside [-1, 1] survive until the mixer clips its output.
//
// Canonical describes the fixed output configuration of an engine (channel
// count, sample rate and device sample format).
package pcm
