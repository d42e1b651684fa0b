// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis streams into an audio.Source using
// github.com/jfreymuth/oggvorbis.
//
// Vorbis decodes straight to float32, so samples reach the caller without
// conversion and may slightly exceed [-1, 1]; the mixer clips its output.
// Any channel count and sample rate is reported as found in the stream.
//
//	f, _ := os.Open("music.ogg")
//	src, err := vorbis.Decoder{}.Decode(f)
//	if errors.Is(err, vorbis.ErrNotVorbisFile) {
//	    // not an Ogg Vorbis stream
//	}
package vorbis
