// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MPEG Layer III streams into an audio.Source using
// github.com/hajimehoshi/go-mp3.
//
// go-mp3 always produces 16-bit stereo, even for mono files, so the source
// reports two channels. Samples are scaled asymmetrically: positive values
// by 1/32767 and the rest by 1/32768.
//
// Wrap the source to change its layout or rate:
//
//	src, _ := mp3.Decoder{}.Decode(f)
//	mono := audio.NewChannelMapper(audio.NewResampler(src, 16000), 1)
//
// Decode fails with ErrNotMP3File when no frame header can be found.
package mp3
