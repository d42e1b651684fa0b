// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes AIFF (Audio Interchange File Format) files into an
// audio.Source using github.com/go-audio/aiff.
//
// # Supported Formats
//
//   - signed PCM at 8, 16, 24 and 32 bits
//   - any channel count and sample rate
//   - AIFF-C (compressed) is not supported
//
// Samples are normalized to [-1, 1] with the same asymmetric scaling as
// the other decoders, so full-scale negative codes map to exactly -1.0.
//
// # AIFF vs. WAV
//
// AIFF stores samples big-endian and its sample rate as an 80-bit float;
// go-audio hides both. Inputs that are not an io.ReadSeeker are read into
// memory before decoding.
//
// # Errors
//
//   - ErrNotAiffFile: the input has no FORM/AIFF container
//   - ErrUnsupportedBitDepth: sample size outside 8/16/24/32
//   - ErrUnsupportedAiffLayout: COMM chunk without channels or rate
//
// File extensions are usually .aif and .aiff.
package aiff
