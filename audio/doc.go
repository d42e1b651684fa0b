// SPDX-License-Identifier: EPL-2.0

// Package audio provides the sample-level building blocks used by the mixer
// and the file decoders.
//
// # Buffers
//
// Whole interleaved buffers are converted with two functions:
//
//	stereo := audio.RemapChannels(mono, 1, 2)
//	out, err := audio.Resample(stereo, 2, 22050, 44100, audio.MethodFFT)
//
// RemapChannels duplicates mono into stereo, averages stereo into mono,
// drops trailing channels when narrowing and zero-fills when widening.
//
// Resample always returns exactly floor(frames * outRate / inRate) frames.
// MethodFFT is band-limited Fourier resampling, MethodPolyphase runs a
// polyphase FIR bank, and MethodCubic is plain Catmull-Rom interpolation.
//
// # Source Interface
//
// Streams are read through Source:
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []float32) (int, error)
//	    BufSize() int
//	    Close() error
//	}
//
// Decoders return Sources, and Resampler and ChannelMapper wrap them:
//
//	src = audio.NewChannelMapper(audio.NewResampler(src, 48000), 2)
//
// ReadSamples returns io.EOF once the stream is finished, possibly together
// with the final samples.
//
// # Format Registry
//
// Decoders are registered by format key and file extension:
//
//	registry := audio.NewRegistry()
//	registry.Register("wav", wav.Decoder{}, ".wav", ".wave")
//	format, dec, err := registry.ForPath("alert.wav")
//
// Samples are float32 in [-1.0, 1.0] everywhere in this package.
package audio
