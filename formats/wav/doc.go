// SPDX-License-Identifier: EPL-2.0

// Package wav decodes RIFF/WAVE files into an audio.Source.
//
// Parsing is done by github.com/go-audio/wav. Supported encodings:
//   - integer PCM at 8 (unsigned), 16, 24 and 32 bits
//   - IEEE float at 32 bits
//   - any channel count and sample rate
//
// Integer samples are scaled asymmetrically, dividing positive values by
// the largest positive code and the rest by its magnitude plus one, so
// full scale maps to exactly ±1.0. Float samples are passed through.
//
// The decoder reads only the data chunk; trailing chunks such as LIST
// are ignored. Inputs that are not an io.ReadSeeker are buffered in
// memory first.
//
//	f, _ := os.Open("speech.wav")
//	defer f.Close()
//	src, err := wav.Decoder{}.Decode(f)
//	if errors.Is(err, wav.ErrNotWavFile) {
//	    // not a WAV file
//	}
package wav
