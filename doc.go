// SPDX-License-Identifier: EPL-2.0

// Package audmix plays several independent audio streams at once through a
// single output device.
//
// Producers open a Track on a mixer.Mixer and write PCM to it in whatever
// format, channel count and sample rate they have. The mixer converts each
// write to the output format, queues it, and sums every track into the
// device buffer from the device's real-time callback.
//
// # Quick Start
//
//	cfg, _ := config.Load("")
//	m, _ := audmix.New(cfg, slog.Default())
//	defer m.Shutdown()
//
//	music := m.OpenTrack(mixer.WithTrackLabel("music"))
//	_ = audmix.PlayFile(music, "song.mp3")
//
//	voice := m.OpenTrack(mixer.WithTrackLabel("voice"))
//	_ = voice.Write(pcm16, pcm.Int16, 1, 16000)
//
//	m.WaitUntilFinished(0)
//
// # Output Drivers
//
// New picks the driver named by the configuration:
//   - malgo plays through miniaudio and can select a device by name
//   - oto plays through the default device via ebitengine/oto
//   - wav renders the mix into a WAV file
//
// # Decoding Files
//
// DefaultRegistry knows the formats shipped with the module:
//   - WAV (8/16/24/32-bit PCM and 32-bit float) via formats/wav
//   - AIFF via formats/aiff
//   - MP3 via formats/mp3
//   - Ogg Vorbis via formats/vorbis
//
// DecodeFile resolves a decoder from the file extension and returns an
// audio.Source that also closes the file. Convert turns any Source into
// encoded bytes of a given output format without a mixer.
package audmix
