// SPDX-License-Identifier: EPL-2.0

// Package mixer is a real-time mixing engine: many producers write audio
// through Track handles and a device driver pulls the mixed result once per
// period.
//
//	m, err := mixer.New(pcm.Canonical{Channels: 2, SampleRate: 44100, Format: pcm.Float32}, drv)
//	if err != nil {
//	    return err
//	}
//	defer m.Shutdown()
//
//	music := m.OpenTrack(mixer.WithTrackLabel("music"))
//	if err := music.Write(raw, pcm.Int16, 2, 48000); err != nil {
//	    return err
//	}
//	m.WaitUntilFinished(0)
//
// Every write is converted to the mixer's canonical format before it is
// queued: samples are scaled to float32, resampled to the output rate and
// remapped to the output channel count. Each Track owns one FIFO queue;
// queues of different tracks are summed sample by sample and the sum is
// clipped to [-1, 1] before it is encoded for the device.
//
// The output stream is opened lazily by the first non-empty write, or
// explicitly with Start, and closed by Shutdown.
//
// Mix is the device callback. It holds the registry lock for one pass over
// the queued sources, does not allocate once its buffers have grown to the
// period size, and never logs.
package mixer
