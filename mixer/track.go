// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/pcm"
)

// TrackID identifies one source queue.
type TrackID uuid.UUID

func (id TrackID) String() string { return uuid.UUID(id).String() }

// Track is a producer handle. Writes through one Track are played in order;
// different Tracks are independent sources that are mixed together.
//
// A Track is safe for concurrent use, although concurrent writes through
// the same Track enqueue in whatever order they take the lock.
type Track struct {
	id    TrackID
	label string
	m     *Mixer
}

func (t *Track) ID() TrackID    { return t.id }
func (t *Track) Label() string  { return t.label }
func (t *Track) Mixer() *Mixer  { return t.m }
func (t *Track) String() string { return t.label + "/" + t.id.String() }

// Write queues raw PCM of the given format, channel count and rate.
func (t *Track) Write(data []byte, f pcm.SampleFormat, channels, rate int) error {
	return t.m.Write(t, data, f, channels, rate)
}

// WriteFloat32 queues interleaved float samples. samples is copied.
func (t *Track) WriteFloat32(samples []float32, channels, rate int) error {
	return t.m.WriteFloat32(t, samples, channels, rate)
}

// WriteSource reads src to the end and queues it in blocks of blockFrames
// output frames. It converts with the streaming cubic resampler and does
// not close src.
func (t *Track) WriteSource(src audio.Source, blockFrames int) error {
	out := t.m.out
	if blockFrames <= 0 {
		blockFrames = t.m.periodFrames
	}

	var conv audio.Source = src
	if src.SampleRate() != out.SampleRate {
		conv = audio.NewResampler(conv, out.SampleRate)
	}
	if src.Channels() != out.Channels {
		conv = audio.NewChannelMapper(conv, out.Channels)
	}

	buf := make([]float32, blockFrames*out.Channels)
	for {
		n, err := conv.ReadSamples(buf)
		if n > 0 {
			block := make([]float32, n)
			copy(block, buf[:n])
			if werr := t.m.enqueue(t, block); werr != nil {
				return werr
			}
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read source: %w", err)
		}
		if n == 0 {
			return nil
		}
	}
}

// Queued reports the chunks and frames still waiting for this track.
func (t *Track) Queued() (chunks, frames int) {
	return t.m.queued(t.id)
}
