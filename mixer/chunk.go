// SPDX-License-Identifier: EPL-2.0

package mixer

import "fmt"

// chunk is an immutable block of interleaved canonical samples.
type chunk struct {
	samples  []float32
	channels int
}

func (c chunk) frames() int { return len(c.samples) / c.channels }

// source is the FIFO queue of one track. It is only touched under the
// mixer's registry lock.
type source struct {
	id     TrackID
	queue  []chunk
	frames int
}

func (s *source) push(c chunk) {
	s.queue = append(s.queue, c)
	s.frames += c.frames()
}

func (s *source) empty() bool { return len(s.queue) == 0 }

// pull copies up to frames frames from the head of the queue into dst and
// returns how many it copied. A partially consumed head is replaced by its
// remainder.
func (s *source) pull(dst []float32, frames, channels int) int {
	got := 0
	for got < frames && len(s.queue) > 0 {
		head := &s.queue[0]
		if head.channels != channels {
			panic(fmt.Sprintf("mixer: queued chunk has %d channels, engine has %d", head.channels, channels))
		}

		avail := head.frames()
		take := min(frames-got, avail)
		copy(dst[got*channels:], head.samples[:take*channels])
		got += take

		if take == avail {
			s.queue[0] = chunk{}
			s.queue = s.queue[1:]
			continue
		}
		head.samples = head.samples[take*channels:]
	}
	s.frames -= got
	return got
}
