// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"fmt"

	"github.com/ik5/audmix/pcm"
	"github.com/ik5/audmix/utils"
)

// MixFunc accumulates one source's period into acc. Both slices hold the
// same number of interleaved canonical samples.
type MixFunc func(acc, src []float32)

// Sum adds src to acc without any gain staging. Overflow is left to the
// clipper.
func Sum(acc, src []float32) {
	for i, v := range src {
		acc[i] += v
	}
}

// Mix renders frames frames into out. It satisfies device.Callback.
//
// Every queued source contributes up to frames frames, zero-padded when it
// runs short, and sources whose queue empties are removed. The sum is
// clipped to [-1, 1] and encoded in the output format.
func (m *Mixer) Mix(out []byte, frames int) {
	size := frames * m.out.BytesPerFrame()
	if len(out) < size {
		panic(fmt.Sprintf("mixer: output buffer holds %d bytes, %d frames need %d", len(out), frames, size))
	}
	out = out[:size]

	drained := m.mixLocked(out, frames)
	if m.onDrained != nil {
		for _, id := range drained {
			m.onDrained(id)
		}
	}
}

func (m *Mixer) mixLocked(out []byte, frames int) []TrackID {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.drained = m.drained[:0]
	if len(m.sources) == 0 {
		pcm.Silence(out)
		m.signal.Set()
		return nil
	}

	channels := m.out.Channels
	n := frames * channels
	if cap(m.acc) < n {
		m.acc = make([]float32, n)
		m.scratch = make([]float32, n)
	}
	acc, scratch := m.acc[:n], m.scratch[:n]
	clear(acc)

	for id, s := range m.sources {
		got := s.pull(scratch, frames, channels)
		clear(scratch[got*channels:])
		m.mix(acc, scratch)

		if s.empty() {
			delete(m.sources, id)
			m.drained = append(m.drained, id)
		}
	}
	if len(m.sources) == 0 {
		m.signal.Set()
	}

	for i, v := range acc {
		acc[i] = utils.Clip(v)
	}
	if _, err := pcm.Encode(out, acc, m.out.Format); err != nil {
		panic(fmt.Sprintf("mixer: encode output: %v", err))
	}
	return m.drained
}
