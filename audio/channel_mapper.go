// SPDX-License-Identifier: EPL-2.0

package audio

import "fmt"

// ChannelMapper streams src with its channel count mapped to a fixed
// output count using the same rules as RemapChannels.
type ChannelMapper struct {
	src Source
	out int
	tmp []float32
}

func NewChannelMapper(src Source, channels int) *ChannelMapper {
	return &ChannelMapper{
		src: src,
		out: channels,
		tmp: make([]float32, 4096),
	}
}

func (m *ChannelMapper) SampleRate() int { return m.src.SampleRate() }
func (m *ChannelMapper) Channels() int   { return m.out }
func (m *ChannelMapper) BufSize() int    { return m.src.BufSize() }
func (m *ChannelMapper) Close() error {
	err := m.src.Close()
	if err != nil {
		return fmt.Errorf("%w", err)
	}

	return nil
}

// ReadSamples fills dst with whole output frames. dst length should be a
// multiple of Channels.
func (m *ChannelMapper) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}
	if len(dst)%m.out != 0 {
		return 0, ErrInvalidDstSize
	}
	in := m.src.Channels()
	if in == m.out {
		return m.src.ReadSamples(dst)
	}

	frames := len(dst) / m.out
	samplesNeeded := frames * in

	// Grow tmp buffer if needed (but don't shrink to avoid thrashing)
	if cap(m.tmp) < samplesNeeded {
		newCap := max(samplesNeeded, 8192)
		m.tmp = make([]float32, newCap)
	}
	m.tmp = m.tmp[:samplesNeeded]

	n, err := m.src.ReadSamples(m.tmp)
	if n == 0 {
		return 0, err
	}
	got := n / in
	remapInto(dst[:got*m.out], m.tmp[:got*in], in, m.out)

	return got * m.out, err
}
