// SPDX-License-Identifier: EPL-2.0

package audmix

import (
	"fmt"

	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/pcm"
)

// Convert drains src and returns it encoded in out: resampled with method,
// remapped to out.Channels, then encoded as out.Format. It does not close
// src.
//
// This is the offline counterpart of writing src to a mixer track; use it
// when the whole result is wanted in memory.
func Convert(src audio.Source, out pcm.Canonical, method audio.Method) ([]byte, error) {
	if err := out.Validate(); err != nil {
		return nil, err
	}

	samples, err := audio.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}

	channels := src.Channels()
	samples, err = audio.Resample(samples, channels, src.SampleRate(), out.SampleRate, method)
	if err != nil {
		return nil, fmt.Errorf("resample %d -> %d: %w", src.SampleRate(), out.SampleRate, err)
	}
	samples = audio.RemapChannels(samples, channels, out.Channels)

	data := make([]byte, len(samples)*out.Format.BytesPerSample())
	if _, err := pcm.Encode(data, samples, out.Format); err != nil {
		return nil, err
	}
	return data, nil
}
