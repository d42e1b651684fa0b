// SPDX-License-Identifier: EPL-2.0

package malgo

import (
	"testing"

	ma "github.com/gen2brain/malgo"
	"github.com/ik5/audmix/device"
	"github.com/ik5/audmix/pcm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleFormat(t *testing.T) {
	t.Parallel()

	f, err := sampleFormat(pcm.Int16)
	require.NoError(t, err)
	assert.Equal(t, ma.FormatS16, f)

	f, err = sampleFormat(pcm.Float32)
	require.NoError(t, err)
	assert.Equal(t, ma.FormatF32, f)

	_, err = sampleFormat(pcm.Invalid)
	require.ErrorIs(t, err, pcm.ErrUnsupportedFormat)
}

func TestOpenRejectsUnknownFormat(t *testing.T) {
	t.Parallel()

	d := New(nil)
	_, err := d.Open(device.StreamConfig{SampleRate: 44100, Channels: 2}, func([]byte, int) {})
	require.ErrorIs(t, err, pcm.ErrUnsupportedFormat)
}

func TestDeviceName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "default", deviceName(nil))
	assert.Equal(t, "USB", deviceName(&device.Info{Name: "USB"}))
}
