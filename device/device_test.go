// SPDX-License-Identifier: EPL-2.0

package device

import (
	"errors"
	"testing"

	"github.com/ik5/audmix/pcm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindByName(t *testing.T) {
	t.Parallel()

	list := []Info{
		{Name: "HDMI Output", ID: 1},
		{Name: "Built-in Speakers", Default: true, ID: 2},
		{Name: "USB Headset", ID: 3},
	}

	tests := []struct {
		name     string
		fragment string
		wantID   int
		wantErr  error
	}{
		{name: "empty picks default", fragment: "", wantID: 2},
		{name: "blank picks default", fragment: "  ", wantID: 2},
		{name: "case insensitive substring", fragment: "headSET", wantID: 3},
		{name: "first match wins", fragment: "o", wantID: 1},
		{name: "no match", fragment: "bluetooth", wantErr: ErrNoDevice},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := FindByName(list, tt.fragment)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, got.ID)
		})
	}
}

func TestFindByName_NoDefaultFlag(t *testing.T) {
	t.Parallel()

	got, err := FindByName([]Info{{Name: "a"}, {Name: "b"}}, "")
	require.NoError(t, err)
	assert.Equal(t, "a", got.Name)

	_, err = FindByName(nil, "")
	require.ErrorIs(t, err, ErrNoDevice)
}

func TestDeviceError(t *testing.T) {
	t.Parallel()

	cause := errors.New("device busy")
	err := Wrap("open", cause)

	var de *DeviceError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "open", de.Op)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "device: open: device busy", err.Error())

	assert.Same(t, de, Wrap("start", err).(*DeviceError))
	assert.NoError(t, Wrap("start", nil))
}

func TestStreamConfigCanonical(t *testing.T) {
	t.Parallel()

	cfg := StreamConfig{SampleRate: 48000, Channels: 2, Format: pcm.Int16, PeriodFrames: 256}
	assert.Equal(t, pcm.Canonical{Channels: 2, SampleRate: 48000, Format: pcm.Int16}, cfg.Canonical())
	assert.Equal(t, "Speakers (default)", Info{Name: "Speakers", Default: true}.String())
}
