// SPDX-License-Identifier: EPL-2.0

package audmix

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	goaudio "github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"
	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/config"
	"github.com/ik5/audmix/device/malgo"
	"github.com/ik5/audmix/device/oto"
	"github.com/ik5/audmix/device/wavfile"
	"github.com/ik5/audmix/formats/wav"
	"github.com/ik5/audmix/internal/audiotest"
	"github.com/ik5/audmix/mixer"
	"github.com/ik5/audmix/pcm"
	"github.com/ik5/audmix/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeWAV16 stores frames of value v as a 16-bit WAV file under dir.
func writeWAV16(t *testing.T, dir string, rate, channels, frames int, v float32) string {
	t.Helper()

	path := filepath.Join(dir, "in.wav")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	data := make([]int, frames*channels)
	for i := range data {
		data[i] = int(utils.Float32ToInt16(v))
	}

	enc := gowav.NewEncoder(f, rate, 16, channels, 1)
	require.NoError(t, enc.Write(&goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: channels, SampleRate: rate},
		Data:           data,
		SourceBitDepth: 16,
	}))
	require.NoError(t, enc.Close())
	return path
}

func TestNewDriver(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		output      config.Output
		wantSel     bool
		checkDriver func(t *testing.T, d any)
	}{
		{
			name:    "malgo",
			output:  config.Output{Driver: config.DriverMalgo},
			wantSel: true,
			checkDriver: func(t *testing.T, d any) {
				assert.IsType(t, &malgo.Driver{}, d)
			},
		},
		{
			name:   "oto",
			output: config.Output{Driver: config.DriverOto},
			checkDriver: func(t *testing.T, d any) {
				assert.IsType(t, &oto.Driver{}, d)
			},
		},
		{
			name:   "wav",
			output: config.Output{Driver: config.DriverWAV, WAVPath: "out.wav", Realtime: true},
			checkDriver: func(t *testing.T, d any) {
				w, ok := d.(*wavfile.Driver)
				require.True(t, ok)
				assert.Equal(t, "out.wav", w.Path)
				assert.True(t, w.Realtime)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			drv, sel, err := NewDriver(tt.output, nil)
			require.NoError(t, err)
			tt.checkDriver(t, drv)
			assert.Equal(t, tt.wantSel, sel != nil)
		})
	}

	_, _, err := NewDriver(config.Output{Driver: "pulse"}, nil)
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestNew_InvalidConfig(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Output.Channels = 0

	m, err := New(cfg, nil)
	assert.Nil(t, m)
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestNew_RendersToWAV(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg := config.Default()
	cfg.Output.Driver = config.DriverWAV
	cfg.Output.WAVPath = filepath.Join(dir, "mix.wav")
	cfg.Output.Realtime = true
	cfg.Output.Channels = 1
	cfg.Output.Rate = 8000
	cfg.Output.Format = pcm.Int16
	cfg.Output.PeriodFrames = 256

	m, err := New(cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, cfg.Canonical(), m.Format())

	tr := m.OpenTrack(mixer.WithTrackLabel("tone"))
	require.NoError(t, tr.WriteFloat32(audiotest.Constant(800, 0.5), 1, 8000))
	require.True(t, m.WaitUntilFinished(5*time.Second))
	require.NoError(t, m.Shutdown())

	f, err := os.Open(cfg.Output.WAVPath)
	require.NoError(t, err)
	defer f.Close()
	buf, err := gowav.NewDecoder(f).FullPCMBuffer()
	require.NoError(t, err)

	want := int(utils.Float32ToInt16(0.5))
	count := 0
	for _, v := range buf.Data {
		if v == want {
			count++
		}
	}
	assert.Equal(t, 800, count)
}

func TestDefaultRegistry(t *testing.T) {
	t.Parallel()

	r := DefaultRegistry()
	assert.Same(t, r, DefaultRegistry())
	assert.Equal(t, []string{"aiff", "mp3", "vorbis", "wav"}, r.Formats())

	tests := []struct {
		path   string
		format string
	}{
		{"a.wav", "wav"},
		{"b.WAVE", "wav"},
		{"c.aif", "aiff"},
		{"d.aiff", "aiff"},
		{"e.mp3", "mp3"},
		{"f.OGG", "vorbis"},
		{"g.oga", "vorbis"},
	}
	for _, tt := range tests {
		format, dec, err := r.ForPath(tt.path)
		require.NoError(t, err, tt.path)
		assert.Equal(t, tt.format, format, tt.path)
		assert.NotNil(t, dec)
	}
}

func TestDecodeFile(t *testing.T) {
	t.Parallel()

	path := writeWAV16(t, t.TempDir(), 16000, 2, 100, 0.25)

	src, err := DecodeFile(path)
	require.NoError(t, err)
	assert.Equal(t, 16000, src.SampleRate())
	assert.Equal(t, 2, src.Channels())

	samples, err := audio.ReadAll(src)
	require.NoError(t, err)
	require.Len(t, samples, 200)
	assert.InDelta(t, 0.25, samples[0], 1e-4)
	require.NoError(t, src.Close())

	// The file is closed along with the source.
	fs, ok := src.(*fileSource)
	require.True(t, ok)
	assert.ErrorIs(t, fs.f.Close(), os.ErrClosed)
}

func TestDecodeFile_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	garbage := filepath.Join(dir, "noise.wav")
	require.NoError(t, os.WriteFile(garbage, []byte("definitely not a riff file"), 0o644))

	tests := []struct {
		name string
		path string
		want error
	}{
		{"unknown extension", filepath.Join(dir, "a.flac"), audio.ErrUnknownFormat},
		{"missing file", filepath.Join(dir, "missing.mp3"), os.ErrNotExist},
		{"bad content", garbage, wav.ErrNotWavFile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src, err := DecodeFile(tt.path)
			assert.Nil(t, src)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestPlayFile(t *testing.T) {
	t.Parallel()

	path := writeWAV16(t, t.TempDir(), 16000, 1, 1600, 0.5)

	drv := audiotest.NewManualDriver()
	m, err := mixer.New(pcm.Canonical{Channels: 2, SampleRate: 8000, Format: pcm.Float32}, drv)
	require.NoError(t, err)
	defer m.Shutdown()

	tr := m.OpenTrack()
	require.NoError(t, PlayFile(tr, path))

	_, frames := tr.Queued()
	assert.InDelta(t, 800, frames, 4)
	assert.True(t, drv.Started())

	out, err := drv.Tick(256)
	require.NoError(t, err)
	got, err := pcm.Decode(out, pcm.Float32)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, got[200], 1e-3)
	assert.InDelta(t, 0.5, got[201], 1e-3)

	assert.Error(t, PlayFile(tr, filepath.Join(t.TempDir(), "nope.wav")))
}

func TestConvert(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		method audio.Method
	}{
		{"fft", audio.MethodFFT},
		{"polyphase", audio.MethodPolyphase},
		{"cubic", audio.MethodCubic},
	}

	out := pcm.Canonical{Channels: 2, SampleRate: 8000, Format: pcm.Int16}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src := audiotest.NewConstantSource(16000, 1, 1600, 0.5)
			data, err := Convert(src, out, tt.method)
			require.NoError(t, err)
			require.Len(t, data, 800*out.BytesPerFrame())

			got, err := pcm.Decode(data, pcm.Int16)
			require.NoError(t, err)
			// Both channels carry the mono input; check away from the edges.
			assert.InDelta(t, 0.5, got[800], 0.02)
			assert.Equal(t, got[800], got[801])
		})
	}
}

func TestConvert_Errors(t *testing.T) {
	t.Parallel()

	src := audiotest.NewConstantSource(16000, 1, 16, 0.5)
	_, err := Convert(src, pcm.Canonical{Channels: 0, SampleRate: 8000, Format: pcm.Int16}, audio.MethodFFT)
	var fe *pcm.FormatError
	assert.True(t, errors.As(err, &fe))

	src = audiotest.NewConstantSource(16000, 1, 16, 0.5)
	_, err = Convert(src, pcm.Canonical{Channels: 1, SampleRate: 8000, Format: pcm.Int16}, audio.Method(7))
	assert.ErrorIs(t, err, audio.ErrInvalidMethod)
}
