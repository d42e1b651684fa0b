// SPDX-License-Identifier: EPL-2.0

package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ik5/audmix"
	"github.com/ik5/audmix/config"
	"github.com/ik5/audmix/device/wavfile"
	"github.com/ik5/audmix/mixer"
)

var (
	renderTiming   string
	renderOutput   string
	renderRealtime bool
)

var renderCmd = &cobra.Command{
	Use:   "render -o out.wav [file[@offset_ms]]...",
	Short: "Mix files into a WAV file",
	Long: `Mix files into a WAV file in the configured output format.

Offsets are rendered as leading silence, so the result does not depend on
scheduling. Rendering runs as fast as possible unless --realtime is given.

Example:
  audmix render -o mix.wav --timing song/timing.txt
  AUDMIX_OUT_FORMAT=int16 audmix render -o mix.wav a.wav b.ogg@500`,
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringVarP(&renderTiming, "timing", "t", "", "timing file with \"path offset_ms\" lines")
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "output WAV file (required)")
	renderCmd.Flags().BoolVar(&renderRealtime, "realtime", false, "pace rendering at playback speed")
}

func runRender(cmd *cobra.Command, args []string) error {
	if renderOutput == "" {
		return errors.New("output file is required, use -o flag")
	}
	cues, err := collectCues(renderTiming, args)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.Output.Driver = config.DriverWAV
	cfg.Output.WAVPath = renderOutput
	cfg.Output.Realtime = renderRealtime
	if err := cfg.Validate(); err != nil {
		return err
	}
	log := newLogger(cmd, cfg.Log.Level)

	gate := make(chan struct{})
	drv := &wavfile.Driver{Path: renderOutput, Realtime: renderRealtime, Gate: gate, Log: log}
	m, err := mixer.New(cfg.Canonical(), drv, audmix.Options(cfg, log)...)
	if err != nil {
		return err
	}
	drv.Until = m.Signal().IsSet

	if err := m.Start(); err != nil {
		return err
	}
	if err := queueCues(m, cues); err != nil {
		return errors.Join(err, m.Shutdown())
	}
	close(gate)

	m.WaitUntilFinished(0)
	if err := m.Shutdown(); err != nil {
		return fmt.Errorf("render %s: %w", renderOutput, err)
	}
	log.Info("rendered", "path", renderOutput, "tracks", len(cues), "output", m.Format().String())
	return nil
}

// queueCues writes every cue on its own track, led by silence for its
// offset.
func queueCues(m *mixer.Mixer, cues []cue) error {
	out := m.Format()
	for _, c := range cues {
		tr := m.OpenTrack(mixer.WithTrackLabel(c.label()))
		if frames := out.FramesInDuration(c.Offset); frames > 0 {
			silence := make([]float32, frames*out.Channels)
			if err := tr.WriteFloat32(silence, out.Channels, out.SampleRate); err != nil {
				return err
			}
		}
		if err := audmix.PlayFile(tr, c.Path); err != nil {
			return err
		}
	}
	return nil
}
