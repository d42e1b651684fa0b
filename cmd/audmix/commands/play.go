// SPDX-License-Identifier: EPL-2.0

package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/ik5/audmix"
	"github.com/ik5/audmix/mixer"
)

// startDelay gives every track goroutine time to reach its wait before the
// shared start time.
const startDelay = 100 * time.Millisecond

var (
	playTiming string
	playDevice string
	playDriver string
)

var playCmd = &cobra.Command{
	Use:   "play [file[@offset_ms]]...",
	Short: "Play files through the output device",
	Long: `Play files mixed together through the configured output device.

Each file is played on its own track by its own goroutine, which waits for
the file's offset and then queues the whole file. The command returns once
everything has been played, or on interrupt.

Example:
  audmix play --timing song/timing.txt
  audmix play --device USB bass.wav drums.wav@250`,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVarP(&playTiming, "timing", "t", "", "timing file with \"path offset_ms\" lines")
	playCmd.Flags().StringVarP(&playDevice, "device", "d", "", "output device name fragment (overrides config)")
	playCmd.Flags().StringVar(&playDriver, "driver", "", "output driver: malgo, oto or wav (overrides config)")
}

func runPlay(cmd *cobra.Command, args []string) error {
	cues, err := collectCues(playTiming, args)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if playDevice != "" {
		cfg.Output.Device = playDevice
	}
	if playDriver != "" {
		cfg.Output.Driver = playDriver
	}
	log := newLogger(cmd, cfg.Log.Level)

	m, err := audmix.New(cfg, log)
	if err != nil {
		return err
	}
	defer m.Shutdown()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	log.Info("playing", "tracks", len(cues), "output", m.Format().String())
	if err := scheduleCues(ctx, m, cues, time.Now().Add(startDelay), log); err != nil {
		return err
	}
	log.Debug("all tracks queued")

	if !m.Wait(ctx) {
		log.Info("interrupted")
		return nil
	}
	log.Info("playback finished")
	return nil
}

// scheduleCues starts one goroutine per cue; each waits until start plus
// its offset and plays the file on its own track. It returns when every
// file has been queued or ctx is done.
func scheduleCues(ctx context.Context, m *mixer.Mixer, cues []cue, start time.Time, log *slog.Logger) error {
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for _, c := range cues {
		tr := m.OpenTrack(mixer.WithTrackLabel(c.label()))
		wg.Go(func() {
			log.Debug("track waiting", "track", tr.Label(), "offset", c.Offset)
			timer := time.NewTimer(time.Until(start.Add(c.Offset)))
			defer timer.Stop()
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			}

			log.Info("track playing", "track", tr.Label(), "path", c.Path)
			if err := audmix.PlayFile(tr, c.Path); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("track %s: %w", tr.Label(), err))
				mu.Unlock()
			}
		})
	}
	wg.Wait()
	return errors.Join(errs...)
}
