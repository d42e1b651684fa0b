// SPDX-License-Identifier: EPL-2.0

package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ik5/audmix/config"
)

var (
	// Global flags
	verbose    bool
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "audmix",
	Short: "Mix and play several audio streams at once",
	Long: `audmix - mix independent audio streams into one output.

Every file gets its own track. Tracks may differ in format, channel count
and sample rate; they are converted to the output format and summed.

Supported inputs: WAV, AIFF, MP3 and Ogg Vorbis.

The output is configured with a YAML file (--config) and the environment:
  AUDMIX_OUT_DRIVER    malgo | oto | wav
  AUDMIX_OUT_DEVICE    output device name fragment
  AUDMIX_OUT_CHANNELS  output channel count
  AUDMIX_OUT_RATE      output sample rate in Hz
  AUDMIX_OUT_FORMAT    int16 | float32

Examples:
  # Play two files, the second one 1.5s after the first
  audmix play drums.wav vocals.mp3@1500

  # Render a timed arrangement to a file
  audmix render --timing song/timing.txt -o song.wav`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "configuration file (YAML)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(devicesCmd)
}

// loadConfig reads --config and the environment.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.Log.Level = slog.LevelDebug
	}
	return cfg, nil
}

// logLevel is used by commands that run without a configuration.
func logLevel() slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// newLogger writes text records to the command's stderr.
func newLogger(cmd *cobra.Command, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}
