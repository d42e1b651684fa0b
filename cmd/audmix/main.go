// SPDX-License-Identifier: EPL-2.0

// Command audmix plays or renders several audio files mixed together.
//
// Usage:
//
//	audmix [flags] <command> [args]
//
// Commands:
//
//	play     - play files through the configured output device
//	render   - mix files into a WAV file
//	devices  - list playback devices
//
// Files are given as path[@offset_ms], or listed in a timing file with one
// "path offset_ms" pair per line.
package main

import (
	"fmt"
	"os"

	"github.com/ik5/audmix/cmd/audmix/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
