// SPDX-License-Identifier: EPL-2.0

package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ik5/audmix/device/malgo"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List playback devices",
	Long: `List the playback devices known to miniaudio.

Any part of a name can be passed to --device or AUDMIX_OUT_DEVICE.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger(cmd, logLevel())
		list, err := malgo.New(log).Devices()
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "DEFAULT\tNAME")
		for _, d := range list {
			mark := ""
			if d.Default {
				mark = "*"
			}
			fmt.Fprintf(w, "%s\t%s\n", mark, d.Name)
		}
		return w.Flush()
	},
}
