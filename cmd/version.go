// SPDX-License-Identifier: MIT
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"harp/pkg/build"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version and build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			info := build.GetBuildFlags()
			name := info.Name
			if name == "unknown" {
				name = "harp"
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s %s\n", name, info.Version)
			fmt.Fprintf(w, "commit %s, built %s\n", info.Commit, info.Time)
			fmt.Fprintf(w, "build id %s\n", info.Uuid)
		},
	}
}
