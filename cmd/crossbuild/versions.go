package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"crossbuild/pkg/mirror"
	"crossbuild/pkg/source"
)

var versionsCmd = &cobra.Command{
	Use:       "versions <binutils|gcc|gdb>",
	Short:     "List the tool releases published on the GNU mirror",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"binutils", "gcc", "gdb"},
	RunE: func(cmd *cobra.Command, args []string) error {
		tool := args[0]

		pinned := ""
		for _, t := range source.Defaults() {
			if t.Name == tool {
				pinned = t.Version
			}
		}
		if pinned == "" {
			return fmt.Errorf("unknown tool %q (want binutils, gcc or gdb)", tool)
		}

		client := &mirror.Client{}
		releases, err := client.Releases(cmd.Context(), tool)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, r := range releases {
			if r.Version == pinned {
				fmt.Fprintf(out, "%s (pinned)\n", r.Version)
				continue
			}
			fmt.Fprintln(out, r.Version)
		}

		return nil
	},
}
