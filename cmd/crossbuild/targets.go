package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"crossbuild/pkg/platform"
)

var targetsCmd = &cobra.Command{
	Use:   "targets",
	Short: "List supported target platforms and their GNU triplets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		for _, name := range platform.Names() {
			triplet, err := platform.Triplet(name)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%s\t%s\n", name, triplet)
		}
		return w.Flush()
	},
}
