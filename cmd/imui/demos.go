package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vango-dev/imui/internal/demo"
)

func demosCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demos",
		Short: "List the bundled demos",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			for _, d := range demo.All() {
				fmt.Fprintf(out, "  %-10s %s\n", d.Name, d.Description)
			}
		},
	}
}
