package main

import (
	"fmt"

	"github.com/metalagman/uamc/internal/adapter/targets"
	"github.com/spf13/cobra"
)

func adaptersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "adapters",
		Short: "List the available target adapters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, styleHeader.Render("Adapters"))
			for _, a := range targets.NewRegistry().All() {
				fmt.Fprintf(out, "%s%s\n", styleID.Render(a.ID()), a.Name())
			}
			return nil
		},
	}
}
