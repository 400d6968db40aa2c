package main

import (
	"fmt"

	"github.com/metalagman/uamc/internal/validate"
	"github.com/spf13/cobra"
)

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Validate a UAM document",
		Long:  "Validate a UAM document (JSON or YAML, \"-\" for stdin) and report every issue found.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readDocument(cmd, documentArg(args))
			if err != nil {
				return err
			}
			res := validate.Validate(raw)
			out := cmd.OutOrStdout()
			if res.Success() {
				fmt.Fprintf(out, "%s %q with %d blocks\n", styleOK.Render("valid"), res.Document.Meta.Title, len(res.Document.Blocks))
				return nil
			}
			for _, issue := range res.Issues {
				fmt.Fprintf(out, "%s %s\n", styleError.Render("invalid"), issue)
			}
			return fmt.Errorf("document has %d issue(s)", len(res.Issues))
		},
	}
}
