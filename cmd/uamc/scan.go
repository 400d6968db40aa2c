package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var errSecretsFound = errors.New("possible secrets found")

func scanCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "scan [file]",
		Short: "Scan a UAM document for credentials",
		Long:  "Scan the free-text fields of a UAM document for credential-shaped strings. Exits non-zero when any are found.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, c, err := setup()
			if err != nil {
				return err
			}
			raw, err := readDocument(cmd, documentArg(args))
			if err != nil {
				return err
			}
			res, err := c.Scan(raw)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(res); err != nil {
					return fmt.Errorf("encode scan result: %w", err)
				}
			} else if !res.HasSecrets {
				fmt.Fprintln(out, styleOK.Render("no secrets found"))
			} else {
				for _, m := range res.Matches {
					where := m.Field
					if m.BlockID != "" {
						where = fmt.Sprintf("%s (block %q)", m.Field, m.BlockID)
					}
					fmt.Fprintf(out, "%s %s %s %s\n",
						styleWarning.Render(m.Pattern), m.Preview, styleMuted.Render("at"), where)
				}
			}
			if res.HasSecrets {
				return fmt.Errorf("%w: %d match(es)", errSecretsFound, len(res.Matches))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the scan result as JSON")
	return cmd
}
