package main

import (
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

func previewCmd() *cobra.Command {
	var (
		target string
		raw    bool
		width  int
	)
	cmd := &cobra.Command{
		Use:   "preview [file]",
		Short: "Render the compiled output of one target in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, c, err := setup()
			if err != nil {
				return err
			}
			doc, err := readDocument(cmd, documentArg(args))
			if err != nil {
				return err
			}
			var ids []string
			if target != "" {
				ids = []string{target}
			}
			out, err := compileDocument(c, cfg, doc, ids)
			if err != nil {
				return err
			}

			var renderer *glamour.TermRenderer
			if !raw {
				renderer, err = glamour.NewTermRenderer(
					glamour.WithAutoStyle(),
					glamour.WithWordWrap(width),
				)
				if err != nil {
					return fmt.Errorf("create renderer: %w", err)
				}
			}

			w := cmd.OutOrStdout()
			for _, f := range out.Files {
				fmt.Fprintln(w, styleHeader.Render(f.Path))
				content := f.Content
				if renderer != nil {
					content, err = renderer.Render(f.Content)
					if err != nil {
						return fmt.Errorf("render %s: %w", f.Path, err)
					}
				}
				fmt.Fprintln(w, content)
			}
			for _, warning := range out.Warnings {
				fmt.Fprintln(w, styleWarning.Render("warning: "+warning))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&target, "target", "t", "", "adapter id to preview")
	cmd.Flags().BoolVar(&raw, "raw", false, "print the generated text without markdown rendering")
	cmd.Flags().IntVar(&width, "width", 80, "word wrap width")
	return cmd
}
