package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/metalagman/uamc/internal/adapter"
	"github.com/metalagman/uamc/internal/compiler"
	"github.com/metalagman/uamc/internal/config"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

type compileOptions struct {
	targets      []string
	outDir       string
	archive      string
	allowSecrets bool
}

func compileCmd() *cobra.Command {
	var opts compileOptions
	cmd := &cobra.Command{
		Use:   "compile [file]",
		Short: "Compile a UAM document into assistant config files",
		Long: "Compile a UAM document for the selected targets. Targets come from --target, " +
			"then meta.targets, then the targets config key.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadWorkingConfig()
			if err != nil {
				return err
			}
			if opts.allowSecrets {
				cfg.Secrets.Policy = string(compiler.PolicyWarn)
			}
			if opts.outDir == "" {
				opts.outDir = cfg.OutputDir
			}
			if opts.archive == "-" {
				opts.archive = cfg.Archive.Name
			}
			c, err := newCompiler(cfg)
			if err != nil {
				return err
			}
			raw, err := readDocument(cmd, documentArg(args))
			if err != nil {
				return err
			}

			out, err := compileDocument(c, cfg, raw, opts.targets)
			if err != nil {
				return err
			}
			for _, w := range out.Warnings {
				log.Warn().Msg(w)
			}

			if opts.archive != "" {
				path := opts.archive
				if !filepath.IsAbs(path) {
					path = filepath.Join(opts.outDir, path)
				}
				if err := writeArchive(path, out); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%d files)\n", styleOK.Render("wrote"), path, len(out.Files))
				return nil
			}

			if err := writeFiles(opts.outDir, out.Files); err != nil {
				return err
			}
			for _, f := range out.Files {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", styleOK.Render("wrote"), filepath.Join(opts.outDir, filepath.FromSlash(f.Path)))
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVarP(&opts.targets, "target", "t", nil, "adapter id to compile for (repeatable)")
	cmd.Flags().StringVarP(&opts.outDir, "out", "o", "", "output directory (default: output_dir config key)")
	cmd.Flags().StringVar(&opts.archive, "archive", "", "write one zip archive instead of individual files (--archive=path overrides archive.name)")
	cmd.Flags().BoolVar(&opts.allowSecrets, "allow-secrets", false, "compile even when the document looks like it contains credentials")
	cmd.Flags().Lookup("archive").NoOptDefVal = "-"
	return cmd
}

// compileDocument validates raw and compiles it. When neither ids nor the
// document name any targets, the configured defaults are used.
func compileDocument(c *compiler.Compiler, cfg config.Config, raw any, ids []string) (*compiler.Output, error) {
	doc, err := c.Validate(raw)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 && len(doc.Meta.Targets) == 0 {
		ids = cfg.Targets
	}
	return c.CompileDocument(*doc, ids...)
}

func writeArchive(path string, out *compiler.Output) error {
	data, err := out.Archive()
	if err != nil {
		return fmt.Errorf("build archive: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create archive dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write archive: %w", err)
	}
	return nil
}

func writeFiles(dir string, files []adapter.CompiledFile) error {
	for _, f := range files {
		path := filepath.Join(dir, filepath.FromSlash(f.Path))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("create dir for %s: %w", f.Path, err)
		}
		if err := os.WriteFile(path, []byte(f.Content), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", f.Path, err)
		}
	}
	return nil
}
