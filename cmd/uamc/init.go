package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const defaultDocumentPath = "uam.yaml"

const defaultConfigYAML = `# Adapters compiled when neither --target nor meta.targets is given.
targets:
  - claude-code
output_dir: .
secrets:
  # block | warn | off
  policy: block
  disabled_patterns: []
archive:
  name: agent-config.zip
server:
  addr: ":8080"
  max_body_kb: 512
`

const sampleDocumentYAML = `schemaVersion: 1
meta:
  title: Project guidelines
  description: Shared instructions for every coding assistant.
  targets:
    - claude-code
    - agents-md
blocks:
  - id: style
    kind: instruction
    content: |
      Keep functions small and name things after what they do.
  - id: tests
    kind: rule
    title: Test conventions
    content: |
      Every change ships with a table-driven test.
    scopeId: "**/*_test.go"
  - id: note
    kind: comment
    content: Authors only. Never emitted.
`

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize a new uamc project",
		Long:  "Initialize a new uamc project by writing .uamc/config.yaml and a sample uam.yaml document.",
		RunE: func(cmd *cobra.Command, args []string) error {
			repoRoot, err := os.Getwd()
			if err != nil {
				return err
			}
			if err := initProject(repoRoot); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), styleOK.Render("uamc initialized successfully"))
			return nil
		},
	}
}

func initProject(repoRoot string) error {
	files := []struct {
		path    string
		content string
	}{
		{path: filepath.Join(repoRoot, defaultConfigPath), content: defaultConfigYAML},
		{path: filepath.Join(repoRoot, defaultDocumentPath), content: sampleDocumentYAML},
	}
	for _, f := range files {
		if _, err := os.Stat(f.path); err == nil {
			log.Info().Str("path", f.path).Msg("file already exists, skipping")
			continue
		}
		log.Info().Str("path", f.path).Msg("writing file")
		if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
			return fmt.Errorf("create dir: %w", err)
		}
		if err := os.WriteFile(f.path, []byte(f.content), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", filepath.Base(f.path), err)
		}
	}
	return nil
}
