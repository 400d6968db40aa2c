package main

import (
	"fmt"
	"io"
	"os"

	"github.com/metalagman/uamc/internal/adapter/targets"
	"github.com/metalagman/uamc/internal/compiler"
	"github.com/metalagman/uamc/internal/config"
	"github.com/metalagman/uamc/internal/uam"
	"github.com/spf13/cobra"
)

// setup loads the config from the working directory and builds a compiler for it.
func setup() (config.Config, *compiler.Compiler, error) {
	cfg, err := loadWorkingConfig()
	if err != nil {
		return config.Config{}, nil, err
	}
	c, err := newCompiler(cfg)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, c, nil
}

func loadWorkingConfig() (config.Config, error) {
	repoRoot, err := os.Getwd()
	if err != nil {
		return config.Config{}, err
	}
	return loadConfig(repoRoot)
}

func newCompiler(cfg config.Config) (*compiler.Compiler, error) {
	opts, err := cfg.CompilerOptions()
	if err != nil {
		return nil, err
	}
	return compiler.New(targets.NewRegistry(), opts...), nil
}

// documentArg returns the document path argument, defaulting to uam.yaml.
func documentArg(args []string) string {
	if len(args) == 0 {
		return defaultDocumentPath
	}
	return args[0]
}

// readDocument loads path, or stdin when path is "-". Stdin is parsed as YAML,
// which also accepts JSON.
func readDocument(cmd *cobra.Command, path string) (any, error) {
	if path != "-" {
		return uam.LoadFile(path)
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	return uam.Decode(data, uam.FormatYAML)
}
