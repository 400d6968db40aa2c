// Package config provides configuration loading and management for uamc.
package config

import (
	"fmt"

	"github.com/metalagman/uamc/internal/compiler"
	"github.com/metalagman/uamc/internal/secrets"
)

// Config is the root configuration.
type Config struct {
	Targets   []string      `json:"targets"    mapstructure:"targets"`
	OutputDir string        `json:"output_dir" mapstructure:"output_dir"`
	Secrets   SecretsConfig `json:"secrets"    mapstructure:"secrets"`
	Archive   ArchiveConfig `json:"archive"    mapstructure:"archive"`
	Server    ServerConfig  `json:"server"     mapstructure:"server"`
}

// SecretsConfig controls the secret scan run before compiling.
type SecretsConfig struct {
	Policy           string   `json:"policy"                      mapstructure:"policy"`
	DisabledPatterns []string `json:"disabled_patterns,omitempty" mapstructure:"disabled_patterns"`
}

// ArchiveConfig controls bundled downloads.
type ArchiveConfig struct {
	Name string `json:"name" mapstructure:"name"`
}

// ServerConfig controls `uamc serve`.
type ServerConfig struct {
	Addr      string `json:"addr"        mapstructure:"addr"`
	MaxBodyKB int    `json:"max_body_kb" mapstructure:"max_body_kb"`
}

// Defaults returns the settings used when no config file is present.
func Defaults() map[string]any {
	return map[string]any{
		"targets":    []string{"claude-code"},
		"output_dir": ".",
		"secrets": map[string]any{
			"policy":            string(compiler.PolicyBlock),
			"disabled_patterns": []string{},
		},
		"archive": map[string]any{
			"name": "agent-config.zip",
		},
		"server": map[string]any{
			"addr":        ":8080",
			"max_body_kb": 512,
		},
	}
}

// SecretPolicy parses Secrets.Policy.
func (c Config) SecretPolicy() (compiler.SecretPolicy, error) {
	return compiler.ParsePolicy(c.Secrets.Policy)
}

// Scanner returns the default scanner minus the disabled patterns.
func (c Config) Scanner() (*secrets.Scanner, error) {
	known := make(map[string]bool)
	for _, name := range secrets.PatternNames() {
		known[name] = true
	}
	for _, name := range c.Secrets.DisabledPatterns {
		if !known[name] {
			return nil, fmt.Errorf("secrets.disabled_patterns: unknown pattern %q", name)
		}
	}
	return secrets.New().Without(c.Secrets.DisabledPatterns...), nil
}

// CompilerOptions translates the config into compiler options.
func (c Config) CompilerOptions() ([]compiler.Option, error) {
	policy, err := c.SecretPolicy()
	if err != nil {
		return nil, err
	}
	scanner, err := c.Scanner()
	if err != nil {
		return nil, err
	}
	return []compiler.Option{compiler.WithSecretPolicy(policy), compiler.WithScanner(scanner)}, nil
}
