package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveConfigPath_DefaultYAMLPreferred(t *testing.T) {
	t.Parallel()

	repoRoot := t.TempDir()
	if err := writeTestFile(filepath.Join(repoRoot, defaultConfigPath), "targets: [claude-code]\n"); err != nil {
		t.Fatalf("write yaml config: %v", err)
	}
	if err := writeTestFile(filepath.Join(repoRoot, defaultJSONConfigPath), `{"targets": ["gemini-cli"]}`); err != nil {
		t.Fatalf("write json config: %v", err)
	}

	got := resolveConfigPath(repoRoot, defaultConfigPath)
	want := filepath.Join(repoRoot, defaultConfigPath)
	if got != want {
		t.Fatalf("resolve config path = %q, want %q", got, want)
	}
}

func TestResolveConfigPath_FallsBackToJSON(t *testing.T) {
	t.Parallel()

	repoRoot := t.TempDir()
	if err := writeTestFile(filepath.Join(repoRoot, defaultJSONConfigPath), `{}`); err != nil {
		t.Fatalf("write json config: %v", err)
	}

	got := resolveConfigPath(repoRoot, "")
	want := filepath.Join(repoRoot, defaultJSONConfigPath)
	if got != want {
		t.Fatalf("resolve config path = %q, want %q", got, want)
	}
}

func TestResolveConfigPath_ExplicitPathKept(t *testing.T) {
	t.Parallel()

	repoRoot := t.TempDir()
	got := resolveConfigPath(repoRoot, "custom.yaml")
	assert.Equal(t, filepath.Join(repoRoot, "custom.yaml"), got)

	abs := filepath.Join(t.TempDir(), "other.json")
	assert.Equal(t, abs, resolveConfigPath(repoRoot, abs))
}

func TestLoadConfig_UsesYAML(t *testing.T) {
	repoRoot := t.TempDir()
	if err := writeTestFile(filepath.Join(repoRoot, defaultConfigPath), `targets:
  - gemini-cli
  - agents-md
secrets:
  policy: warn
  disabled_patterns: [openai-api-key]
server:
  max_body_kb: 64
`); err != nil {
		t.Fatalf("write yaml config: %v", err)
	}

	viper.Reset()
	t.Cleanup(viper.Reset)
	viper.Set("config", defaultConfigPath)

	cfg, err := loadConfig(repoRoot)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	assert.Equal(t, []string{"gemini-cli", "agents-md"}, cfg.Targets)
	assert.Equal(t, "warn", cfg.Secrets.Policy)
	assert.Equal(t, []string{"openai-api-key"}, cfg.Secrets.DisabledPatterns)
	assert.Equal(t, 64, cfg.Server.MaxBodyKB)
	// untouched keys keep their defaults
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "agent-config.zip", cfg.Archive.Name)
}

func TestLoadConfig_UsesJSON(t *testing.T) {
	repoRoot := t.TempDir()
	if err := writeTestFile(filepath.Join(repoRoot, defaultJSONConfigPath), `{"archive": {"name": "bundle.zip"}}`); err != nil {
		t.Fatalf("write json config: %v", err)
	}

	viper.Reset()
	t.Cleanup(viper.Reset)

	cfg, err := loadConfig(repoRoot)
	require.NoError(t, err)
	assert.Equal(t, "bundle.zip", cfg.Archive.Name)
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cfg, err := loadConfig(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, []string{"claude-code"}, cfg.Targets)
	assert.Equal(t, ".", cfg.OutputDir)
	assert.Equal(t, "block", cfg.Secrets.Policy)
	assert.Equal(t, 512, cfg.Server.MaxBodyKB)
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	viper.Set("config", "nope.yaml")

	_, err := loadConfig(t.TempDir())
	require.Error(t, err)
}

func TestLoadConfig_RejectsInvalidSettings(t *testing.T) {
	repoRoot := t.TempDir()
	if err := writeTestFile(filepath.Join(repoRoot, defaultConfigPath), "secrets:\n  policy: maybe\n"); err != nil {
		t.Fatalf("write yaml config: %v", err)
	}

	viper.Reset()
	t.Cleanup(viper.Reset)

	_, err := loadConfig(repoRoot)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "secrets.policy")
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("UAMC_SECRETS_POLICY", "off")
	t.Setenv("UAMC_ARCHIVE_NAME", "env.zip")

	viper.Reset()
	t.Cleanup(viper.Reset)

	cfg, err := loadConfig(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "off", cfg.Secrets.Policy)
	assert.Equal(t, "env.zip", cfg.Archive.Name)
}

func TestLoadConfig_DotEnv(t *testing.T) {
	repoRoot := t.TempDir()
	if err := writeTestFile(filepath.Join(repoRoot, ".env"), "UAMC_OUTPUT_DIR=generated\n"); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Cleanup(func() { _ = os.Unsetenv("UAMC_OUTPUT_DIR") })

	viper.Reset()
	t.Cleanup(viper.Reset)

	cfg, err := loadConfig(repoRoot)
	require.NoError(t, err)
	assert.Equal(t, "generated", cfg.OutputDir)
}

func writeTestFile(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0o644)
}
