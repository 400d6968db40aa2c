package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/metalagman/uamc/internal/uam"
	"github.com/metalagman/uamc/internal/validate"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigYAML_IsLoadable(t *testing.T) {
	repoRoot := t.TempDir()
	if err := writeTestFile(filepath.Join(repoRoot, defaultConfigPath), defaultConfigYAML); err != nil {
		t.Fatalf("write default config: %v", err)
	}

	viper.Reset()
	t.Cleanup(viper.Reset)
	viper.Set("config", defaultConfigPath)

	if _, err := loadConfig(repoRoot); err != nil {
		t.Fatalf("load default config: %v", err)
	}
}

func TestSampleDocument_Validates(t *testing.T) {
	t.Parallel()

	raw, err := uam.Decode([]byte(sampleDocumentYAML), uam.FormatYAML)
	require.NoError(t, err)
	res := validate.Validate(raw)
	require.True(t, res.Success(), "issues: %v", res.Issues)
	assert.Equal(t, []string{"claude-code", "agents-md"}, res.Document.Meta.Targets)
}

func TestInitProject_KeepsExistingFiles(t *testing.T) {
	t.Parallel()

	repoRoot := t.TempDir()
	existing := filepath.Join(repoRoot, defaultDocumentPath)
	if err := writeTestFile(existing, "mine\n"); err != nil {
		t.Fatalf("write document: %v", err)
	}

	require.NoError(t, initProject(repoRoot))

	got, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.Equal(t, "mine\n", string(got))

	cfg, err := os.ReadFile(filepath.Join(repoRoot, defaultConfigPath))
	require.NoError(t, err)
	assert.Equal(t, defaultConfigYAML, string(cfg))
}
