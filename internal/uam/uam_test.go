package uam

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlockScopeSet(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		block Block
		want  []string
	}{
		{name: "global", block: Block{ID: "b1"}, want: nil},
		{name: "empty scopes", block: Block{ID: "b1", Scopes: []string{}}, want: nil},
		{name: "blank entries", block: Block{ID: "b1", Scopes: []string{" ", ""}}, want: nil},
		{name: "scope id first", block: Block{ID: "b1", ScopeID: "api", Scopes: []string{"src", "api"}}, want: []string{"api", "src"}},
		{name: "dedupe keeps order", block: Block{ID: "b1", Scopes: []string{"b", "a", "b"}}, want: []string{"b", "a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if diff := cmp.Diff(tt.want, tt.block.ScopeSet()); diff != "" {
				t.Fatalf("ScopeSet() mismatch (-want +got):\n%s", diff)
			}
			if got := tt.block.IsGlobal(); got != (len(tt.want) == 0) {
				t.Fatalf("IsGlobal() = %v, want %v", got, len(tt.want) == 0)
			}
		})
	}
}

func TestBlockTextAndKind(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "c", Block{Content: "c", Body: "b"}.Text())
	assert.Equal(t, "b", Block{Body: "b"}.Text())
	assert.Equal(t, KindInstruction, Block{}.EffectiveKind())
	assert.Equal(t, KindComment, Block{Kind: KindComment}.EffectiveKind())
	assert.True(t, KnownKind(KindRule))
	assert.False(t, KnownKind("video"))
}

func TestLoadFileYAMLAndJSON(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "agent.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("schemaVersion: 1\nmeta:\n  title: Demo\n"), 0o644))
	jsonPath := filepath.Join(dir, "agent.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"schemaVersion":1,"meta":{"title":"Demo"}}`), 0o644))

	for _, path := range []string{yamlPath, jsonPath} {
		raw, err := LoadFile(path)
		require.NoError(t, err, path)
		m, ok := raw.(map[string]any)
		require.True(t, ok, "payload type %T", raw)
		meta, ok := m["meta"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "Demo", meta["title"])
	}
}

func TestDecodeRejectsBrokenSyntax(t *testing.T) {
	t.Parallel()

	_, err := Decode([]byte("{"), FormatJSON)
	require.Error(t, err)
	_, err = Decode([]byte("a: [1"), FormatYAML)
	require.Error(t, err)
	_, err = Decode([]byte("{}"), Format("toml"))
	require.Error(t, err)
}

func TestFormatFromPath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, FormatYAML, FormatFromPath("a.YML"))
	assert.Equal(t, FormatYAML, FormatFromPath("dir/a.yaml"))
	assert.Equal(t, FormatJSON, FormatFromPath("a.json"))
	assert.Equal(t, FormatJSON, FormatFromPath("a"))
}
