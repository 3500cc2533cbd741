package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveBuiltinFamilies(t *testing.T) {
	tests := []struct {
		id        string
		wantName  string
		wantLimit int
	}{
		{"claude-opus-4-1-20250805", "Opus 4.1", 200_000},
		{"claude-opus-4-20250514", "Opus 4", 200_000},
		{"claude-sonnet-4-5-20250929", "Sonnet 4.5", 200_000},
		{"claude-3-5-sonnet-20241022", "Sonnet 3.5", 200_000},
		{"claude-3-7-sonnet-latest", "Sonnet 3.7", 200_000},
		{"claude-3-5-haiku-20241022", "Haiku 3.5", 200_000},
		{"claude-haiku-4-5", "Haiku 4.5", 200_000},
		{"CLAUDE-SONNET-4-20250514", "Sonnet 4", 200_000},
		{"claude-sonnet-4-5-20250929[1m]", "Sonnet 4.5 1M", 1_000_000},
	}

	mc := DefaultModels()
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			res := mc.Resolve(tt.id)
			assert.True(t, res.Matched)
			assert.Equal(t, tt.wantName, res.Name)
			assert.Equal(t, tt.wantLimit, res.ContextLimit)
		})
	}
}

func TestResolveEntriesAndFallbacks(t *testing.T) {
	mc := DefaultModels()

	res := mc.Resolve("kimi-k2-turbo-preview")
	assert.Equal(t, "Kimi K2 Turbo", res.Name, "first matching entry wins")
	assert.Equal(t, 128_000, res.ContextLimit)

	res = mc.Resolve("gpt-4o")
	assert.False(t, res.Matched)
	assert.Empty(t, res.Name)
	assert.Equal(t, DefaultContextLimit, res.ContextLimit)

	res = mc.Resolve("opus")
	assert.False(t, res.Matched, "a family needs a version number")
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		name     string
		id       string
		upstream string
		want     string
	}{
		{name: "builtin family", id: "claude-opus-4-1-20250805", upstream: "Opus", want: "Opus 4.1"},
		{name: "upstream fallback", id: "gpt-4o", upstream: "GPT-4o", want: "GPT-4o"},
		{name: "id fallback", id: "sonnet", want: "sonnet"},
		{name: "modifier on unknown model", id: "mystery[1m]", upstream: "Mystery", want: "Mystery 1M"},
		{name: "third party entry", id: "qwen3-coder-plus", want: "Qwen Coder"},
	}

	mc := DefaultModels()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mc.DisplayName(tt.id, tt.upstream); got != tt.want {
				t.Errorf("DisplayName(%q, %q) = %v, want %v", tt.id, tt.upstream, got, tt.want)
			}
		})
	}
}

func TestLoadModelsPrependsUserEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), ModelsFileName)
	content := `
[[models]]
pattern = "claude-opus"
display_name = "Big Brain"
context_limit = 500000

[[context_modifiers]]
pattern = "-fast"
display_suffix = " ⚡"
context_limit = 64000
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	mc, err := LoadModels(path)
	require.NoError(t, err)

	res := mc.Resolve("claude-opus-4-1-20250805")
	assert.Equal(t, "Big Brain", res.Name)
	assert.Equal(t, 500_000, res.ContextLimit)

	res = mc.Resolve("claude-sonnet-4-fast")
	assert.Equal(t, "Sonnet 4 ⚡", res.Name)
	assert.Equal(t, 64_000, res.ContextLimit)

	// defaults survive behind user entries
	assert.Equal(t, "GLM-4.5", mc.DisplayName("glm-4.5-air", ""))
}

func TestLoadModelsMissingAndBroken(t *testing.T) {
	dir := t.TempDir()

	mc, err := LoadModels(filepath.Join(dir, "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultModels(), mc)

	broken := filepath.Join(dir, "broken.toml")
	require.NoError(t, os.WriteFile(broken, []byte("[[models]\n"), 0o644))
	mc, err = LoadModels(broken)
	require.Error(t, err)
	assert.Equal(t, DefaultModels(), mc)
}
