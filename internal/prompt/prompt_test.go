package prompt

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ai-gateway/domain-analyst/internal/provider"
)

func TestBuild(t *testing.T) {
	req, err := Default().Build("example.com", "deepseek-reasoner", 0, true)
	require.NoError(t, err)

	assert.Equal(t, "deepseek-reasoner", req.Model)
	assert.True(t, req.Stream)
	assert.Equal(t, DefaultMaxTokens, req.MaxTokens)
	require.Len(t, req.Messages, 2)
	assert.Equal(t, provider.RoleSystem, req.Messages[0].Role)
	assert.Equal(t, provider.RoleUser, req.Messages[1].Role)
	assert.Contains(t, req.Messages[1].Content, "example.com")
	assert.NotContains(t, req.Messages[1].Content, DomainPlaceholder)
}

func TestBuildEmptyDomain(t *testing.T) {
	_, err := Default().Build("  ", "m", 10, false)
	assert.ErrorIs(t, err, ErrEmptyDomain)
}

func TestLoadOverridesPartially(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompt.yaml")
	require.NoError(t, os.WriteFile(path, []byte("user: \"Rate {{domain}} briefly\"\n"), 0o600))

	tmpl, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Rate {{domain}} briefly", tmpl.User)
	assert.Equal(t, Default().System, tmpl.System)
	assert.Equal(t, Default().Sentinel, tmpl.Sentinel)

	req, err := tmpl.Build("go.dev", "m", 100, false)
	require.NoError(t, err)
	assert.Equal(t, "Rate go.dev briefly", req.Messages[1].Content)
	assert.Equal(t, 100, req.MaxTokens)
}

func TestLoadRejectsTemplateWithoutPlaceholder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompt.yaml")
	require.NoError(t, os.WriteFile(path, []byte("user: analyze something\n"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadExampleFile(t *testing.T) {
	tmpl, err := Load(filepath.Join("..", "..", "config", "prompt.example.yaml"))
	require.NoError(t, err)
	assert.Contains(t, tmpl.System, "appraiser")
	assert.Equal(t, "My analysis is as follows:", tmpl.Sentinel)
}
