// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package tools_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Slipstream-Max/Agent-Environment-Protocol/internal/capability/tools"
	"github.com/Slipstream-Max/Agent-Environment-Protocol/internal/provisioner"
	"github.com/Slipstream-Max/Agent-Environment-Protocol/internal/store"
)

type noopInstaller struct{}

func (noopInstaller) EnsureEnvironment(ctx context.Context, envDir string) error { return nil }
func (noopInstaller) Install(ctx context.Context, envDir string, specifiers []string) error {
	return nil
}
func (noopInstaller) InstallFromManifest(ctx context.Context, envDir, manifestPath string) error {
	return nil
}

func newHandler(t *testing.T) (*tools.Handler, *store.Root) {
	t.Helper()
	root, err := store.Open(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, root.EnsureDirectories())
	return tools.New(root, provisioner.New(noopInstaller{})), root
}

func TestAddCopiesModuleAndExcludesUnderscorePrefix(t *testing.T) {
	h, root := newHandler(t)

	src := filepath.Join(t.TempDir(), "weather.py")
	require.NoError(t, os.WriteFile(src, []byte("def forecast():\n    return 'sunny'\n"), 0o644))

	target, err := h.Add(context.Background(), src, "", nil)
	require.NoError(t, err)
	require.Equal(t, root.ToolPath("weather"), target)
	require.NoError(t, os.WriteFile(filepath.Join(root.ToolsDir(), "_helper.py"), []byte("X = 1\n"), 0o644))

	names, err := h.List()
	require.NoError(t, err)
	require.Equal(t, []string{"weather"}, names)
}

func TestGenerateIndexAnnotatesMCPBackedTools(t *testing.T) {
	h, root := newHandler(t)

	src := filepath.Join(t.TempDir(), "search.py")
	require.NoError(t, os.WriteFile(src, []byte("def run():\n    pass\n"), 0o644))
	_, err := h.Add(context.Background(), src, "search", nil)
	require.NoError(t, err)

	require.NoError(t, root.SaveMCPRecord(&store.MCPServerRecord{
		Name:      "search",
		Transport: store.TransportStdio,
		Command:   []string{"search-server"},
	}))

	require.NoError(t, h.GenerateIndex())

	data, err := os.ReadFile(filepath.Join(root.ToolsDir(), "index.md"))
	require.NoError(t, err)
	require.Contains(t, string(data), "`search` (MCP)")
}

func TestRemoveMissingToolReturnsNotFound(t *testing.T) {
	h, _ := newHandler(t)
	err := h.Remove("ghost")
	require.Error(t, err)
}
