// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package store_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Slipstream-Max/Agent-Environment-Protocol/internal/store"
)

func TestEnsureDirectoriesIdempotent(t *testing.T) {
	dir := t.TempDir()
	root, err := store.Open(dir)
	require.NoError(t, err)

	require.NoError(t, root.EnsureDirectories())
	require.NoError(t, root.EnsureDirectories())

	for _, child := range []string{"tools", "skills", "library", "_mcp"} {
		info, err := os.Stat(filepath.Join(dir, child))
		require.NoError(t, err)
		require.True(t, info.IsDir())
	}
}

func TestListToolsExcludesUnderscoreAndIndex(t *testing.T) {
	dir := t.TempDir()
	root, err := store.Open(dir)
	require.NoError(t, err)
	require.NoError(t, root.EnsureDirectories())

	for _, name := range []string{"calc.py", "_private.py", "index.md"} {
		require.NoError(t, os.WriteFile(filepath.Join(root.ToolsDir(), name), []byte("x"), 0o644))
	}

	names, err := root.List(store.KindTools)
	require.NoError(t, err)
	require.Equal(t, []string{"calc"}, names)
}

func TestMCPRecordRoundTrip(t *testing.T) {
	dir := t.TempDir()
	root, err := store.Open(dir)
	require.NoError(t, err)
	require.NoError(t, root.EnsureDirectories())

	rec := &store.MCPServerRecord{
		Name:      "echo",
		Transport: store.TransportStdio,
		Command:   []string{"python3", "echo_server.py"},
		Tools: []store.ToolDescriptor{
			{Name: "echo", Description: "echoes", InputSchema: map[string]any{"type": "object"}},
		},
	}
	require.NoError(t, root.SaveMCPRecord(rec))

	loaded, err := root.LoadMCPRecord("echo")
	require.NoError(t, err)
	require.Equal(t, rec.Name, loaded.Name)
	require.Equal(t, rec.Transport, loaded.Transport)
	require.Equal(t, rec.Command, loaded.Command)
	require.Len(t, loaded.Tools, 1)
	require.True(t, root.HasMCPRecord("echo"))

	names, err := root.ListMCPServers()
	require.NoError(t, err)
	require.Equal(t, []string{"echo"}, names)

	require.NoError(t, root.RemoveMCPRecord("echo"))
	require.False(t, root.HasMCPRecord("echo"))
}

func TestMCPRecordValidate(t *testing.T) {
	stdio := &store.MCPServerRecord{Transport: store.TransportStdio}
	require.Error(t, stdio.Validate())
	stdio.Command = []string{"uvx", "server"}
	require.NoError(t, stdio.Validate())

	http := &store.MCPServerRecord{Transport: store.TransportHTTP}
	require.Error(t, http.Validate())
	http.URL = "https://example.com/mcp"
	require.NoError(t, http.Validate())
}

func TestMergeManifestSortsDedupesAndAppendsNewline(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "requirements.txt")

	require.NoError(t, store.MergeManifest(path, []string{"numpy>=1.20", "requests"}))
	require.NoError(t, store.MergeManifest(path, []string{"requests", "numpy>=1.20", "pandas"}))

	specs, err := store.ReadManifest(path)
	require.NoError(t, err)
	require.Equal(t, []string{"numpy>=1.20", "pandas", "requests"}, specs)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, len(data) > 0 && data[len(data)-1] == '\n')
}
