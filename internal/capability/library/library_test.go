// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package library_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Slipstream-Max/Agent-Environment-Protocol/internal/capability/library"
	"github.com/Slipstream-Max/Agent-Environment-Protocol/internal/store"
)

func newHandler(t *testing.T) (*library.Handler, *store.Root) {
	t.Helper()
	root, err := store.Open(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, root.EnsureDirectories())
	return library.New(root), root
}

func TestAddDefaultsNameToSourceBaseName(t *testing.T) {
	h, root := newHandler(t)

	src := filepath.Join(t.TempDir(), "guide.md")
	require.NoError(t, os.WriteFile(src, []byte("# Guide\n"), 0o644))

	target, err := h.Add(src, "")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(root.LibraryDir(), "guide.md"), target)
}

func TestGenerateIndexExcludesItself(t *testing.T) {
	h, root := newHandler(t)

	src := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(src, []byte("hello\n"), 0o644))
	_, err := h.Add(src, "")
	require.NoError(t, err)

	require.NoError(t, h.GenerateIndex())
	require.NoError(t, h.GenerateIndex())

	names, err := h.List()
	require.NoError(t, err)
	require.Equal(t, []string{"notes.txt"}, names)
	_ = root
}

func TestRemoveMissingLibraryFileReturnsNotFound(t *testing.T) {
	h, _ := newHandler(t)
	require.Error(t, h.Remove("ghost.txt"))
}
