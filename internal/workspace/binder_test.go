// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package workspace_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Slipstream-Max/Agent-Environment-Protocol/internal/store"
	"github.com/Slipstream-Max/Agent-Environment-Protocol/internal/workspace"
)

func newRoot(t *testing.T) *store.Root {
	t.Helper()
	root, err := store.Open(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, root.EnsureDirectories())
	return root
}

func TestAttachCreatesSymlinksUnderDefaultProtocolDir(t *testing.T) {
	root := newRoot(t)
	ws := t.TempDir()

	b, err := workspace.Attach(ws, root, "")
	require.NoError(t, err)

	protocolDir := filepath.Join(ws, workspace.DefaultProtocolDirName)
	require.Equal(t, protocolDir, b.ProtocolDir())

	for _, name := range []string{"tools", "skills", "library"} {
		linkPath := filepath.Join(protocolDir, name)
		info, err := os.Lstat(linkPath)
		require.NoError(t, err)
		require.True(t, info.Mode()&os.ModeSymlink != 0)
	}
}

func TestAttachIsIdempotent(t *testing.T) {
	root := newRoot(t)
	ws := t.TempDir()

	_, err := workspace.Attach(ws, root, "")
	require.NoError(t, err)
	_, err = workspace.Attach(ws, root, "")
	require.NoError(t, err)
}

func TestAttachRejectsNonSymlinkConflict(t *testing.T) {
	root := newRoot(t)
	ws := t.TempDir()

	protocolDir := filepath.Join(ws, workspace.DefaultProtocolDirName)
	require.NoError(t, os.MkdirAll(filepath.Join(protocolDir, "tools"), 0o755))

	_, err := workspace.Attach(ws, root, "")
	require.Error(t, err)
}

func TestDetachRemovesLinksAndEmptyProtocolDir(t *testing.T) {
	root := newRoot(t)
	ws := t.TempDir()

	b, err := workspace.Attach(ws, root, "")
	require.NoError(t, err)
	require.NoError(t, b.Detach())

	_, err = os.Stat(b.ProtocolDir())
	require.True(t, os.IsNotExist(err))
}

func TestDetachKeepsProtocolDirIfNotEmpty(t *testing.T) {
	root := newRoot(t)
	ws := t.TempDir()

	b, err := workspace.Attach(ws, root, "")
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(b.ProtocolDir(), "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, b.Detach())

	info, err := os.Stat(b.ProtocolDir())
	require.NoError(t, err)
	require.True(t, info.IsDir())
}
