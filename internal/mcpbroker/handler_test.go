// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpbroker_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Slipstream-Max/Agent-Environment-Protocol/internal/logger"
	"github.com/Slipstream-Max/Agent-Environment-Protocol/internal/mcpbroker"
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

func TestAddRejectsMissingStdioLauncher(t *testing.T) {
	root, err := store.Open(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, root.EnsureDirectories())

	h := mcpbroker.New(root, provisioner.New(noopInstaller{}), logger.NewStructuredLogger(nil, true))

	rec := &store.MCPServerRecord{
		Name:      "ghost",
		Transport: store.TransportStdio,
		Command:   []string{"definitely-not-a-real-launcher-binary"},
	}

	_, err = h.Add(context.Background(), rec, nil)
	require.Error(t, err)
}

func TestAddRejectsInvalidRecord(t *testing.T) {
	root, err := store.Open(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, root.EnsureDirectories())

	h := mcpbroker.New(root, provisioner.New(noopInstaller{}), logger.NewStructuredLogger(nil, true))

	rec := &store.MCPServerRecord{Name: "bad", Transport: store.TransportStdio}
	_, err = h.Add(context.Background(), rec, nil)
	require.Error(t, err)
}

func TestRemoveMissingServerReturnsNotFound(t *testing.T) {
	root, err := store.Open(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, root.EnsureDirectories())

	h := mcpbroker.New(root, provisioner.New(noopInstaller{}), logger.NewStructuredLogger(nil, true))
	require.Error(t, h.Remove("ghost"))
}
