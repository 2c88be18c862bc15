// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package pyinterp_test

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Slipstream-Max/Agent-Environment-Protocol/internal/adapter/pyinterp"
)

// fakeEnv builds a minimal fake "venv" directory whose python binary is
// actually a tiny shell script, so the test doesn't depend on a real
// python3/uv installation.
func fakeEnv(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake interpreter script is POSIX-only")
	}

	dir := t.TempDir()
	binDir := filepath.Join(dir, "bin")
	require.NoError(t, os.MkdirAll(binDir, 0o755))

	script := "#!/bin/sh\nif [ \"$1\" = \"-c\" ]; then\n  echo \"$2\"\nelse\n  cat \"$1\"\nfi\n"
	path := filepath.Join(binDir, "python")
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return dir
}

func TestRunSnippetUsesEnvPython(t *testing.T) {
	envDir := fakeEnv(t)
	interp := pyinterp.New()

	result, err := interp.RunSnippet(context.Background(), envDir, "hello", nil)
	require.NoError(t, err)
	require.Equal(t, "hello\n", result.Stdout)
	require.Equal(t, 0, result.ReturnCode)
}

func TestRunSnippetMissingInterpreter(t *testing.T) {
	interp := pyinterp.New()
	_, err := interp.RunSnippet(context.Background(), t.TempDir(), "hello", nil)
	require.Error(t, err)
}
