// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package execengine_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Slipstream-Max/Agent-Environment-Protocol/internal/adapter"
	"github.com/Slipstream-Max/Agent-Environment-Protocol/internal/execengine"
	"github.com/Slipstream-Max/Agent-Environment-Protocol/internal/store"
)

type fakeInterpreter struct {
	snippet        string
	globals        map[string]string
	path           string
	argv           []string
	cwd            string
	result         adapter.ExecResult
	err            error
	blockUntilDone chan struct{}
}

func (f *fakeInterpreter) RunSnippet(ctx context.Context, envDir, snippet string, globals map[string]string) (adapter.ExecResult, error) {
	f.snippet = snippet
	f.globals = globals
	if f.blockUntilDone != nil {
		select {
		case <-ctx.Done():
			return adapter.ExecResult{}, ctx.Err()
		case <-f.blockUntilDone:
		}
	}
	return f.result, f.err
}

func (f *fakeInterpreter) RunFile(ctx context.Context, envDir, path string, argv []string, cwd string) (adapter.ExecResult, error) {
	f.path = path
	f.argv = argv
	f.cwd = cwd
	return f.result, f.err
}

func newRootWithToolsEnv(t *testing.T) *store.Root {
	t.Helper()
	root, err := store.Open(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, root.EnsureDirectories())
	require.NoError(t, os.MkdirAll(root.ToolsEnvDir(), 0o755))
	return root
}

func TestToolExecutorRunPassesContextAndCode(t *testing.T) {
	root := newRootWithToolsEnv(t)
	interp := &fakeInterpreter{result: adapter.ExecResult{Stdout: "42"}}

	exec := execengine.NewToolExecutor(root, interp)
	result, err := exec.Run(context.Background(), "21*2", "/workspace", "/workspace")
	require.NoError(t, err)
	require.Equal(t, "42", result.Stdout)
	require.Contains(t, interp.globals, "AEP_CODE_B64")
	require.Equal(t, "/workspace", interp.globals["AEP_CWD"])
}

func TestToolExecutorRunMissingEnvReturnsError(t *testing.T) {
	root, err := store.Open(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, root.EnsureDirectories())

	interp := &fakeInterpreter{}
	exec := execengine.NewToolExecutor(root, interp)
	_, err = exec.Run(context.Background(), "1", "/ws", "/ws")
	require.Error(t, err)
}

func TestToolExecutorRunTimeoutTranslates(t *testing.T) {
	root := newRootWithToolsEnv(t)
	interp := &fakeInterpreter{blockUntilDone: make(chan struct{})}
	defer close(interp.blockUntilDone)

	exec := execengine.NewToolExecutor(root, interp)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	result, err := exec.Run(ctx, "1", "/ws", "/ws")
	require.NoError(t, err)
	require.Equal(t, 124, result.ReturnCode)
	require.Equal(t, "执行超时", result.Stderr)
}

func newRootWithSkill(t *testing.T, skillName string) *store.Root {
	t.Helper()
	root, err := store.Open(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, root.EnsureDirectories())

	skillDir := root.SkillDir(skillName)
	require.NoError(t, os.MkdirAll(skillDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(skillDir, "main.py"), []byte("print('x')"), 0o644))
	require.NoError(t, os.MkdirAll(root.SkillEnvDir(skillName), 0o755))
	return root
}

func TestSkillExecutorRunDispatchesToInterpreter(t *testing.T) {
	root := newRootWithSkill(t, "web-scraper")
	interp := &fakeInterpreter{result: adapter.ExecResult{Stdout: "ok"}}

	exec := execengine.NewSkillExecutor(root, interp)
	result, err := exec.Run(context.Background(), "web-scraper/main.py", []string{"--flag"})
	require.NoError(t, err)
	require.Equal(t, "ok", result.Stdout)
	require.Equal(t, []string{"--flag"}, interp.argv)
	require.Equal(t, root.SkillDir("web-scraper"), interp.cwd)
}

func TestSkillExecutorRunMissingSkillReturnsNotFound(t *testing.T) {
	root, err := store.Open(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, root.EnsureDirectories())

	interp := &fakeInterpreter{}
	exec := execengine.NewSkillExecutor(root, interp)
	_, err = exec.Run(context.Background(), "ghost/main.py", nil)
	require.Error(t, err)
}

func TestSkillExecutorRunMissingEnvReturnsError(t *testing.T) {
	root := newRootWithSkill(t, "web-scraper")
	require.NoError(t, os.RemoveAll(root.SkillEnvDir("web-scraper")))

	interp := &fakeInterpreter{}
	exec := execengine.NewSkillExecutor(root, interp)
	_, err := exec.Run(context.Background(), "web-scraper/main.py", nil)
	require.Error(t, err)
}
