// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package execengine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Slipstream-Max/Agent-Environment-Protocol/internal/adapter"
	"github.com/Slipstream-Max/Agent-Environment-Protocol/internal/apperr"
	"github.com/Slipstream-Max/Agent-Environment-Protocol/internal/store"
)

// skillTimeout bounds every `skills run` invocation, per spec.md §5.
const skillTimeout = 300 * time.Second

// SkillExecutor runs skill scripts inside their per-skill environment.
type SkillExecutor struct {
	root   *store.Root
	interp adapter.CodeInterpreter
}

// NewSkillExecutor builds a SkillExecutor bound to root, dispatching
// through interp.
func NewSkillExecutor(root *store.Root, interp adapter.CodeInterpreter) *SkillExecutor {
	return &SkillExecutor{root: root, interp: interp}
}

// Run resolves scriptPath (of the form "<skill>/<relative/file>") against
// root's skills directory, then runs it under the skill's own environment
// with cwd set to the skill directory. Like ToolExecutor.Run, it never
// returns a Go error for a failure in the child: that comes back as a
// non-zero ExecResult.
func (e *SkillExecutor) Run(ctx context.Context, scriptPath string, args []string) (adapter.ExecResult, error) {
	skillName, _, found := strings.Cut(scriptPath, "/")
	if !found {
		return adapter.ExecResult{}, apperr.NotFound(apperr.KindSkill, scriptPath)
	}

	skillDir := e.root.SkillDir(skillName)
	info, err := os.Stat(skillDir)
	if err != nil || !info.IsDir() {
		return adapter.ExecResult{}, apperr.NotFound(apperr.KindSkill, skillName)
	}

	fullScript := filepath.Join(e.root.SkillsDir(), scriptPath)
	if _, err := os.Stat(fullScript); err != nil {
		return adapter.ExecResult{}, fmt.Errorf("execengine: script not found: %s", scriptPath)
	}

	envDir := e.root.SkillEnvDir(skillName)
	if _, err := os.Stat(envDir); err != nil {
		return adapter.ExecResult{}, apperr.EnvMissing(envDir)
	}

	result := runWithTimeout(ctx, skillTimeout, func(runCtx context.Context) (adapter.ExecResult, error) {
		return e.interp.RunFile(runCtx, envDir, fullScript, args, skillDir)
	})
	return result, nil
}
