// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package execengine

import (
	"context"
	"encoding/base64"
	"os"
	"time"

	"github.com/Slipstream-Max/Agent-Environment-Protocol/internal/adapter"
	"github.com/Slipstream-Max/Agent-Environment-Protocol/internal/apperr"
	"github.com/Slipstream-Max/Agent-Environment-Protocol/internal/store"
)

// toolTimeout bounds every `tools run` invocation, per spec.md §5.
const toolTimeout = 60 * time.Second

// toolWrapperSource is the program run inside the shared tools
// environment for every `tools run` call. It binds cwd/workspace/
// tools_dir from environment variables (rather than interpolating them
// into source text), dynamically loads every non-underscore-prefixed
// module under tools/ into a `tools` namespace object, then runs the
// caller's snippet with REPL-style last-expression echo: every statement
// but a trailing expression is exec'd, then that trailing expression is
// evaluated and its value printed unless it is None.
const toolWrapperSource = `
import ast
import sys
import os
import json
import re
import base64
import importlib.util
from pathlib import Path

cwd = Path(os.environ.get("AEP_CWD") or os.getcwd())
workspace = Path(os.environ.get("AEP_WORKSPACE") or str(cwd))
tools_dir = Path(os.environ["AEP_TOOLS_DIR"])


class ToolsNamespace:
    pass


tools = ToolsNamespace()
for py_file in sorted(tools_dir.glob("*.py")):
    tool_name = py_file.stem
    if tool_name.startswith("_"):
        continue
    try:
        spec = importlib.util.spec_from_file_location(tool_name, py_file)
        if spec and spec.loader:
            module = importlib.util.module_from_spec(spec)
            spec.loader.exec_module(module)
            setattr(tools, tool_name, module)
    except Exception as e:
        print(f"Warning: failed to load tool {tool_name}: {e}", file=sys.stderr)

_code = base64.b64decode(os.environ["AEP_CODE_B64"]).decode("utf-8")

try:
    _tree = ast.parse(_code)
    _last = _tree.body.pop() if _tree.body and isinstance(_tree.body[-1], ast.Expr) else None
    exec(compile(_tree, "<snippet>", "exec"))
    if _last is not None:
        _result = eval(compile(ast.Expression(_last.value), "<snippet>", "eval"))
        if _result is not None:
            print(_result)
except Exception as e:
    print(f"{type(e).__name__}: {e}", file=sys.stderr)
    sys.exit(1)
`

// ToolExecutor runs `tools run` snippets in the shared tools environment.
type ToolExecutor struct {
	root   *store.Root
	interp adapter.CodeInterpreter
}

// NewToolExecutor builds a ToolExecutor bound to root, dispatching through
// interp.
func NewToolExecutor(root *store.Root, interp adapter.CodeInterpreter) *ToolExecutor {
	return &ToolExecutor{root: root, interp: interp}
}

// Run executes code inside the shared tools environment with cwd and
// workspace bound into the wrapper's context variables. The only Go error
// it returns is EnvMissing when the shared tools environment does not
// exist; interpreter failures and timeouts are normalized into the
// returned ExecResult's stderr/return_code.
func (e *ToolExecutor) Run(ctx context.Context, code, cwd, workspace string) (adapter.ExecResult, error) {
	envDir := e.root.ToolsEnvDir()
	if _, err := os.Stat(envDir); err != nil {
		return adapter.ExecResult{}, apperr.EnvMissing(envDir)
	}

	globals := map[string]string{
		"AEP_CWD":       cwd,
		"AEP_WORKSPACE": workspace,
		"AEP_TOOLS_DIR": e.root.ToolsDir(),
		"AEP_CODE_B64":  base64.StdEncoding.EncodeToString([]byte(code)),
	}

	result := runWithTimeout(ctx, toolTimeout, func(runCtx context.Context) (adapter.ExecResult, error) {
		return e.interp.RunSnippet(runCtx, envDir, toolWrapperSource, globals)
	})
	return result, nil
}
