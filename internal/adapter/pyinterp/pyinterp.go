// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package pyinterp is the default CodeInterpreter collaborator (spec.md
// §6), invoking `python3` inside a per-environment virtualenv. Grounded
// on original_source's ToolExecutor/SkillExecutor (subprocess.run with the
// venv's python binary), generalized behind the adapter.CodeInterpreter
// interface so a host can substitute another runtime.
package pyinterp

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/Slipstream-Max/Agent-Environment-Protocol/internal/adapter"
	"github.com/Slipstream-Max/Agent-Environment-Protocol/internal/helper/gc"
)

// Interpreter shells out to the python binary inside a given environment
// directory.
type Interpreter struct{}

// New returns the default python3 CodeInterpreter adapter.
func New() *Interpreter { return &Interpreter{} }

// RunSnippet runs `<env>/bin/python -c <snippet>` with the given globals
// exported as environment variables so the wrapper script built by
// execengine can read them back (os.environ in the child).
func (p *Interpreter) RunSnippet(ctx context.Context, envDir, snippet string, globals map[string]string) (adapter.ExecResult, error) {
	python, err := pythonBinary(envDir)
	if err != nil {
		return adapter.ExecResult{}, err
	}

	cmd := exec.CommandContext(ctx, python, "-c", snippet)
	cmd.Env = envWithGlobals(globals)
	return run(cmd)
}

// RunFile runs `<env>/bin/python <path> [argv...]` with cwd set.
func (p *Interpreter) RunFile(ctx context.Context, envDir, path string, argv []string, cwd string) (adapter.ExecResult, error) {
	python, err := pythonBinary(envDir)
	if err != nil {
		return adapter.ExecResult{}, err
	}

	args := append([]string{path}, argv...)
	cmd := exec.CommandContext(ctx, python, args...)
	cmd.Dir = cwd
	return run(cmd)
}

// pythonBinary locates the interpreter inside an environment directory:
// bin/python on POSIX systems, Scripts/python.exe on Windows.
func pythonBinary(envDir string) (string, error) {
	candidates := []string{filepath.Join(envDir, "bin", "python")}
	if runtime.GOOS == "windows" {
		candidates = []string{filepath.Join(envDir, "Scripts", "python.exe")}
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c, nil
		}
	}
	return "", &missingInterpreterError{envDir: envDir}
}

type missingInterpreterError struct{ envDir string }

func (e *missingInterpreterError) Error() string {
	return "pyinterp: no python interpreter found under " + e.envDir
}

func envWithGlobals(globals map[string]string) []string {
	env := os.Environ()
	for k, v := range globals {
		env = append(env, k+"="+v)
	}
	return env
}

// run executes cmd, capturing stdout/stderr through pooled buffers. A
// non-zero exit, including a kill on context deadline, is reported through
// ReturnCode with a nil error; mapping an expired deadline to return_code
// 124 and the timeout sentinel is done by the execengine caller.
func run(cmd *exec.Cmd) (adapter.ExecResult, error) {
	outBuf := gc.Default.Get()
	errBuf := gc.Default.Get()
	defer func() {
		outBuf.Reset()
		gc.Default.Put(outBuf)
		errBuf.Reset()
		gc.Default.Put(errBuf)
	}()

	cmd.Stdout = stdoutWriter{outBuf}
	cmd.Stderr = stdoutWriter{errBuf}

	err := cmd.Run()

	result := adapter.ExecResult{
		Stdout: outBuf.String(),
		Stderr: errBuf.String(),
	}

	if cmd.ProcessState != nil {
		result.ReturnCode = cmd.ProcessState.ExitCode()
	}

	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			result.ReturnCode = exitErr.ExitCode()
			return result, nil
		}
		return result, err
	}

	return result, nil
}

// stdoutWriter adapts a gc.Buffer to io.Writer.
type stdoutWriter struct{ buf gc.Buffer }

func (w stdoutWriter) Write(p []byte) (int, error) {
	_, err := w.buf.WriteString(string(p))
	return len(p), err
}
