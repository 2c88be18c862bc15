// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package session implements the single-threaded command interpreter of
// spec.md §4.6: command routing over tools/skills/cd/export, shell
// passthrough, and system-prompt context assembly.
//
// Grounded on original_source's AEPSession.
package session

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/Slipstream-Max/Agent-Environment-Protocol/internal/adapter"
	"github.com/Slipstream-Max/Agent-Environment-Protocol/internal/execengine"
	"github.com/Slipstream-Max/Agent-Environment-Protocol/internal/helper/gc"
	"github.com/Slipstream-Max/Agent-Environment-Protocol/internal/store"
)

// shellTimeout bounds shell-passthrough commands, per spec.md §5.
const shellTimeout = 60 * time.Second

// Session holds interpreter state (cwd, custom env) for one agent
// interaction. It is not safe for concurrent use: commands within a
// session execute strictly sequentially per spec.md §5.
type Session struct {
	workspace string
	root      *store.Root
	cwd       string
	env       map[string]string

	toolExec  *execengine.ToolExecutor
	skillExec *execengine.SkillExecutor
}

// New opens a session rooted at workspace, backed by root's tools/skills
// capability directories.
func New(workspace string, root *store.Root, interp adapter.CodeInterpreter) *Session {
	return &Session{
		workspace: workspace,
		root:      root,
		cwd:       workspace,
		env:       map[string]string{},
		toolExec:  execengine.NewToolExecutor(root, interp),
		skillExec: execengine.NewSkillExecutor(root, interp),
	}
}

// Cwd returns the session's current working directory.
func (s *Session) Cwd() string { return s.cwd }

// Exec routes command to the matching handler and returns its result.
// Every outcome — including a malformed command or a missing capability —
// comes back as an ExecResult; Exec never returns a Go error.
func (s *Session) Exec(ctx context.Context, command string) adapter.ExecResult {
	command = strings.TrimSpace(command)
	if command == "" {
		return adapter.ExecResult{}
	}

	if rest, ok := strings.CutPrefix(command, "tools run "); ok {
		return s.handleToolsRun(ctx, rest)
	}

	parts, err := splitFields(command)
	if err != nil {
		return adapter.ExecResult{Stderr: fmt.Sprintf("parse error: %v", err), ReturnCode: 1}
	}
	if len(parts) == 0 {
		return adapter.ExecResult{}
	}

	switch parts[0] {
	case "tools":
		return s.handleTools(ctx, parts[1:])
	case "skills":
		return s.handleSkills(ctx, parts[1:])
	case "cd":
		return s.handleCd(parts[1:])
	case "export":
		return s.handleExport(parts[1:])
	default:
		return s.shellPassthrough(ctx, command)
	}
}

func (s *Session) handleTools(ctx context.Context, args []string) adapter.ExecResult {
	if len(args) == 0 {
		return adapter.ExecResult{
			Stderr:     "usage: tools <list|info|run> [args]",
			ReturnCode: 1,
		}
	}

	switch args[0] {
	case "list":
		return s.streamIndex(s.root.ToolsDir(), "no tools registered")
	case "info":
		if len(args) < 2 {
			return adapter.ExecResult{Stderr: "usage: tools info <name>", ReturnCode: 1}
		}
		return s.toolsInfo(args[1])
	case "run":
		if len(args) < 2 {
			return adapter.ExecResult{Stderr: `usage: tools run "<code>"`, ReturnCode: 1}
		}
		return s.handleToolsRun(ctx, args[1])
	default:
		return adapter.ExecResult{Stderr: fmt.Sprintf("unknown subcommand: %s", args[0]), ReturnCode: 1}
	}
}

func (s *Session) handleToolsRun(ctx context.Context, codeArg string) adapter.ExecResult {
	codeArg = strings.TrimSpace(codeArg)
	if codeArg == "" {
		return adapter.ExecResult{Stderr: `usage: tools run "<code>"`, ReturnCode: 1}
	}

	code, ok := extractQuotedCode(codeArg)
	if !ok {
		return adapter.ExecResult{
			Stderr:     `code must be quoted: tools run "code" or tools run '''code'''`,
			ReturnCode: 1,
		}
	}

	result, err := s.toolExec.Run(ctx, code, s.cwd, s.workspace)
	if err != nil {
		return adapter.ExecResult{Stderr: err.Error(), ReturnCode: 1}
	}
	return result
}

func (s *Session) toolsInfo(name string) adapter.ExecResult {
	docPath := s.root.ToolDocPath(name)
	if content, err := os.ReadFile(docPath); err == nil {
		return adapter.ExecResult{Stdout: string(content)}
	}

	modPath := s.root.ToolPath(name)
	content, err := os.ReadFile(modPath)
	if err != nil {
		return adapter.ExecResult{Stderr: fmt.Sprintf("tool not found: %s", name), ReturnCode: 1}
	}

	if doc, ok := topDocstring(string(content)); ok {
		return adapter.ExecResult{Stdout: doc}
	}
	return adapter.ExecResult{Stdout: fmt.Sprintf("tool %s exists but has no documentation.", name)}
}

func (s *Session) handleSkills(ctx context.Context, args []string) adapter.ExecResult {
	if len(args) == 0 {
		return adapter.ExecResult{
			Stderr:     "usage: skills <list|info|run> [args]",
			ReturnCode: 1,
		}
	}

	switch args[0] {
	case "list":
		return s.streamIndex(s.root.SkillsDir(), "no skills registered")
	case "info":
		if len(args) < 2 {
			return adapter.ExecResult{Stderr: "usage: skills info <name>", ReturnCode: 1}
		}
		return s.skillsInfo(args[1])
	case "run":
		if len(args) < 2 {
			return adapter.ExecResult{Stderr: "usage: skills run <path> [args]", ReturnCode: 1}
		}
		result, err := s.skillExec.Run(ctx, args[1], args[2:])
		if err != nil {
			return adapter.ExecResult{Stderr: err.Error(), ReturnCode: 1}
		}
		return result
	default:
		return adapter.ExecResult{Stderr: fmt.Sprintf("unknown subcommand: %s", args[0]), ReturnCode: 1}
	}
}

func (s *Session) skillsInfo(name string) adapter.ExecResult {
	skillDir := s.root.SkillDir(name)
	info, err := os.Stat(skillDir)
	if err != nil || !info.IsDir() {
		return adapter.ExecResult{Stderr: fmt.Sprintf("skill not found: %s", name), ReturnCode: 1}
	}

	for _, docName := range []string{"SKILL.md", "README.md"} {
		content, err := os.ReadFile(filepath.Join(skillDir, docName))
		if err == nil {
			return adapter.ExecResult{Stdout: string(content)}
		}
	}
	return adapter.ExecResult{Stdout: fmt.Sprintf("skill %s exists but has no documentation.", name)}
}

func (s *Session) handleCd(args []string) adapter.ExecResult {
	if len(args) == 0 {
		s.cwd = s.workspace
		return adapter.ExecResult{Stdout: s.cwd}
	}

	target := args[0]
	var newPath string
	if filepath.IsAbs(target) {
		newPath = filepath.Clean(target)
	} else {
		newPath = filepath.Join(s.cwd, target)
	}

	info, err := os.Stat(newPath)
	if err != nil {
		return adapter.ExecResult{Stderr: fmt.Sprintf("directory does not exist: %s", newPath), ReturnCode: 1}
	}
	if !info.IsDir() {
		return adapter.ExecResult{Stderr: fmt.Sprintf("not a directory: %s", newPath), ReturnCode: 1}
	}

	s.cwd = newPath
	return adapter.ExecResult{Stdout: s.cwd}
}

func (s *Session) handleExport(args []string) adapter.ExecResult {
	if len(args) == 0 {
		if len(s.env) == 0 {
			return adapter.ExecResult{Stdout: "(no custom environment variables)"}
		}
		keys := make([]string, 0, len(s.env))
		for k := range s.env {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		lines := make([]string, 0, len(keys))
		for _, k := range keys {
			lines = append(lines, fmt.Sprintf("%s=%s", k, s.env[k]))
		}
		return adapter.ExecResult{Stdout: strings.Join(lines, "\n")}
	}

	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			return adapter.ExecResult{Stderr: fmt.Sprintf("invalid format: %s, expected KEY=VALUE", arg), ReturnCode: 1}
		}
		s.env[key] = value
	}
	return adapter.ExecResult{}
}

func (s *Session) shellPassthrough(ctx context.Context, command string) adapter.ExecResult {
	runCtx, cancel := context.WithTimeout(ctx, shellTimeout)
	defer cancel()

	shell, flag := "sh", "-c"
	if runtime.GOOS == "windows" {
		shell, flag = "cmd", "/C"
	}

	cmd := exec.CommandContext(runCtx, shell, flag, command)
	cmd.Dir = s.cwd
	cmd.Env = os.Environ()
	for k, v := range s.env {
		cmd.Env = append(cmd.Env, k+"="+v)
	}

	outBuf := gc.Default.Get()
	errBuf := gc.Default.Get()
	defer func() {
		outBuf.Reset()
		gc.Default.Put(outBuf)
		errBuf.Reset()
		gc.Default.Put(errBuf)
	}()
	cmd.Stdout = bufWriter{outBuf}
	cmd.Stderr = bufWriter{errBuf}

	err := cmd.Run()

	if runCtx.Err() != nil {
		return adapter.ExecResult{Stderr: "执行超时", ReturnCode: 124}
	}

	result := adapter.ExecResult{Stdout: outBuf.String(), Stderr: errBuf.String()}
	if cmd.ProcessState != nil {
		result.ReturnCode = cmd.ProcessState.ExitCode()
	}
	if err != nil {
		if _, ok := err.(*exec.ExitError); !ok {
			result.Stderr = fmt.Sprintf("execution error: %v", err)
			result.ReturnCode = 1
		}
	}
	return result
}

// GetContext concatenates the three capability index documents (if
// present) with blank-line separators, for use as system-prompt seed
// material.
func (s *Session) GetContext() string {
	var parts []string
	for _, dir := range []string{s.root.ToolsDir(), s.root.SkillsDir(), s.root.LibraryDir()} {
		content, err := os.ReadFile(filepath.Join(dir, "index.md"))
		if err == nil {
			parts = append(parts, string(content))
		}
	}
	return strings.Join(parts, "\n\n")
}

func (s *Session) streamIndex(dir, emptyMessage string) adapter.ExecResult {
	content, err := os.ReadFile(filepath.Join(dir, "index.md"))
	if err != nil {
		return adapter.ExecResult{Stdout: "_" + emptyMessage + "_\n"}
	}
	return adapter.ExecResult{Stdout: string(content)}
}

// bufWriter adapts a gc.Buffer to io.Writer for use as a cmd.Stdout/Stderr
// sink.
type bufWriter struct{ buf gc.Buffer }

func (w bufWriter) Write(p []byte) (int, error) {
	_, err := w.buf.WriteString(string(p))
	return len(p), err
}

// topDocstring extracts the top `"""..."""` block from a Python module's
// source, used as a fallback doc when no sibling .md file exists.
func topDocstring(source string) (string, bool) {
	if !strings.HasPrefix(source, `"""`) {
		return "", false
	}
	end := strings.Index(source[3:], `"""`)
	if end < 0 {
		return "", false
	}
	return strings.TrimSpace(source[3 : 3+end]), true
}
