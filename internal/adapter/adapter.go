// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package adapter declares the two external collaborator contracts
// spec.md §6 defines for the core: a package installer and a code
// interpreter runtime. The core depends only on these interfaces; default
// adapters around `uv` and `python3` live in the uvinstaller and pyinterp
// subpackages, and a host program may substitute others.
package adapter

import "context"

// ExecResult is the value record spec.md §3 defines for every executed
// command: stdout/stderr capture plus a return code. 0 = success, 124 =
// timeout, any other non-zero value is surfaced from the child process.
type ExecResult struct {
	Stdout     string
	Stderr     string
	ReturnCode int
}

// PackageInstaller is the external collaborator contract of spec.md
// §6(a): given an environment handle and a list of package specifiers,
// materialize them. The core passes specifier strings through unchanged
// and never interprets version operators.
type PackageInstaller interface {
	// EnsureEnvironment creates a fresh environment at envDir if absent.
	// Idempotent.
	EnsureEnvironment(ctx context.Context, envDir string) error
	// Install installs the given package specifiers into envDir.
	Install(ctx context.Context, envDir string, specifiers []string) error
	// InstallFromManifest installs every specifier listed in the manifest
	// file at manifestPath into envDir.
	InstallFromManifest(ctx context.Context, envDir, manifestPath string) error
}

// CodeInterpreter is the external collaborator contract of spec.md
// §6(b): given an isolated environment handle, execute a source snippet
// or a file.
type CodeInterpreter interface {
	// RunSnippet executes a source snippet inside envDir, with the given
	// string globals bound into the runtime's execution context.
	RunSnippet(ctx context.Context, envDir, snippet string, globals map[string]string) (ExecResult, error)
	// RunFile executes the file at path inside envDir with argv and cwd.
	RunFile(ctx context.Context, envDir, path string, argv []string, cwd string) (ExecResult, error)
}
