// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package apperr defines the error taxonomy the broker surfaces at its
// configuration-phase call sites. Runtime-phase failures (those an agent
// should see through session.Exec) are normalized into an ExecResult
// instead and never reach this package's callers.
package apperr

import "fmt"

// Kind identifies which capability a NotFound error was raised against.
type Kind string

const (
	KindTool    Kind = "tool"
	KindSkill   Kind = "skill"
	KindLibrary Kind = "library"
	KindMCP     Kind = "mcp"
)

// NotFoundError is raised by any tool/skill/library/MCP lookup that fails
// to resolve a name.
type NotFoundError struct {
	Kind Kind
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.Name)
}

// NotFound builds a NotFoundError for the given kind/name pair.
func NotFound(kind Kind, name string) error {
	return &NotFoundError{Kind: kind, Name: name}
}

// AlreadyExistsError is raised by add paths that refuse to overwrite an
// existing capability.
type AlreadyExistsError struct {
	Kind Kind
	Name string
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("%s already exists: %s", e.Kind, e.Name)
}

// AlreadyExists builds an AlreadyExistsError.
func AlreadyExists(kind Kind, name string) error {
	return &AlreadyExistsError{Kind: kind, Name: name}
}

// SkillValidationError is raised by the SKILL.md validator. It always
// carries every violation found, never just the first.
type SkillValidationError struct {
	Name   string
	Errors []string
}

func (e *SkillValidationError) Error() string {
	msg := fmt.Sprintf("skill %q failed validation:", e.Name)
	for _, err := range e.Errors {
		msg += "\n  - " + err
	}
	return msg
}

// SkillValidationFailed builds a SkillValidationError.
func SkillValidationFailed(name string, errs []string) error {
	return &SkillValidationError{Name: name, Errors: errs}
}

// PrerequisiteMissingError is raised when an MCP stdio server's launcher
// executable cannot be resolved on PATH.
type PrerequisiteMissingError struct {
	Command string
	Hint    string
}

func (e *PrerequisiteMissingError) Error() string {
	if e.Hint == "" {
		return fmt.Sprintf("prerequisite missing: %s not found on PATH", e.Command)
	}
	return fmt.Sprintf("prerequisite missing: %s not found on PATH (%s)", e.Command, e.Hint)
}

// PrerequisiteMissing builds a PrerequisiteMissingError.
func PrerequisiteMissing(command, hint string) error {
	return &PrerequisiteMissingError{Command: command, Hint: hint}
}

// DiscoveryFailedError is raised when MCP discovery (initialize/list_tools)
// fails. The caller keeps the MCP server record so a later refresh can
// retry; only the stub generation step is skipped.
type DiscoveryFailedError struct {
	Name  string
	Cause error
}

func (e *DiscoveryFailedError) Error() string {
	return fmt.Sprintf("mcp discovery failed for %q: %v", e.Name, e.Cause)
}

func (e *DiscoveryFailedError) Unwrap() error { return e.Cause }

// DiscoveryFailed builds a DiscoveryFailedError.
func DiscoveryFailed(name string, cause error) error {
	return &DiscoveryFailedError{Name: name, Cause: cause}
}

// EnvCreationFailedError is raised by the provisioner when the package
// installer collaborator cannot create an environment.
type EnvCreationFailedError struct {
	EnvDir string
	Cause  error
}

func (e *EnvCreationFailedError) Error() string {
	return fmt.Sprintf("environment creation failed at %q: %v", e.EnvDir, e.Cause)
}

func (e *EnvCreationFailedError) Unwrap() error { return e.Cause }

// EnvCreationFailed builds an EnvCreationFailedError.
func EnvCreationFailed(envDir string, cause error) error {
	return &EnvCreationFailedError{EnvDir: envDir, Cause: cause}
}

// InstallFailedError is raised by the provisioner when a package install
// invocation fails. The manifest is left on disk so a later retry can
// converge.
type InstallFailedError struct {
	Specifiers []string
	Stderr     string
}

func (e *InstallFailedError) Error() string {
	return fmt.Sprintf("install failed for %v: %s", e.Specifiers, e.Stderr)
}

// InstallFailed builds an InstallFailedError.
func InstallFailed(specifiers []string, stderr string) error {
	return &InstallFailedError{Specifiers: specifiers, Stderr: stderr}
}

// BadRunSyntaxError is raised by the "tools run" parser when the opaque
// argument isn't quoted in one of the recognized forms.
type BadRunSyntaxError struct {
	Input string
}

func (e *BadRunSyntaxError) Error() string {
	return fmt.Sprintf("bad tools run syntax: %q must be quoted", e.Input)
}

// BadRunSyntax builds a BadRunSyntaxError.
func BadRunSyntax(input string) error {
	return &BadRunSyntaxError{Input: input}
}

// WorkspaceConflictError is raised by Attach when a protocol-directory
// child exists and is not a symlink the binder can safely replace.
type WorkspaceConflictError struct {
	Path string
}

func (e *WorkspaceConflictError) Error() string {
	return fmt.Sprintf("workspace conflict: %s exists and is not a symlink", e.Path)
}

// WorkspaceConflict builds a WorkspaceConflictError.
func WorkspaceConflict(path string) error {
	return &WorkspaceConflictError{Path: path}
}

// EnvMissingError is raised by the executors when an isolated environment
// has not yet been provisioned for the capability being invoked.
type EnvMissingError struct {
	EnvDir string
}

func (e *EnvMissingError) Error() string {
	return fmt.Sprintf("environment missing: %s", e.EnvDir)
}

// EnvMissing builds an EnvMissingError.
func EnvMissing(envDir string) error {
	return &EnvMissingError{EnvDir: envDir}
}
