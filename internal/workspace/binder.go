// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package workspace binds a configuration root into an agent's working
// directory (spec.md §4.5) and exposes a read-only virtual filesystem over
// the bound directories (spec.md §4.6 ls/cat/grep supplement).
//
// Grounded on spec.md §4.5 for Attach/Detach semantics and on
// original_source's AgentEnvironment (enviroment.py) for the FSView.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Slipstream-Max/Agent-Environment-Protocol/internal/apperr"
	"github.com/Slipstream-Max/Agent-Environment-Protocol/internal/store"
)

// DefaultProtocolDirName is the child directory under a workspace that
// holds the three capability symlinks, absent an explicit override.
const DefaultProtocolDirName = ".agent"

var linkedKinds = []store.Kind{store.KindTools, store.KindSkills, store.KindLibrary}

// Binder attaches a configuration root to a workspace directory via
// symlinks under a protocol directory.
type Binder struct {
	workspace       string
	root            *store.Root
	protocolDirName string
}

// Attach resolves workspace absolutely, creates its protocol directory if
// absent, and links tools/skills/library into it from root. protocolDir
// defaults to DefaultProtocolDirName when empty. A pre-existing,
// non-symlink child aborts the whole attach with apperr.WorkspaceConflict,
// leaving every directory untouched.
func Attach(workspace string, root *store.Root, protocolDir string) (*Binder, error) {
	if protocolDir == "" {
		protocolDir = DefaultProtocolDirName
	}

	absWorkspace, err := filepath.Abs(workspace)
	if err != nil {
		return nil, fmt.Errorf("workspace: resolve %q: %w", workspace, err)
	}

	protocolPath := filepath.Join(absWorkspace, protocolDir)

	for _, kind := range linkedKinds {
		linkPath := filepath.Join(protocolPath, string(kind))
		if info, err := os.Lstat(linkPath); err == nil && info.Mode()&os.ModeSymlink == 0 {
			return nil, apperr.WorkspaceConflict(linkPath)
		}
	}

	if err := os.MkdirAll(protocolPath, 0o755); err != nil {
		return nil, fmt.Errorf("workspace: create protocol dir %q: %w", protocolPath, err)
	}

	for _, kind := range linkedKinds {
		linkPath := filepath.Join(protocolPath, string(kind))
		target := capabilityDir(root, kind)

		if info, err := os.Lstat(linkPath); err == nil {
			if info.Mode()&os.ModeSymlink == 0 {
				return nil, apperr.WorkspaceConflict(linkPath)
			}
			if err := os.Remove(linkPath); err != nil {
				return nil, fmt.Errorf("workspace: replace link %q: %w", linkPath, err)
			}
		}

		if err := os.Symlink(target, linkPath); err != nil {
			return nil, fmt.Errorf("workspace: link %q -> %q: %w", linkPath, target, err)
		}
	}

	return &Binder{workspace: absWorkspace, root: root, protocolDirName: protocolDir}, nil
}

// Detach removes the three capability symlinks. If the protocol directory
// is empty afterward, it is removed too.
func (b *Binder) Detach() error {
	protocolPath := filepath.Join(b.workspace, b.protocolDirName)

	for _, kind := range linkedKinds {
		linkPath := filepath.Join(protocolPath, string(kind))
		if err := os.Remove(linkPath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("workspace: remove link %q: %w", linkPath, err)
		}
	}

	entries, err := os.ReadDir(protocolPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("workspace: read protocol dir %q: %w", protocolPath, err)
	}
	if len(entries) == 0 {
		if err := os.Remove(protocolPath); err != nil {
			return fmt.Errorf("workspace: remove empty protocol dir %q: %w", protocolPath, err)
		}
	}
	return nil
}

// Workspace returns the absolute workspace path this binder is attached to.
func (b *Binder) Workspace() string { return b.workspace }

// Root returns the configuration root this binder links from.
func (b *Binder) Root() *store.Root { return b.root }

// ProtocolDir returns the absolute path of the protocol directory.
func (b *Binder) ProtocolDir() string {
	return filepath.Join(b.workspace, b.protocolDirName)
}

func capabilityDir(root *store.Root, kind store.Kind) string {
	switch kind {
	case store.KindTools:
		return root.ToolsDir()
	case store.KindSkills:
		return root.SkillsDir()
	case store.KindLibrary:
		return root.LibraryDir()
	default:
		return ""
	}
}
