// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package tools implements the tools capability handler (spec.md §4.3): add,
// list, remove, and index generation for single-file Python modules that
// share one isolated environment.
//
// Grounded on original_source's ToolsHandler (tools.py): the same add
// ordering (copy module, merge manifest, ensure environment, install) and
// the same "_"-prefix exclusion and MCP annotation in generate_index.
package tools

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/Slipstream-Max/Agent-Environment-Protocol/internal/apperr"
	"github.com/Slipstream-Max/Agent-Environment-Protocol/internal/provisioner"
	"github.com/Slipstream-Max/Agent-Environment-Protocol/internal/store"
)

// Handler manages the tools/ capability directory.
type Handler struct {
	root *store.Root
	prov *provisioner.Provisioner
}

// New builds a Handler bound to root, driving environment work through prov.
func New(root *store.Root, prov *provisioner.Provisioner) *Handler {
	return &Handler{root: root, prov: prov}
}

// Add copies the module at sourcePath into the tools directory under name,
// merges dependencies into the shared manifest, and installs them into the
// shared tools environment. The ordering mirrors ToolsHandler.add: copy,
// save requirements, ensure venv, install.
func (h *Handler) Add(ctx context.Context, sourcePath, name string, dependencies []string) (string, error) {
	if name == "" {
		name = strings.TrimSuffix(baseName(sourcePath), ".py")
	}

	target := h.root.ToolPath(name)
	if err := copyFile(sourcePath, target); err != nil {
		return "", fmt.Errorf("tools: add %q: %w", name, err)
	}

	if len(dependencies) > 0 {
		if err := h.prov.Install(ctx, h.root.ToolsEnvDir(), h.root.ToolsManifest(), dependencies); err != nil {
			return "", err
		}
	}

	return target, nil
}

// AddDependencies merges packages into the shared manifest and installs
// them into the shared tools environment, without adding a tool module.
func (h *Handler) AddDependencies(ctx context.Context, packages []string) error {
	return h.prov.Install(ctx, h.root.ToolsEnvDir(), h.root.ToolsManifest(), packages)
}

// SyncDependencies ensures the shared tools environment exists and installs
// every specifier currently listed in its manifest.
func (h *Handler) SyncDependencies(ctx context.Context) error {
	return h.prov.SyncManifest(ctx, h.root.ToolsEnvDir(), h.root.ToolsManifest())
}

// List returns the names of every tool module, excluding any name prefixed
// with "_" (reserved for helper modules tools import but don't expose).
func (h *Handler) List() ([]string, error) {
	return h.root.List(store.KindTools)
}

// Remove deletes the tool module and its optional doc sidecar. Returns
// apperr.NotFoundError if no such tool exists.
func (h *Handler) Remove(name string) error {
	if _, err := os.Stat(h.root.ToolPath(name)); err != nil {
		return apperr.NotFound(apperr.KindTool, name)
	}
	return h.root.Remove(store.KindTools, name)
}

// GenerateIndex writes tools/index.md, listing every tool and annotating
// the ones backed by an MCP server record with "(MCP)".
func (h *Handler) GenerateIndex() error {
	names, err := h.List()
	if err != nil {
		return err
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("# Tools\n\n")
	if len(names) == 0 {
		b.WriteString("_no tools available_\n")
	} else {
		b.WriteString("Available tools:\n\n")
		for _, name := range names {
			if h.root.HasMCPRecord(name) {
				fmt.Fprintf(&b, "- `%s` (MCP): use `tools run \"tools.%s.<func>(...)\"`\n", name, name)
			} else {
				fmt.Fprintf(&b, "- `%s`: use `tools run \"tools.%s.<func>(...)\"`\n", name, name)
			}
		}
	}

	return os.WriteFile(h.root.ToolsDir()+"/index.md", []byte(b.String()), 0o644)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source %q: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create target %q: %w", dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy %q -> %q: %w", src, dst, err)
	}
	return nil
}

func baseName(path string) string {
	if i := strings.LastIndexAny(path, `/\`); i >= 0 {
		return path[i+1:]
	}
	return path
}
