// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package library implements the library capability handler (spec.md
// §4.3): reference documents with no execution semantics, just copy/list/
// remove/index.
//
// Grounded on original_source's LibraryHandler (library.py), which is the
// simplest of the three handlers since it never touches an environment.
package library

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Slipstream-Max/Agent-Environment-Protocol/internal/apperr"
	"github.com/Slipstream-Max/Agent-Environment-Protocol/internal/store"
)

// Handler manages the library/ capability directory.
type Handler struct {
	root *store.Root
}

// New builds a Handler bound to root.
func New(root *store.Root) *Handler {
	return &Handler{root: root}
}

// Add copies the file at sourcePath into the library directory under name,
// defaulting name to the source's base name.
func (h *Handler) Add(sourcePath, name string) (string, error) {
	if name == "" {
		name = filepath.Base(sourcePath)
	}

	target := filepath.Join(h.root.LibraryDir(), name)
	in, err := os.Open(sourcePath)
	if err != nil {
		return "", fmt.Errorf("library: open source %q: %w", sourcePath, err)
	}
	defer in.Close()

	out, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("library: create target %q: %w", target, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return "", fmt.Errorf("library: copy %q -> %q: %w", sourcePath, target, err)
	}

	return target, nil
}

// List returns every library file name, excluding the generated index.
func (h *Handler) List() ([]string, error) {
	return h.root.List(store.KindLibrary)
}

// Remove deletes the named library file. Returns apperr.NotFoundError if it
// doesn't exist.
func (h *Handler) Remove(name string) error {
	if _, err := os.Stat(filepath.Join(h.root.LibraryDir(), name)); err != nil {
		return apperr.NotFound(apperr.KindLibrary, name)
	}
	return h.root.Remove(store.KindLibrary, name)
}

// GenerateIndex writes library/index.md listing every file.
func (h *Handler) GenerateIndex() error {
	names, err := h.List()
	if err != nil {
		return err
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("# Library\n\n")
	if len(names) == 0 {
		b.WriteString("_no library files available_\n")
	} else {
		b.WriteString("Available reference files:\n\n")
		for _, name := range names {
			fmt.Fprintf(&b, "- `%s`: view with `cat <path_to_library>/%s`\n", name, name)
		}
	}

	return os.WriteFile(filepath.Join(h.root.LibraryDir(), "index.md"), []byte(b.String()), 0o644)
}
