// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package skills implements the skills capability handler (spec.md §4.3):
// self-contained scripts or directories validated against the SKILL.md
// frontmatter schema, each with its own isolated environment.
//
// Grounded on original_source's SkillsHandler (skills.py): single-file
// SKILL.md sources are accepted and named from their own frontmatter,
// directory sources are copied wholesale, and a failed validation rolls
// back the copy so an invalid skill directory is never left on disk.
package skills

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/Slipstream-Max/Agent-Environment-Protocol/internal/apperr"
	"github.com/Slipstream-Max/Agent-Environment-Protocol/internal/provisioner"
	"github.com/Slipstream-Max/Agent-Environment-Protocol/internal/store"
)

// Handler manages the skills/ capability directory.
type Handler struct {
	root *store.Root
	prov *provisioner.Provisioner
}

// New builds a Handler bound to root, driving environment work through prov.
func New(root *store.Root, prov *provisioner.Provisioner) *Handler {
	return &Handler{root: root, prov: prov}
}

// Add adds a skill from sourcePath, which may be a directory (copied
// wholesale) or a single SKILL.md file (named from its own frontmatter).
// The added directory is validated before dependencies are installed; an
// invalid skill is rolled back and never left on disk.
func (h *Handler) Add(ctx context.Context, sourcePath, name string, dependencies []string) (string, error) {
	info, err := os.Stat(sourcePath)
	if err != nil {
		return "", fmt.Errorf("skills: source %q: %w", sourcePath, err)
	}

	var skillDir string
	if info.IsDir() {
		if name == "" {
			name = baseName(sourcePath)
		}
		skillDir = h.root.SkillDir(name)
		if err := os.RemoveAll(skillDir); err != nil {
			return "", fmt.Errorf("skills: clear %q: %w", skillDir, err)
		}
		if err := copyDir(sourcePath, skillDir); err != nil {
			return "", fmt.Errorf("skills: add %q: %w", name, err)
		}
	} else {
		if !strings.EqualFold(fileExt(sourcePath), ".md") {
			return "", fmt.Errorf("skills: single-file skill sources must be SKILL.md")
		}

		parsedName, err := singleFileSkillName(sourcePath)
		if err != nil {
			return "", err
		}
		if name != "" && name != parsedName {
			return "", fmt.Errorf("skills: name %q doesn't match SKILL.md name %q", name, parsedName)
		}
		name = parsedName

		skillDir = h.root.SkillDir(name)
		if err := os.RemoveAll(skillDir); err != nil {
			return "", fmt.Errorf("skills: clear %q: %w", skillDir, err)
		}
		if err := os.MkdirAll(skillDir, 0o755); err != nil {
			return "", fmt.Errorf("skills: create %q: %w", skillDir, err)
		}
		if err := copyFile(sourcePath, skillDir+"/"+skillMDName); err != nil {
			return "", fmt.Errorf("skills: add %q: %w", name, err)
		}
	}

	if errs := Validate(skillDir); len(errs) > 0 {
		os.RemoveAll(skillDir)
		return "", apperr.SkillValidationFailed(name, errs)
	}

	if len(dependencies) > 0 {
		if err := h.prov.Install(ctx, h.root.SkillEnvDir(name), h.root.SkillManifest(name), dependencies); err != nil {
			return "", err
		}
	}

	return skillDir, nil
}

// SyncDependencies ensures name's environment exists and installs every
// specifier currently listed in its manifest.
func (h *Handler) SyncDependencies(ctx context.Context, name string) error {
	skillDir := h.root.SkillDir(name)
	if _, err := os.Stat(skillDir); err != nil {
		return apperr.NotFound(apperr.KindSkill, name)
	}
	return h.prov.SyncManifest(ctx, h.root.SkillEnvDir(name), h.root.SkillManifest(name))
}

// List returns the names of every skill directory.
func (h *Handler) List() ([]string, error) {
	return h.root.List(store.KindSkills)
}

// Remove deletes the skill directory. Returns apperr.NotFoundError if it
// doesn't exist.
func (h *Handler) Remove(name string) error {
	if _, err := os.Stat(h.root.SkillDir(name)); err != nil {
		return apperr.NotFound(apperr.KindSkill, name)
	}
	return h.root.Remove(store.KindSkills, name)
}

// GenerateIndex writes skills/index.md, listing each skill's name,
// description, and path as parsed from its frontmatter.
func (h *Handler) GenerateIndex() error {
	names, err := h.List()
	if err != nil {
		return err
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("# Skills\n\n")
	if len(names) == 0 {
		b.WriteString("_no skills available_\n")
	} else {
		b.WriteString("Available skills (name / description / path):\n\n")
		for _, name := range names {
			skillDir := h.root.SkillDir(name)
			props, err := ReadProperties(skillDir)
			if err != nil {
				fmt.Fprintf(&b, "- `%s`: (path: `%s/`)\n", name, name)
				continue
			}
			description := strings.Join(strings.Fields(props.Description), " ")
			fmt.Fprintf(&b, "- `%s`: %s (path: `%s/`)\n", props.Name, description, name)
		}
		b.WriteString("\nRun a skill's script with: `skills run <name>/<script.py>`\n")
	}

	return os.WriteFile(h.root.SkillsDir()+"/index.md", []byte(b.String()), 0o644)
}

func singleFileSkillName(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("skills: read %q: %w", path, err)
	}
	metadata, _, err := ParseFrontmatter(string(data))
	if err != nil {
		return "", err
	}
	name, ok := metadata["name"].(string)
	if !ok || strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("skills: single-file SKILL.md missing a valid name field")
	}
	return strings.TrimSpace(name), nil
}
