// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

var (
	errStdioCommandRequired = errors.New("store: transport=stdio requires a non-empty command")
	errHTTPURLRequired      = errors.New("store: transport=http requires a non-empty url")
	errUnknownTransport     = errors.New("store: unknown transport")
)

// mcpDirName is the on-disk name of the MCP configuration directory. It is
// never mounted into a workspace (spec.md §3, MCPServerRecord).
const mcpDirName = "_mcp"

// Root wraps a canonicalized configuration directory C and exposes the
// layout operations spec.md §4.1 requires: path_of, ensure_directories,
// load/save_mcp_record, list, remove. No I/O beyond file operations; all
// paths are resolved relative to the canonicalized root on open.
type Root struct {
	dir string
}

// Open canonicalizes dir and returns a Root bound to it. The directory is
// not created here; call EnsureDirectories for that.
func Open(dir string) (*Root, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("store: resolve config root %q: %w", dir, err)
	}
	return &Root{dir: abs}, nil
}

// Dir returns the canonicalized configuration root path.
func (r *Root) Dir() string { return r.dir }

// ToolsDir, SkillsDir, LibraryDir, MCPDir return the top-level capability
// directories under the configuration root.
func (r *Root) ToolsDir() string   { return filepath.Join(r.dir, string(KindTools)) }
func (r *Root) SkillsDir() string  { return filepath.Join(r.dir, string(KindSkills)) }
func (r *Root) LibraryDir() string { return filepath.Join(r.dir, string(KindLibrary)) }
func (r *Root) MCPDir() string     { return filepath.Join(r.dir, mcpDirName) }

// ToolsEnvDir is the shared isolated environment every tool module runs
// under (C/tools/.env/).
func (r *Root) ToolsEnvDir() string { return filepath.Join(r.ToolsDir(), ".env") }

// ToolsManifest is the shared dependency manifest (C/tools/requirements.txt).
func (r *Root) ToolsManifest() string { return filepath.Join(r.ToolsDir(), "requirements.txt") }

// SkillDir returns the directory for a single skill.
func (r *Root) SkillDir(name string) string { return filepath.Join(r.SkillsDir(), name) }

// SkillEnvDir returns the per-skill isolated environment directory.
func (r *Root) SkillEnvDir(name string) string { return filepath.Join(r.SkillDir(name), ".env") }

// SkillManifest returns the per-skill dependency manifest path.
func (r *Root) SkillManifest(name string) string {
	return filepath.Join(r.SkillDir(name), "requirements.txt")
}

// ToolPath returns the source module path for a tool, defaulting to a
// ".py" extension (tool/skill payloads are Python per SPEC_FULL.md §1).
func (r *Root) ToolPath(name string) string { return filepath.Join(r.ToolsDir(), name+".py") }

// ToolDocPath returns the optional doc sidecar path for a tool.
func (r *Root) ToolDocPath(name string) string { return filepath.Join(r.ToolsDir(), name+".md") }

// MCPRecordDir returns the per-server MCP configuration directory.
func (r *Root) MCPRecordDir(name string) string { return filepath.Join(r.MCPDir(), name) }

// PathOf resolves a capability's path for the given kind and name, per
// spec.md §4.1's path_of contract. For KindTools this yields the module
// path (<name>.py); for the others, the directory/file the capability
// lives at.
func (r *Root) PathOf(kind Kind, name string) string {
	switch kind {
	case KindTools:
		return r.ToolPath(name)
	case KindSkills:
		return r.SkillDir(name)
	case KindLibrary:
		return filepath.Join(r.LibraryDir(), name)
	default:
		return filepath.Join(r.dir, string(kind), name)
	}
}

// EnsureDirectories creates tools/, skills/, library/, _mcp/ under the
// config root if absent. Idempotent.
func (r *Root) EnsureDirectories() error {
	for _, dir := range []string{r.dir, r.ToolsDir(), r.SkillsDir(), r.LibraryDir(), r.MCPDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("store: ensure directory %q: %w", dir, err)
		}
	}
	return nil
}

// List returns the capability names present for the given kind. Generated
// index files and dotfiles are excluded; names starting with "_" are
// excluded from KindTools per spec.md §4.3 (tools.list()).
func (r *Root) List(kind Kind) ([]string, error) {
	var dir string
	switch kind {
	case KindTools:
		dir = r.ToolsDir()
	case KindSkills:
		dir = r.SkillsDir()
	case KindLibrary:
		dir = r.LibraryDir()
	default:
		return nil, fmt.Errorf("store: unknown kind %q", kind)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("store: list %s: %w", kind, err)
	}

	var names []string
	for _, e := range entries {
		name := e.Name()
		switch kind {
		case KindTools:
			if e.IsDir() || filepath.Ext(name) != ".py" {
				continue
			}
			stem := name[:len(name)-len(".py")]
			if stem == "" || stem[0] == '_' || stem[0] == '.' {
				continue
			}
			names = append(names, stem)
		case KindSkills:
			if !e.IsDir() || name[0] == '.' {
				continue
			}
			names = append(names, name)
		case KindLibrary:
			if e.IsDir() || name == "index.md" || name[0] == '.' {
				continue
			}
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// Remove deletes the on-disk capability for kind/name. Tools removal also
// unlinks the optional doc sidecar; it does not touch the _mcp record
// (that's the mcpbroker handler's job per spec.md §9 open question (c)).
func (r *Root) Remove(kind Kind, name string) error {
	switch kind {
	case KindTools:
		if err := removeIfExists(r.ToolPath(name)); err != nil {
			return err
		}
		return removeIfExists(r.ToolDocPath(name))
	case KindSkills:
		return removeAllIfExists(r.SkillDir(name))
	case KindLibrary:
		return removeIfExists(filepath.Join(r.LibraryDir(), name))
	default:
		return fmt.Errorf("store: unknown kind %q", kind)
	}
}

// LoadMCPRecord reads and parses C/_mcp/<name>/config.json. Unknown JSON
// fields are preserved in Extra so a later SaveMCPRecord write-back
// doesn't drop them.
func (r *Root) LoadMCPRecord(name string) (*MCPServerRecord, error) {
	path := filepath.Join(r.MCPRecordDir(name), "config.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("store: load mcp record %q: %w", name, err)
	}

	rec := &MCPServerRecord{}
	if err := json.Unmarshal(data, rec); err != nil {
		return nil, fmt.Errorf("store: parse mcp record %q: %w", name, err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err == nil {
		known := map[string]bool{
			"name": true, "transport": true, "command": true, "env": true,
			"url": true, "headers": true, "tools": true,
		}
		extra := make(map[string]json.RawMessage)
		for k, v := range raw {
			if !known[k] {
				extra[k] = v
			}
		}
		if len(extra) > 0 {
			rec.Extra = extra
		}
	}

	return rec, nil
}

// SaveMCPRecord writes C/_mcp/<name>/config.json, preserving any fields
// captured in Extra on the prior load.
func (r *Root) SaveMCPRecord(rec *MCPServerRecord) error {
	dir := r.MCPRecordDir(rec.Name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("store: ensure mcp record dir %q: %w", rec.Name, err)
	}

	out := map[string]json.RawMessage{}
	for k, v := range rec.Extra {
		out[k] = v
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("store: marshal mcp record %q: %w", rec.Name, err)
	}
	var known map[string]json.RawMessage
	if err := json.Unmarshal(data, &known); err != nil {
		return fmt.Errorf("store: re-marshal mcp record %q: %w", rec.Name, err)
	}
	for k, v := range known {
		out[k] = v
	}

	final, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("store: marshal mcp record %q: %w", rec.Name, err)
	}

	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, final, 0o644); err != nil {
		return fmt.Errorf("store: write mcp record %q: %w", rec.Name, err)
	}
	return nil
}

// ListMCPServers returns the names of every registered MCP server.
func (r *Root) ListMCPServers() ([]string, error) {
	entries, err := os.ReadDir(r.MCPDir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("store: list mcp servers: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// RemoveMCPRecord deletes C/_mcp/<name>/ entirely.
func (r *Root) RemoveMCPRecord(name string) error {
	return removeAllIfExists(r.MCPRecordDir(name))
}

// HasMCPRecord reports whether an MCP server record exists for name. Used
// by tools.generate_index to annotate stub entries with "(MCP)".
func (r *Root) HasMCPRecord(name string) bool {
	_, err := os.Stat(filepath.Join(r.MCPRecordDir(name), "config.json"))
	return err == nil
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("store: remove %q: %w", path, err)
	}
	return nil
}

func removeAllIfExists(path string) error {
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("store: remove %q: %w", path, err)
	}
	return nil
}
