// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpbroker

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/Slipstream-Max/Agent-Environment-Protocol/internal/apperr"
	"github.com/Slipstream-Max/Agent-Environment-Protocol/internal/logger"
	"github.com/Slipstream-Max/Agent-Environment-Protocol/internal/provisioner"
	"github.com/Slipstream-Max/Agent-Environment-Protocol/internal/store"
)

// installHints maps well-known stdio launcher commands to an install
// pointer surfaced in PrerequisiteMissingError, grounded on the teacher's
// posix.GetExecutableName style of small pure lookup helpers.
var installHints = map[string]string{
	"npx":    "install Node.js (https://nodejs.org/)",
	"uvx":    "install uv (https://docs.astral.sh/uv/)",
	"docker": "install Docker (https://docs.docker.com/get-docker/)",
}

// Handler manages MCP server registration: add/refresh/remove, each driving
// discovery, stub compilation, and the record write-back.
type Handler struct {
	root *store.Root
	prov *provisioner.Provisioner
	log  logger.Logger
}

// New builds a Handler bound to root, driving environment work through prov.
func New(root *store.Root, prov *provisioner.Provisioner, log logger.Logger) *Handler {
	return &Handler{root: root, prov: prov, log: log}
}

// Add registers an MCP server: validates the record, probes for a missing
// stdio launcher, persists the record with an empty tool list, discovers
// tools, saves the record again with the discovered tools, compiles the
// stub into tools/<name>.py, and installs any declared dependencies into
// the shared tools environment. If discovery fails the persisted record is
// kept and no stub is written.
func (h *Handler) Add(ctx context.Context, rec *store.MCPServerRecord, dependencies []string) (string, error) {
	if err := rec.Validate(); err != nil {
		return "", err
	}

	if rec.Transport == store.TransportStdio {
		if err := probeLauncher(rec.Command[0]); err != nil {
			return "", err
		}
	}

	rec.Tools = nil
	if err := h.root.SaveMCPRecord(rec); err != nil {
		return "", err
	}

	result, err := Discover(ctx, rec)
	if err != nil {
		return "", apperr.DiscoveryFailed(rec.Name, err)
	}
	if result.ListErr != nil {
		h.log.Printf("mcp %s: tools/list failed, stub will only expose call(): %v", rec.Name, result.ListErr)
	}
	rec.Tools = result.Tools

	if err := h.root.SaveMCPRecord(rec); err != nil {
		return "", err
	}

	stub, err := CompileStub(rec)
	if err != nil {
		return "", err
	}

	stubPath := h.root.ToolPath(rec.Name)
	if err := os.WriteFile(stubPath, []byte(stub), 0o644); err != nil {
		return "", fmt.Errorf("mcpbroker: write stub %q: %w", stubPath, err)
	}

	if len(dependencies) > 0 {
		if err := h.prov.Install(ctx, h.root.ToolsEnvDir(), h.root.ToolsManifest(), dependencies); err != nil {
			return "", err
		}
	}

	h.log.Printf("registered mcp server (%s): %s -> tools/%s.py", rec.Transport, rec.Name, rec.Name)
	return stubPath, nil
}

// Refresh re-runs discovery against an already-registered server and
// recompiles its stub in place. The record is kept on disk even if
// discovery fails, so a later refresh can retry.
func (h *Handler) Refresh(ctx context.Context, name string) (string, error) {
	rec, err := h.root.LoadMCPRecord(name)
	if err != nil {
		return "", apperr.NotFound(apperr.KindMCP, name)
	}

	result, err := Discover(ctx, rec)
	if err != nil {
		return "", apperr.DiscoveryFailed(name, err)
	}
	if result.ListErr != nil {
		h.log.Printf("mcp %s: tools/list failed, stub will only expose call(): %v", name, result.ListErr)
	}
	rec.Tools = result.Tools

	if err := h.root.SaveMCPRecord(rec); err != nil {
		return "", err
	}

	stub, err := CompileStub(rec)
	if err != nil {
		return "", err
	}

	stubPath := h.root.ToolPath(name)
	if err := os.WriteFile(stubPath, []byte(stub), 0o644); err != nil {
		return "", fmt.Errorf("mcpbroker: write stub %q: %w", stubPath, err)
	}

	return stubPath, nil
}

// List returns the names of every registered MCP server.
func (h *Handler) List() ([]string, error) {
	return h.root.ListMCPServers()
}

// GetConfig returns the persisted record for name.
func (h *Handler) GetConfig(name string) (*store.MCPServerRecord, error) {
	rec, err := h.root.LoadMCPRecord(name)
	if err != nil {
		return nil, apperr.NotFound(apperr.KindMCP, name)
	}
	return rec, nil
}

// Remove deletes the MCP record and its generated stub.
func (h *Handler) Remove(name string) error {
	if !h.root.HasMCPRecord(name) {
		return apperr.NotFound(apperr.KindMCP, name)
	}
	if err := h.root.RemoveMCPRecord(name); err != nil {
		return err
	}
	return h.root.Remove(store.KindTools, name)
}

// probeLauncher resolves command on PATH, returning PrerequisiteMissing
// with a hint for well-known launchers when it can't be found.
func probeLauncher(command string) error {
	if _, err := exec.LookPath(command); err != nil {
		return apperr.PrerequisiteMissing(command, installHints[command])
	}
	return nil
}
