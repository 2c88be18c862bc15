// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package provisioner abstracts "isolated dependency space" (spec.md
// §4.2). It drives a PackageInstaller collaborator to create environments
// and install specifiers, and owns the manifest merge/save step.
//
// Grounded on original_source's BaseHandler (ensure_venv,
// install_dependencies, install_from_requirements, save_requirements),
// generalized to an injected collaborator instead of a hardcoded `uv`
// shellout.
package provisioner

import (
	"context"
	"fmt"

	"github.com/Slipstream-Max/Agent-Environment-Protocol/internal/adapter"
	"github.com/Slipstream-Max/Agent-Environment-Protocol/internal/apperr"
	"github.com/Slipstream-Max/Agent-Environment-Protocol/internal/store"
)

// Provisioner wraps a PackageInstaller collaborator with the manifest
// bookkeeping spec.md §4.2 assigns to the core.
type Provisioner struct {
	installer adapter.PackageInstaller
}

// New builds a Provisioner bound to the given installer collaborator.
func New(installer adapter.PackageInstaller) *Provisioner {
	return &Provisioner{installer: installer}
}

// EnsureEnvironment creates envDir if it doesn't already hold an
// environment. Failures are wrapped as apperr.EnvCreationFailedError.
func (p *Provisioner) EnsureEnvironment(ctx context.Context, envDir string) error {
	if err := p.installer.EnsureEnvironment(ctx, envDir); err != nil {
		return apperr.EnvCreationFailed(envDir, err)
	}
	return nil
}

// Install merges specifiers into the manifest at manifestPath, ensures
// envDir exists, then installs them. The calling order mirrors spec.md
// §4.2: copy source (caller's job) → merge manifest → ensure environment
// → install. A failure past the manifest merge leaves the manifest on
// disk so a retry converges.
func (p *Provisioner) Install(ctx context.Context, envDir, manifestPath string, specifiers []string) error {
	if len(specifiers) == 0 {
		return nil
	}

	if err := store.MergeManifest(manifestPath, specifiers); err != nil {
		return fmt.Errorf("provisioner: save manifest: %w", err)
	}

	if err := p.EnsureEnvironment(ctx, envDir); err != nil {
		return err
	}

	if err := p.installer.Install(ctx, envDir, specifiers); err != nil {
		return apperr.InstallFailed(specifiers, err.Error())
	}
	return nil
}

// SyncManifest ensures envDir exists and installs every specifier
// currently listed in the manifest at manifestPath. Used to converge an
// environment whose manifest was updated without installing (e.g. a
// retried Install after a prior failure).
func (p *Provisioner) SyncManifest(ctx context.Context, envDir, manifestPath string) error {
	if err := p.EnsureEnvironment(ctx, envDir); err != nil {
		return err
	}
	if err := p.installer.InstallFromManifest(ctx, envDir, manifestPath); err != nil {
		return apperr.InstallFailed(nil, err.Error())
	}
	return nil
}
