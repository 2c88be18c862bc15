// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package skills_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Slipstream-Max/Agent-Environment-Protocol/internal/capability/skills"
)

func writeSkillMD(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "SKILL.md"), []byte(content), 0o644))
}

func TestValidateAcceptsWellFormedSkill(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "pdf-merge")
	writeSkillMD(t, dir, "---\nname: pdf-merge\ndescription: Merge PDF files together.\n---\n\nbody\n")

	require.Empty(t, skills.Validate(dir))
}

func TestValidateRejectsUppercaseName(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "PDF-Merge")
	writeSkillMD(t, dir, "---\nname: PDF-Merge\ndescription: Merge PDF files.\n---\n")

	errs := skills.Validate(dir)
	require.NotEmpty(t, errs)
}

func TestValidateRejectsDirectoryNameMismatch(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "other-name")
	writeSkillMD(t, dir, "---\nname: pdf-merge\ndescription: Merge PDF files.\n---\n")

	errs := skills.Validate(dir)
	require.NotEmpty(t, errs)
}

func TestValidateRejectsUnknownFrontmatterFields(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "pdf-merge")
	writeSkillMD(t, dir, "---\nname: pdf-merge\ndescription: Merge PDF files.\nauthor: nobody\n---\n")

	errs := skills.Validate(dir)
	require.NotEmpty(t, errs)
}

func TestValidateMissingSkillMD(t *testing.T) {
	dir := t.TempDir()
	errs := skills.Validate(dir)
	require.NotEmpty(t, errs)
}

func TestValidateCollectsAllErrorsNotJustFirst(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "Bad--Name-")
	writeSkillMD(t, dir, "---\nname: Bad--Name-\ndescription: \n---\n")

	errs := skills.Validate(dir)
	require.GreaterOrEqual(t, len(errs), 3)
}
