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

func TestParseFrontmatterSplitsBlockAndBody(t *testing.T) {
	content := "---\nname: pdf-merge\ndescription: Merge PDFs.\n---\n\n# Usage\n\nrun it\n"
	metadata, body, err := skills.ParseFrontmatter(content)
	require.NoError(t, err)
	require.Equal(t, "pdf-merge", metadata["name"])
	require.Contains(t, body, "# Usage")
}

func TestParseFrontmatterMissingDelimiter(t *testing.T) {
	_, _, err := skills.ParseFrontmatter("no frontmatter here\n")
	require.Error(t, err)
}

func TestReadPropertiesParsesNestedMetadata(t *testing.T) {
	dir := t.TempDir()
	content := "---\nname: pdf-merge\ndescription: Merge PDFs.\nmetadata:\n  version: \"1\"\n---\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "SKILL.md"), []byte(content), 0o644))

	props, err := skills.ReadProperties(dir)
	require.NoError(t, err)
	require.Equal(t, "pdf-merge", props.Name)
	require.Equal(t, "1", props.Metadata["version"])
}
