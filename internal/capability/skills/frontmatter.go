// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package skills

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// SkillProperties mirrors original_source's SkillProperties dataclass: the
// fields a SKILL.md frontmatter block may carry.
type SkillProperties struct {
	Name          string
	Description   string
	License       string
	Compatibility string
	AllowedTools  string
	Metadata      map[string]string
}

const skillMDName = "SKILL.md"

// FindSkillMD returns the path to dir/SKILL.md if it exists, or "" if not.
func FindSkillMD(dir string) string {
	path := filepath.Join(dir, skillMDName)
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		return path
	}
	return ""
}

// ParseFrontmatter splits content into its YAML frontmatter block (delimited
// by a leading and trailing "---" line) and the remaining body, and decodes
// the frontmatter into a generic map so the validator can inspect exactly
// the fields the author wrote, including ones it doesn't recognize.
func ParseFrontmatter(content string) (map[string]any, string, error) {
	lines := strings.Split(content, "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != "---" {
		return nil, "", fmt.Errorf("skill: missing frontmatter delimiter")
	}

	end := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			end = i
			break
		}
	}
	if end == -1 {
		return nil, "", fmt.Errorf("skill: unterminated frontmatter block")
	}

	yamlBlock := strings.Join(lines[1:end], "\n")
	body := strings.Join(lines[end+1:], "\n")

	var metadata map[string]any
	if err := yaml.Unmarshal([]byte(yamlBlock), &metadata); err != nil {
		return nil, "", fmt.Errorf("skill: parse frontmatter yaml: %w", err)
	}
	if metadata == nil {
		metadata = map[string]any{}
	}

	return metadata, body, nil
}

// ReadProperties reads and parses dir/SKILL.md into a SkillProperties. It
// does not validate; callers should run Validate first.
func ReadProperties(dir string) (*SkillProperties, error) {
	path := FindSkillMD(dir)
	if path == "" {
		return nil, fmt.Errorf("skill: %s not found in %s", skillMDName, dir)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("skill: read %s: %w", path, err)
	}

	metadata, _, err := ParseFrontmatter(string(data))
	if err != nil {
		return nil, err
	}

	props := &SkillProperties{Metadata: map[string]string{}}
	if v, ok := metadata["name"].(string); ok {
		props.Name = v
	}
	if v, ok := metadata["description"].(string); ok {
		props.Description = v
	}
	if v, ok := metadata["license"].(string); ok {
		props.License = v
	}
	if v, ok := metadata["compatibility"].(string); ok {
		props.Compatibility = v
	}
	if v, ok := metadata["allowed-tools"].(string); ok {
		props.AllowedTools = v
	}
	if nested, ok := metadata["metadata"].(map[string]any); ok {
		for k, v := range nested {
			if s, ok := v.(string); ok {
				props.Metadata[k] = s
			}
		}
	}

	return props, nil
}
