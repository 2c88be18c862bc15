// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package skills

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

const (
	maxSkillNameLength     = 64
	maxDescriptionLength   = 1024
	maxCompatibilityLength = 500
)

var allowedFields = map[string]bool{
	"name":          true,
	"description":   true,
	"license":       true,
	"allowed-tools": true,
	"metadata":      true,
	"compatibility": true,
}

// Validate runs the full SKILL.md validation (spec.md §4.3, skill_dir
// existence through frontmatter field checks) against a skill directory,
// returning every violation found rather than stopping at the first.
func Validate(skillDir string) []string {
	info, err := os.Stat(skillDir)
	if err != nil {
		return []string{fmt.Sprintf("path does not exist: %s", skillDir)}
	}
	if !info.IsDir() {
		return []string{fmt.Sprintf("not a directory: %s", skillDir)}
	}

	path := FindSkillMD(skillDir)
	if path == "" {
		return []string{fmt.Sprintf("missing required file: %s", skillMDName)}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return []string{err.Error()}
	}

	metadata, _, err := ParseFrontmatter(string(data))
	if err != nil {
		return []string{err.Error()}
	}

	return ValidateMetadata(metadata, skillDir)
}

// ValidateMetadata validates parsed frontmatter fields. skillDir, when
// non-empty, is checked against the name field for a directory-name match.
func ValidateMetadata(metadata map[string]any, skillDir string) []string {
	var errs []string
	errs = append(errs, validateMetadataFields(metadata)...)

	rawName, hasName := metadata["name"]
	if !hasName {
		errs = append(errs, "missing required field in frontmatter: name")
	} else {
		errs = append(errs, validateName(rawName, skillDir)...)
	}

	rawDescription, hasDescription := metadata["description"]
	if !hasDescription {
		errs = append(errs, "missing required field in frontmatter: description")
	} else {
		errs = append(errs, validateDescription(rawDescription)...)
	}

	if rawCompat, ok := metadata["compatibility"]; ok {
		errs = append(errs, validateCompatibility(rawCompat)...)
	}

	return errs
}

func validateName(raw any, skillDir string) []string {
	name, ok := raw.(string)
	if !ok || strings.TrimSpace(name) == "" {
		return []string{"field 'name' must be a non-empty string"}
	}

	name = norm.NFKC.String(strings.TrimSpace(name))

	var errs []string
	if n := utf8.RuneCountInString(name); n > maxSkillNameLength {
		errs = append(errs, fmt.Sprintf(
			"skill name %q exceeds %d character limit (%d chars)", name, maxSkillNameLength, n))
	}
	if name != strings.ToLower(name) {
		errs = append(errs, fmt.Sprintf("skill name %q must be lowercase", name))
	}
	if strings.HasPrefix(name, "-") || strings.HasSuffix(name, "-") {
		errs = append(errs, "skill name cannot start or end with a hyphen")
	}
	if strings.Contains(name, "--") {
		errs = append(errs, "skill name cannot contain consecutive hyphens")
	}
	if !isValidNameCharset(name) {
		errs = append(errs, fmt.Sprintf(
			"skill name %q contains invalid characters. Only letters, digits, and hyphens are allowed.", name))
	}

	if skillDir != "" {
		dirName := norm.NFKC.String(filepath.Base(skillDir))
		if dirName != name {
			errs = append(errs, fmt.Sprintf("directory name %q must match skill name %q", filepath.Base(skillDir), name))
		}
	}

	return errs
}

func isValidNameCharset(name string) bool {
	for _, r := range name {
		isAlnum := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
		if !isAlnum && r != '-' {
			return false
		}
	}
	return true
}

func validateDescription(raw any) []string {
	description, ok := raw.(string)
	if !ok || strings.TrimSpace(description) == "" {
		return []string{"field 'description' must be a non-empty string"}
	}
	if n := utf8.RuneCountInString(description); n > maxDescriptionLength {
		return []string{fmt.Sprintf(
			"description exceeds %d character limit (%d chars)", maxDescriptionLength, n)}
	}
	return nil
}

func validateCompatibility(raw any) []string {
	compatibility, ok := raw.(string)
	if !ok {
		return []string{"field 'compatibility' must be a string"}
	}
	if n := utf8.RuneCountInString(compatibility); n > maxCompatibilityLength {
		return []string{fmt.Sprintf(
			"compatibility exceeds %d character limit (%d chars)", maxCompatibilityLength, n)}
	}
	return nil
}

func validateMetadataFields(metadata map[string]any) []string {
	var extra []string
	for k := range metadata {
		if !allowedFields[k] {
			extra = append(extra, k)
		}
	}
	if len(extra) == 0 {
		return nil
	}
	sort.Strings(extra)

	allowed := make([]string, 0, len(allowedFields))
	for k := range allowedFields {
		allowed = append(allowed, k)
	}
	sort.Strings(allowed)

	return []string{fmt.Sprintf(
		"unexpected fields in frontmatter: %s. Only %s are allowed.",
		strings.Join(extra, ", "), strings.Join(allowed, ", "))}
}
