// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package store

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// MergeManifest reads the existing requirements.txt at path (if any),
// union-merges in the given specifiers, and writes back a sorted,
// deduplicated list with a trailing newline, per spec.md §4.2
// save_manifest. Comments and blank lines in the existing file are
// dropped, matching original_source's BaseHandler.save_requirements
// (set-based merge, no comment preservation).
func MergeManifest(path string, specifiers []string) error {
	existing := map[string]struct{}{}

	if data, err := os.ReadFile(path); err == nil {
		for _, line := range strings.Split(string(data), "\n") {
			line = strings.TrimSpace(line)
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			existing[line] = struct{}{}
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("store: read manifest %q: %w", path, err)
	}

	for _, s := range specifiers {
		s = strings.TrimSpace(s)
		if s != "" {
			existing[s] = struct{}{}
		}
	}

	merged := make([]string, 0, len(existing))
	for s := range existing {
		merged = append(merged, s)
	}
	sort.Strings(merged)

	content := strings.Join(merged, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("store: write manifest %q: %w", path, err)
	}
	return nil
}

// ReadManifest returns the non-empty, non-comment specifier lines in the
// manifest at path. Returns an empty slice if the file doesn't exist.
func ReadManifest(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("store: read manifest %q: %w", path, err)
	}

	var specifiers []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		specifiers = append(specifiers, line)
	}
	return specifiers, nil
}
