// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package posix

import (
	"os"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetExecutableName(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{name: "Relative path", args: []string{"./aep"}, expected: "aep"},
		{name: "Just filename", args: []string{"aep"}, expected: "aep"},
		{name: "Empty args", args: []string{}, expected: "aep"},
		{name: "Empty first arg", args: []string{""}, expected: "aep"},
	}

	switch runtime.GOOS {
	case "windows":
		tests = append(tests,
			struct {
				name     string
				args     []string
				expected string
			}{name: "Windows absolute path with .exe", args: []string{"C:\\Program Files\\aep.exe"}, expected: "aep"},
			struct {
				name     string
				args     []string
				expected string
			}{name: "Windows path with foreign separators", args: []string{"C:\\windows\\style\\path\\on\\unix\\system.exe"}, expected: "system"},
		)
	default:
		tests = append(tests,
			struct {
				name     string
				args     []string
				expected string
			}{name: "Unix absolute path", args: []string{"/usr/local/bin/aep"}, expected: "aep"},
			struct {
				name     string
				args     []string
				expected string
			}{name: "Unix system path", args: []string{"/bin/ls"}, expected: "ls"},
		)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			origArgs := os.Args
			os.Args = tt.args
			defer func() { os.Args = origArgs }()

			assert.Equal(t, tt.expected, GetExecutableName())
		})
	}
}
