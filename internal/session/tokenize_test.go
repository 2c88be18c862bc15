// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package session

import "testing"

func TestSplitFieldsHonorsQuotes(t *testing.T) {
	fields, err := splitFields(`export FOO="bar baz" QUX=1`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"export", "FOO=bar baz", "QUX=1"}
	if len(fields) != len(want) {
		t.Fatalf("got %v, want %v", fields, want)
	}
	for i := range want {
		if fields[i] != want[i] {
			t.Fatalf("field %d: got %q, want %q", i, fields[i], want[i])
		}
	}
}

func TestSplitFieldsUnterminatedQuoteErrors(t *testing.T) {
	if _, err := splitFields(`cd "unterminated`); err == nil {
		t.Fatal("expected error for unterminated quote")
	}
}

func TestExtractQuotedCodeTripleQuote(t *testing.T) {
	code, ok := extractQuotedCode(`"""print(1)\nprint(2)"""`)
	if !ok {
		t.Fatal("expected ok")
	}
	if code != `print(1)\nprint(2)` {
		t.Fatalf("got %q", code)
	}
}

func TestExtractQuotedCodeRejectsUnquoted(t *testing.T) {
	if _, ok := extractQuotedCode("print(1)"); ok {
		t.Fatal("expected not ok for unquoted input")
	}
}
