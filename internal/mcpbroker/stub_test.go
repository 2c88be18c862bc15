// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpbroker_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Slipstream-Max/Agent-Environment-Protocol/internal/mcpbroker"
	"github.com/Slipstream-Max/Agent-Environment-Protocol/internal/store"
)

func TestCompileStubStdioGeneratesCallableMethod(t *testing.T) {
	rec := &store.MCPServerRecord{
		Name:      "search",
		Transport: store.TransportStdio,
		Command:   []string{"search-server"},
		Tools: []store.ToolDescriptor{
			{
				Name:        "web_search",
				Description: "Search the web",
				InputSchema: map[string]any{
					"type": "object",
					"properties": map[string]any{
						"query": map[string]any{"type": "string", "description": "search text"},
					},
					"required": []any{"query"},
				},
			},
		},
	}

	stub, err := mcpbroker.CompileStub(rec)
	require.NoError(t, err)
	require.Contains(t, stub, "def web_search(query: str):")
	require.Contains(t, stub, "_MCP_COMMAND")
	require.Contains(t, stub, "def call(tool_name, **kwargs):")
}

func TestCompileStubHTTPUsesHttpx(t *testing.T) {
	rec := &store.MCPServerRecord{
		Name:      "weather",
		Transport: store.TransportHTTP,
		URL:       "https://example.com/mcp",
	}

	stub, err := mcpbroker.CompileStub(rec)
	require.NoError(t, err)
	require.Contains(t, stub, "import httpx")
	require.Contains(t, stub, "_MCP_URL = \"https://example.com/mcp\"")
}

func TestCompileStubRejectsUnknownTransport(t *testing.T) {
	rec := &store.MCPServerRecord{Name: "bad", Transport: "carrier-pigeon"}
	_, err := mcpbroker.CompileStub(rec)
	require.Error(t, err)
}
