// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpbroker_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Slipstream-Max/Agent-Environment-Protocol/internal/mcpbroker"
)

func TestValidateSchemaAcceptsWellFormedSchema(t *testing.T) {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"query": map[string]any{"type": "string"},
		},
		"required": []any{"query"},
	}
	require.NoError(t, mcpbroker.ValidateSchema(schema))
}

func TestSynthesizeMapsTypesAndRequiredness(t *testing.T) {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"query": map[string]any{"type": "string", "description": "search text"},
			"limit": map[string]any{"type": "integer", "description": "max results", "default": float64(10)},
		},
		"required": []any{"query"},
	}

	sig := mcpbroker.Synthesize("search", schema)
	require.Len(t, sig.Parameters, 2)

	byName := map[string]mcpbroker.Parameter{}
	for _, p := range sig.Parameters {
		byName[p.Name] = p
	}

	require.True(t, byName["query"].Required)
	require.Equal(t, "str", byName["query"].TypeHint)

	require.False(t, byName["limit"].Required)
	require.Equal(t, "int", byName["limit"].TypeHint)
	require.Equal(t, "10", byName["limit"].Default)
}
