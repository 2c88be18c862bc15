// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package jsonrpc normalizes JSON-RPC payloads surfaced while discovering
// and diagnosing MCP servers.
package jsonrpc

import (
	"encoding/json"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// Marshal normalizes JSON-RPC payloads to lowercase keys with default version.
func Marshal(data []byte) ([]byte, error) {
	var temp map[string]any
	if err := json.Unmarshal(data, &temp); err != nil {
		return nil, err
	}

	fixed := Map(temp)

	return json.Marshal(fixed)
}

// Map converts a decoded JSON-RPC map to canonical lowercase key form.
//
// It processes a map of arbitrary keys and values, converting all keys to
// lowercase. It handles specific JSON-RPC fields like "id" and "jsonrpc"
// with special logic:
//   - "id": preserves values, converting whole number floats to int64
//   - "jsonrpc": adds default version "2.0" if missing
func Map(temp map[string]any) map[string]any {
	fixed := make(map[string]any)
	for k, v := range temp {
		key := strings.ToLower(k)
		switch key {
		case "id":
			if idMap, ok := v.(map[string]any); ok && len(idMap) == 0 {
				fixed["id"] = nil
			} else {
				fixed["id"] = normalizeIDValue(v)
			}
		case "jsonrpc":
			fixed["jsonrpc"] = v
		default:
			fixed[key] = v
		}
	}

	if _, ok := fixed["jsonrpc"]; !ok {
		fixed["jsonrpc"] = mcp.JSONRPC_VERSION
	}

	return fixed
}

// normalizeIDValue converts whole number float64 values to int64 for
// JSON-RPC ID fields, since JSON unmarshaling treats all numbers as float64.
func normalizeIDValue(v any) any {
	if f, ok := v.(float64); ok {
		if f == float64(int64(f)) {
			return int64(f)
		}
	}
	return v
}

// UnmarshalFromMap converts any value into dest via a JSON round-trip.
// mcpbroker's schemaToMap uses it to turn a discovered tool's InputSchema
// into a plain map[string]any.
func UnmarshalFromMap(src any, dest any) error {
	data, err := json.Marshal(src)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}
