// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package mcpbroker implements MCP server registration and the Python stub
// compiler (spec.md §4.4). Discovery sessions are short-lived by design: a
// client is opened, initialize+tools/list run once, then the session is
// torn down. The broker never pools MCP connections.
//
// Grounded on original_source's MCPHandler (mcp.py) for the shape of what
// gets generated, and on the rest of the retrieval pack's MCP client usage
// for how to drive the official Go SDK.
package mcpbroker

import (
	"context"
	"fmt"
	"net/http"
	"os/exec"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Slipstream-Max/Agent-Environment-Protocol/internal/helper/jsonrpc"
	"github.com/Slipstream-Max/Agent-Environment-Protocol/internal/store"
)

const clientName = "agent-environment-protocol"

// DiscoveryResult is what a discovery session produces: the tools the
// server advertised, or a non-fatal listing error if initialize succeeded
// but tools/list didn't (spec.md §4.4: stub still compiles with only Call).
type DiscoveryResult struct {
	Tools   []store.ToolDescriptor
	ListErr error
}

// headerTransport injects static headers into every outgoing request, used
// to carry an HTTP MCP server's configured headers.
type headerTransport struct {
	base    http.RoundTripper
	headers map[string]string
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	for k, v := range t.headers {
		req.Header.Set(k, v)
	}
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(req)
}

// Discover opens a short-lived client session against rec's configured
// transport, runs initialize then tools/list, and tears the session down
// before returning.
func Discover(ctx context.Context, rec *store.MCPServerRecord) (DiscoveryResult, error) {
	transport, cleanup, err := buildTransport(rec)
	if err != nil {
		return DiscoveryResult{}, err
	}
	defer cleanup()

	client := mcp.NewClient(&mcp.Implementation{Name: clientName, Version: "0.1.0"}, nil)

	session, err := client.Connect(ctx, transport)
	if err != nil {
		return DiscoveryResult{}, fmt.Errorf("mcpbroker: connect to %q: %w", rec.Name, err)
	}
	defer session.Close()

	listed, err := session.ListTools(ctx, &mcp.ListToolsParams{})
	if err != nil {
		return DiscoveryResult{ListErr: fmt.Errorf("mcpbroker: list tools for %q: %w", rec.Name, err)}, nil
	}

	descriptors := make([]store.ToolDescriptor, 0, len(listed.Tools))
	for _, t := range listed.Tools {
		schema, err := schemaToMap(t.InputSchema)
		if err != nil {
			schema = map[string]any{}
		}
		if err := ValidateSchema(schema); err != nil {
			return DiscoveryResult{}, fmt.Errorf("mcpbroker: tool %q: %w", t.Name, err)
		}
		descriptors = append(descriptors, store.ToolDescriptor{
			Name:        t.Name,
			Description: t.Description,
			InputSchema: schema,
		})
	}

	return DiscoveryResult{Tools: descriptors}, nil
}

func buildTransport(rec *store.MCPServerRecord) (mcp.Transport, func(), error) {
	switch rec.Transport {
	case store.TransportStdio:
		cmd := exec.Command(rec.Command[0], rec.Command[1:]...)
		if len(rec.Env) > 0 {
			env := append([]string{}, cmd.Environ()...)
			for k, v := range rec.Env {
				env = append(env, k+"="+v)
			}
			cmd.Env = env
		}
		return mcp.NewCommandTransport(cmd), func() {}, nil
	case store.TransportHTTP:
		httpClient := &http.Client{}
		if len(rec.Headers) > 0 {
			httpClient.Transport = &headerTransport{headers: rec.Headers}
		}
		transport := &mcp.StreamableClientTransport{Endpoint: rec.URL, HTTPClient: httpClient}
		return transport, func() {}, nil
	default:
		return nil, func() {}, fmt.Errorf("mcpbroker: unknown transport %q", rec.Transport)
	}
}

// schemaToMap round-trips an arbitrary schema value through JSON so callers
// get a plain map[string]any regardless of the SDK's concrete schema type.
func schemaToMap(schema any) (map[string]any, error) {
	if schema == nil {
		return map[string]any{}, nil
	}
	var m map[string]any
	if err := jsonrpc.UnmarshalFromMap(schema, &m); err != nil {
		return nil, err
	}
	return m, nil
}
