// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpbroker

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"github.com/Slipstream-Max/Agent-Environment-Protocol/internal/store"
)

// stubTemplate generates the Python module that bridges `tools run` calls
// to an MCP server: one function per discovered tool plus a generic
// call(tool_name, **kwargs) escape hatch, mirroring
// original_source's _generate_stdio_stub/_generate_http_stub in shape.
var stubTemplate = template.Must(template.New("mcp-stub").Funcs(template.FuncMap{
	"join": strings.Join,
}).Parse(`"""
MCP Server ({{.TransportLabel}}): {{.Name}}
{{if .URL}}URL: {{.URL}}
{{end}}
{{if .Tools}}Available tools:
{{range .Tools}}  - {{.Name}}: {{.Description}}
{{end}}{{else}}Use call(tool_name, **kwargs) to invoke an MCP tool.
{{end}}"""

import json
{{if eq .Transport "stdio"}}import subprocess
import os
{{else}}try:
    import httpx
except ImportError:
    raise ImportError("HTTP transport requires the httpx library, run: tools install httpx")
{{end}}
_MCP_TRANSPORT = "{{.Transport}}"
{{if eq .Transport "stdio"}}_MCP_COMMAND = {{.CommandJSON}}
_MCP_ENV = {{.EnvJSON}}
{{else}}_MCP_URL = "{{.URL}}"
_MCP_HEADERS = {{.HeadersJSON}}

_session_id = None
{{end}}

def _call_mcp(tool_name, arguments):
    """Invoke tool_name on the configured MCP server with arguments."""
{{if eq .Transport "stdio"}}    request = {"jsonrpc": "2.0", "id": 1, "method": "tools/call", "params": {"name": tool_name, "arguments": arguments}}
    init_request = {"jsonrpc": "2.0", "id": 0, "method": "initialize", "params": {"protocolVersion": "2024-11-05", "capabilities": {}, "clientInfo": {"name": "aep", "version": "0.1.0"}}}
    env = {**os.environ, **_MCP_ENV}
    try:
        process = subprocess.Popen(_MCP_COMMAND, stdin=subprocess.PIPE, stdout=subprocess.PIPE, stderr=subprocess.PIPE, env=env, text=True)
        process.stdin.write(json.dumps(init_request) + "\n")
        process.stdin.flush()
        process.stdout.readline()
        process.stdin.write(json.dumps(request) + "\n")
        process.stdin.flush()
        response_line = process.stdout.readline()
        process.terminate()
        if response_line:
            response = json.loads(response_line)
            if "result" in response:
                return response["result"]
            if "error" in response:
                raise RuntimeError(f"MCP error: {response['error']}")
        return None
    except FileNotFoundError:
        raise RuntimeError(f"MCP launcher not found: {_MCP_COMMAND[0]}")
{{else}}    _mcp_initialize()
    request ={"jsonrpc": "2.0", "id": 1, "method": "tools/call", "params": {"name": tool_name, "arguments": arguments}}
    headers = {**_MCP_HEADERS, "Content-Type": "application/json", "Mcp-Session-Id": _session_id}
    with httpx.Client() as client:
        response = client.post(_MCP_URL, json=request, headers=headers, timeout=60.0)
        response.raise_for_status()
        result = response.json()
        if "result" in result:
            return result["result"]
        if "error" in result:
            raise RuntimeError(f"MCP error: {result['error']}")
        return None


def _mcp_initialize():
    global _session_id
    init_request = {"jsonrpc": "2.0", "id": 0, "method": "initialize", "params": {"protocolVersion": "2024-11-05", "capabilities": {}, "clientInfo": {"name": "aep", "version": "0.1.0"}}}
    headers = {**_MCP_HEADERS, "Content-Type": "application/json"}
    with httpx.Client() as client:
        response = client.post(_MCP_URL, json=init_request, headers=headers, timeout=30.0)
        response.raise_for_status()
        _session_id = response.headers.get("Mcp-Session-Id", "default")
        result = response.json()
        if "error" in result:
            raise RuntimeError(f"MCP initialize failed: {result['error']}")
{{end}}

{{range .Methods}}
def {{.ToolName}}({{.ParamsDecl}}):
    """
{{.Docstring}}
    """
    return _call_mcp("{{.ToolName}}", {k: v for k, v in locals().items() if v is not None})

{{end}}
def call(tool_name, **kwargs):
    """Invoke any tool this server advertises by name."""
    return _call_mcp(tool_name, kwargs)
`))

type stubMethod struct {
	ToolName   string
	ParamsDecl string
	Docstring  string
}

type stubData struct {
	Name           string
	Transport      string
	TransportLabel string
	URL            string
	CommandJSON    string
	EnvJSON        string
	HeadersJSON    string
	Tools          []store.ToolDescriptor
	Methods        []stubMethod
}

// CompileStub renders the Python stub module for an MCP server record and
// its discovered tools.
func CompileStub(rec *store.MCPServerRecord) (string, error) {
	data := stubData{
		Name:  rec.Name,
		Tools: rec.Tools,
	}

	switch rec.Transport {
	case store.TransportStdio:
		data.Transport = "stdio"
		data.TransportLabel = "STDIO"
		cmdJSON, err := json.Marshal(rec.Command)
		if err != nil {
			return "", err
		}
		envJSON, err := json.Marshal(emptyIfNil(rec.Env))
		if err != nil {
			return "", err
		}
		data.CommandJSON = string(cmdJSON)
		data.EnvJSON = string(envJSON)
	case store.TransportHTTP:
		data.Transport = "http"
		data.TransportLabel = "HTTP"
		data.URL = rec.URL
		headersJSON, err := json.Marshal(emptyIfNil(rec.Headers))
		if err != nil {
			return "", err
		}
		data.HeadersJSON = string(headersJSON)
	default:
		return "", fmt.Errorf("mcpbroker: unknown transport %q", rec.Transport)
	}

	for _, t := range rec.Tools {
		sig := Synthesize(t.Name, t.InputSchema)
		data.Methods = append(data.Methods, stubMethod{
			ToolName:   t.Name,
			ParamsDecl: paramsDecl(sig),
			Docstring:  docstring(t.Description, sig),
		})
	}

	var buf bytes.Buffer
	if err := stubTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("mcpbroker: render stub: %w", err)
	}
	return buf.String(), nil
}

func paramsDecl(sig Signature) string {
	parts := make([]string, 0, len(sig.Parameters))
	for _, p := range sig.Parameters {
		switch {
		case p.Required && p.TypeHint != "":
			parts = append(parts, fmt.Sprintf("%s: %s", p.Name, p.TypeHint))
		case p.Required:
			parts = append(parts, p.Name)
		case p.TypeHint != "":
			parts = append(parts, fmt.Sprintf("%s: %s = %s", p.Name, p.TypeHint, p.Default))
		default:
			parts = append(parts, fmt.Sprintf("%s=%s", p.Name, p.Default))
		}
	}
	return strings.Join(parts, ", ")
}

func docstring(description string, sig Signature) string {
	var b strings.Builder
	if description != "" {
		b.WriteString("    " + description + "\n")
	}
	if len(sig.Parameters) > 0 {
		b.WriteString("\n    Args:\n")
		for _, p := range sig.Parameters {
			b.WriteString(fmt.Sprintf("        %s: %s\n", p.Name, p.Description))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func emptyIfNil(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}
