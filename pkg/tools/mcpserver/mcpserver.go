// Package mcpserver exposes the LangVoice toolkit as a Model Context
// Protocol server, using the official MCP Go SDK
// (github.com/modelcontextprotocol/go-sdk). Any MCP-capable agent runtime
// can then discover and invoke the TTS tools without linking this module.
//
// Typical usage (stdio transport, the common wiring for agent hosts):
//
//	srv, err := mcpserver.New(toolkit)
//	if err != nil { ... }
//	if err := srv.Run(ctx); err != nil { ... }
//
// For other transports, obtain the underlying server via [Server.MCP] and
// connect it yourself.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/langvoice/langvoice-go/pkg/tools"
)

// serverName and serverVersion identify this implementation during the MCP
// handshake.
const (
	serverName    = "langvoice"
	serverVersion = "1.0.0"
)

// Server wraps an MCP server whose tool catalogue is the LangVoice toolkit.
type Server struct {
	toolkit *tools.Toolkit
	server  *mcpsdk.Server
}

// New creates a Server and registers one MCP tool per toolkit descriptor.
func New(tk *tools.Toolkit) (*Server, error) {
	if tk == nil {
		return nil, fmt.Errorf("mcpserver: toolkit must not be nil")
	}

	s := &Server{
		toolkit: tk,
		server: mcpsdk.NewServer(
			&mcpsdk.Implementation{Name: serverName, Version: serverVersion},
			nil,
		),
	}

	for _, def := range tk.Definitions() {
		schema, err := toSchema(def.Parameters)
		if err != nil {
			return nil, fmt.Errorf("mcpserver: schema for tool %q: %w", def.Name, err)
		}
		name := def.Name
		s.server.AddTool(
			&mcpsdk.Tool{
				Name:        name,
				Description: def.Description,
				InputSchema: schema,
			},
			func(ctx context.Context, req *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
				return s.handle(ctx, name, req)
			},
		)
	}
	return s, nil
}

// MCP returns the underlying SDK server for custom transport wiring.
func (s *Server) MCP() *mcpsdk.Server {
	return s.server
}

// Run serves MCP over stdin/stdout until ctx is cancelled or the peer
// disconnects.
func (s *Server) Run(ctx context.Context) error {
	if err := s.server.Run(ctx, &mcpsdk.StdioTransport{}); err != nil {
		return fmt.Errorf("mcpserver: run: %w", err)
	}
	return nil
}

// handle routes one MCP tool call through the toolkit. Dispatch failures are
// reported as IsError results (application-level, visible to the model); a
// Go error escapes only for unknown tool names, which indicates a
// registration bug.
func (s *Server) handle(ctx context.Context, name string, req *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
	res, err := s.toolkit.Dispatch(ctx, name, encodeArgs(req.Params.Arguments))
	if err != nil {
		return nil, err
	}
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: res.Content}},
		IsError: res.IsError,
	}, nil
}

// encodeArgs normalises the SDK's argument payload (raw JSON or a decoded
// map, depending on transport) into the JSON object string Dispatch expects.
func encodeArgs(v any) string {
	if v == nil {
		return "{}"
	}
	data, err := json.Marshal(v)
	if err != nil || len(data) == 0 || string(data) == "null" {
		return "{}"
	}
	return string(data)
}

// toSchema converts a JSON-Schema-shaped map into the SDK's schema type via
// a JSON round-trip.
func toSchema(params map[string]any) (*jsonschema.Schema, error) {
	data, err := json.Marshal(params)
	if err != nil {
		return nil, err
	}
	var s jsonschema.Schema
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
