// Copyright 2026 The Tripdash Authors
// SPDX-License-Identifier: MIT

package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/davetashner/tripdash/internal/api"
	"github.com/davetashner/tripdash/internal/config"
)

// New creates a new MCP server with tripdash's tools registered. Tools
// query the aggregate API through client, starting from settings.
func New(version string, client *api.Client, settings config.Settings) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "tripdash",
		Title:   "Tripdash: NYC trip analytics",
		Version: version,
	}, nil)

	registerTools(server, &tools{client: client, settings: settings})
	return server
}

// Run creates an MCP server and runs it on the given transport.
// It blocks until the client disconnects or the context is cancelled.
func Run(ctx context.Context, version string, client *api.Client, settings config.Settings, transport mcp.Transport) error {
	server := New(version, client, settings)
	return server.Run(ctx, transport)
}
