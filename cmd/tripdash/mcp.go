// Copyright 2026 The Tripdash Authors
// SPDX-License-Identifier: MIT

package main

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/davetashner/tripdash/internal/mcpserver"
)

// mcpCmd is the parent command for MCP-related subcommands.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Model Context Protocol server commands",
	Long:  "Commands for running tripdash as an MCP server, exposing the dashboard as tools to AI agents.",
}

// mcpServeCmd runs the MCP server over stdio.
var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server over stdio",
	Long: `Start an MCP server on stdin/stdout, exposing tripdash's tools:
  - dashboard:      Fetch the full dashboard for a set of filters
  - trips:          Fetch one sorted page of trips
  - filter_options: List boroughs, payment types and the date range

Tool filters are layered over the filters in the config files. Logs go to
stderr so they never mix with the protocol stream.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		settings, err := loadSettings(cliConfig())
		if err != nil {
			return err
		}
		return mcpserver.Run(cmd.Context(), Version, newClient(settings), settings, &mcp.StdioTransport{})
	},
}

func init() {
	mcpCmd.AddCommand(mcpServeCmd)
}
