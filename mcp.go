package main

import (
	"context"

	"github.com/kitproj/jira2json/internal/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// runMCPServer starts the MCP server that communicates over stdio using the
// mcp-go library
func runMCPServer(ctx context.Context) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	s := mcp.CreateServer(client)

	// Start the stdio server
	return server.ServeStdio(s)
}
