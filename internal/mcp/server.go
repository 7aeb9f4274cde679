package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/andygrunwald/go-jira"
	"github.com/kitproj/jira2json/internal/export"
	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// CreateServer creates a new MCP server exposing the JQL export tools
func CreateServer(client *jira.Client) *server.MCPServer {
	s := server.NewMCPServer(
		"jira2json-mcp-server",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	// Add search-issues tool
	searchTool := mcplib.NewTool("search_issues",
		mcplib.WithDescription("Search Jira issues with a JQL filter and return the flattened issues as JSON lines"),
		mcplib.WithString("jql",
			mcplib.Description("JQL filter (e.g., 'project = PROJ ORDER BY updated DESC'); empty selects all issues"),
		),
		mcplib.WithNumber("max_results",
			mcplib.Description("Maximum number of issues to return (default 50)"),
		),
	)
	s.AddTool(searchTool, func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		return searchIssuesHandler(ctx, client, request)
	})

	// Add count-issues tool
	countTool := mcplib.NewTool("count_issues",
		mcplib.WithDescription("Count the Jira issues matching a JQL filter"),
		mcplib.WithString("jql",
			mcplib.Description("JQL filter; empty counts all visible issues"),
		),
	)
	s.AddTool(countTool, func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		return countIssuesHandler(ctx, client, request)
	})

	return s
}

func searchIssuesHandler(ctx context.Context, client *jira.Client, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	jql := request.GetString("jql", "")
	max := request.GetInt("max_results", 50)

	it := export.NewIterator(ctx, client, export.Query{JQL: jql, MaxResults: max})

	var sb strings.Builder
	count, err := export.WriteJSONLines(&sb, it)
	if err != nil {
		return mcplib.NewToolResultError(fmt.Sprintf("Failed to search issues: %v", err)), nil
	}
	if count == 0 {
		return mcplib.NewToolResultText("No issues found"), nil
	}

	return mcplib.NewToolResultText(sb.String()), nil
}

func countIssuesHandler(ctx context.Context, client *jira.Client, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	jql := request.GetString("jql", "")

	total, err := export.Count(ctx, client, jql)
	if err != nil {
		return mcplib.NewToolResultError(fmt.Sprintf("Failed to count issues: %v", err)), nil
	}

	return mcplib.NewToolResultText(fmt.Sprintf("%d issues match", total)), nil
}
