// ABOUTME: MCP server subcommand
// ABOUTME: Exposes the HubSpot integration as MCP tools over stdio
package cli

import (
	"context"

	"github.com/harperreed/crmlink/handlers"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewMCPServer registers the HubSpot tools on a new MCP server
func NewMCPServer(integration handlers.Integration, version string) *mcp.Server {
	itemHandlers := handlers.NewItemHandlers(integration)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "crmlink",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "hubspot_authorize_url",
		Description: "Build the HubSpot consent URL the user must visit to connect their account",
	}, itemHandlers.AuthorizeURL)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "hubspot_connection_status",
		Description: "Report whether HubSpot credentials are stored, without revealing the token",
	}, itemHandlers.ConnectionStatus)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "hubspot_list_items",
		Description: "List the first page of HubSpot contacts and companies, optionally filtered by type",
	}, itemHandlers.ListItems)

	return server
}

// MCPCommand starts the MCP server on stdio
func MCPCommand(app *App, version string) error {
	app.Logger.Info("Starting crmlink MCP server")

	server := NewMCPServer(app.Adapter, version)
	return server.Run(context.Background(), &mcp.StdioTransport{})
}
