// ABOUTME: HubSpot MCP tool handlers
// ABOUTME: Implements hubspot_authorize_url, hubspot_connection_status, and hubspot_list_items tools
package handlers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/harperreed/crmlink/hubspot"
	"github.com/harperreed/crmlink/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Integration is the adapter surface the MCP tools use.
type Integration interface {
	AuthorizationURL(userID, orgID string) string
	Credentials(ctx context.Context, userID, orgID string) (*models.Credentials, error)
	Items(ctx context.Context, userID, orgID string) ([]models.IntegrationItem, error)
}

type ItemHandlers struct {
	integration Integration
}

func NewItemHandlers(integration Integration) *ItemHandlers {
	return &ItemHandlers{integration: integration}
}

type TenantInput struct {
	UserID string `json:"user_id,omitempty" jsonschema:"User identifier (used only with tenant key scope)"`
	OrgID  string `json:"org_id,omitempty" jsonschema:"Organization identifier (used only with tenant key scope)"`
}

type AuthorizeURLOutput struct {
	URL string `json:"url"`
}

func (h *ItemHandlers) AuthorizeURL(_ context.Context, request *mcp.CallToolRequest, input TenantInput) (*mcp.CallToolResult, AuthorizeURLOutput, error) {
	return nil, AuthorizeURLOutput{URL: h.integration.AuthorizationURL(input.UserID, input.OrgID)}, nil
}

type ConnectionStatusOutput struct {
	Connected bool    `json:"connected"`
	ExpiresAt *string `json:"expires_at,omitempty"`
}

// ConnectionStatus reports whether credentials are on file without exposing the token.
func (h *ItemHandlers) ConnectionStatus(ctx context.Context, request *mcp.CallToolRequest, input TenantInput) (*mcp.CallToolResult, ConnectionStatusOutput, error) {
	creds, err := h.integration.Credentials(ctx, input.UserID, input.OrgID)
	if errors.Is(err, hubspot.ErrMissingCredentials) {
		return nil, ConnectionStatusOutput{Connected: false}, nil
	}
	if err != nil {
		return nil, ConnectionStatusOutput{}, fmt.Errorf("failed to load credentials: %w", err)
	}

	out := ConnectionStatusOutput{Connected: true}
	if !creds.Expiry.IsZero() {
		expiresAt := creds.Expiry.Format(time.RFC3339)
		out.ExpiresAt = &expiresAt
	}
	return nil, out, nil
}

type ListItemsInput struct {
	UserID string `json:"user_id,omitempty" jsonschema:"User identifier (used only with tenant key scope)"`
	OrgID  string `json:"org_id,omitempty" jsonschema:"Organization identifier (used only with tenant key scope)"`
	Type   string `json:"type,omitempty" jsonschema:"Only return items of this type: contact or company"`
}

type ListItemsOutput struct {
	Items []models.IntegrationItem `json:"items"`
	Count int                      `json:"count"`
}

func (h *ItemHandlers) ListItems(ctx context.Context, request *mcp.CallToolRequest, input ListItemsInput) (*mcp.CallToolResult, ListItemsOutput, error) {
	var filter models.ItemType
	switch input.Type {
	case "":
	case string(models.ItemContact), string(models.ItemCompany):
		filter = models.ItemType(input.Type)
	default:
		return nil, ListItemsOutput{}, fmt.Errorf("invalid type %q: must be contact or company", input.Type)
	}

	items, err := h.integration.Items(ctx, input.UserID, input.OrgID)
	if err != nil {
		return nil, ListItemsOutput{}, err
	}

	result := make([]models.IntegrationItem, 0, len(items))
	for _, item := range items {
		if filter == "" || item.Type == filter {
			result = append(result, item)
		}
	}

	return nil, ListItemsOutput{Items: result, Count: len(result)}, nil
}
