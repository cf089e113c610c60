// ABOUTME: Normalized integration item and stored OAuth credential models
// ABOUTME: Defines IntegrationItem, ItemType, and Credentials shared by all surfaces
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"time"
)

// ItemType discriminates the kind of remote CRM object an item was built from.
type ItemType string

const (
	ItemContact ItemType = "contact"
	ItemCompany ItemType = "company"
)

// IntegrationItem is the normalized form of a HubSpot contact or company.
// Only the optional fields belonging to Type are ever set.
type IntegrationItem struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Type     ItemType `json:"type"`
	Email    *string  `json:"email"`
	Phone    *string  `json:"phone"`
	Website  *string  `json:"website"`
	Industry *string  `json:"industry"`
}

// Validate checks the field-group invariant for the item's type.
func (i IntegrationItem) Validate() error {
	if i.ID == "" {
		return fmt.Errorf("item id is required")
	}

	switch i.Type {
	case ItemContact:
		if i.Website != nil || i.Industry != nil {
			return fmt.Errorf("contact %s carries company fields", i.ID)
		}
	case ItemCompany:
		if i.Email != nil || i.Phone != nil {
			return fmt.Errorf("company %s carries contact fields", i.ID)
		}
	default:
		return fmt.Errorf("unknown item type %q", i.Type)
	}

	return nil
}

// Credentials holds the token payload returned by the provider's token endpoint.
// Raw is the full response body as decoded JSON, provider-specific fields included.
// Nothing here is refreshed or expired by crmlink; Expiry is informational.
type Credentials struct {
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token,omitempty"`
	TokenType    string         `json:"token_type,omitempty"`
	ExpiresIn    int64          `json:"expires_in,omitempty"`
	Expiry       time.Time      `json:"expiry,omitempty"`
	Raw          map[string]any `json:"raw,omitempty"`
}

// Clone returns a copy whose Raw map is not shared with c.
func (c Credentials) Clone() Credentials {
	c.Raw = maps.Clone(c.Raw)
	return c
}

// DecodeRaw decodes a JSON object keeping numbers as json.Number, so ids
// and other large integers survive a store round trip unchanged.
func DecodeRaw(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(v)
}
