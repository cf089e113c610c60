// ABOUTME: HubSpot OAuth client configuration
// ABOUTME: Loads credentials from the environment or .env and validates them up front
package hubspot

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/harperreed/crmlink/store"
	"github.com/joho/godotenv"
	"golang.org/x/oauth2"
)

// HubSpot OAuth and API endpoints.
const (
	DefaultAuthURL      = "https://app.hubspot.com/oauth/authorize"
	DefaultTokenURL     = "https://api.hubapi.com/oauth/v1/token"
	DefaultContactsURL  = "https://api.hubapi.com/crm/v3/objects/contacts"
	DefaultCompaniesURL = "https://api.hubapi.com/crm/v3/objects/companies"
)

// Scopes requested on every authorization.
var Scopes = []string{
	"crm.objects.contacts.read",
	"crm.objects.companies.read",
}

// Config holds the OAuth app credentials and endpoint overrides.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string

	AuthURL      string
	TokenURL     string
	ContactsURL  string
	CompaniesURL string

	// KeyScope decides whether user and org ids take part in the credential key.
	KeyScope store.KeyScope
}

// LoadConfig reads configuration from the environment after loading any
// .env files (default ".env"). Missing .env files are ignored.
// Environment variables:
// - HUBSPOT_CLIENT_ID
// - HUBSPOT_CLIENT_SECRET
// - HUBSPOT_REDIRECT_URI
// - HUBSPOT_AUTH_URL, HUBSPOT_TOKEN_URL, HUBSPOT_CONTACTS_URL, HUBSPOT_COMPANIES_URL (optional)
// - CRMLINK_KEY_SCOPE (shared or tenant).
func LoadConfig(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}

	scope, err := store.ParseKeyScope(os.Getenv("CRMLINK_KEY_SCOPE"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		ClientID:     os.Getenv("HUBSPOT_CLIENT_ID"),
		ClientSecret: os.Getenv("HUBSPOT_CLIENT_SECRET"),
		RedirectURI:  os.Getenv("HUBSPOT_REDIRECT_URI"),
		AuthURL:      os.Getenv("HUBSPOT_AUTH_URL"),
		TokenURL:     os.Getenv("HUBSPOT_TOKEN_URL"),
		ContactsURL:  os.Getenv("HUBSPOT_CONTACTS_URL"),
		CompaniesURL: os.Getenv("HUBSPOT_COMPANIES_URL"),
		KeyScope:     scope,
	}
	cfg.applyDefaults()

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.AuthURL == "" {
		c.AuthURL = DefaultAuthURL
	}
	if c.TokenURL == "" {
		c.TokenURL = DefaultTokenURL
	}
	if c.ContactsURL == "" {
		c.ContactsURL = DefaultContactsURL
	}
	if c.CompaniesURL == "" {
		c.CompaniesURL = DefaultCompaniesURL
	}
	if c.KeyScope == "" {
		c.KeyScope = store.KeyScopeShared
	}
}

// Validate reports every required field that is empty.
func (c *Config) Validate() error {
	var missing []string
	if c.ClientID == "" {
		missing = append(missing, "HUBSPOT_CLIENT_ID")
	}
	if c.ClientSecret == "" {
		missing = append(missing, "HUBSPOT_CLIENT_SECRET")
	}
	if c.RedirectURI == "" {
		missing = append(missing, "HUBSPOT_REDIRECT_URI")
	}

	if len(missing) > 0 {
		return fmt.Errorf("hubspot OAuth credentials not configured. Set %s", strings.Join(missing, ", "))
	}
	return nil
}

// OAuth2Config builds the golang.org/x/oauth2 config for the HubSpot app.
// HubSpot expects the client credentials in the form body.
func (c *Config) OAuth2Config() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		RedirectURL:  c.RedirectURI,
		Scopes:       Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:   c.AuthURL,
			TokenURL:  c.TokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}
