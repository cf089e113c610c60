// ABOUTME: Tests for HubSpot configuration loading and validation
// ABOUTME: Covers .env loading, env precedence, defaults, and fail-fast validation
package hubspot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/harperreed/crmlink/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

var configEnvVars = []string{
	"HUBSPOT_CLIENT_ID",
	"HUBSPOT_CLIENT_SECRET",
	"HUBSPOT_REDIRECT_URI",
	"HUBSPOT_AUTH_URL",
	"HUBSPOT_TOKEN_URL",
	"HUBSPOT_CONTACTS_URL",
	"HUBSPOT_COMPANIES_URL",
	"CRMLINK_KEY_SCOPE",
}

// clearConfigEnv unsets every config variable for the duration of the test.
func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, name := range configEnvVars {
		t.Setenv(name, "")
		require.NoError(t, os.Unsetenv(name))
	}
}

func TestLoadConfigFromEnvFile(t *testing.T) {
	clearConfigEnv(t)

	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte(
		"HUBSPOT_CLIENT_ID=file-id\n"+
			"HUBSPOT_CLIENT_SECRET=file-secret\n"+
			"HUBSPOT_REDIRECT_URI=http://localhost:8000/callback\n"+
			"CRMLINK_KEY_SCOPE=tenant\n"), 0600))

	cfg, err := LoadConfig(envFile)
	require.NoError(t, err)

	assert.Equal(t, "file-id", cfg.ClientID)
	assert.Equal(t, "file-secret", cfg.ClientSecret)
	assert.Equal(t, "http://localhost:8000/callback", cfg.RedirectURI)
	assert.Equal(t, store.KeyScopeTenant, cfg.KeyScope)
	assert.Equal(t, DefaultAuthURL, cfg.AuthURL)
	assert.Equal(t, DefaultTokenURL, cfg.TokenURL)
	assert.Equal(t, DefaultContactsURL, cfg.ContactsURL)
	assert.Equal(t, DefaultCompaniesURL, cfg.CompaniesURL)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigEnvWinsOverFile(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("HUBSPOT_CLIENT_ID", "env-id")

	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("HUBSPOT_CLIENT_ID=file-id\n"), 0600))

	cfg, err := LoadConfig(envFile)
	require.NoError(t, err)
	assert.Equal(t, "env-id", cfg.ClientID)
}

func TestLoadConfigMissingEnvFile(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, store.KeyScopeShared, cfg.KeyScope)

	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HUBSPOT_CLIENT_ID")
	assert.Contains(t, err.Error(), "HUBSPOT_CLIENT_SECRET")
	assert.Contains(t, err.Error(), "HUBSPOT_REDIRECT_URI")
}

func TestLoadConfigRejectsUnknownScope(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("CRMLINK_KEY_SCOPE", "global")

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

func TestOAuth2Config(t *testing.T) {
	cfg := &Config{ClientID: "id", ClientSecret: "secret", RedirectURI: "http://localhost/cb"}
	cfg.applyDefaults()

	oc := cfg.OAuth2Config()
	assert.Equal(t, "id", oc.ClientID)
	assert.Equal(t, "secret", oc.ClientSecret)
	assert.Equal(t, "http://localhost/cb", oc.RedirectURL)
	assert.Equal(t, DefaultTokenURL, oc.Endpoint.TokenURL)
	assert.Equal(t, oauth2.AuthStyleInParams, oc.Endpoint.AuthStyle)
	assert.Equal(t, []string{"crm.objects.contacts.read", "crm.objects.companies.read"}, oc.Scopes)
}
