// ABOUTME: Credential store abstraction shared by every storage backend
// ABOUTME: Defines the Store interface, the not-found sentinel, and credential key scoping
package store

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/harperreed/crmlink/models"
)

// ErrNotFound is returned by Get when no credentials exist for a key.
var ErrNotFound = errors.New("credentials not found")

// Store persists exchanged OAuth credentials by key.
// Put always replaces the previous value for the key.
type Store interface {
	Get(ctx context.Context, key string) (*models.Credentials, error)
	Put(ctx context.Context, key string, creds *models.Credentials) error
}

// KeyScope selects how user and org identifiers shape the credential key.
type KeyScope string

const (
	// KeyScopeShared stores one credential for the whole process, ignoring user and org.
	KeyScopeShared KeyScope = "shared"
	// KeyScopeTenant stores one credential per org/user pair.
	KeyScopeTenant KeyScope = "tenant"
)

// SharedKey is the fixed key used under KeyScopeShared.
const SharedKey = "hubspot"

// ParseKeyScope parses a scope name; empty means shared.
func ParseKeyScope(s string) (KeyScope, error) {
	switch KeyScope(s) {
	case "", KeyScopeShared:
		return KeyScopeShared, nil
	case KeyScopeTenant:
		return KeyScopeTenant, nil
	}
	return "", fmt.Errorf("unknown key scope %q (want shared or tenant)", s)
}

// Key returns the storage key for a user and org under the given scope.
// Tenant ids are query-escaped so a ':' inside an id cannot shift the
// boundary between org and user.
func Key(scope KeyScope, userID, orgID string) string {
	if scope != KeyScopeTenant {
		return SharedKey
	}
	return fmt.Sprintf("%s:%s:%s", SharedKey, url.QueryEscape(orgID), url.QueryEscape(userID))
}
