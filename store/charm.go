// ABOUTME: Charm KV credential store
// ABOUTME: Stores credentials as JSON values so they sync across a user's devices
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v3"
	"github.com/harperreed/crmlink/charm"
	"github.com/harperreed/crmlink/models"
)

const charmKeyPrefix = "credentials:"

// KV is the subset of the charm client used for credential storage.
type KV interface {
	Get(key []byte) ([]byte, error)
	Set(key, value []byte) error
}

var _ KV = (*charm.Client)(nil)

type Charm struct {
	kv KV
}

func NewCharm(kv KV) *Charm {
	return &Charm{kv: kv}
}

func (c *Charm) Get(_ context.Context, key string) (*models.Credentials, error) {
	data, err := c.kv.Get([]byte(charmKeyPrefix + key))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read credentials from charm: %w", err)
	}

	var creds models.Credentials
	if err := models.DecodeRaw(data, &creds); err != nil {
		return nil, fmt.Errorf("failed to decode credentials: %w", err)
	}

	return &creds, nil
}

func (c *Charm) Put(_ context.Context, key string, creds *models.Credentials) error {
	data, err := json.Marshal(creds)
	if err != nil {
		return fmt.Errorf("failed to encode credentials: %w", err)
	}

	if err := c.kv.Set([]byte(charmKeyPrefix+key), data); err != nil {
		return fmt.Errorf("failed to write credentials to charm: %w", err)
	}

	return nil
}
