// ABOUTME: In-process credential store
// ABOUTME: Holds credentials in a mutex-guarded map that disappears with the process
package store

import (
	"context"
	"sync"

	"github.com/harperreed/crmlink/models"
)

// Memory is a non-durable Store. Values are copied in and out so callers
// cannot mutate what is stored.
type Memory struct {
	mu    sync.RWMutex
	creds map[string]models.Credentials
}

func NewMemory() *Memory {
	return &Memory{creds: make(map[string]models.Credentials)}
}

func (m *Memory) Get(_ context.Context, key string) (*models.Credentials, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	creds, ok := m.creds[key]
	if !ok {
		return nil, ErrNotFound
	}
	creds = creds.Clone()
	return &creds, nil
}

func (m *Memory) Put(_ context.Context, key string, creds *models.Credentials) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.creds[key] = creds.Clone()
	return nil
}
