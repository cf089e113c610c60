// ABOUTME: SQLite-backed credential store
// ABOUTME: Persists credentials in the crmlink database credentials table
package store

import (
	"context"
	"database/sql"

	"github.com/harperreed/crmlink/db"
	"github.com/harperreed/crmlink/models"
)

type SQLite struct {
	db *sql.DB
}

// NewSQLite wraps an open database whose schema is already initialized.
func NewSQLite(database *sql.DB) *SQLite {
	return &SQLite{db: database}
}

func (s *SQLite) Get(_ context.Context, key string) (*models.Credentials, error) {
	creds, err := db.GetCredentials(s.db, key)
	if err != nil {
		return nil, err
	}
	if creds == nil {
		return nil, ErrNotFound
	}
	return creds, nil
}

func (s *SQLite) Put(_ context.Context, key string, creds *models.Credentials) error {
	return db.PutCredentials(s.db, key, creds)
}
