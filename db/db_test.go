// ABOUTME: Tests for database open, credentials, fetch log, and sync state
// ABOUTME: Runs against a temporary on-disk SQLite database per test
package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/harperreed/crmlink/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	database, err := OpenDatabase(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func TestOpenDatabase(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "test.db")

	db, err := OpenDatabase(dbPath)
	if err != nil {
		t.Fatalf("OpenDatabase failed: %v", err)
	}
	defer db.Close()

	// Verify database file exists
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}

	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table'").Scan(&count)
	if err != nil {
		t.Fatalf("Failed to query tables: %v", err)
	}
	if count != 3 {
		t.Errorf("Expected 3 tables, got %d", count)
	}

	// Verify WAL mode
	var mode string
	err = db.QueryRow("PRAGMA journal_mode").Scan(&mode)
	if err != nil {
		t.Fatalf("Failed to query journal mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("Expected WAL mode, got %s", mode)
	}
}

func TestOpenDatabaseTwice(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db, err := OpenDatabase(dbPath)
	require.NoError(t, err)
	db.Close()

	// CREATE TABLE IF NOT EXISTS must tolerate an existing schema
	db, err = OpenDatabase(dbPath)
	require.NoError(t, err)
	db.Close()
}

func TestCredentialsMissingRow(t *testing.T) {
	database := setupTestDB(t)

	creds, err := GetCredentials(database, "hubspot")
	require.NoError(t, err)
	assert.Nil(t, creds)
}

func TestCredentialsWithoutExpiry(t *testing.T) {
	database := setupTestDB(t)

	require.NoError(t, PutCredentials(database, "hubspot", &models.Credentials{AccessToken: "tok"}))

	creds, err := GetCredentials(database, "hubspot")
	require.NoError(t, err)
	require.NotNil(t, creds)
	assert.Equal(t, "tok", creds.AccessToken)
	assert.True(t, creds.Expiry.IsZero())
}

func TestCredentialsRawPayload(t *testing.T) {
	database := setupTestDB(t)

	raw := map[string]any{"access_token": "tok", "hub_id": json.Number("12345"), "id_token": "x"}
	require.NoError(t, PutCredentials(database, "hubspot", &models.Credentials{AccessToken: "tok", Raw: raw}))

	creds, err := GetCredentials(database, "hubspot")
	require.NoError(t, err)
	assert.Equal(t, raw, creds.Raw)

	// Overwriting without a payload clears the old one
	require.NoError(t, PutCredentials(database, "hubspot", &models.Credentials{AccessToken: "tok-2"}))
	creds, err = GetCredentials(database, "hubspot")
	require.NoError(t, err)
	assert.Nil(t, creds.Raw)
}

func TestFetchLogRecordsResults(t *testing.T) {
	database := setupTestDB(t)
	log := NewFetchLog(database)
	ctx := context.Background()

	require.NoError(t, log.RecordFetch(ctx, models.FetchResult{Resource: "contacts", StatusCode: 200, Count: 3}))
	require.NoError(t, log.RecordFetch(ctx, models.FetchResult{Resource: "companies", StatusCode: 500, Err: errors.New("unexpected status 500")}))

	entries, err := RecentFetches(database, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "companies", entries[0].Resource)
	assert.Equal(t, 500, entries[0].StatusCode)
	require.NotNil(t, entries[0].ErrorMessage)
	assert.Equal(t, "unexpected status 500", *entries[0].ErrorMessage)
	assert.Equal(t, "contacts", entries[1].Resource)
	assert.Equal(t, 3, entries[1].ItemCount)
	assert.Nil(t, entries[1].ErrorMessage)

	contacts, err := GetSyncState(database, "contacts")
	require.NoError(t, err)
	require.NotNil(t, contacts)
	assert.Equal(t, "idle", contacts.Status)
	assert.Equal(t, 3, contacts.LastItemCount)
	assert.NotNil(t, contacts.LastSyncTime)

	companies, err := GetSyncState(database, "companies")
	require.NoError(t, err)
	require.NotNil(t, companies)
	assert.Equal(t, "error", companies.Status)
	require.NotNil(t, companies.ErrorMessage)
}

func TestSyncStateRecovery(t *testing.T) {
	database := setupTestDB(t)

	errMsg := "unexpected status 502"
	require.NoError(t, UpdateSyncStatus(database, "contacts", "error", &errMsg))
	require.NoError(t, UpdateSyncSuccess(database, "contacts", 5))

	state, err := GetSyncState(database, "contacts")
	require.NoError(t, err)
	assert.Equal(t, "idle", state.Status)
	assert.Nil(t, state.ErrorMessage)

	states, err := GetAllSyncStates(database)
	require.NoError(t, err)
	assert.Len(t, states, 1)

	missing, err := GetSyncState(database, "deals")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
