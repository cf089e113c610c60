// ABOUTME: Database operations for the credentials table
// ABOUTME: Upserts and loads exchanged OAuth tokens by credential key
package db

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/harperreed/crmlink/models"
)

// GetCredentials loads the credentials stored under key.
// Returns nil, nil when no row exists.
func GetCredentials(db *sql.DB, key string) (*models.Credentials, error) {
	var creds models.Credentials
	var refreshToken sql.NullString
	var tokenType sql.NullString
	var expiresIn sql.NullInt64
	var expiry sql.NullTime
	var rawJSON sql.NullString

	err := db.QueryRow(`
		SELECT access_token, refresh_token, token_type, expires_in, expiry, raw_json
		FROM credentials
		WHERE key = ?
	`, key).Scan(&creds.AccessToken, &refreshToken, &tokenType, &expiresIn, &expiry, &rawJSON)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get credentials: %w", err)
	}

	creds.RefreshToken = refreshToken.String
	creds.TokenType = tokenType.String
	creds.ExpiresIn = expiresIn.Int64
	if expiry.Valid {
		creds.Expiry = expiry.Time
	}
	if rawJSON.Valid && rawJSON.String != "" {
		if err := models.DecodeRaw([]byte(rawJSON.String), &creds.Raw); err != nil {
			return nil, fmt.Errorf("failed to decode raw credentials: %w", err)
		}
	}

	return &creds, nil
}

// PutCredentials replaces the credentials stored under key.
func PutCredentials(db *sql.DB, key string, creds *models.Credentials) error {
	var expiry sql.NullTime
	if !creds.Expiry.IsZero() {
		expiry = sql.NullTime{Time: creds.Expiry, Valid: true}
	}

	var rawJSON sql.NullString
	if creds.Raw != nil {
		data, err := json.Marshal(creds.Raw)
		if err != nil {
			return fmt.Errorf("failed to encode raw credentials: %w", err)
		}
		rawJSON = sql.NullString{String: string(data), Valid: true}
	}

	_, err := db.Exec(`
		INSERT INTO credentials (key, access_token, refresh_token, token_type, expires_in, expiry, raw_json, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
			access_token = excluded.access_token,
			refresh_token = excluded.refresh_token,
			token_type = excluded.token_type,
			expires_in = excluded.expires_in,
			expiry = excluded.expiry,
			raw_json = excluded.raw_json,
			updated_at = CURRENT_TIMESTAMP
	`, key, creds.AccessToken, creds.RefreshToken, creds.TokenType, creds.ExpiresIn, expiry, rawJSON)

	if err != nil {
		return fmt.Errorf("failed to store credentials: %w", err)
	}

	return nil
}
