// ABOUTME: Database operations for the fetch_log table
// ABOUTME: Records every HubSpot resource request, including the failures that are not propagated
package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/harperreed/crmlink/models"
	"github.com/oklog/ulid/v2"
)

// FetchLogEntry is one recorded resource request.
type FetchLogEntry struct {
	ID           string
	Resource     string
	StatusCode   int
	ItemCount    int
	ErrorMessage *string
	FetchedAt    time.Time
}

// FetchLog persists fetch results and keeps sync_state current.
type FetchLog struct {
	db *sql.DB
}

func NewFetchLog(database *sql.DB) *FetchLog {
	return &FetchLog{db: database}
}

// RecordFetch stores one fetch result.
func (l *FetchLog) RecordFetch(ctx context.Context, result models.FetchResult) error {
	fetchedAt := result.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = time.Now()
	}

	var errorMsg *string
	if !result.OK() {
		msg := result.Err.Error()
		errorMsg = &msg
	}

	id := ulid.MustNew(ulid.Timestamp(fetchedAt), ulid.DefaultEntropy()).String()

	_, err := l.db.ExecContext(ctx, `
		INSERT INTO fetch_log (id, resource, status_code, item_count, error_message, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, id, result.Resource, result.StatusCode, result.Count, errorMsg, fetchedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to record fetch: %w", err)
	}

	if errorMsg != nil {
		return UpdateSyncStatus(l.db, result.Resource, "error", errorMsg)
	}
	return UpdateSyncSuccess(l.db, result.Resource, result.Count)
}

// RecentFetches returns the newest fetch log entries first.
func RecentFetches(db *sql.DB, limit int) ([]FetchLogEntry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := db.Query(`
		SELECT id, resource, status_code, item_count, error_message, fetched_at
		FROM fetch_log
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query fetch log: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []FetchLogEntry
	for rows.Next() {
		var entry FetchLogEntry
		var errorMessage sql.NullString

		if err := rows.Scan(&entry.ID, &entry.Resource, &entry.StatusCode, &entry.ItemCount, &errorMessage, &entry.FetchedAt); err != nil {
			return nil, fmt.Errorf("failed to scan fetch log: %w", err)
		}
		if errorMessage.Valid {
			entry.ErrorMessage = &errorMessage.String
		}

		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fetch log: %w", err)
	}

	return entries, nil
}
