// ABOUTME: File-backed credential store under the XDG data directory
// ABOUTME: Writes one JSON file per credential key with owner-only permissions
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/harperreed/crmlink/models"
)

// File stores each credential as <dir>/<key>.json.
type File struct {
	dir string
}

// DefaultFileDir returns the XDG-compliant directory for stored credentials.
func DefaultFileDir() string {
	return filepath.Join(xdg.DataHome, "crmlink", "credentials")
}

// NewFile returns a File store rooted at dir, or DefaultFileDir when dir is empty.
func NewFile(dir string) *File {
	if dir == "" {
		dir = DefaultFileDir()
	}
	return &File{dir: dir}
}

// Path returns the file that holds the credentials for key. The key is
// query-escaped, so distinct keys always map to distinct file names.
func (f *File) Path(key string) string {
	return filepath.Join(f.dir, url.QueryEscape(key)+".json")
}

func (f *File) Get(_ context.Context, key string) (*models.Credentials, error) {
	file, err := os.Open(f.Path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to open credentials file: %w", err)
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}

	var creds models.Credentials
	if err := models.DecodeRaw(data, &creds); err != nil {
		return nil, fmt.Errorf("failed to decode credentials: %w", err)
	}

	return &creds, nil
}

func (f *File) Put(_ context.Context, key string, creds *models.Credentials) error {
	if err := os.MkdirAll(f.dir, 0700); err != nil {
		return fmt.Errorf("failed to create credentials directory: %w", err)
	}

	// Write credentials file with restricted permissions
	file, err := os.OpenFile(f.Path(key), os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create credentials file: %w", err)
	}
	defer func() { _ = file.Close() }()

	if err := json.NewEncoder(file).Encode(creds); err != nil {
		return fmt.Errorf("failed to encode credentials: %w", err)
	}

	return nil
}
