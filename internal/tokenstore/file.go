package tokenstore

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/tunelink/oauth2-device-client/internal/token"
)

// maxPathLen is the longest path treated as a real file location. Anything
// longer is assumed to be garbage rather than a path, and the store degrades
// to in-memory-only behavior.
const maxPathLen = 255

// FileStore persists one token record as an indented JSON file. An empty or
// unreasonably long path makes Save a deliberate no-op, so callers may hold
// in-memory-only tokens without special-casing.
type FileStore struct {
	path string
}

// NewFileStore creates a file store writing to the given path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) usable() bool {
	return s.path != "" && len(s.path) <= maxPathLen
}

// Save writes the record at 0600. No concurrent-writer guarantee is made.
func (s *FileStore) Save(ctx context.Context, rec *token.Record) error {
	if !s.usable() {
		slog.Debug("token file path unset, skipping persistence")
		return nil
	}

	data, err := json.MarshalIndent(rec, "", " ")
	if err != nil {
		return fmt.Errorf("marshaling token record: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("writing token file: %w", err)
	}

	slog.Info("token record saved",
		"path", s.path,
		"expires_at", rec.ExpiresAt,
	)
	return nil
}

// Load reads the record back. A missing or unusable path is ErrNotFound.
func (s *FileStore) Load(ctx context.Context) (*token.Record, error) {
	if !s.usable() {
		return nil, ErrNotFound
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, s.path)
		}
		return nil, fmt.Errorf("reading token file: %w", err)
	}

	var rec token.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return &rec, nil
}
