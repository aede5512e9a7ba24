package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FileStore persists cache entries as one JSON file per key in a directory.
type FileStore struct {
	storageDir string
}

// ReadError describes a failure to read a single entry file.
type ReadError struct {
	Filename string
	Err      error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("%s: %v", e.Filename, e.Err)
}

// ListResult contains the entries found on disk and any per-file errors.
type ListResult struct {
	Records []Record
	Errors  []ReadError
}

// NewFileStore creates a file store in storageDir, creating the directory if
// needed.
func NewFileStore(storageDir string) (*FileStore, error) {
	if err := os.MkdirAll(storageDir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &FileStore{storageDir: storageDir}, nil
}

// filename maps a key to a file name; keys are URLs and not safe as paths.
func (fs *FileStore) filename(key string) string {
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(fs.storageDir, hex.EncodeToString(sum[:])+".json")
}

// Save writes an entry, replacing any previous one.
func (fs *FileStore) Save(_ context.Context, rec Record) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}

	// 0600: owner-only read/write
	if err := os.WriteFile(fs.filename(rec.Key), data, 0o600); err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}

	return nil
}

// Delete removes an entry. Deleting a missing key is not an error.
func (fs *FileStore) Delete(_ context.Context, key string) error {
	if err := os.Remove(fs.filename(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete cache entry: %w", err)
	}
	return nil
}

// List returns every entry on disk. Corrupted files are collected in the
// result's Errors rather than failing the whole listing.
func (fs *FileStore) List() (*ListResult, error) {
	entries, err := os.ReadDir(fs.storageDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read storage directory: %w", err)
	}

	result := &ListResult{}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}

		data, err := os.ReadFile(filepath.Join(fs.storageDir, entry.Name()))
		if err != nil {
			result.Errors = append(result.Errors, ReadError{Filename: entry.Name(), Err: err})
			continue
		}

		var rec Record
		if err := json.Unmarshal(data, &rec); err != nil {
			result.Errors = append(result.Errors, ReadError{Filename: entry.Name(), Err: err})
			continue
		}

		result.Records = append(result.Records, rec)
	}

	return result, nil
}

// LoadAll returns every readable entry; unreadable files are skipped.
func (fs *FileStore) LoadAll(_ context.Context) ([]Record, error) {
	result, err := fs.List()
	if err != nil {
		return nil, err
	}
	return result.Records, nil
}

// Close is a no-op; FileStore holds no open handles.
func (fs *FileStore) Close() error {
	return nil
}
