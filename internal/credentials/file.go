package credentials

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileStore keeps the record in a JSON file.
type FileStore struct {
	path string
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates a FileStore for path, creating parent directories with 0700 permissions.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("file path cannot be empty")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create credentials directory: %w", err)
	}

	return &FileStore{path: path}, nil
}

// Path returns the file path where the record is stored.
func (f *FileStore) Path() string {
	return f.path
}

// Load reads and decodes the record.
func (f *FileStore) Load(ctx context.Context) (TokenRecord, error) {
	if err := ctx.Err(); err != nil {
		return TokenRecord{}, err
	}

	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return TokenRecord{}, ErrNoRecord
	}
	if err != nil {
		return TokenRecord{}, fmt.Errorf("failed to read credentials file: %w", err)
	}

	return DecodeTokenRecord(data)
}

// Save atomically replaces the file using temp file + rename and leaves it with 0600 permissions.
func (f *FileStore) Save(ctx context.Context, record TokenRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := record.Encode()
	if err != nil {
		return err
	}

	tempFile, err := os.CreateTemp(filepath.Dir(f.path), "*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tempName := tempFile.Name()
	defer func() { _ = os.Remove(tempName) }()
	defer func() { _ = tempFile.Close() }()

	if _, err := tempFile.Write(data); err != nil {
		return fmt.Errorf("failed to write credentials: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to write credentials: %w", err)
	}

	if err := os.Rename(tempName, f.path); err != nil {
		return fmt.Errorf("failed to replace credentials file: %w", err)
	}

	return os.Chmod(f.path, 0600)
}
