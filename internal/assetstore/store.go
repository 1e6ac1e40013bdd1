// Package assetstore manages the flat output directory of generated audio
// assets. The presence of a file is the only record of completed work:
// there is no manifest, no checksum, and no metadata sidecar.
package assetstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// File and directory permissions.
const (
	filePermissions = 0o600
	dirPermissions  = 0o750
)

// Static errors.
var (
	ErrFilenameEmpty = errors.New("filename cannot be empty")
	ErrEmptyAsset    = errors.New("asset data cannot be empty")
)

// Store is an asset store rooted at a single output directory.
type Store struct {
	dir string
}

// New creates a store rooted at dir. The directory is created on first
// write, not here, so a listing-only run never touches the filesystem.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the root directory of the store.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the full path for a stored filename.
func (s *Store) Path(filename string) string {
	return filepath.Join(s.dir, filename)
}

// Exists reports whether an asset with the given filename is present.
func (s *Store) Exists(filename string) bool {
	_, err := os.Stat(s.Path(filename))

	return err == nil
}

// Write stores an asset under filename. The data is written to a uniquely
// named temporary file in the same directory and renamed into place, so a
// partially written asset is never observable under its final name.
func (s *Store) Write(filename string, data []byte) error {
	if filename == "" {
		return ErrFilenameEmpty
	}

	if len(data) == 0 {
		return ErrEmptyAsset
	}

	dirErr := os.MkdirAll(s.dir, dirPermissions)
	if dirErr != nil {
		return fmt.Errorf("failed to create output directory: %w", dirErr)
	}

	tempPath := s.Path(filename + "." + uuid.NewString() + ".tmp")

	writeErr := os.WriteFile(tempPath, data, filePermissions)
	if writeErr != nil {
		return fmt.Errorf("failed to write asset: %w", writeErr)
	}

	renameErr := os.Rename(tempPath, s.Path(filename))
	if renameErr != nil {
		// Best effort: do not leave the temp file behind.
		_ = os.Remove(tempPath)

		return fmt.Errorf("failed to finalize asset: %w", renameErr)
	}

	return nil
}

// Remove deletes an asset if it exists. Removing an absent asset is not an
// error; the store only tracks presence.
func (s *Store) Remove(filename string) error {
	err := os.Remove(s.Path(filename))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove asset %s: %w", filename, err)
	}

	return nil
}
