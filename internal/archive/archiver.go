package archive

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Archiver relocates intake files into the long-term storage directory under a
// content-addressed name. The name is a collision-resistant identifier, not a
// checksum of the stored bytes, so renaming the file never invalidates it.
type Archiver struct {
	storageDir string
	newID      func() string
}

// NewArchiver creates an Archiver that stores files under storageDir.
func NewArchiver(storageDir string) *Archiver {
	return &Archiver{
		storageDir: storageDir,
		newID:      defaultID,
	}
}

// NewArchiverWithID creates an Archiver with a custom identifier source.
// Used by tests to force deterministic names and collisions.
func NewArchiverWithID(storageDir string, newID func() string) *Archiver {
	return &Archiver{
		storageDir: storageDir,
		newID:      newID,
	}
}

// defaultID returns the hex sha256 of a fresh UUID.
func defaultID() string {
	sum := sha256.Sum256([]byte(uuid.NewString()))
	return hex.EncodeToString(sum[:])
}

// Archive moves the file at intakePath into the storage directory under a new
// hash-derived base name, preserving the original extension. The move is a
// single rename. If a file with the generated name already exists the archive
// is aborted and the intake file is left untouched.
func (a *Archiver) Archive(intakePath string) (string, error) {
	ext := filepath.Ext(intakePath)
	newPath := filepath.Join(a.storageDir, a.newID()+ext)

	// Collision means the identifier source failed us; abort rather than
	// overwrite an archived document.
	if _, err := os.Stat(newPath); err == nil {
		return "", fmt.Errorf("archive name collision at %s", newPath)
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("failed to probe storage path %s: %w", newPath, err)
	}

	if err := os.Rename(intakePath, newPath); err != nil {
		return "", fmt.Errorf("failed to move %s into storage: %w", intakePath, err)
	}

	return newPath, nil
}
