// Package fileutil provides file permission constants and an atomic
// writer for merged output documents.
package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
)

// OwnerReadWrite is the file permission mode for merged Envoy documents,
// which may carry upstream addresses and credentials.
const OwnerReadWrite os.FileMode = 0o600

// WriteAtomic writes data to path through a temporary file in the same
// directory that is renamed into place once fully written and synced.
// On failure path is left untouched and the temporary file is removed.
func WriteAtomic(path string, data []byte, perm os.FileMode) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			// Best-effort removal of partially written temp file.
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err = os.Chmod(tmpName, perm); err != nil {
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
