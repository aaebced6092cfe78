// SPDX-License-Identifier: MPL-2.0

package document

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// File is a Document backed by a file on disk. Edits are made in memory and
// written back by Save; the file is never partially rewritten.
type File struct {
	*Buffer

	path   string
	target string
	mode   fs.FileMode
}

// OpenFile loads path into a File document with the cursor at the start.
// When create is set a missing file opens as an empty document. A symlinked
// path is saved through to the file it points at.
func OpenFile(path string, create bool) (*File, error) {
	mode := fs.FileMode(0o644)

	target := path
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		target = resolved
	}

	data, err := os.ReadFile(target)
	switch {
	case err == nil:
		if info, statErr := os.Stat(target); statErr == nil {
			mode = info.Mode().Perm()
		}
	case errors.Is(err, fs.ErrNotExist) && create:
		data = nil
	default:
		return nil, fmt.Errorf("failed to read document: %w", err)
	}

	return &File{
		Buffer: &Buffer{text: data},
		path:   path,
		target: target,
		mode:   mode,
	}, nil
}

// Path returns the file path the document was opened from.
func (f *File) Path() string {
	return f.path
}

// Save writes the document back to its path through a temporary file in the
// same directory followed by a rename.
func (f *File) Save() (err error) {
	dir := filepath.Dir(f.target)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(f.target)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(f.Bytes()); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write document: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to sync document: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close document: %w", err)
	}
	if err = os.Chmod(tmpName, f.mode); err != nil {
		return fmt.Errorf("failed to set document permissions: %w", err)
	}
	if err = os.Rename(tmpName, f.target); err != nil {
		return fmt.Errorf("failed to replace document: %w", err)
	}
	return nil
}
