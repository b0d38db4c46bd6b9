//
// SPDX-License-Identifier: GPL-3.0-or-later
//
// Copyright (C) 2025 Aaron Mathis aaron.mathis@gmail.com
//
// This file is part of Leadset.
//
// Leadset is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Leadset is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Leadset. If not, see https://www.gnu.org/licenses/.

package writers

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// AtomicFile is an io.WriteCloser that replaces the file at its target path only
// when Close succeeds. Data goes to a temporary file in the same directory, so
// readers of the target path see either the old content or the complete new one.
type AtomicFile struct {
	path string
	tmp  *os.File
	perm os.FileMode
	done bool
}

// CreateAtomic starts a replacement of the file at path.
func CreateAtomic(path string) (*AtomicFile, error) {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}

	tmp, err := os.CreateTemp(dir, "."+base+".tmp-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temporary file for %s: %w", path, err)
	}

	return &AtomicFile{path: path, tmp: tmp, perm: 0o644}, nil
}

// Write implements io.Writer
func (a *AtomicFile) Write(p []byte) (int, error) {
	if a.done {
		return 0, os.ErrClosed
	}
	return a.tmp.Write(p)
}

// Close syncs the temporary file and renames it over the target path.
func (a *AtomicFile) Close() error {
	if a.done {
		return nil
	}
	a.done = true

	tmpName := a.tmp.Name()
	if err := a.tmp.Sync(); err != nil {
		a.tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to sync %s: %w", tmpName, err)
	}
	if err := a.tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close %s: %w", tmpName, err)
	}
	if err := os.Chmod(tmpName, a.perm); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to set mode on %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, a.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", a.path, err)
	}
	return nil
}

// Abort discards everything written and leaves the target path untouched.
func (a *AtomicFile) Abort() error {
	if a.done {
		return nil
	}
	a.done = true

	closeErr := a.tmp.Close()
	removeErr := os.Remove(a.tmp.Name())
	return errors.Join(closeErr, removeErr)
}
