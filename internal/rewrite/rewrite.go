// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rewrite replaces the contents of a post on disk, optionally
// keeping the original as a .BAK sibling.
package rewrite

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// BackupExt replaces the extension of the original file when backing up.
const BackupExt = ".BAK"

// ErrBackupExists reports that the backup path is already taken. Writing is
// refused so an older backup is never lost.
var ErrBackupExists = errors.New("backup file already exists")

// BackupPath returns the .BAK sibling of path: "posts/a.md" becomes
// "posts/a.BAK".
func BackupPath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + BackupExt
}

// File writes content to path. With backup the original is renamed to
// BackupPath(path) first and a new file is created exclusively; without it
// the file is truncated and overwritten in place.
func File(path string, content []byte, backup bool) error {
	if !backup {
		if err := os.WriteFile(path, content, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		return nil
	}

	bak := BackupPath(path)
	if _, err := os.Lstat(bak); err == nil {
		return fmt.Errorf("%w: %s", ErrBackupExists, bak)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("checking backup %s: %w", bak, err)
	}

	if err := os.Rename(path, bak); err != nil {
		return fmt.Errorf("backing up %s: %w", path, err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if _, err := f.Write(content); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}
