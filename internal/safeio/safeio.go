package safeio

import (
	"errors"
	"io/fs"
	"os"
)

// RemoveTree removes path and everything below it. A missing path is not an
// error.
func RemoveTree(path string) error {
	return os.RemoveAll(path)
}

// Remove removes a single file. A missing path is not an error.
func Remove(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// MakeDir creates path and any missing parents. An existing directory is not
// an error; any other entry at path is a [*PathTypeConflictError].
func MakeDir(path string) error {
	if fi, err := os.Stat(path); err == nil {
		if fi.IsDir() {
			return nil
		}
		return &PathTypeConflictError{Path: path, Want: "dir", Got: kindOf(fi)}
	}
	return os.MkdirAll(path, 0o755)
}

// kindOf names the type of entry fi describes, for error messages.
func kindOf(fi fs.FileInfo) string {
	switch {
	case fi.Mode().IsRegular():
		return "file"
	case fi.IsDir():
		return "dir"
	default:
		return fi.Mode().Type().String()
	}
}
