//go:build !unix

package safeio

import (
	"io/fs"
	"path/filepath"
)

// fileKey falls back to the cleaned path where inodes are not exposed.
type fileKey struct {
	path string
}

func keyOf(path string, _ fs.FileInfo) (fileKey, bool) {
	return fileKey{path: filepath.Clean(path)}, true
}
