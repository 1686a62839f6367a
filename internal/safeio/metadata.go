package safeio

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// MetadataSplit opens dstPath+suffix for writing a sidecar (for instance
// metadata stripped from an image), creating parent directories as needed.
// An existing file at that path is truncated.
//
// It refuses with [ErrMetadataExists] when srcPath+suffix exists: the source
// already ships a file with the sidecar's name, and writing ours would
// shadow it in the destination tree. Note the check is against the source
// side, not the destination.
func MetadataSplit(srcPath, dstPath, suffix string) (*os.File, error) {
	if _, err := os.Lstat(srcPath + suffix); err == nil {
		return nil, fmt.Errorf("cannot create split metadata file for %q, type %q: %w", dstPath, suffix, ErrMetadataExists)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	if err := MakeDir(filepath.Dir(dstPath)); err != nil {
		return nil, err
	}
	return os.OpenFile(dstPath+suffix, os.O_CREATE|os.O_RDWR|os.O_TRUNC, 0o644)
}
