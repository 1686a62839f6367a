package safeio

import (
	"errors"
	"fmt"
)

// ErrMetadataExists is returned by [MetadataSplit] when the source already
// carries a sidecar with the requested suffix.
var ErrMetadataExists = errors.New("metadata sidecar already exists")

// PathTypeConflictError reports a path occupied by the wrong kind of entry
// (for instance a directory where a file is to be written).
type PathTypeConflictError struct {
	Path string
	Want string
	Got  string
}

func (e *PathTypeConflictError) Error() string {
	return fmt.Sprintf("path type conflict at %q (want %s, got %s)", e.Path, e.Want, e.Got)
}

// IsPathTypeConflict reports whether err is or wraps a PathTypeConflictError.
func IsPathTypeConflict(err error) bool {
	var e *PathTypeConflictError
	return errors.As(err, &e)
}
