package safeio

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// Copy copies the content, permission bits and modification time of src to
// dst, creating dst's parent directories. An existing dst file is replaced.
// A src that is not a regular file, after following links, is refused with a
// [*PathTypeConflictError].
//
// The content is written to a temporary file next to dst and renamed into
// place, so readers of dst see either the old or the new file, never a
// partial one.
func Copy(src, dst string) error {
	if fi, err := os.Lstat(dst); err == nil && fi.IsDir() {
		return &PathTypeConflictError{Path: dst, Want: "file", Got: "dir"}
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	// Stat before opening: opening a pipe or a device node can block.
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return &PathTypeConflictError{Path: src, Want: "file", Got: kindOf(info)}
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	// src may have been swapped between the stat and the open.
	if info, err = in.Stat(); err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return &PathTypeConflictError{Path: src, Want: "file", Got: kindOf(info)}
	}

	dir := filepath.Dir(dst)
	if err := MakeDir(dir); err != nil {
		return err
	}

	// Leading '.' keeps the temp file out of casual directory listings.
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dst)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	if _, err := io.Copy(tmp, in); err != nil {
		return err
	}
	if err := tmp.Chmod(info.Mode().Perm()); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chtimes(tmpName, info.ModTime(), info.ModTime()); err != nil {
		return err
	}
	return os.Rename(tmpName, dst)
}
