//go:build unix

package safeio

import (
	"io/fs"
	"syscall"
)

type fileKey struct {
	dev uint64
	ino uint64
}

func keyOf(_ string, fi fs.FileInfo) (fileKey, bool) {
	st, ok := fi.Sys().(*syscall.Stat_t)
	if !ok {
		return fileKey{}, false
	}
	return fileKey{dev: uint64(st.Dev), ino: uint64(st.Ino)}, true
}
