package naming

import (
	"path/filepath"
	"strings"
)

const (
	dangerousPrefix = "DANGEROUS_"
	dangerousSuffix = "_DANGEROUS"
	unknownPrefix   = "UNKNOWN_"
	binarySuffix    = ".bin"
)

// Dangerous wraps the basename of path in DANGEROUS_..._DANGEROUS. The
// directory part is left untouched and no extension is changed, so the
// original extension is buried in the middle of the name.
func Dangerous(path string) string {
	return rewriteBase(path, func(name string) string {
		return dangerousPrefix + name + dangerousSuffix
	})
}

// Unknown prepends UNKNOWN_ to the basename of path.
func Unknown(path string) string {
	return rewriteBase(path, func(name string) string {
		return unknownPrefix + name
	})
}

// Binary appends .bin to the basename of path.
func Binary(path string) string {
	return rewriteBase(path, func(name string) string {
		return name + binarySuffix
	})
}

// ForceExt appends ext to path unless path already ends with it. It never
// replaces a mismatched extension: "a.conf" forced to ".txt" is "a.conf.txt".
// The second result reports whether path was changed.
func ForceExt(path, ext string) (string, bool) {
	if strings.HasSuffix(path, ext) {
		return path, false
	}
	return path + ext, true
}

// IsDangerousName reports whether the basename of path already carries the
// dangerous wrapping.
func IsDangerousName(path string) bool {
	name := filepath.Base(path)
	return len(name) >= len(dangerousPrefix)+len(dangerousSuffix) &&
		strings.HasPrefix(name, dangerousPrefix) &&
		strings.HasSuffix(name, dangerousSuffix)
}

func rewriteBase(path string, fn func(string) string) string {
	dir, name := filepath.Split(path)
	return dir + fn(name)
}
