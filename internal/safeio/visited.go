package safeio

import "io/fs"

// Visited remembers directories already entered during one walk so a
// directory reachable twice is never expanded twice.
type Visited struct {
	seen map[fileKey]struct{}
}

// NewVisited returns an empty set.
func NewVisited() *Visited {
	return &Visited{seen: make(map[fileKey]struct{})}
}

// Visit records the directory at path and reports whether this is the first
// time it is seen.
func (v *Visited) Visit(path string, fi fs.FileInfo) bool {
	key, ok := keyOf(path, fi)
	if !ok {
		return true
	}
	if _, dup := v.seen[key]; dup {
		return false
	}
	v.seen[key] = struct{}{}
	return true
}
