package safeio

import (
	"io/fs"
	"iter"
	"os"
	"path/filepath"
)

// ListAllFiles lazily yields the absolute path of every non-directory entry
// below root, depth first, siblings in byte order of their names.
//
// Symlinks are never followed. A symlink pointing at a directory is treated
// as a directory and neither yielded nor entered; every other symlink
// (including broken ones) is yielded like a file. Paths listed in skip are
// pruned. A directory reachable twice is entered once.
//
// Errors are yielded with an empty path; the caller decides whether to stop.
// Breaking out of the loop stops the walk.
func ListAllFiles(root string, skip ...string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		abs, err := filepath.Abs(root)
		if err != nil {
			yield("", err)
			return
		}
		pruned := make(map[string]struct{}, len(skip))
		for _, p := range skip {
			if a, err := filepath.Abs(p); err == nil {
				pruned[a] = struct{}{}
			}
		}

		info, err := os.Lstat(abs)
		if err != nil {
			yield("", err)
			return
		}
		visited := NewVisited()
		visited.Visit(abs, info)

		// Stack of directories still to read. Files of a directory are
		// yielded before its subdirectories are entered.
		stack := []string{abs}
		for len(stack) > 0 {
			dir := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			entries, err := os.ReadDir(dir)
			if err != nil {
				if !yield("", err) {
					return
				}
				continue
			}

			var subdirs []string
			for _, e := range entries {
				path := filepath.Join(dir, e.Name())
				if _, ok := pruned[path]; ok {
					continue
				}
				switch {
				case e.IsDir():
					info, err := e.Info()
					if err != nil {
						if !yield("", err) {
							return
						}
						continue
					}
					if visited.Visit(path, info) {
						subdirs = append(subdirs, path)
					}
				case e.Type()&fs.ModeSymlink != 0 && pointsToDir(path):
					// a link to a directory is neither yielded nor followed
				default:
					if !yield(path, nil) {
						return
					}
				}
			}
			for i := len(subdirs) - 1; i >= 0; i-- {
				stack = append(stack, subdirs[i])
			}
		}
	}
}

func pointsToDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}
