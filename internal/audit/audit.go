package audit

import (
	"bufio"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/backmassage/groomer/internal/safeio"
)

const (
	rootPadding = "   "
	levelIndent = "|  "
)

var separator = strings.Repeat("#", 80)

// Auditor writes manifests to a single destination. Successive calls to
// [Auditor.Tree] append to the same writer.
type Auditor struct {
	w       io.Writer
	exclude map[string]struct{}
	hash    func(path string) (string, error)
}

// Option configures an [Auditor].
type Option func(*Auditor)

// WithExclude prunes the given paths (and everything below them) from the
// manifest. Used to keep the run's own log directory out of the listing when
// it lives inside the audited tree.
func WithExclude(paths ...string) Option {
	return func(a *Auditor) {
		for _, p := range paths {
			if abs, err := filepath.Abs(p); err == nil {
				a.exclude[abs] = struct{}{}
			}
		}
	}
}

// New returns an Auditor writing to w.
func New(w io.Writer, opts ...Option) *Auditor {
	a := &Auditor{
		w:       w,
		exclude: make(map[string]struct{}),
		hash:    HashFile,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// frame is one pending manifest entry. Directories expand into their
// children when popped.
type frame struct {
	path    string
	name    string
	padding string
	info    fs.FileInfo
}

// Tree appends the manifest of root. The walk uses an explicit stack and
// never follows symlinks; a directory reached twice (bind mounts) is listed
// once and then reported as already listed.
func (a *Auditor) Tree(root string) error {
	abs, err := filepath.Abs(root)
	if err != nil {
		return &Error{Path: root, Op: "resolve", Err: err}
	}
	fi, err := os.Lstat(abs)
	if err != nil {
		return &Error{Path: abs, Op: "stat", Err: err}
	}
	if !fi.IsDir() {
		return &Error{Path: abs, Op: "stat", Err: fmt.Errorf("not a directory")}
	}

	bw := bufio.NewWriter(a.w)
	walkErr := a.walk(bw, frame{path: abs, name: filepath.Base(abs), padding: rootPadding, info: fi})
	// Flush what was written even on failure so the log shows where it stopped.
	if err := bw.Flush(); err != nil && walkErr == nil {
		return &Error{Path: abs, Op: "write", Err: err}
	}
	return walkErr
}

func (a *Auditor) walk(w *bufio.Writer, root frame) error {
	visited := safeio.NewVisited()
	stack := []frame{root}

	for len(stack) > 0 {
		fr := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		mode := fr.info.Mode()
		switch {
		case mode&fs.ModeSymlink != 0:
			target, err := os.Readlink(fr.path)
			if err != nil {
				return &Error{Path: fr.path, Op: "readlink", Err: err}
			}
			fmt.Fprintf(w, "%s+-- %s\t- Symbolic link to %s\n", fr.padding, fr.name, target)

		case mode.IsDir():
			if !visited.Visit(fr.path, fr.info) {
				fmt.Fprintf(w, "%s+-- %s/\t- Already listed\n", fr.padding, fr.name)
				continue
			}
			fmt.Fprintf(w, "%s\n%s+- %s/\n", separator, fr.padding, fr.name)
			children, err := a.children(fr)
			if err != nil {
				return err
			}
			for i := len(children) - 1; i >= 0; i-- {
				stack = append(stack, children[i])
			}

		case mode.IsRegular():
			sum, err := a.hash(fr.path)
			if err != nil {
				return &Error{Path: fr.path, Op: "hash", Err: err}
			}
			fmt.Fprintf(w, "%s+-- %s\t- %s\n", fr.padding, fr.name, sum)

		default:
			fmt.Fprintf(w, "%s+-- %s\t- Special file (%s)\n", fr.padding, fr.name, mode.Type())
		}
	}
	return nil
}

// children lists the entries of a directory frame in byte order of their
// names, minus excluded paths.
func (a *Auditor) children(dir frame) ([]frame, error) {
	entries, err := os.ReadDir(dir.path) // sorted by filename
	if err != nil {
		return nil, &Error{Path: dir.path, Op: "readdir", Err: err}
	}
	padding := dir.padding + levelIndent
	out := make([]frame, 0, len(entries))
	for _, e := range entries {
		path := filepath.Join(dir.path, e.Name())
		if _, skip := a.exclude[path]; skip {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, &Error{Path: path, Op: "stat", Err: err}
		}
		out = append(out, frame{path: path, name: e.Name(), padding: padding, info: info})
	}
	return out, nil
}
