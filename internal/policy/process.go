package policy

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/backmassage/groomer/internal/groomer"
	"github.com/backmassage/groomer/internal/naming"
	"github.com/backmassage/groomer/internal/record"
)

// Detail keys added by the policy.
const (
	KeyRule          = "rule"           // rule that decided the action
	KeySpoofedMarker = "spoofed_marker" // source name already looks marked
	KeyLinkRefused   = "link_refused"   // symlink not followed, with the reason
)

// ErrLinkEscapes is recorded for a symlink whose target resolves outside the
// source root.
var ErrLinkEscapes = errors.New("link target is outside the source tree")

// ProcessDir applies the rules to every file under srcDir.
func (r *Rules) ProcessDir(ctx context.Context, e *groomer.Engine, srcDir, dstDir string) error {
	base, err := filepath.Abs(srcDir)
	if err != nil {
		return err
	}
	_, err = e.ProcessTree(ctx, srcDir, dstDir, func(_ context.Context, f *record.FileRecord) error {
		rel, err := filepath.Rel(base, f.SourcePath)
		if err != nil {
			rel = filepath.Base(f.SourcePath)
		}
		return r.Apply(e, f, rel)
	})
	return err
}

// Apply decides, marks and copies one file.
func (r *Rules) Apply(e *groomer.Engine, f *record.FileRecord, rel string) error {
	d := r.Decide(f, rel)
	f.AddDetail(KeyRule, d.Rule)
	if naming.IsDangerousName(f.SourcePath) {
		f.AddDetail(KeySpoofedMarker, true)
		e.Logger().Warn("%s already carries a DANGEROUS_ name", rel)
	}

	if d.Action == ActionSkip {
		f.AddDetail(groomer.KeySkipped, true)
		e.Logger().Debug(e.Verbose(), "Skip %s (%s)", rel, d.Rule)
		return nil
	}

	// Non-skip actions copy the link's target; it must resolve inside the
	// source tree.
	if d.Rule == "symlinks" {
		if err := linkInside(e.SourceRoot(), f.SourcePath); err != nil {
			f.AddDetail(KeyLinkRefused, err)
			f.AddDetail(groomer.KeySkipped, true)
			e.Logger().Warn("Not following link %s: %v", rel, err)
			return nil
		}
	}

	switch d.Action {
	case ActionDangerous:
		f.MakeDangerous()
	case ActionUnknown:
		f.MakeUnknown()
	case ActionBinary:
		f.MakeBinary()
	}
	if d.ForceExt != "" {
		f.ForceExtension(d.ForceExt)
	}

	if m := f.Marking(); m != record.Clean {
		e.Logger().Mark("%s: %s -> %s", m, rel, filepath.Base(f.DestPath))
	}
	return e.CopyFile(f)
}

// linkInside resolves the link at path and fails unless its final target
// lies under root.
func linkInside(root, path string) error {
	root, err := filepath.Abs(root)
	if err != nil {
		return err
	}
	if root, err = filepath.EvalSymlinks(root); err != nil {
		return err
	}
	target, err := filepath.EvalSymlinks(path)
	if err != nil {
		return fmt.Errorf("resolve link: %w", err)
	}
	rel, err := filepath.Rel(root, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("%s: %w", target, ErrLinkEscapes)
	}
	return nil
}
