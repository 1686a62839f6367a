package policy

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/backmassage/groomer/internal/record"
)

// Decision names the action chosen for a file and the rule that chose it.
type Decision struct {
	Rule     string // rule name, or "symlinks", "broken_mime", "default"
	Action   Action
	ForceExt string
}

// Decide picks the action for f. rel is f's path relative to the source
// root. Decide may add classifier keys (symlink, broken_mime) to f.
func (r *Rules) Decide(f *record.FileRecord, rel string) Decision {
	if f.IsSymlink() {
		return Decision{Rule: "symlinks", Action: r.Symlinks}
	}
	if !f.HasMimetype() {
		return Decision{Rule: "broken_mime", Action: r.BrokenMime}
	}
	rel = strings.ToLower(filepath.ToSlash(rel))
	for _, rule := range r.Rules {
		if rule.matches(f, rel) {
			return Decision{Rule: rule.Name, Action: rule.Action, ForceExt: rule.ForceExt}
		}
	}
	return Decision{Rule: "default", Action: r.Default}
}

func (rule *Rule) matches(f *record.FileRecord, rel string) bool {
	if f.Extension != "" && slices.Contains(rule.Extensions, f.Extension) {
		return true
	}
	for _, p := range rule.Mimetypes {
		if ok, _ := doublestar.Match(p, f.Mimetype); ok {
			return true
		}
	}
	for _, p := range rule.Paths {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}
