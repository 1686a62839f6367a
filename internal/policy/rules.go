package policy

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// Action is what happens to a matched file.
type Action string

const (
	ActionCopy      Action = "copy"      // copy unchanged
	ActionDangerous Action = "dangerous" // mark dangerous, then copy
	ActionUnknown   Action = "unknown"   // mark unknown, then copy
	ActionBinary    Action = "binary"    // mark binary, then copy
	ActionSkip      Action = "skip"      // do not copy; logged as skipped
)

// Valid reports whether a is one of the known actions.
func (a Action) Valid() bool {
	switch a {
	case ActionCopy, ActionDangerous, ActionUnknown, ActionBinary, ActionSkip:
		return true
	}
	return false
}

// UnmarshalYAML accepts the action names case-insensitively.
func (a *Action) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	v := Action(strings.ToLower(strings.TrimSpace(s)))
	if !v.Valid() {
		return fmt.Errorf("line %d: unknown action %q (use copy, dangerous, unknown, binary or skip)", value.Line, s)
	}
	*a = v
	return nil
}

// Rule maps files to an action.
type Rule struct {
	Name       string   `yaml:"name"`
	Extensions []string `yaml:"extensions"`
	Mimetypes  []string `yaml:"mimetypes"`
	Paths      []string `yaml:"paths"`
	Action     Action   `yaml:"action"`
	ForceExt   string   `yaml:"force_ext"`
}

// Rules is a loaded policy document. It implements groomer.Policy.
type Rules struct {
	Default    Action `yaml:"default"`
	Symlinks   Action `yaml:"symlinks"`
	BrokenMime Action `yaml:"broken_mime"`
	Rules      []Rule `yaml:"rules"`
}

// ErrInvalidPolicy wraps every validation failure of a policy document.
var ErrInvalidPolicy = errors.New("invalid policy")

//go:embed default.yaml
var defaultDocument []byte

// DefaultRules returns the built-in policy.
func DefaultRules() *Rules {
	r, err := Parse(defaultDocument)
	if err != nil {
		panic("policy: built-in rules: " + err.Error())
	}
	return r
}

// Load reads a policy file, expanding ${VAR} references from the
// environment before parsing.
func Load(path string) (*Rules, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read policy: %w", err)
	}
	r, err := Parse([]byte(os.ExpandEnv(string(raw))))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

// Parse decodes and validates a policy document. Unknown keys are errors; an
// empty document yields the default actions and no rules.
func Parse(data []byte) (*Rules, error) {
	var r Rules
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&r); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPolicy, err)
	}
	if err := r.normalize(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPolicy, err)
	}
	return &r, nil
}

// normalize fills defaults, lowercases extensions and checks patterns.
func (r *Rules) normalize() error {
	if r.Default == "" {
		r.Default = ActionUnknown
	}
	if r.Symlinks == "" {
		r.Symlinks = ActionSkip
	}
	if r.BrokenMime == "" {
		r.BrokenMime = ActionDangerous
	}

	for i := range r.Rules {
		rule := &r.Rules[i]
		if rule.Name == "" {
			rule.Name = fmt.Sprintf("rule-%d", i+1)
		}
		if rule.Action == "" {
			return fmt.Errorf("rule %q: action is required", rule.Name)
		}
		if len(rule.Extensions)+len(rule.Mimetypes)+len(rule.Paths) == 0 {
			return fmt.Errorf("rule %q: needs at least one of extensions, mimetypes, paths", rule.Name)
		}
		for j, ext := range rule.Extensions {
			ext = strings.ToLower(strings.TrimSpace(ext))
			if ext != "" && !strings.HasPrefix(ext, ".") {
				ext = "." + ext
			}
			rule.Extensions[j] = ext
		}
		for _, p := range rule.Mimetypes {
			if !doublestar.ValidatePattern(p) {
				return fmt.Errorf("rule %q: bad mimetype pattern %q", rule.Name, p)
			}
		}
		for j, p := range rule.Paths {
			if !doublestar.ValidatePattern(p) {
				return fmt.Errorf("rule %q: bad path pattern %q", rule.Name, p)
			}
			rule.Paths[j] = strings.ToLower(p)
		}
	}
	return nil
}
