// Package config holds runtime configuration: defaults, CLI flag parsing, and
// validation.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// MaxWorkers caps --workers; copying is I/O bound and more workers only
// thrash the disk.
const MaxWorkers = 64

// Config holds all runtime settings. It is populated by [DefaultConfig] and
// then mutated by [ParseFlags] before being passed (by pointer) to packages
// that need it.
type Config struct {
	// Paths (set from --source / --destination).
	SourceDir string
	DestDir   string

	// Policy.
	PolicyFile   string // YAML rules; empty means the built-in rules.
	ResourcesDir string // Extra data for the mimetype backend; optional.

	// Behavior.
	Debug   bool // Keep debug_stdout.log / debug_stderr.log under <dest>/logs.
	Workers int  // Default: 1 (sequential).

	// Display and logging.
	Verbose   bool
	ColorMode ColorMode // Default: "auto".
	LogFile   string    // Optional operator log file path.
	CheckOnly bool      // Run --check diagnostics and exit.
}

// DefaultConfig returns a Config with all defaults. Used as the base before
// [ParseFlags] applies CLI overrides.
func DefaultConfig() Config {
	return Config{
		Workers:   1,
		ColorMode: ColorAuto,
	}
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

// Validate checks enum and range fields. When not in CheckOnly mode, it also
// requires that both source and destination paths are non-empty.
func (c *Config) Validate() error {
	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return errors.New("invalid color mode (use 'auto', 'always' or 'never')")
	}

	if c.Workers < 1 || c.Workers > MaxWorkers {
		return fmt.Errorf("workers must be between 1 and %d (got %d)", MaxWorkers, c.Workers)
	}

	if c.CheckOnly {
		return nil
	}
	if c.SourceDir == "" || c.DestDir == "" {
		return errors.New("need both --source and --destination")
	}
	return nil
}

// ValidatePaths ensures the resolved destination directory is neither the
// source nor inside it: the run would otherwise list, audit and copy its own
// output. Both arguments must be absolute, symlink-resolved paths.
func (c *Config) ValidatePaths(sourceAbs, destAbs string) error {
	sep := string(filepath.Separator)
	if destAbs == sourceAbs || strings.HasPrefix(destAbs+sep, sourceAbs+sep) {
		return errors.New("destination directory must not be inside source directory")
	}
	return nil
}
