// Package check provides system diagnostics (--check mode) and pre-run
// validation (CheckDeps) for the source tree, the destination, the policy
// file and mimetype detection.
package check

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/backmassage/groomer/internal/config"
	"github.com/backmassage/groomer/internal/policy"
	"github.com/backmassage/groomer/internal/record"
)

// Sentinel errors returned by CheckDeps when a run precondition fails.
var (
	ErrSourceNotFound     = errors.New("source directory not found")
	ErrSourceNotDir       = errors.New("source is not a directory")
	ErrDestNotWritable    = errors.New("destination directory is not writable")
	ErrPolicyInvalid      = errors.New("policy file cannot be loaded")
	ErrResourcesNotFound  = errors.New("resources directory not found")
	ErrMimeDetectionBroke = errors.New("mimetype detection self-test failed")
)

// Logger is the minimal logging interface needed by RunCheck.
// Defined here (rather than importing the logging package) so that check
// remains dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Debug(bool, string, ...interface{})
}

// RunCheck runs the --check flow: it reports on the configured paths, the
// policy and mimetype detection. It returns false if anything a run needs is
// broken.
func RunCheck(cfg *config.Config, log Logger) bool {
	log.Info("=== System Check ===")

	ok := true
	if cfg.SourceDir != "" {
		ok = checkSource(cfg.SourceDir, log) && ok
	} else {
		log.Info("Source: not set")
	}
	if cfg.DestDir != "" {
		ok = checkDest(cfg.DestDir, log) && ok
	} else {
		log.Info("Destination: not set")
	}
	ok = checkPolicy(cfg.PolicyFile, log) && ok
	if cfg.ResourcesDir != "" {
		if err := checkResources(cfg.ResourcesDir); err != nil {
			log.Error("%v", err)
			ok = false
		} else {
			log.Success("Resources: %s", cfg.ResourcesDir)
		}
	}
	ok = checkSniffer(log, cfg.Verbose) && ok
	return ok
}

func checkSource(dir string, log Logger) bool {
	if err := checkSourceDir(dir); err != nil {
		log.Error("%v", err)
		return false
	}
	log.Success("Source: %s", dir)
	return true
}

func checkDest(dir string, log Logger) bool {
	if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		log.Info("Destination: %s (will be created)", dir)
		return true
	}
	if err := probeWritable(dir); err != nil {
		log.Error("%v", err)
		return false
	}
	log.Success("Destination: %s (writable)", dir)
	return true
}

func checkPolicy(path string, log Logger) bool {
	if path == "" {
		log.Info("Policy: built-in (%d rules)", len(policy.DefaultRules().Rules))
		return true
	}
	r, err := policy.Load(path)
	if err != nil {
		log.Error("Policy: %v", err)
		return false
	}
	log.Success("Policy: %s (%d rules, default %s)", path, len(r.Rules), r.Default)
	return true
}

// checkSniffer runs the mimetype backend against a few known samples.
func checkSniffer(log Logger, verbose bool) bool {
	results, err := sniffSamples()
	if err != nil {
		log.Error("%v", err)
		return false
	}
	for name, mt := range results {
		log.Debug(verbose, "  %s -> %s", name, mt)
	}
	log.Success("Mimetype detection works")
	return true
}

// CheckDeps is the pre-run validation. It verifies that the source is a
// readable directory, that the destination can be created and written, that
// the policy file parses and that mimetype detection works. Returns a
// sentinel-wrapped error on failure.
func CheckDeps(cfg *config.Config) error {
	if err := checkSourceDir(cfg.SourceDir); err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.DestDir, 0o755); err != nil {
		return fmt.Errorf("%w: %v", ErrDestNotWritable, err)
	}
	if err := probeWritable(cfg.DestDir); err != nil {
		return err
	}
	if cfg.PolicyFile != "" {
		if _, err := policy.Load(cfg.PolicyFile); err != nil {
			return fmt.Errorf("%w: %v", ErrPolicyInvalid, err)
		}
	}
	if cfg.ResourcesDir != "" {
		if err := checkResources(cfg.ResourcesDir); err != nil {
			return err
		}
	}
	_, err := sniffSamples()
	return err
}

// --- internal helpers ---

func checkSourceDir(dir string) error {
	fi, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrSourceNotFound, dir)
	}
	if !fi.IsDir() {
		return fmt.Errorf("%w: %s", ErrSourceNotDir, dir)
	}
	if _, err := os.ReadDir(dir); err != nil {
		return fmt.Errorf("%w: %v", ErrSourceNotFound, err)
	}
	return nil
}

func checkResources(dir string) error {
	fi, err := os.Stat(dir)
	if err != nil || !fi.IsDir() {
		return fmt.Errorf("%w: %s", ErrResourcesNotFound, dir)
	}
	return nil
}

// probeWritable creates and removes a temp file in dir.
func probeWritable(dir string) error {
	f, err := os.CreateTemp(dir, ".groomer-check-*")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDestNotWritable, err)
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(name)
}

// sniffSamples writes known content to a scratch directory and checks the
// detected mimetypes.
func sniffSamples() (map[string]string, error) {
	dir, err := os.MkdirTemp("", "groomer-check-")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMimeDetectionBroke, err)
	}
	defer os.RemoveAll(dir)

	samples := []struct {
		name    string
		content []byte
		want    string
	}{
		{"text", []byte("plain text sample\n"), "text/plain"},
		{"empty", nil, record.MimeEmpty},
		{"png", []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), "image/png"},
	}

	results := make(map[string]string, len(samples))
	var sniffer record.MagicSniffer
	for _, s := range samples {
		p := filepath.Join(dir, s.name)
		if err := os.WriteFile(p, s.content, 0o644); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMimeDetectionBroke, err)
		}
		got, err := sniffer.Sniff(p)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrMimeDetectionBroke, s.name, err)
		}
		if got != s.want {
			return nil, fmt.Errorf("%w: %s detected as %q, want %q", ErrMimeDetectionBroke, s.name, got, s.want)
		}
		results[s.name] = got
	}
	return results, nil
}
