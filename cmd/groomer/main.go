// Command groomer copies an untrusted directory tree to a clean destination,
// marking every file the policy does not trust and recording an audit
// manifest and a per-file processing log under <destination>/logs.
//
// It parses flags, validates configuration and paths, and either runs
// diagnostics (--check) or one sanitization pass.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/backmassage/groomer/internal/check"
	"github.com/backmassage/groomer/internal/config"
	"github.com/backmassage/groomer/internal/display"
	"github.com/backmassage/groomer/internal/logging"
	"github.com/backmassage/groomer/internal/pipeline"
)

// version and commit are injected at build time via -ldflags.
var (
	version = "1.0.0"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Phase 1: Bootstrap. The logger doesn't exist yet, so errors go
	// directly to stderr via fmt.
	cfg := config.DefaultConfig()
	if err := config.ParseFlags(&cfg, os.Args[1:], version); err != nil {
		fmt.Fprintf(os.Stderr, "groomer: %v\n", err)
		return 2
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "groomer: %v\n", err)
		return 2
	}

	log, err := logging.NewLogger(&cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "groomer: %v\n", err)
		return 1
	}
	defer log.Close()

	// Phase 2: Logger available; all output goes through log from here on.
	display.PrintBanner(os.Stdout)

	if cfg.CheckOnly {
		if !check.RunCheck(&cfg, log) {
			return 1
		}
		return 0
	}

	// The destination must not be inside the source: the run would list,
	// audit and copy its own output.
	sourceAbs, err := absPath(cfg.SourceDir)
	if err != nil {
		log.Error("Cannot resolve source path: %s", cfg.SourceDir)
		return 1
	}
	destAbs, err := absPath(cfg.DestDir)
	if err != nil {
		log.Error("Cannot resolve destination path: %s", cfg.DestDir)
		return 1
	}
	if err := cfg.ValidatePaths(sourceAbs, destAbs); err != nil {
		log.Error("%v", err)
		log.Error("Choose a destination outside: %s", cfg.SourceDir)
		return 1
	}

	// Fail fast on an unreadable source, an unwritable destination or a
	// broken policy file. This also creates the destination.
	if err := check.CheckDeps(&cfg); err != nil {
		log.Error("%v", err)
		return 1
	}

	log.Info("=== Groomer v%s (%s) ===", version, commit)
	log.Info("Source:      %s", cfg.SourceDir)
	log.Info("Destination: %s", cfg.DestDir)

	// Phase 3: Signal handling. Cancel the context on SIGINT/SIGTERM so the
	// engine stops dispatching files; in-flight copies finish atomically.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			log.Warn("Received interrupt, finishing files in flight...")
			cancel()
		case <-ctx.Done():
		}
	}()

	// Phase 4: Audit, then process every file.
	stats, err := pipeline.Run(ctx, &cfg, log)
	if err != nil {
		log.Error("%v", err)
		return 1
	}
	if stats.Failed > 0 {
		return 1
	}
	return 0
}

// absPath returns the absolute, symlink-resolved path for safe comparison
// of source vs destination directory hierarchies. Trailing components that
// do not exist yet (a destination about to be created) are kept as given.
func absPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	var missing []string
	for {
		resolved, err := filepath.EvalSymlinks(abs)
		if err == nil {
			return filepath.Join(append([]string{resolved}, missing...)...), nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}
		parent := filepath.Dir(abs)
		if parent == abs {
			return "", err
		}
		missing = append([]string{filepath.Base(abs)}, missing...)
		abs = parent
	}
}
