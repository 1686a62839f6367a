package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/backmassage/groomer/internal/config"
	"github.com/backmassage/groomer/internal/display"
	"github.com/backmassage/groomer/internal/groomer"
	"github.com/backmassage/groomer/internal/logging"
	"github.com/backmassage/groomer/internal/policy"
)

// Run is the top-level batch entry point. It loads the policy, prepares
// <destination>/logs, audits the source and processes every file. The
// returned stats are valid even when err is non-nil.
func Run(ctx context.Context, cfg *config.Config, log *logging.Logger) (groomer.RunStats, error) {
	rules, err := loadPolicy(cfg)
	if err != nil {
		return groomer.RunStats{}, err
	}

	e, err := groomer.New(groomer.Options{
		SourceRoot:   cfg.SourceDir,
		DestRoot:     cfg.DestDir,
		Debug:        cfg.Debug,
		ResourcesDir: cfg.ResourcesDir,
		Workers:      cfg.Workers,
		Verbose:      cfg.Verbose,
		Logger:       log,
	}, rules)
	if err != nil {
		return groomer.RunStats{}, err
	}
	defer e.Close()

	logBatchHeader(cfg, log, rules, e)

	start := time.Now()
	err = e.Run(ctx)
	stats := e.Stats()
	logSummary(log, &stats, time.Since(start), e)
	return stats, err
}

func loadPolicy(cfg *config.Config) (*policy.Rules, error) {
	if cfg.PolicyFile == "" {
		return policy.DefaultRules(), nil
	}
	r, err := policy.Load(cfg.PolicyFile)
	if err != nil {
		return nil, fmt.Errorf("load policy: %w", err)
	}
	return r, nil
}

// --- Logging helpers ---

func logBatchHeader(cfg *config.Config, log *logging.Logger, rules *policy.Rules, e *groomer.Engine) {
	if cfg.PolicyFile != "" {
		log.Info("Policy: %s (%d rules)", cfg.PolicyFile, len(rules.Rules))
	} else {
		log.Info("Policy: built-in (%d rules)", len(rules.Rules))
	}
	log.Info("Default: %s, symlinks: %s, broken mimetype: %s", rules.Default, rules.Symlinks, rules.BrokenMime)
	if cfg.Workers > 1 {
		log.Info("Workers: %d", cfg.Workers)
	}
	if cfg.Debug {
		log.Info("Debug logs: %s", filepath.Join(e.LogDir(), groomer.DebugStdoutLogName))
	}
	log.Debug(cfg.Verbose, "Run id: %s", e.RunID())
}

func logSummary(log *logging.Logger, stats *groomer.RunStats, elapsed time.Duration, e *groomer.Engine) {
	log.Info("==============================")
	log.Info("Done: %d files, %d copied, %d skipped, %d failed",
		stats.Files, stats.Copied, stats.Skipped, stats.Failed)
	log.Info("Summary report:")
	log.Info("  Clean: %d", stats.Clean)
	if stats.Marked() > 0 {
		log.Mark("  Marked: %d (dangerous %d, unknown %d, binary %d)",
			stats.Marked(), stats.Dangerous, stats.Unknown, stats.Binary)
	}
	if stats.Collisions > 0 {
		log.Warn("  Destination collisions: %d (later copy kept)", stats.Collisions)
	}
	if stats.CopyFailed > 0 {
		log.Warn("  Copy failures: %d", stats.CopyFailed)
	}
	log.Info("  Copied: %s in %s", display.FormatBytes(stats.CopiedBytes), elapsed.Round(time.Millisecond))
	log.Debug(e.Verbose(), "  Distinct destinations: %d", e.Destinations())
	log.Info("  Logs: %s", e.LogDir())

	if stats.Failed == 0 {
		log.Success("Run %s finished", e.State())
	} else {
		log.Warn("Run %s with %d failures", e.State(), stats.Failed)
	}
}
