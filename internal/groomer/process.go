package groomer

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/backmassage/groomer/internal/logging"
	"github.com/backmassage/groomer/internal/record"
)

// ProcessTree builds a FileRecord for every file under srcDir (destination
// mirrored under dstDir), calls fn on it and writes its processing record.
// With Options.Workers > 1 files are handled by a fixed-size pool; each
// file's classify, mark, copy and log steps stay on one worker.
//
// Per-file failures are recorded and counted; the batch continues. The
// returned stats are the engine's cumulative counters. Cancelling ctx stops
// dispatching new files and returns ctx's error after in-flight files
// finish.
func (e *Engine) ProcessTree(ctx context.Context, srcDir, dstDir string, fn FileFunc) (RunStats, error) {
	workers := e.opts.Workers
	if workers < 1 {
		workers = 1
	}
	var g errgroup.Group
	g.SetLimit(workers)

	for path, err := range e.ListAllFiles(srcDir) {
		if ctx.Err() != nil {
			e.log.Warn("Interrupted")
			break
		}
		if err != nil {
			e.listingFailed(srcDir, err)
			continue
		}
		dst, err := mirror(srcDir, dstDir, path)
		if err != nil {
			e.listingFailed(path, err)
			continue
		}
		g.Go(func() error {
			e.processOne(ctx, path, dst, fn)
			return nil
		})
	}
	_ = g.Wait()

	return e.Stats(), ctx.Err()
}

// processOne is the per-file unit of work.
func (e *Engine) processOne(ctx context.Context, src, dst string, fn FileFunc) {
	f, err := e.NewFile(src, dst)
	if err != nil {
		e.log.Error("Cannot classify %s: %v", src, err)
		e.updateStats(func(s *RunStats) { s.Failed++ })
		d := record.NewLogDetails()
		d.Set(record.KeyFilepath, src)
		d.Set(KeyError, err)
		e.writeDetails(d)
		return
	}

	e.log.Debug(e.opts.Verbose, "%s: %s", filepath.Base(src), f.Mimetype)
	ferr := fn(ctx, f)
	if ferr != nil {
		if !f.Details.Has(KeyError) {
			f.AddDetail(KeyError, ferr)
		}
		e.log.Error("%s: %v", src, ferr)
	}

	m := f.Marking()
	skipped := f.Details.Bool(KeySkipped)
	e.updateStats(func(s *RunStats) {
		s.Files++
		if ferr != nil {
			s.Failed++
		}
		if skipped {
			s.Skipped++
		}
		switch {
		case m == record.Clean:
			s.Clean++
		case m.Has(record.Dangerous):
			s.Dangerous++
		default:
			if m.Has(record.Unknown) {
				s.Unknown++
			}
			if m.Has(record.Binary) {
				s.Binary++
			}
		}
	})

	if err := e.LogFile(f); err != nil {
		e.log.Error("Processing log: %v", err)
	}
}

func (e *Engine) listingFailed(path string, err error) {
	e.log.Error("Cannot list %s: %v", path, err)
	e.updateStats(func(s *RunStats) { s.Failed++ })
	d := record.NewLogDetails()
	d.Set(record.KeyFilepath, path)
	d.Set(KeyError, err)
	e.writeDetails(d)
}

func (e *Engine) writeDetails(d *record.LogDetails) {
	if err := e.procLog.Write(logging.LevelError, "failed", d.All()); err != nil {
		e.log.Error("Processing log: %v", err)
	}
}

// mirror maps path under srcDir to the same relative location under dstDir.
func mirror(srcDir, dstDir, path string) (string, error) {
	absSrc, err := filepath.Abs(srcDir)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(absSrc, path)
	if err != nil {
		return "", err
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s is outside %s", path, srcDir)
	}
	return filepath.Join(dstDir, rel), nil
}
