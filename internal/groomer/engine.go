package groomer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"path/filepath"
	"sync"

	"github.com/backmassage/groomer/internal/audit"
	"github.com/backmassage/groomer/internal/logging"
	"github.com/backmassage/groomer/internal/naming"
	"github.com/backmassage/groomer/internal/record"
	"github.com/backmassage/groomer/internal/safeio"
)

// Log file names under <destination>/logs.
const (
	LogDirName         = "logs"
	ProcessingLogName  = "processing.log"
	ContentLogName     = "content.log"
	DebugStdoutLogName = "debug_stdout.log"
	DebugStderrLogName = "debug_stderr.log"
)

// Detail keys written by the engine and the reference policy.
const (
	KeyError     = "error"
	KeySkipped   = "skipped"
	KeyCollision = "dest_collision"
	KeyNotFile   = "not_regular_file"
)

// Sentinel errors for whole-run preconditions.
var (
	ErrPolicyRequired   = errors.New("a policy is required: no ProcessDir implementation")
	ErrNotInitialized   = errors.New("engine has already run")
	ErrResourcesMissing = errors.New("resources directory not found")
	ErrClosed           = errors.New("engine is closed")
)

// State is the engine's lifecycle position.
type State int

const (
	StateInitialized State = iota
	StateAuditing
	StateProcessing
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateInitialized:
		return "initialized"
	case StateAuditing:
		return "auditing"
	case StateProcessing:
		return "processing"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Options configures an [Engine].
type Options struct {
	SourceRoot   string
	DestRoot     string
	Debug        bool
	ResourcesDir string // optional; must exist when set
	Workers      int    // <= 1 processes files sequentially
	Verbose      bool

	Sniffer record.Sniffer // nil selects record.MagicSniffer
	Logger  Logger         // nil discards operator messages
}

// Engine owns one sanitization run.
type Engine struct {
	opts    Options
	policy  Policy
	log     Logger
	sniffer record.Sniffer
	logDir  string

	procFile    *os.File
	contentFile *os.File
	debugOut    io.Writer
	debugErr    io.Writer
	closers     []io.Closer
	procLog     *logging.ProcessingLog

	claims *naming.ClaimTracker

	mu     sync.Mutex
	state  State
	stats  RunStats
	closed bool
}

// New resets <DestRoot>/logs, opens the run's log files and returns an engine
// in [StateInitialized]. The caller must Close it.
func New(opts Options, policy Policy) (*Engine, error) {
	if policy == nil {
		return nil, ErrPolicyRequired
	}
	if opts.SourceRoot == "" || opts.DestRoot == "" {
		return nil, errors.New("source and destination roots are required")
	}
	if opts.ResourcesDir != "" {
		fi, err := os.Stat(opts.ResourcesDir)
		if err != nil || !fi.IsDir() {
			return nil, fmt.Errorf("%w: %s", ErrResourcesMissing, opts.ResourcesDir)
		}
	}

	e := &Engine{
		opts:    opts,
		policy:  policy,
		log:     opts.Logger,
		sniffer: opts.Sniffer,
		logDir:  filepath.Join(opts.DestRoot, LogDirName),
		claims:  naming.NewClaimTracker(),
	}
	if e.log == nil {
		e.log = nopLogger{}
	}
	if e.sniffer == nil {
		e.sniffer = record.MagicSniffer{}
	}

	if err := e.openLogs(); err != nil {
		_ = e.Close()
		return nil, err
	}
	return e, nil
}

func (e *Engine) openLogs() error {
	if err := safeio.RemoveTree(e.logDir); err != nil {
		return fmt.Errorf("reset log directory: %w", err)
	}
	if err := safeio.MakeDir(e.logDir); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}

	var err error
	if e.procFile, err = e.openAppend(ProcessingLogName); err != nil {
		return err
	}
	if e.contentFile, err = e.openAppend(ContentLogName); err != nil {
		return err
	}
	e.procLog = logging.NewProcessingLog(e.procFile)

	e.debugOut, e.debugErr = io.Discard, io.Discard
	if e.opts.Debug {
		if e.debugOut, err = e.openAppend(DebugStdoutLogName); err != nil {
			return err
		}
		if e.debugErr, err = e.openAppend(DebugStderrLogName); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) openAppend(name string) (*os.File, error) {
	f, err := os.OpenFile(filepath.Join(e.logDir, name), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	e.closers = append(e.closers, f)
	return f, nil
}

// Close releases every log handle. Safe to call more than once.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true
	var errs []error
	for _, c := range e.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Run audits the source tree into content.log and then hands the run to the
// policy. An audit failure is fatal: no file is processed.
func (e *Engine) Run(ctx context.Context) error {
	e.mu.Lock()
	switch {
	case e.closed:
		e.mu.Unlock()
		return ErrClosed
	case e.state != StateInitialized:
		e.mu.Unlock()
		return fmt.Errorf("%w (state %s)", ErrNotInitialized, e.state)
	}
	e.state = StateAuditing
	e.mu.Unlock()

	e.log.Info("Auditing %s", e.opts.SourceRoot)
	a := audit.New(e.contentFile, audit.WithExclude(e.logDir))
	if err := a.Tree(e.opts.SourceRoot); err != nil {
		e.setState(StateFailed)
		return fmt.Errorf("audit: %w", err)
	}
	if err := ctx.Err(); err != nil {
		e.setState(StateFailed)
		return err
	}

	e.setState(StateProcessing)
	if err := e.policy.ProcessDir(ctx, e, e.opts.SourceRoot, e.opts.DestRoot); err != nil {
		e.setState(StateFailed)
		return err
	}
	e.setState(StateDone)
	return nil
}

func (e *Engine) setState(s State) {
	e.mu.Lock()
	e.state = s
	e.mu.Unlock()
}

// State returns the current lifecycle state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Stats returns a snapshot of the run's counters.
func (e *Engine) Stats() RunStats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stats
}

func (e *Engine) updateStats(fn func(*RunStats)) {
	e.mu.Lock()
	fn(&e.stats)
	e.mu.Unlock()
}

// SourceRoot returns the run's source directory.
func (e *Engine) SourceRoot() string { return e.opts.SourceRoot }

// DestRoot returns the run's destination directory.
func (e *Engine) DestRoot() string { return e.opts.DestRoot }

// LogDir returns <destination>/logs.
func (e *Engine) LogDir() string { return e.logDir }

// ResourcesDir returns the mimetype backend's resource directory, if any.
func (e *Engine) ResourcesDir() string { return e.opts.ResourcesDir }

// RunID identifies this run in processing.log.
func (e *Engine) RunID() string { return e.procLog.RunID() }

// Logger returns the operator logger.
func (e *Engine) Logger() Logger { return e.log }

// Verbose reports whether policies should emit debug lines.
func (e *Engine) Verbose() bool { return e.opts.Verbose }

// DebugOut receives diagnostic output; io.Discard unless Options.Debug.
func (e *Engine) DebugOut() io.Writer { return e.debugOut }

// DebugErr receives diagnostic errors; io.Discard unless Options.Debug.
func (e *Engine) DebugErr() io.Writer { return e.debugErr }

// NewFile classifies src with the engine's sniffer.
func (e *Engine) NewFile(src, dst string) (*record.FileRecord, error) {
	return record.New(src, dst, e.sniffer)
}

// ListAllFiles lists the files under root, skipping the engine's log
// directory.
func (e *Engine) ListAllFiles(root string) iter.Seq2[string, error] {
	return safeio.ListAllFiles(root, e.logDir)
}

// SafeMakeDir creates path and its parents.
func (e *Engine) SafeMakeDir(path string) error { return safeio.MakeDir(path) }

// SafeRemove removes a single file; missing is not an error.
func (e *Engine) SafeRemove(path string) error { return safeio.Remove(path) }

// SafeRemoveTree removes path recursively; missing is not an error.
func (e *Engine) SafeRemoveTree(path string) error { return safeio.RemoveTree(path) }

// Destinations returns how many distinct destination paths CopyFile has
// written.
func (e *Engine) Destinations() int { return e.claims.Len() }

// SafeCopy copies src to dst and reports success. Failures are logged, not
// returned.
func (e *Engine) SafeCopy(src, dst string) bool {
	if err := e.copy(src, dst); err != nil {
		e.log.Warn("Copy failed: %v", err)
		fmt.Fprintf(e.debugErr, "copy %s -> %s: %v\n", src, dst, err)
		return false
	}
	return true
}

// CopyFile copies f to its destination path. A failure is also recorded on
// f's details.
func (e *Engine) CopyFile(f *record.FileRecord) error {
	if prev, clash := e.claims.Claim(f.SourcePath, f.DestPath); clash {
		f.AddDetail(KeyCollision, prev)
		e.updateStats(func(s *RunStats) { s.Collisions++ })
		e.log.Warn("Destination collision: %s overwrites copy of %s", f.SourcePath, prev)
	}
	if err := e.copy(f.SourcePath, f.DestPath); err != nil {
		f.AddDetail(KeyError, err)
		if safeio.IsPathTypeConflict(err) {
			f.AddDetail(KeyNotFile, true)
			e.log.Warn("Not copied, not a regular file: %s", f.SourcePath)
		}
		fmt.Fprintf(e.debugErr, "copy %s -> %s: %v\n", f.SourcePath, f.DestPath, err)
		return err
	}
	return nil
}

func (e *Engine) copy(src, dst string) error {
	err := safeio.Copy(src, dst)
	if err != nil {
		e.updateStats(func(s *RunStats) { s.CopyFailed++ })
		return err
	}
	var n int64
	if fi, statErr := os.Lstat(dst); statErr == nil {
		n = fi.Size()
	}
	e.updateStats(func(s *RunStats) {
		s.Copied++
		s.CopiedBytes += n
	})
	fmt.Fprintf(e.debugOut, "copied %s -> %s\n", src, dst)
	return nil
}

// MetadataSplit opens a sidecar for f at DestPath+suffix. It refuses when the
// source already carries a sidecar with that suffix.
func (e *Engine) MetadataSplit(f *record.FileRecord, suffix string) (*os.File, error) {
	out, err := safeio.MetadataSplit(f.SourcePath, f.DestPath, suffix)
	if err != nil {
		fmt.Fprintf(e.debugErr, "metadata split %s%s: %v\n", f.DestPath, suffix, err)
		return nil, err
	}
	return out, nil
}

// LogFile writes f's processing record. Records for concurrently processed
// files never interleave.
func (e *Engine) LogFile(f *record.FileRecord) error {
	level, msg := logging.LevelInfo, "processed"
	if f.Details.Has(KeyError) {
		level, msg = logging.LevelError, "failed"
	} else if f.IsDangerous() {
		level = logging.LevelWarning
	}
	return e.procLog.Write(level, msg, f.Details.All())
}
