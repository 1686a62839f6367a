package logging

import (
	"context"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Processing log levels.
const (
	LevelInfo    = slog.LevelInfo
	LevelWarning = slog.LevelWarn
	LevelError   = slog.LevelError
)

// runKey carries the run id on every record.
const runKey = "run"

// reserved keys lead every record; a detail reusing one is written as
// "detail_<key>".
var reserved = map[string]bool{
	slog.TimeKey:    true,
	slog.LevelKey:   true,
	slog.MessageKey: true,
	runKey:          true,
}

// ProcessingLog writes one JSON object per line:
//
//	{"time":"...","level":"info","msg":"...","run":"<uuid>",<fields in order>}
//
// The slog JSON handler writes each record whole under its own lock, so
// concurrent workers never interleave lines.
type ProcessingLog struct {
	logger *slog.Logger
	run    string
	now    func() time.Time
	count  atomic.Int64
}

// NewProcessingLog returns a log writing to w with a fresh run id.
func NewProcessingLog(w io.Writer) *ProcessingLog {
	run := uuid.NewString()
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       LevelInfo,
		ReplaceAttr: levelName,
	})
	return &ProcessingLog{
		logger: slog.New(h).With(runKey, run),
		run:    run,
		now:    time.Now,
	}
}

// levelName writes levels as "info", "warning" and "error".
func levelName(groups []string, a slog.Attr) slog.Attr {
	if len(groups) > 0 || a.Key != slog.LevelKey {
		return a
	}
	lvl, ok := a.Value.Any().(slog.Level)
	if !ok {
		return a
	}
	if lvl == LevelWarning {
		return slog.String(slog.LevelKey, "warning")
	}
	return slog.String(slog.LevelKey, strings.ToLower(lvl.String()))
}

// RunID returns the identifier stamped on every record of this log.
func (p *ProcessingLog) RunID() string { return p.run }

// Records returns the number of records written so far.
func (p *ProcessingLog) Records() int { return int(p.count.Load()) }

// Write appends a record. fields may be nil and are written in iteration
// order.
func (p *ProcessingLog) Write(level slog.Level, msg string, fields iter.Seq2[string, any]) error {
	r := slog.NewRecord(p.now().UTC(), level, msg, 0)
	if fields != nil {
		for k, v := range fields {
			if reserved[k] {
				k = "detail_" + k
			}
			if err, ok := v.(error); ok {
				v = err.Error()
			}
			r.AddAttrs(slog.Any(k, v))
		}
	}
	// Handle rather than LogAttrs: the record time is injectable and write
	// errors reach the caller.
	if err := p.logger.Handler().Handle(context.Background(), r); err != nil {
		return fmt.Errorf("write processing log: %w", err)
	}
	p.count.Add(1)
	return nil
}
