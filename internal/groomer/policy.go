package groomer

import (
	"context"

	"github.com/backmassage/groomer/internal/record"
)

// Policy decides what happens to every file under the source root. It is
// the only part of a sanitizer the engine does not provide.
type Policy interface {
	ProcessDir(ctx context.Context, e *Engine, srcDir, dstDir string) error
}

// PolicyFunc adapts an ordinary function to [Policy].
type PolicyFunc func(ctx context.Context, e *Engine, srcDir, dstDir string) error

// ProcessDir calls f.
func (f PolicyFunc) ProcessDir(ctx context.Context, e *Engine, srcDir, dstDir string) error {
	return f(ctx, e, srcDir, dstDir)
}

// FileFunc handles one file inside [Engine.ProcessTree]. A returned error is
// recorded on the file's log entry; it does not stop the batch.
type FileFunc func(ctx context.Context, f *record.FileRecord) error
