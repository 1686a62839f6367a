package groomer

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backmassage/groomer/internal/record"
)

var textSniffer = record.SnifferFunc(func(string) (string, error) { return "text/plain", nil })

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func sourceTree(t *testing.T) string {
	t.Helper()
	src := t.TempDir()
	writeFile(t, filepath.Join(src, "a.txt"), "hello")
	writeFile(t, filepath.Join(src, "sub", "b.conf"), "x=1")
	writeFile(t, filepath.Join(src, "sub", "run.exe"), "MZ")
	return src
}

func newEngine(t *testing.T, opts Options, p Policy) *Engine {
	t.Helper()
	if opts.Sniffer == nil {
		opts.Sniffer = textSniffer
	}
	e, err := New(opts, p)
	require.NoError(t, err)
	t.Cleanup(func() { _ = e.Close() })
	return e
}

func readRecords(t *testing.T, dst string) []map[string]any {
	t.Helper()
	f, err := os.Open(filepath.Join(dst, LogDirName, ProcessingLogName))
	require.NoError(t, err)
	defer f.Close()
	var out []map[string]any
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var rec map[string]any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &rec))
		out = append(out, rec)
	}
	require.NoError(t, sc.Err())
	return out
}

var noop = PolicyFunc(func(context.Context, *Engine, string, string) error { return nil })

func TestNew_RequiresPolicy(t *testing.T) {
	_, err := New(Options{SourceRoot: t.TempDir(), DestRoot: t.TempDir()}, nil)
	assert.ErrorIs(t, err, ErrPolicyRequired)
}

func TestNew_ResetsLogDir(t *testing.T) {
	dst := t.TempDir()
	stale := filepath.Join(dst, LogDirName, "old.log")
	writeFile(t, stale, "previous run")

	newEngine(t, Options{SourceRoot: t.TempDir(), DestRoot: dst}, noop)

	assert.NoFileExists(t, stale)
	assert.FileExists(t, filepath.Join(dst, LogDirName, ProcessingLogName))
	assert.FileExists(t, filepath.Join(dst, LogDirName, ContentLogName))
	assert.NoFileExists(t, filepath.Join(dst, LogDirName, DebugStdoutLogName))
	assert.NoFileExists(t, filepath.Join(dst, LogDirName, DebugStderrLogName))
}

func TestNew_DebugLogs(t *testing.T) {
	dst := t.TempDir()
	e := newEngine(t, Options{SourceRoot: t.TempDir(), DestRoot: dst, Debug: true}, noop)

	assert.False(t, e.SafeCopy(filepath.Join(dst, "missing"), filepath.Join(dst, "x")))
	require.NoError(t, e.Close())

	b, err := os.ReadFile(filepath.Join(dst, LogDirName, DebugStderrLogName))
	require.NoError(t, err)
	assert.Contains(t, string(b), "missing")
	assert.FileExists(t, filepath.Join(dst, LogDirName, DebugStdoutLogName))
}

func TestNew_ResourcesDir(t *testing.T) {
	opts := Options{SourceRoot: t.TempDir(), DestRoot: t.TempDir(), ResourcesDir: filepath.Join(t.TempDir(), "nope")}
	_, err := New(opts, noop)
	assert.ErrorIs(t, err, ErrResourcesMissing)

	opts.ResourcesDir = t.TempDir()
	e := newEngine(t, opts, noop)
	assert.Equal(t, opts.ResourcesDir, e.ResourcesDir())
}

func TestRun_AuditsBeforePolicy(t *testing.T) {
	src := sourceTree(t)
	dst := t.TempDir()

	var called bool
	p := PolicyFunc(func(_ context.Context, e *Engine, s, d string) error {
		called = true
		assert.Equal(t, src, s)
		assert.Equal(t, dst, d)
		assert.Equal(t, StateProcessing, e.State())

		manifest, err := os.ReadFile(filepath.Join(dst, LogDirName, ContentLogName))
		require.NoError(t, err)
		assert.Contains(t, string(manifest), "+-- b.conf\t- ")
		assert.Contains(t, string(manifest), "+-- a.txt\t- ")
		return nil
	})
	e := newEngine(t, Options{SourceRoot: src, DestRoot: dst}, p)

	assert.Equal(t, StateInitialized, e.State())
	require.NoError(t, e.Run(context.Background()))
	assert.True(t, called)
	assert.Equal(t, StateDone, e.State())

	err := e.Run(context.Background())
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestRun_AuditFailureIsFatal(t *testing.T) {
	dst := t.TempDir()
	p := PolicyFunc(func(context.Context, *Engine, string, string) error {
		t.Error("policy must not run after a failed audit")
		return nil
	})
	e := newEngine(t, Options{SourceRoot: filepath.Join(t.TempDir(), "gone"), DestRoot: dst}, p)

	err := e.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "audit")
	assert.Equal(t, StateFailed, e.State())
}

func TestRun_PolicyError(t *testing.T) {
	boom := errors.New("boom")
	p := PolicyFunc(func(context.Context, *Engine, string, string) error { return boom })
	e := newEngine(t, Options{SourceRoot: sourceTree(t), DestRoot: t.TempDir()}, p)

	assert.ErrorIs(t, e.Run(context.Background()), boom)
	assert.Equal(t, StateFailed, e.State())
}

func TestRun_AfterClose(t *testing.T) {
	e := newEngine(t, Options{SourceRoot: t.TempDir(), DestRoot: t.TempDir()}, noop)
	require.NoError(t, e.Close())
	require.NoError(t, e.Close())
	assert.ErrorIs(t, e.Run(context.Background()), ErrClosed)
}

func TestRun_DestinationInsideSourceSkipsLogs(t *testing.T) {
	src := sourceTree(t)

	var listed []string
	p := PolicyFunc(func(_ context.Context, e *Engine, s, _ string) error {
		for path, err := range e.ListAllFiles(s) {
			require.NoError(t, err)
			listed = append(listed, path)
		}
		return nil
	})
	e := newEngine(t, Options{SourceRoot: src, DestRoot: src}, p)
	require.NoError(t, e.Run(context.Background()))

	for _, path := range listed {
		assert.NotContains(t, path, string(filepath.Separator)+LogDirName+string(filepath.Separator))
	}
	assert.Len(t, listed, 3)

	manifest, err := os.ReadFile(filepath.Join(src, LogDirName, ContentLogName))
	require.NoError(t, err)
	assert.NotContains(t, string(manifest), ProcessingLogName)
}

func TestCopyFile_Collision(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	writeFile(t, filepath.Join(src, "a"), "first")
	writeFile(t, filepath.Join(src, "a.bin"), "second")
	e := newEngine(t, Options{SourceRoot: src, DestRoot: dst}, noop)

	one, err := e.NewFile(filepath.Join(src, "a"), filepath.Join(dst, "a"))
	require.NoError(t, err)
	one.MakeBinary()
	two, err := e.NewFile(filepath.Join(src, "a.bin"), filepath.Join(dst, "a.bin"))
	require.NoError(t, err)

	require.NoError(t, e.CopyFile(one))
	require.NoError(t, e.CopyFile(two))

	assert.Equal(t, filepath.Join(src, "a"), two.Details.String(KeyCollision))
	b, err := os.ReadFile(filepath.Join(dst, "a.bin"))
	require.NoError(t, err)
	assert.Equal(t, "second", string(b))

	st := e.Stats()
	assert.Equal(t, 2, st.Copied)
	assert.Equal(t, 1, st.Collisions)
	assert.Equal(t, int64(len("first")+len("second")), st.CopiedBytes)
}

func TestCopyFile_FailureRecorded(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	writeFile(t, filepath.Join(src, "a"), "x")
	require.NoError(t, os.MkdirAll(filepath.Join(dst, "a"), 0o755))
	e := newEngine(t, Options{SourceRoot: src, DestRoot: dst}, noop)

	f, err := e.NewFile(filepath.Join(src, "a"), filepath.Join(dst, "a"))
	require.NoError(t, err)
	err = e.CopyFile(f)
	require.Error(t, err)
	assert.True(t, f.Details.Has(KeyError))
	assert.Equal(t, 1, e.Stats().CopyFailed)
}

func TestMetadataSplit(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	writeFile(t, filepath.Join(src, "img.jpg"), "jpeg")
	e := newEngine(t, Options{SourceRoot: src, DestRoot: dst}, noop)

	f, err := e.NewFile(filepath.Join(src, "img.jpg"), filepath.Join(dst, "pics", "img.jpg"))
	require.NoError(t, err)
	out, err := e.MetadataSplit(f, ".metadata.txt")
	require.NoError(t, err)
	_, _ = out.WriteString("Make: test")
	require.NoError(t, out.Close())
	assert.FileExists(t, filepath.Join(dst, "pics", "img.jpg.metadata.txt"))

	writeFile(t, filepath.Join(src, "img.jpg.exif"), "carried by source")
	_, err = e.MetadataSplit(f, ".exif")
	assert.Error(t, err)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "auditing", StateAuditing.String())
	assert.Equal(t, "State(42)", State(42).String())
}

// recordingLogger captures Mark and Error lines for assertions.
type recordingLogger struct {
	nopLogger
	mu    sync.Mutex
	lines []string
}

func (r *recordingLogger) Error(format string, args ...interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, "ERROR "+fmt.Sprintf(format, args...))
}

func (r *recordingLogger) Warn(format string, args ...interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, "WARN "+fmt.Sprintf(format, args...))
}

func (r *recordingLogger) joined() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return strings.Join(r.lines, "\n")
}
