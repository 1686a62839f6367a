//go:build unix

package record

import (
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_FIFONeverOpened(t *testing.T) {
	dir := t.TempDir()
	pipe := filepath.Join(dir, "pipe")
	require.NoError(t, syscall.Mkfifo(pipe, 0o644))

	// A sniffer that would block on the pipe must not be consulted.
	opened := false
	sniff := SnifferFunc(func(string) (string, error) {
		opened = true
		return "", nil
	})

	type result struct {
		f   *FileRecord
		err error
	}
	done := make(chan result, 1)
	go func() {
		f, err := New(pipe, filepath.Join(dir, "out", "pipe"), sniff)
		done <- result{f, err}
	}()

	select {
	case r := <-done:
		require.NoError(t, r.err)
		assert.False(t, opened)
		assert.Equal(t, MimeFIFO, r.f.Mimetype)
		assert.Equal(t, "inode", r.f.MajorType)
		assert.Equal(t, "fifo", r.f.MinorType)
		assert.True(t, r.f.HasMimetype())
	case <-time.After(3 * time.Second):
		t.Fatal("New blocked on a FIFO")
	}
}

func TestMagicSniffer_FIFO(t *testing.T) {
	pipe := filepath.Join(t.TempDir(), "pipe")
	require.NoError(t, syscall.Mkfifo(pipe, 0o644))

	done := make(chan string, 1)
	go func() {
		mt, _ := MagicSniffer{}.Sniff(pipe)
		done <- mt
	}()

	select {
	case mt := <-done:
		assert.Equal(t, MimeFIFO, mt)
	case <-time.After(3 * time.Second):
		t.Fatal("Sniff blocked on a FIFO")
	}
}

func TestMagicSniffer_CharDevice(t *testing.T) {
	mt, err := MagicSniffer{}.Sniff("/dev/null")
	if err != nil {
		t.Skipf("no /dev/null: %v", err)
	}
	assert.Equal(t, MimeCharDevice, mt)
}
