package record

import (
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Sentinel mimetypes for entries whose content is never inspected.
const (
	MimeSymlink   = "inode/symlink"
	MimeEmpty     = "inode/x-empty"
	MimeDirectory = "inode/directory"

	MimeFIFO        = "inode/fifo"
	MimeSocket      = "inode/socket"
	MimeCharDevice  = "inode/chardevice"
	MimeBlockDevice = "inode/blockdevice"
)

// Sniffer guesses the mimetype of the file at path from its content.
type Sniffer interface {
	Sniff(path string) (string, error)
}

// SnifferFunc adapts a plain function to [Sniffer].
type SnifferFunc func(path string) (string, error)

// Sniff calls f(path).
func (f SnifferFunc) Sniff(path string) (string, error) { return f(path) }

// MagicSniffer detects mimetypes from magic numbers. Parameters such as
// "; charset=utf-8" are dropped so the result is always "major/minor".
type MagicSniffer struct{}

// Sniff implements [Sniffer]. Only regular files are opened; pipes,
// sockets and device nodes are named from their mode bits.
func (MagicSniffer) Sniff(path string) (string, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if mt := modeMimetype(fi.Mode()); mt != "" {
		return mt, nil
	}
	if fi.Size() == 0 {
		return MimeEmpty, nil
	}

	m, err := mimetype.DetectFile(path)
	if err != nil {
		return "", fmt.Errorf("detect mimetype: %w", err)
	}
	return stripParams(m.String()), nil
}

// modeMimetype returns the sentinel mimetype of a non-regular mode, or ""
// for a regular file.
func modeMimetype(m fs.FileMode) string {
	switch {
	case m.IsRegular():
		return ""
	case m.IsDir():
		return MimeDirectory
	case m&fs.ModeNamedPipe != 0:
		return MimeFIFO
	case m&fs.ModeSocket != 0:
		return MimeSocket
	case m&fs.ModeCharDevice != 0:
		return MimeCharDevice
	case m&fs.ModeDevice != 0:
		return MimeBlockDevice
	}
	return "inode/x-special"
}

func stripParams(mt string) string {
	mt, _, _ = strings.Cut(mt, ";")
	return strings.TrimSpace(mt)
}
