package record

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrIsDirectory is returned by [New] when the source path is a directory.
var ErrIsDirectory = errors.New("source is a directory")

// FileRecord holds the classification and marking state of one source file.
//
// MajorType and MinorType are exported so tests and policies can inspect
// them; writing them directly bypasses the classifier and voids the
// both-or-neither invariant.
type FileRecord struct {
	SourcePath string
	DestPath   string

	// Extension is lowercase with its leading dot, or empty.
	Extension string

	Mimetype  string
	MajorType string
	MinorType string

	Details *LogDetails

	marking Marking
}

// New classifies the file at src and returns its record with dst as the
// intended destination. A nil sniffer means [MagicSniffer].
//
// Only a missing source or a directory is an error. Content sniffing
// failures are recorded under [KeyMimeError] and leave the mimetype empty.
func New(src, dst string, sniffer Sniffer) (*FileRecord, error) {
	fi, err := os.Lstat(src)
	if err != nil {
		return nil, fmt.Errorf("stat source: %w", err)
	}
	if fi.IsDir() {
		return nil, fmt.Errorf("%s: %w", src, ErrIsDirectory)
	}
	if sniffer == nil {
		sniffer = MagicSniffer{}
	}

	f := &FileRecord{
		SourcePath: src,
		DestPath:   dst,
		Details:    NewLogDetails(),
	}
	f.Details.Set(KeyFilepath, src)
	f.Extension = extensionOf(src)
	f.determineMimetype(fi, sniffer)
	return f, nil
}

// extensionOf returns the lowercased extension of path. Leading dots of the
// basename do not start an extension, so ".bashrc" has none.
func extensionOf(path string) string {
	base := strings.TrimLeft(filepath.Base(path), ".")
	return strings.ToLower(filepath.Ext(base))
}

func (f *FileRecord) determineMimetype(fi os.FileInfo, sniffer Sniffer) {
	if fi.Mode()&os.ModeSymlink != 0 {
		// Never follow: the target may be missing or outside the tree.
		f.Mimetype = MimeSymlink
	} else if mt := modeMimetype(fi.Mode()); mt != "" {
		// Opening a pipe or a device can block forever.
		f.Mimetype = mt
	} else {
		mt, err := sniffer.Sniff(f.SourcePath)
		if err != nil {
			mt = ""
			f.Details.Set(KeyMimeError, err)
		}
		f.Mimetype = mt
	}

	f.MajorType, f.MinorType = "", ""
	if strings.Count(f.Mimetype, "/") == 1 {
		major, minor, _ := strings.Cut(f.Mimetype, "/")
		if major != "" && minor != "" {
			f.MajorType, f.MinorType = major, minor
		}
	}
}

// Marking returns the current marking state.
func (f *FileRecord) Marking() Marking { return f.marking }

// AddDetail stores a consumer-defined key in the log map.
func (f *FileRecord) AddDetail(key string, value any) {
	f.Details.Set(key, value)
}

// HasMimetype reports whether both mimetype halves are known. Each false
// answer records broken_mime.
func (f *FileRecord) HasMimetype() bool {
	if f.MajorType == "" || f.MinorType == "" {
		f.Details.Set(KeyBrokenMime, true)
		return false
	}
	return true
}

// HasExtension reports whether the source has an extension. A false answer
// records no_extension.
func (f *FileRecord) HasExtension() bool {
	if f.Extension == "" {
		f.Details.Set(KeyNoExtension, true)
		return false
	}
	return true
}

// IsSymlink reports whether the source is a symbolic link and, if so,
// records its target. An unreadable target is logged, not returned.
func (f *FileRecord) IsSymlink() bool {
	if f.MajorType != "inode" || f.MinorType != "symlink" || !f.HasMimetype() {
		return false
	}
	target, err := os.Readlink(f.SourcePath)
	if err != nil {
		f.Details.Set(KeySymlink, "")
		f.Details.Set(KeySymlinkError, err)
		return true
	}
	f.Details.Set(KeySymlink, target)
	return true
}

// IsDangerous reports whether the record was marked dangerous.
func (f *FileRecord) IsDangerous() bool { return f.marking.Has(Dangerous) }

// IsUnknown reports whether the record was marked unknown.
func (f *FileRecord) IsUnknown() bool { return f.marking.Has(Unknown) }

// IsBinary reports whether the record was marked binary.
func (f *FileRecord) IsBinary() bool { return f.marking.Has(Binary) }
