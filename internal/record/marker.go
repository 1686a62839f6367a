package record

import "github.com/backmassage/groomer/internal/naming"

// MakeDangerous marks the file dangerous and wraps its destination basename
// in DANGEROUS_..._DANGEROUS. Calling it again is a no-op.
func (f *FileRecord) MakeDangerous() {
	if f.IsDangerous() {
		return
	}
	f.marking |= Dangerous
	f.Details.Set(KeyDangerous, true)
	f.DestPath = naming.Dangerous(f.DestPath)
}

// MakeUnknown marks the file unknown and prefixes UNKNOWN_ to its
// destination basename. Dangerous and binary files are left alone.
func (f *FileRecord) MakeUnknown() {
	if f.IsDangerous() || f.IsBinary() {
		return
	}
	f.marking |= Unknown
	f.Details.Set(KeyUnknown, true)
	f.DestPath = naming.Unknown(f.DestPath)
}

// MakeBinary marks the file binary and appends .bin to its destination
// basename. Only dangerous files are left alone, so an unknown file becomes
// UNKNOWN_<name>.bin.
func (f *FileRecord) MakeBinary() {
	if f.IsDangerous() {
		return
	}
	f.marking |= Binary
	f.Details.Set(KeyBinary, true)
	f.DestPath = naming.Binary(f.DestPath)
}

// ForceExtension appends ext to the destination path unless it already ends
// with ext.
func (f *FileRecord) ForceExtension(ext string) {
	dst, changed := naming.ForceExt(f.DestPath, ext)
	if !changed {
		return
	}
	f.DestPath = dst
	f.Details.Set(KeyForceExt, true)
}
