package record

import (
	"fmt"
	"iter"
)

// Log keys owned by the classifier and the marker. Consumers may add any
// other key through [FileRecord.AddDetail].
const (
	KeyFilepath     = "filepath"
	KeyDangerous    = "dangerous"
	KeyUnknown      = "unknown"
	KeyBinary       = "binary"
	KeySymlink      = "symlink"
	KeySymlinkError = "symlink_error"
	KeyBrokenMime   = "broken_mime"
	KeyMimeError    = "mime_error"
	KeyNoExtension  = "no_extension"
	KeyForceExt     = "force_ext"
)

// LogDetails is an insertion-ordered string-keyed map. Setting an existing
// key replaces its value in place.
type LogDetails struct {
	keys   []string
	values map[string]any
}

// NewLogDetails returns an empty map.
func NewLogDetails() *LogDetails {
	return &LogDetails{values: make(map[string]any)}
}

// Set stores value under key. Errors are stored as their message so the map
// always serializes to something readable.
func (d *LogDetails) Set(key string, value any) {
	if err, ok := value.(error); ok {
		value = err.Error()
	}
	if _, exists := d.values[key]; !exists {
		d.keys = append(d.keys, key)
	}
	d.values[key] = value
}

// Get returns the value stored under key.
func (d *LogDetails) Get(key string) (any, bool) {
	v, ok := d.values[key]
	return v, ok
}

// Has reports whether key is present.
func (d *LogDetails) Has(key string) bool {
	_, ok := d.values[key]
	return ok
}

// Bool reports whether key holds the boolean true.
func (d *LogDetails) Bool(key string) bool {
	b, ok := d.values[key].(bool)
	return ok && b
}

// String returns the value under key formatted with %v, or "" if absent.
func (d *LogDetails) String(key string) string {
	v, ok := d.values[key]
	if !ok {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Len returns the number of keys.
func (d *LogDetails) Len() int { return len(d.keys) }

// Keys returns a copy of the keys in insertion order.
func (d *LogDetails) Keys() []string {
	return append([]string(nil), d.keys...)
}

// All iterates over the entries in insertion order.
func (d *LogDetails) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		for _, k := range d.keys {
			if !yield(k, d.values[k]) {
				return
			}
		}
	}
}
