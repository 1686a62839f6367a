// Package safeio provides filesystem primitives that tolerate pre-existing
// state: removing what is already gone and creating what already exists are
// both no-ops, and copies overwrite.
//
// Failures that callers must see (a directory where a file is expected, a
// sidecar that would shadow the source's own) are typed so they can be
// matched with errors.As / errors.Is.
package safeio
