// Package naming holds the destination filename rewrite rules applied when a
// file is marked, and the in-run tracker that notices two source files
// claiming the same destination.
//
// Rewrites (bit-exact, basename only unless noted):
//   - Dangerous: DANGEROUS_<name>_DANGEROUS
//   - Unknown:   UNKNOWN_<name>
//   - Binary:    <name>.bin
//   - ForceExt:  <path><ext> (whole path, concatenated)
package naming
