// Package groomer is the sanitization engine: it owns the run's log files,
// audits the source tree before anything is touched, and hands a [Policy]
// the primitives it needs to classify, mark and copy every file.
//
// A run moves through four states:
//
//	Initialized -> Auditing -> Processing -> Done
//
// with Failed reachable from Auditing and Processing. The audit manifest is
// always complete before the first file is processed.
//
// Files under <destination>/logs:
//
//	processing.log    one JSON object per processed file
//	content.log       tree manifest of the source (see package audit)
//	debug_stdout.log  only with Options.Debug
//	debug_stderr.log  only with Options.Debug
package groomer
