// Package pipeline is the CLI-level runner: it builds the policy and the
// engine from the configuration, runs one sanitization pass and logs the
// batch summary.
package pipeline
