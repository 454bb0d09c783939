// Package executor expands group targets and drives leaf builds through a
// bounded worker pool. Its aggregation policy is best-effort: every
// independent leaf is attempted and all failures are reported once at the
// end, unless fail-fast mode is requested.
package executor
