// Package builder is the shared compile-and-link procedure. Every leaf
// target, whatever its platform, passes through the same Build call; the
// differences between targets live entirely in the Effective configuration
// value it receives.
package builder
