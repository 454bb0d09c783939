// Package testutil provides shared helpers for tests: a fake toolchain
// driver with controllable failures and argv recording, and source-tree
// scaffolding.
package testutil
