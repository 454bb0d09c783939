// Package schema defines the Go representation of the build manifest: the
// library block, the global defaults, and the target and group catalog.
// The structures are decoded from HCL and are never mutated after loading.
package schema
