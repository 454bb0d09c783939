// Package hcl is the concrete HCL implementation of manifest loading. It
// parses manifest files, evaluates expressions against the ambient variable
// set (devkit root, host OS, host architecture), and merges multi-file
// manifests into a single schema model.
package hcl
