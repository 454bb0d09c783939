// Package target holds the platform catalog and the configuration composer.
//
// A Record is the registered delta for one leaf platform/architecture/ABI
// combination. Compose layers a Record over the global Defaults to produce an
// Effective configuration: a flat, self-contained value with no references
// back into shared state. That value semantics is what keeps sibling builds
// in one run from contaminating each other's flags.
package target
