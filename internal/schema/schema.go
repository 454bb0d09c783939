package schema

// --- Manifest Block Structures ---

// Library describes the one native library this source tree produces. Exactly
// one library block must appear across all loaded manifest files.
type Library struct {
	// Name is the artifact base name; the produced file is
	// lib<Name><suffix>.<ext>.
	Name string `hcl:"name"`

	// Sources is the global compilation-unit list. Targets inherit it unless
	// they declare their own.
	Sources []string `hcl:"sources"`

	// SourceDir is the directory the source paths are relative to.
	SourceDir string `hcl:"source_dir,optional"`

	// Output is the root of the artifact tree. Defaults to "resources/native".
	Output string `hcl:"output,optional"`

	// Scratch is the root of the intermediate-object tree. Defaults to "build".
	Scratch string `hcl:"scratch,optional"`

	// Crosstools names the host packages providing the cross compilers used
	// by the catalog. Consumed only by the crosstools subcommand.
	Crosstools []string `hcl:"crosstools,optional"`
}

// Defaults carries the global toolchain and flag baseline every target
// composes on top of.
type Defaults struct {
	CC      string   `hcl:"cc"`
	LD      string   `hcl:"ld,optional"`
	CFlags  []string `hcl:"cflags,optional"`
	LDFlags []string `hcl:"ldflags,optional"`
}

// Target is one leaf platform/architecture/ABI combination. All of its fields
// except the platform directory are deltas against the defaults block.
type Target struct {
	Name string `hcl:"name,label"`

	// Platform is the output subdirectory under the library's output root,
	// e.g. "linux/ARM_32".
	Platform string `hcl:"platform"`

	// Suffix is inserted between the library base name and the extension,
	// e.g. "_armv7hf".
	Suffix string `hcl:"suffix,optional"`

	// CC and LD override the default executables when set.
	CC string `hcl:"cc,optional"`
	LD string `hcl:"ld,optional"`

	// CFlags and LDFlags are appended after the defaults, in order.
	CFlags  []string `hcl:"cflags,optional"`
	LDFlags []string `hcl:"ldflags,optional"`

	// LDFlagsOverride replaces the default linker flags entirely. Declaring
	// it together with LDFlags is a manifest error.
	LDFlagsOverride []string `hcl:"ldflags_override,optional"`

	// Sources replaces the library-wide source list when set.
	Sources []string `hcl:"sources,optional"`

	// Type is the library-type tag: "so", "dylib", "jnilib" or "dll".
	// Defaults by platform family.
	Type string `hcl:"type,optional"`
}

// Group is a named aggregate expanding to a list of leaf target names.
// It carries no configuration of its own.
type Group struct {
	Name    string   `hcl:"name,label"`
	Members []string `hcl:"members"`
}

// Manifest is the top-level structure of one manifest file.
type Manifest struct {
	Library  *Library  `hcl:"library,block"`
	Defaults *Defaults `hcl:"defaults,block"`
	Targets  []*Target `hcl:"target,block"`
	Groups   []*Group  `hcl:"group,block"`
}
