package target

import (
	"path/filepath"
	"slices"
	"strings"
)

// LibraryType tags the kind of binary a target produces. It determines the
// artifact's filename extension.
type LibraryType string

const (
	SharedObject LibraryType = "so"
	Dylib        LibraryType = "dylib"
	JNILib       LibraryType = "jnilib"
	DLL          LibraryType = "dll"
)

// Extension returns the filename extension for the library type.
func (t LibraryType) Extension() string {
	return string(t)
}

// valid reports whether the tag is one of the known library types.
func (t LibraryType) valid() bool {
	switch t {
	case SharedObject, Dylib, JNILib, DLL:
		return true
	}
	return false
}

// defaultType returns the conventional library type for a platform directory,
// keyed by its leading path segment.
func defaultType(platform string) LibraryType {
	family := platform
	if i := strings.IndexByte(platform, '/'); i >= 0 {
		family = platform[:i]
	}
	switch family {
	case "windows":
		return DLL
	case "osx":
		return Dylib
	default:
		return SharedObject
	}
}

// Record is the registered configuration delta for one leaf target. Records
// are created when the registry is built and never mutated afterwards.
type Record struct {
	Name     string
	Platform string
	Suffix   string

	// CC and LD override the default executables when non-empty.
	CC string
	LD string

	// CFlags and LDFlags are appended after the defaults.
	CFlags  []string
	LDFlags []string

	// LDFlagsOverride replaces the default linker flags entirely when
	// ReplaceLDFlags is set. The boolean keeps an empty replacement distinct
	// from no replacement.
	LDFlagsOverride []string
	ReplaceLDFlags  bool

	// Sources replaces the library-wide source list when non-nil.
	Sources []string

	Type LibraryType
}

// Defaults is the global baseline every leaf target composes against: the
// library identity, the host toolchain, and the shared flag sets.
type Defaults struct {
	LibName     string
	SourceDir   string
	OutputRoot  string
	ScratchRoot string

	CC      string
	LD      string
	CFlags  []string
	LDFlags []string
	Sources []string
}

// Effective is the fully resolved configuration for exactly one build
// invocation. It is a self-contained value: every slice is freshly allocated
// at composition time and nothing points back into the registry or the
// defaults, so concurrent leaf builds cannot observe each other's flags.
type Effective struct {
	Target   string
	Platform string

	CC      string
	LD      string
	CFlags  []string
	LDFlags []string

	SourceDir string
	Sources   []string

	// ObjDir is this target's private intermediate-object directory.
	ObjDir string

	// ArtifactPath is the canonical output location,
	// <output>/<platform>/lib<name><suffix>.<ext>.
	ArtifactPath string

	Type LibraryType
}

// Compose materializes the effective configuration for one leaf: executables
// are override-or-default, compiler flags are defaults plus the record's
// deltas in order, and linker flags are either the same append rule or the
// record's explicit full replacement.
func Compose(defaults Defaults, rec *Record) Effective {
	cc := defaults.CC
	if rec.CC != "" {
		cc = rec.CC
	}
	ld := defaults.LD
	if rec.LD != "" {
		ld = rec.LD
	}
	if ld == "" {
		// Linking through the compiler driver is the norm; a separate linker
		// is the exception.
		ld = cc
	}

	cflags := append(append([]string(nil), defaults.CFlags...), rec.CFlags...)

	var ldflags []string
	if rec.ReplaceLDFlags {
		ldflags = slices.Clone(rec.LDFlagsOverride)
	} else {
		ldflags = append(append([]string(nil), defaults.LDFlags...), rec.LDFlags...)
	}

	sources := defaults.Sources
	if rec.Sources != nil {
		sources = rec.Sources
	}

	typ := rec.Type
	if typ == "" {
		typ = defaultType(rec.Platform)
	}

	return Effective{
		Target:       rec.Name,
		Platform:     rec.Platform,
		CC:           cc,
		LD:           ld,
		CFlags:       cflags,
		LDFlags:      ldflags,
		SourceDir:    defaults.SourceDir,
		Sources:      slices.Clone(sources),
		ObjDir:       filepath.Join(defaults.ScratchRoot, "obj", rec.Name),
		ArtifactPath: ArtifactPath(defaults.OutputRoot, rec.Platform, defaults.LibName, rec.Suffix, typ),
		Type:         typ,
	}
}

// ArtifactPath is the pure path function for a produced binary. Two distinct
// records resolving to the same path is a registry error.
func ArtifactPath(outputRoot, platform, libName, suffix string, typ LibraryType) string {
	return filepath.Join(outputRoot, filepath.FromSlash(platform), "lib"+libName+suffix+"."+typ.Extension())
}
