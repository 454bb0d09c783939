package builder

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/crossforge/internal/target"
	"github.com/vk/crossforge/internal/testutil"
)

// testEffective lays out a source tree and a fake toolchain under dir and
// returns a ready-to-build effective configuration.
func testEffective(t *testing.T, dir string, sources ...string) target.Effective {
	t.Helper()
	srcDir := filepath.Join(dir, "src")
	testutil.WriteSources(t, srcDir, sources...)
	cc := testutil.FakeCC(t, dir)

	return target.Compose(target.Defaults{
		LibName:     "serialbridge",
		SourceDir:   srcDir,
		OutputRoot:  filepath.Join(dir, "resources", "native"),
		ScratchRoot: filepath.Join(dir, "build"),
		CC:          cc,
		CFlags:      []string{"-fPIC"},
		LDFlags:     []string{"-shared"},
		Sources:     sources,
	}, &target.Record{Name: "linux64", Platform: "linux/x86_64", Suffix: "_x86_64"})
}

func TestBuild_ProducesArtifactAtCanonicalPath(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	dir := t.TempDir()
	eff := testEffective(t, dir, "serial_port.c", "version.c")

	// --- Act ---
	artifact, err := (&Builder{}).Build(context.Background(), eff)

	// --- Assert ---
	require.NoError(t, err)
	require.Equal(t, "linux64", artifact.Target)
	require.Equal(t, eff.ArtifactPath, artifact.Path)
	require.FileExists(t, artifact.Path)
	require.Contains(t, artifact.Path, filepath.Join("linux", "x86_64", "libserialbridge_x86_64.so"))

	// One intermediate object per source, under the target's own directory.
	require.FileExists(t, filepath.Join(eff.ObjDir, "serial_port.o"))
	require.FileExists(t, filepath.Join(eff.ObjDir, "version.o"))
}

func TestBuild_RepeatedBuildsAreByteIdentical(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	dir := t.TempDir()
	eff := testEffective(t, dir, "serial_port.c")
	b := &Builder{}

	// --- Act ---
	_, err := b.Build(context.Background(), eff)
	require.NoError(t, err)
	first, err := os.ReadFile(eff.ArtifactPath)
	require.NoError(t, err)

	_, err = b.Build(context.Background(), eff)
	require.NoError(t, err)
	second, err := os.ReadFile(eff.ArtifactPath)
	require.NoError(t, err)

	// --- Assert ---
	require.Equal(t, first, second, "same configuration and sources must reproduce the same bytes")
}

func TestBuild_CompileErrorNamesUnitAndDiagnostic(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	dir := t.TempDir()
	eff := testEffective(t, dir, "serial_port.c", "broken_unit.c", "version.c")

	// --- Act ---
	_, err := (&Builder{}).Build(context.Background(), eff)

	// --- Assert ---
	var compileErr *CompileError
	require.ErrorAs(t, err, &compileErr)
	require.Equal(t, "linux64", compileErr.Target)
	require.Equal(t, "broken_unit.c", compileErr.Source)
	require.Contains(t, compileErr.Output, "cannot process",
		"the toolchain's diagnostic text must be preserved")

	// Compilation stops at the failing unit: the artifact and later objects
	// must not exist, while earlier objects stay in scratch.
	require.NoFileExists(t, eff.ArtifactPath)
	require.FileExists(t, filepath.Join(eff.ObjDir, "serial_port.o"))
	require.NoFileExists(t, filepath.Join(eff.ObjDir, "version.o"))
}

func TestBuild_LinkErrorIsReported(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	dir := t.TempDir()
	eff := testEffective(t, dir, "serial_port.c")
	// A linker flag the fake toolchain treats as poison.
	eff.LDFlags = append(eff.LDFlags, "-Wl,broken-reloc")

	// --- Act ---
	_, err := (&Builder{}).Build(context.Background(), eff)

	// --- Assert ---
	var linkErr *LinkError
	require.ErrorAs(t, err, &linkErr)
	require.Equal(t, "linux64", linkErr.Target)
	require.NoFileExists(t, eff.ArtifactPath)
}

func TestBuild_DryRunExecutesNothing(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	dir := t.TempDir()
	eff := testEffective(t, dir, "serial_port.c")

	// --- Act ---
	artifact, err := (&Builder{DryRun: true}).Build(context.Background(), eff)

	// --- Assert ---
	require.NoError(t, err)
	require.NoFileExists(t, artifact.Path)
	require.NoFileExists(t, filepath.Join(eff.ObjDir, "serial_port.o"))
}

func TestCleanTarget_RemovesArtifactAndObjects(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	dir := t.TempDir()
	eff := testEffective(t, dir, "serial_port.c")
	_, err := (&Builder{}).Build(context.Background(), eff)
	require.NoError(t, err)

	// --- Act ---
	require.NoError(t, CleanTarget(context.Background(), eff))

	// --- Assert ---
	require.NoFileExists(t, eff.ArtifactPath)
	require.NoDirExists(t, eff.ObjDir)

	// Cleaning an already-clean target is not an error.
	require.NoError(t, CleanTarget(context.Background(), eff))
}

func TestCleanScratch_RemovesOnlyIntermediates(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	dir := t.TempDir()
	eff := testEffective(t, dir, "serial_port.c")
	_, err := (&Builder{}).Build(context.Background(), eff)
	require.NoError(t, err)

	// --- Act ---
	require.NoError(t, CleanScratch(context.Background(), filepath.Join(dir, "build")))

	// --- Assert ---
	require.NoDirExists(t, eff.ObjDir)
	require.FileExists(t, eff.ArtifactPath, "plain clean must leave produced artifacts alone")
}
