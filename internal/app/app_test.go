package app

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/crossforge/internal/devkit"
)

// newCatalogApp builds an App over the embedded catalog with a pinned devkit.
func newCatalogApp(t *testing.T, cfg Config) (*App, *bytes.Buffer) {
	t.Helper()
	t.Setenv("FORGE_JDK_HOME", "/opt/test-jdk")

	out := &bytes.Buffer{}
	appConfig, err := NewConfig(cfg)
	require.NoError(t, err)

	forgeApp, err := NewApp(out, appConfig, devkit.NewResolver())
	require.NoError(t, err)
	return forgeApp, out
}

func TestEmbeddedCatalog_EveryLeafComposes(t *testing.T) {
	// --- Arrange ---
	forgeApp, _ := newCatalogApp(t, Config{Command: CommandList})
	reg := forgeApp.Registry()

	// --- Act / Assert ---
	leaves := reg.LeafNames()
	require.Len(t, leaves, 16)

	for _, name := range leaves {
		rec, err := reg.Lookup(name)
		require.NoError(t, err, "leaf %s", name)

		eff, err := reg.Compose(name)
		require.NoError(t, err, "leaf %s", name)
		require.NotEmpty(t, eff.CC, "leaf %s must have a compiler", name)
		require.NotEmpty(t, eff.Sources, "leaf %s must have sources", name)
		require.Contains(t, eff.ArtifactPath, rec.Platform, "leaf %s artifact must live under its platform directory", name)
		require.Contains(t, eff.CFlags, "-I/opt/test-jdk/include",
			"leaf %s must see the resolved devkit include path", name)
	}
}

func TestEmbeddedCatalog_GroupMembership(t *testing.T) {
	// --- Arrange ---
	forgeApp, _ := newCatalogApp(t, Config{Command: CommandList})
	reg := forgeApp.Registry()

	// --- Act / Assert ---
	arm, err := reg.Expand("arm")
	require.NoError(t, err)
	require.Len(t, arm, 8, "the arm aggregate declares exactly eight ABI variants")

	linux, err := reg.Expand("linux")
	require.NoError(t, err)
	require.Len(t, linux, 4)

	all, err := reg.Expand("all")
	require.NoError(t, err)
	require.Len(t, all, 16)
	require.ElementsMatch(t, all, reg.LeafNames(), "the all group must cover every leaf")
}

func TestEmbeddedCatalog_OSXFamilyOverridesLinkageModel(t *testing.T) {
	// --- Arrange ---
	forgeApp, _ := newCatalogApp(t, Config{Command: CommandList})

	// --- Act ---
	osx, err := forgeApp.Registry().Compose("osx64")
	require.NoError(t, err)
	lin, err := forgeApp.Registry().Compose("linux64")
	require.NoError(t, err)

	// --- Assert ---
	require.Contains(t, osx.LDFlags, "-dynamiclib")
	require.NotContains(t, osx.LDFlags, "-shared", "override targets must not inherit the default link model")
	require.Contains(t, lin.LDFlags, "-shared")
	require.Equal(t, "jnilib", osx.Type.Extension())
}

func TestExtraFlagsReachEveryTarget(t *testing.T) {
	// --- Arrange ---
	forgeApp, _ := newCatalogApp(t, Config{
		Command:     CommandList,
		ExtraCFlags: []string{"-DDEBUG_SERIAL"},
	})

	// --- Act ---
	eff, err := forgeApp.Registry().Compose("windows32")
	require.NoError(t, err)

	// --- Assert ---
	require.Contains(t, eff.CFlags, "-DDEBUG_SERIAL")
}

func TestRunList_PrintsCatalog(t *testing.T) {
	// --- Arrange ---
	forgeApp, out := newCatalogApp(t, Config{Command: CommandList})

	// --- Act ---
	err := forgeApp.Run(context.Background())

	// --- Assert ---
	require.NoError(t, err)
	text := out.String()
	require.Contains(t, text, "Targets:")
	require.Contains(t, text, "linux64")
	require.Contains(t, text, "libserialbridge_armv7hf.so")
	require.Contains(t, text, "Groups:")
	require.Contains(t, text, "8 targets")
}

func TestRunBuild_NoTargetListsValidNames(t *testing.T) {
	// --- Arrange ---
	forgeApp, _ := newCatalogApp(t, Config{Command: CommandBuild})

	// --- Act ---
	err := forgeApp.Run(context.Background())

	// --- Assert ---
	var noTarget *NoTargetError
	require.ErrorAs(t, err, &noTarget)
	require.Contains(t, noTarget.Leaves, "arm32v7HF")
	require.Contains(t, noTarget.Groups, "all")
}

func TestEmbeddedCatalog_ArtifactPathsAreUnique(t *testing.T) {
	// Uniqueness is enforced at registry construction; this guards the
	// shipped catalog against regressions all the same.
	forgeApp, _ := newCatalogApp(t, Config{Command: CommandList})
	reg := forgeApp.Registry()

	seen := map[string]string{}
	for _, name := range reg.LeafNames() {
		eff, err := reg.Compose(name)
		require.NoError(t, err)
		prev, dup := seen[eff.ArtifactPath]
		require.False(t, dup, "targets %s and %s share artifact %s", prev, name, eff.ArtifactPath)
		seen[eff.ArtifactPath] = name
	}
}

func TestEmbeddedCatalog_SuffixesDistinguishABIVariants(t *testing.T) {
	forgeApp, _ := newCatalogApp(t, Config{Command: CommandList})
	reg := forgeApp.Registry()

	arm, err := reg.Expand("arm")
	require.NoError(t, err)

	suffixes := map[string]bool{}
	for _, name := range arm {
		eff, err := reg.Compose(name)
		require.NoError(t, err)
		base := eff.ArtifactPath[strings.LastIndexByte(eff.ArtifactPath, '/')+1:]
		require.True(t, strings.HasPrefix(base, "libserialbridge_arm"), "unexpected artifact name %s", base)
		suffixes[base] = true
	}
	require.Len(t, suffixes, len(arm), "ABI-compatible variants must stay distinguishable by suffix")
}
