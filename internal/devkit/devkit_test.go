package devkit

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func noLookPath(string) (string, error) { return "", errors.New("not found") }

func TestResolve_ExplicitVariableWins(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	r := &Resolver{
		env: func(key string) string {
			if key == "FORGE_JDK_HOME" {
				return "/opt/forge-jdk"
			}
			return "/opt/other-jdk"
		},
		lookPath: noLookPath,
	}

	// --- Act ---
	info, err := r.Resolve()

	// --- Assert ---
	require.NoError(t, err)
	require.Equal(t, "/opt/forge-jdk", info.Root, "the dedicated variable must take precedence")
	require.Equal(t, runtime.GOOS, info.HostOS)
	require.Equal(t, runtime.GOARCH, info.HostArch)
}

func TestResolve_FallsBackToCompilerOnPath(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// Lay out <root>/bin/javac on disk so symlink resolution works.
	root := t.TempDir()
	bin := filepath.Join(root, "bin")
	require.NoError(t, os.MkdirAll(bin, 0o755))
	javac := filepath.Join(bin, "javac")
	require.NoError(t, os.WriteFile(javac, []byte("#!/bin/sh\n"), 0o755))

	r := &Resolver{
		env:      func(string) string { return "" },
		lookPath: func(string) (string, error) { return javac, nil },
	}

	// --- Act ---
	info, err := r.Resolve()

	// --- Assert ---
	require.NoError(t, err)
	resolvedRoot, rerr := filepath.EvalSymlinks(root)
	require.NoError(t, rerr)
	require.Equal(t, resolvedRoot, info.Root, "root must be the parent of the compiler's bin directory")
}

func TestResolve_ProbesWellKnownDirectories(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	jvmDir := t.TempDir()
	// Two installs; the lexically last one must win.
	for _, name := range []string{"jdk-17", "jdk-21"} {
		require.NoError(t, os.MkdirAll(filepath.Join(jvmDir, name, "include"), 0o755))
	}

	r := &Resolver{
		env:       func(string) string { return "" },
		lookPath:  noLookPath,
		probeDirs: []string{jvmDir},
	}

	// --- Act ---
	info, err := r.Resolve()

	// --- Assert ---
	require.NoError(t, err)
	require.Equal(t, filepath.Join(jvmDir, "jdk-21"), info.Root)
}

func TestResolve_MissingEverywhere(t *testing.T) {
	t.Parallel()

	r := &Resolver{
		env:       func(string) string { return "" },
		lookPath:  noLookPath,
		probeDirs: []string{filepath.Join(t.TempDir(), "empty")},
	}

	_, err := r.Resolve()
	require.ErrorIs(t, err, ErrMissing)
}

func TestResolve_ResultIsCached(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	calls := 0
	r := &Resolver{
		env: func(string) string {
			calls++
			return "/opt/jdk"
		},
		lookPath: noLookPath,
	}

	// --- Act ---
	first, err1 := r.Resolve()
	second, err2 := r.Resolve()

	// --- Assert ---
	require.NoError(t, err1)
	require.NoError(t, err2)
	require.Equal(t, first, second)
	require.Equal(t, 1, calls, "filesystem/environment probing must run at most once per resolver")
}
