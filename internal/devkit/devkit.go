package devkit

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
)

// ErrMissing indicates that no development kit could be located from the
// environment or any documented fallback. Fatal, no retry.
var ErrMissing = errors.New("development kit not found: set FORGE_JDK_HOME or JAVA_HOME, or install a JDK in a standard location")

// Info is the ambient environment consulted by target composition: the
// development-kit root (for JNI include paths) and the host platform.
type Info struct {
	Root     string
	HostOS   string
	HostArch string
}

// envVars are checked in order; the first non-empty one wins.
var envVars = []string{"FORGE_JDK_HOME", "JAVA_HOME"}

// defaultProbeDirs are the conventional JDK install roots probed when no
// environment variable is set and javac is not on PATH.
var defaultProbeDirs = []string{
	"/usr/lib/jvm",
	"/Library/Java/JavaVirtualMachines",
}

// Resolver locates the development kit. Resolution runs at most once per
// Resolver; the result is cached because filesystem probing is not guaranteed
// to be cheap.
type Resolver struct {
	env       func(string) string
	lookPath  func(string) (string, error)
	probeDirs []string

	once sync.Once
	info Info
	err  error
}

// NewResolver creates a resolver backed by the real process environment.
func NewResolver() *Resolver {
	return &Resolver{
		env:       os.Getenv,
		lookPath:  exec.LookPath,
		probeDirs: defaultProbeDirs,
	}
}

// Resolve returns the ambient environment, locating the development kit on
// first call and the cached result thereafter.
func (r *Resolver) Resolve() (Info, error) {
	r.once.Do(func() {
		root, err := r.findRoot()
		if err != nil {
			r.err = err
			return
		}
		r.info = Info{
			Root:     root,
			HostOS:   runtime.GOOS,
			HostArch: runtime.GOARCH,
		}
	})
	return r.info, r.err
}

// findRoot implements the discovery order: explicit variable, compiler on
// PATH, then well-known install directories.
func (r *Resolver) findRoot() (string, error) {
	for _, v := range envVars {
		if root := r.env(v); root != "" {
			return root, nil
		}
	}

	if javac, err := r.lookPath("javac"); err == nil {
		resolved, err := filepath.EvalSymlinks(javac)
		if err == nil {
			// <root>/bin/javac
			return filepath.Dir(filepath.Dir(resolved)), nil
		}
	}

	for _, dir := range r.probeDirs {
		root, err := findLast(dir)
		if err != nil {
			continue
		}
		// macOS bundles nest the usable root one level deeper.
		if nested := filepath.Join(root, "Contents", "Home"); dirExists(nested) {
			root = nested
		}
		if dirExists(filepath.Join(root, "include")) {
			return root, nil
		}
	}

	return "", ErrMissing
}

// findLast returns the lexically last entry of a directory, matching the
// convention that newer kit versions sort after older ones.
func findLast(path string) (string, error) {
	dir, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer dir.Close()

	children, err := dir.Readdirnames(-1)
	if err != nil {
		return "", err
	}
	if len(children) == 0 {
		return "", fmt.Errorf("%w in %s", os.ErrNotExist, path)
	}
	sort.Strings(children)
	return filepath.Join(path, children[len(children)-1]), nil
}

func dirExists(path string) bool {
	st, err := os.Stat(path)
	return err == nil && st.IsDir()
}
