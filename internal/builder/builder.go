package builder

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"

	"github.com/vk/crossforge/internal/ctxlog"
	"github.com/vk/crossforge/internal/target"
)

// Artifact is one produced binary at its canonical output path.
type Artifact struct {
	Target string
	Path   string
}

// Builder runs the compile-and-link procedure for one effective
// configuration at a time. It holds no per-target state; all inputs arrive
// in the Effective value, so a single Builder is safe for concurrent use
// across leaf builds.
type Builder struct {
	// DryRun logs the toolchain invocations without executing them.
	DryRun bool
}

// Build compiles every source in the configuration into an intermediate
// object under the target's private object directory, then links the objects
// into the artifact at its canonical path, overwriting any prior artifact.
// It stops at the first failing compilation unit. Intermediate objects are
// left in place; removing them is clean's job.
func (b *Builder) Build(ctx context.Context, eff target.Effective) (Artifact, error) {
	logger := ctxlog.FromContext(ctx).With("target", eff.Target)

	if err := os.MkdirAll(eff.ObjDir, 0o755); err != nil {
		return Artifact{}, err
	}
	if err := os.MkdirAll(filepath.Dir(eff.ArtifactPath), 0o755); err != nil {
		return Artifact{}, err
	}

	objects := make([]string, 0, len(eff.Sources))
	for _, src := range eff.Sources {
		obj := filepath.Join(eff.ObjDir, objectName(src))
		args := slices.Clone(eff.CFlags)
		args = append(args, "-c", filepath.Join(eff.SourceDir, src), "-o", obj)

		logger.Debug("Compiling.", "source", src, "cc", eff.CC, "args", args)
		out, err := b.run(ctx, eff.CC, args)
		if err != nil {
			return Artifact{}, &CompileError{Target: eff.Target, Source: src, Output: out, Err: err}
		}
		objects = append(objects, obj)
	}

	args := slices.Clone(objects)
	args = append(args, eff.LDFlags...)
	args = append(args, "-o", eff.ArtifactPath)

	logger.Debug("Linking.", "ld", eff.LD, "args", args)
	out, err := b.run(ctx, eff.LD, args)
	if err != nil {
		return Artifact{}, &LinkError{Target: eff.Target, Output: out, Err: err}
	}

	logger.Info("Built.", "artifact", eff.ArtifactPath)
	return Artifact{Target: eff.Target, Path: eff.ArtifactPath}, nil
}

// run invokes one toolchain child process and returns its combined output.
func (b *Builder) run(ctx context.Context, name string, args []string) (string, error) {
	if b.DryRun {
		ctxlog.FromContext(ctx).Info("Dry run.", "argv", append([]string{name}, args...))
		return "", nil
	}
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	return string(out), err
}

// CleanScratch removes the whole intermediate-object tree.
func CleanScratch(ctx context.Context, scratchRoot string) error {
	ctxlog.FromContext(ctx).Info("Removing scratch tree.", "path", scratchRoot)
	return os.RemoveAll(scratchRoot)
}

// CleanTarget removes one target's intermediate objects and its produced
// artifact.
func CleanTarget(ctx context.Context, eff target.Effective) error {
	logger := ctxlog.FromContext(ctx).With("target", eff.Target)
	logger.Info("Removing target outputs.", "artifact", eff.ArtifactPath, "objects", eff.ObjDir)
	if err := os.RemoveAll(eff.ObjDir); err != nil {
		return err
	}
	if err := os.Remove(eff.ArtifactPath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// objectName maps a source path to its intermediate object filename. Source
// paths may contain subdirectories; the object tree is flat per target.
func objectName(src string) string {
	base := filepath.Base(src)
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext) + ".o"
}
