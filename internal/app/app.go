package app

import (
	_ "embed"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/crossforge/internal/devkit"
	"github.com/vk/crossforge/internal/hcl"
	"github.com/vk/crossforge/internal/schema"
	"github.com/vk/crossforge/internal/target"
)

// defaultManifest is the shipped target catalog, compiled into the binary so
// a checkout builds with no configuration at all.
//
//go:embed targets.hcl
var defaultManifest []byte

// App encapsulates the application's dependencies, configuration, and
// lifecycle for one command invocation.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	manifest *schema.Manifest
	registry *target.Registry
	env      devkit.Info
}

// NewApp constructs the application: it configures an isolated logger,
// resolves the ambient environment once, loads the manifest (embedded
// catalog or the user-supplied path), and builds the validated target
// registry.
func NewApp(outW io.Writer, cfg *Config, resolver *devkit.Resolver) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	logger.Debug("Logger configured successfully.")

	env, err := resolver.Resolve()
	if err != nil {
		return nil, err
	}
	logger.Debug("Environment resolved.", "devkit", env.Root, "host_os", env.HostOS, "host_arch", env.HostArch)

	vars := hcl.Vars{Devkit: env.Root, HostOS: env.HostOS, HostArch: env.HostArch}
	loader := hcl.NewLoader()

	var manifest *schema.Manifest
	if cfg.ManifestPath != "" {
		manifest, err = loader.Load(cfg.ManifestPath, vars)
	} else {
		manifest, err = loader.LoadBytes("targets.hcl", defaultManifest, vars)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load manifest: %w", err)
	}
	logger.Debug("Manifest loaded.", "targets", len(manifest.Targets), "groups", len(manifest.Groups))

	// Ad-hoc CLI flags become part of the global defaults, so composition
	// applies them to every leaf in this run.
	if manifest.Defaults != nil {
		manifest.Defaults.CFlags = append(manifest.Defaults.CFlags, cfg.ExtraCFlags...)
		manifest.Defaults.LDFlags = append(manifest.Defaults.LDFlags, cfg.ExtraLDFlags...)
	}

	registry, err := target.NewRegistry(manifest)
	if err != nil {
		return nil, fmt.Errorf("invalid manifest: %w", err)
	}
	logger.Debug("Target registry validated.")

	return &App{
		outW:     outW,
		logger:   logger,
		config:   cfg,
		manifest: manifest,
		registry: registry,
		env:      env,
	}, nil
}

// Registry returns the application's target registry. Primarily for testing.
func (a *App) Registry() *target.Registry {
	return a.registry
}
