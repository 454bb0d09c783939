package app

import (
	"context"
	"fmt"

	"github.com/vk/crossforge/internal/builder"
	"github.com/vk/crossforge/internal/ctxlog"
	"github.com/vk/crossforge/internal/executor"
)

// Run executes the configured command.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.", "command", a.config.Command)

	switch a.config.Command {
	case CommandBuild:
		return a.runBuild(ctx)
	case CommandClean:
		return a.runClean(ctx)
	case CommandList:
		return a.runList()
	case CommandCrosstools:
		return a.runCrosstools(ctx)
	}
	return fmt.Errorf("unknown command %q", a.config.Command)
}

// runBuild builds one leaf target or every member of a group.
func (a *App) runBuild(ctx context.Context) error {
	if a.config.Target == "" {
		return &NoTargetError{Leaves: a.registry.LeafNames(), Groups: a.registry.GroupNames()}
	}

	b := &builder.Builder{DryRun: a.config.DryRun}
	exec := executor.New(a.registry, b, a.config.WorkerCount, a.config.FailFast)

	a.logger.Info("Starting build.", "target", a.config.Target, "workers", a.config.WorkerCount)
	artifacts, err := exec.Build(ctx, a.config.Target)
	for _, artifact := range artifacts {
		fmt.Fprintf(a.outW, "%s\t%s\n", artifact.Target, artifact.Path)
	}
	if err != nil {
		return err
	}
	a.logger.Info("Build finished.", "artifacts", len(artifacts))
	return nil
}

// runClean removes the scratch tree; with a target argument it additionally
// removes that target's (or group's members') produced artifacts.
func (a *App) runClean(ctx context.Context) error {
	if a.config.Target == "" {
		return builder.CleanScratch(ctx, a.registry.Defaults().ScratchRoot)
	}

	leaves := []string{a.config.Target}
	if a.registry.IsGroup(a.config.Target) {
		var err error
		leaves, err = a.registry.Expand(a.config.Target)
		if err != nil {
			return err
		}
	}
	for _, leaf := range leaves {
		eff, err := a.registry.Compose(leaf)
		if err != nil {
			return err
		}
		if err := builder.CleanTarget(ctx, eff); err != nil {
			return err
		}
	}
	return nil
}

// runList prints the catalog: every leaf with its platform directory and
// artifact filename, then every group with its member count.
func (a *App) runList() error {
	fmt.Fprintln(a.outW, "Targets:")
	for _, name := range a.registry.DeclarationOrder() {
		eff, err := a.registry.Compose(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.outW, "  %-14s %s\n", name, eff.ArtifactPath)
	}
	fmt.Fprintln(a.outW, "Groups:")
	for _, name := range a.registry.GroupNames() {
		members, err := a.registry.Expand(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.outW, "  %-14s %d targets\n", name, len(members))
	}
	return nil
}
