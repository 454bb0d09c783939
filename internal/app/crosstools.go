package app

import (
	"context"
	"fmt"
	"os/exec"
)

// packageManagers lists known host package managers and the argument shape
// for a non-interactive install.
var packageManagers = []struct {
	name string
	args []string
}{
	{"apt-get", []string{"install", "-y"}},
	{"dnf", []string{"install", "-y"}},
	{"brew", []string{"install"}},
}

// runCrosstools invokes the host package manager to install the cross
// toolchains named in the manifest. The package manager is an external
// collaborator: its output goes straight through and its exit status is the
// result.
func (a *App) runCrosstools(ctx context.Context) error {
	packages := a.manifest.Library.Crosstools
	if len(packages) == 0 {
		return fmt.Errorf("manifest lists no crosstools packages")
	}

	for _, pm := range packageManagers {
		path, err := exec.LookPath(pm.name)
		if err != nil {
			continue
		}
		args := append(append([]string{}, pm.args...), packages...)
		a.logger.Info("Installing cross toolchains.", "manager", pm.name, "packages", packages)

		cmd := exec.CommandContext(ctx, path, args...)
		cmd.Stdout = a.outW
		cmd.Stderr = a.outW
		return cmd.Run()
	}
	return fmt.Errorf("no supported package manager found on PATH")
}
