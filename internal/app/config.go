package app

import (
	"errors"
	"fmt"
)

// Commands understood by the application.
const (
	CommandBuild      = "build"
	CommandClean      = "clean"
	CommandList       = "list"
	CommandCrosstools = "crosstools"
)

// Config holds everything an App instance needs to run one command.
type Config struct {
	// Command is the subcommand to execute.
	Command string

	// Target is the leaf or group name given to build/clean. Empty means
	// "no target": an error for build, "scratch only" for clean.
	Target string

	// ManifestPath optionally points at a .hcl file or a directory of .hcl
	// files replacing the embedded catalog.
	ManifestPath string

	LogFormat string
	LogLevel  string

	// WorkerCount bounds the build pool; non-positive means one worker per
	// available processing unit.
	WorkerCount int

	// FailFast cancels remaining leaves on the first failure instead of the
	// default best-effort aggregation.
	FailFast bool

	// DryRun logs toolchain invocations without executing them.
	DryRun bool

	// ExtraCFlags and ExtraLDFlags are appended to the manifest defaults,
	// so every target composed in this run sees them.
	ExtraCFlags  []string
	ExtraLDFlags []string
}

// NewConfig validates a Config and returns it.
func NewConfig(cfg Config) (*Config, error) {
	switch cfg.Command {
	case CommandBuild, CommandClean, CommandList, CommandCrosstools:
	case "":
		return nil, errors.New("no command specified")
	default:
		return nil, fmt.Errorf("unknown command %q", cfg.Command)
	}
	return &cfg, nil
}

// NoTargetError is the usage error for `build` invoked without a target.
// It carries the valid names so the caller can print them.
type NoTargetError struct {
	Leaves []string
	Groups []string
}

func (e *NoTargetError) Error() string {
	return "no target specified"
}
