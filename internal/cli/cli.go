package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"

	shellwords "github.com/mattn/go-shellwords"

	"github.com/vk/crossforge/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	flagSet := flag.NewFlagSet("forge", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
forge - multi-target native-library build orchestrator.

Usage:
  forge [options] <command> [target]

Commands:
  build <target|group>   Compile and link the named leaf target, or every
                         member of the named group.
  clean [target|group]   Remove intermediate objects; with a target, also
                         remove its produced artifacts.
  list                   Print all targets and groups in the catalog.
  crosstools             Install the cross toolchains via the host package
                         manager.

Options:
`)
		flagSet.PrintDefaults()
	}

	manifestFlag := flagSet.String("manifest", "", "Path to a manifest file or directory replacing the built-in catalog.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	workersFlag := flagSet.Int("workers", 0, "Number of concurrent leaf builds. 0 means one per CPU.")
	failFastFlag := flagSet.Bool("fail-fast", false, "Stop the group build at the first leaf failure instead of attempting all leaves.")
	dryRunFlag := flagSet.Bool("n", false, "Print toolchain invocations without executing them.")
	cflagsFlag := flagSet.String("cflags", "", "Extra compiler flags appended for every target (shell-style quoting).")
	ldflagsFlag := flagSet.String("ldflags", "", "Extra linker flags appended for every target (shell-style quoting).")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	if flagSet.NArg() == 0 {
		flagSet.Usage()
		return nil, false, &ExitError{Code: 2, Message: "no command specified"}
	}
	command := flagSet.Arg(0)
	targetArg := flagSet.Arg(1)
	if flagSet.NArg() > 2 {
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("unexpected argument %q", flagSet.Arg(2))}
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	extraCFlags, err := shellwords.Parse(*cflagsFlag)
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("invalid -cflags: %v", err)}
	}
	extraLDFlags, err := shellwords.Parse(*ldflagsFlag)
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("invalid -ldflags: %v", err)}
	}

	config, err := app.NewConfig(app.Config{
		Command:      command,
		Target:       targetArg,
		ManifestPath: *manifestFlag,
		LogFormat:    logFormat,
		LogLevel:     logLevel,
		WorkerCount:  *workersFlag,
		FailFast:     *failFastFlag,
		DryRun:       *dryRunFlag,
		ExtraCFlags:  extraCFlags,
		ExtraLDFlags: extraLDFlags,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	return config, false, nil
}
