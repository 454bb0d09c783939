package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/vk/crossforge/internal/app"
	"github.com/vk/crossforge/internal/cli"
	"github.com/vk/crossforge/internal/devkit"
)

// main is the entrypoint for the forge binary.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	if err := run(os.Stdout, os.Args[1:]); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}

		var noTarget *app.NoTargetError
		if errors.As(err, &noTarget) {
			fmt.Fprintln(os.Stderr, "no target specified")
			fmt.Fprintln(os.Stderr, "targets:", strings.Join(noTarget.Leaves, ", "))
			fmt.Fprintln(os.Stderr, "groups: ", strings.Join(noTarget.Groups, ", "))
			os.Exit(2)
		}

		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error
// handling.
func run(outW io.Writer, args []string) error {
	appConfig, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	forgeApp, err := app.NewApp(outW, appConfig, devkit.NewResolver())
	if err != nil {
		return err
	}

	return forgeApp.Run(context.Background())
}
