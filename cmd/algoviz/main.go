// Package main provides the entry point for the algoviz CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Sumatoshi-tech/algoviz/cmd/algoviz/commands"
	"github.com/Sumatoshi-tech/algoviz/pkg/version"
)

// exitCodeValidationFailure is the exit code for invalid scenario files.
const exitCodeValidationFailure = 2

func main() {
	version.Init()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := commands.NewRootCommand().ExecuteContext(ctx)

	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)

		if errors.Is(err, commands.ErrValidationFailed) {
			os.Exit(exitCodeValidationFailure)
		}

		os.Exit(1)
	}
}
