package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/danielledeleo/addinterwiki/interwiki"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// execute runs the command with args and returns the process exit code.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.ExecuteContext(ctx); err != nil {
		if interwiki.IsUsageError(err) {
			fmt.Fprintln(stderr, usageMessage(err))
			fmt.Fprint(stderr, cmd.UsageString())
			return 1
		}
		slog.Error("addinterwiki failed", "error", err)
		return 1
	}
	return 0
}

func usageMessage(err error) string {
	switch err {
	case interwiki.ErrMissingPrefix:
		return "Need to specify Prefix and URL"
	case interwiki.ErrMissingURL:
		return "Need to specify URL"
	}
	return err.Error()
}
