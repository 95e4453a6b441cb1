package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

type command struct {
	name    string
	summary string
	run     func(ctx context.Context, env *env, args []string) error
}

var commands = []command{
	{name: "init", summary: "write default settings and templates into .type-scaf", run: runInit},
	{name: "transform", summary: "generate components from the configured sources", run: runTransform},
	{name: "serve", summary: "serve mock records over a REST API", run: runServe},
	{name: "dump", summary: "print the inferred schema of every class", run: runDump},
	{name: "version", summary: "print the version", run: runVersion},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// env carries the global flags and streams to a subcommand.
type env struct {
	root   string
	stdout io.Writer
	stderr io.Writer
	logger *logger
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	global := flag.NewFlagSet("typescaf", flag.ContinueOnError)
	global.SetOutput(stderr)
	root := global.String("root", ".", "project root")
	level := global.String("log-level", "info", "log level: debug, info, warn, error")
	noColor := global.Bool("no-color", false, "disable coloured log output")
	global.Usage = func() { usage(global) }

	if err := global.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	rest := global.Args()
	if len(rest) == 0 {
		usage(global)
		return exitUsage
	}

	log, err := newLogger(stderr, *level, *noColor)
	if err != nil {
		fmt.Fprintf(stderr, "typescaf: %v\n", err)
		return exitUsage
	}

	absRoot, err := filepath.Abs(*root)
	if err != nil {
		fmt.Fprintf(stderr, "typescaf: root: %v\n", err)
		return exitError
	}
	e := &env{root: absRoot, stdout: stdout, stderr: stderr, logger: log}

	for _, cmd := range commands {
		if cmd.name != rest[0] {
			continue
		}
		if err := cmd.run(ctx, e, rest[1:]); err != nil {
			if errors.Is(err, flag.ErrHelp) {
				return exitOK
			}
			var ue usageError
			if errors.As(err, &ue) {
				return exitUsage
			}
			log.Error("Command failed", "command", cmd.name, "error", err)
			return exitError
		}
		return exitOK
	}

	fmt.Fprintf(stderr, "typescaf: unknown command %q\n\n", rest[0])
	usage(global)
	return exitUsage
}

// usageError marks flag parsing failures; the flag package has already
// printed the details.
type usageError struct{ err error }

func (u usageError) Error() string { return u.err.Error() }
func (u usageError) Unwrap() error { return u.err }

func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return usageError{err: err}
	}
	return nil
}

func usage(global *flag.FlagSet) {
	out := global.Output()
	fmt.Fprintf(out, "Usage: typescaf [global flags] <command> [flags]\n\nCommands:\n")
	for _, cmd := range commands {
		fmt.Fprintf(out, "  %-10s %s\n", cmd.name, cmd.summary)
	}
	fmt.Fprintf(out, "\nGlobal flags:\n")
	global.PrintDefaults()
}
