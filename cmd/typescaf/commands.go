package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/mattn/go-isatty"

	"github.com/goliatone/go-typescaf"
	"github.com/goliatone/go-typescaf/pkg/diagnostic"
	"github.com/goliatone/go-typescaf/pkg/mockserver"
	"github.com/goliatone/go-typescaf/pkg/orchestrator"
	"github.com/goliatone/go-typescaf/pkg/scaffold"
)

// sourceList collects repeated --source flags.
type sourceList []string

func (s *sourceList) String() string { return strings.Join(*s, ",") }

func (s *sourceList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func runInit(ctx context.Context, e *env, args []string) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	yes := fs.Bool("yes", false, "answer every prompt with its default and overwrite existing files")
	force := fs.Bool("force", false, "overwrite existing files without asking")
	set := fs.String("template", "", "template set to copy (default asks, react)")
	skipInstall := fs.Bool("skip-install", false, "do not install npm dependencies")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	var prompter scaffold.Prompter
	switch {
	case *yes:
		prompter = scaffold.AssumeYes{}
	case isatty.IsTerminal(os.Stdin.Fd()):
		prompter = scaffold.NewSurveyPrompter()
	default:
		return errors.New("init: stdin is not a terminal; pass --yes to run without prompts")
	}

	res, err := scaffold.Init(ctx, scaffold.Options{
		Root:        e.root,
		TemplateSet: *set,
		Force:       *force,
		SkipInstall: *skipInstall,
		Prompter:    prompter,
		Runner:      scaffold.ExecRunner{Stdout: e.stdout, Stderr: e.stderr},
		Logger:      e.logger,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(e.stdout, "Initialised %s template set: %d files written, %d kept\n", res.TemplateSet, len(res.Written), len(res.Skipped))
	return nil
}

func runTransform(ctx context.Context, e *env, args []string) error {
	fs := flag.NewFlagSet("transform", flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	watch := fs.Bool("watch", false, "re-run on changes until interrupted")
	testMode := fs.Bool("test", false, "prefix output directories with a dot")
	debounce := fs.Duration("debounce", 200*time.Millisecond, "quiet period before a watch re-run")
	var sources sourceList
	fs.Var(&sources, "source", "source glob relative to the root (repeatable, overrides settings)")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	gen := typescaf.NewGenerator(
		orchestrator.WithLogger(e.logger),
		orchestrator.WithDebounce(*debounce),
	)
	req := orchestrator.Request{Root: e.root, Sources: sources, TestMode: *testMode}

	if *watch {
		return gen.Watch(ctx, req, func(report *orchestrator.Report, err error) {
			if err != nil {
				e.logger.Error("Generation failed", "error", err)
				return
			}
			summarise(e, report)
		})
	}

	report, err := gen.Generate(ctx, req)
	if report != nil {
		summarise(e, report)
	}
	return err
}

func summarise(e *env, report *orchestrator.Report) {
	fmt.Fprintf(e.stdout, "%d classes, %d files written, %d warnings, %d errors\n",
		len(report.Classes),
		len(report.Written),
		report.Count(diagnostic.SeverityWarning),
		report.Count(diagnostic.SeverityError),
	)
}

func runServe(ctx context.Context, e *env, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	addr := fs.String("addr", ":4010", "listen address")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	out, err := typescaf.Extract(ctx, e.root, orchestrator.WithLogger(e.logger))
	if err != nil {
		return err
	}
	classes := make([]mockserver.Class, 0, len(out.Classes))
	for _, c := range out.Classes {
		classes = append(classes, mockserver.Class{Name: c.Name, Properties: c.Properties})
	}
	srv, err := mockserver.New(out.Settings, classes, mockserver.WithLogger(e.logger))
	if err != nil {
		return err
	}
	return srv.ListenAndServe(ctx, *addr)
}

func runDump(ctx context.Context, e *env, args []string) error {
	fs := flag.NewFlagSet("dump", flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	asJSON := fs.Bool("json", false, "print JSON instead of a Go value dump")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	out, err := typescaf.Extract(ctx, e.root, orchestrator.WithLogger(e.logger))
	if err != nil {
		return err
	}
	if *asJSON {
		enc := json.NewEncoder(e.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out.Classes)
	}
	cfg := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, DisableCapacities: true, SortKeys: true}
	cfg.Fdump(e.stdout, out.Classes)
	return nil
}

func runVersion(_ context.Context, e *env, args []string) error {
	fs := flag.NewFlagSet("version", flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	fmt.Fprintf(e.stdout, "typescaf %s\n", typescaf.Version)
	return nil
}
