// Command itmoscript runs itmoscript programs.
//
// Usage:
//
//	itmoscript [flags] [file...]     run files in order, or stdin when none
//	itmoscript -e 'println(1 + 2)'   run inline source
//	itmoscript repl                  start an interactive session
//	itmoscript check [suite...]      run YAML conformance suites
//
// Flags:
//
//	-config path   YAML configuration file
//	-seed n        fix the seed of rnd
//	-debug         enable debug logging on stderr
//	-ext name      enable an extension category (repeatable)
//	-version       print the version and exit
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/itmoscript/itmoscript"
	"github.com/itmoscript/itmoscript/pkg/config"
	"github.com/itmoscript/itmoscript/pkg/evaluator"
	"github.com/itmoscript/itmoscript/pkg/ext"
	"github.com/itmoscript/itmoscript/pkg/parser"
)

const appName = "itmoscript"

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// stringList is a repeatable string flag.
type stringList []string

func (l *stringList) String() string { return strings.Join(*l, ",") }

func (l *stringList) Set(s string) error {
	*l = append(*l, s)
	return nil
}

// env bundles what every subcommand needs.
type env struct {
	cfg    *config.Config
	logger *slog.Logger
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func (e *env) options() []evaluator.EvalOption {
	return e.cfg.Options(e.logger)
}

// run is main without the exit, so it can be tested.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet(appName, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { usage(fs) }

	inline := fs.String("e", "", "run inline `source`")
	configPath := fs.String("config", "", "YAML configuration `file`")
	seed := fs.Int64("seed", 0, "fix the seed of rnd")
	debug := fs.Bool("debug", false, "enable debug logging")
	version := fs.Bool("version", false, "print the version and exit")
	var exts stringList
	fs.Var(&exts, "ext", "enable an extension category: "+strings.Join(ext.Names(), ", "))

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if *version {
		fmt.Fprintln(stdout, appName, itmoscript.Version())
		return 0
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			fmt.Fprintf(stderr, "%s: %v\n", appName, err)
			return 2
		}
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "seed":
			cfg.Seed = seed
		case "debug":
			cfg.Debug = *debug
		}
	})
	cfg.Extensions = append(cfg.Extensions, exts...)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", appName, err)
		return 2
	}

	e := &env{
		cfg:    cfg,
		logger: cfg.Logger(stderr),
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
	}

	rest := fs.Args()
	if *inline != "" {
		return e.runSource(context.Background(), "-e", *inline)
	}
	if len(rest) > 0 {
		switch rest[0] {
		case "repl":
			return e.repl(rest[1:])
		case "check":
			return e.check(rest[1:])
		}
	}
	return e.runFiles(rest)
}

func usage(fs *flag.FlagSet) {
	out := fs.Output()
	fmt.Fprintf(out, "Usage:\n")
	fmt.Fprintf(out, "  %s [flags] [file...]\n", appName)
	fmt.Fprintf(out, "  %s [flags] repl\n", appName)
	fmt.Fprintf(out, "  %s [flags] check [suite.yaml|dir...]\n\n", appName)
	fmt.Fprintf(out, "Flags:\n")
	fs.PrintDefaults()
}

// runFiles runs each file in order, stopping at the first failure. With no
// files the program is read from stdin.
func (e *env) runFiles(paths []string) int {
	ctx := context.Background()
	if len(paths) == 0 {
		src, err := io.ReadAll(e.stdin)
		if err != nil {
			fmt.Fprintf(e.stderr, "%s: read stdin: %v\n", appName, err)
			return 1
		}
		return e.runSource(ctx, "<stdin>", string(src))
	}
	for _, path := range paths {
		src, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(e.stderr, "%s: %v\n", appName, err)
			return 1
		}
		if code := e.runSource(ctx, path, string(src)); code != 0 {
			return code
		}
	}
	return 0
}

func (e *env) runSource(ctx context.Context, name, src string) int {
	prog, err := parser.Compile(src)
	if err == nil {
		err = evaluator.New(e.options()...).Run(ctx, prog, e.stdout)
	}
	if err != nil {
		e.logger.Debug("run failed", "source", name, "error", err)
		fmt.Fprintf(e.stderr, "%s: %v\n", name, err)
		return 1
	}
	return 0
}
