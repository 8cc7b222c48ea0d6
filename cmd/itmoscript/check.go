package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/itmoscript/itmoscript/pkg/conformance"
)

const defaultSuiteDir = "testdata/conformance"

// check runs conformance suites given as files or directories and prints a
// line per failing case, or per case with -v.
func (e *env) check(args []string) int {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	verbose := fs.Bool("v", false, "print passing cases too")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	paths := fs.Args()
	if len(paths) == 0 {
		paths = []string{defaultSuiteDir}
	}

	var suites []*conformance.Suite
	for _, p := range paths {
		loaded, err := loadSuites(p)
		if err != nil {
			fmt.Fprintf(e.stderr, "%s: %v\n", appName, err)
			return 2
		}
		suites = append(suites, loaded...)
	}

	ctx := context.Background()
	var total, failedTotal int
	for _, suite := range suites {
		results := suite.Run(ctx, e.options()...)
		for _, r := range results {
			switch {
			case !r.Passed:
				fmt.Fprintf(e.stdout, "FAIL %s/%s: %s\n", r.Suite, r.Case, r.Problem)
			case *verbose:
				fmt.Fprintf(e.stdout, "ok   %s/%s\n", r.Suite, r.Case)
			}
		}
		passed, failed := conformance.Summary(results)
		total += passed + failed
		failedTotal += failed
	}
	fmt.Fprintf(e.stdout, "%d cases, %d passed, %d failed\n", total, total-failedTotal, failedTotal)
	if failedTotal > 0 {
		return 1
	}
	return 0
}

func loadSuites(path string) ([]*conformance.Suite, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return conformance.LoadDir(path)
	}
	s, err := conformance.Load(path)
	if err != nil {
		return nil, err
	}
	return []*conformance.Suite{s}, nil
}
