// Package conformance loads and runs YAML suites of itmoscript programs with
// their expected output.
//
// A suite file looks like:
//
//	name: closures
//	description: optional text
//	cases:
//	  - name: make_adder
//	    source: |
//	      make_adder = function(a)
//	          return function(b) return a + b end function
//	      end function
//	      print(make_adder(5)(3))
//	    output: "8"
//
// Per case, output is compared only when present. ok defaults to true;
// error names the expected error code of a failing run. seed fixes rnd and
// extensions enables extension categories by name.
package conformance

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/itmoscript/itmoscript/pkg/evaluator"
	"github.com/itmoscript/itmoscript/pkg/ext"
	"github.com/itmoscript/itmoscript/pkg/parser"
	"github.com/itmoscript/itmoscript/pkg/types"
)

// Suite is a named list of cases.
type Suite struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Cases       []Case `yaml:"cases"`

	// Path is the file the suite was loaded from, if any.
	Path string `yaml:"-"`
}

// Case is one program and its expected outcome.
type Case struct {
	Name       string          `yaml:"name"`
	Source     string          `yaml:"source"`
	Output     *string         `yaml:"output"`
	OK         *bool           `yaml:"ok"`
	Error      types.ErrorCode `yaml:"error"`
	Seed       *int64          `yaml:"seed"`
	Extensions []string        `yaml:"extensions"`
}

// ExpectOK reports whether the case must run without error.
func (c Case) ExpectOK() bool {
	return c.OK == nil || *c.OK
}

// Result is the outcome of running one case.
type Result struct {
	Suite  string
	Case   string
	Passed bool
	// Output is everything the program wrote.
	Output string
	// Err is the run error, if any.
	Err error
	// Problem explains a failure.
	Problem string
}

// Load reads the suite at path.
func Load(path string) (*Suite, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	suite, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("conformance: parse %s: %w", path, err)
	}
	suite.Path = path
	if suite.Name == "" {
		suite.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return suite, nil
}

// Parse decodes a suite document. Unknown keys are rejected.
func Parse(r io.Reader) (*Suite, error) {
	var suite Suite
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&suite); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty suite")
		}
		return nil, err
	}
	if err := suite.validate(); err != nil {
		return nil, err
	}
	return &suite, nil
}

func (s *Suite) validate() error {
	seen := make(map[string]bool, len(s.Cases))
	for i, c := range s.Cases {
		if c.Name == "" {
			return fmt.Errorf("case %d has no name", i)
		}
		if seen[c.Name] {
			return fmt.Errorf("duplicate case %q", c.Name)
		}
		seen[c.Name] = true
		if c.Error != "" && c.ExpectOK() {
			return fmt.Errorf("case %q expects error %s but ok is true", c.Name, c.Error)
		}
		for _, name := range c.Extensions {
			if _, ok := ext.ByName(name); !ok {
				return fmt.Errorf("case %q: unknown extension %q", c.Name, name)
			}
		}
	}
	return nil
}

// LoadDir loads every *.yaml and *.yml file in dir, sorted by file name.
func LoadDir(dir string) ([]*Suite, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		switch filepath.Ext(entry.Name()) {
		case ".yaml", ".yml":
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(paths)

	suites := make([]*Suite, 0, len(paths))
	for _, p := range paths {
		s, err := Load(p)
		if err != nil {
			return nil, err
		}
		suites = append(suites, s)
	}
	return suites, nil
}

// Run executes every case of the suite. opts apply to every case before
// the case's own seed and extensions.
func (s *Suite) Run(ctx context.Context, opts ...evaluator.EvalOption) []Result {
	results := make([]Result, 0, len(s.Cases))
	for _, c := range s.Cases {
		r := RunCase(ctx, c, opts...)
		r.Suite = s.Name
		results = append(results, r)
	}
	return results
}

// RunCase parses and runs a single case in a fresh evaluator and checks the
// outcome.
func RunCase(ctx context.Context, c Case, opts ...evaluator.EvalOption) Result {
	res := Result{Case: c.Name}

	var out bytes.Buffer
	prog, err := parser.Parse(c.Source)
	if err == nil {
		err = evaluator.New(caseOptions(c, opts)...).Run(ctx, prog, &out)
	}
	res.Output = out.String()
	res.Err = err
	res.Problem = check(c, res.Output, err)
	res.Passed = res.Problem == ""
	return res
}

func caseOptions(c Case, base []evaluator.EvalOption) []evaluator.EvalOption {
	opts := append([]evaluator.EvalOption(nil), base...)
	if c.Seed != nil {
		opts = append(opts, evaluator.WithSeed(*c.Seed))
	}
	for _, name := range c.Extensions {
		if opt, ok := ext.ByName(name); ok {
			opts = append(opts, opt)
		}
	}
	return opts
}

func check(c Case, output string, err error) string {
	switch {
	case c.ExpectOK() && err != nil:
		return fmt.Sprintf("unexpected error: %v", err)
	case !c.ExpectOK() && err == nil:
		return "expected the run to fail"
	}
	if c.Error != "" {
		var te *types.Error
		if !errors.As(err, &te) {
			return fmt.Sprintf("expected error %s, got %v", c.Error, err)
		}
		if te.Code != c.Error {
			return fmt.Sprintf("expected error %s, got %s", c.Error, te.Code)
		}
	}
	if c.Output != nil && output != *c.Output {
		return fmt.Sprintf("output %q, want %q", output, *c.Output)
	}
	return ""
}

// Summary counts passed and failed results.
func Summary(results []Result) (passed, failed int) {
	for _, r := range results {
		if r.Passed {
			passed++
		} else {
			failed++
		}
	}
	return passed, failed
}
