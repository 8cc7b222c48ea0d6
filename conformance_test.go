package itmoscript_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/itmoscript/itmoscript/pkg/conformance"
)

// TestConformance runs every suite under testdata/conformance.
func TestConformance(t *testing.T) {
	suites, err := conformance.LoadDir(filepath.Join("testdata", "conformance"))
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if len(suites) == 0 {
		t.Fatal("no conformance suites found")
	}
	for _, suite := range suites {
		t.Run(suite.Name, func(t *testing.T) {
			for _, c := range suite.Cases {
				t.Run(c.Name, func(t *testing.T) {
					r := conformance.RunCase(context.Background(), c)
					if !r.Passed {
						t.Errorf("%s\nsource:\n%s\noutput: %q", r.Problem, c.Source, r.Output)
					}
				})
			}
		})
	}
}
