package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/itmoscript/itmoscript/pkg/cache"
	"github.com/itmoscript/itmoscript/pkg/evaluator"
)

func runCLI(t *testing.T, stdin string, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = run(args, strings.NewReader(stdin), &out, &errOut)
	return code, out.String(), errOut.String()
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunInline(t *testing.T) {
	code, out, _ := runCLI(t, "", "-e", "println(1 + 2)")
	if code != 0 || out != "3\n" {
		t.Errorf("code %d, out %q", code, out)
	}
}

func TestRunStdin(t *testing.T) {
	code, out, _ := runCLI(t, "print(\"from stdin\")")
	if code != 0 || out != `"from stdin"` {
		t.Errorf("code %d, out %q", code, out)
	}
}

func TestRunFiles(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.is", "println(1)")
	b := writeFile(t, dir, "b.is", "println(2)")
	code, out, _ := runCLI(t, "", a, b)
	if code != 0 || out != "1\n2\n" {
		t.Errorf("code %d, out %q", code, out)
	}
}

func TestRunStopsAtFirstFailure(t *testing.T) {
	dir := t.TempDir()
	bad := writeFile(t, dir, "bad.is", "print(1)\nprint(1 / 0)")
	good := writeFile(t, dir, "good.is", "print(2)")
	code, out, errOut := runCLI(t, "", bad, good)
	if code != 1 {
		t.Errorf("code = %d, want 1", code)
	}
	if out != "1" {
		t.Errorf("out = %q, want output before the failure only", out)
	}
	if !strings.Contains(errOut, "R1005") {
		t.Errorf("stderr %q does not name the error", errOut)
	}
}

func TestRunMissingFile(t *testing.T) {
	code, _, errOut := runCLI(t, "", filepath.Join(t.TempDir(), "nope.is"))
	if code != 1 || errOut == "" {
		t.Errorf("code %d, stderr %q", code, errOut)
	}
}

func TestVersionFlag(t *testing.T) {
	code, out, _ := runCLI(t, "", "-version")
	if code != 0 || !strings.HasPrefix(out, appName+" v") {
		t.Errorf("code %d, out %q", code, out)
	}
}

func TestExtFlag(t *testing.T) {
	code, out, _ := runCLI(t, "", "-ext", "string", "-e", `print(snake_case("fooBar"))`)
	if code != 0 || out != "foo_bar" {
		t.Errorf("code %d, out %q", code, out)
	}

	code, _, errOut := runCLI(t, "", "-ext", "bogus", "-e", "print(1)")
	if code != 2 || !strings.Contains(errOut, "bogus") {
		t.Errorf("code %d, stderr %q", code, errOut)
	}
}

func TestSeedFlag(t *testing.T) {
	args := []string{"-seed", "9", "-e", "print([rnd(1000), rnd(1000), rnd(1000)])"}
	_, a, _ := runCLI(t, "", args...)
	_, b, _ := runCLI(t, "", args...)
	if a == "" || a != b {
		t.Errorf("seeded runs differ: %q vs %q", a, b)
	}
}

func TestConfigFlag(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "itmoscript.yaml", "extensions: [array]\nmax_depth: 50\n")
	code, out, _ := runCLI(t, "", "-config", cfg, "-e", "print(sum([1, 2, 3]))")
	if code != 0 || out != "6" {
		t.Errorf("code %d, out %q", code, out)
	}

	bad := writeFile(t, dir, "bad.yaml", "colour: blue\n")
	code, _, errOut := runCLI(t, "", "-config", bad, "-e", "print(1)")
	if code != 2 || !strings.Contains(errOut, "colour") {
		t.Errorf("code %d, stderr %q", code, errOut)
	}
}

func TestUnknownFlag(t *testing.T) {
	if code, _, _ := runCLI(t, "", "-nope"); code != 2 {
		t.Errorf("code = %d, want 2", code)
	}
}

func TestCheck(t *testing.T) {
	dir := t.TempDir()
	pass := writeFile(t, dir, "pass.yaml", "cases:\n  - name: one\n    source: print(1)\n    output: \"1\"\n")
	code, out, _ := runCLI(t, "", "check", "-v", pass)
	if code != 0 {
		t.Errorf("code = %d, want 0\n%s", code, out)
	}
	if !strings.Contains(out, "ok   pass/one") || !strings.Contains(out, "1 cases, 1 passed, 0 failed") {
		t.Errorf("unexpected report:\n%s", out)
	}

	writeFile(t, dir, "fail.yaml", "cases:\n  - name: two\n    source: print(1)\n    output: \"2\"\n")
	code, out, _ = runCLI(t, "", "check", dir)
	if code != 1 {
		t.Errorf("code = %d, want 1", code)
	}
	if !strings.Contains(out, "FAIL fail/two") || !strings.Contains(out, "2 cases, 1 passed, 1 failed") {
		t.Errorf("unexpected report:\n%s", out)
	}
}

// script replays lines as if typed at the prompt.
type script struct {
	lines   []string
	prompts []string
}

func (s *script) Prompt(prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if len(s.lines) == 0 {
		return "", io.EOF
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	return line, nil
}

func newSession() (*session, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return &session{
		ev:       evaluator.New(),
		programs: cache.New(8),
		out:      &out,
		errOut:   &errOut,
	}, &out, &errOut
}

func TestSessionLoop(t *testing.T) {
	s, out, errOut := newSession()
	in := &script{lines: []string{
		"x = 2",
		"x * 3",
		"add = function(a)",
		"    return a + x",
		"end function",
		"add(1)",
		`"two words"`,
		"println(7)",
		":reset",
		"x",
		":bogus",
	}}
	var remembered []string
	s.loop(context.Background(), in, func(src string) { remembered = append(remembered, src) })

	want := "6\n3\n\"two words\"\n7\nbindings cleared\n\n"
	if out.String() != want {
		t.Errorf("out = %q, want %q", out.String(), want)
	}
	if !strings.Contains(errOut.String(), "R1001") {
		t.Errorf("stderr %q should report the undefined variable", errOut.String())
	}
	if !strings.Contains(errOut.String(), ":bogus") {
		t.Errorf("stderr %q should report the unknown command", errOut.String())
	}
	if len(remembered) != 7 || remembered[2] != "add = function(a)     return a + x end function" {
		t.Errorf("history = %q", remembered)
	}
	if in.prompts[3] != promptCont || in.prompts[4] != promptCont {
		t.Errorf("prompts = %q, want continuation prompts for the function body", in.prompts)
	}
}

func TestSessionQuit(t *testing.T) {
	s, out, _ := newSession()
	in := &script{lines: []string{":quit", "println(1)"}}
	s.loop(context.Background(), in, nil)
	if out.Len() != 0 {
		t.Errorf("out = %q, want nothing after :quit", out.String())
	}
}

func TestReadInputReturnsSyntaxErrors(t *testing.T) {
	in := &script{lines: []string{"x = )", "print(1)"}}
	src, ok := readInput(in)
	if !ok || src != "x = )" {
		t.Errorf("readInput = %q, %v", src, ok)
	}
}

func TestReadInputEOFMidBlock(t *testing.T) {
	in := &script{lines: []string{"while 1"}}
	src, ok := readInput(in)
	if !ok || src != "while 1" {
		t.Errorf("readInput = %q, %v", src, ok)
	}
}
