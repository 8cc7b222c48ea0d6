package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"

	"github.com/itmoscript/itmoscript"
	"github.com/itmoscript/itmoscript/pkg/cache"
	"github.com/itmoscript/itmoscript/pkg/evaluator"
	"github.com/itmoscript/itmoscript/pkg/parser"
	"github.com/itmoscript/itmoscript/pkg/types"
)

const (
	promptMain = "> "
	promptCont = ". "
)

// prompter reads one line of input. *liner.State implements it.
type prompter interface {
	Prompt(prompt string) (string, error)
}

// session is one interactive run: a persistent evaluator plus a cache of
// compiled inputs.
type session struct {
	ev       *evaluator.Evaluator
	programs *cache.Cache
	out      io.Writer
	errOut   io.Writer
}

func (e *env) repl(args []string) int {
	if len(args) > 0 {
		fmt.Fprintf(e.stderr, "%s: repl takes no arguments\n", appName)
		return 2
	}
	fmt.Fprintf(e.stdout, "%s %s. Type :quit to exit, :reset to clear bindings.\n", appName, itmoscript.Version())

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := e.cfg.HistoryPath()
	if histPath != "" {
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			if f, err := os.Create(histPath); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			}
		}()
	}

	s := &session{
		ev:       evaluator.New(e.options()...),
		programs: cache.New(e.cfg.CacheSize),
		out:      e.stdout,
		errOut:   e.stderr,
	}
	s.loop(context.Background(), ln, ln.AppendHistory)
	return 0
}

// loop reads inputs until EOF or :quit. remember is called with every
// input that ran.
func (s *session) loop(ctx context.Context, p prompter, remember func(string)) {
	for {
		src, ok := readInput(p)
		if !ok {
			fmt.Fprintln(s.out)
			return
		}
		trimmed := strings.TrimSpace(src)
		switch {
		case trimmed == "":
			continue
		case strings.HasPrefix(trimmed, ":"):
			if s.command(trimmed) {
				return
			}
			continue
		}
		s.eval(ctx, src)
		if remember != nil {
			remember(strings.ReplaceAll(src, "\n", " "))
		}
	}
}

// command handles a ":" command and reports whether the session ends.
func (s *session) command(cmd string) bool {
	switch strings.ToLower(cmd) {
	case ":quit", ":q":
		return true
	case ":reset":
		s.ev.Reset()
		fmt.Fprintln(s.out, "bindings cleared")
	default:
		fmt.Fprintf(s.errOut, "unknown command %s. Commands: :quit, :reset\n", cmd)
	}
	return false
}

// eval runs src in the persistent scope and shows a non-nil result.
func (s *session) eval(ctx context.Context, src string) {
	prog, err := s.programs.GetOrCompile(src, func() (*types.Program, error) {
		return parser.Parse(src)
	})
	if err != nil {
		fmt.Fprintln(s.errOut, err)
		return
	}
	v, err := s.ev.Exec(ctx, prog, s.out)
	if err != nil {
		fmt.Fprintln(s.errOut, err)
		return
	}
	if _, isNil := v.(types.Nil); v != nil && !isNil {
		fmt.Fprintln(s.out, types.Display(v))
	}
}

// readInput reads lines until they form a complete program, or until the
// parser reports an error other than early end of input.
func readInput(p prompter) (string, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := p.Prompt(prompt)
		if errors.Is(err, liner.ErrPromptAborted) {
			// Ctrl-C drops the pending input.
			return "", true
		}
		if errors.Is(err, io.EOF) {
			if b.Len() > 0 {
				return b.String(), true
			}
			return "", false
		}
		if err != nil {
			return "", false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") {
			return src, true
		}
		if _, perr := parser.Parse(src); perr != nil && parser.IsIncomplete(perr) {
			continue
		}
		return src, true
	}
}
