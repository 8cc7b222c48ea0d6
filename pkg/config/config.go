// Package config loads the YAML configuration of the itmoscript command and
// turns it into evaluator options.
//
//	seed: 42
//	max_depth: 10000
//	timeout: 5s
//	debug: false
//	log_level: info
//	extensions: [string, array, numeric]
//	history: ~/.itmoscript_history
//	cache_size: 64
//
// Unknown keys are rejected so that typos surface as errors.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/itmoscript/itmoscript/pkg/evaluator"
	"github.com/itmoscript/itmoscript/pkg/ext"
)

// Config is the decoded configuration file.
type Config struct {
	// Seed fixes the rnd generator when set.
	Seed *int64 `yaml:"seed"`
	// MaxDepth bounds nested calls. Zero keeps the evaluator default.
	MaxDepth int `yaml:"max_depth"`
	// Timeout bounds a single run. Zero means no timeout.
	Timeout time.Duration `yaml:"timeout"`
	Debug   bool          `yaml:"debug"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
	// Extensions lists extension categories to enable (see ext.Names).
	Extensions []string `yaml:"extensions"`
	// History is the REPL history file. A leading ~ expands to the home
	// directory.
	History string `yaml:"history"`
	// CacheSize is the capacity of the program cache used by the REPL.
	CacheSize int `yaml:"cache_size"`

	// Path is the file the configuration was read from, if any.
	Path string `yaml:"-"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		LogLevel:  "warn",
		History:   "~/.itmoscript_history",
		CacheSize: 64,
	}
}

// Load reads and validates the configuration file at path. Keys missing
// from the file keep their Default values.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config: empty path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config: resolve %s: %w", path, err)
	}
	file, err := os.Open(abs)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	cfg, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", abs, err)
	}
	cfg.Path = abs
	return cfg, nil
}

// Parse decodes a configuration document from r. An empty document yields
// the defaults.
func Parse(r io.Reader) (*Config, error) {
	cfg := Default()
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) normalize() {
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	for i, name := range c.Extensions {
		c.Extensions[i] = strings.ToLower(strings.TrimSpace(name))
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.MaxDepth < 0 {
		return fmt.Errorf("max_depth must not be negative, got %d", c.MaxDepth)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("cache_size must not be negative, got %d", c.CacheSize)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	for _, name := range c.Extensions {
		if _, ok := ext.ByName(name); !ok {
			return fmt.Errorf("unknown extension %q (available: %s)", name, strings.Join(ext.Names(), ", "))
		}
	}
	return nil
}

// ParseLevel maps a log_level value to a slog level. The empty string is
// warn.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "", "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log_level %q", s)
	}
}

// Logger builds a text logger writing to w at the configured level. Debug
// forces the debug level.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	level, _ := ParseLevel(c.LogLevel)
	if c.Debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Options converts the configuration into evaluator options. The logger is
// passed in so callers decide where diagnostics go.
func (c *Config) Options(logger *slog.Logger) []evaluator.EvalOption {
	var opts []evaluator.EvalOption
	if logger != nil {
		opts = append(opts, evaluator.WithLogger(logger))
	}
	if c.Debug {
		opts = append(opts, evaluator.WithDebug(true))
	}
	if c.Seed != nil {
		opts = append(opts, evaluator.WithSeed(*c.Seed))
	}
	if c.MaxDepth > 0 {
		opts = append(opts, evaluator.WithMaxDepth(c.MaxDepth))
	}
	if c.Timeout > 0 {
		opts = append(opts, evaluator.WithTimeout(c.Timeout))
	}
	for _, name := range c.Extensions {
		if opt, ok := ext.ByName(name); ok {
			opts = append(opts, opt)
		}
	}
	return opts
}

// HistoryPath returns History with a leading ~ expanded. It returns "" when
// history is disabled or the home directory is unknown.
func (c *Config) HistoryPath() string {
	p := c.History
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		p = filepath.Join(home, p[1:])
	}
	return p
}
