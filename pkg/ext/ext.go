// Package ext provides optional extension functions for itmoscript that go
// beyond the language's built-in function set.
//
// The extension functions live in sub-packages grouped by category:
//   - extstring   – trim, starts_with, index_of, camel_case, template, …
//   - extnumeric  – log, pow, clamp, trig functions, median, stddev, …
//   - extarray    – first, last, take, flatten, chunk, set ops, map, filter, reduce, …
//   - exttypes    – type_of, is_string, is_array, is_empty, default, …
//   - extdatetime – now_ms, date_add, date_diff, date_parts, format_date, …
//   - extcrypto   – uuid, hash, hmac, base64_encode, base64_decode
//   - extformat   – parse_csv, to_csv, format_number, format_currency, markdown
//   - extfunc     – pipe, apply, times (advanced/HOF)
//
// Extension functions are host functions: a script variable or function of
// the same name shadows them, and they never replace a built-in.
//
// # Integration – all extensions at once
//
//	import "github.com/itmoscript/itmoscript/pkg/ext"
//
//	err := itmoscript.Run(ctx, src, os.Stdout, ext.WithAll())
//
// # Integration – by category
//
//	err := itmoscript.Run(ctx, src, os.Stdout,
//	    ext.WithString(),
//	    ext.WithArray(),
//	)
//
// # Integration – single function from a sub-package
//
//	import "github.com/itmoscript/itmoscript/pkg/ext/extstring"
//
//	err := itmoscript.Run(ctx, src, os.Stdout,
//	    itmoscript.WithFunctions(extstring.StartsWith()),
//	)
package ext

import (
	"sort"

	"github.com/itmoscript/itmoscript/pkg/evaluator"
	"github.com/itmoscript/itmoscript/pkg/ext/extarray"
	"github.com/itmoscript/itmoscript/pkg/ext/extcrypto"
	"github.com/itmoscript/itmoscript/pkg/ext/extdatetime"
	"github.com/itmoscript/itmoscript/pkg/ext/extformat"
	"github.com/itmoscript/itmoscript/pkg/ext/extfunc"
	"github.com/itmoscript/itmoscript/pkg/ext/extnumeric"
	"github.com/itmoscript/itmoscript/pkg/ext/extstring"
	"github.com/itmoscript/itmoscript/pkg/ext/exttypes"
	"github.com/itmoscript/itmoscript/pkg/functions"
)

// AllSimple returns all simple (non-HOF) extension function definitions.
func AllSimple() []functions.CustomFunctionDef {
	var all []functions.CustomFunctionDef
	all = append(all, extstring.All()...)
	all = append(all, extnumeric.All()...)
	all = append(all, extarray.All()...)
	all = append(all, exttypes.All()...)
	all = append(all, extdatetime.All()...)
	all = append(all, extcrypto.All()...)
	all = append(all, extformat.All()...)
	return all
}

// AllAdvanced returns all advanced (HOF) extension function definitions.
func AllAdvanced() []functions.AdvancedCustomFunctionDef {
	var all []functions.AdvancedCustomFunctionDef
	all = append(all, extarray.AllAdvanced()...)
	all = append(all, extfunc.AllAdvanced()...)
	return all
}

// AllEntries returns all extension function definitions (simple + advanced) as
// [functions.FunctionEntry], suitable for spreading into [itmoscript.WithFunctions]:
//
//	itmoscript.WithFunctions(ext.AllEntries()...)
func AllEntries() []functions.FunctionEntry {
	simple := AllSimple()
	adv := AllAdvanced()
	out := make([]functions.FunctionEntry, 0, len(simple)+len(adv))
	for _, f := range simple {
		out = append(out, f)
	}
	for _, f := range adv {
		out = append(out, f)
	}
	return out
}

// WithAll returns an EvalOption that registers all extension functions
// (both simple and advanced HOF).
func WithAll() evaluator.EvalOption {
	return evaluator.WithFunctions(AllEntries()...)
}

// WithString returns an EvalOption for the extended string functions.
func WithString() evaluator.EvalOption {
	return evaluator.WithFunctions(extstring.AllEntries()...)
}

// WithNumeric returns an EvalOption for the extended numeric functions.
func WithNumeric() evaluator.EvalOption {
	return evaluator.WithFunctions(extnumeric.AllEntries()...)
}

// WithArray returns an EvalOption for the extended array functions
// (includes both simple and HOF variants).
func WithArray() evaluator.EvalOption {
	return evaluator.WithFunctions(extarray.AllEntries()...)
}

// WithTypes returns an EvalOption for the type predicate functions.
func WithTypes() evaluator.EvalOption {
	return evaluator.WithFunctions(exttypes.AllEntries()...)
}

// WithDateTime returns an EvalOption for the date/time functions.
func WithDateTime() evaluator.EvalOption {
	return evaluator.WithFunctions(extdatetime.AllEntries()...)
}

// WithCrypto returns an EvalOption for the hashing and encoding functions.
func WithCrypto() evaluator.EvalOption {
	return evaluator.WithFunctions(extcrypto.AllEntries()...)
}

// WithFormat returns an EvalOption for the data-format functions (CSV,
// localized numbers, markdown).
func WithFormat() evaluator.EvalOption {
	return evaluator.WithFunctions(extformat.AllEntries()...)
}

// WithFunctional returns an EvalOption for the functional utility HOFs
// (pipe, apply, times).
func WithFunctional() evaluator.EvalOption {
	return evaluator.WithFunctions(extfunc.AllEntries()...)
}

var categories = map[string]func() evaluator.EvalOption{
	"all":        WithAll,
	"string":     WithString,
	"numeric":    WithNumeric,
	"array":      WithArray,
	"types":      WithTypes,
	"datetime":   WithDateTime,
	"crypto":     WithCrypto,
	"format":     WithFormat,
	"functional": WithFunctional,
}

// ByName returns the option for an extension category such as "string" or
// "datetime", as named in configuration files and on the command line.
func ByName(name string) (evaluator.EvalOption, bool) {
	f, ok := categories[name]
	if !ok {
		return nil, false
	}
	return f(), true
}

// Names lists the category names accepted by ByName, sorted.
func Names() []string {
	names := make([]string, 0, len(categories))
	for name := range categories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
