// Package extstring provides extended string functions for itmoscript beyond
// the built-ins. Register them via itmoscript.WithFunctions or via the
// top-level ext.WithString() helper.
package extstring

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/itmoscript/itmoscript/pkg/ext/extutil"
	"github.com/itmoscript/itmoscript/pkg/functions"
	"github.com/itmoscript/itmoscript/pkg/types"
)

// All returns all extended string function definitions.
func All() []functions.CustomFunctionDef {
	return []functions.CustomFunctionDef{
		Trim(),
		StartsWith(),
		EndsWith(),
		Contains(),
		IndexOf(),
		LastIndexOf(),
		Capitalize(),
		TitleCase(),
		CamelCase(),
		SnakeCase(),
		KebabCase(),
		ReverseString(),
		Repeat(),
		Words(),
		Template(),
	}
}

// AllEntries returns all string function definitions as [functions.FunctionEntry],
// suitable for spreading into [itmoscript.WithFunctions]:
//
//	itmoscript.WithFunctions(extstring.AllEntries()...)
func AllEntries() []functions.FunctionEntry {
	all := All()
	out := make([]functions.FunctionEntry, len(all))
	for i, f := range all {
		out[i] = f
	}
	return out
}

// stringFunc builds a one-argument string-to-value function.
func stringFunc(name string, f func(string) types.Value) functions.CustomFunctionDef {
	return functions.CustomFunctionDef{
		Name:  name,
		Arity: 1,
		Fn: func(_ context.Context, args ...types.Value) (types.Value, error) {
			s, err := extutil.String(name, args, 0)
			if err != nil {
				return nil, err
			}
			return f(s), nil
		},
	}
}

// pairFunc builds a two-string-argument function.
func pairFunc(name string, f func(a, b string) types.Value) functions.CustomFunctionDef {
	return functions.CustomFunctionDef{
		Name:  name,
		Arity: 2,
		Fn: func(_ context.Context, args ...types.Value) (types.Value, error) {
			a, err := extutil.String(name, args, 0)
			if err != nil {
				return nil, err
			}
			b, err := extutil.String(name, args, 1)
			if err != nil {
				return nil, err
			}
			return f(a, b), nil
		},
	}
}

// Trim returns the definition for trim(str): leading and trailing white
// space removed.
func Trim() functions.CustomFunctionDef {
	return stringFunc("trim", func(s string) types.Value {
		return types.String(strings.TrimSpace(s))
	})
}

// StartsWith returns the definition for starts_with(str, prefix).
func StartsWith() functions.CustomFunctionDef {
	return pairFunc("starts_with", func(s, prefix string) types.Value {
		return types.Bool(strings.HasPrefix(s, prefix))
	})
}

// EndsWith returns the definition for ends_with(str, suffix).
func EndsWith() functions.CustomFunctionDef {
	return pairFunc("ends_with", func(s, suffix string) types.Value {
		return types.Bool(strings.HasSuffix(s, suffix))
	})
}

// Contains returns the definition for contains(str, sub).
func Contains() functions.CustomFunctionDef {
	return pairFunc("contains", func(s, sub string) types.Value {
		return types.Bool(strings.Contains(s, sub))
	})
}

// IndexOf returns the definition for index_of(str, search [, start]).
// Returns -1 when not found. Offsets are byte offsets, like string indexing.
func IndexOf() functions.CustomFunctionDef {
	return functions.CustomFunctionDef{
		Name:  "index_of",
		Arity: functions.Variadic,
		Fn: func(_ context.Context, args ...types.Value) (types.Value, error) {
			if err := extutil.ArgCount("index_of", args, 2, 3); err != nil {
				return nil, err
			}
			s, err := extutil.String("index_of", args, 0)
			if err != nil {
				return nil, err
			}
			search, err := extutil.String("index_of", args, 1)
			if err != nil {
				return nil, err
			}
			start := 0
			if len(args) == 3 {
				if start, err = extutil.Int("index_of", args, 2); err != nil {
					return nil, err
				}
				start = max(start, 0)
			}
			if start > len(s) {
				return types.Number(-1), nil
			}
			idx := strings.Index(s[start:], search)
			if idx < 0 {
				return types.Number(-1), nil
			}
			return types.Number(idx + start), nil
		},
	}
}

// LastIndexOf returns the definition for last_index_of(str, search).
func LastIndexOf() functions.CustomFunctionDef {
	return pairFunc("last_index_of", func(s, search string) types.Value {
		return types.Number(strings.LastIndex(s, search))
	})
}

// Capitalize returns the definition for capitalize(str).
// Uppercases the first character, lowercases the rest.
func Capitalize() functions.CustomFunctionDef {
	return stringFunc("capitalize", func(s string) types.Value {
		if s == "" {
			return types.String("")
		}
		runes := []rune(strings.ToLower(s))
		runes[0] = unicode.ToUpper(runes[0])
		return types.String(string(runes))
	})
}

var titleCaser = cases.Title(language.Und)

// TitleCase returns the definition for title_case(str).
// Uppercases the first character of each word.
func TitleCase() functions.CustomFunctionDef {
	return stringFunc("title_case", func(s string) types.Value {
		return types.String(titleCaser.String(strings.ToLower(s)))
	})
}

// splitWordsRe matches separators and lower-to-upper camelCase boundaries.
var splitWordsRe = regexp.MustCompile(`[_\-\s]+|([a-z0-9])([A-Z])`)

func splitIntoWords(s string) []string {
	expanded := splitWordsRe.ReplaceAllString(s, "$1 $2")
	return strings.Fields(expanded)
}

// CamelCase returns the definition for camel_case(str).
func CamelCase() functions.CustomFunctionDef {
	return stringFunc("camel_case", func(s string) types.Value {
		words := splitIntoWords(s)
		var b strings.Builder
		for i, w := range words {
			w = strings.ToLower(w)
			if i > 0 {
				runes := []rune(w)
				runes[0] = unicode.ToUpper(runes[0])
				w = string(runes)
			}
			b.WriteString(w)
		}
		return types.String(b.String())
	})
}

func joinLower(s, sep string) types.Value {
	words := splitIntoWords(s)
	for i, w := range words {
		words[i] = strings.ToLower(w)
	}
	return types.String(strings.Join(words, sep))
}

// SnakeCase returns the definition for snake_case(str).
func SnakeCase() functions.CustomFunctionDef {
	return stringFunc("snake_case", func(s string) types.Value { return joinLower(s, "_") })
}

// KebabCase returns the definition for kebab_case(str).
func KebabCase() functions.CustomFunctionDef {
	return stringFunc("kebab_case", func(s string) types.Value { return joinLower(s, "-") })
}

// ReverseString returns the definition for reverse_string(str). Runes are
// reversed, so multi-byte characters stay intact.
func ReverseString() functions.CustomFunctionDef {
	return stringFunc("reverse_string", func(s string) types.Value {
		runes := []rune(s)
		for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
			runes[i], runes[j] = runes[j], runes[i]
		}
		return types.String(string(runes))
	})
}

// Repeat returns the definition for repeat(str, n): str concatenated n
// times. Non-positive counts give "".
func Repeat() functions.CustomFunctionDef {
	return functions.CustomFunctionDef{
		Name:  "repeat",
		Arity: 2,
		Fn: func(_ context.Context, args ...types.Value) (types.Value, error) {
			s, err := extutil.String("repeat", args, 0)
			if err != nil {
				return nil, err
			}
			n, err := extutil.Int("repeat", args, 1)
			if err != nil {
				return nil, err
			}
			if n <= 0 {
				return types.String(""), nil
			}
			if len(s) > 0 && n > maxRepeatLen/len(s) {
				return nil, types.Errorf(types.ErrInvalidArgument, "repeat() result longer than %d bytes", maxRepeatLen)
			}
			return types.String(strings.Repeat(s, n)), nil
		},
	}
}

const maxRepeatLen = 1 << 26

// Words returns the definition for words(str): the white-space separated
// fields of str.
func Words() functions.CustomFunctionDef {
	return stringFunc("words", func(s string) types.Value {
		return extutil.Strings(strings.Fields(s))
	})
}

var placeholderRe = regexp.MustCompile(`\{\{(\d+)\}\}`)

// Template returns the definition for template(str, values).
// Replaces {{i}} placeholders with the textual form of values[i];
// placeholders without a matching element are left as they are.
func Template() functions.CustomFunctionDef {
	return functions.CustomFunctionDef{
		Name:  "template",
		Arity: 2,
		Fn: func(_ context.Context, args ...types.Value) (types.Value, error) {
			tmpl, err := extutil.String("template", args, 0)
			if err != nil {
				return nil, err
			}
			values, err := extutil.Array("template", args, 1)
			if err != nil {
				return nil, err
			}
			out := placeholderRe.ReplaceAllStringFunc(tmpl, func(match string) string {
				i, err := strconv.Atoi(match[2 : len(match)-2])
				if err != nil || i >= len(values.Elems) {
					return match
				}
				return types.ToString(values.Elems[i])
			})
			return types.String(out), nil
		},
	}
}
