// Package extformat provides data-format functions for itmoscript: CSV
// encoding, locale-aware number formatting and Markdown rendering.
package extformat

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"

	"github.com/yuin/goldmark"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/itmoscript/itmoscript/pkg/ext/extutil"
	"github.com/itmoscript/itmoscript/pkg/functions"
	"github.com/itmoscript/itmoscript/pkg/types"
)

// All returns all format function definitions.
func All() []functions.CustomFunctionDef {
	return []functions.CustomFunctionDef{
		ParseCSV(),
		ToCSV(),
		FormatNumber(),
		FormatPercent(),
		FormatCurrency(),
		Markdown(),
	}
}

// AllEntries returns all format function definitions as [functions.FunctionEntry].
func AllEntries() []functions.FunctionEntry {
	all := All()
	out := make([]functions.FunctionEntry, len(all))
	for i, f := range all {
		out[i] = f
	}
	return out
}

func separator(name string, args []types.Value, i int) (rune, error) {
	sep, err := extutil.OptString(name, args, i, ",")
	if err != nil {
		return 0, err
	}
	if len(sep) != 1 {
		return 0, types.Errorf(types.ErrInvalidArgument, "%s() separator must be a single character", name)
	}
	return rune(sep[0]), nil
}

// ParseCSV returns the definition for parse_csv(str [, separator]).
// Parses CSV text into an array of rows, each an array of strings.
// Rows may have different lengths.
func ParseCSV() functions.CustomFunctionDef {
	return functions.CustomFunctionDef{
		Name:  "parse_csv",
		Arity: functions.Variadic,
		Fn: func(_ context.Context, args ...types.Value) (types.Value, error) {
			if err := extutil.ArgCount("parse_csv", args, 1, 2); err != nil {
				return nil, err
			}
			src, err := extutil.String("parse_csv", args, 0)
			if err != nil {
				return nil, err
			}
			sep, err := separator("parse_csv", args, 1)
			if err != nil {
				return nil, err
			}

			r := csv.NewReader(strings.NewReader(src))
			r.Comma = sep
			r.FieldsPerRecord = -1
			r.TrimLeadingSpace = true

			records, err := r.ReadAll()
			if err != nil {
				return nil, types.Errorf(types.ErrInvalidArgument, "parse_csv() %v", err).WithCause(err)
			}
			rows := make([]types.Value, len(records))
			for i, rec := range records {
				rows[i] = extutil.Strings(rec)
			}
			return types.NewArray(rows...), nil
		},
	}
}

// ToCSV returns the definition for to_csv(rows [, separator]).
// Every row must be an array; cells are written in their textual form.
func ToCSV() functions.CustomFunctionDef {
	return functions.CustomFunctionDef{
		Name:  "to_csv",
		Arity: functions.Variadic,
		Fn: func(_ context.Context, args ...types.Value) (types.Value, error) {
			if err := extutil.ArgCount("to_csv", args, 1, 2); err != nil {
				return nil, err
			}
			rows, err := extutil.Array("to_csv", args, 0)
			if err != nil {
				return nil, err
			}
			sep, err := separator("to_csv", args, 1)
			if err != nil {
				return nil, err
			}

			var buf bytes.Buffer
			w := csv.NewWriter(&buf)
			w.Comma = sep
			for i, rv := range rows.Elems {
				row, ok := rv.(*types.Array)
				if !ok {
					return nil, types.Errorf(types.ErrTypeMismatch, "to_csv() row %d must be an array, got %s", i, types.KindOf(rv))
				}
				rec := make([]string, len(row.Elems))
				for j, cell := range row.Elems {
					rec[j] = types.ToString(cell)
				}
				if err := w.Write(rec); err != nil {
					return nil, types.Errorf(types.ErrInvalidArgument, "to_csv() %v", err).WithCause(err)
				}
			}
			w.Flush()
			if err := w.Error(); err != nil {
				return nil, types.Errorf(types.ErrInvalidArgument, "to_csv() %v", err).WithCause(err)
			}
			return types.String(buf.String()), nil
		},
	}
}

// printer returns a message printer for the optional locale argument at i.
func printer(name string, args []types.Value, i int) (*message.Printer, error) {
	locale, err := extutil.OptString(name, args, i, "en")
	if err != nil {
		return nil, err
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, types.Errorf(types.ErrInvalidArgument, "%s() invalid locale %q", name, locale).WithCause(err)
	}
	return message.NewPrinter(tag), nil
}

// FormatNumber returns the definition for format_number(n [, locale]).
// Groups digits the way the locale does (default "en").
//
//	format_number(1234567.5)          => "1,234,567.5"
//	format_number(1234567.5, "de")    => "1.234.567,5"
func FormatNumber() functions.CustomFunctionDef {
	return functions.CustomFunctionDef{
		Name:  "format_number",
		Arity: functions.Variadic,
		Fn: func(_ context.Context, args ...types.Value) (types.Value, error) {
			if err := extutil.ArgCount("format_number", args, 1, 2); err != nil {
				return nil, err
			}
			n, err := extutil.Number("format_number", args, 0)
			if err != nil {
				return nil, err
			}
			p, err := printer("format_number", args, 1)
			if err != nil {
				return nil, err
			}
			return types.String(p.Sprintf("%v", number.Decimal(n))), nil
		},
	}
}

// FormatPercent returns the definition for format_percent(n [, locale]),
// where 0.25 renders as "25%".
func FormatPercent() functions.CustomFunctionDef {
	return functions.CustomFunctionDef{
		Name:  "format_percent",
		Arity: functions.Variadic,
		Fn: func(_ context.Context, args ...types.Value) (types.Value, error) {
			if err := extutil.ArgCount("format_percent", args, 1, 2); err != nil {
				return nil, err
			}
			n, err := extutil.Number("format_percent", args, 0)
			if err != nil {
				return nil, err
			}
			p, err := printer("format_percent", args, 1)
			if err != nil {
				return nil, err
			}
			return types.String(p.Sprintf("%v", number.Percent(n))), nil
		},
	}
}

// FormatCurrency returns the definition for
// format_currency(n, code [, locale]) with an ISO 4217 currency code.
func FormatCurrency() functions.CustomFunctionDef {
	return functions.CustomFunctionDef{
		Name:  "format_currency",
		Arity: functions.Variadic,
		Fn: func(_ context.Context, args ...types.Value) (types.Value, error) {
			if err := extutil.ArgCount("format_currency", args, 2, 3); err != nil {
				return nil, err
			}
			n, err := extutil.Number("format_currency", args, 0)
			if err != nil {
				return nil, err
			}
			code, err := extutil.String("format_currency", args, 1)
			if err != nil {
				return nil, err
			}
			unit, err := currency.ParseISO(code)
			if err != nil {
				return nil, types.Errorf(types.ErrInvalidArgument, "format_currency() invalid currency code %q", code).WithCause(err)
			}
			p, err := printer("format_currency", args, 2)
			if err != nil {
				return nil, err
			}
			return types.String(p.Sprintf("%v", currency.Symbol(unit.Amount(n)))), nil
		},
	}
}

var markdown = goldmark.New()

// Markdown returns the definition for markdown(str): the CommonMark
// rendering of str as HTML.
func Markdown() functions.CustomFunctionDef {
	return functions.CustomFunctionDef{
		Name:  "markdown",
		Arity: 1,
		Fn: func(_ context.Context, args ...types.Value) (types.Value, error) {
			src, err := extutil.String("markdown", args, 0)
			if err != nil {
				return nil, err
			}
			var buf bytes.Buffer
			if err := markdown.Convert([]byte(src), &buf); err != nil {
				return nil, types.Errorf(types.ErrInvalidArgument, "markdown() %v", err).WithCause(err)
			}
			return types.String(buf.String()), nil
		},
	}
}
