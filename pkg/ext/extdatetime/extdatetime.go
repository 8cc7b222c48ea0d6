// Package extdatetime provides date and time functions for itmoscript.
//
// itmoscript has no date type: instants are numbers holding milliseconds
// since the Unix epoch, interpreted in UTC unless a function takes a
// time zone name.
package extdatetime

import (
	"context"
	"strings"
	"time"

	"github.com/goodsign/monday"

	"github.com/itmoscript/itmoscript/pkg/ext/extutil"
	"github.com/itmoscript/itmoscript/pkg/functions"
	"github.com/itmoscript/itmoscript/pkg/types"
)

// All returns all extended date/time function definitions.
func All() []functions.CustomFunctionDef {
	return []functions.CustomFunctionDef{
		NowMs(),
		DateAdd(),
		DateDiff(),
		DateParts(),
		DateStartOf(),
		DateEndOf(),
		FormatDate(),
		ParseDate(),
	}
}

// AllEntries returns all date/time function definitions as [functions.FunctionEntry].
func AllEntries() []functions.FunctionEntry {
	all := All()
	out := make([]functions.FunctionEntry, len(all))
	for i, f := range all {
		out[i] = f
	}
	return out
}

// now is replaced in tests.
var now = time.Now

// NowMs returns the definition for now_ms(): the current time in epoch
// milliseconds.
func NowMs() functions.CustomFunctionDef {
	return functions.CustomFunctionDef{
		Name:  "now_ms",
		Arity: 0,
		Fn: func(_ context.Context, _ ...types.Value) (types.Value, error) {
			return timeToMs(now()), nil
		},
	}
}

// DateAdd returns the definition for date_add(ms, amount, unit).
// Adds (or subtracts if negative) the given amount of the specified unit.
//
// Supported units: "year", "month", "day", "hour", "minute", "second", "millisecond".
func DateAdd() functions.CustomFunctionDef {
	return functions.CustomFunctionDef{
		Name:  "date_add",
		Arity: 3,
		Fn: func(_ context.Context, args ...types.Value) (types.Value, error) {
			t, err := instant("date_add", args, 0)
			if err != nil {
				return nil, err
			}
			n, err := extutil.Int("date_add", args, 1)
			if err != nil {
				return nil, err
			}
			unit, err := extutil.String("date_add", args, 2)
			if err != nil {
				return nil, err
			}
			switch strings.ToLower(unit) {
			case "year":
				t = t.AddDate(n, 0, 0)
			case "month":
				t = t.AddDate(0, n, 0)
			case "day":
				t = t.AddDate(0, 0, n)
			case "hour":
				t = t.Add(time.Duration(n) * time.Hour)
			case "minute":
				t = t.Add(time.Duration(n) * time.Minute)
			case "second":
				t = t.Add(time.Duration(n) * time.Second)
			case "millisecond":
				t = t.Add(time.Duration(n) * time.Millisecond)
			default:
				return nil, unsupportedUnit("date_add", unit)
			}
			return timeToMs(t), nil
		},
	}
}

// DateDiff returns the definition for date_diff(from, to, unit).
// Returns the difference (to - from) in whole units.
func DateDiff() functions.CustomFunctionDef {
	return functions.CustomFunctionDef{
		Name:  "date_diff",
		Arity: 3,
		Fn: func(_ context.Context, args ...types.Value) (types.Value, error) {
			from, err := instant("date_diff", args, 0)
			if err != nil {
				return nil, err
			}
			to, err := instant("date_diff", args, 1)
			if err != nil {
				return nil, err
			}
			unit, err := extutil.String("date_diff", args, 2)
			if err != nil {
				return nil, err
			}
			secs := to.Unix() - from.Unix()
			switch strings.ToLower(unit) {
			case "millisecond":
				return types.Number(to.UnixMilli() - from.UnixMilli()), nil
			case "second":
				return types.Number(secs), nil
			case "minute":
				return types.Number(secs / 60), nil
			case "hour":
				return types.Number(secs / 3600), nil
			case "day":
				return types.Number(secs / 86400), nil
			case "month":
				years, months := dateDiffYM(from, to)
				return types.Number(years*12 + months), nil
			case "year":
				years, _ := dateDiffYM(from, to)
				return types.Number(years), nil
			default:
				return nil, unsupportedUnit("date_diff", unit)
			}
		},
	}
}

// DateParts returns the definition for date_parts(ms [, timezone]):
// [year, month, day, hour, minute, second, millisecond, weekday] with
// weekday 0 for Sunday.
func DateParts() functions.CustomFunctionDef {
	return functions.CustomFunctionDef{
		Name:  "date_parts",
		Arity: functions.Variadic,
		Fn: func(_ context.Context, args ...types.Value) (types.Value, error) {
			if err := extutil.ArgCount("date_parts", args, 1, 2); err != nil {
				return nil, err
			}
			t, err := instant("date_parts", args, 0)
			if err != nil {
				return nil, err
			}
			loc, err := location("date_parts", args, 1)
			if err != nil {
				return nil, err
			}
			t = t.In(loc)
			return types.NewArray(
				types.Number(t.Year()),
				types.Number(t.Month()),
				types.Number(t.Day()),
				types.Number(t.Hour()),
				types.Number(t.Minute()),
				types.Number(t.Second()),
				types.Number(t.Nanosecond()/1e6),
				types.Number(t.Weekday()),
			), nil
		},
	}
}

// DateStartOf returns the definition for date_start_of(ms, unit).
// Truncates the instant to the start of the unit (UTC).
func DateStartOf() functions.CustomFunctionDef {
	return functions.CustomFunctionDef{
		Name:  "date_start_of",
		Arity: 2,
		Fn: func(_ context.Context, args ...types.Value) (types.Value, error) {
			t, unit, err := instantAndUnit("date_start_of", args)
			if err != nil {
				return nil, err
			}
			start, err := startOf("date_start_of", t, unit)
			if err != nil {
				return nil, err
			}
			return timeToMs(start), nil
		},
	}
}

// DateEndOf returns the definition for date_end_of(ms, unit).
// Returns the last millisecond of the unit (UTC).
func DateEndOf() functions.CustomFunctionDef {
	return functions.CustomFunctionDef{
		Name:  "date_end_of",
		Arity: 2,
		Fn: func(_ context.Context, args ...types.Value) (types.Value, error) {
			t, unit, err := instantAndUnit("date_end_of", args)
			if err != nil {
				return nil, err
			}
			start, err := startOf("date_end_of", t, unit)
			if err != nil {
				return nil, err
			}
			var next time.Time
			switch strings.ToLower(unit) {
			case "year":
				next = start.AddDate(1, 0, 0)
			case "month":
				next = start.AddDate(0, 1, 0)
			case "day":
				next = start.AddDate(0, 0, 1)
			case "hour":
				next = start.Add(time.Hour)
			case "minute":
				next = start.Add(time.Minute)
			default:
				next = start.Add(time.Second)
			}
			return timeToMs(next.Add(-time.Millisecond)), nil
		},
	}
}

// Named layouts accepted by format_date and parse_date in place of a Go
// reference layout.
var layouts = map[string]string{
	"iso":      "2006-01-02T15:04:05.000Z07:00",
	"date":     "2006-01-02",
	"time":     "15:04:05",
	"datetime": "2006-01-02 15:04:05",
	"long":     "Monday, 2 January 2006",
	"medium":   "2 Jan 2006",
}

func resolveLayout(layout string) string {
	if l, ok := layouts[strings.ToLower(layout)]; ok {
		return l
	}
	return layout
}

// FormatDate returns the definition for format_date(ms, layout [, locale]).
// layout is a named layout ("iso", "date", "time", "datetime", "long",
// "medium") or a Go reference layout. Month and weekday names are
// localized; the default locale is en_US.
//
// Example:
//
//	format_date(0, "long", "fr")  // "jeudi, 1 janvier 1970"
func FormatDate() functions.CustomFunctionDef {
	return functions.CustomFunctionDef{
		Name:  "format_date",
		Arity: functions.Variadic,
		Fn: func(_ context.Context, args ...types.Value) (types.Value, error) {
			if err := extutil.ArgCount("format_date", args, 2, 3); err != nil {
				return nil, err
			}
			t, err := instant("format_date", args, 0)
			if err != nil {
				return nil, err
			}
			layout, err := extutil.String("format_date", args, 1)
			if err != nil {
				return nil, err
			}
			loc, err := extutil.OptString("format_date", args, 2, "en_US")
			if err != nil {
				return nil, err
			}
			return types.String(monday.Format(t, resolveLayout(layout), mondayLocale(loc))), nil
		},
	}
}

// ParseDate returns the definition for parse_date(str, layout): the instant
// in epoch milliseconds, or nil when str does not match layout.
func ParseDate() functions.CustomFunctionDef {
	return functions.CustomFunctionDef{
		Name:  "parse_date",
		Arity: 2,
		Fn: func(_ context.Context, args ...types.Value) (types.Value, error) {
			s, err := extutil.String("parse_date", args, 0)
			if err != nil {
				return nil, err
			}
			layout, err := extutil.String("parse_date", args, 1)
			if err != nil {
				return nil, err
			}
			t, err := time.Parse(resolveLayout(layout), s)
			if err != nil {
				return types.NilValue, nil
			}
			return timeToMs(t), nil
		},
	}
}

// ── helpers ────────────────────────────────────────────────────────────────

func instant(name string, args []types.Value, i int) (time.Time, error) {
	ms, err := extutil.Number(name, args, i)
	if err != nil {
		return time.Time{}, err
	}
	return time.UnixMilli(int64(ms)).UTC(), nil
}

func instantAndUnit(name string, args []types.Value) (time.Time, string, error) {
	t, err := instant(name, args, 0)
	if err != nil {
		return time.Time{}, "", err
	}
	unit, err := extutil.String(name, args, 1)
	if err != nil {
		return time.Time{}, "", err
	}
	return t, unit, nil
}

func location(name string, args []types.Value, i int) (*time.Location, error) {
	tz, err := extutil.OptString(name, args, i, "")
	if err != nil || tz == "" {
		return time.UTC, err
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, types.Errorf(types.ErrInvalidArgument, "%s(): invalid timezone %q", name, tz).WithCause(err)
	}
	return loc, nil
}

func startOf(name string, t time.Time, unit string) (time.Time, error) {
	switch strings.ToLower(unit) {
	case "year":
		return time.Date(t.Year(), 1, 1, 0, 0, 0, 0, time.UTC), nil
	case "month":
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC), nil
	case "day":
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
	case "hour":
		return t.Truncate(time.Hour), nil
	case "minute":
		return t.Truncate(time.Minute), nil
	case "second":
		return t.Truncate(time.Second), nil
	default:
		return time.Time{}, unsupportedUnit(name, unit)
	}
}

func unsupportedUnit(name, unit string) error {
	return types.Errorf(types.ErrInvalidArgument, "%s(): unsupported unit %q", name, unit)
}

func timeToMs(t time.Time) types.Number {
	return types.Number(t.UnixMilli())
}

// dateDiffYM counts whole calendar years and months from one instant to a
// later one.
func dateDiffYM(from, to time.Time) (years, months int) {
	y1, m1, d1 := from.Date()
	y2, m2, d2 := to.Date()
	years = y2 - y1
	months = int(m2) - int(m1)
	if d2 < d1 {
		months--
	}
	if months < 0 {
		years--
		months += 12
	}
	return years, months
}

var locales = map[string]monday.Locale{
	"en":    monday.LocaleEnUS,
	"en_us": monday.LocaleEnUS,
	"en_gb": monday.LocaleEnGB,
	"de":    monday.LocaleDeDE,
	"de_de": monday.LocaleDeDE,
	"fr":    monday.LocaleFrFR,
	"fr_fr": monday.LocaleFrFR,
	"es":    monday.LocaleEsES,
	"es_es": monday.LocaleEsES,
	"it":    monday.LocaleItIT,
	"it_it": monday.LocaleItIT,
	"pt":    monday.LocalePtPT,
	"pt_br": monday.LocalePtBR,
	"nl":    monday.LocaleNlNL,
	"ru":    monday.LocaleRuRU,
	"ru_ru": monday.LocaleRuRU,
	"pl":    monday.LocalePlPL,
	"sv":    monday.LocaleSvSE,
	"fi":    monday.LocaleFiFI,
	"da":    monday.LocaleDaDK,
	"ja":    monday.LocaleJaJP,
	"zh":    monday.LocaleZhCN,
	"ko":    monday.LocaleKoKR,
	"uk":    monday.LocaleUkUA,
	"tr":    monday.LocaleTrTR,
}

// mondayLocale maps "fr", "fr-FR" or "fr_FR" to a monday locale, falling
// back to the language part and then to en_US.
func mondayLocale(s string) monday.Locale {
	key := strings.ToLower(strings.ReplaceAll(s, "-", "_"))
	if loc, ok := locales[key]; ok {
		return loc
	}
	if lang, _, found := strings.Cut(key, "_"); found {
		if loc, ok := locales[lang]; ok {
			return loc
		}
	}
	return monday.LocaleEnUS
}
