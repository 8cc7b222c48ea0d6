package evaluator

import (
	"context"
	"strings"

	"github.com/itmoscript/itmoscript/pkg/types"
)

// fnLower lowercases ASCII letters; other bytes are left alone.
func fnLower(ctx context.Context, e *Evaluator, args []types.Value) (types.Value, error) {
	s, err := argString("lower", args, 0)
	if err != nil {
		return nil, err
	}
	return types.String(mapASCII(s, 'A', 'Z', 'a'-'A')), nil
}

// fnUpper uppercases ASCII letters; other bytes are left alone.
func fnUpper(ctx context.Context, e *Evaluator, args []types.Value) (types.Value, error) {
	s, err := argString("upper", args, 0)
	if err != nil {
		return nil, err
	}
	return types.String(mapASCII(s, 'a', 'z', 'A'-'a')), nil
}

func mapASCII(s string, lo, hi byte, delta int) string {
	b := []byte(s)
	for i, c := range b {
		if c >= lo && c <= hi {
			b[i] = byte(int(c) + delta)
		}
	}
	return string(b)
}

// fnSplit splits a string on a delimiter. An empty delimiter splits into
// single bytes.
func fnSplit(ctx context.Context, e *Evaluator, args []types.Value) (types.Value, error) {
	s, err := argString("split", args, 0)
	if err != nil {
		return nil, err
	}
	delim, err := argString("split", args, 1)
	if err != nil {
		return nil, err
	}

	var parts []string
	if delim == "" {
		parts = make([]string, len(s))
		for i := 0; i < len(s); i++ {
			parts[i] = s[i : i+1]
		}
	} else {
		parts = strings.Split(s, delim)
	}

	elems := make([]types.Value, len(parts))
	for i, p := range parts {
		elems[i] = types.String(p)
	}
	return types.NewArray(elems...), nil
}

// fnJoin joins an array of strings with a delimiter.
func fnJoin(ctx context.Context, e *Evaluator, args []types.Value) (types.Value, error) {
	arr, err := argArray("join", args, 0)
	if err != nil {
		return nil, err
	}
	delim, err := argString("join", args, 1)
	if err != nil {
		return nil, err
	}

	buf := acquireBuf()
	defer releaseBuf(buf)
	for i, el := range arr.Elems {
		s, ok := el.(types.String)
		if !ok {
			return nil, types.Errorf(types.ErrTypeMismatch, "join() array elements must be strings, got %s", types.KindOf(el))
		}
		if i > 0 {
			buf.WriteString(delim)
		}
		buf.WriteString(string(s))
	}
	return types.String(buf.String()), nil
}

// fnReplace replaces every non-overlapping occurrence of old, scanning left
// to right. An empty old leaves the string unchanged.
func fnReplace(ctx context.Context, e *Evaluator, args []types.Value) (types.Value, error) {
	var strs [3]string
	for i := range strs {
		s, err := argString("replace", args, i)
		if err != nil {
			return nil, err
		}
		strs[i] = s
	}
	if strs[1] == "" {
		return types.String(strs[0]), nil
	}
	return types.String(strings.ReplaceAll(strs[0], strs[1], strs[2])), nil
}
