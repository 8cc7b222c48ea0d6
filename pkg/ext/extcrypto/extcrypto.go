// Package extcrypto provides hashing and identifier functions for itmoscript.
// All functions use only the Go standard library.
//
// MD5 and SHA-1 are provided for fingerprinting only and should not be used
// for security purposes.
package extcrypto

import (
	"context"
	"crypto/hmac"
	"crypto/md5" //nolint:gosec // fingerprinting only
	"crypto/rand"
	"crypto/sha1" //nolint:gosec // fingerprinting only
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"hash"
	"strings"

	"github.com/itmoscript/itmoscript/pkg/ext/extutil"
	"github.com/itmoscript/itmoscript/pkg/functions"
	"github.com/itmoscript/itmoscript/pkg/types"
)

// All returns all extended cryptographic function definitions.
func All() []functions.CustomFunctionDef {
	return []functions.CustomFunctionDef{
		UUID(),
		Hash(),
		HMAC(),
		Base64Encode(),
		Base64Decode(),
	}
}

// AllEntries returns all crypto function definitions as [functions.FunctionEntry],
// suitable for spreading into [itmoscript.WithFunctions].
func AllEntries() []functions.FunctionEntry {
	all := All()
	out := make([]functions.FunctionEntry, len(all))
	for i, f := range all {
		out[i] = f
	}
	return out
}

// UUID returns the definition for uuid(): a random version 4 UUID string.
func UUID() functions.CustomFunctionDef {
	return functions.CustomFunctionDef{
		Name:  "uuid",
		Arity: 0,
		Fn: func(_ context.Context, _ ...types.Value) (types.Value, error) {
			var b [16]byte
			if _, err := rand.Read(b[:]); err != nil {
				return nil, fmt.Errorf("failed to generate random bytes: %w", err)
			}
			b[6] = (b[6] & 0x0f) | 0x40 // version 4
			b[8] = (b[8] & 0x3f) | 0x80 // RFC 4122 variant
			return types.String(fmt.Sprintf("%x-%x-%x-%x-%x",
				b[0:4], b[4:6], b[6:8], b[8:10], b[10:16])), nil
		},
	}
}

// Hash returns the definition for hash(str, algorithm).
// Supported algorithms: "md5", "sha1", "sha256", "sha384", "sha512".
// Returns a lowercase hex-encoded digest.
func Hash() functions.CustomFunctionDef {
	return functions.CustomFunctionDef{
		Name:  "hash",
		Arity: 2,
		Fn: func(_ context.Context, args ...types.Value) (types.Value, error) {
			str, err := extutil.String("hash", args, 0)
			if err != nil {
				return nil, err
			}
			algorithm, err := extutil.String("hash", args, 1)
			if err != nil {
				return nil, err
			}
			newHash, err := hasher("hash", algorithm)
			if err != nil {
				return nil, err
			}
			h := newHash()
			h.Write([]byte(str))
			return types.String(hex.EncodeToString(h.Sum(nil))), nil
		},
	}
}

// HMAC returns the definition for hmac(str, key, algorithm).
// Returns a lowercase hex-encoded HMAC.
func HMAC() functions.CustomFunctionDef {
	return functions.CustomFunctionDef{
		Name:  "hmac",
		Arity: 3,
		Fn: func(_ context.Context, args ...types.Value) (types.Value, error) {
			str, err := extutil.String("hmac", args, 0)
			if err != nil {
				return nil, err
			}
			key, err := extutil.String("hmac", args, 1)
			if err != nil {
				return nil, err
			}
			algorithm, err := extutil.String("hmac", args, 2)
			if err != nil {
				return nil, err
			}
			newHash, err := hasher("hmac", algorithm)
			if err != nil {
				return nil, err
			}
			mac := hmac.New(newHash, []byte(key))
			mac.Write([]byte(str))
			return types.String(hex.EncodeToString(mac.Sum(nil))), nil
		},
	}
}

// Base64Encode returns the definition for base64_encode(str).
func Base64Encode() functions.CustomFunctionDef {
	return functions.CustomFunctionDef{
		Name:  "base64_encode",
		Arity: 1,
		Fn: func(_ context.Context, args ...types.Value) (types.Value, error) {
			str, err := extutil.String("base64_encode", args, 0)
			if err != nil {
				return nil, err
			}
			return types.String(base64.StdEncoding.EncodeToString([]byte(str))), nil
		},
	}
}

// Base64Decode returns the definition for base64_decode(str). Malformed
// input is an error.
func Base64Decode() functions.CustomFunctionDef {
	return functions.CustomFunctionDef{
		Name:  "base64_decode",
		Arity: 1,
		Fn: func(_ context.Context, args ...types.Value) (types.Value, error) {
			str, err := extutil.String("base64_decode", args, 0)
			if err != nil {
				return nil, err
			}
			b, err := base64.StdEncoding.DecodeString(str)
			if err != nil {
				return nil, types.Errorf(types.ErrInvalidArgument, "base64_decode(): malformed input").WithCause(err)
			}
			return types.String(b), nil
		},
	}
}

// ── helpers ────────────────────────────────────────────────────────────────

func hasher(name, algorithm string) (func() hash.Hash, error) {
	switch strings.ToLower(algorithm) {
	case "md5":
		return md5.New, nil
	case "sha1":
		return sha1.New, nil
	case "sha256":
		return sha256.New, nil
	case "sha384":
		return sha512.New384, nil
	case "sha512":
		return sha512.New, nil
	default:
		return nil, types.Errorf(types.ErrInvalidArgument,
			"%s(): unsupported algorithm %q; use md5, sha1, sha256, sha384, or sha512", name, algorithm)
	}
}
