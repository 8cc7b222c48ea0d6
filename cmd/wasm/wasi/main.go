//go:build wasip1

// Command itmoscript-wasi is the WASI (wasip1) entrypoint for use from any
// language that supports the WebAssembly System Interface.
//
// Protocol: single JSON object on stdin → single JSON object on stdout.
//
//	stdin:  { "source": "<program>", "seed": 42 }        seed is optional
//	stdout: { "output": "<printed text>", "ok": true }    on success
//	        { "output": "...", "ok": false, "error": "<message>" }  on failure (exit code 1)
//
// Output printed before a runtime error is kept in "output".
//
// Build:
//
//	GOOS=wasip1 GOARCH=wasm go build -o itmoscript.wasm ./cmd/wasm/wasi/
//
// Usage with wasmtime CLI:
//
//	echo '{"source":"println(1 + 2)"}' | wasmtime itmoscript.wasm
package main

import (
	"context"
	"encoding/json"
	"os"
	"strings"

	"github.com/itmoscript/itmoscript"
)

type request struct {
	Source string `json:"source"`
	Seed   *int64 `json:"seed,omitempty"`
}

type response struct {
	Output string `json:"output"`
	OK     bool   `json:"ok"`
	Error  string `json:"error,omitempty"`
}

func writeResponse(r response, exitCode int) {
	_ = json.NewEncoder(os.Stdout).Encode(r)
	os.Exit(exitCode)
}

func main() {
	var req request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeResponse(response{Error: "invalid request JSON: " + err.Error()}, 1)
	}

	var opts []itmoscript.EvalOption
	if req.Seed != nil {
		opts = append(opts, itmoscript.WithSeed(*req.Seed))
	}

	var out strings.Builder
	if err := itmoscript.Exec(context.Background(), req.Source, &out, opts...); err != nil {
		writeResponse(response{Output: out.String(), Error: err.Error()}, 1)
	}

	writeResponse(response{Output: out.String(), OK: true}, 0)
}
