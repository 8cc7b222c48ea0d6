//go:build js && wasm

// Command itmoscript-js is the WebAssembly entrypoint for browser and Node.js.
//
// It exposes a global `itmoscript` object with the following API:
//
//	itmoscript.version()          → string
//	itmoscript.run(source)        → { output, ok, error }
//	itmoscript.compile(source)    → { run() → { output, ok, error } }  (throws on parse error)
//
// Build:
//
//	GOOS=js GOARCH=wasm go build -o itmoscript.wasm ./cmd/wasm/js/
//
// Usage in the browser:
//
//	<script src="wasm_exec.js"></script>
//	<script type="module">
//	  const go = new Go()
//	  const { instance } = await WebAssembly.instantiateStreaming(fetch('itmoscript.wasm'), go.importObject)
//	  go.run(instance)
//	  console.log(itmoscript.run('println("hi")').output) // hi
//	</script>
package main

import (
	"context"
	"fmt"
	"strings"
	"syscall/js"

	"github.com/itmoscript/itmoscript"
	"github.com/itmoscript/itmoscript/pkg/evaluator"
	"github.com/itmoscript/itmoscript/pkg/ext"
)

// jsThrow panics with a JS Error so the caller receives a thrown exception.
func jsThrow(msg string) {
	panic(js.Global().Get("Error").New(msg))
}

func result(output string, err error) interface{} {
	r := map[string]interface{}{
		"output": output,
		"ok":     err == nil,
	}
	if err != nil {
		r["error"] = err.Error()
	}
	return js.ValueOf(r)
}

// jsRun implements itmoscript.run(source).
func jsRun(_ js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		jsThrow("itmoscript.run requires 1 argument: source (string)")
	}
	var out strings.Builder
	err := itmoscript.Exec(context.Background(), args[0].String(), &out, ext.WithAll())
	return result(out.String(), err)
}

// jsCompile implements itmoscript.compile(source) → { run() }.
func jsCompile(_ js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		jsThrow("itmoscript.compile requires 1 argument: source (string)")
	}

	prog, err := itmoscript.Compile(args[0].String())
	if err != nil {
		jsThrow(fmt.Sprintf("itmoscript.compile: %v", err))
	}

	runFn := js.FuncOf(func(_ js.Value, _ []js.Value) interface{} {
		var out strings.Builder
		err := evaluator.New(ext.WithAll()).Run(context.Background(), prog, &out)
		return result(out.String(), err)
	})

	return js.ValueOf(map[string]interface{}{"run": runFn})
}

func main() {
	api := map[string]interface{}{
		"run":     js.FuncOf(jsRun),
		"compile": js.FuncOf(jsCompile),
		"version": js.FuncOf(func(_ js.Value, _ []js.Value) interface{} {
			return itmoscript.Version()
		}),
	}
	js.Global().Set("itmoscript", js.ValueOf(api))

	// The JS event loop owns execution from here.
	select {}
}
