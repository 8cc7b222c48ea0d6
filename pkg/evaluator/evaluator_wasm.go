//go:build (js && wasm) || wasip1

package evaluator

// init lowers the default call depth for WebAssembly builds.
//
// Each script call nests several Go frames, and the wasm runtimes cap linear
// memory far below a native stack. Deep recursion should fail with a stack
// overflow error rather than abort the module.
func init() {
	defaultMaxDepth = 2000
}
