package types

import "fmt"

// Environment is a scope of variable bindings linked to its parent.
//
// A call frame (IsFunction) is created for every function invocation; block
// frames are created for loop bodies. The global environment has no parent.
type Environment struct {
	vars       map[string]Value
	parent     *Environment
	isFunction bool
}

// NewEnvironment creates a scope enclosed by parent (nil for the global scope).
func NewEnvironment(parent *Environment, isFunction bool) *Environment {
	return &Environment{
		vars:       make(map[string]Value),
		parent:     parent,
		isFunction: isFunction,
	}
}

// Parent returns the enclosing scope, or nil.
func (e *Environment) Parent() *Environment { return e.parent }

// IsFunction reports whether the scope is a call frame.
func (e *Environment) IsFunction() bool { return e.isFunction }

// Lookup searches the scope chain for name.
func (e *Environment) Lookup(name string) (Value, bool) {
	for env := e; env != nil; env = env.parent {
		if v, ok := env.vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Get returns the value bound to name or an undefined-variable error.
func (e *Environment) Get(name string) (Value, error) {
	if v, ok := e.Lookup(name); ok {
		return v, nil
	}
	return nil, Errorf(ErrUndefinedVariable, "Undefined variable: %s", name)
}

// Define binds name in this scope, shadowing any outer binding.
func (e *Environment) Define(name string, v Value) {
	e.vars[name] = v
}

// Assign updates an existing binding or creates one.
//
// A local binding is overwritten. A call frame searches its ancestors and
// overwrites the first match, giving up after the first ancestor that is not
// itself a call frame; when nothing matches the binding is created in the
// call frame. Any other scope delegates to its parent, and the outermost
// scope creates the binding.
func (e *Environment) Assign(name string, v Value) {
	if _, ok := e.vars[name]; ok {
		e.vars[name] = v
		return
	}
	if e.isFunction {
		for p := e.parent; p != nil; p = p.parent {
			if _, ok := p.vars[name]; ok {
				p.vars[name] = v
				return
			}
			if !p.isFunction {
				break
			}
		}
		e.vars[name] = v
		return
	}
	if e.parent != nil {
		e.parent.Assign(name, v)
		return
	}
	e.vars[name] = v
}

// Has reports whether name is bound locally.
func (e *Environment) Has(name string) bool {
	_, ok := e.vars[name]
	return ok
}

// Names returns the locally bound names in no particular order.
func (e *Environment) Names() []string {
	names := make([]string, 0, len(e.vars))
	for k := range e.vars {
		names = append(names, k)
	}
	return names
}

// String returns a short description used in debug logs.
func (e *Environment) String() string {
	depth := 0
	for p := e.parent; p != nil; p = p.parent {
		depth++
	}
	return fmt.Sprintf("env(depth=%d, vars=%d, call=%v)", depth, len(e.vars), e.isFunction)
}
