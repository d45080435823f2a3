package runtime

import (
	"fmt"
	"sort"
)

// UndefinedError reports a read of a name with no binding in any enclosing
// scope.
type UndefinedError struct {
	Name string
}

func (e *UndefinedError) Error() string {
	return fmt.Sprintf("'%s' is not defined.", e.Name)
}

// Environment is one scope of variable bindings. Function calls get a fresh
// child of the scope the function was defined in; blocks do not open scopes.
type Environment struct {
	values map[string]Value
	parent *Environment
}

// NewEnvironment creates an environment nested under parent, which may be
// nil for the global scope.
func NewEnvironment(parent *Environment) *Environment {
	return &Environment{
		values: make(map[string]Value),
		parent: parent,
	}
}

// Extend creates a child scope of e.
func (e *Environment) Extend() *Environment {
	return NewEnvironment(e)
}

// Define binds name in e itself, shadowing any outer binding. Assignment in
// the language always goes through Define.
func (e *Environment) Define(name string, value Value) {
	e.values[name] = value
}

// Get looks name up in e and then each enclosing scope. A miss returns an
// *UndefinedError.
func (e *Environment) Get(name string) (Value, error) {
	for scope := e; scope != nil; scope = scope.parent {
		if v, ok := scope.values[name]; ok {
			return v, nil
		}
	}
	return nil, &UndefinedError{Name: name}
}

// Snapshot returns a copy of the bindings held directly by e.
func (e *Environment) Snapshot() map[string]Value {
	out := make(map[string]Value, len(e.values))
	for k, v := range e.values {
		out[k] = v
	}
	return out
}

// Keys returns the names bound directly in e, sorted.
func (e *Environment) Keys() []string {
	keys := make([]string, 0, len(e.values))
	for k := range e.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
