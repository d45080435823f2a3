// Package interpreter evaluates parsed pseudocode programs. Evaluation walks
// the AST directly against a lexical Environment chain while a separate
// Frame chain records the dynamic call path for tracebacks.
package interpreter
