package interpreter

import (
	"bufio"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"pscode/interpreter-go/pkg/ast"
	"pscode/interpreter-go/pkg/lexer"
	"pscode/interpreter-go/pkg/parser"
	"pscode/interpreter-go/pkg/runtime"
)

const programFrameName = "<program>"

// Interpreter holds the root environment shared by every Execute call.
// It is not safe for concurrent use.
type Interpreter struct {
	global *runtime.Environment
	stdout io.Writer
	stdin  *bufio.Reader
	logger *slog.Logger
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithStdout sets where PRINT writes.
func WithStdout(w io.Writer) Option {
	return func(i *Interpreter) { i.stdout = w }
}

// WithStdin sets where INPUT reads from.
func WithStdin(r io.Reader) Option {
	return func(i *Interpreter) { i.stdin = bufio.NewReader(r) }
}

// WithLogger enables debug logging of phases and call frames.
func WithLogger(logger *slog.Logger) Option {
	return func(i *Interpreter) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// New returns an interpreter with an empty root environment.
func New(opts ...Option) *Interpreter {
	i := &Interpreter{
		global: runtime.NewEnvironment(nil),
		stdout: os.Stdout,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(i)
	}
	if i.stdin == nil {
		i.stdin = bufio.NewReader(os.Stdin)
	}
	return i
}

// GlobalEnvironment returns the interpreter's root environment.
func (i *Interpreter) GlobalEnvironment() *runtime.Environment {
	return i.global
}

// RegisterNative installs a host function in the root environment. impl
// sees its arguments bound by parameter name in ctx.Env.
func (i *Interpreter) RegisterNative(name string, params []string, impl runtime.NativeFunc) {
	fn := runtime.NativeFunctionValue{NativeFunction: &runtime.NativeFunction{
		Name:   name,
		Params: append([]string(nil), params...),
		Impl:   impl,
	}}
	i.global.Define(name, fn)
}

// Execute lexes, parses and evaluates source. Bindings made at the top
// level persist for later calls. Whitespace-only input is a no-op.
func (i *Interpreter) Execute(name, source string) (runtime.Value, error) {
	if strings.TrimSpace(source) == "" {
		return runtime.NullValue{}, nil
	}
	started := time.Now()
	tokens, err := lexer.Lex(name, source)
	if err != nil {
		return nil, err
	}
	i.logger.Debug("lexed", "file", name, "tokens", len(tokens), "elapsed", time.Since(started))

	started = time.Now()
	program, err := parser.Parse(tokens)
	if err != nil {
		return nil, err
	}
	i.logger.Debug("parsed", "file", name, "statements", len(program.Body), "elapsed", time.Since(started))

	started = time.Now()
	result, err := i.EvaluateProgram(program)
	i.logger.Debug("evaluated", "file", name, "ok", err == nil, "elapsed", time.Since(started))
	return result, err
}

// EvaluateProgram runs a parsed program in the root environment and returns
// the value of its last statement. A top-level RETURN ends the program
// successfully with the returned value.
func (i *Interpreter) EvaluateProgram(program *ast.Block) (runtime.Value, error) {
	frame := runtime.NewFrame(programFrameName, nil, program.Span().Start, i.global)
	val, sig, err := i.evaluate(program, frame)
	if err != nil {
		return nil, err
	}
	switch sig.kind {
	case signalReturn:
		return sig.value, nil
	case signalBreak, signalContinue:
		return nil, i.misplacedSignal(sig, frame)
	}
	if val == nil {
		return runtime.NullValue{}, nil
	}
	return val, nil
}
