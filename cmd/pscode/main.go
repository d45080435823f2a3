package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"pscode/interpreter-go/pkg/builtins"
	"pscode/interpreter-go/pkg/config"
	"pscode/interpreter-go/pkg/diag"
	"pscode/interpreter-go/pkg/interpreter"
	"pscode/interpreter-go/pkg/runtime"
)

const cliToolVersion = "pscode 0.1.0"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("pscode", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = printUsage
	configPath := fs.String("config", "", "path to a pscode.yml config file")
	showVersion := fs.Bool("version", false, "print the version and exit")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if *showVersion {
		fmt.Fprintln(os.Stdout, cliToolVersion)
		return 0
	}

	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "pscode: %v\n", err)
		return 1
	}
	cfg, err := config.Resolve(*configPath, cwd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		return 1
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	if cfg.Path != "" {
		logger.Debug("loaded config", "path", cfg.Path)
	}

	rest := fs.Args()
	if len(rest) == 0 {
		return runRepl(cfg, logger)
	}
	return runFile(rest[0], rest[1:], cfg, logger)
}

// newInterpreter builds an interpreter with the builtins installed and the
// program arguments bound to ARGS.
func newInterpreter(cfg *config.Config, logger *slog.Logger, stdin io.Reader, programArgs []string) (*interpreter.Interpreter, error) {
	interp := interpreter.New(
		interpreter.WithStdout(os.Stdout),
		interpreter.WithStdin(stdin),
		interpreter.WithLogger(logger),
	)
	if err := builtins.Install(interp, cfg.BuiltinOptions()); err != nil {
		return nil, err
	}
	items := make([]runtime.Value, len(programArgs))
	for i, arg := range programArgs {
		items[i] = runtime.StringValue{Val: arg}
	}
	interp.GlobalEnvironment().Define("ARGS", runtime.NewList(items))
	return interp, nil
}

func runFile(path string, programArgs []string, cfg *config.Config, logger *slog.Logger) int {
	source, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "pscode > ERROR: Can't open file %q, no such file found.\n", path)
			return 1
		}
		fmt.Fprintf(os.Stderr, "pscode > ERROR: Can't open file %q: %v\n", path, err)
		return 1
	}
	interp, err := newInterpreter(cfg, logger, os.Stdin, programArgs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pscode: %v\n", err)
		return 1
	}
	if _, err := interp.Execute(path, string(source)); err != nil {
		reportError(os.Stderr, err)
		return 1
	}
	return 0
}

func reportError(w io.Writer, err error) {
	var d *diag.Diagnostic
	if errors.As(err, &d) {
		fmt.Fprintln(w, d.Render())
		return
	}
	fmt.Fprintf(w, "pscode > ERROR: %v\n", err)
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  pscode [--config pscode.yml]                 start the interactive shell")
	fmt.Fprintln(os.Stderr, "  pscode [--config pscode.yml] <file.psc> [args...]  run a program")
	fmt.Fprintln(os.Stderr, "  pscode --version")
}
