package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/peterh/liner"

	"pscode/interpreter-go/pkg/config"
	"pscode/interpreter-go/pkg/interpreter"
	"pscode/interpreter-go/pkg/lexer"
	"pscode/interpreter-go/pkg/parser"
	"pscode/interpreter-go/pkg/runtime"
)

const replFileName = "<repl>"

// lineSource is the part of *liner.State the shell reads through.
type lineSource interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

func runRepl(cfg *config.Config, logger *slog.Logger) int {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if cfg.HistoryFile != "" {
		if f, err := os.Open(cfg.HistoryFile); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			if f, err := os.Create(cfg.HistoryFile); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			} else {
				logger.Warn("history not saved", "path", cfg.HistoryFile, "err", err)
			}
		}()
	}

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGTERM)
	defer signal.Stop(sigc)
	go func() {
		if _, ok := <-sigc; ok {
			ln.Close()
			os.Exit(143)
		}
	}()

	interp, err := newInterpreter(cfg, logger, &promptReader{src: ln}, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pscode: %v\n", err)
		return 1
	}
	fmt.Fprintf(os.Stdout, "PSCode %s\nType :quit to exit.\n\n", strings.TrimPrefix(cliToolVersion, "pscode "))
	return repl(ln, interp, cfg.Prompt, cfg.ContinuationPrompt, os.Stdout, os.Stderr)
}

// repl runs statements against a single interpreter until the input ends,
// so definitions persist between entries. Non-null results are echoed.
func repl(src lineSource, interp *interpreter.Interpreter, prompt, cont string, stdout, stderr io.Writer) int {
	for {
		code, ok := readByParseProbe(src, prompt, cont)
		if !ok {
			fmt.Fprintln(stdout)
			return 0
		}
		trimmed := strings.TrimSpace(code)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, ":") {
			switch strings.ToLower(trimmed) {
			case ":quit", ":exit":
				return 0
			case ":vars":
				printBindings(stdout, interp)
			default:
				fmt.Fprintln(stderr, "unknown command. Commands are :vars and :quit.")
			}
			continue
		}

		src.AppendHistory(strings.ReplaceAll(code, "\n", " "))
		val, err := interp.Execute(replFileName, code)
		if err != nil {
			reportError(stderr, err)
			continue
		}
		if _, isNull := val.(runtime.NullValue); !isNull && val != nil {
			fmt.Fprintln(stdout, runtime.Format(val))
		}
	}
}

// printBindings lists the user-defined top-level bindings.
func printBindings(w io.Writer, interp *interpreter.Interpreter) {
	env := interp.GlobalEnvironment()
	values := env.Snapshot()
	for _, name := range env.Keys() {
		if values[name].Kind() == runtime.KindNativeFunction {
			continue
		}
		fmt.Fprintf(w, "%s = %s\n", name, runtime.Format(values[name]))
	}
}

// readByParseProbe keeps reading continuation lines while the accumulated
// text fails only because it ended early. A blank continuation line submits
// what has been typed so the error is shown.
func readByParseProbe(src lineSource, prompt, cont string) (string, bool) {
	var b strings.Builder
	for {
		var line string
		var err error
		if b.Len() == 0 {
			line, err = src.Prompt(prompt)
		} else {
			line, err = src.Prompt(cont)
		}
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			return "", true
		}

		if b.Len() > 0 {
			if strings.TrimSpace(line) == "" {
				return b.String(), true
			}
			b.WriteByte('\n')
		}
		b.WriteString(line)

		text := b.String()
		if strings.TrimSpace(text) != "" && needsMore(text) {
			continue
		}
		return text, true
	}
}

func needsMore(text string) bool {
	tokens, err := lexer.Lex(replFileName, text)
	if err == nil {
		_, err = parser.Parse(tokens)
	}
	return err != nil && parser.Incomplete(err)
}

// promptReader feeds INPUT from the line editor so the shell and the
// program share one terminal reader.
type promptReader struct {
	src lineSource
	buf []byte
}

func (r *promptReader) Read(p []byte) (int, error) {
	if len(r.buf) == 0 {
		line, err := r.src.Prompt("")
		if err != nil {
			return 0, io.EOF
		}
		r.buf = []byte(line + "\n")
	}
	n := copy(p, r.buf)
	r.buf = r.buf[n:]
	return n, nil
}
