package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/funvibe/phylostack/internal/config"
	"github.com/funvibe/phylostack/internal/diagnostics"
	"github.com/funvibe/phylostack/internal/evaluator"
	"github.com/funvibe/phylostack/internal/export"
	"github.com/funvibe/phylostack/internal/lexer"
	"github.com/funvibe/phylostack/internal/parser"
	"github.com/funvibe/phylostack/internal/pipeline"
	"github.com/funvibe/phylostack/pkg/phylostack"
)

const (
	promptMain = "phylo> "
	promptCont = "  ...> "
	banner     = "phylostack REPL. Ctrl+C cancels input, Ctrl+D exits. Type :help for commands."
	helpText   = `REPL commands:
  :help            Show this help
  :stack           Print the operand stack
  :vars            List bound variables
  :ops             List built-in operations
  :load <file>     Run a file in the current session
  :export [fmt]    Print the model graph as json or yaml
  :reset           Clear the stack and every binding
  :quit / :exit    Leave the REPL
`
)

func runREPL(session *phylostack.Session, settings *config.Settings, colored bool, st streams) int {
	fmt.Fprintln(st.out, banner)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := historyPath(settings.History)
	if histPath != "" {
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
	}

	registry := session.Interpreter().Registry()
	for {
		src, ok := readByParseProbe(ln, registry)
		if !ok {
			fmt.Fprintln(st.out)
			break
		}
		line := strings.TrimSpace(src)
		if line == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))

		if strings.HasPrefix(line, ":") {
			if handleCommand(session, line, settings, st.out) {
				break
			}
			continue
		}
		if err := session.Eval(src); err != nil {
			printDiagnostics(st.out, err, colored)
			continue
		}
		fmt.Fprintln(st.out, session.Stack())
	}

	if histPath != "" {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}
	return 0
}

// historyPath expands a leading ~ in the configured history file.
func historyPath(path string) string {
	if rest, ok := strings.CutPrefix(path, "~/"); ok {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		return filepath.Join(home, rest)
	}
	return path
}

// readByParseProbe reads lines until the parser accepts the buffer or
// reports an error that more input cannot fix.
func readByParseProbe(ln *liner.State, ops parser.OperationTable) (string, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			// Ctrl+C drops the pending input
			return "", true
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") || !needsMore(src, ops) {
			return src, true
		}
	}
}

// needsMore reports whether src only fails because a function, array or
// stack-effect comment is still open at the end of the input.
func needsMore(src string, ops parser.OperationTable) bool {
	ctx := pipeline.New(
		&lexer.LexerProcessor{},
		&parser.ParserProcessor{Operations: ops},
	).Run(pipeline.NewPipelineContext(src))
	if len(ctx.Errors) == 0 {
		return false
	}
	for _, err := range ctx.Errors {
		switch {
		case err.Code == diagnostics.ErrP004, err.Code == diagnostics.ErrP005:
		case err.Code == diagnostics.ErrP003 && strings.HasSuffix(err.Message, "missing ']'"):
		default:
			return false
		}
	}
	return true
}

// handleCommand runs a ':' command and reports whether the REPL should exit.
func handleCommand(session *phylostack.Session, line string, settings *config.Settings, w io.Writer) (exit bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}

	switch strings.ToLower(fields[0]) {
	case ":help":
		fmt.Fprint(w, helpText)

	case ":quit", ":exit":
		return true

	case ":stack":
		fmt.Fprintln(w, session.Stack())

	case ":vars":
		vars := session.Env().Variables()
		if len(vars) == 0 {
			fmt.Fprintln(w, "no variables")
		}
		for _, v := range vars {
			fmt.Fprintln(w, describeVariable(v))
		}

	case ":ops":
		printOperations(w, session.Interpreter().Registry())

	case ":reset":
		session.Reset()
		fmt.Fprintln(w, "session reset.")

	case ":load":
		if len(fields) < 2 {
			fmt.Fprintln(w, "usage: :load <file>")
			return false
		}
		if err := session.EvalFile(fields[1]); err != nil {
			printDiagnostics(w, err, false)
			return false
		}
		fmt.Fprintln(w, session.Stack())

	case ":export":
		format := settings.Format
		if len(fields) > 1 {
			format = fields[1]
		}
		doc := export.Build(session.Env(), export.Options{Functions: true})
		if err := export.EncodeIndent(w, doc, format, settings.Indent); err != nil {
			fmt.Fprintf(w, "Error: %s\n", err)
		}

	default:
		fmt.Fprintln(w, "unknown command. Type :help for help.")
	}
	return false
}

func describeVariable(v *evaluator.Variable) string {
	kind := "="
	if v.IsStochastic() {
		kind = "~"
	}
	out := fmt.Sprintf("%s %s %s", v.Name(), kind, v.Value().Inspect())
	if data, ok := v.Observed(); ok {
		out += " observed " + data.Inspect()
	}
	return out
}
