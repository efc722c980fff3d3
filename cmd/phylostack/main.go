package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/funvibe/phylostack/internal/config"
	"github.com/funvibe/phylostack/internal/evaluator"
	"github.com/funvibe/phylostack/internal/export"
	"github.com/funvibe/phylostack/pkg/phylostack"
)

const appName = "phylostack"

// streams are the process handles run works against.
type streams struct {
	in  *os.File
	out io.Writer
	err io.Writer
	// errTTY reports whether err is a terminal.
	errTTY bool
}

// isSourceFile checks if a file has a recognized source extension
func isSourceFile(path string) bool {
	for _, ext := range config.SourceFileExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

func main() {
	defer func() {
		if r := recover(); r != nil {
			if os.Getenv("DEBUG") == "1" {
				panic(r)
			}
			fmt.Fprintf(os.Stderr, "Internal error: %v\n", r)
			fmt.Fprintln(os.Stderr, "This is a bug. Please report it.")
			os.Exit(1)
		}
	}()

	fd := os.Stderr.Fd()
	os.Exit(run(os.Args[1:], streams{
		in:     os.Stdin,
		out:    os.Stdout,
		err:    os.Stderr,
		errTTY: isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd),
	}))
}

func run(args []string, st streams) int {
	fs := flag.NewFlagSet(appName, flag.ContinueOnError)
	fs.SetOutput(st.err)
	fs.Usage = func() {
		fmt.Fprintf(st.err, "Usage: %s [flags] [file%s]\n", appName, config.SourceFileExt)
		fmt.Fprintln(st.err, "With no file and a terminal on stdin, starts the REPL.")
		fs.PrintDefaults()
	}
	configPath := fs.String("config", "", "settings file (default ./"+config.SettingsFileName+" if present)")
	exportFormat := fs.String("format", "", "export format: json or yaml")
	indent := fs.Int("indent", 0, "export indentation")
	color := fs.String("color", "", "color diagnostics: auto, always or never")
	trace := fs.Bool("trace", false, "log every executed operation to stderr")
	functions := fs.Bool("functions", false, "include user-defined functions in the export")
	listOps := fs.Bool("ops", false, "list the built-in operations and exit")
	formatSource := fs.Bool("fmt", false, "print the program in canonical layout instead of running it")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	settings, err := loadSettings(*configPath)
	if err != nil {
		fmt.Fprintf(st.err, "Error: %s\n", err)
		return 1
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "format":
			settings.Format = *exportFormat
		case "indent":
			settings.Indent = *indent
		case "color":
			settings.Color = *color
		case "trace":
			settings.Trace = *trace
		}
	})
	colored, err := useColor(settings.Color, st.errTTY)
	if err != nil {
		fmt.Fprintf(st.err, "Error: %s\n", err)
		return 1
	}

	if *listOps {
		printOperations(st.out, evaluator.NewRegistry())
		return 0
	}

	opts := []phylostack.Option{phylostack.WithMaxCallDepth(settings.CallDepth())}
	if settings.Trace {
		opts = append(opts, phylostack.WithTrace(log.New(st.err, "trace: ", 0)))
	}
	session := phylostack.NewSession(opts...)

	rest := fs.Args()
	if len(rest) == 0 {
		if stat, err := st.in.Stat(); err == nil && stat.Mode()&os.ModeCharDevice != 0 {
			return runREPL(session, settings, colored, st)
		}
		src, err := io.ReadAll(st.in)
		if err != nil {
			fmt.Fprintf(st.err, "Error reading input: %s\n", err)
			return 1
		}
		if *formatSource {
			return printFormatted(string(src), colored, st)
		}
		err = session.Eval(string(src))
		return report(session, err, settings, *functions, colored, st)
	}

	path, err := resolveEntry(rest[0])
	if err != nil {
		fmt.Fprintf(st.err, "Error: %s\n", err)
		return 1
	}
	if !isSourceFile(path) {
		fmt.Fprintf(st.err, "Warning: %s does not have a %s extension\n", path, config.SourceFileExt)
	}
	if *formatSource {
		src, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(st.err, "Error reading input: %s\n", err)
			return 1
		}
		return printFormatted(string(src), colored, st)
	}
	err = session.EvalFile(path)
	return report(session, err, settings, *functions, colored, st)
}

func loadSettings(path string) (*config.Settings, error) {
	if path == "" {
		return config.LoadSettings(config.SettingsFileName, true)
	}
	return config.LoadSettings(path, false)
}

// resolveEntry maps a directory argument to its entry file <dir>/<dir>.phylo.
func resolveEntry(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("cannot read %s: %w", path, err)
	}
	if !info.IsDir() {
		return path, nil
	}
	base := filepath.Base(path)
	for _, ext := range config.SourceFileExtensions {
		candidate := filepath.Join(path, base+ext)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("entry file not found for directory: %s", path)
}

// report prints the exported model, or the diagnostics when the run failed.
func report(session *phylostack.Session, err error, settings *config.Settings, functions, colored bool, st streams) int {
	if err != nil {
		printDiagnostics(st.err, err, colored)
		return 1
	}
	doc := export.Build(session.Env(), export.Options{Functions: functions})
	if err := export.EncodeIndent(st.out, doc, settings.Format, settings.Indent); err != nil {
		fmt.Fprintf(st.err, "Error: %s\n", err)
		return 1
	}
	return 0
}

func printFormatted(src string, colored bool, st streams) int {
	out, err := phylostack.Format(src)
	if err != nil {
		printDiagnostics(st.err, err, colored)
		return 1
	}
	fmt.Fprint(st.out, out)
	return 0
}
