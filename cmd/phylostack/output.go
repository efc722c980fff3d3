package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/funvibe/phylostack/internal/evaluator"
	"github.com/funvibe/phylostack/pkg/phylostack"
)

const (
	ansiRed   = "\x1b[31m"
	ansiDim   = "\x1b[2m"
	ansiReset = "\x1b[0m"
)

func useColor(mode string, tty bool) (bool, error) {
	switch mode {
	case "always":
		return true, nil
	case "never":
		return false, nil
	case "auto", "":
		return tty, nil
	}
	return false, fmt.Errorf("color must be auto, always or never, got %q", mode)
}

// printDiagnostics lists every diagnostic in err the way the pipeline
// reports them: a header, then one entry per error.
func printDiagnostics(w io.Writer, err error, colored bool) {
	fmt.Fprintln(w, "Processing failed with errors:")
	var errs phylostack.Errors
	if !errors.As(err, &errs) {
		fmt.Fprintf(w, "- %s\n", paint(err.Error(), colored))
		return
	}
	for _, diag := range errs {
		fmt.Fprintf(w, "- %s\n", paint(diag.Error(), colored))
	}
}

// paint colors the message line red and the call trace below it dim.
func paint(msg string, colored bool) string {
	if !colored {
		return msg
	}
	head, trace, found := strings.Cut(msg, "\n")
	out := ansiRed + head + ansiReset
	if found {
		out += "\n" + ansiDim + trace + ansiReset
	}
	return out
}

// printOperations writes the operation table grouped by provider.
func printOperations(w io.Writer, r *evaluator.Registry) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	group := ""
	for _, op := range r.Operations() {
		if op.Group != group {
			if group != "" {
				fmt.Fprintln(tw)
			}
			group = op.Group
			fmt.Fprintf(tw, "%s:\n", group)
		}
		if op.Unsupported {
			fmt.Fprintf(tw, "  %s\t\tunsupported\n", op.Name)
			continue
		}
		fmt.Fprintf(tw, "  %s\t( %s )\t\n", op.Name, op.Effect)
	}
	tw.Flush()
}
