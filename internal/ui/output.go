// Package ui provides formatted terminal output for the gistlens CLI.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/starford/gistlens/internal/cards"
	"github.com/starford/gistlens/internal/previewservice"
)

const (
	RuleWidth = 60
)

var (
	Bold   = color.New(color.Bold).SprintFunc()
	Dim    = color.New(color.Faint).SprintFunc()
	Green  = color.New(color.FgGreen).SprintFunc()
	Cyan   = color.New(color.FgCyan).SprintFunc()
	Yellow = color.New(color.FgYellow).SprintFunc()
	Red    = color.New(color.FgRed).SprintFunc()

	// Out is where gist content goes; status lines go to Err.
	Out io.Writer = os.Stdout
	Err io.Writer = os.Stderr
)

// Gist prints the gist header followed by one card per file.
func Gist(v *previewservice.GistView) {
	fmt.Fprintf(Out, "%s\n", Bold(v.Title))
	if v.Description != "" && v.Description != v.Title {
		fmt.Fprintf(Out, "%s\n", v.Description)
	}
	fmt.Fprintf(Out, "%s %s  %s %s  %s\n",
		Dim("by"), Cyan(v.Owner),
		Dim("created"), v.CreatedLabel,
		Dim(plural(v.FileCount, "file")))
	for _, c := range v.Files {
		fmt.Fprintln(Out)
		Card(c)
	}
}

// Card prints a single file with a rule header.
func Card(c cards.Card) {
	label := fmt.Sprintf(" %s (%s, %s) ", c.Filename, c.Language, size(c.Size))
	pad := RuleWidth - len(label) - 2
	if pad < 2 {
		pad = 2
	}
	fmt.Fprintf(Out, "%s%s%s\n", Dim("──"), Bold(label), Dim(strings.Repeat("─", pad)))
	if c.Truncated {
		fmt.Fprintf(Out, "%s\n", Yellow("(truncated by the API, showing the embedded part)"))
	}
	fmt.Fprint(Out, c.Content)
	if !strings.HasSuffix(c.Content, "\n") {
		fmt.Fprintln(Out)
	}
}

// Info prints an informational message with a cyan arrow.
func Info(format string, args ...interface{}) {
	fmt.Fprintf(Err, "%s %s\n", Cyan("→"), fmt.Sprintf(format, args...))
}

// Success prints a success message with a green checkmark.
func Success(format string, args ...interface{}) {
	fmt.Fprintf(Err, "%s %s\n", Green("✔"), fmt.Sprintf(format, args...))
}

// Fail prints an error message with a red X.
func Fail(format string, args ...interface{}) {
	fmt.Fprintf(Err, "%s %s\n", Red("✘"), fmt.Sprintf(format, args...))
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

func size(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
