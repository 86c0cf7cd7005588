// Package ui renders CLI summary output.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// FileSummary is one row of the tokenize summary.
type FileSummary struct {
	Path     string
	Tokens   int
	HasError bool
}

// RenderTokenizeSummary formats the per-file results of a directory
// tokenize run.
func RenderTokenizeSummary(title string, files []FileSummary) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(title))
	b.WriteByte('\n')

	pathWidth := 0
	for _, f := range files {
		if w := runewidth.StringWidth(f.Path); w > pathWidth {
			pathWidth = w
		}
	}

	failed := 0
	for _, f := range files {
		status := okStyle.Render("ok")
		if f.HasError {
			status = errStyle.Render("error")
			failed++
		}
		pad := pathWidth - runewidth.StringWidth(f.Path)
		fmt.Fprintf(&b, "  %s%s  %s  %s\n",
			f.Path,
			strings.Repeat(" ", pad),
			dimStyle.Render(fmt.Sprintf("%6d tokens", f.Tokens)),
			status,
		)
	}

	if failed == 0 {
		fmt.Fprintf(&b, "%s\n", okStyle.Render(fmt.Sprintf("%d file(s), all clean", len(files))))
	} else {
		fmt.Fprintf(&b, "%s\n", errStyle.Render(fmt.Sprintf("%d of %d file(s) with errors", failed, len(files))))
	}
	return b.String()
}
