package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"bracecheck/internal/balance"
	"bracecheck/internal/source"
)

var (
	cleanColor   = color.New(color.FgGreen, color.Bold)
	badColor     = color.New(color.FgRed, color.Bold)
	warnColor    = color.New(color.FgYellow)
	markerColor  = color.New(color.FgCyan, color.Bold)
	lineNumColor = color.New(color.Faint)
)

// Pretty renders a balance report in a human-readable form:
// the final balance, the first negative line, a table of negative-balance
// events, and (for a positive final balance) every reported unclosed opener
// with its context window, the opener line marked with '>'.
func Pretty(w io.Writer, fs *source.FileSet, fileID source.FileID, report balance.Report, opts PrettyOpts) {
	file := fs.Get(fileID)
	path := file.FormatPath(opts.PathMode.formatMode(), fs.BaseDir())

	balanceText := fmt.Sprintf("%+d", report.FinalBalance)
	if report.FinalBalance == 0 {
		balanceText = "0"
	}
	if report.Balanced() {
		fmt.Fprintf(w, "%s: final balance %s\n", path, paint(cleanColor, balanceText, opts.Color))
		return
	}
	fmt.Fprintf(w, "%s: final balance %s\n", path, paint(badColor, balanceText, opts.Color))

	if report.FirstNegativeLine != 0 {
		fmt.Fprintf(w, "first negative balance at line %s\n",
			paint(badColor, fmt.Sprintf("%d", report.FirstNegativeLine), opts.Color))
	}

	if len(report.NegativeEvents) > 0 {
		fmt.Fprintln(w, "negative balance lines (line, balance, snippet):")
		for _, ev := range report.NegativeEvents {
			fmt.Fprintf(w, "  %s\t%s\t%s\n",
				paint(lineNumColor, fmt.Sprintf("%d", ev.Line), opts.Color),
				paint(badColor, fmt.Sprintf("%d", ev.Balance), opts.Color),
				truncate(ev.Snippet, opts.Width))
		}
		if hidden := report.NegativeTotal - len(report.NegativeEvents); hidden > 0 {
			fmt.Fprintf(w, "  ... %d more not shown\n", hidden)
		}
	}

	if len(report.Unclosed) > 0 {
		fmt.Fprintln(w)
		header := fmt.Sprintf("unclosed openers likely started at lines (top %d of %d):",
			len(report.Unclosed), report.UnclosedTotal)
		fmt.Fprintln(w, paint(warnColor, header, opts.Color))
		for _, opener := range report.Unclosed {
			fmt.Fprintf(w, "--- around line %d ---\n", opener.Line)
			writeWindow(w, opener, opts)
		}
	}
}

// writeWindow печатает контекстное окно, помечая строку открывающей скобки.
func writeWindow(w io.Writer, opener balance.Opener, opts PrettyOpts) {
	num := opener.Context.Start
	for _, line := range opener.Context.Lines {
		prefix := " "
		if num == opener.Line {
			prefix = paint(markerColor, ">", opts.Color)
		}
		fmt.Fprintf(w, "%s %s: %s\n",
			prefix,
			paint(lineNumColor, fmt.Sprintf("%d", num), opts.Color),
			truncate(strings.TrimRight(line, " \t"), opts.Width))
		num++
	}
}

func paint(c *color.Color, s string, enabled bool) string {
	if !enabled {
		return s
	}
	return c.Sprint(s)
}

// truncate обрезает строку до заданной ширины с многоточием.
func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
