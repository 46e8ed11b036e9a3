package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

// Colors are disabled by fatih/color when stdout is not a terminal or NO_COLOR is set.
var (
	successColor = color.New(color.FgGreen, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	headerColor  = color.New(color.FgBlue, color.Bold)
	labelColor   = color.New(color.FgWhite, color.Bold)
	pathColor    = color.New(color.FgCyan)
	dimColor     = color.New(color.FgHiBlack)
	onColor      = color.New(color.FgGreen)
)

// stdout is resolved on every call so redirected output is honored.
func stdout() io.Writer {
	return os.Stdout
}

// PrintSection prints a section header surrounded by blank lines.
func PrintSection(title string) {
	fmt.Fprintf(stdout(), "\n%s\n\n", headerColor.Sprintf("▸ %s", title))
}

// PrintSuccess prints msg after a check mark.
func PrintSuccess(msg string) {
	fmt.Fprintln(stdout(), successColor.Sprintf("✓ %s", msg))
}

// PrintWarning prints msg after a warning sign.
func PrintWarning(msg string) {
	fmt.Fprintln(stdout(), warningColor.Sprintf("⚠ %s", msg))
}

// PrintError prints msg to stderr.
func PrintError(msg string) {
	fmt.Fprintln(os.Stderr, errorColor.Sprintf("✗ %s", msg))
}

// PrintLabelValue prints an indented "label: value" line.
func PrintLabelValue(label, value string) {
	fmt.Fprintf(stdout(), "  %s %s\n", labelColor.Sprintf("%s:", label), dimColor.Sprint(value))
}

// PrintToggle prints a boolean setting as on or off.
func PrintToggle(label string, on bool) {
	value := dimColor.Sprint("off")
	if on {
		value = onColor.Sprint("on")
	}
	fmt.Fprintf(stdout(), "  %s %s\n", labelColor.Sprintf("%s:", label), value)
}

// PrintFolders prints paths as a numbered list, or empty when there are none.
func PrintFolders(paths []string, empty string) {
	if len(paths) == 0 {
		PrintEmptyState(empty)
		return
	}
	for i, p := range paths {
		fmt.Fprintf(stdout(), "  %d. %s\n", i+1, pathColor.Sprint(p))
	}
}

// PrintList prints items as a bulleted list.
func PrintList(items []string, indent int) {
	prefix := strings.Repeat("  ", indent)
	for _, item := range items {
		fmt.Fprintf(stdout(), "%s• %s\n", prefix, pathColor.Sprint(item))
	}
}

// PrintTable prints rows under headers with left-aligned columns.
func PrintTable(headers []string, rows [][]string) {
	if len(headers) == 0 || len(rows) == 0 {
		return
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	line := func(cells []string, clr *color.Color) {
		var b strings.Builder
		b.WriteString("  ")
		for i := range widths {
			if i > 0 {
				b.WriteString("  ")
			}
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			b.WriteString(clr.Sprintf("%-*s", widths[i], cell))
		}
		fmt.Fprintln(stdout(), strings.TrimRight(b.String(), " "))
	}

	line(headers, headerColor)
	rule := make([]string, len(widths))
	for i, w := range widths {
		rule[i] = strings.Repeat("-", w)
	}
	line(rule, dimColor)
	for _, row := range rows {
		line(row, dimColor)
	}
}

// PrintEmptyState prints a dimmed placeholder line.
func PrintEmptyState(msg string) {
	fmt.Fprintf(stdout(), "  %s\n", dimColor.Sprint(msg))
}

// countNoun renders count with the singular or plural noun.
func countNoun(count int, singular, plural string) string {
	if count == 1 {
		return fmt.Sprintf("%d %s", count, singular)
	}
	return fmt.Sprintf("%d %s", count, plural)
}
