// Package diag renders a source line with a caret, the small sliver of
// presentation logic cmd/minicc needs to print a stage error the way
// a C compiler does, without pulling in a terminal/formatting library
// for something this narrow.
package diag

import "strings"

// Snippet returns src's line-th line (1-indexed) followed by a second
// line with a caret under its first non-blank character. Returns "" if
// line is out of range.
func Snippet(src string, line int) string {
	lines := strings.Split(src, "\n")
	if line < 1 || line > len(lines) {
		return ""
	}
	text := lines[line-1]
	caretPos := len(text) - len(strings.TrimLeft(text, " \t"))
	return text + "\n" + strings.Repeat(" ", caretPos) + "^"
}
