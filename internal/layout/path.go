package layout

import (
	"strings"

	"ccline/internal/theme"
)

// TruncatePath shortens path to at most width cells. It keeps as many
// trailing components as fit behind "…/"; when not even the final component
// fits, the tail of that component is kept behind "…".
func TruncatePath(path string, width int) string {
	if width <= 0 {
		return ""
	}
	if StringWidth(path) <= width {
		return path
	}

	parts := strings.FieldsFunc(path, isSep)
	prefix := theme.Ellipsis + "/"
	best := ""
	for i := len(parts) - 1; i >= 0; i-- {
		candidate := prefix + strings.Join(parts[i:], "/")
		if StringWidth(candidate) > width {
			break
		}
		best = candidate
	}
	if best != "" {
		return best
	}

	last := lastComponent(path)
	if StringWidth(theme.Ellipsis+last) <= width {
		return theme.Ellipsis + last
	}
	return theme.Ellipsis + tail(last, width-StringWidth(theme.Ellipsis))
}

func isSep(r rune) bool {
	return r == '/' || r == '\\'
}

// lastComponent returns the final element of path, ignoring trailing
// separators. A path made only of separators is returned as is.
func lastComponent(path string) string {
	trimmed := strings.TrimRightFunc(path, isSep)
	if trimmed == "" {
		return path
	}
	if i := strings.LastIndexFunc(trimmed, isSep); i >= 0 {
		return trimmed[i+1:]
	}
	return trimmed
}

// tail returns the longest suffix of s that fits in width cells, never
// splitting a rune.
func tail(s string, width int) string {
	if width <= 0 {
		return ""
	}
	runes := []rune(s)
	w := 0
	i := len(runes)
	for i > 0 {
		rw := cells.RuneWidth(runes[i-1])
		if w+rw > width {
			break
		}
		w += rw
		i--
	}
	return string(runes[i:])
}
