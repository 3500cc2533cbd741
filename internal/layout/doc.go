// Package layout assembles segments into a single line that fits a
// terminal-cell budget. Widths are measured in cells, never bytes; segments
// are dropped in reverse priority and the last one standing is truncated.
package layout
