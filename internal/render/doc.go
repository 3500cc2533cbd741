// Package render turns a laid out line into ANSI text. Styling goes through
// a lipgloss renderer pinned to one color profile, so identical input always
// yields identical bytes regardless of the terminal ccline runs under.
package render
