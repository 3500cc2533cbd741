package layout

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"ccline/internal/segment"
	"ccline/internal/theme"
)

// cells measures with ambiguous-width runes as narrow, which is how
// terminals draw the powerline and Nerd Font private-use glyphs.
var cells = &runewidth.Condition{EastAsianWidth: false}

// StringWidth returns the number of terminal cells s occupies. s must not
// contain escape sequences.
func StringWidth(s string) int {
	return cells.StringWidth(s)
}

// Cell is a segment placed on the line.
type Cell struct {
	segment.Segment
	// Padded cells carry one space on each side.
	Padded bool
	Width  int
}

// Content is the unstyled text of the cell, padding included.
func (c Cell) Content() string {
	s := c.Text
	if c.Icon != "" {
		s = c.Icon + " " + s
	}
	if c.Padded {
		s = " " + s + " "
	}
	return s
}

func newCell(seg segment.Segment) Cell {
	c := Cell{Segment: seg, Padded: true}
	c.Width = StringWidth(c.Content())
	return c
}

// RenderLine is the laid out statusline. Width never exceeds Budget when
// Budget is positive.
type RenderLine struct {
	Cells     []Cell
	Separator string
	SepStyle  theme.Style
	Powerline bool
	Width     int
	Budget    int
}

// Empty reports whether nothing is left to draw.
func (l RenderLine) Empty() bool {
	return len(l.Cells) == 0
}

// Plain joins cell contents and separators without styling.
func (l RenderLine) Plain() string {
	var b strings.Builder
	for i, c := range l.Cells {
		if i > 0 {
			b.WriteString(l.Separator)
		}
		b.WriteString(c.Content())
	}
	return b.String()
}

// Segments returns the segments left on the line, in order.
func (l RenderLine) Segments() []*segment.Segment {
	out := make([]*segment.Segment, len(l.Cells))
	for i := range l.Cells {
		seg := l.Cells[i].Segment
		out[i] = &seg
	}
	return out
}

// Layout filters absent (nil) segments, keeps provider order and fits the
// rest into budget cells. A budget of zero or less means unlimited.
func Layout(segs []*segment.Segment, th *theme.Theme, budget int) RenderLine {
	line := RenderLine{
		Separator: th.SeparatorGlyph(),
		SepStyle:  th.SepStyle,
		Powerline: th.Powerline(),
		Budget:    budget,
	}
	sepWidth := StringWidth(line.Separator)

	for _, seg := range segs {
		if seg != nil {
			line.Cells = append(line.Cells, newCell(*seg))
		}
	}
	if budget <= 0 {
		line.Width = total(line.Cells, sepWidth)
		return line
	}

	for len(line.Cells) > 1 && total(line.Cells, sepWidth) > budget {
		i := victim(line.Cells)
		line.Cells = append(line.Cells[:i], line.Cells[i+1:]...)
	}
	if len(line.Cells) == 1 && line.Cells[0].Width > budget {
		line.Cells[0] = fit(line.Cells[0], budget)
	}
	line.Width = total(line.Cells, sepWidth)
	return line
}

func total(cs []Cell, sepWidth int) int {
	if len(cs) == 0 {
		return 0
	}
	w := sepWidth * (len(cs) - 1)
	for _, c := range cs {
		w += c.Width
	}
	return w
}

// victim picks the lowest priority cell, the rightmost one on ties. Path is
// only chosen when nothing else is left, which callers never allow.
func victim(cs []Cell) int {
	best := -1
	for i, c := range cs {
		if c.Kind == segment.KindPath {
			continue
		}
		if best < 0 || c.Kind.Priority() >= cs[best].Kind.Priority() {
			best = i
		}
	}
	if best < 0 {
		return len(cs) - 1
	}
	return best
}

// fit shrinks a single cell into width cells. Text is truncated first; the
// icon and then the padding go when even the shortest useful text would not
// fit with them.
func fit(c Cell, width int) Cell {
	need := minText(c.Segment)
	for _, trim := range []func(*Cell){keep, dropIcon, dropPadding} {
		trim(&c)
		overhead := StringWidth(c.Content()) - StringWidth(c.Text)
		avail := width - overhead
		if avail >= need || (!c.Padded && c.Icon == "") {
			c.Text = truncate(c.Segment, avail)
			c.Width = StringWidth(c.Content())
			return c
		}
	}
	return c
}

func keep(*Cell)          {}
func dropIcon(c *Cell)    { c.Icon = "" }
func dropPadding(c *Cell) { c.Icon, c.Padded = "", false }

// minText is the narrowest text worth showing with decorations: the final
// path component behind an ellipsis, or one rune and an ellipsis.
func minText(seg segment.Segment) int {
	w := StringWidth(seg.Text)
	if seg.Kind == segment.KindPath {
		if m := StringWidth(theme.Ellipsis + "/" + lastComponent(seg.Text)); m < w {
			return m
		}
		return w
	}
	if w < 2 {
		return w
	}
	return 2
}

func truncate(seg segment.Segment, width int) string {
	if seg.Kind == segment.KindPath {
		return TruncatePath(seg.Text, width)
	}
	if StringWidth(seg.Text) <= width {
		return seg.Text
	}
	return cells.Truncate(seg.Text, width, theme.Ellipsis)
}
