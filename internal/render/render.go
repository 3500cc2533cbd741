package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"ccline/internal/layout"
	"ccline/internal/theme"
)

// InternalRenderError reports a failure while serializing a line. Callers
// fall back to the plain path line.
type InternalRenderError struct {
	Err error
}

func (e *InternalRenderError) Error() string {
	return fmt.Sprintf("render statusline: %v", e.Err)
}

func (e *InternalRenderError) Unwrap() error {
	return e.Err
}

// Renderer styles RenderLines for one color profile.
type Renderer struct {
	lg      *lipgloss.Renderer
	profile termenv.Profile
}

// New returns a Renderer bound to profile.
func New(profile termenv.Profile) *Renderer {
	lg := lipgloss.NewRenderer(io.Discard, termenv.WithProfile(profile))
	lg.SetColorProfile(profile)
	return &Renderer{lg: lg, profile: profile}
}

// Profile returns the color profile output is encoded for.
func (r *Renderer) Profile() termenv.Profile {
	return r.profile
}

// Render returns the styled line without a trailing newline.
func (r *Renderer) Render(line layout.RenderLine) (out string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			out, err = "", &InternalRenderError{Err: fmt.Errorf("panic: %v", rec)}
		}
	}()

	var b strings.Builder
	for i, c := range line.Cells {
		if i > 0 {
			b.WriteString(r.separator(line, line.Cells[i-1], c))
		}
		b.WriteString(r.style(c.Style).Render(c.Content()))
	}
	return b.String(), nil
}

// separator colors the glyph between prev and next. Powerline arrows take
// the previous background as foreground and the next background as their
// own, so the blocks appear to flow into each other.
func (r *Renderer) separator(line layout.RenderLine, prev, next layout.Cell) string {
	if !line.Powerline {
		return r.style(line.SepStyle).Render(line.Separator)
	}
	s := r.lg.NewStyle()
	if prev.Style.Bg != "" {
		s = s.Foreground(lipgloss.Color(prev.Style.Bg))
	}
	if next.Style.Bg != "" {
		s = s.Background(lipgloss.Color(next.Style.Bg))
	}
	return s.Render(line.Separator)
}

func (r *Renderer) style(st theme.Style) lipgloss.Style {
	s := r.lg.NewStyle()
	if st.Fg != "" {
		s = s.Foreground(lipgloss.Color(st.Fg))
	}
	if st.Bg != "" {
		s = s.Background(lipgloss.Color(st.Bg))
	}
	if st.Bold {
		s = s.Bold(true)
	}
	return s
}

// Write renders line and writes it as exactly one newline-terminated line.
// Nothing is written when rendering fails.
func (r *Renderer) Write(w io.Writer, line layout.RenderLine) error {
	s, err := r.Render(line)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, s+"\n")
	return err
}

// Fallback writes the unstyled path line used when anything upstream failed.
func Fallback(w io.Writer, path string) error {
	_, err := io.WriteString(w, path+"\n")
	return err
}
