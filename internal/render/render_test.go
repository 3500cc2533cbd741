package render

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ccline/internal/layout"
	"ccline/internal/segment"
	"ccline/internal/theme"
)

func testLine(th *theme.Theme, budget int) layout.RenderLine {
	segs := []*segment.Segment{
		{Kind: segment.KindPath, Name: "path", Icon: th.Icons.Path, Text: "~/proj", Style: th.Style("path")},
		{Kind: segment.KindGit, Name: "git", Icon: th.Icons.Git, Text: "main ✓", Style: th.Style("git")},
		{Kind: segment.KindModel, Name: "model", Icon: th.Icons.Model, Text: "Opus 4.1", Style: th.Style("model")},
	}
	return layout.Layout(segs, th, budget)
}

func TestRenderNoColorIsPlain(t *testing.T) {
	th := theme.Resolve(theme.Default(), theme.Options{NerdFont: true})
	line := testLine(th, 80)

	got, err := New(termenv.Ascii).Render(line)
	require.NoError(t, err)
	assert.Equal(t, line.Plain(), got)
	assert.NotContains(t, got, "\x1b[")
}

func TestRenderDeterministic(t *testing.T) {
	for _, name := range theme.Names() {
		t.Run(name, func(t *testing.T) {
			preset, ok := theme.Preset(name)
			require.True(t, ok)
			th := theme.Resolve(preset, theme.Options{NerdFont: true})
			line := testLine(th, 80)

			first, err := New(termenv.TrueColor).Render(line)
			require.NoError(t, err)
			second, err := New(termenv.TrueColor).Render(line)
			require.NoError(t, err)

			assert.Equal(t, first, second)
			assert.Contains(t, first, "\x1b[")
			assert.Equal(t, line.Width, layout.StringWidth(stripANSI(first)))
		})
	}
}

func TestRenderPowerlineSeparatorColors(t *testing.T) {
	th := theme.Resolve(theme.Default(), theme.Options{NerdFont: true, Separator: theme.SeparatorPowerline})
	line := layout.Layout([]*segment.Segment{
		{Kind: segment.KindPath, Text: "a", Style: theme.Style{Fg: "#000000", Bg: "#ff0000"}},
		{Kind: segment.KindGit, Text: "b", Style: theme.Style{Fg: "#000000", Bg: "#00ff00"}},
	}, th, 0)

	got, err := New(termenv.TrueColor).Render(line)
	require.NoError(t, err)

	arrow := strings.Index(got, theme.PowerlineRightArrow)
	require.Positive(t, arrow)
	prefix := got[:arrow]
	sepStart := strings.LastIndex(prefix, "\x1b[0m")
	require.GreaterOrEqual(t, sepStart, 0)
	sep := prefix[sepStart:]
	assert.Contains(t, sep, "38;2;255;0;0", "arrow foreground is the previous background")
	assert.Contains(t, sep, "48;2;0;255;0", "arrow background is the next background")
}

func TestWriteOneLine(t *testing.T) {
	th := theme.Resolve(theme.Default(), theme.Options{})
	var buf bytes.Buffer
	require.NoError(t, New(termenv.ANSI256).Write(&buf, testLine(th, 40)))

	out := buf.String()
	assert.True(t, strings.HasSuffix(out, "\n"))
	assert.Equal(t, 1, strings.Count(out, "\n"))
}

func TestWriteEmptyLine(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New(termenv.TrueColor).Write(&buf, layout.RenderLine{}))
	assert.Equal(t, "\n", buf.String())
}

func TestFallback(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Fallback(&buf, "~/proj"))
	assert.Equal(t, "~/proj\n", buf.String())
}

func TestInternalRenderError(t *testing.T) {
	cause := errors.New("boom")
	var err error = &InternalRenderError{Err: cause}

	var re *InternalRenderError
	require.True(t, errors.As(err, &re))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "render statusline: boom", err.Error())
}

func TestParseProfile(t *testing.T) {
	tests := []struct {
		in     string
		want   termenv.Profile
		wantOK bool
	}{
		{"truecolor", termenv.TrueColor, true},
		{"24bit", termenv.TrueColor, true},
		{"256", termenv.ANSI256, true},
		{"16", termenv.ANSI, true},
		{" None ", termenv.Ascii, true},
		{"auto", termenv.Ascii, false},
		{"rainbow", termenv.Ascii, false},
	}
	for _, tt := range tests {
		got, ok := ParseProfile(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseProfile(%q) = %v, %v, want %v, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want termenv.Profile
	}{
		{name: "no color", env: map[string]string{"NO_COLOR": "1", "COLORTERM": "truecolor"}, want: termenv.Ascii},
		{name: "truecolor", env: map[string]string{"COLORTERM": "truecolor", "TERM": "xterm"}, want: termenv.TrueColor},
		{name: "256 colors", env: map[string]string{"TERM": "xterm-256color"}, want: termenv.ANSI256},
		{name: "dumb", env: map[string]string{"TERM": "dumb"}, want: termenv.Ascii},
		{name: "plain xterm", env: map[string]string{"TERM": "xterm"}, want: termenv.ANSI},
		{name: "nothing", env: map[string]string{}, want: termenv.ANSI256},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			getenv := func(k string) string { return tt.env[k] }
			assert.Equal(t, tt.want, Detect(getenv))
		})
	}
}

func TestResolveExplicitBeatsNoColor(t *testing.T) {
	getenv := func(k string) string {
		if k == "NO_COLOR" {
			return "1"
		}
		return ""
	}
	assert.Equal(t, termenv.TrueColor, Resolve("truecolor", getenv))
	assert.Equal(t, termenv.Ascii, Resolve("auto", getenv))
}

// stripANSI removes SGR sequences, which is all lipgloss emits here.
func stripANSI(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == 0x1b && i+1 < len(s) && s[i+1] == '[' {
			j := i + 2
			for j < len(s) && s[j] != 'm' {
				j++
			}
			i = j
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
