// Package theme maps segment kinds to colors, icons and separators.
package theme

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Powerline and Nerd Font glyphs.
const (
	PowerlineRightArrow     = "\uE0B0" // 
	PowerlineRightThinArrow = "\uE0B1" // 
	GitBranch               = "\uE0A0" // 
	FolderIcon              = "\uF07C"
	ModelIcon               = "\uF2DB"
	MetricsIcon             = "\uF080"
	CustomIcon              = "\uF0E7"
	ConfigIcon              = "\uF013"
	Ellipsis                = "\u2026" // …
)

// Separator styles.
const (
	SeparatorPowerline = "powerline"
	SeparatorThin      = "thin"
	SeparatorPipe      = "pipe"
	SeparatorSpace     = "space"
)

// ErrUnknownTheme is returned by Load when neither a theme file nor a
// built-in preset carries the requested name.
var ErrUnknownTheme = errors.New("unknown theme")

// Style is the look of one segment. Colors are lipgloss color strings:
// "#rrggbb" hex or an ANSI 0-255 index. Empty means terminal default.
type Style struct {
	Fg   string `toml:"fg,omitempty"`
	Bg   string `toml:"bg,omitempty"`
	Bold bool   `toml:"bold,omitempty"`
}

// IconSet holds per-kind icons plus git state glyphs.
type IconSet struct {
	Path     string `toml:"path"`
	Git      string `toml:"git"`
	Model    string `toml:"model"`
	Metrics  string `toml:"metrics"`
	Custom   string `toml:"custom"`
	Config   string `toml:"config"`
	Clean    string `toml:"clean"`
	Dirty    string `toml:"dirty"`
	Conflict string `toml:"conflict"`
	Ahead    string `toml:"ahead"`
	Behind   string `toml:"behind"`
}

// NerdIcons needs a patched Nerd Font in the terminal.
var NerdIcons = IconSet{
	Path:     FolderIcon,
	Git:      GitBranch,
	Model:    ModelIcon,
	Metrics:  MetricsIcon,
	Custom:   CustomIcon,
	Config:   ConfigIcon,
	Clean:    "✓",
	Dirty:    "●",
	Conflict: "⚠",
	Ahead:    "↑",
	Behind:   "↓",
}

// PlainIcons renders on any font: no segment icons, ASCII-safe git glyphs.
var PlainIcons = IconSet{
	Clean:    "✓",
	Dirty:    "*",
	Conflict: "!",
	Ahead:    "↑",
	Behind:   "↓",
}

// Theme is the read-only visual configuration shared by all providers.
type Theme struct {
	Name      string           `toml:"name"`
	Separator string           `toml:"separator"`
	SepStyle  Style            `toml:"separator_style"`
	Styles    map[string]Style `toml:"styles"`

	// Icons is filled from NerdIcons or PlainIcons by Resolve; theme files
	// may still override single glyphs.
	Icons IconSet `toml:"icons"`
	Nerd  bool    `toml:"-"`
}

// Style returns the style of a segment kind, falling back to the "custom"
// entry for unknown names.
func (t *Theme) Style(kind string) Style {
	if s, ok := t.Styles[kind]; ok {
		return s
	}
	return t.Styles["custom"]
}

// Powerline reports whether segments are drawn as filled blocks joined by
// arrows.
func (t *Theme) Powerline() bool {
	return t.Separator == SeparatorPowerline && t.Nerd
}

// SeparatorGlyph returns the uncolored separator placed between two
// segments. Arrow styles need a Nerd Font and degrade to a pipe without one.
func (t *Theme) SeparatorGlyph() string {
	switch t.Separator {
	case SeparatorPowerline:
		if t.Nerd {
			return PowerlineRightArrow
		}
		return " | "
	case SeparatorThin:
		if t.Nerd {
			return " " + PowerlineRightThinArrow + " "
		}
		return " | "
	case SeparatorSpace:
		return " "
	default:
		return " | "
	}
}

// Options are the config-level overrides applied on top of a theme.
type Options struct {
	NerdFont  bool
	Separator string
}

// Resolve returns a copy of t with the icon set and separator override
// applied. The styles map is shared; themes are never mutated after Resolve.
func Resolve(t Theme, opts Options) *Theme {
	t.Nerd = opts.NerdFont
	if IsSeparator(opts.Separator) {
		t.Separator = opts.Separator
	}
	if !IsSeparator(t.Separator) {
		t.Separator = SeparatorPipe
	}

	base := PlainIcons
	if t.Nerd {
		base = NerdIcons
	}
	t.Icons = mergeIcons(base, t.Icons, t.Nerd)
	return &t
}

// IsSeparator reports whether s names a separator style.
func IsSeparator(s string) bool {
	switch s {
	case SeparatorPowerline, SeparatorThin, SeparatorPipe, SeparatorSpace:
		return true
	}
	return false
}

// mergeIcons keeps theme-file glyphs only when Nerd Fonts are on, since
// custom glyphs are almost always from the private use area.
func mergeIcons(base, override IconSet, nerd bool) IconSet {
	if !nerd {
		return base
	}
	pick := func(b, o string) string {
		if o != "" {
			return o
		}
		return b
	}
	return IconSet{
		Path:     pick(base.Path, override.Path),
		Git:      pick(base.Git, override.Git),
		Model:    pick(base.Model, override.Model),
		Metrics:  pick(base.Metrics, override.Metrics),
		Custom:   pick(base.Custom, override.Custom),
		Config:   pick(base.Config, override.Config),
		Clean:    pick(base.Clean, override.Clean),
		Dirty:    pick(base.Dirty, override.Dirty),
		Conflict: pick(base.Conflict, override.Conflict),
		Ahead:    pick(base.Ahead, override.Ahead),
		Behind:   pick(base.Behind, override.Behind),
	}
}

// Load resolves a theme by name: <dir>/<name>.toml first, then the built-in
// presets. On failure it returns the default preset together with the error
// so the caller can log and carry on.
func Load(name, dir string) (Theme, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = DefaultName
	}

	if dir != "" {
		path := filepath.Join(dir, name+".toml")
		raw, err := os.ReadFile(path)
		if err == nil {
			th, perr := parse(raw, name)
			if perr != nil {
				return Default(), fmt.Errorf("theme %s: %w", path, perr)
			}
			return th, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return Default(), fmt.Errorf("theme %s: %w", path, err)
		}
	}

	if th, ok := Preset(name); ok {
		return th, nil
	}
	return Default(), fmt.Errorf("%w: %q", ErrUnknownTheme, name)
}

// parse decodes a theme file over the default preset, so a file only needs
// the keys it changes. A style table in the file replaces the whole entry.
func parse(raw []byte, name string) (Theme, error) {
	def := Default()
	th := Theme{Name: name, Separator: def.Separator, SepStyle: def.SepStyle}
	if err := toml.Unmarshal(raw, &th); err != nil {
		return Theme{}, err
	}
	if th.Styles == nil {
		th.Styles = make(map[string]Style, len(def.Styles))
	}
	for k, v := range def.Styles {
		if _, ok := th.Styles[k]; !ok {
			th.Styles[k] = v
		}
	}
	if th.Name == "" {
		th.Name = name
	}
	return th, nil
}

// Marshal encodes a theme in the file format Load reads.
func Marshal(th Theme) ([]byte, error) {
	return toml.Marshal(th)
}

// Names lists the built-in presets in sorted order.
func Names() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
