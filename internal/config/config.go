package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"ccline/internal/theme"
)

// File names under Dir().
const (
	ConfigFileName  = "config.toml"
	ModelsFileName  = "models.toml"
	ThemesDirName   = "themes"
	ProjectFileName = ".ccline.toml"
)

// Defaults.
const (
	DefaultWidth        = 120
	DefaultGitTimeoutMS = 200
	DefaultColor        = "auto"
	DefaultLogLevel     = "error"
	DefaultLogFormat    = "text"
)

// DefaultSegments is the provider order used when none is configured.
var DefaultSegments = []string{"path", "git", "model", "metrics"}

// Config is validated once at startup and read-only afterwards.
type Config struct {
	Theme     string `toml:"theme"`
	NerdFont  bool   `toml:"nerd_font"`
	Width     int    `toml:"width"`
	Separator string `toml:"separator"`
	// Color is one of auto, truecolor, 256, 16 or none.
	Color    string   `toml:"color"`
	Segments []string `toml:"segments"`

	Path    PathConfig      `toml:"path"`
	Git     GitConfig       `toml:"git"`
	Metrics MetricsConfig   `toml:"metrics"`
	Custom  []CustomSegment `toml:"custom,omitempty"`
	Log     LogConfig       `toml:"log"`
}

type PathConfig struct {
	// MaxComponents keeps only the last N path elements; 0 keeps all.
	MaxComponents int `toml:"max_components"`
}

type GitConfig struct {
	TimeoutMS int  `toml:"timeout_ms"`
	ShowSHA   bool `toml:"show_sha"`
	Upstream  bool `toml:"upstream"`
}

// Timeout returns the probe deadline.
func (g GitConfig) Timeout() time.Duration {
	return time.Duration(g.TimeoutMS) * time.Millisecond
}

type MetricsConfig struct {
	Context  bool `toml:"context"`
	Cost     bool `toml:"cost"`
	Duration bool `toml:"duration"`
	Lines    bool `toml:"lines"`
}

// CustomSegment is a user-defined segment showing static text or the value
// of an environment variable. It is enabled by listing its name in Segments.
type CustomSegment struct {
	Name string `toml:"name"`
	Text string `toml:"text,omitempty"`
	Env  string `toml:"env,omitempty"`
	Icon string `toml:"icon,omitempty"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Theme:    theme.DefaultName,
		NerdFont: true,
		Color:    DefaultColor,
		Segments: append([]string(nil), DefaultSegments...),
		Git: GitConfig{
			TimeoutMS: DefaultGitTimeoutMS,
			Upstream:  true,
		},
		Metrics: MetricsConfig{Context: true, Cost: true},
		Log:     LogConfig{Level: DefaultLogLevel, Format: DefaultLogFormat},
	}
}

// Dir returns ~/.claude/ccline, or a relative .claude/ccline when the home
// directory is unknown.
func Dir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".claude", "ccline")
	}
	return filepath.Join(".claude", "ccline")
}

// Merge decodes the TOML file at path over c. A missing file is not an
// error and leaves c untouched.
func (c *Config) Merge(path string) error {
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	// Decode into a copy so a file that fails halfway leaves c untouched.
	next := c.clone()
	if err := toml.Unmarshal(raw, next); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	*c = *next
	return nil
}

func (c *Config) clone() *Config {
	cp := *c
	cp.Segments = append([]string(nil), c.Segments...)
	cp.Custom = append([]CustomSegment(nil), c.Custom...)
	return &cp
}

// ApplyEnv applies CCLINE_* overrides. CCSTATUS_THEME is honored as a legacy
// alias for CCLINE_THEME.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv("CCSTATUS_THEME"); v != "" {
		c.Theme = v
	}
	if v := getenv("CCLINE_THEME"); v != "" {
		c.Theme = v
	}
	if v := getenv("CCLINE_NERD_FONT"); v != "" {
		if b, ok := parseBool(v); ok {
			c.NerdFont = b
		}
	}
	if v := getenv("CCLINE_WIDTH"); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			c.Width = n
		}
	}
	if v := getenv("CCLINE_SEPARATOR"); v != "" {
		c.Separator = v
	}
	if v := getenv("CCLINE_COLOR"); v != "" {
		c.Color = v
	}
	if getenv("NO_COLOR") != "" {
		c.Color = "none"
	}
	if v := getenv("CCLINE_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

// Validate normalizes c in place. Every invalid value is reset to its
// default and described in the returned notes, which callers log at debug
// level; validation never rejects a config.
func (c *Config) Validate() []string {
	var notes []string
	def := Default()

	c.Theme = strings.ToLower(strings.TrimSpace(c.Theme))
	if c.Theme == "" {
		c.Theme = def.Theme
	}

	c.Separator = strings.ToLower(strings.TrimSpace(c.Separator))
	if c.Separator != "" && !theme.IsSeparator(c.Separator) {
		notes = append(notes, fmt.Sprintf("separator %q unknown, using theme separator", c.Separator))
		c.Separator = ""
	}

	if c.Width < 0 {
		notes = append(notes, fmt.Sprintf("width %d negative, using terminal width", c.Width))
		c.Width = 0
	}

	c.Color = strings.ToLower(strings.TrimSpace(c.Color))
	switch c.Color {
	case "auto", "truecolor", "256", "16", "none":
	case "":
		c.Color = def.Color
	default:
		notes = append(notes, fmt.Sprintf("color %q unknown, using %s", c.Color, def.Color))
		c.Color = def.Color
	}

	if c.Git.TimeoutMS <= 0 {
		notes = append(notes, fmt.Sprintf("git.timeout_ms %d invalid, using %d", c.Git.TimeoutMS, def.Git.TimeoutMS))
		c.Git.TimeoutMS = def.Git.TimeoutMS
	}
	if c.Path.MaxComponents < 0 {
		c.Path.MaxComponents = 0
	}

	c.Segments, notes = c.validSegments(notes)

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
		c.Log.Level = strings.ToLower(c.Log.Level)
	default:
		c.Log.Level = def.Log.Level
	}
	if !strings.EqualFold(c.Log.Format, "json") {
		c.Log.Format = def.Log.Format
	}
	return notes
}

// validSegments drops unknown and duplicate names, keeping order.
func (c *Config) validSegments(notes []string) ([]string, []string) {
	if len(c.Segments) == 0 {
		return append([]string(nil), DefaultSegments...), notes
	}

	custom := make(map[string]bool, len(c.Custom))
	for _, cs := range c.Custom {
		custom[strings.ToLower(cs.Name)] = true
	}

	seen := make(map[string]bool, len(c.Segments))
	out := make([]string, 0, len(c.Segments))
	for _, name := range c.Segments {
		name = strings.ToLower(strings.TrimSpace(name))
		switch {
		case seen[name]:
			notes = append(notes, fmt.Sprintf("segment %q listed twice", name))
		case isBuiltinSegment(name) || custom[name]:
			seen[name] = true
			out = append(out, name)
		default:
			notes = append(notes, fmt.Sprintf("segment %q unknown, ignored", name))
		}
	}
	return out, notes
}

// CustomSegment returns the custom segment definition called name.
func (c *Config) CustomSegment(name string) (CustomSegment, bool) {
	for _, cs := range c.Custom {
		if strings.EqualFold(cs.Name, name) {
			return cs, true
		}
	}
	return CustomSegment{}, false
}

// Marshal encodes c as TOML.
func (c *Config) Marshal() ([]byte, error) {
	return toml.Marshal(c)
}

func isBuiltinSegment(name string) bool {
	switch name {
	case "path", "git", "model", "metrics", "config_counts":
		return true
	}
	return false
}

func parseBool(v string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true, true
	case "0", "false", "no", "off":
		return false, true
	}
	return false, false
}
