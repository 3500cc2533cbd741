package theme

// DefaultName is the preset used when nothing else is configured.
const DefaultName = "default"

// Style keys beyond the segment kinds. Providers look them up with
// LookupStyle and fall back to the kind's style.
const (
	KeyGitDirty        = "git_dirty"
	KeyGitConflict     = "git_conflict"
	KeyMetricsWarn     = "metrics_warn"
	KeyMetricsCritical = "metrics_critical"
)

var presets = map[string]Theme{
	"default": {
		Name:      "default",
		Separator: SeparatorThin,
		SepStyle:  Style{Fg: "8"},
		Styles: map[string]Style{
			"path":             {Fg: "14", Bold: true},
			"git":              {Fg: "10"},
			KeyGitDirty:        {Fg: "11"},
			KeyGitConflict:     {Fg: "9", Bold: true},
			"model":            {Fg: "13"},
			"metrics":          {Fg: "12"},
			KeyMetricsWarn:     {Fg: "11"},
			KeyMetricsCritical: {Fg: "9"},
			"custom":           {Fg: "7"},
		},
	},
	"minimal": {
		Name:      "minimal",
		Separator: SeparatorPipe,
		SepStyle:  Style{Fg: "8"},
		Styles: map[string]Style{
			"path":             {Fg: "12"},
			"git":              {Fg: "11"},
			"model":            {Fg: "13"},
			"metrics":          {Fg: "8"},
			KeyMetricsCritical: {Fg: "9"},
			"custom":           {Fg: "8"},
		},
	},
	"powerline": {
		Name:      "powerline",
		Separator: SeparatorPowerline,
		SepStyle:  Style{Fg: "8"},
		Styles: map[string]Style{
			"path":             {Fg: "0", Bg: "14"},
			"git":              {Fg: "15", Bg: "10"},
			KeyGitDirty:        {Fg: "0", Bg: "11"},
			KeyGitConflict:     {Fg: "15", Bg: "1"},
			"model":            {Fg: "15", Bg: "5"},
			"metrics":          {Fg: "15", Bg: "8"},
			KeyMetricsWarn:     {Fg: "0", Bg: "3"},
			KeyMetricsCritical: {Fg: "15", Bg: "1"},
			"custom":           {Fg: "15", Bg: "12"},
		},
	},
	"gruvbox": {
		Name:      "gruvbox",
		Separator: SeparatorPowerline,
		SepStyle:  Style{Fg: "#504945"},
		Styles: map[string]Style{
			"path":             {Fg: "#83a598", Bg: "#504945"},
			"git":              {Fg: "#fe8019", Bg: "#3c3836"},
			KeyGitDirty:        {Fg: "#fabd2f", Bg: "#3c3836"},
			KeyGitConflict:     {Fg: "#fb4934", Bg: "#3c3836"},
			"model":            {Fg: "#d3869b", Bg: "#665c54"},
			"metrics":          {Fg: "#8ec07c", Bg: "#282828"},
			KeyMetricsWarn:     {Fg: "#fabd2f", Bg: "#282828"},
			KeyMetricsCritical: {Fg: "#fb4934", Bg: "#282828"},
			"custom":           {Fg: "#ebdbb2", Bg: "#32302f"},
		},
	},
	"nord": {
		Name:      "nord",
		Separator: SeparatorPowerline,
		SepStyle:  Style{Fg: "#4c566a"},
		Styles: map[string]Style{
			"path":             {Fg: "#2e3440", Bg: "#88c0d0"},
			"git":              {Fg: "#2e3440", Bg: "#a3be8c"},
			KeyGitDirty:        {Fg: "#2e3440", Bg: "#ebcb8b"},
			KeyGitConflict:     {Fg: "#eceff4", Bg: "#bf616a"},
			"model":            {Fg: "#eceff4", Bg: "#5e81ac"},
			"metrics":          {Fg: "#eceff4", Bg: "#4c566a"},
			KeyMetricsWarn:     {Fg: "#2e3440", Bg: "#ebcb8b"},
			KeyMetricsCritical: {Fg: "#eceff4", Bg: "#bf616a"},
			"custom":           {Fg: "#eceff4", Bg: "#434c5e"},
		},
	},
	"tokyo-night": {
		Name:      "tokyo-night",
		Separator: SeparatorPowerline,
		SepStyle:  Style{Fg: "#565f89"},
		Styles: map[string]Style{
			"path":             {Fg: "#1a1b26", Bg: "#7aa2f7"},
			"git":              {Fg: "#1a1b26", Bg: "#9ece6a"},
			KeyGitDirty:        {Fg: "#1a1b26", Bg: "#e0af68"},
			KeyGitConflict:     {Fg: "#1a1b26", Bg: "#f7768e"},
			"model":            {Fg: "#1a1b26", Bg: "#bb9af7"},
			"metrics":          {Fg: "#c0caf5", Bg: "#414868"},
			KeyMetricsWarn:     {Fg: "#1a1b26", Bg: "#e0af68"},
			KeyMetricsCritical: {Fg: "#1a1b26", Bg: "#f7768e"},
			"custom":           {Fg: "#c0caf5", Bg: "#24283b"},
		},
	},
}

// Preset returns a built-in theme by name.
func Preset(name string) (Theme, bool) {
	th, ok := presets[name]
	return th, ok
}

// Default returns the default preset.
func Default() Theme {
	return presets[DefaultName]
}

// LookupStyle returns the style stored under key, if any.
func (t *Theme) LookupStyle(key string) (Style, bool) {
	s, ok := t.Styles[key]
	return s, ok
}
