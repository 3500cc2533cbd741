package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"
)

// DefaultContextLimit applies when nothing matches a model id.
const DefaultContextLimit = 200_000

// ModelEntry maps an id substring to a display name and context size.
type ModelEntry struct {
	Pattern      string `toml:"pattern"`
	DisplayName  string `toml:"display_name"`
	ContextLimit int    `toml:"context_limit"`
}

// ContextModifier overrides the context size and appends a suffix to the
// display name, independently of which model matched. For example "[1m]"
// in an id marks the 1M context variant of any model.
type ContextModifier struct {
	Pattern       string `toml:"pattern"`
	DisplaySuffix string `toml:"display_suffix"`
	ContextLimit  int    `toml:"context_limit"`
}

// ModelConfig resolves model ids. User entries win over built-in ones.
type ModelConfig struct {
	Entries   []ModelEntry      `toml:"models"`
	Modifiers []ContextModifier `toml:"context_modifiers"`
}

// DefaultModels returns the entries for third-party models; Claude models
// are recognized by the built-in families instead.
func DefaultModels() *ModelConfig {
	return &ModelConfig{
		Entries: []ModelEntry{
			{Pattern: "glm-4.5", DisplayName: "GLM-4.5", ContextLimit: 128_000},
			{Pattern: "kimi-k2-turbo", DisplayName: "Kimi K2 Turbo", ContextLimit: 128_000},
			{Pattern: "kimi-k2", DisplayName: "Kimi K2", ContextLimit: 128_000},
			{Pattern: "qwen3-coder", DisplayName: "Qwen Coder", ContextLimit: 256_000},
		},
		Modifiers: []ContextModifier{
			{Pattern: "[1m]", DisplaySuffix: " 1M", ContextLimit: 1_000_000},
		},
	}
}

// LoadModels reads path and puts its entries ahead of the defaults. A
// missing file yields the defaults with a nil error.
func LoadModels(path string) (*ModelConfig, error) {
	mc := DefaultModels()
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return mc, nil
	}
	if err != nil {
		return mc, fmt.Errorf("read models %s: %w", path, err)
	}

	var user ModelConfig
	if err := toml.Unmarshal(raw, &user); err != nil {
		return mc, fmt.Errorf("parse models %s: %w", path, err)
	}
	mc.Entries = append(user.Entries, mc.Entries...)
	mc.Modifiers = append(user.Modifiers, mc.Modifiers...)
	return mc, nil
}

// family recognizes one Claude model line and extracts its version from
// ids in either naming scheme: claude-opus-4-1-20250805 or
// claude-3-5-sonnet-20241022.
type family struct {
	re     *regexp.Regexp
	prefix string
	limit  int
}

func newFamily(keyword, prefix string, limit int) family {
	// The trailing group marks where version digits end: a date, a text
	// qualifier, a context modifier or the end of the id.
	pattern := fmt.Sprintf(
		`(?:(?P<pre_major>\d{1,2})(?:-(?P<pre_minor>\d{1,2}))?-%[1]s|%[1]s-(?P<post_major>\d{1,2})(?:-(?P<post_minor>\d{1,2}))?)(?:-\d{3,}|-[a-z]|\[|$)`,
		keyword,
	)
	return family{re: regexp.MustCompile(pattern), prefix: prefix, limit: limit}
}

func (f family) match(idLower string) (string, bool) {
	m := f.re.FindStringSubmatch(idLower)
	if m == nil {
		return "", false
	}
	group := func(name string) string {
		return m[f.re.SubexpIndex(name)]
	}

	major, minor := group("post_major"), group("post_minor")
	if major == "" {
		major, minor = group("pre_major"), group("pre_minor")
	}
	if major == "" {
		return "", false
	}
	if minor != "" {
		return fmt.Sprintf("%s %s.%s", f.prefix, major, minor), true
	}
	return fmt.Sprintf("%s %s", f.prefix, major), true
}

var builtinFamilies = sync.OnceValue(func() []family {
	return []family{
		newFamily("sonnet", "Sonnet", 200_000),
		newFamily("opus", "Opus", 200_000),
		newFamily("haiku", "Haiku", 200_000),
	}
})

// Resolution is the outcome of matching a model id.
type Resolution struct {
	// Name is empty when neither an entry nor a family matched.
	Name         string
	ContextLimit int
	Suffix       string
	Matched      bool
}

// Resolve matches id against entries, then built-in families, then context
// modifiers. A modifier's limit wins over the base model's.
func (mc *ModelConfig) Resolve(id string) Resolution {
	lower := strings.ToLower(id)
	res := Resolution{ContextLimit: DefaultContextLimit}

	for _, e := range mc.Entries {
		if e.Pattern != "" && strings.Contains(lower, strings.ToLower(e.Pattern)) {
			res.Name, res.Matched = e.DisplayName, true
			if e.ContextLimit > 0 {
				res.ContextLimit = e.ContextLimit
			}
			break
		}
	}
	if !res.Matched {
		for _, f := range builtinFamilies() {
			if name, ok := f.match(lower); ok {
				res.Name, res.ContextLimit, res.Matched = name, f.limit, true
				break
			}
		}
	}

	for _, m := range mc.Modifiers {
		if m.Pattern != "" && strings.Contains(lower, strings.ToLower(m.Pattern)) {
			res.Suffix = m.DisplaySuffix
			if m.ContextLimit > 0 {
				res.ContextLimit = m.ContextLimit
			}
			if res.Matched {
				res.Name += m.DisplaySuffix
			}
			break
		}
	}
	return res
}

// DisplayName returns the name to show for a model: the resolved name, or
// the host-supplied display name (else the raw id) with any modifier suffix.
func (mc *ModelConfig) DisplayName(id, upstream string) string {
	res := mc.Resolve(id)
	if res.Matched {
		return res.Name
	}
	base := upstream
	if base == "" {
		base = id
	}
	return base + res.Suffix
}

// ContextLimit returns the context window size for id.
func (mc *ModelConfig) ContextLimit(id string) int {
	return mc.Resolve(id).ContextLimit
}

const modelsTemplate = `# ccline model configuration
# File location: ~/.claude/ccline/models.toml
#
# Claude models (Sonnet, Opus, Haiku) are recognized automatically, including
# their version. Add entries here for overrides or third-party models.

# Entries match when the pattern is a substring of the model id. They take
# priority over built-in recognition.
#
# [[models]]
# pattern = "my-model"
# display_name = "My Model"
# context_limit = 128000

# Context modifiers override the context limit and append a suffix to the
# display name. They compose with any model: "Opus 4" + " 1M" = "Opus 4 1M".
#
# [[context_modifiers]]
# pattern = "[1m]"
# display_suffix = " 1M"
# context_limit = 1000000
`
