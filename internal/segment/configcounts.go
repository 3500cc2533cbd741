package segment

import (
	"strconv"
	"strings"

	"ccline/internal/session"
	"ccline/internal/theme"
)

// ConfigCounts shows how much Claude configuration is in effect: CLAUDE.md
// files, rules, MCP servers and hooks. Zero counts are left out.
type ConfigCounts struct{}

func (ConfigCounts) Kind() Kind   { return KindConfigCounts }
func (ConfigCounts) Name() string { return string(KindConfigCounts) }

func (c ConfigCounts) Produce(sc *session.Context, th *theme.Theme) (Segment, bool) {
	if sc.ConfigCounts == nil || !sc.ConfigCounts.Any() {
		return Segment{}, false
	}
	return Segment{
		Kind:  KindConfigCounts,
		Name:  c.Name(),
		Icon:  th.Icons.Config,
		Text:  configCountsText(*sc.ConfigCounts),
		Style: th.Style(string(KindConfigCounts)),
	}, true
}

func configCountsText(c session.ConfigCounts) string {
	var parts []string
	if c.ClaudeMD > 0 {
		parts = append(parts, strconv.Itoa(c.ClaudeMD)+" CLAUDE.md")
	}
	if c.Rules > 0 {
		parts = append(parts, plural(c.Rules, "rule", "rules"))
	}
	if c.MCP > 0 {
		parts = append(parts, plural(c.MCP, "MCP", "MCPs"))
	}
	if c.Hooks > 0 {
		parts = append(parts, plural(c.Hooks, "hook", "hooks"))
	}
	return strings.Join(parts, " · ")
}

func plural(n int, one, many string) string {
	if n == 1 {
		return "1 " + one
	}
	return strconv.Itoa(n) + " " + many
}
