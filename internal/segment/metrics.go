package segment

import (
	"strconv"
	"strings"

	"ccline/internal/config"
	"ccline/internal/session"
	"ccline/internal/theme"
)

// Context usage thresholds, in percent.
const (
	WarnPercent     = 70.0
	CriticalPercent = 90.0
)

// Metrics shows context window usage, cost, duration and lines changed.
// Each part is enabled separately.
type Metrics struct {
	Models   *config.ModelConfig
	Context  bool
	Cost     bool
	Duration bool
	Lines    bool
}

func (Metrics) Kind() Kind   { return KindMetrics }
func (Metrics) Name() string { return string(KindMetrics) }

func (p Metrics) Produce(sc *session.Context, th *theme.Theme) (Segment, bool) {
	m := sc.Metrics
	if m == nil {
		return Segment{}, false
	}

	var parts []string
	key := ""
	if p.Context {
		if pct, text, ok := p.contextUsage(sc); ok {
			parts = append(parts, text)
			switch {
			case pct >= CriticalPercent:
				key = theme.KeyMetricsCritical
			case pct >= WarnPercent:
				key = theme.KeyMetricsWarn
			}
		}
	}
	if p.Cost {
		if m.HasCost {
			parts = append(parts, formatCost(m.CostUSD))
		} else if m.InputTokens > 0 || m.OutputTokens > 0 {
			parts = append(parts, formatCost(calculateCost(sc.Model.ID, m.InputTokens, m.OutputTokens)))
		}
	}
	if p.Duration && m.Duration > 0 {
		parts = append(parts, formatDuration(m.Duration))
	}
	if p.Lines && (m.LinesAdded > 0 || m.LinesRemoved > 0) {
		parts = append(parts, "+"+strconv.Itoa(m.LinesAdded)+" -"+strconv.Itoa(m.LinesRemoved))
	}
	if len(parts) == 0 {
		return Segment{}, false
	}

	return Segment{
		Kind:  KindMetrics,
		Name:  p.Name(),
		Icon:  th.Icons.Metrics,
		Text:  strings.Join(parts, " "),
		Style: styled(th, KindMetrics, key),
	}, true
}

// contextUsage renders "42.5% · 85k". The host's percentage wins; otherwise
// it is derived from the current usage and the window size.
func (p Metrics) contextUsage(sc *session.Context) (float64, string, bool) {
	m := sc.Metrics
	limit := m.ContextSize
	if limit <= 0 {
		models := p.Models
		if models == nil {
			models = config.DefaultModels()
		}
		limit = models.ContextLimit(sc.Model.ID)
	}

	var pct float64
	switch {
	case m.HasUsedPercent:
		pct = m.UsedPercent
	case m.ContextTokens > 0 && limit > 0:
		pct = float64(m.ContextTokens) * 100 / float64(limit)
	default:
		return 0, "", false
	}
	if pct > 100 {
		pct = 100
	}

	tokens := m.ContextTokens
	if tokens == 0 && limit > 0 {
		tokens = int(pct * float64(limit) / 100)
	}
	if tokens == 0 {
		return pct, formatPercent(pct), true
	}
	return pct, formatPercent(pct) + " · " + formatTokens(tokens), true
}
