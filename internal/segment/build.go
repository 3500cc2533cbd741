package segment

import (
	"os"
	"strings"

	"ccline/internal/config"
)

// Build returns the providers named in cfg.Segments, in that order. Names
// that are neither built in nor declared as custom segments are skipped;
// Validate has already reported them.
func Build(cfg *config.Config, models *config.ModelConfig, getenv func(string) string) []Provider {
	if getenv == nil {
		getenv = os.Getenv
	}

	providers := make([]Provider, 0, len(cfg.Segments))
	for _, name := range cfg.Segments {
		switch Kind(strings.ToLower(name)) {
		case KindPath:
			providers = append(providers, Path{MaxComponents: cfg.Path.MaxComponents})
		case KindGit:
			providers = append(providers, Git{ShowSHA: cfg.Git.ShowSHA})
		case KindModel:
			providers = append(providers, Model{Models: models})
		case KindMetrics:
			providers = append(providers, Metrics{
				Models:   models,
				Context:  cfg.Metrics.Context,
				Cost:     cfg.Metrics.Cost,
				Duration: cfg.Metrics.Duration,
				Lines:    cfg.Metrics.Lines,
			})
		case KindConfigCounts:
			providers = append(providers, ConfigCounts{})
		default:
			cs, ok := cfg.CustomSegment(name)
			if !ok {
				continue
			}
			text := cs.Text
			if cs.Env != "" {
				if v := getenv(cs.Env); v != "" {
					text = v
				}
			}
			providers = append(providers, Custom{ID: cs.Name, Text: text, Icon: cs.Icon})
		}
	}
	return providers
}
