package segment

import (
	"ccline/internal/config"
	"ccline/internal/session"
	"ccline/internal/theme"
)

// Model shows the active model's display name.
type Model struct {
	Models *config.ModelConfig
}

func (Model) Kind() Kind   { return KindModel }
func (Model) Name() string { return string(KindModel) }

func (m Model) Produce(sc *session.Context, th *theme.Theme) (Segment, bool) {
	if sc.Model.Empty() {
		return Segment{}, false
	}
	return Segment{
		Kind:  KindModel,
		Name:  m.Name(),
		Icon:  th.Icons.Model,
		Text:  m.models().DisplayName(sc.Model.ID, sc.Model.DisplayName),
		Style: th.Style(string(KindModel)),
	}, true
}

func (m Model) models() *config.ModelConfig {
	if m.Models == nil {
		return config.DefaultModels()
	}
	return m.Models
}
