package segment

import (
	"ccline/internal/session"
	"ccline/internal/theme"
)

// Custom shows user-configured text. Text is resolved when the provider is
// built, so Produce stays a pure function of its inputs.
type Custom struct {
	ID   string
	Text string
	Icon string
}

func (Custom) Kind() Kind     { return KindCustom }
func (c Custom) Name() string { return c.ID }

func (c Custom) Produce(_ *session.Context, th *theme.Theme) (Segment, bool) {
	if c.Text == "" {
		return Segment{}, false
	}
	icon := c.Icon
	if icon == "" {
		icon = th.Icons.Custom
	}
	return Segment{
		Kind:  KindCustom,
		Name:  c.ID,
		Icon:  icon,
		Text:  c.Text,
		Style: styled(th, KindCustom, c.ID),
	}, true
}
