// Package segment holds the providers that turn a session context into
// statusline segments. Providers are pure functions of (context, theme):
// they share no state and may decline to produce anything.
package segment

import (
	"context"
	"fmt"
	"strings"

	"ccline/internal/ctxlog"
	"ccline/internal/session"
	"ccline/internal/theme"
)

// Kind classifies a segment for styling and layout priority.
type Kind string

const (
	KindPath    Kind = "path"
	KindGit     Kind = "git"
	KindModel   Kind = "model"
	KindMetrics Kind = "metrics"
	KindCustom  Kind = "custom"

	KindConfigCounts Kind = "config_counts"
)

// Priority orders kinds for dropping under a width budget: lower values are
// kept longer. Path is never dropped.
func (k Kind) Priority() int {
	switch k {
	case KindPath:
		return 0
	case KindGit:
		return 1
	case KindModel:
		return 2
	case KindMetrics:
		return 3
	default:
		return 4
	}
}

// Segment is one rendered fact. It is immutable once produced.
type Segment struct {
	Kind  Kind
	Name  string
	Icon  string
	Text  string
	Style theme.Style
}

// Provider produces at most one segment.
type Provider interface {
	Kind() Kind
	Name() string
	Produce(sc *session.Context, th *theme.Theme) (Segment, bool)
}

// Collect runs providers in order. The result has one slot per provider;
// nil marks absence. A panicking provider is logged and counted as absent.
func Collect(ctx context.Context, providers []Provider, sc *session.Context, th *theme.Theme) []*Segment {
	out := make([]*Segment, len(providers))
	for i, p := range providers {
		seg, ok, err := produce(p, sc, th)
		if err != nil {
			ctxlog.FromContext(ctx).Debug("segment provider failed", "segment", p.Name(), "error", err)
			continue
		}
		if ok {
			out[i] = &seg
		}
	}
	return out
}

func produce(p Provider, sc *session.Context, th *theme.Theme) (seg Segment, ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	seg, ok = p.Produce(sc, th)
	if ok {
		seg.Text = clean(seg.Text)
		seg.Icon = clean(seg.Icon)
		ok = seg.Text != ""
	}
	return seg, ok, nil
}

// clean keeps the line a single line: control characters become spaces.
func clean(s string) string {
	if strings.IndexFunc(s, isControl) < 0 {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		if isControl(r) {
			return ' '
		}
		return r
	}, s))
}

func isControl(r rune) bool {
	return r < 0x20 || r == 0x7f || (r >= 0x80 && r < 0xa0)
}

// styled returns the theme style for key, or for the kind when the theme
// has no entry under key.
func styled(th *theme.Theme, kind Kind, key string) theme.Style {
	if key != "" {
		if s, ok := th.LookupStyle(key); ok {
			return s
		}
	}
	return th.Style(string(kind))
}
