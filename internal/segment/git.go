package segment

import (
	"strconv"
	"strings"

	"ccline/internal/git"
	"ccline/internal/session"
	"ccline/internal/theme"
)

// Git shows the branch, a clean/dirty/conflict glyph, ahead/behind counts
// and optionally the short commit hash.
type Git struct {
	ShowSHA bool
}

func (Git) Kind() Kind   { return KindGit }
func (Git) Name() string { return string(KindGit) }

func (g Git) Produce(sc *session.Context, th *theme.Theme) (Segment, bool) {
	st := sc.Git
	if st == nil || st.Branch == "" {
		return Segment{}, false
	}

	parts := []string{st.Branch}
	key := ""
	switch st.Status {
	case git.StatusConflicts:
		parts = append(parts, th.Icons.Conflict+strconv.Itoa(st.Conflicts))
		key = theme.KeyGitConflict
	case git.StatusDirty:
		parts = append(parts, th.Icons.Dirty+strconv.Itoa(st.Changes()))
		key = theme.KeyGitDirty
	default:
		parts = append(parts, th.Icons.Clean)
	}
	if st.Ahead > 0 {
		parts = append(parts, th.Icons.Ahead+strconv.Itoa(st.Ahead))
	}
	if st.Behind > 0 {
		parts = append(parts, th.Icons.Behind+strconv.Itoa(st.Behind))
	}
	if g.ShowSHA && st.SHA != "" && !st.Detached {
		parts = append(parts, st.SHA)
	}

	return Segment{
		Kind:  KindGit,
		Name:  g.Name(),
		Icon:  th.Icons.Git,
		Text:  strings.Join(parts, " "),
		Style: styled(th, KindGit, key),
	}, true
}
