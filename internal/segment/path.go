package segment

import (
	"os"
	"path/filepath"
	"strings"

	"ccline/internal/session"
	"ccline/internal/theme"
)

// Path shows the working directory with the home directory abbreviated.
type Path struct {
	// MaxComponents keeps only the last N elements; 0 keeps all.
	MaxComponents int
}

func (Path) Kind() Kind   { return KindPath }
func (Path) Name() string { return string(KindPath) }

func (p Path) Produce(sc *session.Context, th *theme.Theme) (Segment, bool) {
	if sc.Cwd == "" {
		return Segment{}, false
	}
	return Segment{
		Kind:  KindPath,
		Name:  p.Name(),
		Icon:  th.Icons.Path,
		Text:  LastComponents(AbbreviateHome(sc.Cwd, sc.Home), p.MaxComponents),
		Style: th.Style(string(KindPath)),
	}, true
}

// AbbreviateHome replaces a leading home directory with "~".
func AbbreviateHome(path, home string) string {
	if home == "" || home == string(filepath.Separator) {
		return path
	}
	home = filepath.Clean(home)
	if path == home {
		return "~"
	}
	if strings.HasPrefix(path, home+string(filepath.Separator)) {
		return "~" + path[len(home):]
	}
	return path
}

// LastComponents keeps the final n elements of path behind a "…/" prefix.
func LastComponents(path string, n int) string {
	if n <= 0 {
		return path
	}
	parts := strings.FieldsFunc(path, func(r rune) bool { return r == filepath.Separator })
	if len(parts) <= n {
		return path
	}
	return theme.Ellipsis + string(filepath.Separator) + strings.Join(parts[len(parts)-n:], string(filepath.Separator))
}

// HomeDir returns the user's home directory or "" when unknown.
func HomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home
}
