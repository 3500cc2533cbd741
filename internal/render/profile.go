package render

import (
	"strings"

	"github.com/muesli/termenv"
)

// Color setting names accepted in configuration.
const (
	ColorAuto      = "auto"
	ColorTrueColor = "truecolor"
	Color256       = "256"
	Color16        = "16"
	ColorNone      = "none"
)

// ParseProfile maps a color setting to a termenv profile. "auto" and unknown
// values report false; use Detect for those.
func ParseProfile(name string) (termenv.Profile, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case ColorTrueColor, "24bit":
		return termenv.TrueColor, true
	case Color256, "ansi256":
		return termenv.ANSI256, true
	case Color16, "ansi":
		return termenv.ANSI, true
	case ColorNone, "ascii", "off":
		return termenv.Ascii, true
	}
	return termenv.Ascii, false
}

// Detect picks a profile from the environment the host inherited from the
// user's terminal. stdout is a pipe and is never queried.
func Detect(getenv func(string) string) termenv.Profile {
	if getenv("NO_COLOR") != "" {
		return termenv.Ascii
	}
	switch strings.ToLower(getenv("COLORTERM")) {
	case "truecolor", "24bit":
		return termenv.TrueColor
	}
	term := getenv("TERM")
	switch {
	case term == "dumb":
		return termenv.Ascii
	case strings.Contains(term, "256color"):
		return termenv.ANSI256
	case term == "":
		return termenv.ANSI256
	}
	return termenv.ANSI
}

// Resolve returns the profile for a color setting, detecting it for "auto".
// NO_COLOR wins over everything but an explicit setting.
func Resolve(setting string, getenv func(string) string) termenv.Profile {
	if p, ok := ParseProfile(setting); ok {
		return p
	}
	return Detect(getenv)
}
