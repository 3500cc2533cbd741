package app

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/x/term"

	"ccline/internal/config"
)

// terminalWidth asks the terminal behind stderr, the only stream the host
// may leave attached to it.
func terminalWidth() int {
	w, _, err := term.GetSize(os.Stderr.Fd())
	if err != nil || w <= 0 {
		return 0
	}
	return w
}

// budget resolves the width budget: configured width, then COLUMNS, then
// the terminal, then config.DefaultWidth.
func (a *App) budget(cfg *config.Config) int {
	if cfg.Width > 0 {
		return cfg.Width
	}
	if cols := strings.TrimSpace(a.getenv("COLUMNS")); cols != "" {
		if w, err := strconv.Atoi(cols); err == nil && w > 0 {
			return w
		}
	}
	if a.termWidth != nil {
		if w := a.termWidth(); w > 0 {
			return w
		}
	}
	return config.DefaultWidth
}
