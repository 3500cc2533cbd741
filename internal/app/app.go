package app

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"ccline/internal/config"
	"ccline/internal/ctxlog"
	"ccline/internal/git"
	"ccline/internal/layout"
	"ccline/internal/render"
	"ccline/internal/segment"
	"ccline/internal/session"
	"ccline/internal/theme"
)

// App renders one statusline per Run.
type App struct {
	outW      io.Writer
	errW      io.Writer
	config    *AppConfig
	getenv    func(string) string
	getwd     func() (string, error)
	home      string
	git       session.GitProber
	termWidth func() int
}

// Option customizes an App, mostly for tests.
type Option func(*App)

// WithEnv replaces os.Getenv.
func WithEnv(getenv func(string) string) Option {
	return func(a *App) { a.getenv = getenv }
}

// WithGetwd replaces os.Getwd.
func WithGetwd(getwd func() (string, error)) Option {
	return func(a *App) { a.getwd = getwd }
}

// WithHome sets the directory abbreviated to "~".
func WithHome(home string) Option {
	return func(a *App) { a.home = home }
}

// WithGitProber replaces the git subprocess prober.
func WithGitProber(p session.GitProber) Option {
	return func(a *App) { a.git = p }
}

// WithTerminalWidth replaces terminal size detection.
func WithTerminalWidth(fn func() int) Option {
	return func(a *App) { a.termWidth = fn }
}

// NewApp returns an App writing the statusline to outW and diagnostics to
// errW.
func NewApp(outW, errW io.Writer, appConfig *AppConfig, opts ...Option) *App {
	if appConfig == nil {
		appConfig = &AppConfig{}
	}
	a := &App{
		outW:      outW,
		errW:      errW,
		config:    appConfig,
		getenv:    os.Getenv,
		getwd:     os.Getwd,
		home:      segment.HomeDir(),
		termWidth: terminalWidth,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// LoadConfig layers every config source for projectDir, applies command
// line overrides and validates the result. Notes describe values that were
// reset to defaults; err joins file errors. The config is always usable.
func (a *App) LoadConfig(projectDir string) (*config.Config, []string, error) {
	cfg, err := config.Load(a.config.sources(projectDir, a.getenv))
	a.config.Overrides.Apply(cfg)
	notes := cfg.Validate()
	return cfg, notes, err
}

// Run reads one payload from stdin and writes one line to the output. Bad
// input and internal failures produce the plain path line instead; only a
// failure to write the output itself is returned.
func (a *App) Run(ctx context.Context, stdin io.Reader) (err error) {
	start := time.Now()
	var (
		fallbackPath string
		cfg          *config.Config
	)

	// The line must be written whatever happens upstream.
	defer func() {
		if r := recover(); r != nil {
			ctxlog.FromContext(ctx).Error("statusline panicked", "panic", r)
			err = a.writeFallback(cfg, fallbackPath)
		}
	}()

	payload, decodeErr := session.Decode(stdin)
	fallbackPath = a.fallbackPath(payload)

	cfg, notes, cfgErr := a.LoadConfig(a.projectDir(payload))
	logger := ctxlog.New(cfg.Log.Level, cfg.Log.Format, a.errW)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("Configuration loaded.", "theme", cfg.Theme, "segments", cfg.Segments, "width", cfg.Width)
	for _, note := range notes {
		logger.Debug("Config value reset to default.", "note", note)
	}
	if cfgErr != nil {
		logger.Warn("Config file ignored.", "error", cfgErr)
	}

	if decodeErr != nil {
		logger.Warn("Unreadable statusline payload, writing fallback line.", "error", decodeErr)
		return a.writeFallback(cfg, fallbackPath)
	}

	line, renderer, err := a.build(ctx, cfg, payload)
	if err != nil {
		logger.Warn("Statusline context unavailable, writing fallback line.", "error", err)
		return a.writeFallback(cfg, fallbackPath)
	}

	var buf bytes.Buffer
	if err := renderer.Write(&buf, line); err != nil {
		logger.Error("Rendering failed, writing fallback line.", "error", err)
		return a.writeFallback(cfg, fallbackPath)
	}
	if _, err := a.outW.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("write statusline: %w", err)
	}

	logger.Debug("Statusline rendered.",
		"segments", len(line.Cells),
		"width", line.Width,
		"budget", line.Budget,
		"elapsed", time.Since(start),
	)
	return nil
}

// build runs the pipeline up to a laid out line.
func (a *App) build(ctx context.Context, cfg *config.Config, payload *session.Input) (layout.RenderLine, *render.Renderer, error) {
	logger := ctxlog.FromContext(ctx)

	models, err := config.LoadModels(a.config.modelsPath())
	if err != nil {
		logger.Warn("Model config ignored.", "error", err)
	}

	base, err := theme.Load(cfg.Theme, a.config.themesDir())
	if err != nil {
		logger.Debug("Theme unavailable, using default.", "theme", cfg.Theme, "error", err)
	}
	th := theme.Resolve(base, theme.Options{NerdFont: cfg.NerdFont, Separator: cfg.Separator})

	reader := &session.Reader{
		Git:    a.prober(cfg),
		Getenv: a.getenv,
		Getwd:  a.getwd,
		Home:   a.home,

		CountConfig: enabled(cfg, segment.KindConfigCounts),
	}
	sc, err := reader.Build(ctx, payload)
	if err != nil {
		return layout.RenderLine{}, nil, err
	}
	logger.Debug("Session context built.", sessionAttrs(sc)...)

	providers := segment.Build(cfg, models, a.getenv)
	segs := segment.Collect(ctx, providers, sc, th)
	line := layout.Layout(segs, th, a.budget(cfg))

	renderer := render.New(render.Resolve(cfg.Color, a.getenv))
	logger.Debug("Line laid out.", "cells", len(line.Cells), "profile", int(renderer.Profile()))
	return line, renderer, nil
}

// prober returns nil when no git segment is enabled, so no subprocess runs.
func (a *App) prober(cfg *config.Config) session.GitProber {
	if !enabled(cfg, segment.KindGit) {
		return nil
	}
	if a.git != nil {
		return a.git
	}
	return git.NewProber(
		git.WithTimeout(cfg.Git.Timeout()),
		git.WithSHA(cfg.Git.ShowSHA),
		git.WithUpstream(cfg.Git.Upstream),
	)
}

// sessionAttrs are the log fields describing the host session.
func sessionAttrs(sc *session.Context) []any {
	attrs := []any{
		"session_id", sc.SessionID,
		"version", sc.Version,
		"output_style", sc.OutputStyle,
		"cwd", sc.Cwd,
	}
	if sc.Git != nil {
		attrs = append(attrs, "branch", sc.Git.Branch)
	}
	if m := sc.Metrics; m != nil {
		attrs = append(attrs, "context_tokens", m.ContextTokens, "duration", m.Duration, "api_duration", m.APIDuration)
	}
	return attrs
}

func enabled(cfg *config.Config, kind segment.Kind) bool {
	for _, name := range cfg.Segments {
		if name == string(kind) {
			return true
		}
	}
	return false
}

// fallbackPath is the ~-abbreviated working directory: from the payload when
// it decoded, else the process directory, else $PWD. It is never empty.
func (a *App) fallbackPath(payload *session.Input) string {
	dir := ""
	if payload != nil {
		for _, d := range []string{payload.Workspace.CurrentDir, payload.Cwd, payload.WorkspaceDirectory} {
			if d != "" {
				dir = d
				break
			}
		}
	}
	if dir == "" {
		if wd, err := a.getwd(); err == nil {
			dir = wd
		}
	}
	if dir == "" {
		dir = a.getenv("PWD")
	}
	if dir == "" {
		return "."
	}
	return segment.AbbreviateHome(filepath.Clean(dir), a.home)
}

// writeFallback writes path fitted to the width budget. cfg is nil when the
// failure happened before configuration loaded.
func (a *App) writeFallback(cfg *config.Config, path string) error {
	if cfg == nil {
		cfg = config.Default()
		a.config.Overrides.Apply(cfg)
	}
	return render.Fallback(a.outW, layout.TruncatePath(path, a.budget(cfg)))
}

// projectDir is where a .ccline.toml override may live.
func (a *App) projectDir(payload *session.Input) string {
	if payload != nil {
		for _, d := range []string{payload.Workspace.ProjectDir, payload.Workspace.CurrentDir, payload.Cwd} {
			if d != "" {
				return d
			}
		}
	}
	wd, err := a.getwd()
	if err != nil {
		return ""
	}
	return wd
}
