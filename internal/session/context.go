package session

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"time"

	"ccline/internal/ctxlog"
	"ccline/internal/git"
)

// Model identifies the active model.
type Model struct {
	ID          string
	DisplayName string
}

// Empty reports whether the host sent no model at all.
func (m Model) Empty() bool {
	return m.ID == "" && m.DisplayName == ""
}

// Metrics are token and cost counters. Pointer-free zero values mean "not
// supplied"; the Has* flags tell the difference where zero is meaningful.
type Metrics struct {
	InputTokens  int
	OutputTokens int

	ContextTokens  int
	ContextSize    int
	UsedPercent    float64
	HasUsedPercent bool

	CostUSD float64
	HasCost bool

	Duration    time.Duration
	APIDuration time.Duration

	LinesAdded   int
	LinesRemoved int
}

// Context is the snapshot every provider renders from. It is built once and
// never modified.
type Context struct {
	Cwd            string
	ProjectDir     string
	Home           string
	SessionID      string
	TranscriptPath string
	Version        string
	OutputStyle    string

	Model Model
	// Git is nil outside a repository or when the probe timed out.
	Git *git.State
	// Metrics is nil when the payload carried no counters.
	Metrics *Metrics
	// ConfigCounts is nil unless the Reader was asked to count.
	ConfigCounts *ConfigCounts
}

// GitProber is the bounded git query capability.
type GitProber interface {
	Probe(ctx context.Context, dir string) (*git.State, error)
}

// Reader builds Contexts. Zero-valued function fields are replaced by the
// process environment.
type Reader struct {
	Git    GitProber
	Getenv func(string) string
	Getwd  func() (string, error)
	Home   string
	// CountConfig enables the Claude configuration scan.
	CountConfig bool
}

// Read decodes the payload in r and builds a Context from it.
func (r *Reader) Read(ctx context.Context, in io.Reader) (*Context, error) {
	payload, err := Decode(in)
	if err != nil {
		return nil, err
	}
	return r.Build(ctx, payload)
}

// Build creates a Context from an already decoded payload, which may be nil.
// Git state is probed last; probe failures only leave Git nil.
func (r *Reader) Build(ctx context.Context, in *Input) (*Context, error) {
	logger := ctxlog.FromContext(ctx)

	sc := &Context{Home: r.Home}
	if in == nil {
		in = &Input{}
	}

	cwd, err := r.workingDir(in)
	if err != nil {
		return nil, err
	}
	sc.Cwd = cwd
	sc.ProjectDir = in.Workspace.ProjectDir
	if sc.ProjectDir == "" {
		sc.ProjectDir = cwd
	}

	sc.SessionID = in.SessionID
	if sc.SessionID == "" {
		sc.SessionID = r.getenv("CLAUDE_SESSION_ID")
	}
	sc.TranscriptPath = in.TranscriptPath
	sc.Version = in.Version
	sc.OutputStyle = in.OutputStyle.Name
	sc.Model = Model{ID: in.Model.ID, DisplayName: in.Model.DisplayName}
	sc.Metrics = metricsFrom(in)
	r.transcriptFallback(ctx, sc)
	if r.CountConfig {
		counts := CountConfig(r.Home, cwd)
		sc.ConfigCounts = &counts
	}

	if r.Git != nil {
		st, err := r.Git.Probe(ctx, cwd)
		switch {
		case err == nil:
			sc.Git = st
		case errors.Is(err, git.ErrTimeout):
			logger.Debug("git probe timed out", "dir", cwd, "error", err)
		default:
			logger.Debug("git state unavailable", "dir", cwd, "error", err)
		}
	}
	return sc, nil
}

// transcriptFallback fills the context token count from the transcript when
// the payload carried no context window occupancy.
func (r *Reader) transcriptFallback(ctx context.Context, sc *Context) {
	if sc.TranscriptPath == "" {
		return
	}
	if m := sc.Metrics; m != nil && (m.ContextTokens > 0 || m.HasUsedPercent) {
		return
	}
	tokens, ok, err := TranscriptContextTokens(sc.TranscriptPath)
	if err != nil {
		ctxlog.FromContext(ctx).Debug("transcript unreadable", "path", sc.TranscriptPath, "error", err)
		return
	}
	if !ok || tokens <= 0 {
		return
	}
	if sc.Metrics == nil {
		sc.Metrics = &Metrics{}
	}
	sc.Metrics.ContextTokens = tokens
}

// workingDir picks workspace.current_dir, then cwd, then the legacy
// workspaceDirectory, then the process directory.
func (r *Reader) workingDir(in *Input) (string, error) {
	for _, dir := range []string{in.Workspace.CurrentDir, in.Cwd, in.WorkspaceDirectory} {
		if dir != "" {
			return filepath.Clean(dir), nil
		}
	}

	getwd := r.Getwd
	if getwd == nil {
		getwd = os.Getwd
	}
	dir, err := getwd()
	if err != nil || dir == "" {
		return "", &ContextError{Op: "resolve working directory", Field: "workspace.current_dir", Err: err}
	}
	return filepath.Clean(dir), nil
}

func (r *Reader) getenv(key string) string {
	if r.Getenv == nil {
		return os.Getenv(key)
	}
	return r.Getenv(key)
}

// metricsFrom collects counters from the current payload fields, falling
// back to the legacy usage block. It returns nil when nothing was supplied.
func metricsFrom(in *Input) *Metrics {
	m := &Metrics{}
	supplied := false

	if cw := in.ContextWindow; cw != nil {
		supplied = true
		m.InputTokens = cw.TotalInputTokens
		m.OutputTokens = cw.TotalOutputTokens
		m.ContextSize = cw.ContextWindowSize
		m.ContextTokens = cw.CurrentUsage.ContextTokens()
		if cw.UsedPercentage != nil {
			m.UsedPercent = *cw.UsedPercentage
			m.HasUsedPercent = true
		}
	}

	if u := in.Usage; u != nil {
		supplied = true
		if m.InputTokens == 0 {
			m.InputTokens = u.InputTokens
		}
		if m.OutputTokens == 0 {
			m.OutputTokens = u.OutputTokens
		}
		if m.InputTokens == 0 && m.OutputTokens == 0 && u.TotalTokens > 0 {
			m.InputTokens = u.TotalTokens
		}
	}

	if c := in.Cost; c != nil {
		supplied = true
		if c.TotalCostUSD != nil {
			m.CostUSD = *c.TotalCostUSD
			m.HasCost = true
		}
		m.Duration = time.Duration(c.TotalDurationMS) * time.Millisecond
		m.APIDuration = time.Duration(c.TotalAPIDurationMS) * time.Millisecond
		m.LinesAdded = c.TotalLinesAdded
		m.LinesRemoved = c.TotalLinesRemoved
	}

	if !supplied {
		return nil
	}
	return m
}
