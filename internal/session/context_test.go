package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ccline/internal/git"
)

type stubProber struct {
	state *git.State
	err   error
	dirs  []string
}

func (s *stubProber) Probe(ctx context.Context, dir string) (*git.State, error) {
	s.dirs = append(s.dirs, dir)
	return s.state, s.err
}

func newReader(p GitProber) *Reader {
	return &Reader{
		Git:    p,
		Getenv: func(string) string { return "" },
		Getwd:  func() (string, error) { return "/proc/cwd", nil },
		Home:   "/home/u",
	}
}

const fullPayload = `{
  "session_id": "abc-123",
  "transcript_path": "/home/u/.claude/projects/x/abc-123.jsonl",
  "cwd": "/home/u/other",
  "model": {"id": "claude-opus-4-1-20250805", "display_name": "Opus"},
  "workspace": {"current_dir": "/home/u/proj", "project_dir": "/home/u/proj"},
  "version": "1.0.80",
  "output_style": {"name": "default"},
  "cost": {
    "total_cost_usd": 0.42,
    "total_duration_ms": 125000,
    "total_api_duration_ms": 30000,
    "total_lines_added": 156,
    "total_lines_removed": 23
  },
  "context_window": {
    "total_input_tokens": 15234,
    "total_output_tokens": 4521,
    "context_window_size": 200000,
    "used_percentage": 42.5,
    "current_usage": {
      "input_tokens": 8500,
      "output_tokens": 1200,
      "cache_creation_input_tokens": 5000,
      "cache_read_input_tokens": 2000
    }
  }
}`

func TestReadFullPayload(t *testing.T) {
	p := &stubProber{state: &git.State{Branch: "main"}}
	sc, err := newReader(p).Read(context.Background(), strings.NewReader(fullPayload))
	require.NoError(t, err)

	assert.Equal(t, "/home/u/proj", sc.Cwd, "workspace.current_dir beats cwd")
	assert.Equal(t, "/home/u/proj", sc.ProjectDir)
	assert.Equal(t, "/home/u", sc.Home)
	assert.Equal(t, "abc-123", sc.SessionID)
	assert.Equal(t, "1.0.80", sc.Version)
	assert.Equal(t, "default", sc.OutputStyle)
	assert.Equal(t, Model{ID: "claude-opus-4-1-20250805", DisplayName: "Opus"}, sc.Model)
	assert.Equal(t, []string{"/home/u/proj"}, p.dirs)
	require.NotNil(t, sc.Git)
	assert.Equal(t, "main", sc.Git.Branch)

	require.NotNil(t, sc.Metrics)
	m := sc.Metrics
	assert.Equal(t, 15234, m.InputTokens)
	assert.Equal(t, 4521, m.OutputTokens)
	assert.Equal(t, 15500, m.ContextTokens)
	assert.Equal(t, 200000, m.ContextSize)
	assert.True(t, m.HasUsedPercent)
	assert.InDelta(t, 42.5, m.UsedPercent, 1e-9)
	assert.True(t, m.HasCost)
	assert.InDelta(t, 0.42, m.CostUSD, 1e-9)
	assert.Equal(t, 125*time.Second, m.Duration)
	assert.Equal(t, 30*time.Second, m.APIDuration)
	assert.Equal(t, 156, m.LinesAdded)
	assert.Equal(t, 23, m.LinesRemoved)
}

func TestReadMinimalPayload(t *testing.T) {
	sc, err := newReader(nil).Read(context.Background(), strings.NewReader(`{"model":{"display_name":"sonnet"},"cwd":"/tmp/"}`))
	require.NoError(t, err)

	assert.Equal(t, "/tmp", sc.Cwd)
	assert.Equal(t, "/tmp", sc.ProjectDir)
	assert.Equal(t, "sonnet", sc.Model.DisplayName)
	assert.Nil(t, sc.Git)
	assert.Nil(t, sc.Metrics, "no counters supplied")
}

func TestReadLegacyPayload(t *testing.T) {
	payload := `{"workspaceDirectory":"/srv/app","usage":{"inputTokens":1000,"outputTokens":500}}`
	sc, err := newReader(nil).Read(context.Background(), strings.NewReader(payload))
	require.NoError(t, err)

	assert.Equal(t, "/srv/app", sc.Cwd)
	require.NotNil(t, sc.Metrics)
	assert.Equal(t, 1000, sc.Metrics.InputTokens)
	assert.Equal(t, 500, sc.Metrics.OutputTokens)
	assert.False(t, sc.Metrics.HasCost)
}

func TestReadLegacyTotalOnly(t *testing.T) {
	payload := `{"cwd":"/srv","usage":{"totalTokens":9000}}`
	sc, err := newReader(nil).Read(context.Background(), strings.NewReader(payload))
	require.NoError(t, err)
	assert.Equal(t, 9000, sc.Metrics.InputTokens)
}

func TestReadEmptyInputUsesProcessDir(t *testing.T) {
	r := newReader(nil)
	r.Getenv = func(k string) string {
		if k == "CLAUDE_SESSION_ID" {
			return "from-env"
		}
		return ""
	}

	for _, in := range []string{"", "  \n\t"} {
		sc, err := r.Read(context.Background(), strings.NewReader(in))
		require.NoError(t, err)
		assert.Equal(t, "/proc/cwd", sc.Cwd)
		assert.Equal(t, "from-env", sc.SessionID)
		assert.True(t, sc.Model.Empty())
	}
}

func TestReadMalformedJSON(t *testing.T) {
	tests := []string{
		`{"cwd": "/tmp"`,
		`[1, 2, 3]`,
		`not json at all`,
		`{"model": "opus"}`,
	}
	for _, in := range tests {
		t.Run(in, func(t *testing.T) {
			sc, err := newReader(nil).Read(context.Background(), strings.NewReader(in))
			assert.Nil(t, sc)

			var ce *ContextError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, "decode payload", ce.Op)
		})
	}
}

func TestReadMissingWorkingDirectory(t *testing.T) {
	r := newReader(nil)
	r.Getwd = func() (string, error) { return "", errors.New("getwd: no such file or directory") }

	_, err := r.Read(context.Background(), strings.NewReader(`{"model":{"id":"x"}}`))
	var ce *ContextError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "workspace.current_dir", ce.Field)
	assert.Contains(t, ce.Error(), "workspace.current_dir")
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("stdin closed") }

func TestReadStdinFailure(t *testing.T) {
	_, err := newReader(nil).Read(context.Background(), failingReader{})
	var ce *ContextError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "read stdin", ce.Op)
}

func TestGitFailuresAreAbsence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "not a repository", err: fmt.Errorf("%w: exit status 128", git.ErrNotRepo)},
		{name: "timeout", err: fmt.Errorf("%w after 200ms", git.ErrTimeout)},
		{name: "anything else", err: errors.New("git: executable file not found")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &stubProber{err: tt.err}
			sc, err := newReader(p).Read(context.Background(), strings.NewReader(fullPayload))
			require.NoError(t, err)
			assert.Nil(t, sc.Git)
			assert.Equal(t, "/home/u/proj", sc.Cwd)
			assert.NotNil(t, sc.Metrics, "other fields unaffected")
			assert.Equal(t, "claude-opus-4-1-20250805", sc.Model.ID)
		})
	}
}

func TestContextErrorMessages(t *testing.T) {
	assert.Equal(t, "session: decode payload: boom",
		(&ContextError{Op: "decode payload", Err: errors.New("boom")}).Error())
	assert.Equal(t, "session: resolve working directory: missing cwd",
		(&ContextError{Op: "resolve working directory", Field: "cwd"}).Error())
}
