package git

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGit answers git invocations from a table keyed by the joined args.
type fakeGit struct {
	mu      sync.Mutex
	answers map[string]string
	fail    map[string]bool
	calls   []string
}

func (f *fakeGit) run(ctx context.Context, dir string, args ...string) ([]byte, error) {
	key := strings.Join(args, " ")
	f.mu.Lock()
	f.calls = append(f.calls, key)
	f.mu.Unlock()

	if f.fail[key] {
		return nil, errors.New("exit status 128")
	}
	out, ok := f.answers[key]
	if !ok {
		return nil, errors.New("exit status 1")
	}
	return []byte(out), nil
}

func repoAnswers() map[string]string {
	return map[string]string{
		"rev-parse --is-inside-work-tree":          "true\n",
		"branch --show-current":                    "main\n",
		"status --porcelain":                       "",
		"rev-list --left-right --count @{u}...HEAD": "1\t3\n",
		"rev-parse --short=7 HEAD":                 "abc1234\n",
	}
}

func TestProbeCleanRepository(t *testing.T) {
	f := &fakeGit{answers: repoAnswers()}
	p := NewProber(WithRunner(f.run), WithSHA(true))

	st, err := p.Probe(context.Background(), "/repo")
	require.NoError(t, err)
	assert.Equal(t, "main", st.Branch)
	assert.False(t, st.Detached)
	assert.Equal(t, StatusClean, st.Status)
	assert.False(t, st.Dirty())
	assert.Equal(t, 3, st.Ahead)
	assert.Equal(t, 1, st.Behind)
	assert.Equal(t, "abc1234", st.SHA)
}

func TestProbeDirtyRepository(t *testing.T) {
	answers := repoAnswers()
	answers["status --porcelain"] = "M  staged.go\n M edited.go\nMM both.go\n?? new.go\n"
	f := &fakeGit{answers: answers}

	st, err := NewProber(WithRunner(f.run)).Probe(context.Background(), "/repo")
	require.NoError(t, err)
	assert.Equal(t, StatusDirty, st.Status)
	assert.True(t, st.Dirty())
	assert.Equal(t, 2, st.Staged)
	assert.Equal(t, 2, st.Unstaged)
	assert.Equal(t, 1, st.Untracked)
	assert.Equal(t, 5, st.Changes())
	assert.Empty(t, st.SHA, "sha is opt-in")
}

func TestProbeConflicts(t *testing.T) {
	answers := repoAnswers()
	answers["status --porcelain"] = "UU merge.go\n M other.go\n"
	f := &fakeGit{answers: answers}

	st, err := NewProber(WithRunner(f.run)).Probe(context.Background(), "/repo")
	require.NoError(t, err)
	assert.Equal(t, StatusConflicts, st.Status)
	assert.Equal(t, 1, st.Conflicts)
}

func TestProbeDetachedHead(t *testing.T) {
	answers := repoAnswers()
	answers["branch --show-current"] = "\n"
	answers["rev-parse --short HEAD"] = "deadbee\n"
	f := &fakeGit{answers: answers}

	st, err := NewProber(WithRunner(f.run)).Probe(context.Background(), "/repo")
	require.NoError(t, err)
	assert.Equal(t, "deadbee", st.Branch)
	assert.True(t, st.Detached)
}

func TestProbeWithoutUpstream(t *testing.T) {
	answers := repoAnswers()
	delete(answers, "rev-list --left-right --count @{u}...HEAD")
	f := &fakeGit{answers: answers}

	st, err := NewProber(WithRunner(f.run)).Probe(context.Background(), "/repo")
	require.NoError(t, err)
	assert.Zero(t, st.Ahead)
	assert.Zero(t, st.Behind)
}

func TestProbeSkipsUpstreamWhenDisabled(t *testing.T) {
	f := &fakeGit{answers: repoAnswers()}

	_, err := NewProber(WithRunner(f.run), WithUpstream(false)).Probe(context.Background(), "/repo")
	require.NoError(t, err)
	assert.NotContains(t, f.calls, "rev-list --left-right --count @{u}...HEAD")
}

func TestProbeNotRepository(t *testing.T) {
	f := &fakeGit{fail: map[string]bool{"rev-parse --is-inside-work-tree": true}}

	st, err := NewProber(WithRunner(f.run)).Probe(context.Background(), "/tmp")
	assert.Nil(t, st)
	assert.ErrorIs(t, err, ErrNotRepo)
}

func TestProbeTimeout(t *testing.T) {
	blocking := func(ctx context.Context, dir string, args ...string) ([]byte, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	p := NewProber(WithRunner(blocking), WithTimeout(10*time.Millisecond))

	start := time.Now()
	st, err := p.Probe(context.Background(), "/slow")
	assert.Nil(t, st)
	assert.ErrorIs(t, err, ErrTimeout)
	assert.Less(t, time.Since(start), time.Second)
}

func TestProbeTimeoutDuringStatus(t *testing.T) {
	f := &fakeGit{answers: repoAnswers()}
	slowStatus := func(ctx context.Context, dir string, args ...string) ([]byte, error) {
		if strings.Join(args, " ") == "status --porcelain" {
			<-ctx.Done()
			return nil, ctx.Err()
		}
		return f.run(ctx, dir, args...)
	}
	p := NewProber(WithRunner(slowStatus), WithTimeout(10*time.Millisecond))

	_, err := p.Probe(context.Background(), "/repo")
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestParseLeftRight(t *testing.T) {
	tests := []struct {
		name       string
		out        string
		wantAhead  int
		wantBehind int
		wantOK     bool
	}{
		{name: "both", out: "2\t5\n", wantAhead: 5, wantBehind: 2, wantOK: true},
		{name: "even", out: "0\t0", wantOK: true},
		{name: "garbage", out: "fatal: no upstream", wantOK: false},
		{name: "empty", out: "", wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b, ok := parseLeftRight([]byte(tt.out))
			if a != tt.wantAhead || b != tt.wantBehind || ok != tt.wantOK {
				t.Errorf("parseLeftRight(%q) = %d, %d, %v, want %d, %d, %v",
					tt.out, a, b, ok, tt.wantAhead, tt.wantBehind, tt.wantOK)
			}
		})
	}
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "clean", StatusClean.String())
	assert.Equal(t, "dirty", StatusDirty.String())
	assert.Equal(t, "conflicts", StatusConflicts.String())
}
