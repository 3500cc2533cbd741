package git

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultTimeout bounds the whole probe, all subcommands included.
const DefaultTimeout = 200 * time.Millisecond

var (
	// ErrNotRepo is returned when the directory is not inside a work tree.
	ErrNotRepo = errors.New("git: not a repository")
	// ErrTimeout is returned when the probe deadline expired.
	ErrTimeout = errors.New("git: probe timed out")
)

// Runner executes git with args in dir and returns its stdout.
type Runner func(ctx context.Context, dir string, args ...string) ([]byte, error)

// ExecRunner runs the git binary found on PATH.
func ExecRunner(ctx context.Context, dir string, args ...string) ([]byte, error) {
	full := append([]string{"--no-optional-locks"}, args...)
	cmd := exec.CommandContext(ctx, "git", full...)
	cmd.Dir = dir
	// git may leave children holding the pipe after a kill.
	cmd.WaitDelay = 20 * time.Millisecond
	return cmd.Output()
}

// Prober collects a State for a directory.
type Prober struct {
	Timeout  time.Duration
	WithSHA  bool
	Upstream bool

	run Runner
}

// Option configures a Prober.
type Option func(*Prober)

// WithTimeout overrides DefaultTimeout. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(p *Prober) {
		if d > 0 {
			p.Timeout = d
		}
	}
}

// WithSHA makes the probe include the short commit hash.
func WithSHA(on bool) Option {
	return func(p *Prober) { p.WithSHA = on }
}

// WithUpstream makes the probe count commits ahead of and behind upstream.
func WithUpstream(on bool) Option {
	return func(p *Prober) { p.Upstream = on }
}

// WithRunner replaces the git executor, mainly for tests.
func WithRunner(r Runner) Option {
	return func(p *Prober) { p.run = r }
}

// NewProber returns a Prober using the git binary and DefaultTimeout.
func NewProber(opts ...Option) *Prober {
	p := &Prober{Timeout: DefaultTimeout, Upstream: true, run: ExecRunner}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Probe returns the repository state of dir. It fails with ErrNotRepo or
// ErrTimeout; the call never outlives p.Timeout.
func (p *Prober) Probe(ctx context.Context, dir string) (*State, error) {
	ctx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()

	if _, err := p.run(ctx, dir, "rev-parse", "--is-inside-work-tree"); err != nil {
		return nil, p.classify(ctx, err)
	}

	st := &State{}
	var porcelain []byte

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		branch, detached, err := p.branch(gctx, dir)
		if err != nil {
			return err
		}
		st.Branch, st.Detached = branch, detached
		return nil
	})
	g.Go(func() error {
		out, err := p.run(gctx, dir, "status", "--porcelain")
		if err != nil {
			return fmt.Errorf("git status: %w", err)
		}
		porcelain = out
		return nil
	})
	if p.Upstream {
		g.Go(func() error {
			// no upstream configured is not an error
			out, err := p.run(gctx, dir, "rev-list", "--left-right", "--count", "@{u}...HEAD")
			if err == nil {
				st.Ahead, st.Behind, _ = parseLeftRight(out)
			}
			return nil
		})
	}
	if p.WithSHA {
		g.Go(func() error {
			out, err := p.run(gctx, dir, "rev-parse", "--short=7", "HEAD")
			if err == nil {
				st.SHA = strings.TrimSpace(string(out))
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, p.classify(ctx, err)
	}
	parsePorcelain(porcelain, st)
	return st, nil
}

// branch resolves the current branch, falling back to the short hash when
// HEAD is detached.
func (p *Prober) branch(ctx context.Context, dir string) (string, bool, error) {
	out, err := p.run(ctx, dir, "branch", "--show-current")
	if err != nil {
		return "", false, fmt.Errorf("git branch: %w", err)
	}
	if name := strings.TrimSpace(string(out)); name != "" {
		return name, false, nil
	}

	out, err = p.run(ctx, dir, "rev-parse", "--short", "HEAD")
	if err != nil {
		// fresh repository without commits
		return "HEAD", true, nil
	}
	return strings.TrimSpace(string(out)), true, nil
}

func (p *Prober) classify(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w after %s", ErrTimeout, p.Timeout)
	}
	if errors.Is(err, ErrTimeout) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrNotRepo, err)
}
