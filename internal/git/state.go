package git

import (
	"bufio"
	"bytes"
	"strconv"
	"strings"
)

// Status is the coarse working tree state.
type Status int

const (
	StatusClean Status = iota
	StatusDirty
	StatusConflicts
)

// String returns the lowercase name of the status.
func (s Status) String() string {
	switch s {
	case StatusDirty:
		return "dirty"
	case StatusConflicts:
		return "conflicts"
	default:
		return "clean"
	}
}

// State is a snapshot of a repository as seen from one directory.
type State struct {
	Branch   string
	Detached bool
	SHA      string

	Status    Status
	Staged    int
	Unstaged  int
	Untracked int
	Conflicts int

	Ahead  int
	Behind int
}

// Dirty reports whether the working tree has any change, conflicts included.
func (s *State) Dirty() bool {
	return s != nil && s.Status != StatusClean
}

// Changes is the number of paths git status reported.
func (s *State) Changes() int {
	if s == nil {
		return 0
	}
	return s.Staged + s.Unstaged + s.Untracked + s.Conflicts
}

// conflict codes from git-status(1) short format.
var conflictCodes = map[string]bool{
	"DD": true, "AU": true, "UD": true, "UA": true,
	"DU": true, "AA": true, "UU": true,
}

// parsePorcelain counts entries of `git status --porcelain` (v1) output into s.
func parsePorcelain(out []byte, s *State) {
	s.Staged, s.Unstaged, s.Untracked, s.Conflicts = 0, 0, 0, 0

	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		line := sc.Text()
		if len(line) < 2 {
			continue
		}
		code := line[:2]
		switch {
		case code == "??":
			s.Untracked++
		case conflictCodes[code]:
			s.Conflicts++
		default:
			if code[0] != ' ' {
				s.Staged++
			}
			if code[1] != ' ' {
				s.Unstaged++
			}
		}
	}

	switch {
	case s.Conflicts > 0:
		s.Status = StatusConflicts
	case s.Staged+s.Unstaged+s.Untracked > 0:
		s.Status = StatusDirty
	default:
		s.Status = StatusClean
	}
}

// parseLeftRight parses `rev-list --left-right --count @{u}...HEAD` output,
// which prints "<behind>\t<ahead>".
func parseLeftRight(out []byte) (ahead, behind int, ok bool) {
	fields := strings.Fields(string(out))
	if len(fields) != 2 {
		return 0, 0, false
	}
	b, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, false
	}
	a, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, false
	}
	return a, b, true
}
