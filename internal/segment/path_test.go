package segment

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ccline/internal/session"
)

func TestAbbreviateHome(t *testing.T) {
	tests := []struct {
		name string
		path string
		home string
		want string
	}{
		{name: "inside home", path: "/home/dev/src/app", home: "/home/dev", want: "~/src/app"},
		{name: "home itself", path: "/home/dev", home: "/home/dev", want: "~"},
		{name: "sibling with shared prefix", path: "/home/dev2/app", home: "/home/dev", want: "/home/dev2/app"},
		{name: "outside home", path: "/tmp", home: "/home/dev", want: "/tmp"},
		{name: "unknown home", path: "/home/dev/app", home: "", want: "/home/dev/app"},
		{name: "root home", path: "/srv", home: "/", want: "/srv"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AbbreviateHome(tt.path, tt.home)
			if got != tt.want {
				t.Errorf("AbbreviateHome() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLastComponents(t *testing.T) {
	tests := []struct {
		name string
		path string
		n    int
		want string
	}{
		{name: "disabled", path: "/a/b/c/d", n: 0, want: "/a/b/c/d"},
		{name: "short enough", path: "~/a/b", n: 3, want: "~/a/b"},
		{name: "trimmed", path: "/usr/local/share/very/deep", n: 2, want: "…/very/deep"},
		{name: "keeps final", path: "~/work/project", n: 1, want: "…/project"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LastComponents(tt.path, tt.n)
			if got != tt.want {
				t.Errorf("LastComponents() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPathProduce(t *testing.T) {
	th := plainTheme()

	seg, ok := Path{}.Produce(&session.Context{Cwd: "/home/dev/src/app", Home: "/home/dev"}, th)
	assert.True(t, ok)
	assert.Equal(t, KindPath, seg.Kind)
	assert.Equal(t, "~/src/app", seg.Text)
	assert.Equal(t, th.Style("path"), seg.Style)

	seg, ok = Path{MaxComponents: 1}.Produce(&session.Context{Cwd: "/tmp/a/b"}, th)
	assert.True(t, ok)
	assert.Equal(t, "…/b", seg.Text)

	_, ok = Path{}.Produce(&session.Context{}, th)
	assert.False(t, ok)
}
