package session

import (
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ConfigCounts tallies the Claude configuration in effect for a directory.
type ConfigCounts struct {
	ClaudeMD int
	Rules    int
	MCP      int
	Hooks    int
}

// Any reports whether anything was found.
func (c ConfigCounts) Any() bool {
	return c.ClaudeMD+c.Rules+c.MCP+c.Hooks > 0
}

// settingsFile is the subset of a Claude settings file that is counted.
type settingsFile struct {
	MCPServers             map[string]json.RawMessage
	Hooks                  map[string]json.RawMessage
	DisabledMCPServers     []any
	DisabledMCPJSONServers []any
}

// CountConfig scans the user scope under home and, when cwd is set, the
// project scope under cwd. Unreadable or malformed files count as empty.
// MCP servers are deduplicated within a scope but not across scopes.
func CountConfig(home, cwd string) ConfigCounts {
	var c ConfigCounts

	if home != "" {
		claudeDir := filepath.Join(home, ".claude")
		c.ClaudeMD += countFiles(filepath.Join(claudeDir, "CLAUDE.md"))
		c.Rules += countRules(filepath.Join(claudeDir, "rules"))

		settings := readSettings(filepath.Join(claudeDir, "settings.json"))
		c.Hooks += len(settings.Hooks)

		global := readSettings(filepath.Join(home, ".claude.json"))
		servers := serverNames(settings, global)
		for _, name := range disabledNames(global.DisabledMCPServers) {
			delete(servers, name)
		}
		c.MCP += len(servers)
	}

	if cwd != "" {
		projectDir := filepath.Join(cwd, ".claude")
		c.ClaudeMD += countFiles(
			filepath.Join(cwd, "CLAUDE.md"),
			filepath.Join(cwd, "CLAUDE.local.md"),
			filepath.Join(projectDir, "CLAUDE.md"),
			filepath.Join(projectDir, "CLAUDE.local.md"),
		)
		c.Rules += countRules(filepath.Join(projectDir, "rules"))

		settings := readSettings(filepath.Join(projectDir, "settings.json"))
		local := readSettings(filepath.Join(projectDir, "settings.local.json"))
		c.Hooks += len(settings.Hooks) + len(local.Hooks)

		// Servers from .mcp.json can be switched off in settings.local.json.
		mcpJSON := serverNames(readSettings(filepath.Join(cwd, ".mcp.json")))
		for _, name := range disabledNames(local.DisabledMCPJSONServers) {
			delete(mcpJSON, name)
		}
		servers := serverNames(settings, local)
		for name := range mcpJSON {
			servers[name] = struct{}{}
		}
		c.MCP += len(servers)
	}
	return c
}

// readSettings decodes each counted key on its own, so a key of the wrong
// shape does not hide the others.
func readSettings(path string) settingsFile {
	var s settingsFile
	raw, err := os.ReadFile(path)
	if err != nil {
		return s
	}
	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		return s
	}
	decode := func(key string, v any) {
		if field, ok := top[key]; ok {
			_ = json.Unmarshal(field, v)
		}
	}
	decode("mcpServers", &s.MCPServers)
	decode("hooks", &s.Hooks)
	decode("disabledMcpServers", &s.DisabledMCPServers)
	decode("disabledMcpjsonServers", &s.DisabledMCPJSONServers)
	return s
}

func serverNames(files ...settingsFile) map[string]struct{} {
	names := make(map[string]struct{})
	for _, f := range files {
		for name := range f.MCPServers {
			names[name] = struct{}{}
		}
	}
	return names
}

// disabledNames keeps the string entries of a disabled-servers list.
func disabledNames(list []any) []string {
	out := make([]string, 0, len(list))
	for _, v := range list {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func countFiles(paths ...string) int {
	n := 0
	for _, p := range paths {
		if info, err := os.Stat(p); err == nil && info.Mode().IsRegular() {
			n++
		}
	}
	return n
}

// countRules counts .md files below dir, recursively.
func countRules(dir string) int {
	n := 0
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			return nil
		}
		if d.Type().IsRegular() && strings.EqualFold(filepath.Ext(path), ".md") {
			n++
		}
		return nil
	})
	return n
}
