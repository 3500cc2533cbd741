// Package config loads the statusline configuration: built-in defaults,
// then ~/.claude/ccline/config.toml, then a project .ccline.toml, then
// CCLINE_* environment variables. Unknown keys are ignored and invalid
// values fall back to their defaults; loading a config never fails a render.
//
// The package also owns models.toml, which maps model ids to display names
// and context window sizes.
package config
