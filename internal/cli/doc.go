// Package cli builds the ccline command: flag parsing, the config
// maintenance actions and exit codes. The statusline itself runs in app.
package cli
