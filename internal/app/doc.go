// Package app contains the statusline pipeline. It wires configuration,
// logging, the context reader, segment providers, layout and rendering for
// one invocation, decoupled from the command-line entrypoint.
package app
