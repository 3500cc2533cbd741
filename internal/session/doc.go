// Package session turns the host's stdin payload, the environment and the
// working directory into an immutable Context for one render.
package session
