// Package git queries repository state for the statusline. Every probe runs
// under a single deadline; a slow or missing repository yields an error the
// caller treats as "no git segment", never a failed render.
package git
