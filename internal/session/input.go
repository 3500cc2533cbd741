package session

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// ModelInfo represents the model information from the host
type ModelInfo struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// WorkspaceInfo represents the workspace information from the host
type WorkspaceInfo struct {
	CurrentDir string `json:"current_dir"`
	ProjectDir string `json:"project_dir"`
}

// OutputStyle is the active output style of the host.
type OutputStyle struct {
	Name string `json:"name"`
}

// CostInfo is the host's running session accounting.
type CostInfo struct {
	TotalCostUSD       *float64 `json:"total_cost_usd"`
	TotalDurationMS    int64    `json:"total_duration_ms"`
	TotalAPIDurationMS int64    `json:"total_api_duration_ms"`
	TotalLinesAdded    int      `json:"total_lines_added"`
	TotalLinesRemoved  int      `json:"total_lines_removed"`
}

// CurrentUsage is the token usage of the last request.
type CurrentUsage struct {
	InputTokens              int `json:"input_tokens"`
	OutputTokens             int `json:"output_tokens"`
	CacheCreationInputTokens int `json:"cache_creation_input_tokens"`
	CacheReadInputTokens     int `json:"cache_read_input_tokens"`
}

// ContextTokens is what the last request occupied in the context window.
func (u *CurrentUsage) ContextTokens() int {
	if u == nil {
		return 0
	}
	return u.InputTokens + u.CacheCreationInputTokens + u.CacheReadInputTokens
}

// ContextWindow describes context window occupancy.
type ContextWindow struct {
	TotalInputTokens  int           `json:"total_input_tokens"`
	TotalOutputTokens int           `json:"total_output_tokens"`
	ContextWindowSize int           `json:"context_window_size"`
	UsedPercentage    *float64      `json:"used_percentage"`
	CurrentUsage      *CurrentUsage `json:"current_usage"`
}

// UsageInfo represents token usage information (legacy payloads)
type UsageInfo struct {
	InputTokens  int `json:"inputTokens"`
	OutputTokens int `json:"outputTokens"`
	TotalTokens  int `json:"totalTokens"`
}

// Input represents the JSON payload the host writes to stdin
type Input struct {
	SessionID      string         `json:"session_id"`
	TranscriptPath string         `json:"transcript_path"`
	Cwd            string         `json:"cwd"`
	Model          ModelInfo      `json:"model"`
	Workspace      WorkspaceInfo  `json:"workspace"`
	Version        string         `json:"version"`
	OutputStyle    OutputStyle    `json:"output_style"`
	Cost           *CostInfo      `json:"cost,omitempty"`
	ContextWindow  *ContextWindow `json:"context_window,omitempty"`

	WorkspaceDirectory string     `json:"workspaceDirectory"` // Alternative field
	Usage              *UsageInfo `json:"usage,omitempty"`
}

// Decode reads one payload from r. Empty or whitespace-only input yields
// (nil, nil): the host may run the tool without a payload. Anything else
// that is not a JSON object is a *ContextError.
func Decode(r io.Reader) (*Input, error) {
	if r == nil {
		return nil, nil
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, &ContextError{Op: "read stdin", Err: err}
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, nil
	}

	var in Input
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, &ContextError{Op: "decode payload", Err: err}
	}
	return &in, nil
}

// ContextError reports input the statusline cannot build a context from.
type ContextError struct {
	Op    string
	Field string
	Err   error
}

func (e *ContextError) Error() string {
	switch {
	case e.Field != "" && e.Err != nil:
		return fmt.Sprintf("session: %s: %s: %v", e.Op, e.Field, e.Err)
	case e.Field != "":
		return fmt.Sprintf("session: %s: missing %s", e.Op, e.Field)
	default:
		return fmt.Sprintf("session: %s: %v", e.Op, e.Err)
	}
}

func (e *ContextError) Unwrap() error {
	return e.Err
}
