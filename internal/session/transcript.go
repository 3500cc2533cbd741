package session

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// transcriptTail bounds how much of a transcript is read. The newest
// assistant turn is at the end; older history is never needed.
const transcriptTail = 256 << 10

type transcriptEntry struct {
	Type    string `json:"type"`
	Message *struct {
		Usage *CurrentUsage `json:"usage"`
	} `json:"message"`
}

// TranscriptContextTokens returns the context size of the last assistant
// turn recorded in the JSONL transcript at path. ok is false when the file
// holds no assistant usage within its last transcriptTail bytes.
func TranscriptContextTokens(path string) (tokens int, ok bool, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, false, fmt.Errorf("open transcript: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return 0, false, fmt.Errorf("stat transcript: %w", err)
	}
	offset := info.Size() - transcriptTail
	if offset < 0 {
		offset = 0
	}
	buf, err := io.ReadAll(io.NewSectionReader(f, offset, info.Size()-offset))
	if err != nil {
		return 0, false, fmt.Errorf("read transcript: %w", err)
	}
	if offset > 0 {
		// The first line is cut; skip it.
		if i := bytes.IndexByte(buf, '\n'); i >= 0 {
			buf = buf[i+1:]
		} else {
			buf = nil
		}
	}

	tokens, ok = lastAssistantUsage(buf)
	return tokens, ok, nil
}

func lastAssistantUsage(buf []byte) (int, bool) {
	for len(buf) > 0 {
		line := buf
		if i := bytes.LastIndexByte(buf, '\n'); i >= 0 {
			line = buf[i+1:]
			buf = buf[:i]
		} else {
			buf = nil
		}
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}

		var entry transcriptEntry
		if err := json.Unmarshal(line, &entry); err != nil {
			continue
		}
		if entry.Type != "assistant" || entry.Message == nil || entry.Message.Usage == nil {
			continue
		}
		return entry.Message.Usage.ContextTokens(), true
	}
	return 0, false
}
