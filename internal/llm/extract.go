package llm

import (
	"bytes"
	"encoding/json"
)

// ExtractJSON returns the JSON object embedded in a model reply. Models
// asked for "JSON only" still sometimes wrap the object in a Markdown fence
// or add a sentence before it; this trims to the outermost {...}. When no
// braces are found the trimmed input is returned unchanged so the caller's
// parse reports the failure.
func ExtractJSON(text []byte) json.RawMessage {
	t := bytes.TrimSpace(text)
	if bytes.HasPrefix(t, []byte("```")) {
		if nl := bytes.IndexByte(t, '\n'); nl >= 0 {
			t = t[nl+1:]
		}
		t = bytes.TrimSuffix(bytes.TrimSpace(t), []byte("```"))
		t = bytes.TrimSpace(t)
	}
	start := bytes.IndexByte(t, '{')
	end := bytes.LastIndexByte(t, '}')
	if start < 0 || end < start {
		return json.RawMessage(t)
	}
	return json.RawMessage(t[start : end+1])
}
