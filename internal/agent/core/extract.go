package core

import (
	"encoding/json"
	"strings"
)

// previewLimit bounds how much of a bad model response ends up in an error.
const previewLimit = 500

// ExtractJSON locates the first brace-delimited JSON object inside freeform
// model output and returns the raw span. The match is greedy, from the first
// '{' to the last '}', which assumes at most one top-level object per
// response; prose before and after the object is tolerated.
func ExtractJSON(text string) ([]byte, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return nil, &ExtractionError{Message: "no JSON object found in text"}
	}

	span := []byte(text[start : end+1])
	if !json.Valid(span) {
		// Re-parse for the underlying reason; json.Valid has no error detail.
		var probe any
		err := json.Unmarshal(span, &probe)
		return nil, &ParseError{Preview: truncate(text, previewLimit), Err: err}
	}
	return span, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
