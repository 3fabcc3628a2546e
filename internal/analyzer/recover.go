package analyzer

import (
	"encoding/json"
	"strings"
)

// ErrMsgUnparseable is the in-band error carried by the recovery sentinel
// when no JSON value could be extracted from the model's text.
const ErrMsgUnparseable = "failed to parse structured data from model response"

// RecoverStructured turns the model's raw text into a structured value. It
// never fails: first the whole string is parsed as JSON; if that does not
// work, the substring between the first '{' and the last '}' is tried, which
// rescues responses wrapped in prose or markdown fences; if nothing parses,
// a sentinel mapping carrying the raw text and an error message is returned.
func RecoverStructured(raw string) any {
	var value any
	if err := json.Unmarshal([]byte(raw), &value); err == nil {
		return value
	}

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start != -1 && end != -1 && start < end {
		var value any
		if err := json.Unmarshal([]byte(raw[start:end+1]), &value); err == nil {
			return value
		}
	}

	return map[string]any{
		"raw_text": raw,
		"error":    ErrMsgUnparseable,
	}
}
