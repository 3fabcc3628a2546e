package formatters

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestJSONFormatter(t *testing.T) {
	data := map[string]any{
		"skills":  []any{"Go", "SQL"},
		"summary": "Backend engineer",
	}

	output, err := GlobalRegistry.Format(data, "json")
	if err != nil {
		t.Fatalf("Format returned error: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal([]byte(output), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded["summary"] != "Backend engineer" {
		t.Errorf("expected summary to round-trip, got %v", decoded["summary"])
	}
}

func TestTextFormatterMapOutput(t *testing.T) {
	data := map[string]any{
		"match_score": float64(85),
		"explanation": "Strong overlap in required skills",
		"matching_skills": []any{
			"Go",
			"Kubernetes",
		},
	}

	output, err := GlobalRegistry.Format(data, "text")
	if err != nil {
		t.Fatalf("Format returned error: %v", err)
	}

	for _, want := range []string{"match_score: 85", "explanation: Strong overlap", "- Go", "- Kubernetes"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, output)
		}
	}
}

func TestTextFormatterErrorKeyFirst(t *testing.T) {
	data := map[string]any{
		"raw_text": "not json",
		"error":    "Failed to parse AI response as JSON",
	}

	output, err := GlobalRegistry.Format(data, "text")
	if err != nil {
		t.Fatalf("Format returned error: %v", err)
	}

	if !strings.HasPrefix(output, "error:") {
		t.Errorf("expected error to lead the output, got:\n%s", output)
	}
}

func TestRankingsTextFormatter(t *testing.T) {
	rankings := []map[string]any{
		{"id": "alice", "match_score": float64(92), "explanation": "Great fit"},
		{"id": "bob", "match_score": float64(0), "error": "no ranking returned for candidate"},
	}

	output, err := GlobalRegistry.Format(rankings, "text")
	if err != nil {
		t.Fatalf("Format returned error: %v", err)
	}

	for _, want := range []string{"1. alice (score: 92)", "Great fit", "2. bob (score: 0)", "Error: no ranking returned"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, output)
		}
	}
}

func TestRankingsMarkdownFormatter(t *testing.T) {
	rankings := []map[string]any{
		{"id": "alice", "match_score": float64(92), "explanation": "Great fit"},
	}

	output, err := GlobalRegistry.Format(rankings, "markdown")
	if err != nil {
		t.Fatalf("Format returned error: %v", err)
	}

	if !strings.Contains(output, "| 1 | alice | 92 | Great fit |") {
		t.Errorf("expected markdown table row, got:\n%s", output)
	}
}

func TestFormatUnknownFormat(t *testing.T) {
	if _, err := GlobalRegistry.Format(map[string]any{}, "yaml"); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestGetDataType(t *testing.T) {
	tests := []struct {
		name     string
		data     any
		expected string
	}{
		{"ranked list", []map[string]any{}, "Rankings"},
		{"map result", map[string]any{}, "any"},
		{"string", "plain", "any"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := getDataType(tt.data); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}
