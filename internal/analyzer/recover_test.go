package analyzer

import (
	"reflect"
	"testing"
)

func TestRecoverStructured(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want any
	}{
		{
			name: "valid object",
			raw:  `{"name": "Ada Lovelace", "skills": ["Go"]}`,
			want: map[string]any{
				"name":   "Ada Lovelace",
				"skills": []any{"Go"},
			},
		},
		{
			name: "valid array",
			raw:  `[{"id": "r1"}, {"id": "r2"}]`,
			want: []any{
				map[string]any{"id": "r1"},
				map[string]any{"id": "r2"},
			},
		},
		{
			name: "valid scalar",
			raw:  `42`,
			want: float64(42),
		},
		{
			name: "object wrapped in prose",
			raw:  "Sure, here is the result:\n{\"match_score\": 85}\nLet me know if you need more.",
			want: map[string]any{"match_score": float64(85)},
		},
		{
			name: "object in markdown fence",
			raw:  "```json\n{\"summary\": \"ok\"}\n```",
			want: map[string]any{"summary": "ok"},
		},
		{
			name: "nested braces",
			raw:  "result: {\"outer\": {\"inner\": 1}} done",
			want: map[string]any{"outer": map[string]any{"inner": float64(1)}},
		},
		{
			name: "no braces at all",
			raw:  "I could not process that resume.",
			want: map[string]any{
				"raw_text": "I could not process that resume.",
				"error":    ErrMsgUnparseable,
			},
		},
		{
			name: "braces around invalid payload",
			raw:  "{not json at all}",
			want: map[string]any{
				"raw_text": "{not json at all}",
				"error":    ErrMsgUnparseable,
			},
		},
		{
			name: "closing brace before opening brace",
			raw:  "} {",
			want: map[string]any{
				"raw_text": "} {",
				"error":    ErrMsgUnparseable,
			},
		},
		{
			name: "empty input",
			raw:  "",
			want: map[string]any{
				"raw_text": "",
				"error":    ErrMsgUnparseable,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RecoverStructured(tt.raw)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("RecoverStructured(%q) = %#v, want %#v", tt.raw, got, tt.want)
			}
		})
	}
}
