package analyzer

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/sms03/resume-mcp/internal/ai"
	"github.com/sms03/resume-mcp/internal/errors"
)

// stubGenerator is a scriptable Generator. When generate is set it drives the
// response per call; otherwise response and err are returned for every call.
type stubGenerator struct {
	response string
	err      error
	usage    *ai.TokenUsage
	generate func(call int, prompt string) (string, error)
	prompts  []string
}

func (s *stubGenerator) GenerateContent(_ context.Context, prompt string) (string, *ai.TokenUsage, error) {
	call := len(s.prompts)
	s.prompts = append(s.prompts, prompt)
	usage := s.usage
	if usage == nil {
		usage = &ai.TokenUsage{}
	}
	if s.generate != nil {
		text, err := s.generate(call, prompt)
		if err != nil {
			return "", nil, err
		}
		return text, usage, nil
	}
	if s.err != nil {
		return "", nil, s.err
	}
	return s.response, usage, nil
}

func newTestAnalyzer(analyze, match, rank Generator) *Analyzer {
	return New(analyze, match, rank, nil, errors.NewLogger(slog.LevelError))
}

func TestAnalyzeResume(t *testing.T) {
	stub := &stubGenerator{response: `{"name": "Ada Lovelace", "skills": ["Go", "SQL"]}`}
	a := newTestAnalyzer(stub, nil, nil)

	got := a.AnalyzeResume(context.Background(), "Ada Lovelace. Engineer with Go and SQL experience.")

	want := map[string]any{
		"name":   "Ada Lovelace",
		"skills": []any{"Go", "SQL"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("AnalyzeResume() = %#v, want %#v", got, want)
	}

	if len(stub.prompts) != 1 {
		t.Fatalf("expected 1 generator call, got %d", len(stub.prompts))
	}
	if !strings.Contains(stub.prompts[0], "Ada Lovelace. Engineer") {
		t.Errorf("prompt does not contain the resume text: %q", stub.prompts[0])
	}
}

func TestAnalyzeResumeGeneratorError(t *testing.T) {
	tests := []struct {
		name       string
		resumeText string
		wantText   string
	}{
		{
			name:       "short text kept whole",
			resumeText: "Short resume.",
			wantText:   "Short resume.",
		},
		{
			name:       "long text truncated with ellipsis",
			resumeText: strings.Repeat("x", 150),
			wantText:   strings.Repeat("x", 100) + "...",
		},
		{
			name:       "exactly at the limit kept whole",
			resumeText: strings.Repeat("y", 100),
			wantText:   strings.Repeat("y", 100),
		},
		{
			name:       "multi-byte text under the limit kept whole",
			resumeText: strings.Repeat("日", 60),
			wantText:   strings.Repeat("日", 60),
		},
		{
			name:       "multi-byte text truncated on character boundary",
			resumeText: strings.Repeat("日", 150),
			wantText:   strings.Repeat("日", 100) + "...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubGenerator{err: fmt.Errorf("model unavailable")}
			a := newTestAnalyzer(stub, nil, nil)

			got, ok := a.AnalyzeResume(context.Background(), tt.resumeText).(map[string]any)
			if !ok {
				t.Fatal("expected a map result on generator error")
			}
			if got["error"] != "model unavailable" {
				t.Errorf("error = %v, want %q", got["error"], "model unavailable")
			}
			if got["resume_text"] != tt.wantText {
				t.Errorf("resume_text = %q, want %q", got["resume_text"], tt.wantText)
			}
			if text, _ := got["resume_text"].(string); !utf8.ValidString(text) {
				t.Errorf("resume_text is not valid UTF-8: %q", text)
			}
		})
	}
}

func TestMatchResumeToJob(t *testing.T) {
	stub := &stubGenerator{response: `{"match_score": 78, "explanation": "Strong Go background"}`}
	a := newTestAnalyzer(nil, stub, nil)

	got := a.MatchResumeToJob(context.Background(), "Go engineer, 5 years.", "Senior Go developer role.")

	want := map[string]any{
		"match_score": float64(78),
		"explanation": "Strong Go background",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("MatchResumeToJob() = %#v, want %#v", got, want)
	}

	prompt := stub.prompts[0]
	if !strings.Contains(prompt, "Go engineer, 5 years.") {
		t.Errorf("prompt does not contain the resume text: %q", prompt)
	}
	if !strings.Contains(prompt, "Senior Go developer role.") {
		t.Errorf("prompt does not contain the job description: %q", prompt)
	}
}

func TestMatchResumeToJobGeneratorError(t *testing.T) {
	stub := &stubGenerator{err: fmt.Errorf("deadline exceeded")}
	a := newTestAnalyzer(nil, stub, nil)

	got, ok := a.MatchResumeToJob(context.Background(), "resume", "job").(map[string]any)
	if !ok {
		t.Fatal("expected a map result on generator error")
	}

	want := map[string]any{
		"error":       "deadline exceeded",
		"match_score": 0,
		"explanation": "An error occurred while matching the resume to the job",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("MatchResumeToJob() error result = %#v, want %#v", got, want)
	}
}

func TestAnalyzeResumeWithUsage(t *testing.T) {
	stub := &stubGenerator{
		response: `{"name": "Ada"}`,
		usage:    &ai.TokenUsage{InputTokens: 12, OutputTokens: 4, TotalTokens: 16},
	}
	a := newTestAnalyzer(stub, nil, nil)

	_, usage := a.AnalyzeResumeWithUsage(context.Background(), "resume")
	if usage == nil || usage.TotalTokens != 16 {
		t.Fatalf("usage = %+v, want 16 total tokens", usage)
	}

	failing := &stubGenerator{err: fmt.Errorf("model unavailable")}
	a = newTestAnalyzer(failing, nil, nil)
	if _, usage := a.AnalyzeResumeWithUsage(context.Background(), "resume"); usage != nil {
		t.Errorf("expected nil usage on generator error, got %+v", usage)
	}
}

func TestMatchResumeToJobWithUsage(t *testing.T) {
	stub := &stubGenerator{
		response: `{"match_score": 50}`,
		usage:    &ai.TokenUsage{InputTokens: 8, OutputTokens: 2, TotalTokens: 10},
	}
	a := newTestAnalyzer(nil, stub, nil)

	_, usage := a.MatchResumeToJobWithUsage(context.Background(), "resume", "job")
	if usage == nil || usage.TotalTokens != 10 {
		t.Fatalf("usage = %+v, want 10 total tokens", usage)
	}
}

func TestAnalyzeResumeUnparseableResponse(t *testing.T) {
	stub := &stubGenerator{response: "I am sorry, I cannot help with that."}
	a := newTestAnalyzer(stub, nil, nil)

	got, ok := a.AnalyzeResume(context.Background(), "resume").(map[string]any)
	if !ok {
		t.Fatal("expected a map result")
	}
	if got["raw_text"] != "I am sorry, I cannot help with that." {
		t.Errorf("raw_text = %v, want the verbatim model output", got["raw_text"])
	}
	if got["error"] != ErrMsgUnparseable {
		t.Errorf("error = %v, want %q", got["error"], ErrMsgUnparseable)
	}
}
