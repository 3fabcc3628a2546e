package analyzer

import (
	"context"
	"unicode/utf8"

	"github.com/sms03/resume-mcp/internal/ai"
	"github.com/sms03/resume-mcp/internal/config"
	"github.com/sms03/resume-mcp/internal/errors"
)

// Generator is the slice of the AI provider the analyzer needs: a rendered
// prompt in, the model's raw text out. *ai.GeminiProvider satisfies it; tests
// plug in stubs.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, *ai.TokenUsage, error)
}

// Analyzer relays resume and job text to the model and shapes the responses.
// All of its operations report failures in-band in the returned value and
// never return an error to the caller.
type Analyzer struct {
	analyze Generator
	match   Generator
	rank    Generator
	cfg     *config.Config
	logger  *errors.Logger
}

// New creates an Analyzer with one generator per operation. cfg may be nil,
// in which case the built-in prompt templates are used.
func New(analyze, match, rank Generator, cfg *config.Config, logger *errors.Logger) *Analyzer {
	return &Analyzer{
		analyze: analyze,
		match:   match,
		rank:    rank,
		cfg:     cfg,
		logger:  logger,
	}
}

// templateFor resolves the prompt template for an operation, preferring
// file-loaded content, then inline config, then the built-in default.
func (a *Analyzer) templateFor(operationType string) string {
	loaded := config.GetTemplateForOperation(operationType)

	var fromConfig, fromDefault string
	switch operationType {
	case "analyze":
		fromDefault = DefaultTemplates.AnalyzeResume
		if a.cfg != nil {
			fromConfig = a.cfg.GetAnalyzeConfig().CustomPrompts.AnalyzeResume
		}
	case "match":
		fromDefault = DefaultTemplates.MatchResume
		if a.cfg != nil {
			fromConfig = a.cfg.GetMatchConfig().CustomPrompts.MatchResume
		}
	case "rank":
		fromDefault = DefaultTemplates.RankCandidates
		if a.cfg != nil {
			fromConfig = a.cfg.GetRankConfig().CustomPrompts.RankCandidates
		}
	}

	return resolveTemplate(loaded, fromConfig, fromDefault)
}

// AnalyzeResume extracts structured information from resume text. On a model
// failure it returns a mapping with the error and a snippet of the input so
// callers can correlate which resume failed.
func (a *Analyzer) AnalyzeResume(ctx context.Context, resumeText string) any {
	result, _ := a.AnalyzeResumeWithUsage(ctx, resumeText)
	return result
}

// AnalyzeResumeWithUsage is AnalyzeResume plus the model's token usage, for
// callers that record usage metrics. The usage is nil when the call failed.
func (a *Analyzer) AnalyzeResumeWithUsage(ctx context.Context, resumeText string) (any, *ai.TokenUsage) {
	prompt := renderAnalyzePrompt(a.templateFor("analyze"), resumeText)

	text, usage, err := a.analyze.GenerateContent(ctx, prompt)
	if err != nil {
		a.logger.LogError(err, "Resume analysis failed",
			"resume_length", len(resumeText))
		return map[string]any{
			"error":       err.Error(),
			"resume_text": snippet(resumeText, 100),
		}, nil
	}

	return RecoverStructured(text), usage
}

// MatchResumeToJob scores a resume against a job description. On a model
// failure the result still carries a numeric match_score so callers can read
// it uniformly.
func (a *Analyzer) MatchResumeToJob(ctx context.Context, resumeText, jobDescription string) any {
	result, _ := a.MatchResumeToJobWithUsage(ctx, resumeText, jobDescription)
	return result
}

// MatchResumeToJobWithUsage is MatchResumeToJob plus the model's token usage.
func (a *Analyzer) MatchResumeToJobWithUsage(ctx context.Context, resumeText, jobDescription string) (any, *ai.TokenUsage) {
	prompt := renderMatchPrompt(a.templateFor("match"), resumeText, jobDescription)

	text, usage, err := a.match.GenerateContent(ctx, prompt)
	if err != nil {
		a.logger.LogError(err, "Resume-to-job matching failed",
			"resume_length", len(resumeText),
			"job_length", len(jobDescription))
		return map[string]any{
			"error":       err.Error(),
			"match_score": 0,
			"explanation": "An error occurred while matching the resume to the job",
		}, nil
	}

	return RecoverStructured(text), usage
}

// snippet returns the first max characters of s, with an ellipsis when the
// input was longer.
func snippet(s string, max int) string {
	if utf8.RuneCountInString(s) > max {
		return truncateRunes(s, max) + "..."
	}
	return s
}

// truncateRunes cuts s to at most max characters. Truncation counts runes,
// not bytes, so multi-byte input is never cut mid-character.
func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}
