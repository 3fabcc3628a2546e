package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/sms03/resume-mcp/internal/ai"
	"github.com/sms03/resume-mcp/internal/analyzer"
	"github.com/sms03/resume-mcp/internal/errors"
	"github.com/sms03/resume-mcp/internal/observability"
	"github.com/sms03/resume-mcp/internal/types"

	"go.opentelemetry.io/otel/attribute"
)

// createMCPHandler serves Model Context Protocol function calls. Dispatch
// failures are reported in-band in the response body, not as HTTP errors.
func (s *Server) createMCPHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("resume-mcp.api")
		ctx, span := tracer.Start(ctx, "api.mcp")
		defer span.End()

		var req types.ModelContextRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.String("mcp.operation", string(req.Operation)),
			attribute.String("mcp.function", req.FunctionName),
		)

		if req.Operation != types.OperationExecuteFunction {
			writeJSONResponse(w, types.ModelContextResponse{
				Error: fmt.Sprintf("unsupported operation: %s", req.Operation),
			})
			return
		}

		a, err := s.newAnalyzer()
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "service_creation"))
			writeErrorResponse(w, "Failed to create AI service", err.Error(), http.StatusInternalServerError)
			return
		}

		resp := s.executeFunction(ctx, a, req, om)
		writeJSONResponse(w, resp)
	}
}

// executeFunction dispatches an MCP function call to the analyzer
func (s *Server) executeFunction(ctx context.Context, a *analyzer.Analyzer, req types.ModelContextRequest, om *observability.ObservabilityManager) types.ModelContextResponse {
	params := req.Parameters
	if params == nil {
		params = map[string]any{}
	}

	switch req.FunctionName {
	case types.FunctionAnalyzeResume:
		return s.executeAnalyze(ctx, a, params, om)
	case types.FunctionMatchResumeToJob:
		return s.executeMatch(ctx, a, params, om)
	case types.FunctionRankCandidates:
		return s.executeRank(ctx, a, params, om)
	default:
		appErr := errors.NewValidationError(errors.ErrCodeUnknownFunction,
			fmt.Sprintf("unknown function: %s", req.FunctionName), nil)
		s.Logger.LogError(appErr, "MCP function dispatch failed")
		return types.ModelContextResponse{
			Content:          fmt.Sprintf("Error executing function: %s", appErr.Message),
			FunctionResponse: map[string]any{"error": appErr.Message},
		}
	}
}

func (s *Server) executeAnalyze(ctx context.Context, a *analyzer.Analyzer, params map[string]any, om *observability.ObservabilityManager) types.ModelContextResponse {
	resumeText, _ := params["resume_text"].(string)
	if resumeText == "" {
		return types.ModelContextResponse{
			Content:          "No resume text provided",
			FunctionResponse: map[string]any{"error": "Resume text is required"},
		}
	}

	metrics := om.GetMetrics()
	var result any
	_ = metrics.TrackAIOperationWithTokens(ctx, "analyze", func(ctx context.Context) *observability.AIOperationResult {
		var usage *ai.TokenUsage
		result, usage = a.AnalyzeResumeWithUsage(ctx, resumeText)
		return &observability.AIOperationResult{TokenUsage: toTokenUsage(usage)}
	}, om)

	metrics.RecordBusinessMetric(ctx, "resume_analyzed", resultSucceeded(result), om)

	return types.ModelContextResponse{
		Content:          fmt.Sprintf("Resume analyzed successfully. Found %d skills.", skillCount(result)),
		FunctionResponse: result,
	}
}

func (s *Server) executeMatch(ctx context.Context, a *analyzer.Analyzer, params map[string]any, om *observability.ObservabilityManager) types.ModelContextResponse {
	resumeText, _ := params["resume_text"].(string)
	jobDescription, _ := params["job_description"].(string)
	if resumeText == "" || jobDescription == "" {
		return types.ModelContextResponse{
			Content:          "Both resume text and job description are required",
			FunctionResponse: map[string]any{"error": "Missing required parameters"},
		}
	}

	metrics := om.GetMetrics()
	var result any
	_ = metrics.TrackAIOperationWithTokens(ctx, "match", func(ctx context.Context) *observability.AIOperationResult {
		var usage *ai.TokenUsage
		result, usage = a.MatchResumeToJobWithUsage(ctx, resumeText, jobDescription)
		return &observability.AIOperationResult{TokenUsage: toTokenUsage(usage)}
	}, om)

	metrics.RecordBusinessMetric(ctx, "resume_matched", resultSucceeded(result), om)

	return types.ModelContextResponse{
		Content:          fmt.Sprintf("Resume matched to job with score: %s/100", formatScore(result)),
		FunctionResponse: result,
	}
}

func (s *Server) executeRank(ctx context.Context, a *analyzer.Analyzer, params map[string]any, om *observability.ObservabilityManager) types.ModelContextResponse {
	resumes := parseRankResumes(params["resumes"])
	jobDescription, _ := params["job_description"].(string)
	if len(resumes) == 0 || jobDescription == "" {
		return types.ModelContextResponse{
			Content:          "Both resumes and job description are required",
			FunctionResponse: map[string]any{"error": "Missing required parameters"},
		}
	}

	metrics := om.GetMetrics()
	var rankings []map[string]any
	var stats analyzer.RankStats
	_ = metrics.TrackAIOperationWithTokens(ctx, "rank", func(ctx context.Context) *observability.AIOperationResult {
		rankings, stats = a.RankCandidatesWithStats(ctx, resumes, jobDescription)
		return &observability.AIOperationResult{TokenUsage: toTokenUsage(stats.Usage)}
	}, om)

	metrics.RecordCandidatesRanked(ctx, int64(len(rankings)), om)
	metrics.RecordRankingBatches(ctx, int64(stats.Batches), int64(stats.FailedBatches), om)
	metrics.RecordRankingPlaceholders(ctx, int64(stats.Placeholders), om)

	return types.ModelContextResponse{
		Content:          fmt.Sprintf("Ranked %d candidates based on job fit", len(rankings)),
		FunctionResponse: map[string]any{"rankings": rankings},
	}
}

// skillCount reads the number of extracted skills from an analysis result
func skillCount(result any) int {
	m, ok := result.(map[string]any)
	if !ok {
		return 0
	}
	skills, ok := m["skills"].([]any)
	if !ok {
		return 0
	}
	return len(skills)
}

// formatScore renders a match result's score for the response summary line
func formatScore(result any) string {
	m, ok := result.(map[string]any)
	if !ok {
		return "0"
	}
	score, ok := m["match_score"]
	if !ok {
		return "0"
	}
	text := fmt.Sprintf("%v", score)
	return strings.TrimSuffix(text, ".0")
}
