package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/sms03/resume-mcp/internal/ai"
	"github.com/sms03/resume-mcp/internal/analyzer"
	"github.com/sms03/resume-mcp/internal/observability"
	"github.com/sms03/resume-mcp/internal/types"

	"go.opentelemetry.io/otel/attribute"
)

// newAnalyzer builds an analyzer backed by one AI service per operation
func (s *Server) newAnalyzer() (*analyzer.Analyzer, error) {
	analyzeConfig := s.AppConfig.GetAnalyzeConfig()
	analyzeService, err := ai.NewService(&analyzeConfig, "analyze", s.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create analyze service: %w", err)
	}

	matchConfig := s.AppConfig.GetMatchConfig()
	matchService, err := ai.NewService(&matchConfig, "match", s.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create match service: %w", err)
	}

	rankConfig := s.AppConfig.GetRankConfig()
	rankService, err := ai.NewService(&rankConfig, "rank", s.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create rank service: %w", err)
	}

	return analyzer.New(
		analyzeService.Generator,
		matchService.Generator,
		rankService.Generator,
		s.AppConfig,
		s.Logger,
	), nil
}

// createAnalyzeHandler wraps the analyze handler with observability
func (s *Server) createAnalyzeHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("resume-mcp.api")
		ctx, span := tracer.Start(ctx, "api.analyze")
		defer span.End()

		var req AnalyzeRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		if strings.TrimSpace(req.ResumeText) == "" {
			err := fmt.Errorf("missing resume text")
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Missing resume text", "resume_text field is required", http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.Int("request.resume_length", len(req.ResumeText)),
			attribute.String("operation", "analyze"),
		)

		a, err := s.newAnalyzer()
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "service_creation"))
			writeErrorResponse(w, "Failed to create AI service", err.Error(), http.StatusInternalServerError)
			return
		}

		metrics := om.GetMetrics()
		var result any
		_ = metrics.TrackAIOperationWithTokens(ctx, "analyze", func(ctx context.Context) *observability.AIOperationResult {
			var usage *ai.TokenUsage
			result, usage = a.AnalyzeResumeWithUsage(ctx, req.ResumeText)
			return &observability.AIOperationResult{TokenUsage: toTokenUsage(usage)}
		}, om)

		metrics.RecordBusinessMetric(ctx, "resume_analyzed", resultSucceeded(result), om)

		span.SetAttributes(attribute.Bool("success", resultSucceeded(result)))

		writeJSONResponse(w, result)
	}
}

// createMatchHandler wraps the match handler with observability
func (s *Server) createMatchHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("resume-mcp.api")
		ctx, span := tracer.Start(ctx, "api.match")
		defer span.End()

		var req MatchRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		if strings.TrimSpace(req.ResumeText) == "" {
			err := fmt.Errorf("missing resume text")
			span.RecordError(err)
			writeErrorResponse(w, "Missing resume text", "resume_text field is required", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.JobDescription) == "" {
			err := fmt.Errorf("missing job description")
			span.RecordError(err)
			writeErrorResponse(w, "Missing job description", "job_description field is required", http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.Int("request.resume_length", len(req.ResumeText)),
			attribute.Int("request.job_length", len(req.JobDescription)),
			attribute.String("operation", "match"),
		)

		a, err := s.newAnalyzer()
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "service_creation"))
			writeErrorResponse(w, "Failed to create AI service", err.Error(), http.StatusInternalServerError)
			return
		}

		metrics := om.GetMetrics()
		var result any
		_ = metrics.TrackAIOperationWithTokens(ctx, "match", func(ctx context.Context) *observability.AIOperationResult {
			var usage *ai.TokenUsage
			result, usage = a.MatchResumeToJobWithUsage(ctx, req.ResumeText, req.JobDescription)
			return &observability.AIOperationResult{TokenUsage: toTokenUsage(usage)}
		}, om)

		metrics.RecordBusinessMetric(ctx, "resume_matched", resultSucceeded(result), om)

		span.SetAttributes(attribute.Bool("success", resultSucceeded(result)))

		writeJSONResponse(w, result)
	}
}

// createRankHandler wraps the rank handler with observability
func (s *Server) createRankHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("resume-mcp.api")
		ctx, span := tracer.Start(ctx, "api.rank")
		defer span.End()

		var req RankRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		if len(req.Resumes) == 0 {
			err := fmt.Errorf("missing resumes")
			span.RecordError(err)
			writeErrorResponse(w, "Missing resumes", "resumes field is required", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.JobDescription) == "" {
			err := fmt.Errorf("missing job description")
			span.RecordError(err)
			writeErrorResponse(w, "Missing job description", "job_description field is required", http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.Int("request.resume_count", len(req.Resumes)),
			attribute.Int("request.job_length", len(req.JobDescription)),
			attribute.String("operation", "rank"),
		)

		a, err := s.newAnalyzer()
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "service_creation"))
			writeErrorResponse(w, "Failed to create AI service", err.Error(), http.StatusInternalServerError)
			return
		}

		metrics := om.GetMetrics()
		var rankings []map[string]any
		var stats analyzer.RankStats
		_ = metrics.TrackAIOperationWithTokens(ctx, "rank", func(ctx context.Context) *observability.AIOperationResult {
			rankings, stats = a.RankCandidatesWithStats(ctx, req.Resumes, req.JobDescription)
			return &observability.AIOperationResult{TokenUsage: toTokenUsage(stats.Usage)}
		}, om)

		metrics.RecordCandidatesRanked(ctx, int64(len(rankings)), om)
		metrics.RecordRankingBatches(ctx, int64(stats.Batches), int64(stats.FailedBatches), om)
		metrics.RecordRankingPlaceholders(ctx, int64(stats.Placeholders), om)

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("response.ranking_count", len(rankings)),
		)

		writeJSONResponse(w, map[string]any{"rankings": rankings})
	}
}

// toTokenUsage converts a provider's token usage for metric recording
func toTokenUsage(u *ai.TokenUsage) *observability.TokenUsage {
	if u == nil {
		return nil
	}
	return &observability.TokenUsage{
		InputTokens:  u.InputTokens,
		OutputTokens: u.OutputTokens,
		TotalTokens:  u.TotalTokens,
	}
}

// resultSucceeded reports whether an operation result carries an in-band error
func resultSucceeded(result any) bool {
	m, ok := result.(map[string]any)
	if !ok {
		return true
	}
	_, failed := m["error"]
	return !failed
}

// parseRankResumes converts the raw resumes parameter of an MCP call into records
func parseRankResumes(raw any) []types.ResumeRecord {
	items, ok := raw.([]any)
	if !ok {
		return nil
	}
	records := make([]types.ResumeRecord, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			records = append(records, types.ResumeRecord{})
			continue
		}
		id, _ := m["id"].(string)
		text, _ := m["text"].(string)
		records = append(records, types.ResumeRecord{ID: id, Text: text})
	}
	return records
}

// createRateLimitMiddleware adds observability to rate limiting
func (s *Server) createRateLimitMiddleware(om *observability.ObservabilityManager) func(http.HandlerFunc) http.HandlerFunc {
	originalMiddleware := s.rateLimitMiddleware()

	return func(next http.HandlerFunc) http.HandlerFunc {
		return originalMiddleware(func(w http.ResponseWriter, r *http.Request) {
			// Wrap the ResponseWriter to detect rate limit responses
			wrapper := &responseWrapper{ResponseWriter: w, statusCode: 200}

			next(wrapper, r)

			// If rate limited, record metric
			if wrapper.statusCode == http.StatusTooManyRequests {
				metrics := om.GetMetrics()
				metrics.RecordBusinessMetric(r.Context(), "rate_limit_hit", true, om,
					attribute.String("endpoint", r.URL.Path),
					attribute.String("method", r.Method))
			}
		})
	}
}

// responseWrapper wraps http.ResponseWriter to capture status code
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWrapper) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// writeJSONResponse encodes v as the response body
func writeJSONResponse(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}
