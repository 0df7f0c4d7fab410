package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"jobsift/internal/ai"
	"jobsift/internal/joblog"
	"jobsift/internal/observability"
	"jobsift/internal/ocr"
	"jobsift/internal/pipeline"
	"jobsift/internal/scrape"
	"jobsift/internal/types"

	"go.opentelemetry.io/otel/attribute"
)

// buildPipeline assembles the scoring pipeline used by the score endpoint
func (s *Server) buildPipeline() (*pipeline.Pipeline, error) {
	extractConfig := s.AppConfig.GetExtractConfig()
	aiService, err := ai.NewService(&extractConfig, "extract", s.Logger)
	if err != nil {
		return nil, err
	}

	jobLog, err := joblog.New(s.AppConfig.JobLog, s.Logger)
	if err != nil {
		return nil, err
	}

	return pipeline.New(
		aiService,
		ocr.NewEngine(s.AppConfig.OCR, s.Logger),
		scrape.NewResolver(s.AppConfig.Resolver, s.Logger),
		jobLog,
		s.Logger,
	), nil
}

// createScoreHandler wraps the score handler with observability
func (s *Server) createScoreHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("jobsift.api")
		ctx, span := tracer.Start(ctx, "api.score")
		defer span.End()

		// Parse request
		var req ScoreRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		// Validation
		if strings.TrimSpace(req.Message) == "" {
			err := fmt.Errorf("missing message")
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Missing message", "message field is required", http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.Int("request.message_length", len(req.Message)),
			attribute.String("operation", "score"),
		)

		p, err := s.buildPipeline()
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "service_creation"))
			writeErrorResponse(w, "Failed to create scoring pipeline", err.Error(), http.StatusInternalServerError)
			return
		}

		// Track AI operation with observability and token usage
		metrics := om.GetMetrics()
		var result pipeline.Result
		err = metrics.TrackAIOperationWithTokens(ctx, "extract", func(ctx context.Context) *observability.AIOperationResult {
			res, pipeErr := p.ProcessMessage(ctx, req.Message)
			result = res
			return &observability.AIOperationResult{
				Error:      pipeErr,
				TokenUsage: (*observability.TokenUsage)(res.Tokens),
			}
		}, om)

		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "ai_processing"))
			metrics.RecordBusinessMetric(ctx, "job_scored", false, om,
				attribute.String("error", err.Error()))
			writeErrorResponse(w, "Failed to score job posting", err.Error(), http.StatusInternalServerError)
			return
		}

		if result.Job == nil {
			// The input did not yield a usable job record
			metrics.RecordBusinessMetric(ctx, "parse_miss", true, om)
			span.SetAttributes(attribute.String("result.status", result.Status))
		} else {
			metrics.RecordBusinessMetric(ctx, "job_scored", true, om,
				attribute.Int("score", result.Job.Score),
				attribute.String("tier", result.Job.Tier))
			metrics.RecordScoreTier(ctx, result.Job.Tier, om)

			span.SetAttributes(
				attribute.Bool("success", true),
				attribute.Int("response.score", result.Job.Score),
				attribute.String("response.tier", result.Job.Tier),
			)
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(result); err != nil {
			span.RecordError(err)
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		}
	}
}

// createRateHandler wraps the rate handler with observability. The endpoint
// scores an already-extracted record, so no AI call is made and nothing is
// appended to the job log.
func (s *Server) createRateHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("jobsift.api")
		ctx, span := tracer.Start(ctx, "api.rate")
		defer span.End()

		var record types.JobRecord
		if err := parseJSONRequest(r, &record); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		if strings.TrimSpace(record.JobTitle) == "" && strings.TrimSpace(record.JobDescription) == "" {
			err := fmt.Errorf("missing job record fields")
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Missing job record fields", "job_title or job_description is required", http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.Int("request.description_length", len(record.JobDescription)),
			attribute.String("operation", "rate"),
		)

		p := pipeline.New(nil, nil, nil, nil, s.Logger)
		result, err := p.ProcessRecord(ctx, record)
		if err != nil {
			span.RecordError(err)
			writeErrorResponse(w, "Failed to rate job record", err.Error(), http.StatusInternalServerError)
			return
		}

		metrics := om.GetMetrics()
		metrics.RecordBusinessMetric(ctx, "job_scored", true, om,
			attribute.Int("score", result.Job.Score),
			attribute.String("tier", result.Job.Tier))
		metrics.RecordScoreTier(ctx, result.Job.Tier, om)

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("response.score", result.Job.Score),
			attribute.String("response.tier", result.Job.Tier),
		)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(result.Job); err != nil {
			span.RecordError(err)
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		}
	}
}

// createRateLimitMiddleware adds observability to rate limiting
func (s *Server) createRateLimitMiddleware(om *observability.ObservabilityManager) func(http.HandlerFunc) http.HandlerFunc {
	originalMiddleware := s.rateLimitMiddleware()

	return func(next http.HandlerFunc) http.HandlerFunc {
		return originalMiddleware(func(w http.ResponseWriter, r *http.Request) {
			// Wrap the ResponseWriter to detect rate limit responses
			wrapper := &responseWrapper{ResponseWriter: w, statusCode: 200}

			next(wrapper, r)

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
