package server

import (
	"context"
	"encoding/base64"
	stderrors "errors"
	"fmt"
	"net/http"

	"resumeai/internal/common"
	"resumeai/internal/errors"
	"resumeai/internal/extract"
	"resumeai/internal/optimizer"
	"resumeai/internal/resume"
	"resumeai/internal/rewriter"
	"resumeai/internal/types"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// analyzeHandler extracts the profile of a job description given inline or by URL.
func (s *Server) analyzeHandler(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}

	var profile types.JDProfile
	err := s.metrics.TrackOperation(r.Context(), "analyze", func(ctx context.Context) error {
		text := req.JobDescription
		if req.URL != "" {
			fetched, err := s.Fetcher.Fetch(ctx, req.URL)
			if err != nil {
				return err
			}
			text = fetched
		}
		trace.SpanFromContext(ctx).SetAttributes(
			attribute.Int("request.job_length", len(text)),
			attribute.Bool("request.from_url", req.URL != ""))

		profile = s.Engine.Optimizer().Analyze(text)
		return optimizer.RequireProfile(profile)
	})
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, profile)
}

// parseHandler decodes an uploaded document and parses it into a résumé.
func (s *Server) parseHandler(w http.ResponseWriter, r *http.Request) {
	var req ParseRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}

	var parsed types.Resume
	err := s.metrics.TrackOperation(r.Context(), "parse", func(ctx context.Context) error {
		data, err := base64.StdEncoding.DecodeString(req.Content)
		if err != nil {
			return errors.NewValidationError(errors.ErrCodeInvalidRequest, "content is not valid base64", err)
		}
		if limit := s.AppConfig.App.MaxFileSize; limit > 0 && int64(len(data)) > limit {
			return errors.NewValidationError(errors.ErrCodeFileTooLarge,
				fmt.Sprintf("document exceeds the %d byte limit", limit), nil).
				WithContext("filename", req.Filename).
				WithContext("size", len(data))
		}

		text, format, err := extract.Text(req.Filename, data)
		if err != nil {
			return err
		}
		trace.SpanFromContext(ctx).SetAttributes(
			attribute.String("document.format", format),
			attribute.Int("document.size", len(data)))

		parsed = resume.Parse(text)
		parsed.SourceFormat = format
		return nil
	})
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, parsed)
}

// scoreHandler rates a résumé against a job description without changing it.
func (s *Server) scoreHandler(w http.ResponseWriter, r *http.Request) {
	var req ScoreRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}

	var report types.ATSReport
	err := s.metrics.TrackOperation(r.Context(), "score", func(ctx context.Context) error {
		parsed, err := common.DecodeResume(req.Resume)
		if err != nil {
			return err
		}
		opt := s.Engine.Optimizer()
		profile := opt.Analyze(req.JobDescription)
		if err := optimizer.RequireProfile(profile); err != nil {
			return err
		}
		report = opt.Score(parsed, profile)
		trace.SpanFromContext(ctx).SetAttributes(attribute.Int("ats.score", report.Total))
		return nil
	})
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, report)
}

// optimizeHandler rewrites a résumé towards one job description.
func (s *Server) optimizeHandler(w http.ResponseWriter, r *http.Request) {
	var req OptimizeRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}

	var result types.OptimizeResult
	err := s.metrics.TrackOperation(r.Context(), "optimize", func(ctx context.Context) error {
		parsed, err := common.DecodeResume(req.Resume)
		if err != nil {
			return err
		}
		opt := s.optimizerFor(req.Seed)
		profile := opt.Analyze(req.JobDescription)
		if err := optimizer.RequireProfile(profile); err != nil {
			return err
		}

		result = opt.Optimize(parsed, profile)
		s.metrics.RecordOptimization(ctx, result.ATS.Before, result.ATS.After, len(result.KeywordsAdded))
		trace.SpanFromContext(ctx).SetAttributes(
			attribute.Int("ats.before", result.ATS.Before),
			attribute.Int("ats.after", result.ATS.After),
			attribute.Int("keywords.added", len(result.KeywordsAdded)))
		return nil
	})
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, result)
}

// batchHandler optimizes one résumé against several job descriptions.
// Descriptions too short to analyze fail individually.
func (s *Server) batchHandler(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}

	var batch types.BatchResult
	err := s.metrics.TrackOperation(r.Context(), "optimize_batch", func(ctx context.Context) error {
		if limit := s.AppConfig.Engine.MaxBatchSize; limit > 0 && len(req.JobDescriptions) > limit {
			return errors.NewValidationError(errors.ErrCodeBatchTooLarge,
				fmt.Sprintf("at most %d job descriptions may be optimized per batch", limit), nil).
				WithContext("count", len(req.JobDescriptions))
		}
		parsed, err := common.DecodeResume(req.Resume)
		if err != nil {
			return err
		}

		items, err := s.optimizerFor(req.Seed).OptimizeBatch(ctx, parsed, req.JobDescriptions,
			s.AppConfig.Engine.BatchConcurrency)
		if err != nil {
			return err
		}
		for _, item := range items {
			if item.Result != nil {
				s.metrics.RecordOptimization(ctx, item.Result.ATS.Before, item.Result.ATS.After,
					len(item.Result.KeywordsAdded))
			}
		}
		batch = types.BatchResult{Items: items}
		trace.SpanFromContext(ctx).SetAttributes(attribute.Int("batch.size", len(items)))
		return nil
	})
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, batch)
}

// optimizerFor returns the current optimizer, reseeded when a seed is given.
func (s *Server) optimizerFor(seed *uint64) *optimizer.Optimizer {
	opt := s.Engine.Optimizer()
	if seed == nil {
		return opt
	}
	return opt.WithRandom(rewriter.NewSeededPicker(*seed))
}

// decodeRequest parses and validates the JSON body, writing a 400 on failure.
func (s *Server) decodeRequest(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := parseJSONRequest(r, v); err != nil {
		s.Logger.Debug("Rejected request body", "endpoint", r.URL.Path, "error", err)
		if stderrors.Is(err, errBodyTooLarge) {
			writeErrorResponseCode(w, "Request too large", err.Error(), errors.ErrCodeFileTooLarge,
				http.StatusRequestEntityTooLarge)
			return false
		}
		writeErrorResponseCode(w, "Invalid request body", err.Error(), errors.ErrCodeInvalidRequest,
			http.StatusBadRequest)
		return false
	}
	if err := s.validate.Struct(v); err != nil {
		writeErrorResponseCode(w, "Invalid request", validationMessage(err), errors.ErrCodeInvalidRequest,
			http.StatusBadRequest)
		return false
	}
	return true
}
