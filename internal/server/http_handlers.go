package server

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"resumeai/internal/errors"

	"github.com/go-playground/validator/v10"
)

var errBodyTooLarge = stderrors.New("request body too large")

const (
	certCriticalThreshold = 24 * time.Hour
	certWarningThreshold  = 7 * 24 * time.Hour
)

// healthHandler reports service health, the taxonomy in use and the state
// of the fetch circuit breaker. An open breaker degrades the status without
// failing the check.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	tax := s.Engine.Optimizer().Taxonomy()
	response := map[string]any{
		"status":  "healthy",
		"service": "resumeai",
		"version": s.Version,
		"taxonomy": map[string]any{
			"version":  tax.Version(),
			"checksum": tax.Checksum(),
		},
	}

	if s.Fetcher != nil {
		response["fetch"] = map[string]any{
			"circuit_breaker": s.Fetcher.State(),
			"healthy":         s.Fetcher.IsHealthy(),
		}
		if !s.Fetcher.IsHealthy() {
			response["status"] = "degraded"
		}
	}

	status := http.StatusOK
	if certStatus := s.checkCertificateHealth(); certStatus != nil {
		response["certificates"] = certStatus
		if healthy, _ := certStatus["healthy"].(bool); !healthy {
			response["status"] = "unhealthy"
			status = http.StatusServiceUnavailable
		}
	}

	s.writeJSON(w, status, response)
}

// checkCertificateHealth reports the expiry of the served certificate
func (s *Server) checkCertificateHealth() map[string]any {
	if s.certs == nil {
		return nil
	}

	certStatus := map[string]any{
		"watching":       s.certs.watching(),
		"reloads":        s.certs.reloads.Load(),
		"failed_reloads": s.certs.failed.Load(),
	}

	timeToExpiry, err := s.certs.timeToExpiry()
	if err != nil {
		certStatus["healthy"] = false
		certStatus["error"] = err.Error()
		return certStatus
	}
	certStatus["time_to_expiry"] = timeToExpiry.Round(time.Second).String()

	switch {
	case timeToExpiry <= 0:
		certStatus["healthy"] = false
		certStatus["status"] = "expired"
	case timeToExpiry <= certCriticalThreshold:
		certStatus["healthy"] = false
		certStatus["status"] = "critical"
	case timeToExpiry <= certWarningThreshold:
		certStatus["healthy"] = true
		certStatus["status"] = "warning"
	default:
		certStatus["healthy"] = true
		certStatus["status"] = "ok"
	}
	return certStatus
}

// statsHandler provides server statistics including rate limiting info
func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string]any{
		"service": "resumeai",
		"version": s.Version,
		"server": map[string]any{
			"max_request_size_bytes": s.MaxRequestSize,
			"auth_enabled":           len(s.APIKeys) > 0,
		},
		"engine": s.Engine.Stats(),
	}

	if s.RateLimiter != nil {
		response["rate_limiting"] = s.RateLimiter.GetStats()
	} else {
		response["rate_limiting"] = map[string]any{"enabled": false}
	}
	response["rate_limit_config"] = map[string]any{
		"enabled":          s.RateLimit.Enabled,
		"requests_per_min": s.RateLimit.RequestsPerMin,
		"burst_capacity":   s.RateLimit.BurstCapacity,
		"by_ip":            s.RateLimit.ByIP,
		"by_api_key":       s.RateLimit.ByAPIKey,
	}

	if s.Fetcher != nil {
		response["fetch"] = s.Fetcher.Stats()
	}

	s.writeJSON(w, http.StatusOK, response)
}

// parseJSONRequest parses JSON request body into the provided struct
func parseJSONRequest(r *http.Request, v any) error {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/json" {
		return fmt.Errorf("content-type must be application/json")
	}
	defer func() { _ = r.Body.Close() }()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if stderrors.As(err, &maxBytesErr) {
			return fmt.Errorf("%w (limit is %d bytes)", errBodyTooLarge, maxBytesErr.Limit)
		}
		return fmt.Errorf("failed to read request body: %w", err)
	}

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to parse JSON: %w", err)
	}
	return nil
}

// validationMessage lists the failed fields of a validator error
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s failed '%s'", fe.Namespace(), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}

// statusFor maps an application error code to its HTTP status
func statusFor(appErr *errors.AppError) int {
	switch appErr.Code {
	case errors.ErrCodeFileTooLarge, errors.ErrCodeBatchTooLarge:
		return http.StatusRequestEntityTooLarge
	case errors.ErrCodeSchemaViolation, errors.ErrCodeJDTooShort, errors.ErrCodeInvalidResume:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeCircuitOpen:
		return http.StatusServiceUnavailable
	case errors.ErrCodeNetworkTimeout:
		return http.StatusGatewayTimeout
	case errors.ErrCodeFetchFailed:
		return http.StatusBadGateway
	}
	switch appErr.Type {
	case errors.ErrorTypeValidation:
		return http.StatusBadRequest
	case errors.ErrorTypeExtraction:
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// writeAppError writes err using its application error code when it has one.
func (s *Server) writeAppError(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := errors.AsAppError(err)
	if !ok {
		s.Logger.LogError(err, "Request failed", "endpoint", r.URL.Path)
		writeErrorResponse(w, "Internal error", err.Error(), http.StatusInternalServerError)
		return
	}

	status := statusFor(appErr)
	if status >= http.StatusInternalServerError {
		s.Logger.LogError(err, "Request failed", "endpoint", r.URL.Path, "status", status)
	} else {
		s.Logger.Debug("Request rejected", "endpoint", r.URL.Path, "code", appErr.Code)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	response := struct {
		ErrorResponse
		Details map[string]any `json:"details,omitempty"`
	}{
		ErrorResponse: ErrorResponse{Error: http.StatusText(status), Message: appErr.Message, Code: appErr.Code},
		Details:       appErr.Context,
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		s.Logger.LogError(err, "Failed to encode error response")
	}
}

// writeJSON encodes v with the given status
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.LogError(err, "Failed to encode response")
	}
}

// writeErrorResponse writes a standardized error response
func writeErrorResponse(w http.ResponseWriter, error, message string, statusCode int) {
	writeErrorResponseCode(w, error, message, "", statusCode)
}

func writeErrorResponseCode(w http.ResponseWriter, error, message, code string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	response := ErrorResponse{Error: error, Message: message, Code: code}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode error response", http.StatusInternalServerError)
	}
}
