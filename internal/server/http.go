package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"time"

	"resumeai/internal/config"
	"resumeai/internal/errors"
	"resumeai/internal/fetch"
	"resumeai/internal/observability"

	"github.com/go-playground/validator/v10"
)

// AnalyzeRequest is the body of POST /analyze. Exactly one of the fields is set.
type AnalyzeRequest struct {
	JobDescription string `json:"jobDescription" validate:"required_without=URL,excluded_with=URL"`
	URL            string `json:"url" validate:"omitempty,http_url"`
}

// ParseRequest is the body of POST /parse
type ParseRequest struct {
	Filename string `json:"filename" validate:"required,max=255"`
	Content  string `json:"content" validate:"required,base64"`
}

// ScoreRequest is the body of POST /score. The résumé is checked against
// the résumé schema before decoding.
type ScoreRequest struct {
	Resume         json.RawMessage `json:"resume" validate:"required"`
	JobDescription string          `json:"jobDescription" validate:"required"`
}

// OptimizeRequest is the body of POST /optimize. A seed makes verb and
// template choices reproducible.
type OptimizeRequest struct {
	Resume         json.RawMessage `json:"resume" validate:"required"`
	JobDescription string          `json:"jobDescription" validate:"required"`
	Seed           *uint64         `json:"seed,omitempty"`
}

// BatchRequest is the body of POST /optimize/batch
type BatchRequest struct {
	Resume          json.RawMessage `json:"resume" validate:"required"`
	JobDescriptions []string        `json:"jobDescriptions" validate:"required,min=1,dive,required"`
	Seed            *uint64         `json:"seed,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
}

// Fetcher retrieves job descriptions from URLs
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
	State() string
	IsHealthy() bool
	Stats() map[string]any
}

// Server holds configuration for the HTTP server
type Server struct {
	Host    string
	Port    string
	Version string

	AppConfig *config.Config
	TLSConfig config.TLSConfig

	APIKeys map[string]bool

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// MaxRequestSize bounds request bodies; base64 uploads need headroom over
	// the file size limit.
	MaxRequestSize int64

	RateLimit   config.RateLimitConfig
	RateLimiter *LimiterManager

	Engine  *Engine
	Fetcher Fetcher

	Logger *errors.Logger

	validate *validator.Validate
	metrics  *observability.Metrics
	certs    *certStore
}

// Option configures a Server
type Option func(*Server)

// WithFetcher replaces the JD fetcher
func WithFetcher(f Fetcher) Option {
	return func(s *Server) { s.Fetcher = f }
}

// WithEngine replaces the engine built from configuration
func WithEngine(e *Engine) Option {
	return func(s *Server) { s.Engine = e }
}

// WithMetrics sets the metrics instruments requests are recorded on
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Server) {
		if m != nil {
			s.metrics = m
		}
	}
}

// NewServer creates a server from the application configuration.
func NewServer(appCfg *config.Config, version string, logger *errors.Logger, opts ...Option) (*Server, error) {
	if logger == nil {
		logger = discardLogger()
	}

	apiKeys := make(map[string]bool)
	for _, key := range appCfg.Server.APIKeys {
		if key != "" {
			apiKeys[key] = true
		}
	}

	s := &Server{
		Host:           appCfg.Server.Host,
		Port:           appCfg.Server.Port,
		Version:        version,
		AppConfig:      appCfg,
		TLSConfig:      appCfg.Server.TLS,
		APIKeys:        apiKeys,
		ReadTimeout:    appCfg.Server.ReadTimeout,
		WriteTimeout:   appCfg.Server.WriteTimeout,
		IdleTimeout:    appCfg.Server.IdleTimeout,
		MaxRequestSize: 2 * appCfg.App.MaxFileSize,
		RateLimit:      appCfg.Server.RateLimit,
		Logger:         logger,
		validate:       validator.New(validator.WithRequiredStructEnabled()),
		metrics:        &observability.Metrics{},
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.Engine == nil {
		engine, err := NewEngine(appCfg.Engine, s.metrics, logger)
		if err != nil {
			return nil, err
		}
		s.Engine = engine
	}
	if s.Fetcher == nil {
		s.Fetcher = fetch.New(appCfg.Fetch, logger)
	}
	if s.RateLimit.Enabled {
		s.RateLimiter = NewRateLimiter(s.RateLimit, logger)
	}
	return s, nil
}

func discardLogger() *errors.Logger {
	return errors.NewWithWriter(io.Discard, slog.LevelError)
}
