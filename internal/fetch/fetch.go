// Package fetch retrieves job descriptions from job posting URLs.
package fetch

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"resumeai/internal/config"
	"resumeai/internal/errors"
	"resumeai/internal/extract"

	"github.com/sony/gobreaker/v2"
)

// Error represents an error during URL fetching.
type Error struct {
	URL        string
	Message    string
	StatusCode int
	Cause      error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Fetcher downloads job postings and reduces them to text. It is safe for
// concurrent use.
type Fetcher struct {
	client       *http.Client
	userAgent    string
	maxBodySize  int64
	allowPrivate bool
	cb           *gobreaker.CircuitBreaker[string]
	logger       *errors.Logger
}

// New builds a fetcher. A disabled circuit breaker leaves calls unguarded.
func New(cfg config.FetchConfig, logger *errors.Logger) *Fetcher {
	f := &Fetcher{
		client:       newClient(cfg.Timeout, cfg.AllowPrivateNetworks),
		userAgent:    cfg.UserAgent,
		maxBodySize:  cfg.MaxBodySize,
		allowPrivate: cfg.AllowPrivateNetworks,
		logger:       logger,
	}
	if cfg.CircuitBreaker.Enabled {
		f.cb = newBreaker(cfg.CircuitBreaker, logger)
	}
	return f
}

func newBreaker(cfg config.CircuitBreakerConfig, logger *errors.Logger) *gobreaker.CircuitBreaker[string] {
	settings := gobreaker.Settings{
		Name:        "jd-fetch",
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= cfg.MinRequests && failureRatio >= cfg.FailureThreshold
		},
		// 4xx responses, invalid URLs and refused addresses do not count as failures.
		IsSuccessful: func(err error) bool {
			var fe *Error
			if stderrors.As(err, &fe) && fe.StatusCode >= 400 && fe.StatusCode < 500 {
				return true
			}
			return err == nil || stderrors.Is(err, errInvalidURL) || stderrors.Is(err, errBlockedAddress)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			if logger != nil {
				logger.Info("Circuit breaker state changed",
					"name", name,
					"from", from.String(),
					"to", to.String())
			}
		},
	}
	return gobreaker.NewCircuitBreaker[string](settings)
}

var errInvalidURL = stderrors.New("invalid URL")

// Fetch downloads rawURL and returns the job description text.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	var (
		text string
		err  error
	)
	if f.cb == nil {
		text, err = f.fetch(ctx, rawURL)
	} else {
		text, err = f.cb.Execute(func() (string, error) { return f.fetch(ctx, rawURL) })
	}
	if err == nil {
		return text, nil
	}

	if stderrors.Is(err, gobreaker.ErrOpenState) || stderrors.Is(err, gobreaker.ErrTooManyRequests) {
		return "", errors.NewNetworkError(errors.ErrCodeCircuitOpen,
			"job posting fetches are temporarily suspended after repeated failures", err).
			WithContext("url", rawURL)
	}
	if stderrors.Is(err, errBlockedAddress) {
		return "", errors.NewValidationError(errors.ErrCodeInvalidRequest,
			"job posting URL must resolve to a public address", err).
			WithContext("url", rawURL)
	}
	if stderrors.Is(err, errInvalidURL) {
		return "", errors.NewValidationError(errors.ErrCodeInvalidRequest, "invalid job posting URL", err).
			WithContext("url", rawURL)
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return "", errors.NewNetworkError(errors.ErrCodeNetworkTimeout, "timed out fetching job posting", err).
			WithContext("url", rawURL)
	}
	return "", errors.NewNetworkError(errors.ErrCodeFetchFailed, "failed to fetch job posting", err).
		WithContext("url", rawURL)
}

func (f *Fetcher) fetch(ctx context.Context, rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return "", &Error{URL: rawURL, Message: "only absolute http and https URLs are accepted", Cause: errInvalidURL}
	}
	if !f.allowPrivate {
		if err := checkHost(u); err != nil {
			return "", &Error{URL: rawURL, Message: "address refused", Cause: err}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", &Error{URL: rawURL, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,text/plain")

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return "", &Error{URL: rawURL, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", &Error{URL: rawURL, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode), StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize+1))
	if err != nil {
		return "", &Error{URL: rawURL, Message: "failed to read response body", Cause: err}
	}
	if int64(len(body)) > f.maxBodySize {
		return "", &Error{URL: rawURL, Message: fmt.Sprintf("response exceeds %d bytes", f.maxBodySize)}
	}

	text, err := extract.HTMLText(string(body), extract.JobPostingSelectors())
	if err != nil {
		return "", &Error{URL: rawURL, Message: "failed to parse job posting", Cause: err}
	}
	if f.logger != nil {
		f.logger.Debug("Fetched job posting",
			"url", rawURL,
			"bytes", len(body),
			"text_length", len(text),
			"duration", time.Since(start))
	}
	return text, nil
}

// State reports the breaker state, "disabled" without a breaker.
func (f *Fetcher) State() string {
	if f.cb == nil {
		return "disabled"
	}
	return f.cb.State().String()
}

// IsHealthy returns true unless the breaker is open
func (f *Fetcher) IsHealthy() bool {
	return f.cb == nil || f.cb.State() != gobreaker.StateOpen
}

// Stats returns circuit breaker statistics
func (f *Fetcher) Stats() map[string]any {
	if f.cb == nil {
		return map[string]any{"enabled": false}
	}
	return map[string]any{
		"enabled": true,
		"name":    f.cb.Name(),
		"state":   f.cb.State().String(),
		"counts":  f.cb.Counts(),
	}
}
