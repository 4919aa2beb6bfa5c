package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
)

const tracerName = "resumeai.engine"

// Metrics holds the custom instruments of the service. The zero value is
// usable and records nothing.
type Metrics struct {
	RequestCount    metric.Int64Counter
	RequestErrors   metric.Int64Counter
	RequestDuration metric.Float64Histogram

	ATSScore      metric.Int64Histogram
	KeywordsAdded metric.Int64Counter

	RateLimitHits   metric.Int64Counter
	TaxonomyReloads metric.Int64Counter
	CertReloads     metric.Int64Counter
}

// NewMetrics creates every instrument on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}
	var err error

	if m.RequestCount, err = meter.Int64Counter(
		"resumeai_requests_total",
		metric.WithDescription("Total number of engine operations"),
	); err != nil {
		return nil, fmt.Errorf("failed to create request count metric: %w", err)
	}

	if m.RequestErrors, err = meter.Int64Counter(
		"resumeai_request_errors_total",
		metric.WithDescription("Total number of failed engine operations"),
	); err != nil {
		return nil, fmt.Errorf("failed to create request error metric: %w", err)
	}

	if m.RequestDuration, err = meter.Float64Histogram(
		"resumeai_request_duration_seconds",
		metric.WithDescription("Time spent in engine operations"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("failed to create request duration metric: %w", err)
	}

	if m.ATSScore, err = meter.Int64Histogram(
		"resumeai_ats_score",
		metric.WithDescription("ATS scores before and after optimization"),
		metric.WithExplicitBucketBoundaries(25, 40, 55, 70, 85, 100),
	); err != nil {
		return nil, fmt.Errorf("failed to create ATS score metric: %w", err)
	}

	if m.KeywordsAdded, err = meter.Int64Counter(
		"resumeai_keywords_added_total",
		metric.WithDescription("Total number of JD keywords added by optimization"),
	); err != nil {
		return nil, fmt.Errorf("failed to create keywords added metric: %w", err)
	}

	if m.RateLimitHits, err = meter.Int64Counter(
		"resumeai_rate_limit_hits_total",
		metric.WithDescription("Total number of rate limit hits"),
	); err != nil {
		return nil, fmt.Errorf("failed to create rate limit hits metric: %w", err)
	}

	if m.TaxonomyReloads, err = meter.Int64Counter(
		"resumeai_taxonomy_reloads_total",
		metric.WithDescription("Total number of taxonomy reload attempts"),
	); err != nil {
		return nil, fmt.Errorf("failed to create taxonomy reload metric: %w", err)
	}

	if m.CertReloads, err = meter.Int64Counter(
		"resumeai_cert_reloads_total",
		metric.WithDescription("Total number of certificate reload attempts"),
	); err != nil {
		return nil, fmt.Errorf("failed to create certificate reload metric: %w", err)
	}

	return m, nil
}

// TrackOperation runs fn inside a span and records its count, duration and
// failure.
func (m *Metrics) TrackOperation(ctx context.Context, operation string, fn func(context.Context) error) error {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "engine."+operation)
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	duration := time.Since(start).Seconds()

	attrs := metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.Bool("success", err == nil),
	)
	if m.RequestCount != nil {
		m.RequestCount.Add(ctx, 1, attrs)
	}
	if m.RequestDuration != nil {
		m.RequestDuration.Record(ctx, duration, attrs)
	}
	if err != nil {
		if m.RequestErrors != nil {
			m.RequestErrors.Add(ctx, 1, attrs)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.SetAttributes(attribute.String("operation", operation))
	return err
}

// RecordOptimization records the score movement and keyword gain of one
// optimization.
func (m *Metrics) RecordOptimization(ctx context.Context, before, after, keywordsAdded int) {
	if m.ATSScore != nil {
		m.ATSScore.Record(ctx, int64(before), metric.WithAttributes(attribute.String("phase", "before")))
		m.ATSScore.Record(ctx, int64(after), metric.WithAttributes(attribute.String("phase", "after")))
	}
	if m.KeywordsAdded != nil && keywordsAdded > 0 {
		m.KeywordsAdded.Add(ctx, int64(keywordsAdded))
	}
}

// RecordRateLimitHit counts a rejected request; keyType is "ip" or "api_key".
func (m *Metrics) RecordRateLimitHit(ctx context.Context, keyType string) {
	if m.RateLimitHits != nil {
		m.RateLimitHits.Add(ctx, 1, metric.WithAttributes(attribute.String("key_type", keyType)))
	}
}

// RecordTaxonomyReload counts a taxonomy reload attempt
func (m *Metrics) RecordTaxonomyReload(ctx context.Context, success bool) {
	if m.TaxonomyReloads != nil {
		m.TaxonomyReloads.Add(ctx, 1, metric.WithAttributes(attribute.Bool("success", success)))
	}
}

// RecordCertReload counts a certificate reload attempt
func (m *Metrics) RecordCertReload(ctx context.Context, success bool) {
	if m.CertReloads != nil {
		m.CertReloads.Add(ctx, 1, metric.WithAttributes(attribute.Bool("success", success)))
	}
}
