package observability

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"resumeai/internal/config"
	"resumeai/internal/errors"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/sdk/metric"
)

// PrometheusConfig holds Prometheus-specific configuration
type PrometheusConfig struct {
	Enabled  bool
	Endpoint string
	Port     string
}

// newPrometheusReader creates the OTel exporter that feeds the default
// Prometheus registry.
func newPrometheusReader() (metric.Reader, error) {
	exporter, err := prometheus.New()
	if err != nil {
		return nil, err
	}
	return exporter, nil
}

// PrometheusHandler returns a mux serving the default registry at endpoint
func PrometheusHandler(endpoint string) *http.ServeMux {
	if endpoint == "" {
		endpoint = "/metrics"
	}
	mux := http.NewServeMux()
	mux.Handle(endpoint, promhttp.Handler())
	return mux
}

// PrometheusServer serves metrics on a dedicated port
type PrometheusServer struct {
	server *http.Server
	logger *errors.Logger
}

// StartPrometheusServer starts a dedicated HTTP server for Prometheus metrics.
// It returns nil when Prometheus is disabled.
func StartPrometheusServer(cfg PrometheusConfig, logger *errors.Logger) (*PrometheusServer, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	if cfg.Port == "" {
		return nil, fmt.Errorf("prometheus port is required")
	}

	ps := &PrometheusServer{
		server: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           PrometheusHandler(cfg.Endpoint),
			ReadHeaderTimeout: 10 * time.Second, // Prevent Slowloris attacks
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		logger: logger,
	}

	go func() {
		if err := ps.server.ListenAndServe(); err != nil && err != http.ErrServerClosed && logger != nil {
			logger.LogError(err, "Prometheus server error")
		}
	}()

	if logger != nil {
		logger.Info("Prometheus metrics server started", "address", ps.server.Addr, "endpoint", cfg.Endpoint)
	}
	return ps, nil
}

// Shutdown stops the metrics server
func (ps *PrometheusServer) Shutdown(ctx context.Context) error {
	if ps == nil {
		return nil
	}
	return ps.server.Shutdown(ctx)
}

// GetPrometheusConfig creates Prometheus configuration from provided config
func GetPrometheusConfig(cfg *config.Config) PrometheusConfig {
	if cfg != nil {
		return PrometheusConfig{
			Enabled:  cfg.Observability.Prometheus.Enabled,
			Endpoint: cfg.Observability.Prometheus.Endpoint,
			Port:     cfg.Observability.Prometheus.Port,
		}
	}

	return PrometheusConfig{
		Enabled:  true,
		Endpoint: "/metrics",
		Port:     "9090",
	}
}
