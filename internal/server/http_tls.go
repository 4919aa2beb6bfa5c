package server

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net/http"
	"os"
	"sync/atomic"
	"time"

	"resumeai/internal/config"
	"resumeai/internal/errors"
	"resumeai/internal/observability"
	"resumeai/internal/watcher"
)

// certStore holds the serving certificate and client CA pool. Reloads swap
// both atomically so handshakes in flight keep the material they started with.
type certStore struct {
	cfg     config.TLSConfig
	cert    atomic.Pointer[tls.Certificate]
	caPool  atomic.Pointer[x509.CertPool]
	reloads atomic.Int64
	failed  atomic.Int64

	watcher *watcher.Watcher
	metrics *observability.Metrics
	logger  *errors.Logger
}

func newCertStore(cfg config.TLSConfig, metrics *observability.Metrics, logger *errors.Logger) (*certStore, error) {
	cs := &certStore{cfg: cfg, metrics: metrics, logger: logger}
	if err := cs.load(); err != nil {
		return nil, err
	}
	return cs, nil
}

// load reads the certificate, key and (in mutual mode) CA files
func (cs *certStore) load() error {
	if cs.cfg.CertFile == "" || cs.cfg.KeyFile == "" {
		return fmt.Errorf("TLS certificate and key files are required")
	}
	cert, err := tls.LoadX509KeyPair(cs.cfg.CertFile, cs.cfg.KeyFile)
	if err != nil {
		return fmt.Errorf("failed to load server cert/key from files: %w", err)
	}
	if len(cert.Certificate) > 0 && cert.Leaf == nil {
		if leaf, err := x509.ParseCertificate(cert.Certificate[0]); err == nil {
			cert.Leaf = leaf
		}
	}

	var pool *x509.CertPool
	if cs.cfg.Mode == config.TLSModeMutual {
		if pool, err = loadCACertificatePool(cs.cfg.CAFile); err != nil {
			return err
		}
	}

	cs.cert.Store(&cert)
	if pool != nil {
		cs.caPool.Store(pool)
	}
	return nil
}

// reload is the watcher callback. A failed reload keeps the previous material.
func (cs *certStore) reload() {
	err := cs.load()
	cs.metrics.RecordCertReload(context.Background(), err == nil)
	if err != nil {
		cs.failed.Add(1)
		cs.logger.LogError(err, "Failed to reload TLS certificates, keeping previous")
		return
	}
	cs.reloads.Add(1)
	cs.logger.Info("TLS certificates reloaded successfully")
}

func (cs *certStore) watch() error {
	if !cs.cfg.WatchFiles {
		return nil
	}
	files := []string{cs.cfg.CertFile, cs.cfg.KeyFile}
	if cs.cfg.Mode == config.TLSModeMutual {
		files = append(files, cs.cfg.CAFile)
	}
	w, err := watcher.New("tls", files, cs.cfg.WatchDebounce, cs.reload, cs.logger)
	if err != nil {
		return err
	}
	if err := w.Start(); err != nil {
		return err
	}
	cs.watcher = w
	return nil
}

func (cs *certStore) watching() bool {
	return cs.watcher != nil && cs.watcher.IsRunning()
}

func (cs *certStore) stop() error {
	if cs.watcher == nil {
		return nil
	}
	return cs.watcher.Stop()
}

// timeToExpiry returns the time left on the serving certificate
func (cs *certStore) timeToExpiry() (time.Duration, error) {
	cert := cs.cert.Load()
	if cert == nil || cert.Leaf == nil {
		return 0, fmt.Errorf("no parsed server certificate loaded")
	}
	return time.Until(cert.Leaf.NotAfter), nil
}

func (cs *certStore) getCertificate(*tls.ClientHelloInfo) (*tls.Certificate, error) {
	cert := cs.cert.Load()
	if cert == nil {
		return nil, fmt.Errorf("no server certificate loaded")
	}
	return cert, nil
}

// tlsConfig builds the listener configuration. In mutual mode each
// handshake picks up the latest CA pool.
func (cs *certStore) tlsConfig() (*tls.Config, error) {
	minVersion, err := config.MinTLSVersion(cs.cfg.MinVersion)
	if err != nil {
		return nil, err
	}
	base := &tls.Config{
		MinVersion:     minVersion,
		GetCertificate: cs.getCertificate,
		ClientAuth:     tls.NoClientCert,
	}
	if cs.cfg.Mode != config.TLSModeMutual {
		return base, nil
	}

	clientAuth, err := config.ClientAuthType(cs.cfg.ClientAuthPolicy)
	if err != nil {
		return nil, err
	}
	base.ClientAuth = clientAuth
	base.ClientCAs = cs.caPool.Load()
	base.GetConfigForClient = func(*tls.ClientHelloInfo) (*tls.Config, error) {
		c := base.Clone()
		c.GetConfigForClient = nil
		c.ClientCAs = cs.caPool.Load()
		return c, nil
	}
	return base, nil
}

// loadCACertificatePool loads the CA certificate pool for client verification
func loadCACertificatePool(caFile string) (*x509.CertPool, error) {
	if caFile == "" {
		return nil, fmt.Errorf("CA certificate file is required for mutual TLS mode")
	}
	caCert, err := os.ReadFile(caFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read CA file: %w", err)
	}
	pool := x509.NewCertPool()
	if ok := pool.AppendCertsFromPEM(caCert); !ok {
		return nil, fmt.Errorf("failed to append CA cert from %s", caFile)
	}
	return pool, nil
}

// configureTLS sets up TLS configuration based on the mode
func (s *Server) configureTLS(httpServer *http.Server) error {
	switch s.TLSConfig.Mode {
	case "", config.TLSModeDisabled:
		return nil
	case config.TLSModeServer, config.TLSModeMutual:
	default:
		return fmt.Errorf("invalid TLS mode: %s (must be 'disabled', 'server', or 'mutual')", s.TLSConfig.Mode)
	}

	certs, err := newCertStore(s.TLSConfig, s.metrics, s.Logger)
	if err != nil {
		return fmt.Errorf("failed to set up TLS: %w", err)
	}
	tlsConfig, err := certs.tlsConfig()
	if err != nil {
		return fmt.Errorf("failed to set up TLS: %w", err)
	}
	if err := certs.watch(); err != nil {
		return fmt.Errorf("failed to watch TLS files: %w", err)
	}

	s.certs = certs
	httpServer.TLSConfig = tlsConfig
	return nil
}
