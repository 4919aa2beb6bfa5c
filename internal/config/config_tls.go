package config

import (
	"crypto/tls"
	"fmt"
)

// TLS modes
const (
	TLSModeDisabled = "disabled"
	TLSModeServer   = "server"
	TLSModeMutual   = "mutual"
)

// ValidateTLSConfig validates the TLS configuration
func (c *Config) ValidateTLSConfig() error {
	t := c.Server.TLS

	switch t.Mode {
	case TLSModeDisabled:
		return nil
	case TLSModeServer:
		if err := requireFiles(t, false); err != nil {
			return err
		}
	case TLSModeMutual:
		if err := requireFiles(t, true); err != nil {
			return err
		}
		if _, err := ClientAuthType(t.ClientAuthPolicy); err != nil {
			return err
		}
	default:
		return fmt.Errorf("invalid TLS mode: %s (must be 'disabled', 'server', or 'mutual')", t.Mode)
	}

	_, err := MinTLSVersion(t.MinVersion)
	return err
}

// requireFiles checks that the certificate files needed by a mode are set
func requireFiles(t TLSConfig, needCA bool) error {
	if t.CertFile == "" || t.KeyFile == "" {
		return fmt.Errorf("TLS certificate and key files are required for %s mode", t.Mode)
	}
	if needCA && t.CAFile == "" {
		return fmt.Errorf("CA certificate file is required for mutual TLS mode")
	}
	return nil
}

// MinTLSVersion maps a configured version to its crypto/tls constant.
// Empty defaults to TLS 1.2.
func MinTLSVersion(version string) (uint16, error) {
	switch version {
	case "", "1.2":
		return tls.VersionTLS12, nil
	case "1.3":
		return tls.VersionTLS13, nil
	default:
		return 0, fmt.Errorf("invalid TLS minVersion: %s (must be '1.2' or '1.3')", version)
	}
}

// ClientAuthType maps a client auth policy to its crypto/tls constant.
// Empty defaults to require.
func ClientAuthType(policy string) (tls.ClientAuthType, error) {
	switch policy {
	case "", "require":
		return tls.RequireAndVerifyClientCert, nil
	case "request":
		return tls.RequestClientCert, nil
	case "verify":
		return tls.VerifyClientCertIfGiven, nil
	default:
		return tls.NoClientCert, fmt.Errorf("invalid clientAuthPolicy: %s (must be 'require', 'request', or 'verify')", policy)
	}
}
