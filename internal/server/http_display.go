package server

import (
	"fmt"
	"io"
	"net/http"
	"os"
)

// displayServerInfo prints the listening address and server configuration on stderr
func (s *Server) displayServerInfo(httpServer *http.Server) {
	s.writeServerInfo(os.Stderr, httpServer)
}

func (s *Server) writeServerInfo(w io.Writer, httpServer *http.Server) {
	scheme := "http"
	if httpServer.TLSConfig != nil {
		scheme = "https"
	}
	fmt.Fprintf(w, "Starting server on %s://%s\n", scheme, httpServer.Addr)
	fmt.Fprintf(w, "TLS mode: %s\n", s.tlsModeName())

	fmt.Fprintln(w, "Available endpoints:")
	fmt.Fprintln(w, "  GET  /health          - Health check")
	fmt.Fprintln(w, "  GET  /stats           - Server statistics")
	fmt.Fprintln(w, "  POST /analyze         - Analyze job description")
	fmt.Fprintln(w, "  POST /parse           - Parse resume document")
	fmt.Fprintln(w, "  POST /score           - Score resume against job description")
	fmt.Fprintln(w, "  POST /optimize        - Optimize resume for job description")
	fmt.Fprintln(w, "  POST /optimize/batch  - Optimize resume for several job descriptions")

	if len(s.APIKeys) > 0 {
		fmt.Fprintf(w, "API authentication: ENABLED (%d keys configured)\n", len(s.APIKeys))
	} else {
		fmt.Fprintln(w, "API authentication: DISABLED (no API keys configured)")
		fmt.Fprintln(w, "WARNING: API endpoints are publicly accessible!")
	}

	if s.MaxRequestSize > 0 {
		fmt.Fprintf(w, "Request size limit: %d bytes (%.1f MB)\n", s.MaxRequestSize, float64(s.MaxRequestSize)/(1024*1024))
	} else {
		fmt.Fprintln(w, "Request size limit: DISABLED")
	}

	if s.RateLimit.Enabled {
		fmt.Fprintf(w, "Rate limiting: ENABLED (%d requests/min, burst: %d)\n",
			s.RateLimit.RequestsPerMin, s.RateLimit.BurstCapacity)
	} else {
		fmt.Fprintln(w, "Rate limiting: DISABLED")
	}

	if s.certs != nil && s.certs.watching() {
		fmt.Fprintln(w, "TLS auto-reload: ENABLED (file watching)")
	}
}

func (s *Server) tlsModeName() string {
	switch s.TLSConfig.Mode {
	case "server":
		return "Server-only (no client certificates required)"
	case "mutual":
		return "Mutual (client certificates required)"
	default:
		return "Disabled (HTTP only)"
	}
}
