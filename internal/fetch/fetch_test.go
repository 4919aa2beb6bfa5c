package fetch

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"resumeai/internal/config"
	"resumeai/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const postingPage = `<html><body>
<nav>Jobs home</nav>
<div class="job-description">
<h1>Senior Backend Engineer</h1>
<p>Design and build scalable microservices.</p>
</div>
</body></html>`

func testConfig(breaker bool) config.FetchConfig {
	return config.FetchConfig{
		Timeout:              2 * time.Second,
		UserAgent:            "resumeai-test",
		MaxBodySize:          1 << 16,
		AllowPrivateNetworks: true,
		CircuitBreaker: config.CircuitBreakerConfig{
			Enabled:          breaker,
			MaxRequests:      1,
			Interval:         time.Minute,
			Timeout:          time.Minute,
			MinRequests:      2,
			FailureThreshold: 0.5,
		},
	}
}

func appCode(t *testing.T, err error) string {
	t.Helper()
	appErr, ok := errors.AsAppError(err)
	require.True(t, ok, "expected AppError, got %T", err)
	return appErr.Code
}

func TestFetchExtractsPosting(t *testing.T) {
	var userAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userAgent = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(postingPage))
	}))
	defer srv.Close()

	f := New(testConfig(true), nil)
	text, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "Senior Backend Engineer\nDesign and build scalable microservices.", text)
	assert.Equal(t, "resumeai-test", userAgent)
	assert.Equal(t, "closed", f.State())
	assert.True(t, f.IsHealthy())
}

func TestFetchInvalidURL(t *testing.T) {
	f := New(testConfig(true), nil)
	for _, u := range []string{"ftp://example.com/job", "/relative/path", "://bad"} {
		_, err := f.Fetch(context.Background(), u)
		require.Error(t, err, u)
		assert.Equal(t, errors.ErrCodeInvalidRequest, appCode(t, err), u)
	}
	assert.Equal(t, "closed", f.State())
}

func TestFetchNotFoundDoesNotTrip(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	f := New(testConfig(true), nil)
	for range 5 {
		_, err := f.Fetch(context.Background(), srv.URL)
		require.Error(t, err)
		assert.Equal(t, errors.ErrCodeFetchFailed, appCode(t, err))
	}
	assert.Equal(t, "closed", f.State())
}

func TestFetchBreakerOpens(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	f := New(testConfig(true), nil)
	for range 2 {
		_, err := f.Fetch(context.Background(), srv.URL)
		require.Error(t, err)
		assert.Equal(t, errors.ErrCodeFetchFailed, appCode(t, err))
	}

	_, err := f.Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeCircuitOpen, appCode(t, err))
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, "open", f.State())
	assert.False(t, f.IsHealthy())
	assert.Equal(t, "open", f.Stats()["state"])
}

func TestFetchWithoutBreaker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	f := New(testConfig(false), nil)
	for range 4 {
		_, err := f.Fetch(context.Background(), srv.URL)
		assert.Equal(t, errors.ErrCodeFetchFailed, appCode(t, err))
	}
	assert.Equal(t, "disabled", f.State())
	assert.Equal(t, map[string]any{"enabled": false}, f.Stats())
}

func TestFetchBodyLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", 2048)))
	}))
	defer srv.Close()

	cfg := testConfig(false)
	cfg.MaxBodySize = 1024
	_, err := New(cfg, nil).Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds 1024 bytes")
}

func TestFetchTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := New(testConfig(false), nil).Fetch(ctx, srv.URL)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeNetworkTimeout, appCode(t, err))
}

func TestFetchRefusesPrivateAddresses(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte("internal admin page"))
	}))
	defer srv.Close()

	cfg := testConfig(true)
	cfg.AllowPrivateNetworks = false
	f := New(cfg, nil)

	_, port, err := net.SplitHostPort(strings.TrimPrefix(srv.URL, "http://"))
	require.NoError(t, err)

	urls := []string{
		srv.URL + "/admin",
		"http://localhost:" + port + "/admin",
		"http://169.254.169.254/latest/meta-data/",
		"http://[::1]:" + port + "/",
		"http://10.0.0.7/",
	}
	for _, u := range urls {
		_, err := f.Fetch(context.Background(), u)
		require.Error(t, err, u)
		assert.Equal(t, errors.ErrCodeInvalidRequest, appCode(t, err), u)
	}
	assert.Equal(t, int32(0), calls.Load())
	assert.Equal(t, "closed", f.State())
}

func TestIsPublic(t *testing.T) {
	tests := []struct {
		addr string
		want bool
	}{
		{"93.184.216.34", true},
		{"2606:4700::1111", true},
		{"127.0.0.1", false},
		{"::1", false},
		{"10.1.2.3", false},
		{"172.16.0.1", false},
		{"192.168.1.1", false},
		{"169.254.169.254", false},
		{"fe80::1", false},
		{"fd00::1", false},
		{"100.64.0.1", false},
		{"0.0.0.0", false},
		{"::ffff:127.0.0.1", false},
		{"224.0.0.1", false},
	}
	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			assert.Equal(t, tt.want, isPublic(netip.MustParseAddr(tt.addr)))
		})
	}
}

func TestDialControl(t *testing.T) {
	assert.NoError(t, dialControl("tcp", "93.184.216.34:443", nil))
	assert.ErrorIs(t, dialControl("tcp", "127.0.0.1:8080", nil), errBlockedAddress)
	assert.ErrorIs(t, dialControl("tcp6", "[fe80::1]:80", nil), errBlockedAddress)
	assert.ErrorIs(t, dialControl("tcp", "not-an-address", nil), errBlockedAddress)
}

func TestCheckRedirect(t *testing.T) {
	req := func(raw string) *http.Request {
		r, err := http.NewRequest(http.MethodGet, raw, nil)
		require.NoError(t, err)
		return r
	}
	assert.NoError(t, checkRedirect(req("https://jobs.example.com/posting/1"), nil))
	assert.ErrorIs(t, checkRedirect(req("http://169.254.169.254/latest/"), nil), errBlockedAddress)
	assert.ErrorIs(t, checkRedirect(req("file:///etc/passwd"), nil), errInvalidURL)

	via := make([]*http.Request, maxRedirects)
	assert.Error(t, checkRedirect(req("https://jobs.example.com/"), via))
}
