package integrations

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/pycompat/pkg/cache"
	apperrors "github.com/matzehuels/pycompat/pkg/errors"
	"github.com/matzehuels/pycompat/pkg/httputil"
)

// fastRetry keeps retry tests quick.
var fastRetry = httputil.Policy{Attempts: 3, Delay: time.Millisecond}

func newTestClient(t *testing.T, server *httptest.Server, headers map[string]string) (*Client, *cache.FileCache) {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	t.Cleanup(func() { c.Close() })

	opts := []Option{WithRetryPolicy(fastRetry)}
	if server != nil {
		opts = append(opts, WithHTTPClient(server.Client()))
	}
	return NewClient(c, "test", time.Hour, headers, opts...), c
}

func TestNewClient(t *testing.T) {
	headers := map[string]string{"User-Agent": "pycompat/test"}
	client, c := newTestClient(t, nil, headers)

	if client.http == nil {
		t.Error("NewClient() http client is nil")
	}
	if client.cache != c {
		t.Error("NewClient() cache not set correctly")
	}
	if client.headers["User-Agent"] != "pycompat/test" {
		t.Error("NewClient() headers not set correctly")
	}
	if client.retry.Attempts != fastRetry.Attempts {
		t.Error("WithRetryPolicy not applied")
	}
}

func TestNewClientNilCache(t *testing.T) {
	client := NewClient(nil, "test", time.Hour, nil)
	if _, ok := client.cache.(*cache.NullCache); !ok {
		t.Errorf("nil backend should become NullCache, got %T", client.cache)
	}
}

func TestClientGet(t *testing.T) {
	type response struct {
		Message string `json:"message"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		json.NewEncoder(w).Encode(response{Message: "hello"})
	}))
	defer server.Close()

	client, _ := newTestClient(t, server, nil)

	var resp response
	if err := client.Get(context.Background(), server.URL, &resp); err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if resp.Message != "hello" {
		t.Errorf("Get() message = %q, want %q", resp.Message, "hello")
	}
}

func TestClientGetWithHeadersOverridesDefaults(t *testing.T) {
	var got, def string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("X-Override")
		def = r.Header.Get("X-Default")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}))
	defer server.Close()

	client, _ := newTestClient(t, server, map[string]string{"X-Override": "default", "X-Default": "kept"})

	var resp map[string]string
	err := client.GetWithHeaders(context.Background(), server.URL, map[string]string{"X-Override": "overridden"}, &resp)
	if err != nil {
		t.Fatalf("GetWithHeaders() error: %v", err)
	}
	if got != "overridden" {
		t.Errorf("header = %q, want %q", got, "overridden")
	}
	if def != "kept" {
		t.Errorf("default header = %q, want %q", def, "kept")
	}
}

func TestClientGet404(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client, _ := newTestClient(t, server, nil)

	var resp map[string]string
	err := client.Get(context.Background(), server.URL, &resp)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestClientGetMalformed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer server.Close()

	client, _ := newTestClient(t, server, nil)

	var resp map[string]string
	err := client.Get(context.Background(), server.URL, &resp)
	if !errors.Is(err, ErrMalformed) {
		t.Errorf("Get() error = %v, want ErrMalformed", err)
	}
}

func TestClientGet500(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client, _ := newTestClient(t, server, nil)

	var resp map[string]string
	err := client.Get(context.Background(), server.URL, &resp)
	if !errors.Is(err, ErrNetwork) {
		t.Errorf("Get() error = %v, want ErrNetwork", err)
	}
	if !httputil.IsRetryable(err) {
		t.Errorf("Get() error should be retryable, got %T", err)
	}
}

func TestClientCached(t *testing.T) {
	client, _ := newTestClient(t, nil, nil)
	ctx := context.Background()

	type release struct {
		Value string `json:"value"`
	}

	fetchCount := 0
	fetch := func(v *release) func() error {
		return func() error {
			fetchCount++
			v.Value = "fetched"
			return nil
		}
	}

	var first release
	if err := client.Cached(ctx, "requests==2.25.1", false, &first, fetch(&first)); err != nil {
		t.Fatalf("Cached() error: %v", err)
	}

	var second release
	if err := client.Cached(ctx, "requests==2.25.1", false, &second, fetch(&second)); err != nil {
		t.Fatalf("Cached() error: %v", err)
	}
	if fetchCount != 1 {
		t.Errorf("fetch count = %d, want 1 (second call should hit cache)", fetchCount)
	}
	if second.Value != "fetched" {
		t.Errorf("cached value = %q, want %q", second.Value, "fetched")
	}
}

func TestClientCachedRefresh(t *testing.T) {
	client, _ := newTestClient(t, nil, nil)
	ctx := context.Background()

	fetchCount := 0
	var value string
	fetch := func() error {
		fetchCount++
		value = "fetched"
		return nil
	}

	for range 2 {
		if err := client.Cached(ctx, "key", true, &value, fetch); err != nil {
			t.Fatalf("Cached() error: %v", err)
		}
	}
	if fetchCount != 2 {
		t.Errorf("fetch count = %d, want 2", fetchCount)
	}
}

func TestClientCachedFetchErrorNotCached(t *testing.T) {
	client, c := newTestClient(t, nil, nil)
	ctx := context.Background()

	var value string
	err := client.Cached(ctx, "missing==1.0", false, &value, func() error {
		return ErrNotFound
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Cached() error = %v, want ErrNotFound", err)
	}
	if _, hit, _ := c.Get(ctx, cache.Key("test", "missing==1.0")); hit {
		t.Error("failed fetch should not be cached")
	}
}

func TestClientCachedRetriesTransientErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}))
	defer server.Close()

	client, _ := newTestClient(t, server, nil)

	var resp map[string]string
	err := client.Cached(context.Background(), "flaky", false, &resp, func() error {
		return client.Get(context.Background(), server.URL, &resp)
	})
	if err != nil {
		t.Fatalf("Cached() error: %v", err)
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", calls.Load())
	}
}

func TestCheckStatus(t *testing.T) {
	tests := []struct {
		name       string
		code       int
		retryAfter string
		wantErr    error
		retryable  bool
		rateLimit  int
	}{
		{name: "200 OK", code: 200},
		{name: "404 Not Found", code: 404, wantErr: ErrNotFound},
		{name: "429 with Retry-After", code: 429, retryAfter: "7", wantErr: ErrNetwork, retryable: true, rateLimit: 7},
		{name: "429 without Retry-After", code: 429, wantErr: ErrNetwork, retryable: true},
		{name: "500 Internal Server Error", code: 500, wantErr: ErrNetwork, retryable: true},
		{name: "503 Service Unavailable", code: 503, wantErr: ErrNetwork, retryable: true},
		{name: "400 Bad Request", code: 400, wantErr: ErrNetwork},
		{name: "403 Forbidden", code: 403, wantErr: ErrNetwork},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkStatus(tt.code, tt.retryAfter)

			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("checkStatus() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("checkStatus() error = %v, want %v", err, tt.wantErr)
			}
			if httputil.IsRetryable(err) != tt.retryable {
				t.Errorf("IsRetryable = %v, want %v", httputil.IsRetryable(err), tt.retryable)
			}
			if tt.code == 429 {
				var rl *apperrors.RateLimitedError
				if !errors.As(err, &rl) {
					t.Fatalf("429 should carry RateLimitedError, got %v", err)
				}
				if rl.RetryAfter != tt.rateLimit {
					t.Errorf("RetryAfter = %d, want %d", rl.RetryAfter, tt.rateLimit)
				}
			}
		})
	}
}

func TestNormalizePkgName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercase", "Package", "package"},
		{"underscore to dash", "my_package", "my-package"},
		{"trim spaces", "  package  ", "package"},
		{"combined", "  My_Package  ", "my-package"},
		{"empty", "", ""},
		{"already normalized", "my-package", "my-package"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizePkgName(tt.input); got != tt.want {
				t.Errorf("NormalizePkgName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNewHTTPClient(t *testing.T) {
	client := NewHTTPClient(0, 0)
	if client.Timeout != httpTimeout {
		t.Errorf("Timeout = %v, want %v", client.Timeout, httpTimeout)
	}

	client = NewHTTPClient(3*time.Second, 8)
	if client.Timeout != 3*time.Second {
		t.Errorf("Timeout = %v, want 3s", client.Timeout)
	}
	tr, ok := client.Transport.(*http.Transport)
	if !ok {
		t.Fatalf("Transport = %T, want *http.Transport", client.Transport)
	}
	if tr.MaxConnsPerHost != 8 {
		t.Errorf("MaxConnsPerHost = %d, want 8", tr.MaxConnsPerHost)
	}
}
