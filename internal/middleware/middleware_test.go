package middleware

import (
	"compress/gzip"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

// captureHandler records whether it ran and the request it saw
type captureHandler struct {
	called  bool
	request *http.Request
}

func (h *captureHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.called = true
	h.request = r
	w.WriteHeader(http.StatusOK)
}

func okHandler(body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	})
}

// ============================================================================
// Chain Tests
// ============================================================================

func TestChain_AppliesInOrder(t *testing.T) {
	t.Parallel()

	tag := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(name + ">"))
				next.ServeHTTP(w, r)
			})
		}
	}

	tests := []struct {
		name        string
		middlewares []Middleware
		expected    string
	}{
		{"none", nil, "handler"},
		{"one", []Middleware{tag("a")}, "a>handler"},
		{"three", []Middleware{tag("a"), tag("b"), tag("c")}, "a>b>c>handler"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rr := httptest.NewRecorder()
			Chain(okHandler("handler"), tt.middlewares...).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
			if rr.Body.String() != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, rr.Body.String())
			}
		})
	}
}

// ============================================================================
// RequestID Tests
// ============================================================================

func TestRequestID_GeneratesUUIDWhenMissing(t *testing.T) {
	t.Parallel()

	h := &captureHandler{}
	rr := httptest.NewRecorder()
	RequestID(h).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	id := rr.Header().Get("X-Request-ID")
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("expected a UUID, got %q", id)
	}
	if GetRequestID(h.request.Context()) != id {
		t.Error("expected the id to be stored in the request context")
	}
}

func TestRequestID_PreservesIncoming(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "trace-123")
	rr := httptest.NewRecorder()
	RequestID(&captureHandler{}).ServeHTTP(rr, req)

	if rr.Header().Get("X-Request-ID") != "trace-123" {
		t.Errorf("expected trace-123, got %q", rr.Header().Get("X-Request-ID"))
	}
}

func TestGetRequestID_MissingOrWrongType(t *testing.T) {
	t.Parallel()

	if got := GetRequestID(context.Background()); got != "" {
		t.Errorf("expected empty, got %q", got)
	}
	ctx := context.WithValue(context.Background(), RequestIDKey, 42)
	if got := GetRequestID(ctx); got != "" {
		t.Errorf("expected empty for wrong type, got %q", got)
	}
}

// ============================================================================
// ClientKey Tests
// ============================================================================

func TestClientKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		remote    string
		forwarded string
		expected  string
	}{
		{"host and port", "10.1.2.3:5000", "", "10.1.2.3"},
		{"ipv6", "[::1]:5000", "", "::1"},
		{"no port", "unix-socket", "", "unix-socket"},
		{"forwarded first hop", "10.1.2.3:5000", "203.0.113.9, 10.0.0.1", "203.0.113.9"},
		{"blank forwarded", "10.1.2.3:5000", " , 10.0.0.1", "10.1.2.3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			if got := ClientKey(req); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

// ============================================================================
// Recovery Tests
// ============================================================================

func TestRecovery_NoPanic(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	Recovery(okHandler("fine")).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusOK || rr.Body.String() != "fine" {
		t.Errorf("unexpected response %d %q", rr.Code, rr.Body.String())
	}
}

func TestRecovery_PanicReturnsProblemJSON(t *testing.T) {
	t.Parallel()

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("predictor exploded")
	})
	rr := httptest.NewRecorder()
	Recovery(h).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"status":500`) {
		t.Errorf("expected problem body, got %q", rr.Body.String())
	}
	if strings.Contains(rr.Body.String(), "predictor exploded") {
		t.Error("panic value must not leak to the client")
	}
}

// ============================================================================
// CORS Tests
// ============================================================================

func TestCORS_Origins(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		allowed  []string
		origin   string
		expected string
	}{
		{"listed", []string{"https://a.example", "https://b.example"}, "https://b.example", "https://b.example"},
		{"not listed", []string{"https://a.example"}, "https://evil.example", ""},
		{"wildcard", []string{"*"}, "https://any.example", "https://any.example"},
		{"no origin", []string{"https://a.example"}, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			rr := httptest.NewRecorder()
			CORS(tt.allowed)(&captureHandler{}).ServeHTTP(rr, req)

			if got := rr.Header().Get("Access-Control-Allow-Origin"); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
			if !strings.Contains(rr.Header().Get("Access-Control-Allow-Methods"), "PUT") {
				t.Error("expected PUT among allowed methods")
			}
		})
	}
}

func TestCORS_PreflightShortCircuits(t *testing.T) {
	t.Parallel()

	h := &captureHandler{}
	req := httptest.NewRequest(http.MethodOptions, "/v1/users/u1/plan", nil)
	req.Header.Set("Origin", "https://a.example")
	rr := httptest.NewRecorder()
	CORS([]string{"https://a.example"})(h).ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rr.Code)
	}
	if h.called {
		t.Error("handler should not run for preflight")
	}
}

// ============================================================================
// Compress Tests
// ============================================================================

func TestCompress(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		accept     string
		encoding   string
		compressed bool
	}{
		{"gzip accepted", "application/json", "gzip, deflate", true},
		{"gzip not accepted", "application/json", "br", false},
		{"event stream", "text/event-stream", "gzip", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Accept", tt.accept)
			req.Header.Set("Accept-Encoding", tt.encoding)
			rr := httptest.NewRecorder()
			Compress(okHandler(`{"data":[]}`)).ServeHTTP(rr, req)

			isGzip := rr.Header().Get("Content-Encoding") == "gzip"
			if isGzip != tt.compressed {
				t.Fatalf("expected compressed=%v, got %v", tt.compressed, isGzip)
			}

			body := rr.Body.String()
			if isGzip {
				gz, err := gzip.NewReader(rr.Body)
				if err != nil {
					t.Fatalf("gzip reader: %v", err)
				}
				b, _ := io.ReadAll(gz)
				body = string(b)
			}
			if body != `{"data":[]}` {
				t.Errorf("unexpected body %q", body)
			}
		})
	}
}

// ============================================================================
// Logger / Metrics Tests
// ============================================================================

func TestLogger_PassesResponseThrough(t *testing.T) {
	t.Parallel()

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("created"))
	})
	rr := httptest.NewRecorder()
	Logger(h).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/v1/users", nil))

	if rr.Code != http.StatusCreated || rr.Body.String() != "created" {
		t.Errorf("unexpected response %d %q", rr.Code, rr.Body.String())
	}
}

type observation struct {
	method, route string
	status        int
}

type recordingObserver struct {
	mu  sync.Mutex
	obs []observation
}

func (o *recordingObserver) ObserveRequest(method, route string, status int, d time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.obs = append(o.obs, observation{method, route, status})
}

func TestMetrics_LabelsByMatchedPattern(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/users/{userId}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	obs := &recordingObserver{}
	h := Metrics(obs)(mux)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/users/abc", nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	if len(obs.obs) != 2 {
		t.Fatalf("expected 2 observations, got %d", len(obs.obs))
	}
	if obs.obs[0] != (observation{http.MethodGet, "GET /v1/users/{userId}", http.StatusNotFound}) {
		t.Errorf("unexpected first observation %+v", obs.obs[0])
	}
	if obs.obs[1].route != "unmatched" {
		t.Errorf("expected unmatched route, got %q", obs.obs[1].route)
	}
}

// ============================================================================
// responseWriter Tests
// ============================================================================

func TestResponseWriter_CapturesStatus(t *testing.T) {
	t.Parallel()

	rw := &responseWriter{ResponseWriter: httptest.NewRecorder(), statusCode: http.StatusOK}
	rw.WriteHeader(http.StatusTeapot)
	if rw.statusCode != http.StatusTeapot {
		t.Errorf("expected 418, got %d", rw.statusCode)
	}
}
