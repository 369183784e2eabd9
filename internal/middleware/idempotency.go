package middleware

import (
	"bytes"
	"encoding/hex"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/sync/singleflight"
)

// IdempotencyStore remembers responses to requests that carried an
// Idempotency-Key header. Concurrent duplicates share one execution.
type IdempotencyStore struct {
	responses *expirable.LRU[string, *storedResponse]
	inflight  singleflight.Group
}

type storedResponse struct {
	status  int
	headers http.Header
	body    []byte
}

// IdempotencyConfig holds configuration for idempotency middleware
type IdempotencyConfig struct {
	TTL        time.Duration // How long to keep results (default 24h)
	MaxEntries int           // Oldest results are evicted past this (default 10000)
}

// NewIdempotencyStore creates a new idempotency store
func NewIdempotencyStore(cfg IdempotencyConfig) *IdempotencyStore {
	if cfg.TTL <= 0 {
		cfg.TTL = 24 * time.Hour
	}
	if cfg.MaxEntries <= 0 {
		cfg.MaxEntries = 10000
	}
	return &IdempotencyStore{
		responses: expirable.NewLRU[string, *storedResponse](cfg.MaxEntries, nil, cfg.TTL),
	}
}

// Len returns the number of remembered responses
func (s *IdempotencyStore) Len() int {
	return s.responses.Len()
}

// fingerprint identifies a request by client, key and content
func fingerprint(client, idempotencyKey, method, path string, body []byte) string {
	h, _ := blake2b.New256(nil)
	for _, part := range []string{client, idempotencyKey, method, path} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}

// captureWriter buffers a response so it can be stored and then replayed
type captureWriter struct {
	header http.Header
	status int
	body   bytes.Buffer
}

func newCaptureWriter() *captureWriter {
	return &captureWriter{header: make(http.Header), status: http.StatusOK}
}

func (c *captureWriter) Header() http.Header { return c.header }

func (c *captureWriter) WriteHeader(status int) { c.status = status }

func (c *captureWriter) Write(b []byte) (int, error) { return c.body.Write(b) }

func (c *captureWriter) stored() *storedResponse {
	return &storedResponse{status: c.status, headers: c.header, body: c.body.Bytes()}
}

func (s *storedResponse) writeTo(w http.ResponseWriter, replayed bool) {
	for k, v := range s.headers {
		for _, val := range v {
			w.Header().Add(k, val)
		}
	}
	if replayed {
		w.Header().Set("X-Idempotency-Replayed", "true")
	}
	w.WriteHeader(s.status)
	_, _ = w.Write(s.body)
}

// Idempotency returns middleware that handles idempotency keys for POST/PATCH
// requests. Server errors are not remembered so the client can retry them.
func Idempotency(store *IdempotencyStore) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost && r.Method != http.MethodPatch {
				next.ServeHTTP(w, r)
				return
			}

			idempotencyKey := r.Header.Get("Idempotency-Key")
			if idempotencyKey == "" {
				next.ServeHTTP(w, r)
				return
			}

			body, err := io.ReadAll(r.Body)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			key := fingerprint(ClientKey(r), idempotencyKey, r.Method, r.URL.Path, body)

			if resp, ok := store.responses.Get(key); ok {
				resp.writeTo(w, true)
				return
			}

			executed := false
			v, _, _ := store.inflight.Do(key, func() (interface{}, error) {
				if resp, ok := store.responses.Get(key); ok {
					return resp, nil
				}
				executed = true
				cw := newCaptureWriter()
				next.ServeHTTP(cw, r)
				resp := cw.stored()
				if resp.status < http.StatusInternalServerError {
					store.responses.Add(key, resp)
				}
				return resp, nil
			})
			v.(*storedResponse).writeTo(w, !executed)
		})
	}
}
