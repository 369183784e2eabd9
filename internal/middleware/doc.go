// Package middleware provides HTTP middleware for the wellness API.
//
// # Available Middleware
//
//   - RequestID: propagates or generates X-Request-ID
//   - Logger: one structured log line per request
//   - Recovery: turns panics into a 500 problem response
//   - Metrics: request latency by matched route pattern
//   - CORS: origin allow-list and preflight handling
//   - RateLimit: token bucket per client
//   - Compress: gzip when the client accepts it
//   - Idempotency: replays responses for repeated Idempotency-Key requests
//
// The API has no authentication, so per-client state (rate limit buckets,
// idempotency fingerprints) is keyed by ClientKey.
//
// Metrics must sit inside every middleware that copies the request, since
// the route pattern is only visible on the request the mux receives.
//
//	handler := middleware.Chain(mux,
//		middleware.RequestID,
//		middleware.Logger,
//		middleware.Recovery,
//		middleware.Metrics(recorder),
//		middleware.Compress,
//		middleware.Idempotency(store),
//	)
package middleware
