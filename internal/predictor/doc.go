// Package predictor is the HTTP client for the lifestyle and stress model
// service.
//
// Identical request bodies are answered from an LRU cache keyed by a BLAKE2b
// digest of the endpoint and body, so resubmitting the same answers does not
// hit the models again. Calls are never retried; failures surface as
// ErrUnavailable, ErrUnexpectedStatus or ErrBadResponse.
package predictor
