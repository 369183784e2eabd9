// Package handler provides HTTP request handlers for the wellness API.
//
// Each handler struct wraps one service interface declared in this package,
// so tests can drive handlers with hand-written mocks and httptest.
//
// # Response Format
//
// Handlers use the helpers in response.go:
//
//   - WriteData: single resource in a {data, _links} envelope
//   - WriteCollection: whole list with its count
//   - WriteError: RFC 9457 Problem Details
//
// Service errors go through MapServiceError, which maps each sentinel to a
// status code. Incomplete questionnaire submissions come back as 422 with one
// entry per failing field.
//
// # Event Stream
//
// EventsHandler.Stream serves GET /v1/users/{userId}/events as server-sent
// events from the service.EventHub. Progress changes for that user arrive as
// they happen, plus a periodic heartbeat.
//
// # Identity
//
// There is no authentication. Users are addressed by the {userId} path value,
// either a bare key or a full "user:<key>" record id.
//
// # Example Usage
//
//	h := handler.NewAssessmentHandler(assessmentService)
//	mux.HandleFunc("POST /v1/users/{userId}/assessments", h.Submit)
package handler
