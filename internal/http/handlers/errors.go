// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// This file centralizes symbolic error code constants that are mapped to HTTP
// responses (via the `fail()` helper in this package). These codes provide
// clients with a stable, machine-readable error taxonomy that supplements
// human-readable messages.
//
// Conventions:
//   - Codes are lowercase, snake_case, and domain-agnostic unless explicitly noted.
//   - Generic codes (e.g., bad_request, not_found) mirror common HTTP status
//     semantics to aid interoperability.
//   - Domain-specific codes (e.g., no_face_detected) are reserved for business
//     logic errors that cannot be conveyed by status alone.
//
// Note the deliberate asymmetry of the chat endpoint: unparseable stats and
// assistant outages are NOT represented here because they are answered with a
// 200 and a friendly reply, never an error envelope.
package handlers

const (
	ErrCodeBadRequest = "bad_request"
	ErrCodeNotFound   = "not_found"
	ErrCodeInternal   = "internal_error"

	// Domain-specific:
	ErrCodeNoFaceDetected   = "no_face_detected"
	ErrCodeDuplicateProfile = "already_registered"
	ErrCodeRegisterFailed   = "register_failed"
	ErrCodeRecognizeFailed  = "recognize_failed"
	ErrCodeHistoryFailed    = "history_failed"
	ErrCodeMethodNotAllowed = "method_not_allowed"
)
