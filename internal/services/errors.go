// Package services defines the business logic for face profiles and the
// dietician chat. This file centralizes common service-level error values
// so that they can be consistently returned by service methods and checked
// by callers.
//
// These errors are intended for internal use by the service layer and
// translation into user-facing messages or HTTP status codes should be
// performed at the handler/controller layer.
package services

import "errors"

var (
	// ErrNoFaceDetected is returned when the face encoder finds zero faces
	// in a submitted image. The input is rejected; nothing was compared
	// against the known set.
	ErrNoFaceDetected = errors.New("no face found in the image")

	// ErrDuplicateProfile is returned when a registration embedding matches
	// an already-registered profile. Nothing is written.
	ErrDuplicateProfile = errors.New("user already exists")

	// ErrProfileNotFound indicates that the requested profile does not exist.
	ErrProfileNotFound = errors.New("profile not found")

	// ErrEmptyMessage is returned when a chat request carries a blank message.
	ErrEmptyMessage = errors.New("message is empty")
)
