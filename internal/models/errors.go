package models

import "errors"

var (
	// ErrTransport is returned when a remote service could not be reached.
	ErrTransport = errors.New("transport error")

	// ErrUnauthorized is returned on 401/403 responses.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound is returned on 404 responses.
	ErrNotFound = errors.New("not found")

	// ErrInvalidResponse is returned when a response has an unexpected
	// status or cannot be decoded.
	ErrInvalidResponse = errors.New("invalid response")

	// ErrNotConfigured is returned when a required credential or setting is
	// missing or still a placeholder.
	ErrNotConfigured = errors.New("not configured")

	ErrNoCandidates = errors.New("no books found")

	// ErrNoValidCategories is returned when the LLM reply contains no
	// category from the controlled vocabulary.
	ErrNoValidCategories = errors.New("no valid categories")

	// ErrUploadFailed is returned when a cover could not be stored.
	ErrUploadFailed = errors.New("cover upload failed")

	ErrInvalidEntry = errors.New("invalid catalog entry")
)
