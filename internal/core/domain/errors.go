package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown document type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrUpstreamUnavailable indicates an upstream service could not be reached
	// (DNS failure, connection refused, timeout).
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrUpstreamStatus indicates an upstream answered with a status outside the
	// caller's accepted range.
	ErrUpstreamStatus = errors.New("unexpected upstream status")
)
