package forecast

import "errors"

var (
	// ErrTransport indicates the provider was unreachable or answered
	// with a non-success status.
	ErrTransport = errors.New("forecast provider request failed")

	// ErrMalformedResponse indicates the provider answered, but the
	// hourly block was missing, undecodable, or its field arrays did
	// not line up.
	ErrMalformedResponse = errors.New("malformed forecast response")

	// ErrInvalidInput indicates a location with out-of-range
	// coordinates, a missing name, or an invalid target date.
	ErrInvalidInput = errors.New("invalid forecast input")
)
