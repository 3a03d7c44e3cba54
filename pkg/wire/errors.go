package wire

import "errors"

// Parse and framing errors.
var (
	// ErrEmptyRequest is returned when no bytes were received.
	ErrEmptyRequest = errors.New("empty request")

	// ErrMalformedRequest is returned when the request line lacks a method or path.
	ErrMalformedRequest = errors.New("malformed request line")

	// ErrUnsupportedMethod is returned for method tokens outside GET, POST, PUT and DELETE.
	ErrUnsupportedMethod = errors.New("unsupported method")

	// ErrRequestTooLarge is returned by ReadRequest when the request exceeds the size limit.
	ErrRequestTooLarge = errors.New("request exceeds maximum size")

	// ErrNotJSON is returned by Request.JSONPath when the body is not valid JSON.
	ErrNotJSON = errors.New("request body is not JSON")
)
