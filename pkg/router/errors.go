package router

import "errors"

var (
	// ErrHandlerPanic wraps a value recovered from a panicking handler.
	ErrHandlerPanic = errors.New("handler panicked")

	// ErrMiddlewarePanic wraps a value recovered from a panicking middleware.
	ErrMiddlewarePanic = errors.New("middleware panicked")
)
