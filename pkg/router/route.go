package router

import (
	"context"

	"github.com/getmockd/routed/pkg/wire"
)

// HandlerFunc produces the response for a matched request. state is the
// connection's own duplicate of the router state.
type HandlerFunc[S any] func(ctx context.Context, req *wire.Request, state S) (wire.Response, error)

// Route binds a method and exact path to a handler. Routes are values and
// never change after construction.
type Route[S any] struct {
	method  wire.Method
	path    string
	handler HandlerFunc[S]
}

// NewRoute creates a Route.
func NewRoute[S any](method wire.Method, path string, handler HandlerFunc[S]) Route[S] {
	return Route[S]{method: method, path: path, handler: handler}
}

// Method returns the route method.
func (r Route[S]) Method() wire.Method { return r.method }

// Path returns the route path.
func (r Route[S]) Path() string { return r.path }

// Identifier returns the matching key, e.g. "GET /hello/world".
func (r Route[S]) Identifier() string {
	return wire.Identifier(r.method, r.path)
}

// Exec calls the handler.
func (r Route[S]) Exec(ctx context.Context, req *wire.Request, state S) (wire.Response, error) {
	return r.handler(ctx, req, state)
}
