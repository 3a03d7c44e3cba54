package router

import (
	"context"
	"fmt"

	"github.com/getmockd/routed/pkg/wire"
)

// MiddlewareFunc observes a parsed request before route lookup. It cannot
// change the request or the response; a returned error is only logged.
type MiddlewareFunc[S any] func(ctx context.Context, req *wire.Request, state S) error

// Chain runs middleware in registration order.
type Chain[S any] struct {
	fns []MiddlewareFunc[S]
}

// Use appends fn to the chain.
func (c *Chain[S]) Use(fn MiddlewareFunc[S]) {
	c.fns = append(c.fns, fn)
}

// Len returns the number of registered middleware.
func (c *Chain[S]) Len() int { return len(c.fns) }

// Run calls every middleware in order. A failing or panicking middleware is
// reported to onError with its position and the chain continues.
func (c *Chain[S]) Run(ctx context.Context, req *wire.Request, state S, onError func(pos int, err error)) {
	for i, fn := range c.fns {
		if err := callMiddleware(ctx, fn, req, state); err != nil && onError != nil {
			onError(i, err)
		}
	}
}

func callMiddleware[S any](ctx context.Context, fn MiddlewareFunc[S], req *wire.Request, state S) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: %v", ErrMiddlewarePanic, p)
		}
	}()
	return fn(ctx, req, state)
}
