package router

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"

	"golang.org/x/net/netutil"
	"golang.org/x/sync/errgroup"

	"github.com/getmockd/routed/pkg/logging"
	"github.com/getmockd/routed/pkg/wire"
)

// Cloner is implemented by state types that need more than a Go value copy
// to produce the per-connection duplicate.
type Cloner[S any] interface {
	Clone() S
}

// Router owns the route table, the middleware chain and the application
// state, and serves connections.
type Router[S any] struct {
	state S
	table *Table[S]
	chain Chain[S]
	opts  options
	log   *slog.Logger

	readyOnce sync.Once
	ready     chan struct{}
	addr      net.Addr
	conns     sync.WaitGroup
}

// New creates a Router holding state.
func New[S any](state S, opts ...Option) *Router[S] {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = logging.Nop()
	}

	return &Router[S]{
		state: state,
		table: NewTable[S](),
		opts:  o,
		log:   o.log.With("component", "router"),
		ready: make(chan struct{}),
	}
}

// Handle registers handler for method and path. It panics on an invalid
// method, an empty path, a nil handler, or once serving has started.
func (r *Router[S]) Handle(method wire.Method, path string, handler HandlerFunc[S]) {
	switch {
	case !method.Valid():
		panic(fmt.Sprintf("router: invalid method %v", method))
	case path == "":
		panic("router: empty path")
	case handler == nil:
		panic("router: nil handler for " + wire.Identifier(method, path))
	}
	r.table.Add(NewRoute(method, path, handler))
}

// Get registers a GET route.
func (r *Router[S]) Get(path string, handler HandlerFunc[S]) {
	r.Handle(wire.MethodGet, path, handler)
}

// Post registers a POST route.
func (r *Router[S]) Post(path string, handler HandlerFunc[S]) {
	r.Handle(wire.MethodPost, path, handler)
}

// Put registers a PUT route.
func (r *Router[S]) Put(path string, handler HandlerFunc[S]) {
	r.Handle(wire.MethodPut, path, handler)
}

// Delete registers a DELETE route.
func (r *Router[S]) Delete(path string, handler HandlerFunc[S]) {
	r.Handle(wire.MethodDelete, path, handler)
}

// Use appends a middleware. It panics once serving has started.
func (r *Router[S]) Use(fn MiddlewareFunc[S]) {
	if r.table.Frozen() {
		panic("router: cannot add middleware after serving has started")
	}
	if fn == nil {
		panic("router: nil middleware")
	}
	r.chain.Use(fn)
}

// Routes returns the registered routes in registration order.
func (r *Router[S]) Routes() []Route[S] {
	return r.table.Routes()
}

// Table returns the route table.
func (r *Router[S]) Table() *Table[S] {
	return r.table
}

// Run listens on the TCP address addr and serves until ctx is cancelled or
// accepting fails.
func (r *Router[S]) Run(ctx context.Context, addr string) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return r.Serve(ctx, ln)
}

// Serve accepts connections from ln and serves each on its own goroutine.
// The route table is frozen first. Serve closes ln when it returns and waits
// for in-flight connections; it returns nil after ctx is cancelled and the
// accept error otherwise.
func (r *Router[S]) Serve(ctx context.Context, ln net.Listener) error {
	r.table.Freeze()

	if r.opts.maxConnections > 0 {
		ln = netutil.LimitListener(ln, r.opts.maxConnections)
	}

	r.readyOnce.Do(func() {
		r.addr = ln.Addr()
		close(r.ready)
	})
	r.log.Info("serving",
		"addr", ln.Addr().String(),
		"routes", r.table.Len(),
		"middleware", r.chain.Len(),
		"max_connections", r.opts.maxConnections,
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-gctx.Done()
		_ = ln.Close()
		return nil
	})
	g.Go(func() error {
		return r.acceptLoop(gctx, ln)
	})

	err := g.Wait()
	r.conns.Wait()
	r.log.Info("stopped", "addr", ln.Addr().String())
	return err
}

func (r *Router[S]) acceptLoop(ctx context.Context, ln net.Listener) error {
	for {
		if lim := r.opts.acceptLimiter; lim != nil && !lim.Allow() {
			r.log.Debug("accept rate limited", "tokens", lim.Available())
			if err := lim.Wait(ctx); err != nil {
				return nil
			}
		}

		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if errors.Is(err, net.ErrClosed) {
				return fmt.Errorf("listener closed: %w", err)
			}
			return fmt.Errorf("accept failed: %w", err)
		}

		r.conns.Add(1)
		go func() {
			defer r.conns.Done()
			r.ServeConn(ctx, conn)
		}()
	}
}

// Ready is closed once Serve has started accepting.
func (r *Router[S]) Ready() <-chan struct{} {
	return r.ready
}

// Addr returns the listening address, or nil before Serve has started.
func (r *Router[S]) Addr() net.Addr {
	select {
	case <-r.ready:
		return r.addr
	default:
		return nil
	}
}

// duplicateState returns the per-connection copy of the router state.
func (r *Router[S]) duplicateState() S {
	if c, ok := any(r.state).(Cloner[S]); ok {
		return c.Clone()
	}
	return r.state
}
