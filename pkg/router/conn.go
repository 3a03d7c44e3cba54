package router

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"runtime/debug"
	"time"

	"github.com/google/uuid"

	"github.com/getmockd/routed/pkg/metrics"
	"github.com/getmockd/routed/pkg/wire"
)

// Label values used before a request has been parsed or a response written.
const (
	methodUnparsed = "unparsed"
	statusNone     = "none"
)

// exchange tracks one connection's request/response cycle for logging and metrics.
type exchange struct {
	conn   net.Conn
	log    *slog.Logger
	method string
	status string
}

// ServeConn runs one request/response cycle on conn and closes it.
// Every failure stays inside this call; nothing is returned to the caller.
func (r *Router[S]) ServeConn(ctx context.Context, conn net.Conn) {
	start := time.Now()
	ex := &exchange{
		conn:   conn,
		log:    r.log.With("conn_id", uuid.NewString(), "remote", remoteAddr(conn)),
		method: methodUnparsed,
		status: statusNone,
	}
	r.opts.metrics.ConnectionOpened()

	defer func() {
		if p := recover(); p != nil {
			ex.log.Error("connection panicked", "panic", p, "stack", string(debug.Stack()))
			r.opts.metrics.Error(metrics.ErrorPanic)
		}
		if err := conn.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			ex.log.Debug("close failed", "error", err)
		}
		r.opts.metrics.ConnectionClosed()
		r.opts.metrics.ObserveRequest(ex.method, ex.status, time.Since(start))
		ex.log.Debug("connection closed", "method", ex.method, "status", ex.status, "duration", time.Since(start))
	}()

	r.serve(ctx, ex)
}

func (r *Router[S]) serve(ctx context.Context, ex *exchange) {
	if r.opts.readTimeout > 0 {
		_ = ex.conn.SetReadDeadline(time.Now().Add(r.opts.readTimeout))
	}
	// Shutdown unblocks a read that is still waiting for the request.
	stop := context.AfterFunc(ctx, func() {
		_ = ex.conn.SetReadDeadline(time.Now())
	})
	data, err := wire.ReadRequest(ex.conn, r.opts.maxRequestBytes)
	stop()
	switch {
	case errors.Is(err, wire.ErrRequestTooLarge):
		ex.log.Warn("request too large", "error", err)
		r.opts.metrics.Error(metrics.ErrorTooLarge)
		r.writeStatus(ex, wire.StatusPayloadTooLarge)
		return
	case err != nil:
		ex.log.Debug("read failed", "error", err)
		r.opts.metrics.Error(metrics.ErrorIO)
		return
	}

	req, err := wire.Parse(data)
	if err != nil {
		ex.log.Debug("dropping unparseable request", "error", err, "bytes", len(data))
		r.opts.metrics.Error(metrics.ErrorParse)
		return
	}
	ex.method = req.Method().String()
	ex.log = ex.log.With("request", req.Identifier())

	state := r.duplicateState()

	r.chain.Run(ctx, req, state, func(pos int, err error) {
		ex.log.Warn("middleware failed", "position", pos, "error", err)
		r.opts.metrics.Error(metrics.ErrorMiddleware)
	})

	route, ok := r.table.Match(req)
	if !ok {
		r.opts.metrics.MatchMiss()
		r.writeStatus(ex, wire.StatusNotFound)
		return
	}

	resp, err := invoke(ctx, route, req, state)
	if err != nil {
		kind := metrics.ErrorHandler
		if errors.Is(err, ErrHandlerPanic) {
			kind = metrics.ErrorPanic
		}
		ex.log.Error("handler failed", "error", err)
		r.opts.metrics.Error(kind)
		r.writeStatus(ex, wire.StatusInternalServerError)
		return
	}

	r.setWriteDeadline(ex)
	if err := wire.WriteResponse(ex.conn, resp); err != nil {
		r.writeFailed(ex, err)
		return
	}
	ex.status = wire.StatusOK.Code()
}

func (r *Router[S]) writeStatus(ex *exchange, status wire.Status) {
	r.setWriteDeadline(ex)
	if err := wire.WriteStatus(ex.conn, status); err != nil {
		r.writeFailed(ex, err)
		return
	}
	ex.status = status.Code()
}

func (r *Router[S]) setWriteDeadline(ex *exchange) {
	if r.opts.writeTimeout > 0 {
		_ = ex.conn.SetWriteDeadline(time.Now().Add(r.opts.writeTimeout))
	}
}

func (r *Router[S]) writeFailed(ex *exchange, err error) {
	ex.log.Debug("write failed", "error", err)
	r.opts.metrics.Error(metrics.ErrorIO)
}

// invoke calls the route handler, converting a panic into an error.
func invoke[S any](ctx context.Context, route Route[S], req *wire.Request, state S) (resp wire.Response, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: %v\n%s", ErrHandlerPanic, p, debug.Stack())
		}
	}()
	return route.Exec(ctx, req, state)
}

func remoteAddr(conn net.Conn) string {
	if addr := conn.RemoteAddr(); addr != nil {
		return addr.String()
	}
	return ""
}
