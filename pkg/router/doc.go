// Package router matches parsed requests against an exact (method, path)
// route table and runs the matched handler with shared application state.
//
// # Registration
//
// Routes and middleware are registered before serving:
//
//	type State struct {
//	    mu   *sync.Mutex
//	    hits *int
//	}
//
//	r := router.New(State{mu: &sync.Mutex{}, hits: new(int)}, router.WithLogger(logger))
//	r.Get("/hello/world", func(ctx context.Context, req *wire.Request, s State) (wire.Response, error) {
//	    s.mu.Lock()
//	    defer s.mu.Unlock()
//	    *s.hits++
//	    return wire.JSON(*s.hits)
//	})
//	r.Use(func(ctx context.Context, req *wire.Request, s State) error {
//	    logger.Info("request", "id", req.Identifier())
//	    return nil
//	})
//	err := r.Run(ctx, "127.0.0.1:6795")
//
// Serve freezes the table; registering afterwards panics.
//
// # Matching
//
// A request matches the first registered route whose identifier
// ("GET /hello/world") equals its own, byte for byte. Later routes with the
// same identifier are shadowed. There are no wildcards or parameters.
//
// # Connections
//
// Each accepted connection is served once on its own goroutine and closed:
//
//   - unparseable request: nothing is written
//   - no matching route: 404 Not Found
//   - handler error or panic: 500 Internal Server Error
//   - request over the size limit: 413 Payload Too Large
//   - otherwise: 200 OK with the handler's content
//
// Middleware runs for every parsed request, matched or not, before the
// handler. Middleware errors and panics are logged and never change the
// response.
//
// # State
//
// Every connection gets its own duplicate of the state: Clone() when the
// state type implements Cloner, a plain value copy otherwise. The router
// does not synchronize anything the duplicates share; state that is mutated
// across connections must carry its own lock, as in the example above.
package router
