package mockroute

import (
	"context"
	"errors"
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/getmockd/routed/pkg/config"
	"github.com/getmockd/routed/pkg/router"
	"github.com/getmockd/routed/pkg/wire"
)

// ErrInvalidRoute is returned for a declared route that cannot be built.
var ErrInvalidRoute = errors.New("invalid declared route")

// Route is a declared route ready to register.
type Route struct {
	Config  config.RouteConfig
	Method  wire.Method
	Handler router.HandlerFunc[State]
}

// Identifier returns "<METHOD> <path>".
func (r Route) Identifier() string {
	return wire.Identifier(r.Method, r.Config.Path)
}

// Build turns declared routes into handlers, in order. Expressions are
// compiled here so that a broken expression fails at startup.
func Build(routes []config.RouteConfig) ([]Route, error) {
	built := make([]Route, 0, len(routes))
	for i, rc := range routes {
		route, err := build(rc)
		if err != nil {
			if rc.Source != "" {
				return nil, fmt.Errorf("routes[%d] (%s): %w", i, rc.Source, err)
			}
			return nil, fmt.Errorf("routes[%d]: %w", i, err)
		}
		built = append(built, route)
	}
	return built, nil
}

// Register builds routes and adds them to r in order.
func Register(r *router.Router[State], routes []config.RouteConfig) ([]Route, error) {
	built, err := Build(routes)
	if err != nil {
		return nil, err
	}
	for _, route := range built {
		r.Handle(route.Method, route.Config.Path, route.Handler)
	}
	return built, nil
}

func build(rc config.RouteConfig) (Route, error) {
	if err := rc.Validate(); err != nil {
		return Route{}, fmt.Errorf("%w: %w", ErrInvalidRoute, err)
	}
	method, err := wire.ParseMethod(rc.Method)
	if err != nil {
		return Route{}, fmt.Errorf("%w: %w", ErrInvalidRoute, err)
	}
	id := wire.Identifier(method, rc.Path)

	route := Route{Config: rc, Method: method}
	switch rc.BodyKind() {
	case "text":
		route.Handler = textHandler(id, *rc.Text)
	case "json":
		resp, err := wire.JSON(rc.JSON)
		if err != nil {
			return Route{}, fmt.Errorf("%w: %s: %w", ErrInvalidRoute, id, err)
		}
		route.Handler = fixedHandler(id, resp)
	case "expr":
		program, err := expr.Compile(rc.Expr, expr.Env(exprEnv{}))
		if err != nil {
			return Route{}, fmt.Errorf("%w: %s: compile %q: %w", ErrInvalidRoute, id, rc.Expr, err)
		}
		route.Handler = exprHandler(id, program)
	}
	return route, nil
}

func textHandler(id, content string) router.HandlerFunc[State] {
	return fixedHandler(id, wire.Text(content))
}

func fixedHandler(id string, resp wire.Response) router.HandlerFunc[State] {
	return func(_ context.Context, _ *wire.Request, s State) (wire.Response, error) {
		s.Hits.Inc(id)
		return resp, nil
	}
}

func exprHandler(id string, program *vm.Program) router.HandlerFunc[State] {
	return func(_ context.Context, req *wire.Request, s State) (wire.Response, error) {
		env := newExprEnv(req, s.Hits.Inc(id))
		result, err := expr.Run(program, env)
		if err != nil {
			return wire.Response{}, fmt.Errorf("eval %s: %w", id, err)
		}
		if str, ok := result.(string); ok {
			return wire.Text(str), nil
		}
		return wire.JSON(result)
	}
}
