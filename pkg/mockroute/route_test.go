package mockroute

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/routed/pkg/config"
	"github.com/getmockd/routed/pkg/router"
	"github.com/getmockd/routed/pkg/wire"
)

func strPtr(s string) *string { return &s }

func serve(t *testing.T, route Route, s State, req *wire.Request) string {
	t.Helper()
	resp, err := route.Handler(context.Background(), req, s)
	require.NoError(t, err)
	return resp.Content
}

func TestBuild_BodyKinds(t *testing.T) {
	t.Parallel()

	routes, err := Build([]config.RouteConfig{
		{Method: "GET", Path: "/text", Text: strPtr("plain")},
		{Method: "GET", Path: "/json", JSON: map[string]any{"ok": true}},
		{Method: "POST", Path: "/expr", Expr: `method + " " + path + " #" + string(hits)`},
	})
	require.NoError(t, err)
	require.Len(t, routes, 3)

	s := NewState()
	req := func(m wire.Method, p string) *wire.Request { return wire.NewRequest(m, p, nil, "") }

	assert.Equal(t, "GET /text", routes[0].Identifier())
	assert.Equal(t, "plain", serve(t, routes[0], s, req(wire.MethodGet, "/text")))
	assert.Equal(t, `{"ok":true}`, serve(t, routes[1], s, req(wire.MethodGet, "/json")))
	assert.Equal(t, "POST /expr #1", serve(t, routes[2], s, req(wire.MethodPost, "/expr")))
	assert.Equal(t, "POST /expr #2", serve(t, routes[2], s, req(wire.MethodPost, "/expr")))

	assert.Equal(t, map[string]int{"GET /text": 1, "GET /json": 1, "POST /expr": 2}, s.Hits.Snapshot())
}

func TestBuild_ExpressionSeesRequest(t *testing.T) {
	t.Parallel()

	routes, err := Build([]config.RouteConfig{{
		Method: "PUT",
		Path:   "/items",
		Expr:   `{"first": jsonpath("$.items[0]"), "agent": headers["User-Agent"], "size": len(body)}`,
	}})
	require.NoError(t, err)

	body := `{"items":[5,6]}`
	req := wire.NewRequest(wire.MethodPut, "/items", map[string]string{"User-Agent": "curl"}, body)
	assert.Equal(t, `{"agent":"curl","first":[5],"size":15}`, serve(t, routes[0], NewState(), req))

	notJSON := wire.NewRequest(wire.MethodPut, "/items", nil, "plain")
	assert.Equal(t, `{"agent":"","first":null,"size":5}`, serve(t, routes[0], NewState(), notJSON))
}

func TestBuild_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		route config.RouteConfig
	}{
		{"bad method", config.RouteConfig{Method: "PATCH", Path: "/a", Text: strPtr("a")}},
		{"no body", config.RouteConfig{Method: "GET", Path: "/a"}},
		{"syntax error", config.RouteConfig{Method: "GET", Path: "/a", Expr: "method +"}},
		{"unknown variable", config.RouteConfig{Method: "GET", Path: "/a", Expr: "query"}},
		{"unencodable json", config.RouteConfig{Method: "GET", Path: "/a", JSON: map[string]any{"f": func() {}}}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tt.route.Source = "routes.yaml"
			_, err := Build([]config.RouteConfig{tt.route})
			assert.ErrorIs(t, err, ErrInvalidRoute)
			assert.ErrorContains(t, err, "routes[0] (routes.yaml)")
		})
	}
}

func TestExpressionRuntimeFailure(t *testing.T) {
	t.Parallel()

	routes, err := Build([]config.RouteConfig{{Method: "GET", Path: "/inf", Expr: "1 / (hits - 1)"}})
	require.NoError(t, err)

	_, err = routes[0].Handler(context.Background(), wire.NewRequest(wire.MethodGet, "/inf", nil, ""), NewState())
	assert.Error(t, err)
}

func TestRegister(t *testing.T) {
	t.Parallel()

	r := router.New(NewState())
	built, err := Register(r, []config.RouteConfig{
		{Method: "GET", Path: "/a", Text: strPtr("first")},
		{Method: "GET", Path: "/a", Text: strPtr("second")},
		{Method: "DELETE", Path: "/b", Expr: "hits"},
	})
	require.NoError(t, err)
	assert.Len(t, built, 3)

	assert.Equal(t, 3, r.Table().Len())
	route, ok := r.Table().Match(wire.NewRequest(wire.MethodGet, "/a", nil, ""))
	require.True(t, ok)
	resp, err := route.Exec(context.Background(), nil, NewState())
	require.NoError(t, err)
	assert.Equal(t, "first", resp.Content)
	assert.Len(t, r.Table().Shadowed(), 1)

	_, err = Register(r, []config.RouteConfig{{Method: "GET", Path: "/c"}})
	assert.ErrorIs(t, err, ErrInvalidRoute)
	assert.Equal(t, 3, r.Table().Len(), "nothing registered when building fails")
}

func TestHits_Concurrent(t *testing.T) {
	t.Parallel()

	h := NewHits()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.Inc("GET /a")
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, h.Get("GET /a"))
	assert.Zero(t, h.Get("GET /b"))

	snap := h.Snapshot()
	snap["GET /a"] = 0
	assert.Equal(t, 50, h.Get("GET /a"), "snapshot is a copy")
}
