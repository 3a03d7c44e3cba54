package router

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/routed/pkg/wire"
)

func textHandler(s string) HandlerFunc[struct{}] {
	return func(context.Context, *wire.Request, struct{}) (wire.Response, error) {
		return wire.Text(s), nil
	}
}

func TestRoute_Identifier(t *testing.T) {
	t.Parallel()

	r := NewRoute(wire.MethodGet, "/hello/world", textHandler("hi"))
	assert.Equal(t, "GET /hello/world", r.Identifier())
	assert.Equal(t, wire.MethodGet, r.Method())
	assert.Equal(t, "/hello/world", r.Path())

	resp, err := r.Exec(context.Background(), nil, struct{}{})
	require.NoError(t, err)
	assert.Equal(t, "hi", resp.Content)
}

func TestTable_Match(t *testing.T) {
	t.Parallel()

	table := NewTable[struct{}]()
	table.Add(NewRoute(wire.MethodGet, "/a", textHandler("get a")))
	table.Add(NewRoute(wire.MethodPost, "/a", textHandler("post a")))
	table.Add(NewRoute(wire.MethodGet, "/a/", textHandler("get a slash")))

	tests := []struct {
		method wire.Method
		path   string
		want   string
		found  bool
	}{
		{wire.MethodGet, "/a", "get a", true},
		{wire.MethodPost, "/a", "post a", true},
		{wire.MethodGet, "/a/", "get a slash", true},
		{wire.MethodPut, "/a", "", false},
		{wire.MethodGet, "/A", "", false},
		{wire.MethodGet, "/a?x=1", "", false},
	}

	for _, tt := range tests {
		req := wire.NewRequest(tt.method, tt.path, nil, "")
		route, ok := table.Match(req)
		require.Equal(t, tt.found, ok, req.Identifier())
		if !ok {
			continue
		}
		resp, err := route.Exec(context.Background(), req, struct{}{})
		require.NoError(t, err)
		assert.Equal(t, tt.want, resp.Content)
	}
}

func TestTable_FirstRegistrationWins(t *testing.T) {
	t.Parallel()

	table := NewTable[struct{}]()
	table.Add(NewRoute(wire.MethodGet, "/dup", textHandler("first")))
	table.Add(NewRoute(wire.MethodGet, "/other", textHandler("other")))
	table.Add(NewRoute(wire.MethodGet, "/dup", textHandler("second")))

	route, ok := table.Match(wire.NewRequest(wire.MethodGet, "/dup", nil, ""))
	require.True(t, ok)
	resp, _ := route.Exec(context.Background(), nil, struct{}{})
	assert.Equal(t, "first", resp.Content)

	assert.Equal(t, 3, table.Len())
	shadowed := table.Shadowed()
	require.Equal(t, []int{2}, shadowed)
	resp, _ = table.Routes()[shadowed[0]].Exec(context.Background(), nil, struct{}{})
	assert.Equal(t, "second", resp.Content)
}

func TestTable_RoutesInRegistrationOrder(t *testing.T) {
	t.Parallel()

	table := NewTable[struct{}]()
	for _, p := range []string{"/c", "/a", "/b"} {
		table.Add(NewRoute(wire.MethodDelete, p, textHandler(p)))
	}

	var ids []string
	for _, r := range table.Routes() {
		ids = append(ids, r.Identifier())
	}
	assert.Equal(t, []string{"DELETE /c", "DELETE /a", "DELETE /b"}, ids)
}

func TestTable_FrozenRejectsAdd(t *testing.T) {
	t.Parallel()

	table := NewTable[struct{}]()
	table.Add(NewRoute(wire.MethodGet, "/", textHandler("root")))
	table.Freeze()
	assert.True(t, table.Frozen())

	assert.Panics(t, func() {
		table.Add(NewRoute(wire.MethodGet, "/late", textHandler("late")))
	})
	_, ok := table.Match(wire.NewRequest(wire.MethodGet, "/", nil, ""))
	assert.True(t, ok)
}

func TestChain_RunsInOrderAndContinuesOnFailure(t *testing.T) {
	t.Parallel()

	var (
		chain  Chain[struct{}]
		order  []int
		failed []int
	)
	chain.Use(func(context.Context, *wire.Request, struct{}) error {
		order = append(order, 0)
		return nil
	})
	chain.Use(func(context.Context, *wire.Request, struct{}) error {
		order = append(order, 1)
		return assert.AnError
	})
	chain.Use(func(context.Context, *wire.Request, struct{}) error {
		order = append(order, 2)
		panic("boom")
	})
	chain.Use(func(context.Context, *wire.Request, struct{}) error {
		order = append(order, 3)
		return nil
	})

	var errs []error
	chain.Run(context.Background(), wire.NewRequest(wire.MethodGet, "/", nil, ""), struct{}{}, func(pos int, err error) {
		failed = append(failed, pos)
		errs = append(errs, err)
	})

	assert.Equal(t, []int{0, 1, 2, 3}, order)
	assert.Equal(t, []int{1, 2}, failed)
	assert.ErrorIs(t, errs[0], assert.AnError)
	assert.ErrorIs(t, errs[1], ErrMiddlewarePanic)
	assert.Equal(t, 4, chain.Len())
}
