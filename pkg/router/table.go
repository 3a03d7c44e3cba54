package router

import (
	"fmt"
	"slices"
	"sync/atomic"

	"github.com/getmockd/routed/pkg/wire"
)

// Table is the ordered route table. Registration order decides which of
// several routes with the same identifier wins: the first one always does.
//
// A Table is built before serving and frozen when serving starts. Reads
// after Freeze need no locking because nothing writes any more.
type Table[S any] struct {
	routes []Route[S]
	index  map[string]int // identifier -> position of its first registration
	frozen atomic.Bool
}

// NewTable creates an empty table.
func NewTable[S any]() *Table[S] {
	return &Table[S]{index: make(map[string]int)}
}

// Add appends a route. Adding to a frozen table panics.
func (t *Table[S]) Add(route Route[S]) {
	if t.frozen.Load() {
		panic(fmt.Sprintf("router: cannot register %q after serving has started", route.Identifier()))
	}
	id := route.Identifier()
	if _, exists := t.index[id]; !exists {
		t.index[id] = len(t.routes)
	}
	t.routes = append(t.routes, route)
}

// Match returns the first registered route whose identifier equals the request's.
func (t *Table[S]) Match(req *wire.Request) (Route[S], bool) {
	return t.lookup(req.Identifier())
}

func (t *Table[S]) lookup(id string) (Route[S], bool) {
	i, ok := t.index[id]
	if !ok {
		return Route[S]{}, false
	}
	return t.routes[i], true
}

// Routes returns the routes in registration order.
func (t *Table[S]) Routes() []Route[S] {
	return slices.Clone(t.routes)
}

// Shadowed returns the positions, in registration order, of the routes that
// can never match because an earlier route has the same identifier.
func (t *Table[S]) Shadowed() []int {
	var out []int
	for i, r := range t.routes {
		if t.index[r.Identifier()] != i {
			out = append(out, i)
		}
	}
	return out
}

// Len returns the number of registered routes, shadowed ones included.
func (t *Table[S]) Len() int { return len(t.routes) }

// Freeze makes the table read-only.
func (t *Table[S]) Freeze() { t.frozen.Store(true) }

// Frozen reports whether Freeze has been called.
func (t *Table[S]) Frozen() bool { return t.frozen.Load() }
