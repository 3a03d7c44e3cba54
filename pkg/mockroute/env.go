package mockroute

import "github.com/getmockd/routed/pkg/wire"

// exprEnv is what a route expression can see.
type exprEnv struct {
	Method  string            `expr:"method"`
	Path    string            `expr:"path"`
	Headers map[string]string `expr:"headers"`
	Body    string            `expr:"body"`
	Hits    int               `expr:"hits"`

	// JSONPath evaluates a JSONPath against the body; nil when the body is not JSON.
	JSONPath func(path string) []any `expr:"jsonpath"`
}

func newExprEnv(req *wire.Request, hits int) exprEnv {
	return exprEnv{
		Method:  req.Method().String(),
		Path:    req.Path(),
		Headers: req.Headers(),
		Body:    req.Body(),
		Hits:    hits,
		JSONPath: func(path string) []any {
			values, err := req.JSONPath(path)
			if err != nil {
				return nil
			}
			return values
		},
	}
}
