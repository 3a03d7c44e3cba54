package wire

import (
	"encoding/json"
	"fmt"
	"maps"
	"strings"

	"github.com/ohler55/ojg/jp"
)

// Request is a parsed request. It is never modified after Parse returns it,
// so it may be shared read-only between middleware and the handler.
type Request struct {
	method     Method
	path       string
	headers    map[string]string
	body       string
	parameters map[string]string
}

// NewRequest builds a Request directly, mainly for tests and in-process dispatch.
// The headers map is copied.
func NewRequest(method Method, path string, headers map[string]string, body string) *Request {
	h := make(map[string]string, len(headers))
	maps.Copy(h, headers)
	return &Request{
		method:     method,
		path:       path,
		headers:    h,
		body:       body,
		parameters: map[string]string{},
	}
}

// Parse parses the bytes of one request.
//
// The request line is split on single spaces into method, path and a
// discarded version token. Header lines follow until the first line without
// a ": " separator, which is consumed. Everything after that line is the
// body, with its lines rejoined by CRLF.
//
// Every error means the input is not a request; callers drop it silently.
func Parse(data []byte) (*Request, error) {
	if len(data) == 0 {
		return nil, ErrEmptyRequest
	}

	lines := strings.Split(string(data), "\n")

	requestLine := strings.SplitN(strings.TrimSuffix(lines[0], "\r"), " ", 3)
	if len(requestLine) < 2 || requestLine[0] == "" || requestLine[1] == "" {
		return nil, fmt.Errorf("%w: %q", ErrMalformedRequest, lines[0])
	}

	headers := make(map[string]string)
	rest := lines[1:]
	for len(rest) > 0 {
		line := rest[0]
		rest = rest[1:]

		name, value, ok := strings.Cut(line, ": ")
		if !ok {
			break
		}
		headers[name] = strings.ReplaceAll(value, "\r", "")
	}

	method, err := ParseMethod(requestLine[0])
	if err != nil {
		return nil, err
	}

	return &Request{
		method:     method,
		path:       requestLine[1],
		headers:    headers,
		body:       strings.Join(rest, "\r\n"),
		parameters: map[string]string{},
	}, nil
}

// Method returns the request method.
func (r *Request) Method() Method { return r.method }

// Path returns the request path exactly as received.
func (r *Request) Path() string { return r.path }

// Body returns the raw body.
func (r *Request) Body() string { return r.body }

// Header returns the value of the named header. Names are case-sensitive.
func (r *Request) Header(name string) (string, bool) {
	v, ok := r.headers[name]
	return v, ok
}

// Headers returns a copy of the header map.
func (r *Request) Headers() map[string]string {
	return maps.Clone(r.headers)
}

// Parameters is reserved for path parameters and is always empty.
func (r *Request) Parameters() map[string]string {
	return maps.Clone(r.parameters)
}

// Identifier returns the "<METHOD> <path>" key used for route matching.
func (r *Request) Identifier() string {
	return Identifier(r.method, r.path)
}

// JSONPath evaluates a JSONPath expression against the body and returns all
// matching values. A body that is not JSON returns ErrNotJSON.
func (r *Request) JSONPath(path string) ([]any, error) {
	x, err := jp.ParseString(path)
	if err != nil {
		return nil, fmt.Errorf("invalid JSONPath %q: %w", path, err)
	}

	var data any
	if err := json.Unmarshal([]byte(r.body), &data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotJSON, err)
	}
	return x.Get(data), nil
}

// String implements fmt.Stringer.
func (r *Request) String() string {
	return r.Identifier()
}

// Identifier builds the canonical matching key for a method and path.
func Identifier(method Method, path string) string {
	return method.String() + " " + path
}
