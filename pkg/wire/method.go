package wire

import "fmt"

// Method is one of the supported request methods.
type Method uint8

// Supported methods. The zero value is not a valid method.
const (
	MethodGet Method = iota + 1
	MethodPost
	MethodPut
	MethodDelete
)

var methodTokens = map[Method]string{
	MethodGet:    "GET",
	MethodPost:   "POST",
	MethodPut:    "PUT",
	MethodDelete: "DELETE",
}

// Methods returns the supported methods in canonical order.
func Methods() []Method {
	return []Method{MethodGet, MethodPost, MethodPut, MethodDelete}
}

// ParseMethod converts an exact uppercase token into a Method.
// Lowercase or unknown tokens return ErrUnsupportedMethod.
func ParseMethod(token string) (Method, error) {
	switch token {
	case "GET":
		return MethodGet, nil
	case "POST":
		return MethodPost, nil
	case "PUT":
		return MethodPut, nil
	case "DELETE":
		return MethodDelete, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedMethod, token)
	}
}

// String returns the canonical uppercase token.
func (m Method) String() string {
	if s, ok := methodTokens[m]; ok {
		return s
	}
	return fmt.Sprintf("Method(%d)", uint8(m))
}

// Valid reports whether m is one of the supported methods.
func (m Method) Valid() bool {
	_, ok := methodTokens[m]
	return ok
}
