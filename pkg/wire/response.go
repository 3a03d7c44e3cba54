package wire

import (
	"encoding/json"
	"fmt"
)

// Response is the payload a handler produces. Status line and headers are
// fixed by the protocol and are not part of it.
type Response struct {
	Content string
}

// JSON encodes v as compact JSON.
func JSON(v any) (Response, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return Response{}, fmt.Errorf("failed to encode JSON response: %w", err)
	}
	return Response{Content: string(data)}, nil
}

// Text uses s unchanged as the response content.
func Text(s string) Response {
	return Response{Content: s}
}
