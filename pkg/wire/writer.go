package wire

import (
	"bufio"
	"io"
)

// Protocol is the version token written on every status line.
const Protocol = "HTTP/1.1"

// ContentTypeHeader is the single header line sent with every response.
const ContentTypeHeader = "Content-Type:text/html;charset=utf-8"

// Status is a response status line without the protocol token.
type Status string

// Statuses the dispatcher writes.
const (
	StatusOK                  Status = "200 OK"
	StatusNotFound            Status = "404 Not Found"
	StatusPayloadTooLarge     Status = "413 Payload Too Large"
	StatusInternalServerError Status = "500 Internal Server Error"
)

// Code returns the numeric part of the status.
func (s Status) Code() string {
	if len(s) < 3 {
		return string(s)
	}
	return string(s[:3])
}

// WriteResponse writes a 200 response carrying resp and flushes it.
func WriteResponse(w io.Writer, resp Response) error {
	bw := bufio.NewWriter(w)
	writeHead(bw, StatusOK)
	_, _ = bw.WriteString(resp.Content)
	_, _ = bw.WriteString("\r\n\r\n")
	return bw.Flush()
}

// WriteStatus writes a body-less response with the given status and flushes it.
func WriteStatus(w io.Writer, status Status) error {
	bw := bufio.NewWriter(w)
	writeHead(bw, status)
	return bw.Flush()
}

// bufio.Writer keeps the first error and reports it from Flush.
func writeHead(bw *bufio.Writer, status Status) {
	_, _ = bw.WriteString(Protocol)
	_ = bw.WriteByte(' ')
	_, _ = bw.WriteString(string(status))
	_, _ = bw.WriteString("\r\n")
	_, _ = bw.WriteString(ContentTypeHeader)
	_, _ = bw.WriteString("\r\n\r\n")
}
