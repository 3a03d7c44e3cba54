// Package wire implements the text protocol spoken by the router.
//
// The protocol is a reduced HTTP/1.1: one request per connection, a request
// line, optional "Name: value" header lines, a blank line and a body. The
// package provides the request model and its parser, the response model and
// its two encodings, a bounded framing reader, and the fixed status-line
// writers used by the dispatcher.
//
// # Request format
//
//	GET /hello/world HTTP/1.1\n
//	Accept: text/plain\r\n
//	\r\n
//	optional body
//
// # Response format
//
//	HTTP/1.1 200 OK\r\n
//	Content-Type:text/html;charset=utf-8\r\n
//	\r\n
//	<content>\r\n
//	\r\n
//
// Only GET, POST, PUT and DELETE are recognized. Any other method, like any
// other framing problem, makes the request unparseable.
package wire
