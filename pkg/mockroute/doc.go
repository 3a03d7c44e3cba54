// Package mockroute serves routes declared in configuration.
//
// A declared route answers with exactly one of:
//
//   - text: returned verbatim
//   - json: serialized once at startup
//   - expr: an expr-lang expression evaluated per request
//
// Expressions see method, path, headers, body, hits (how many times this
// route has been served, including the current request) and jsonpath(p),
// which evaluates a JSONPath against the request body:
//
//	method + " " + path + " #" + string(hits)
//	{"first": jsonpath("$.items[0]"), "agent": headers["User-Agent"]}
//
// A string result is returned as is; anything else is serialized as JSON.
package mockroute
