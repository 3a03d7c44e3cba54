// Package config loads the route server configuration.
//
// A configuration file is YAML (.yaml, .yml) or JSON (anything else):
//
//	address: 127.0.0.1:6795
//	maxConnections: 256
//	readTimeout: 10
//	log:
//	  level: debug
//	  format: json
//	metricsPath: /metrics
//	include:
//	  - routes/**/*.yaml
//	routes:
//	  - method: GET
//	    path: /hello/world
//	    text: hello
//	  - method: GET
//	    path: /status
//	    json: {ok: true}
//	  - method: POST
//	    path: /echo
//	    expr: 'method + " " + path + " #" + string(hits)'
//
// ${VAR} and ${VAR:-default} are expanded from the environment before parsing.
// Included files hold a list of routes, or a mapping with a "routes" key.
package config
