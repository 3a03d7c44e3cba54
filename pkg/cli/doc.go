// Package cli provides the command-line interface for routed.
//
// Commands:
//   - serve: load a configuration file, apply flag overrides and serve until
//     SIGINT or SIGTERM
//   - routes: print the route table a configuration produces, marking
//     shadowed duplicates
//   - version: show build information
//
// Flags set explicitly on the command line take precedence over the
// configuration file, which takes precedence over built-in defaults.
package cli
