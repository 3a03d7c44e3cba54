package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// BuildInfo describes the running binary. Fields are injected at build time.
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"buildDate"`
}

// NewRootCommand builds the routed command tree.
func NewRootCommand(info BuildInfo) *cobra.Command {
	root := &cobra.Command{
		Use:   "routed",
		Short: "routed serves exact-match routes over a minimal HTTP/1.1 wire format",
		Long: `routed accepts TCP connections, reads one request per connection, and answers
from a table of exact "<METHOD> <path>" routes.

Routes are declared in a YAML or JSON configuration file and can answer with
fixed text, a JSON document, or an expression evaluated per request.`,
		// No Run function here means 'routed' with no args prints help.
		SilenceUsage:  true,
		SilenceErrors: true, // Execute prints the error
	}

	root.AddCommand(
		newServeCmd(),
		newRoutesCmd(),
		newVersionCmd(info),
	)
	return root
}

// Execute runs the root command with os.Args and exits non-zero on failure.
func Execute(info BuildInfo) {
	if err := NewRootCommand(info).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
