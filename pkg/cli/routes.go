package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/getmockd/routed/pkg/config"
	"github.com/getmockd/routed/pkg/logging"
)

// routeRow is one line of the routes listing.
type routeRow struct {
	Identifier string `json:"id"`
	Name       string `json:"name,omitempty"`
	Kind       string `json:"kind"`
	Source     string `json:"source,omitempty"`
	Shadowed   bool   `json:"shadowed"`
}

func newRoutesCmd() *cobra.Command {
	var (
		configFile string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "routes",
		Short: "List the routes a configuration file declares",
		Long: `List the routes a configuration file declares, in registration order.

A route is shadowed when an earlier route has the same method and path; it is
never served.`,
		Example: `  routed routes --config routed.yaml
  routed routes --config routed.yaml --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadFromFile(configFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			rows, err := listRoutes(cfg)
			if err != nil {
				return err
			}
			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(rows)
			}
			return printRoutes(cmd.OutOrStdout(), rows)
		},
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", "", "Path to configuration file (YAML or JSON)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}

// listRoutes builds the server the configuration describes, without serving,
// and reports its table.
func listRoutes(cfg *config.ServerConfig) ([]routeRow, error) {
	srv, err := buildServer(cfg, logging.Nop())
	if err != nil {
		return nil, err
	}

	shadowed := make(map[int]bool)
	for _, i := range srv.router.Table().Shadowed() {
		shadowed[i] = true
	}

	routes := srv.router.Routes()
	rows := make([]routeRow, 0, len(routes))
	for i, r := range routes {
		row := routeRow{Identifier: r.Identifier(), Shadowed: shadowed[i]}
		// Declared routes are registered first.
		if i < len(srv.routes) {
			rc := srv.routes[i].Config
			row.Name = rc.Name
			row.Kind = rc.BodyKind()
			row.Source = rc.Source
		} else {
			row.Kind = "metrics"
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func printRoutes(w io.Writer, rows []routeRow) error {
	title := cases.Title(language.English)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "METHOD\tPATH\tKIND\tNAME\tSOURCE\t")
	for _, row := range rows {
		method, path, _ := strings.Cut(row.Identifier, " ")
		kind := title.String(row.Kind)
		if row.Shadowed {
			kind += " (shadowed)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t\n", method, path, kind, row.Name, row.Source)
	}
	return tw.Flush()
}
