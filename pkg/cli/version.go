package cli

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

func newVersionCmd(info BuildInfo) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if jsonOutput {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(struct {
					BuildInfo
					GoVersion string `json:"goVersion"`
				}{info, runtime.Version()})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "routed %s (commit %s, built %s, %s)\n",
				info.Version, info.Commit, info.BuildDate, runtime.Version())
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	return cmd
}
