package command

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/placebook/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build metadata",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version.String())
	},
}
