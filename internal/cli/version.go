package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/simrec/internal/version"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "simrec-cli %s\n", version.String())
		},
	}
}
