package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is version of the current gqlcs binary.
// dev refers to a local build. It will be overwritten
// during CI/CD.
var version = "dev"

func (c *CommandLine) newVersionCmd() cmder {
	return &baseCmd{Command: &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "gqlcs %s\n", version)
		},
	}}
}
