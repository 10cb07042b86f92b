package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the sitemodel release. Builds override it with
// -ldflags "-X github.com/mesh-intelligence/sitemodel/internal/cli.Version=...".
var Version = "0.1.0"

const modulePath = "github.com/mesh-intelligence/sitemodel"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the sitemodel version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "sitemodel v%s\nmodule: %s\n", Version, modulePath)
			return nil
		},
	}
}
