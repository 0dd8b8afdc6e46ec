// Command folio serves the portfolio web frontend.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "folio",
		Short: "Folio - portfolio web frontend",
		Long: `Folio serves the public portfolio pages, the visitor area and the
admin project dashboard. Sessions are kept per browser and backed by a
durable record store so they survive restarts.`,
		SilenceUsage: true,
	}
	root.AddCommand(newServeCmd(), newMigrateCmd(), newTokenCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1) //nolint:forbidigo // CLI must signal failure to the shell
	}
}
