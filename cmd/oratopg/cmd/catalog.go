package cmd

import (
	"fmt"

	"github.com/dbmigrate/oratopg/catalog"
	"github.com/spf13/cobra"
)

// sharedCatalog exists only for this stub: a long-running host embeds
// one catalog.Catalog process-wide (spec.md §4.2, one store per
// extraction run) and wants a way to clear it between runs without
// restarting. This one-shot CLI never populates sharedCatalog itself
// (see currentIndices in transform.go), so resetting it here has no
// observable effect beyond demonstrating the wiring; a host that keeps
// its own long-lived *catalog.Catalog would call ResetAll directly.
var sharedCatalog = catalog.New()

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect or manage the process-wide metadata catalog",
}

var catalogResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear every slot of the process-wide catalog (catalog.ResetAll)",
	RunE: func(cmd *cobra.Command, args []string) error {
		sharedCatalog.ResetAll()
		fmt.Println("catalog reset")
		return nil
	},
}

func init() {
	catalogCmd.AddCommand(catalogResetCmd)
	rootCmd.AddCommand(catalogCmd)
}
