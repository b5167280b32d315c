package cmd

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// entitlementsCmd represents the entitlements command
var entitlementsCmd = &cobra.Command{
	Use:   "entitlements",
	Short: "List the organization's entitlements",
	Long: `List all entitlements for the current organization from the
account API, paging through the full listing.`,
	RunE: runEntitlements,
}

func init() {
	rootCmd.AddCommand(entitlementsCmd)
}

func runEntitlements(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}

	all, err := a.entitlements.FetchAll(cmd.Context())
	if err != nil {
		return err
	}

	if len(all) == 0 {
		fmt.Println("No entitlements found.")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Feature", "Name", "Max", "Price"})
	for _, e := range all {
		t.AppendRow(table.Row{e.FeatureKey, e.FeatureName, e.EntitlementLimitMax, e.PriceName})
	}
	t.Render()
	return nil
}
