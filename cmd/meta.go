package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var metaCmd = &cobra.Command{
	Use:   "meta",
	Short: "Read or bump the META change marker",
	Long: `Clients poll last_change_ts in the META tab to know when to refetch.

Every write through the API bumps it; "meta touch" bumps it by hand after the
spreadsheet was edited directly.`,
}

var metaShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print last_change_ts",
	RunE: func(cmd *cobra.Command, args []string) error {
		current, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		meta, err := current.repo.LoadMeta(cmd.Context())
		if err != nil {
			return err
		}
		if meta.LastChangeTS == "" {
			fmt.Println("last_change_ts: (empty)")
			return nil
		}
		fmt.Printf("last_change_ts: %s\n", meta.LastChangeTS)
		return nil
	},
}

var metaTouchCmd = &cobra.Command{
	Use:   "touch",
	Short: "Set last_change_ts to now",
	Example: `
  # Tell clients to refetch after editing the sheet by hand
  sheetcrm meta touch
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		current, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		meta, err := current.repo.WriteMeta(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("last_change_ts: %s\n", meta.LastChangeTS)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(metaCmd)
	metaCmd.AddCommand(metaShowCmd)
	metaCmd.AddCommand(metaTouchCmd)
}
