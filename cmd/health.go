package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"sheetcrm/importer"
	"sheetcrm/sheets"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the spreadsheet is reachable",
	Long: `Read the spreadsheet metadata and print its title and tabs, then report which tab
serves each entity.`,
	Example: `
  # Check the configured spreadsheet
  sheetcrm health
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		current, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		tabs, err := repositoryTabs(current.cfg.Tabs)
		if err != nil {
			return err
		}

		candidates := make(map[string][]string, len(tabs))
		for key, tab := range tabs {
			candidates[key] = tab.Candidates
		}
		return printHealth(cmd.Context(), os.Stdout, current.client, candidates)
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}

func printHealth(ctx context.Context, out io.Writer, client sheets.Client, candidates map[string][]string) error {
	info, err := client.Info(ctx)
	if err != nil {
		return fmt.Errorf("spreadsheet unreachable: %w", err)
	}

	fmt.Fprintf(out, "Spreadsheet: %s (%s)\n", info.Title, info.SpreadsheetID)
	fmt.Fprintf(out, "Tabs: %s\n", strings.Join(info.SheetTitles, ", "))
	fmt.Fprintf(out, "Header candidates: v%d\n", importer.CandidateTableVersion)

	defaults := sheets.DefaultTabCandidates()
	for _, key := range []string{sheets.TabProperties, sheets.TabLeads, sheets.TabAppointments, sheets.TabMeta} {
		names := candidates[key]
		if len(names) == 0 {
			names = defaults[key]
		}
		title, err := sheets.ResolveTab(info.SheetTitles, names)
		if err != nil {
			fmt.Fprintf(out, "%-13s missing\n", key+":")
			continue
		}
		fmt.Fprintf(out, "%-13s %s\n", key+":", title)
	}
	return nil
}
