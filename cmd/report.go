package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"sheetcrm/output"
	"sheetcrm/repository"
)

var reportJSON bool

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print CRM KPIs",
	Long: `Read every entity tab and print the same KPIs served by GET /api/reports.

Unlike the API, the command fails when a tab cannot be read.`,
	Example: `
  # Print KPIs as metric/value lines
  sheetcrm report

  # Print KPIs as JSON
  sheetcrm report --json
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		current, err := openApp(cmd.Context())
		if err != nil {
			return err
		}

		report, err := loadReport(cmd.Context(), current.repo, time.Now())
		if err != nil {
			return err
		}
		return printReport(os.Stdout, report, reportJSON)
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().BoolVar(&reportJSON, "json", false, "Print the report as JSON")
}

func loadReport(ctx context.Context, repo *repository.Repository, now time.Time) (output.Report, error) {
	properties, err := repo.LoadProperties(ctx)
	if err != nil {
		return output.Report{}, err
	}
	leads, err := repo.LoadLeads(ctx)
	if err != nil {
		return output.Report{}, err
	}
	appointments, err := repo.LoadAppointments(ctx)
	if err != nil {
		return output.Report{}, err
	}
	return output.BuildReport(properties, leads, appointments, now), nil
}

func printReport(out io.Writer, report output.Report, asJSON bool) error {
	if asJSON {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(report)
	}

	table := output.ReportTable(report)
	for _, row := range table.Rows {
		if _, err := fmt.Fprintf(out, "%-28s %s\n", row[0]+":", row[1]); err != nil {
			return err
		}
	}
	return nil
}
