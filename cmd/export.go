package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"sheetcrm/importer"
	"sheetcrm/output"
	"sheetcrm/repository"
)

var (
	exportFormat string
	exportEntity string
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export normalized CRM rows to CSV/Excel",
	Long: `Read one entity from the spreadsheet, normalize every row, and write it to a file.

Entities:
- properties: the inventory tab
- leads: the gold list tab
- appointments: the appointments tab
- report: the KPI summary as metric/value rows

Output format can be selected explicitly via --format or inferred from --output extension.`,
	Example: `
  # Export leads to CSV
  sheetcrm export --entity leads --output ./leads.csv

  # Export the inventory to Excel
  sheetcrm export --entity properties --output ./inventario.xlsx

  # Force Excel format independent of extension
  sheetcrm export --entity appointments --format excel --output ./citas.out
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format := exportFormat
		if strings.TrimSpace(format) == "" {
			format = detectExportFormat(exportOutput)
		}
		writer, err := output.WriterForFormat(format)
		if err != nil {
			return err
		}

		current, err := openApp(cmd.Context())
		if err != nil {
			return err
		}

		table, err := loadEntityTable(cmd.Context(), current.repo, exportEntity, time.Now())
		if err != nil {
			return err
		}
		if err := writer.Write(exportOutput, table); err != nil {
			return err
		}

		fmt.Printf("Export completed. Rows: %d, Entity: %s, Format: %s, File: %s\n", len(table.Rows), table.Name, format, exportOutput)
		return nil
	},
}

func loadEntityTable(ctx context.Context, repo *repository.Repository, entity string, now time.Time) (output.Table, error) {
	switch strings.ToLower(strings.TrimSpace(entity)) {
	case "properties", "propiedades":
		properties, err := repo.LoadProperties(ctx)
		if err != nil {
			return output.Table{}, err
		}
		return output.PropertyTable(properties), nil
	case "leads":
		leads, err := repo.LoadLeads(ctx)
		if err != nil {
			return output.Table{}, err
		}
		return output.LeadTable(leads), nil
	case "appointments", "citas":
		appointments, err := repo.LoadAppointments(ctx)
		if err != nil {
			return output.Table{}, err
		}
		return output.AppointmentTable(appointments), nil
	case "report":
		report, err := loadReport(ctx, repo, now)
		if err != nil {
			return output.Table{}, err
		}
		return output.ReportTable(report), nil
	default:
		return output.Table{}, fmt.Errorf("unsupported export entity: %s (supported: properties, leads, appointments, report)", entity)
	}
}

func detectExportFormat(path string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	switch ext {
	case "csv":
		return "csv"
	case "xlsx", "xlsm", "xls":
		return "excel"
	default:
		return "csv"
	}
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportEntity, "entity", "e", "properties", "Entity to export: "+strings.Join(append(importer.SupportedEntityNames(), "report"), "|"))
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "", "Output format: csv|excel (optional, inferred from output extension)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file path")

	_ = exportCmd.MarkFlagRequired("output")
}
