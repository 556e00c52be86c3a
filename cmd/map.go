package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/spf13/cobra"

	"sheetcrm/importer"
)

var (
	mapInput      string
	mapFormat     string
	mapEntity     string
	mapPositional bool
	mapHeaderRows int
	mapOutput     string
)

var mapCmd = &cobra.Command{
	Use:   "map",
	Short: "Map a local CSV/Excel export and print the normalized rows as JSON",
	Long: `Read a local file with the same layout as a spreadsheet tab and run it through
the entity mapper. Nothing is written to the spreadsheet.

The first row is treated as the header row unless --positional is set, in which
case columns follow the fixed layout of the entity and the first --header-rows
rows (default 1) are skipped.
When --format is omitted, format is inferred from the input file extension.`,
	Example: `
  # Map an exported leads tab
  sheetcrm map -i ./GoldLeads.csv --entity leads

  # Map a headerless appointments sheet from Excel
  sheetcrm map -i ./citas.xlsx --entity appointments --positional --header-rows 0

  # Write the JSON to a file
  sheetcrm map -i ./inventario.csv --entity properties -o ./inventario.json
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		mode := importer.ModeHeaderRow
		if mapPositional {
			mode = importer.ModePositional
		}

		rows, err := importer.ReadFile(mapInput, mapFormat)
		if err != nil {
			return err
		}
		mapped, err := mapFileRows(mapEntity, rows, mode, mapHeaderRows)
		if err != nil {
			return err
		}

		out := io.Writer(os.Stdout)
		if mapOutput != "" {
			file, err := os.Create(mapOutput)
			if err != nil {
				return fmt.Errorf("create output file: %w", err)
			}
			defer file.Close()
			out = file
		}
		if err := writeMappedJSON(out, mapped); err != nil {
			return err
		}

		fmt.Fprintf(os.Stderr, "Mapping completed. Rows read: %d, Rows mapped: %d, Layout: %s\n",
			len(rows),
			reflect.ValueOf(mapped).Len(),
			mode,
		)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(mapCmd)

	mapCmd.Flags().StringVarP(&mapInput, "input", "i", "", "Input file path")
	mapCmd.Flags().StringVarP(&mapFormat, "format", "f", "", "Input format: csv|excel (optional, inferred from extension when omitted)")
	mapCmd.Flags().StringVarP(&mapEntity, "entity", "e", "", "Entity: "+strings.Join(importer.SupportedEntityNames(), "|"))
	mapCmd.Flags().BoolVar(&mapPositional, "positional", false, "Resolve columns by the fixed layout of the entity instead of by header")
	mapCmd.Flags().IntVar(&mapHeaderRows, "header-rows", 1, "Rows to skip above the data when --positional is set")
	mapCmd.Flags().StringVarP(&mapOutput, "output", "o", "", "Write JSON to this file instead of stdout")

	_ = mapCmd.MarkFlagRequired("input")
	_ = mapCmd.MarkFlagRequired("entity")
}

func mapFileRows(entity string, rows [][]string, mode importer.Mode, headerRows int) (any, error) {
	if mode == importer.ModePositional {
		if headerRows < 0 {
			return nil, fmt.Errorf("header rows must not be negative: %d", headerRows)
		}
		rows = importer.SkipRows(rows, headerRows)
	}
	return importer.MapEntity(entity, rows, mode)
}

func writeMappedJSON(out io.Writer, mapped any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(mapped); err != nil {
		return fmt.Errorf("encode mapped rows: %w", err)
	}
	return nil
}
