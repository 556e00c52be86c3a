// Package sheets is the transport to the spreadsheet that acts as the CRM
// database. Clients are built once per process and injected into callers.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrTabNotFound = errors.New("tab not found")
	ErrReadOnly    = errors.New("spreadsheet source is read-only")
)

// Client defines the spreadsheet operations the CRM needs. Ranges use A1
// notation; a bare quoted tab title addresses the whole tab.
type Client interface {
	Info(ctx context.Context) (Info, error)
	GetValues(ctx context.Context, rng string) ([][]string, error)
	UpdateValues(ctx context.Context, rng string, rows [][]string) error
	AppendValues(ctx context.Context, rng string, rows [][]string) error
}

type Info struct {
	SpreadsheetID string   `json:"spreadsheetId"`
	Title         string   `json:"title"`
	SheetTitles   []string `json:"sheetTitles"`
}

// QuoteTab quotes a tab title for use in an A1 range.
func QuoteTab(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}

// RowRange addresses the row starting at column A of the given 1-based row.
func RowRange(title string, row int) string {
	return QuoteTab(title) + "!A" + strconv.Itoa(row)
}

// SplitRange separates an A1 range into its tab title and cell part.
func SplitRange(rng string) (string, string, error) {
	rng = strings.TrimSpace(rng)
	if rng == "" {
		return "", "", fmt.Errorf("empty range")
	}

	if !strings.HasPrefix(rng, "'") {
		tab, cells, _ := strings.Cut(rng, "!")
		return tab, cells, nil
	}

	var title strings.Builder
	for i := 1; i < len(rng); i++ {
		if rng[i] != '\'' {
			title.WriteByte(rng[i])
			continue
		}
		if i+1 < len(rng) && rng[i+1] == '\'' {
			title.WriteByte('\'')
			i++
			continue
		}
		rest := rng[i+1:]
		if rest == "" {
			return title.String(), "", nil
		}
		if !strings.HasPrefix(rest, "!") {
			return "", "", fmt.Errorf("invalid range %q", rng)
		}
		return title.String(), rest[1:], nil
	}
	return "", "", fmt.Errorf("unterminated tab title in range %q", rng)
}

// StringifyValues converts API cell values into the string matrix the
// mappers consume. Missing cells become "".
func StringifyValues(values [][]any) [][]string {
	rows := make([][]string, 0, len(values))
	for _, row := range values {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = stringifyCell(cell)
		}
		rows = append(rows, cells)
	}
	return rows
}

func stringifyCell(cell any) string {
	switch value := cell.(type) {
	case nil:
		return ""
	case string:
		return value
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(value)
	default:
		return fmt.Sprint(value)
	}
}

func toInterfaceRows(rows [][]string) [][]any {
	out := make([][]any, 0, len(rows))
	for _, row := range rows {
		cells := make([]any, len(row))
		for i, cell := range row {
			cells[i] = cell
		}
		out = append(out, cells)
	}
	return out
}
