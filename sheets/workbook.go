package sheets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/xuri/excelize/v2"
)

// WorkbookClient serves a local .xlsx file with the same contract as the
// Google client. Every call opens the file, so edits made by other tools
// between calls are picked up.
type WorkbookClient struct {
	path string
	mu   sync.Mutex
}

func NewWorkbookClient(path string) (*WorkbookClient, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("workbook path is required")
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("open workbook %q: %w", path, err)
	}
	return &WorkbookClient{path: path}, nil
}

func (c *WorkbookClient) Info(ctx context.Context) (Info, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	file, err := c.open(ctx)
	if err != nil {
		return Info{}, err
	}
	defer file.Close()

	return Info{
		SpreadsheetID: c.path,
		Title:         strings.TrimSuffix(filepath.Base(c.path), filepath.Ext(c.path)),
		SheetTitles:   file.GetSheetList(),
	}, nil
}

func (c *WorkbookClient) GetValues(ctx context.Context, rng string) ([][]string, error) {
	tab, cells, err := SplitRange(rng)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	file, err := c.open(ctx)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	if err := requireTab(file, tab); err != nil {
		return nil, err
	}

	rows, err := file.GetRows(tab)
	if err != nil {
		return nil, fmt.Errorf("read tab %q: %w", tab, err)
	}

	_, startRow, err := startCell(cells)
	if err != nil {
		return nil, err
	}
	if startRow > 1 {
		if startRow-1 >= len(rows) {
			return [][]string{}, nil
		}
		rows = rows[startRow-1:]
	}
	return rows, nil
}

func (c *WorkbookClient) UpdateValues(ctx context.Context, rng string, rows [][]string) error {
	tab, cells, err := SplitRange(rng)
	if err != nil {
		return err
	}
	col, row, err := startCell(cells)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	return c.write(ctx, tab, func(file *excelize.File) error {
		return writeRows(file, tab, col, row, rows)
	})
}

func (c *WorkbookClient) AppendValues(ctx context.Context, rng string, rows [][]string) error {
	tab, _, err := SplitRange(rng)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	return c.write(ctx, tab, func(file *excelize.File) error {
		existing, err := file.GetRows(tab)
		if err != nil {
			return fmt.Errorf("read tab %q: %w", tab, err)
		}
		return writeRows(file, tab, 1, len(existing)+1, rows)
	})
}

func (c *WorkbookClient) open(ctx context.Context) (*excelize.File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	file, err := excelize.OpenFile(c.path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %q: %w", c.path, err)
	}
	return file, nil
}

func (c *WorkbookClient) write(ctx context.Context, tab string, apply func(*excelize.File) error) error {
	file, err := c.open(ctx)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := requireTab(file, tab); err != nil {
		return err
	}
	if err := apply(file); err != nil {
		return err
	}
	if err := file.Save(); err != nil {
		return fmt.Errorf("save workbook %q: %w", c.path, err)
	}
	return nil
}

func requireTab(file *excelize.File, tab string) error {
	index, err := file.GetSheetIndex(tab)
	if err != nil || index < 0 {
		return fmt.Errorf("%w: %q", ErrTabNotFound, tab)
	}
	return nil
}

func writeRows(file *excelize.File, tab string, col, row int, rows [][]string) error {
	for i, values := range rows {
		cell, err := excelize.CoordinatesToCellName(col, row+i)
		if err != nil {
			return err
		}
		cells := make([]any, len(values))
		for j, value := range values {
			cells[j] = value
		}
		if err := file.SetSheetRow(tab, cell, &cells); err != nil {
			return fmt.Errorf("write %s!%s: %w", tab, cell, err)
		}
	}
	return nil
}

// startCell returns the 1-based column and row of the first cell of an A1
// cell reference such as "A2:Q". An empty reference means A1.
func startCell(cells string) (int, int, error) {
	first, _, _ := strings.Cut(strings.TrimSpace(cells), ":")
	if first == "" {
		return 1, 1, nil
	}
	if strings.IndexFunc(first, func(r rune) bool { return r >= '0' && r <= '9' }) < 0 {
		col, err := excelize.ColumnNameToNumber(first)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid cell reference %q: %w", cells, err)
		}
		return col, 1, nil
	}
	col, row, err := excelize.CellNameToCoordinates(first)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid cell reference %q: %w", cells, err)
	}
	return col, row, nil
}
