package sheets

import (
	"context"
	"sync"
)

// MemoryClient keeps tabs in memory. It backs tests and dry runs.
type MemoryClient struct {
	mu    sync.Mutex
	info  Info
	tabs  map[string][][]string
	order []string

	// Err, when set, is returned from every call.
	Err error
}

func NewMemoryClient(title string) *MemoryClient {
	return &MemoryClient{
		info: Info{SpreadsheetID: "memory", Title: title},
		tabs: make(map[string][][]string),
	}
}

// SetTab replaces the rows of a tab, creating it when missing.
func (c *MemoryClient) SetTab(title string, rows [][]string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.tabs[title]; !exists {
		c.order = append(c.order, title)
	}
	c.tabs[title] = cloneRows(rows)
}

// Tab returns a copy of a tab's rows.
func (c *MemoryClient) Tab(title string) [][]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneRows(c.tabs[title])
}

func (c *MemoryClient) Info(ctx context.Context) (Info, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.check(ctx); err != nil {
		return Info{}, err
	}
	info := c.info
	info.SheetTitles = append([]string(nil), c.order...)
	return info, nil
}

func (c *MemoryClient) GetValues(ctx context.Context, rng string) ([][]string, error) {
	tab, cells, err := SplitRange(rng)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.check(ctx); err != nil {
		return nil, err
	}
	rows, ok := c.tabs[tab]
	if !ok {
		return nil, ErrTabNotFound
	}
	_, start, err := startCell(cells)
	if err != nil {
		return nil, err
	}
	if start > 1 {
		if start-1 >= len(rows) {
			return [][]string{}, nil
		}
		rows = rows[start-1:]
	}
	return cloneRows(rows), nil
}

func (c *MemoryClient) UpdateValues(ctx context.Context, rng string, rows [][]string) error {
	tab, cells, err := SplitRange(rng)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.check(ctx); err != nil {
		return err
	}
	existing, ok := c.tabs[tab]
	if !ok {
		return ErrTabNotFound
	}
	col, start, err := startCell(cells)
	if err != nil {
		return err
	}

	for i, values := range rows {
		index := start - 1 + i
		for len(existing) <= index {
			existing = append(existing, nil)
		}
		row := existing[index]
		for len(row) < col-1+len(values) {
			row = append(row, "")
		}
		copy(row[col-1:], values)
		existing[index] = row
	}
	c.tabs[tab] = existing
	return nil
}

func (c *MemoryClient) AppendValues(ctx context.Context, rng string, rows [][]string) error {
	tab, _, err := SplitRange(rng)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.check(ctx); err != nil {
		return err
	}
	existing, ok := c.tabs[tab]
	if !ok {
		return ErrTabNotFound
	}
	c.tabs[tab] = append(existing, cloneRows(rows)...)
	return nil
}

func (c *MemoryClient) check(ctx context.Context) error {
	if c.Err != nil {
		return c.Err
	}
	return ctx.Err()
}

func cloneRows(rows [][]string) [][]string {
	if rows == nil {
		return nil
	}
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = append([]string(nil), row...)
	}
	return out
}
