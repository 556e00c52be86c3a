package storage

import (
	"context"
	"fmt"
	"time"

	"sheetcrm/sheets"
)

// CaptureSnapshot reads every tab of the spreadsheet behind client.
func CaptureSnapshot(ctx context.Context, client sheets.Client, now time.Time) (Snapshot, error) {
	info, err := client.Info(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("read spreadsheet info: %w", err)
	}

	snapshot := Snapshot{
		SpreadsheetID: info.SpreadsheetID,
		Title:         info.Title,
		TakenAt:       now,
		Tabs:          make([]Tab, 0, len(info.SheetTitles)),
	}
	for _, title := range info.SheetTitles {
		rows, err := client.GetValues(ctx, sheets.QuoteTab(title))
		if err != nil {
			return Snapshot{}, fmt.Errorf("read tab %q: %w", title, err)
		}
		snapshot.Tabs = append(snapshot.Tabs, Tab{Title: title, Rows: rows})
	}
	return snapshot, nil
}

// SnapshotClient serves a stored snapshot through the spreadsheet client
// contract. Writes fail with sheets.ErrReadOnly.
type SnapshotClient struct {
	snapshot Snapshot
	tabs     map[string][][]string
}

func NewSnapshotClient(snapshot Snapshot) *SnapshotClient {
	tabs := make(map[string][][]string, len(snapshot.Tabs))
	for _, tab := range snapshot.Tabs {
		tabs[tab.Title] = tab.Rows
	}
	return &SnapshotClient{snapshot: snapshot, tabs: tabs}
}

// OpenSnapshotClient loads the snapshot with the given ID, or the latest one
// when id is 0.
func OpenSnapshotClient(store *SQLiteStore, id int64) (*SnapshotClient, error) {
	var (
		snapshot Snapshot
		err      error
	)
	if id == 0 {
		snapshot, err = store.LatestSnapshot()
	} else {
		snapshot, err = store.GetSnapshot(id)
	}
	if err != nil {
		return nil, err
	}
	return NewSnapshotClient(snapshot), nil
}

func (c *SnapshotClient) Info(ctx context.Context) (sheets.Info, error) {
	if err := ctx.Err(); err != nil {
		return sheets.Info{}, err
	}
	titles := make([]string, 0, len(c.snapshot.Tabs))
	for _, tab := range c.snapshot.Tabs {
		titles = append(titles, tab.Title)
	}
	return sheets.Info{
		SpreadsheetID: c.snapshot.SpreadsheetID,
		Title:         c.snapshot.Title,
		SheetTitles:   titles,
	}, nil
}

func (c *SnapshotClient) GetValues(ctx context.Context, rng string) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tab, _, err := sheets.SplitRange(rng)
	if err != nil {
		return nil, err
	}
	rows, ok := c.tabs[tab]
	if !ok {
		return nil, fmt.Errorf("%w: %q", sheets.ErrTabNotFound, tab)
	}
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = append([]string(nil), row...)
	}
	return out, nil
}

func (c *SnapshotClient) UpdateValues(context.Context, string, [][]string) error {
	return sheets.ErrReadOnly
}

func (c *SnapshotClient) AppendValues(context.Context, string, [][]string) error {
	return sheets.ErrReadOnly
}
