package storage

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"sheetcrm/sheets"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	store, err := OpenSQLite(filepath.Join(t.TempDir(), "sheetcrm_test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testSnapshot(takenAt time.Time) Snapshot {
	return Snapshot{
		SpreadsheetID: "sheet-1",
		Title:         "CRM",
		TakenAt:       takenAt,
		Tabs: []Tab{
			{Title: "Propiedades", Rows: [][]string{{"ID", "Precio"}, {"P-1", "1500"}}},
			{Title: "META", Rows: [][]string{{"last_change_ts", "2026-03-01T10:00:00Z"}}},
			{Title: "Vacía"},
		},
	}
}

func TestSQLiteStore_SaveAndLoadSnapshot(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	takenAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	id, err := store.SaveSnapshot(testSnapshot(takenAt))
	if err != nil {
		t.Fatalf("save snapshot: %v", err)
	}

	loaded, err := store.GetSnapshot(id)
	if err != nil {
		t.Fatalf("get snapshot: %v", err)
	}
	if loaded.ID != id || loaded.Title != "CRM" || !loaded.TakenAt.Equal(takenAt) {
		t.Fatalf("unexpected snapshot header: %+v", loaded)
	}
	if len(loaded.Tabs) != 3 || loaded.Tabs[0].Title != "Propiedades" || loaded.Tabs[2].Title != "Vacía" {
		t.Fatalf("unexpected tabs: %+v", loaded.Tabs)
	}
	if !reflect.DeepEqual(loaded.Tabs[0].Rows, [][]string{{"ID", "Precio"}, {"P-1", "1500"}}) {
		t.Fatalf("unexpected rows: %#v", loaded.Tabs[0].Rows)
	}
	if len(loaded.Tabs[2].Rows) != 0 {
		t.Fatalf("expected empty tab, got %#v", loaded.Tabs[2].Rows)
	}
}

func TestSQLiteStore_LatestAndList(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	if _, err := store.LatestSnapshot(); !errors.Is(err, ErrSnapshotNotFound) {
		t.Fatalf("expected ErrSnapshotNotFound on empty store, got %v", err)
	}

	older := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	newer := older.Add(24 * time.Hour)
	if _, err := store.SaveSnapshot(testSnapshot(newer)); err != nil {
		t.Fatalf("save newer: %v", err)
	}
	if _, err := store.SaveSnapshot(testSnapshot(older)); err != nil {
		t.Fatalf("save older: %v", err)
	}

	latest, err := store.LatestSnapshot()
	if err != nil {
		t.Fatalf("latest snapshot: %v", err)
	}
	if !latest.TakenAt.Equal(newer) {
		t.Fatalf("expected newest snapshot, got %s", latest.TakenAt)
	}

	summaries, err := store.ListSnapshots()
	if err != nil {
		t.Fatalf("list snapshots: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("expected 2 snapshots, got %d", len(summaries))
	}
	if summaries[0].TabCount != 3 || summaries[0].RowCount != 3 {
		t.Fatalf("unexpected summary counts: %+v", summaries[0])
	}
	if !summaries[0].TakenAt.Equal(newer) {
		t.Fatalf("expected newest first, got %+v", summaries)
	}
}

func TestSQLiteStore_PruneSnapshots(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		if _, err := store.SaveSnapshot(testSnapshot(base.Add(time.Duration(i) * time.Hour))); err != nil {
			t.Fatalf("save snapshot %d: %v", i, err)
		}
	}

	deleted, err := store.PruneSnapshots(1)
	if err != nil {
		t.Fatalf("prune snapshots: %v", err)
	}
	if deleted != 2 {
		t.Fatalf("expected 2 deleted snapshots, got %d", deleted)
	}

	summaries, err := store.ListSnapshots()
	if err != nil {
		t.Fatalf("list snapshots: %v", err)
	}
	if len(summaries) != 1 || !summaries[0].TakenAt.Equal(base.Add(2*time.Hour)) {
		t.Fatalf("unexpected remaining snapshots: %+v", summaries)
	}
}

func TestSQLiteStore_GetSnapshotNotFound(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	if _, err := store.GetSnapshot(42); !errors.Is(err, ErrSnapshotNotFound) {
		t.Fatalf("expected ErrSnapshotNotFound, got %v", err)
	}
}

func TestCaptureSnapshotAndServeIt(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	source := sheets.NewMemoryClient("CRM")
	source.SetTab("Citas", [][]string{{"ID", "Cliente"}, {"A-1", "Ana"}})
	source.SetTab("META", [][]string{{"last_change_ts", "x"}})

	snapshot, err := CaptureSnapshot(ctx, source, time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("capture snapshot: %v", err)
	}

	store := openTestStore(t)
	if _, err := store.SaveSnapshot(snapshot); err != nil {
		t.Fatalf("save snapshot: %v", err)
	}

	client, err := OpenSnapshotClient(store, 0)
	if err != nil {
		t.Fatalf("open snapshot client: %v", err)
	}

	info, err := client.Info(ctx)
	if err != nil {
		t.Fatalf("info: %v", err)
	}
	if !reflect.DeepEqual(info.SheetTitles, []string{"Citas", "META"}) {
		t.Fatalf("unexpected titles: %v", info.SheetTitles)
	}

	rows, err := client.GetValues(ctx, sheets.QuoteTab("Citas"))
	if err != nil {
		t.Fatalf("get values: %v", err)
	}
	if !reflect.DeepEqual(rows, [][]string{{"ID", "Cliente"}, {"A-1", "Ana"}}) {
		t.Fatalf("unexpected rows: %#v", rows)
	}

	if _, err := client.GetValues(ctx, sheets.QuoteTab("Leads")); !errors.Is(err, sheets.ErrTabNotFound) {
		t.Fatalf("expected ErrTabNotFound, got %v", err)
	}
	if err := client.AppendValues(ctx, sheets.QuoteTab("Citas"), nil); !errors.Is(err, sheets.ErrReadOnly) {
		t.Fatalf("expected ErrReadOnly, got %v", err)
	}
}
