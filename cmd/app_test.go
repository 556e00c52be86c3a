package cmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"sheetcrm/config"
	"sheetcrm/importer"
	"sheetcrm/sheets"
	"sheetcrm/storage"
)

var fixedCommandTime = time.Date(2026, 3, 5, 12, 0, 0, 0, time.UTC)

func TestCredentialsJSON(t *testing.T) {
	t.Parallel()

	inline, err := credentialsJSON(`  {"type":"service_account"}`)
	if err != nil || string(inline) != `{"type":"service_account"}` {
		t.Fatalf("unexpected inline result %q, %v", inline, err)
	}

	empty, err := credentialsJSON("   ")
	if err != nil || empty != nil {
		t.Fatalf("expected nil credentials, got %q, %v", empty, err)
	}

	path := filepath.Join(t.TempDir(), "sa.json")
	if err := os.WriteFile(path, []byte(`{"client_email":"a@b.c"}`), 0o600); err != nil {
		t.Fatalf("write credentials: %v", err)
	}
	fromFile, err := credentialsJSON(path)
	if err != nil || string(fromFile) != `{"client_email":"a@b.c"}` {
		t.Fatalf("unexpected file result %q, %v", fromFile, err)
	}

	if _, err := credentialsJSON(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("expected error for missing credentials file")
	}
}

func TestRepositoryTabs(t *testing.T) {
	t.Parallel()

	tabs, err := repositoryTabs(config.TabsConfig{
		Leads: config.TabConfig{Candidates: []string{"Prospectos"}, Layout: "positional", HeaderRows: 2},
	})
	if err != nil {
		t.Fatalf("repositoryTabs: %v", err)
	}
	if got := tabs[sheets.TabLeads]; got.Mode != importer.ModePositional || got.Candidates[0] != "Prospectos" || got.HeaderRows != 2 {
		t.Fatalf("unexpected leads tab: %+v", got)
	}
	if got := tabs[sheets.TabProperties]; got.Mode != importer.ModeHeaderRow || len(got.Candidates) != 0 {
		t.Fatalf("unexpected properties tab: %+v", got)
	}

	if _, err := repositoryTabs(config.TabsConfig{Meta: config.TabConfig{Layout: "diagonal"}}); err == nil {
		t.Fatalf("expected layout error")
	}
}

func TestNewApp_WorkbookSource(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "crm.xlsx")
	file := excelize.NewFile()
	if err := file.SetSheetName("Sheet1", "Citas"); err != nil {
		t.Fatalf("rename sheet: %v", err)
	}
	if err := file.SetSheetRow("Citas", "A1", &[]any{"ID", "Fecha", "Cliente"}); err != nil {
		t.Fatalf("write header: %v", err)
	}
	if err := file.SetSheetRow("Citas", "A2", &[]any{"A-9", "2026-03-05", "Ana"}); err != nil {
		t.Fatalf("write row: %v", err)
	}
	if err := file.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	_ = file.Close()

	current, err := newApp(context.Background(), &config.Config{
		Source:   config.SourceConfig{Kind: config.SourceWorkbook},
		Workbook: config.WorkbookConfig{Path: path},
		Log:      config.LogConfig{Level: "error", Format: "text"},
	})
	if err != nil {
		t.Fatalf("newApp: %v", err)
	}

	appointments, err := current.repo.LoadAppointments(context.Background())
	if err != nil {
		t.Fatalf("LoadAppointments: %v", err)
	}
	if len(appointments) != 1 || appointments[0].ID != "A-9" || appointments[0].ClientName != "Ana" {
		t.Fatalf("unexpected appointments: %+v", appointments)
	}
}

func TestNewApp_SnapshotSourceIsReadOnly(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "snapshots.db")
	store, err := storage.OpenSQLite(dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	memory := sheets.NewMemoryClient("CRM")
	memory.SetTab("META", [][]string{{"last_change_ts", "2026-03-01T00:00:00Z"}})
	snapshot, err := storage.CaptureSnapshot(context.Background(), memory, fixedCommandTime)
	if err != nil {
		t.Fatalf("capture: %v", err)
	}
	if _, err := store.SaveSnapshot(snapshot); err != nil {
		t.Fatalf("save: %v", err)
	}
	_ = store.Close()

	current, err := newApp(context.Background(), &config.Config{
		Source:   config.SourceConfig{Kind: config.SourceSnapshot},
		Snapshot: config.SnapshotConfig{DB: dbPath},
	})
	if err != nil {
		t.Fatalf("newApp: %v", err)
	}

	meta, err := current.repo.LoadMeta(context.Background())
	if err != nil || meta.LastChangeTS != "2026-03-01T00:00:00Z" {
		t.Fatalf("unexpected meta %+v, %v", meta, err)
	}
	if _, err := current.repo.WriteMeta(context.Background()); !errors.Is(err, sheets.ErrReadOnly) {
		t.Fatalf("expected read-only error, got %v", err)
	}
}
