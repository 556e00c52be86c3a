package cmd

import (
	"bytes"
	"encoding/json"
	"testing"

	"sheetcrm/crm"
	"sheetcrm/importer"
)

func TestWriteMappedJSON(t *testing.T) {
	t.Parallel()

	rows := [][]string{
		{"Fecha", "Hora", "Cliente", "Estado"},
		{"05/03/2026", "3 PM", "Ana", "confirmada"},
	}
	mapped, err := importer.MapEntity("citas", rows, importer.ModeHeaderRow)
	if err != nil {
		t.Fatalf("MapEntity: %v", err)
	}

	var out bytes.Buffer
	if err := writeMappedJSON(&out, mapped); err != nil {
		t.Fatalf("writeMappedJSON: %v", err)
	}

	var decoded []crm.Appointment
	if err := json.Unmarshal(out.Bytes(), &decoded); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if len(decoded) != 1 {
		t.Fatalf("expected 1 appointment, got %d", len(decoded))
	}
	got := decoded[0]
	if got.ID != "A-1" || got.Date != "2026-03-05" || got.Time != "15:00" || got.Status != crm.AppointmentConfirmed {
		t.Fatalf("unexpected appointment: %+v", got)
	}
}

func TestMapFileRows(t *testing.T) {
	t.Parallel()

	rows := [][]string{
		{"ID", "Nombre", "Telefono", "Email", "Fuente", "Estado", "Propiedad", "Notas"},
		{"", "Ana", "999", "", "web", "caliente", "", ""},
	}

	tests := []struct {
		name       string
		mode       importer.Mode
		headerRows int
		wantIDs    []string
	}{
		{name: "header layout", mode: importer.ModeHeaderRow, headerRows: 5, wantIDs: []string{"L-1"}},
		{name: "positional skips header", mode: importer.ModePositional, headerRows: 1, wantIDs: []string{"L-1"}},
		{name: "positional headerless", mode: importer.ModePositional, headerRows: 0, wantIDs: []string{"ID", "L-2"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			mapped, err := mapFileRows("leads", rows, tc.mode, tc.headerRows)
			if err != nil {
				t.Fatalf("mapFileRows: %v", err)
			}
			leads := mapped.([]crm.Lead)
			if len(leads) != len(tc.wantIDs) {
				t.Fatalf("expected %d leads, got %+v", len(tc.wantIDs), leads)
			}
			for i, want := range tc.wantIDs {
				if leads[i].ID != want {
					t.Fatalf("lead %d: expected id %q, got %q", i, want, leads[i].ID)
				}
			}
		})
	}

	if _, err := mapFileRows("leads", rows, importer.ModePositional, -1); err == nil {
		t.Fatalf("expected error for negative header rows")
	}
}
