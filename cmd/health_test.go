package cmd

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"sheetcrm/sheets"
)

func TestPrintHealth(t *testing.T) {
	t.Parallel()

	client := sheets.NewMemoryClient("CRM Inmobiliaria")
	client.SetTab("Inventario", nil)
	client.SetTab("Prospectos", nil)
	client.SetTab("META", nil)

	var out bytes.Buffer
	err := printHealth(context.Background(), &out, client, map[string][]string{
		sheets.TabLeads: {"Prospectos"},
	})
	if err != nil {
		t.Fatalf("printHealth: %v", err)
	}

	text := out.String()
	for _, want := range []string{
		"Spreadsheet: CRM Inmobiliaria (memory)",
		"Tabs: Inventario, Prospectos, META",
		"Header candidates: v2",
		"properties:   Inventario",
		"leads:        Prospectos",
		"appointments: missing",
		"meta:         META",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in output:\n%s", want, text)
		}
	}
}

func TestPrintHealth_Unreachable(t *testing.T) {
	t.Parallel()

	client := sheets.NewMemoryClient("CRM")
	client.Err = errors.New("invalid_grant")

	err := printHealth(context.Background(), &bytes.Buffer{}, client, nil)
	if err == nil || !strings.Contains(err.Error(), "invalid_grant") {
		t.Fatalf("expected unreachable error, got %v", err)
	}
}
