package sheets

import (
	"errors"
	"testing"
)

func TestResolveTab(t *testing.T) {
	t.Parallel()

	candidates := DefaultTabCandidates()
	tests := []struct {
		name   string
		key    string
		titles []string
		want   string
	}{
		{name: "exact", key: TabLeads, titles: []string{"Citas", "Leads"}, want: "Leads"},
		{name: "candidate order wins", key: TabLeads, titles: []string{"Leads", "GoldLeads"}, want: "GoldLeads"},
		{name: "folded spacing and case", key: TabLeads, titles: []string{"LISTA  DORADA"}, want: "LISTA  DORADA"},
		{name: "folded accents", key: TabMeta, titles: []string{"Méta"}, want: "Méta"},
		{name: "spanish properties", key: TabProperties, titles: []string{"Propiedades", "META"}, want: "Propiedades"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ResolveTab(tt.titles, candidates[tt.key])
			if err != nil {
				t.Fatalf("ResolveTab error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("ResolveTab = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveTabNotFound(t *testing.T) {
	t.Parallel()

	_, err := ResolveTab([]string{"Hoja 1"}, DefaultTabCandidates()[TabAppointments])
	if !errors.Is(err, ErrTabNotFound) {
		t.Fatalf("expected ErrTabNotFound, got %v", err)
	}
}
