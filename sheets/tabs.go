package sheets

import (
	"fmt"

	"sheetcrm/internal/textnorm"
)

const (
	TabProperties   = "properties"
	TabAppointments = "appointments"
	TabLeads        = "leads"
	TabMeta         = "meta"
)

// DefaultTabCandidates lists the tab titles seen in real CRM spreadsheets,
// in lookup order.
func DefaultTabCandidates() map[string][]string {
	return map[string][]string{
		TabProperties:   {"Properties", "Propiedades", "PROPERTIES", "properties", "Inventory", "Inventario"},
		TabAppointments: {"Appointment", "Appointments", "Citas", "appointments", "appointment"},
		TabLeads:        {"GoldLeads", "Gold Leads", "Lista Dorada", "Leads", "leads", "goldleads"},
		TabMeta:         {"META", "Meta", "meta"},
	}
}

// ResolveTab picks the first candidate present in titles. Exact titles win;
// otherwise titles are compared with case, accents and spacing folded.
func ResolveTab(titles []string, candidates []string) (string, error) {
	present := make(map[string]struct{}, len(titles))
	folded := make(map[string]string, len(titles))
	for _, title := range titles {
		present[title] = struct{}{}
		key := textnorm.Key(title)
		if _, exists := folded[key]; !exists && key != "" {
			folded[key] = title
		}
	}

	for _, candidate := range candidates {
		if _, ok := present[candidate]; ok {
			return candidate, nil
		}
	}
	for _, candidate := range candidates {
		if title, ok := folded[textnorm.Key(candidate)]; ok {
			return title, nil
		}
	}
	return "", fmt.Errorf("%w: none of %v in %v", ErrTabNotFound, candidates, titles)
}
