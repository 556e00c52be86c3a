package importer

import (
	"reflect"
	"strings"
	"testing"

	"sheetcrm/crm"
)

func TestMapRows_LeadEndToEnd(t *testing.T) {
	t.Parallel()

	rows := [][]string{
		{"id", "nombre", "telefono", "estado"},
		{"", "", "", ""},
		{"L1", "Ana", "999", "Caliente"},
	}

	leads := MapRows[crm.Lead](&LeadMapper{}, rows, ModeHeaderRow)
	if len(leads) != 1 {
		t.Fatalf("expected one lead, got %d: %+v", len(leads), leads)
	}

	lead := leads[0]
	if lead.ID != "L1" || lead.Name != "Ana" || lead.Phone != "999" || lead.Mobile != "999" {
		t.Fatalf("unexpected lead identity fields: %+v", lead)
	}
	if lead.Stage != crm.LeadHot {
		t.Fatalf("expected stage Caliente, got %q", lead.Stage)
	}
	if lead.Priority != crm.PriorityMedium || lead.Source != crm.SourceSheets {
		t.Fatalf("expected documented defaults, got priority=%q source=%q", lead.Priority, lead.Source)
	}
}

func TestMapRows_BlankRowsDroppedAndOrderKept(t *testing.T) {
	t.Parallel()

	rows := [][]string{
		{"Cliente", "Fecha"},
		{"Ana", "2026-03-01"},
		{"  ", ""},
		{"Beto", "2026-03-02"},
		{},
		{"Carla", "2026-03-03"},
	}

	appointments := MapRows[crm.Appointment](&AppointmentMapper{}, rows, ModeHeaderRow)
	if len(appointments) != 3 {
		t.Fatalf("expected 3 appointments, got %d", len(appointments))
	}

	gotNames := []string{appointments[0].ClientName, appointments[1].ClientName, appointments[2].ClientName}
	wantNames := []string{"Ana", "Beto", "Carla"}
	if !reflect.DeepEqual(gotNames, wantNames) {
		t.Fatalf("unexpected order: want %v, got %v", wantNames, gotNames)
	}

	gotIDs := []string{appointments[0].ID, appointments[1].ID, appointments[2].ID}
	wantIDs := []string{"A-1", "A-3", "A-5"}
	if !reflect.DeepEqual(gotIDs, wantIDs) {
		t.Fatalf("unexpected synthesized ids: want %v, got %v", wantIDs, gotIDs)
	}
}

func TestMapRows_AppointmentDefaults(t *testing.T) {
	t.Parallel()

	rows := [][]string{
		{"ID", "Fecha", "Hora", "Cliente", "Estado", "WhatsApp Sent"},
		{"", "05/03/2026", "9:30", "Ana", "", "TRUE"},
		{"A-77", "2026-03-06", "16:00", "Beto", "cancelado", "no"},
	}

	appointments := MapRows[crm.Appointment](&AppointmentMapper{}, rows, ModeHeaderRow)
	if len(appointments) != 2 {
		t.Fatalf("expected 2 appointments, got %d", len(appointments))
	}

	first := appointments[0]
	if first.ID != "A-1" {
		t.Fatalf("expected synthesized id A-1, got %q", first.ID)
	}
	if first.Status != crm.AppointmentPending {
		t.Fatalf("expected default status Pendiente, got %q", first.Status)
	}
	if first.Date != "2026-03-05" || first.Time != "09:30" {
		t.Fatalf("unexpected normalized date/time: %q %q", first.Date, first.Time)
	}
	if !first.Notified {
		t.Fatalf("expected notified flag")
	}

	second := appointments[1]
	if second.ID != "A-77" || second.Status != crm.AppointmentCancelled || second.Notified {
		t.Fatalf("unexpected second appointment: %+v", second)
	}
}

func TestMapRows_PropertySynthesizedIDIsDeterministic(t *testing.T) {
	t.Parallel()

	rows := [][]string{
		{"ID", "Tipo", "Estado"},
		{"X-1", "Casa", "Disponible"},
		{"X-2", "Depa", "reservado"},
		{"", "Oficina", "no disponible"},
	}

	first := MapRows[crm.Property](&PropertyMapper{}, rows, ModeHeaderRow)
	second := MapRows[crm.Property](&PropertyMapper{}, rows, ModeHeaderRow)

	if len(first) != 3 {
		t.Fatalf("expected 3 properties, got %d", len(first))
	}
	if first[2].ID != "P-3" {
		t.Fatalf("expected synthesized id P-3, got %q", first[2].ID)
	}
	if first[1].Status != crm.AvailabilityReserved || first[2].Status != crm.AvailabilityUnavailable {
		t.Fatalf("unexpected statuses: %q %q", first[1].Status, first[2].Status)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("mapping the same rows twice must be identical")
	}
}

func TestMapRows_PropertyPriceAndDerivedFields(t *testing.T) {
	t.Parallel()

	rows := [][]string{
		{"Código", "Tipo", "Operación", "Precio Soles", "Precio USD Ref", "Moneda", "Zona", "Área m2", "Amoblado", "Tags", "Versión"},
		{"P-10", "Depa", "Venta", "S/ 450mil", "120,000", "USD", "Miraflores", "85,5", "TRUE", "vista al mar; Miraflores", "3"},
		{"P-11", "Casa", "alquiler", "", "", "", "", "", "", "", ""},
		{"P-12", "Lote", "venta", "", "$ 40,000", "", "", "-10", "", "", ""},
		{"P-13", "Local", "venta", "-500", "", "", "", "", "", "", ""},
	}

	properties := MapRows[crm.Property](&PropertyMapper{}, rows, ModeHeaderRow)
	if len(properties) != 4 {
		t.Fatalf("expected 4 properties, got %d", len(properties))
	}

	sale := properties[0]
	if sale.ID != "P-10" || sale.Type != crm.PropertyApartment || sale.Operation != crm.OperationSale {
		t.Fatalf("unexpected classification: %+v", sale)
	}
	if sale.Currency != crm.CurrencyUSD || sale.Price != 120000 {
		t.Fatalf("expected USD price 120000, got %s %v", sale.Currency, sale.Price)
	}
	if sale.PricePEN == nil || *sale.PricePEN != 450000 {
		t.Fatalf("expected PEN column 450000, got %v", sale.PricePEN)
	}
	if sale.AreaM2 != 85.5 || !sale.Furnished || sale.Version != 3 {
		t.Fatalf("unexpected area/furnished/version: %v %t %d", sale.AreaM2, sale.Furnished, sale.Version)
	}
	wantTags := []string{"Venta", "Disponible", "Miraflores", "vista al mar"}
	if !reflect.DeepEqual(sale.Tags, wantTags) {
		t.Fatalf("unexpected tags: want %v, got %v", wantTags, sale.Tags)
	}
	if sale.Title != "Depa en Venta - Miraflores" {
		t.Fatalf("unexpected synthesized title: %q", sale.Title)
	}

	empty := properties[1]
	if empty.Price != 0 || empty.PricePEN != nil || empty.PriceUSD != nil {
		t.Fatalf("expected absent prices to stay absent, got %+v", empty)
	}
	if empty.Currency != crm.CurrencyPEN || empty.Operation != crm.OperationRental {
		t.Fatalf("unexpected defaults: %+v", empty)
	}

	fallbackToUSD := properties[2]
	if fallbackToUSD.Price != 40000 || fallbackToUSD.AreaM2 != 0 {
		t.Fatalf("expected PEN listing to fall back to USD column and clamp area, got %+v", fallbackToUSD)
	}

	negative := properties[3]
	if negative.Price != 0 {
		t.Fatalf("expected negative price clamped to 0, got %v", negative.Price)
	}
}

func TestMapRows_PositionalProperties(t *testing.T) {
	t.Parallel()

	row := make([]string, 18)
	row[0] = "Rosa Pérez"
	row[1] = "Departamento"
	row[2] = "Av. Grau 123"
	row[3] = "Punchana"
	row[6] = "90"
	row[7] = "Sin amoblar, 3 dormitorios"
	row[8] = "S/ 1,800"
	row[10] = "Sin amoblar"
	row[12] = "Alquiler"
	row[13] = "S/"
	row[15] = ""
	row[17] = "2026-03-01"

	properties := MapRows[crm.Property](&PropertyMapper{}, [][]string{{}, row}, ModePositional)
	if len(properties) != 1 {
		t.Fatalf("expected one property, got %d", len(properties))
	}

	got := properties[0]
	if got.ID != "P-2" {
		t.Fatalf("expected positional synthesized id P-2, got %q", got.ID)
	}
	if got.OwnerName != "Rosa Pérez" || got.Address != "Av. Grau 123" || got.District != "Punchana" {
		t.Fatalf("unexpected positional text fields: %+v", got)
	}
	if got.Price != 1800 || got.Currency != crm.CurrencyPEN {
		t.Fatalf("unexpected positional price: %v %s", got.Price, got.Currency)
	}
	if got.Status != crm.AvailabilityAvailable {
		t.Fatalf("furnishing text must not change availability, got %q", got.Status)
	}
	if got.Title != "Departamento en Alquiler - Punchana" {
		t.Fatalf("unexpected title: %q", got.Title)
	}
}

func TestMapRows_PositionalLeadsAndAppointments(t *testing.T) {
	t.Parallel()

	leads := MapRows[crm.Lead](&LeadMapper{}, [][]string{
		{"", "Ana", "999", "ana@example.com", "WhatsApp", "contactado", "P-1", "llamar"},
	}, ModePositional)
	if len(leads) != 1 {
		t.Fatalf("expected one lead, got %d", len(leads))
	}
	if leads[0].ID != "L-1" || leads[0].Source != crm.SourceWhatsApp || leads[0].Stage != crm.LeadContacted {
		t.Fatalf("unexpected positional lead: %+v", leads[0])
	}

	appointments := MapRows[crm.Appointment](&AppointmentMapper{}, [][]string{
		{"A9", "Beto", "988", "P-1", "2026-03-05", "10:00", "confirmada", "traer DNI", "true"},
	}, ModePositional)
	if len(appointments) != 1 {
		t.Fatalf("expected one appointment, got %d", len(appointments))
	}
	got := appointments[0]
	if got.ID != "A9" || got.Status != crm.AppointmentConfirmed || !got.Notified || got.PropertyRef != "P-1" {
		t.Fatalf("unexpected positional appointment: %+v", got)
	}
}

func TestMapRows_PropertyPriceSolesSymbolHeader(t *testing.T) {
	t.Parallel()

	rows := [][]string{
		{"Código", "Tipo", "Operación", "Precio S/", "Distrito"},
		{"P-20", "Casa", "Venta", "380,000", "Surco"},
	}

	properties := MapRows[crm.Property](&PropertyMapper{}, rows, ModeHeaderRow)
	if len(properties) != 1 {
		t.Fatalf("expected 1 property, got %d", len(properties))
	}
	got := properties[0]
	if got.PricePEN == nil || *got.PricePEN != 380000 {
		t.Fatalf("expected PEN price from \"Precio S/\" header, got %v", got.PricePEN)
	}
	if got.Currency != crm.CurrencyPEN || got.Price != 380000 {
		t.Fatalf("expected PEN price 380000, got %s %v", got.Currency, got.Price)
	}
}

func TestSkipRows(t *testing.T) {
	t.Parallel()

	rows := [][]string{{"ID", "Nombre"}, {"L1", "Ana"}, {"", ""}, {"L3", "Beto"}}

	tests := []struct {
		name string
		n    int
		want int
	}{
		{name: "none", n: 0, want: 4},
		{name: "negative", n: -1, want: 4},
		{name: "header", n: 1, want: 3},
		{name: "everything", n: 4, want: 0},
		{name: "beyond", n: 9, want: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := SkipRows(rows, tc.n)
			if got == nil || len(got) != tc.want {
				t.Fatalf("expected %d rows, got %#v", tc.want, got)
			}
		})
	}

	leads := MapRows[crm.Lead](&LeadMapper{}, SkipRows([][]string{{"ID", "Nombre"}, {"", "Ana"}, {"", ""}, {"", "Beto"}}, 1), ModePositional)
	if len(leads) != 2 || leads[0].ID != "L-1" || leads[1].ID != "L-3" {
		t.Fatalf("expected positions counted from the first data row, got %+v", leads)
	}
}

func TestMapRows_EmptyAndHeaderOnlyInputs(t *testing.T) {
	t.Parallel()

	if got := MapRows[crm.Lead](&LeadMapper{}, nil, ModeHeaderRow); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice for nil input, got %#v", got)
	}
	if got := MapRows[crm.Lead](&LeadMapper{}, [][]string{{"id", "nombre"}}, ModeHeaderRow); len(got) != 0 {
		t.Fatalf("expected no leads for header-only input, got %d", len(got))
	}
	if got := MapRows[crm.Lead](&LeadMapper{}, [][]string{{"", ""}, {"x"}}, ModeHeaderRow); len(got) != 1 || got[0].ID != "L-1" {
		t.Fatalf("expected blank header row to map with defaults, got %+v", got)
	}
}

func TestRecordsWithHeaders(t *testing.T) {
	t.Parallel()

	records := RecordsWithHeaders([]string{"Nombre"}, [][]string{{"Ana"}, {""}, {"Beto"}})
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[1].Position != 3 || records[1].Get("nombre") != "Beto" {
		t.Fatalf("unexpected record: %+v", records[1])
	}
}

func TestMapMeta(t *testing.T) {
	t.Parallel()

	if got := MapMeta([][]string{{"last_change_ts", "2026-03-05T10:00:00Z"}}); got.LastChangeTS != "2026-03-05T10:00:00Z" {
		t.Fatalf("unexpected key/value meta: %+v", got)
	}
	if got := MapMeta([][]string{{"Last Change TS"}, {"2026-03-06T00:00:00Z"}}); got.LastChangeTS != "2026-03-06T00:00:00Z" {
		t.Fatalf("unexpected header meta: %+v", got)
	}
	if got := MapMeta(nil); got.LastChangeTS != "" {
		t.Fatalf("expected empty meta, got %+v", got)
	}
	if got := MapMeta(MetaRows(crm.Meta{LastChangeTS: "x"})); got.LastChangeTS != "x" {
		t.Fatalf("MetaRows must be readable by MapMeta, got %+v", got)
	}
}

func TestMapEntity(t *testing.T) {
	t.Parallel()

	result, err := MapEntity("Leads", [][]string{{"nombre"}, {"Ana"}}, ModeHeaderRow)
	if err != nil {
		t.Fatalf("map entity: %v", err)
	}
	leads, ok := result.([]crm.Lead)
	if !ok || len(leads) != 1 {
		t.Fatalf("unexpected result: %#v", result)
	}

	_, err = MapEntity("owners", nil, ModeHeaderRow)
	if err == nil {
		t.Fatalf("expected error for unsupported entity")
	}
	if !strings.Contains(err.Error(), strings.Join(SupportedEntityNames(), ", ")) {
		t.Fatalf("expected supported entities in error, got %v", err)
	}
}

func TestParseMode(t *testing.T) {
	t.Parallel()

	if mode, err := ParseMode(""); err != nil || mode != ModeHeaderRow {
		t.Fatalf("unexpected default mode: %v %v", mode, err)
	}
	if mode, err := ParseMode("Positional"); err != nil || mode != ModePositional {
		t.Fatalf("unexpected positional mode: %v %v", mode, err)
	}
	if _, err := ParseMode("sideways"); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}
