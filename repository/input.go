package repository

import (
	"strconv"
	"strings"
	"time"

	"sheetcrm/crm"
	"sheetcrm/importer"
	"sheetcrm/internal/classify"
	"sheetcrm/internal/timeutil"
)

// LeadInput is the payload for a new lead. Categorical fields accept free
// text and are stored in their canonical form.
type LeadInput struct {
	ID         string `json:"id" validate:"max=64"`
	Name       string `json:"nombre" validate:"required,max=200"`
	Phone      string `json:"telefono" validate:"required_without=Email,max=40"`
	Email      string `json:"email" validate:"omitempty,email"`
	Stage      string `json:"estado"`
	Priority   string `json:"prioridad"`
	Source     string `json:"fuente"`
	Interest   string `json:"interes"`
	Budget     string `json:"presupuesto" validate:"max=100"`
	PropertyID string `json:"propiedad" validate:"max=64"`
	CreatedAt  string `json:"fecha" validate:"omitempty,loosedate"`
	Notes      string `json:"notas" validate:"max=2000"`
}

// LeadPatch changes only the non-nil fields of a lead.
type LeadPatch struct {
	Name       *string `json:"nombre" validate:"omitempty,max=200"`
	Phone      *string `json:"telefono" validate:"omitempty,max=40"`
	Email      *string `json:"email" validate:"omitempty,email"`
	Stage      *string `json:"estado"`
	Priority   *string `json:"prioridad"`
	Source     *string `json:"fuente"`
	Interest   *string `json:"interes"`
	Budget     *string `json:"presupuesto" validate:"omitempty,max=100"`
	PropertyID *string `json:"propiedad" validate:"omitempty,max=64"`
	Notes      *string `json:"notas" validate:"omitempty,max=2000"`
}

type AppointmentInput struct {
	ID          string `json:"id" validate:"max=64"`
	Date        string `json:"fecha" validate:"required,loosedate"`
	Time        string `json:"hora" validate:"max=20"`
	ClientName  string `json:"cliente" validate:"required,max=200"`
	ClientPhone string `json:"telefono" validate:"max=40"`
	PropertyRef string `json:"propiedad" validate:"max=200"`
	Status      string `json:"estado"`
	Notified    bool   `json:"notificado"`
	Notes       string `json:"notas" validate:"max=2000"`
}

type AppointmentPatch struct {
	Date        *string `json:"fecha" validate:"omitempty,loosedate"`
	Time        *string `json:"hora" validate:"omitempty,max=20"`
	ClientName  *string `json:"cliente" validate:"omitempty,max=200"`
	ClientPhone *string `json:"telefono" validate:"omitempty,max=40"`
	PropertyRef *string `json:"propiedad" validate:"omitempty,max=200"`
	Status      *string `json:"estado"`
	Notified    *bool   `json:"notificado"`
	Notes       *string `json:"notas" validate:"omitempty,max=2000"`
}

type PropertyInput struct {
	ID          string   `json:"id" validate:"max=64"`
	Title       string   `json:"titulo" validate:"required_without=Address,max=200"`
	Operation   string   `json:"operacion"`
	Type        string   `json:"tipo"`
	Price       *float64 `json:"precio" validate:"omitempty,gte=0"`
	Currency    string   `json:"moneda"`
	Status      string   `json:"disponibilidad"`
	District    string   `json:"distrito" validate:"max=100"`
	Address     string   `json:"direccion" validate:"max=300"`
	AreaM2      float64  `json:"area_m2" validate:"gte=0"`
	OwnerName   string   `json:"propietario_nombre" validate:"max=200"`
	OwnerPhone  string   `json:"propietario_celular" validate:"max=40"`
	Furnished   bool     `json:"amoblado"`
	Description string   `json:"descripcion" validate:"max=4000"`
	Tags        []string `json:"tags" validate:"max=6,dive,max=40"`
	ImageURL    string   `json:"imagen" validate:"omitempty,url"`
}

type PropertyPatch struct {
	Title       *string  `json:"titulo" validate:"omitempty,max=200"`
	Operation   *string  `json:"operacion"`
	Type        *string  `json:"tipo"`
	Price       *float64 `json:"precio" validate:"omitempty,gte=0"`
	Currency    *string  `json:"moneda"`
	Status      *string  `json:"disponibilidad"`
	District    *string  `json:"distrito" validate:"omitempty,max=100"`
	Address     *string  `json:"direccion" validate:"omitempty,max=300"`
	AreaM2      *float64 `json:"area_m2" validate:"omitempty,gte=0"`
	OwnerName   *string  `json:"propietario_nombre" validate:"omitempty,max=200"`
	OwnerPhone  *string  `json:"propietario_celular" validate:"omitempty,max=40"`
	Furnished   *bool    `json:"amoblado"`
	Description *string  `json:"descripcion" validate:"omitempty,max=4000"`
	Tags        []string `json:"tags" validate:"omitempty,max=6,dive,max=40"`
	ImageURL    *string  `json:"imagen" validate:"omitempty,url"`
}

func (in *LeadInput) trim() {
	trimAll(&in.ID, &in.Name, &in.Phone, &in.Email, &in.Stage, &in.Priority, &in.Source,
		&in.Interest, &in.Budget, &in.PropertyID, &in.CreatedAt, &in.Notes)
}

func (in *AppointmentInput) trim() {
	trimAll(&in.ID, &in.Date, &in.Time, &in.ClientName, &in.ClientPhone, &in.PropertyRef,
		&in.Status, &in.Notes)
}

func (in *PropertyInput) trim() {
	trimAll(&in.ID, &in.Title, &in.Operation, &in.Type, &in.Currency, &in.Status, &in.District,
		&in.Address, &in.OwnerName, &in.OwnerPhone, &in.Description, &in.ImageURL)
	in.Tags = trimTags(in.Tags)
}

func (in LeadInput) fieldValues(now time.Time) []importer.FieldValue {
	f := importer.LeadFields
	created := now.Format(timeutil.DateLayout)
	if in.CreatedAt != "" {
		created = timeutil.NormalizeDate(in.CreatedAt)
	}

	values := []importer.FieldValue{
		{Spec: f.ID, Value: in.ID},
		{Spec: f.Name, Value: in.Name},
		{Spec: f.Phone, Value: in.Phone},
		{Spec: f.Status, Value: string(classify.LeadStage(in.Stage))},
		{Spec: f.Priority, Value: string(classify.LeadPriority(in.Priority))},
		{Spec: f.Source, Value: string(classify.LeadSource(in.Source))},
		{Spec: f.Date, Value: created},
	}
	values = appendIfSet(values, f.Email, in.Email)
	if in.Interest != "" {
		values = append(values, importer.FieldValue{Spec: f.Interest, Value: string(classify.LeadInterest(in.Interest))})
	}
	values = appendIfSet(values, f.Budget, in.Budget)
	values = appendIfSet(values, f.PropertyID, in.PropertyID)
	values = appendIfSet(values, f.Notes, in.Notes)
	return values
}

func (p LeadPatch) fieldValues() []importer.FieldValue {
	f := importer.LeadFields
	var values []importer.FieldValue
	values = appendPatch(values, f.Name, p.Name, nil)
	values = appendPatch(values, f.Phone, p.Phone, nil)
	values = appendPatch(values, f.Email, p.Email, nil)
	values = appendPatch(values, f.Status, p.Stage, func(v string) string { return string(classify.LeadStage(v)) })
	values = appendPatch(values, f.Priority, p.Priority, func(v string) string { return string(classify.LeadPriority(v)) })
	values = appendPatch(values, f.Source, p.Source, func(v string) string { return string(classify.LeadSource(v)) })
	values = appendPatch(values, f.Interest, p.Interest, func(v string) string { return string(classify.LeadInterest(v)) })
	values = appendPatch(values, f.Budget, p.Budget, nil)
	values = appendPatch(values, f.PropertyID, p.PropertyID, nil)
	values = appendPatch(values, f.Notes, p.Notes, nil)
	return values
}

func (in AppointmentInput) fieldValues() []importer.FieldValue {
	f := importer.AppointmentFields
	values := []importer.FieldValue{
		{Spec: f.ID, Value: in.ID},
		{Spec: f.Date, Value: timeutil.NormalizeDate(in.Date)},
		{Spec: f.Client, Value: in.ClientName},
		{Spec: f.Status, Value: string(classify.AppointmentStatus(in.Status))},
		{Spec: f.Notified, Value: formatBool(in.Notified)},
	}
	values = appendIfSet(values, f.Time, timeutil.NormalizeTime(in.Time))
	values = appendIfSet(values, f.Phone, in.ClientPhone)
	values = appendIfSet(values, f.Property, in.PropertyRef)
	values = appendIfSet(values, f.Notes, in.Notes)
	return values
}

func (p AppointmentPatch) fieldValues() []importer.FieldValue {
	f := importer.AppointmentFields
	var values []importer.FieldValue
	values = appendPatch(values, f.Date, p.Date, timeutil.NormalizeDate)
	values = appendPatch(values, f.Time, p.Time, timeutil.NormalizeTime)
	values = appendPatch(values, f.Client, p.ClientName, nil)
	values = appendPatch(values, f.Phone, p.ClientPhone, nil)
	values = appendPatch(values, f.Property, p.PropertyRef, nil)
	values = appendPatch(values, f.Status, p.Status, func(v string) string { return string(classify.AppointmentStatus(v)) })
	if p.Notified != nil {
		values = append(values, importer.FieldValue{Spec: f.Notified, Value: formatBool(*p.Notified)})
	}
	values = appendPatch(values, f.Notes, p.Notes, nil)
	return values
}

func (in PropertyInput) fieldValues(now time.Time) []importer.FieldValue {
	f := importer.PropertyFields
	currency := classify.Currency(in.Currency)

	values := []importer.FieldValue{
		{Spec: f.ID, Value: in.ID},
		{Spec: f.Type, Value: string(classify.PropertyType(in.Type))},
		{Spec: f.Operation, Value: string(classify.Operation(in.Operation))},
		{Spec: f.Currency, Value: string(currency)},
		{Spec: f.Status, Value: string(classify.Availability(in.Status))},
		{Spec: f.Furnished, Value: formatBool(in.Furnished)},
		{Spec: f.Version, Value: "1"},
		{Spec: f.UpdatedAt, Value: now.UTC().Format(time.RFC3339)},
	}
	values = appendIfSet(values, f.Title, in.Title)
	if in.Price != nil {
		values = append(values, importer.FieldValue{Spec: priceSpec(currency), Value: formatNumber(*in.Price)})
	}
	values = appendIfSet(values, f.District, in.District)
	values = appendIfSet(values, f.Address, in.Address)
	if in.AreaM2 > 0 {
		values = append(values, importer.FieldValue{Spec: f.Area, Value: formatNumber(in.AreaM2)})
	}
	values = appendIfSet(values, f.OwnerName, in.OwnerName)
	values = appendIfSet(values, f.OwnerPhone, in.OwnerPhone)
	values = appendIfSet(values, f.Description, in.Description)
	values = appendIfSet(values, f.Tags, strings.Join(in.Tags, ", "))
	values = appendIfSet(values, f.Image, in.ImageURL)
	return values
}

// fieldValues writes the patch on top of current. The version is bumped on
// every update.
func (p PropertyPatch) fieldValues(current crm.Property, now time.Time) []importer.FieldValue {
	f := importer.PropertyFields
	var values []importer.FieldValue

	currency := current.Currency
	if p.Currency != nil {
		currency = classify.Currency(*p.Currency)
		values = append(values, importer.FieldValue{Spec: f.Currency, Value: string(currency)})
	}
	if p.Price != nil {
		values = append(values, importer.FieldValue{Spec: priceSpec(currency), Value: formatNumber(*p.Price)})
	}

	values = appendPatch(values, f.Title, p.Title, nil)
	values = appendPatch(values, f.Operation, p.Operation, func(v string) string { return string(classify.Operation(v)) })
	values = appendPatch(values, f.Type, p.Type, func(v string) string { return string(classify.PropertyType(v)) })
	values = appendPatch(values, f.Status, p.Status, func(v string) string { return string(classify.Availability(v)) })
	values = appendPatch(values, f.District, p.District, nil)
	values = appendPatch(values, f.Address, p.Address, nil)
	if p.AreaM2 != nil {
		values = append(values, importer.FieldValue{Spec: f.Area, Value: formatNumber(*p.AreaM2)})
	}
	values = appendPatch(values, f.OwnerName, p.OwnerName, nil)
	values = appendPatch(values, f.OwnerPhone, p.OwnerPhone, nil)
	if p.Furnished != nil {
		values = append(values, importer.FieldValue{Spec: f.Furnished, Value: formatBool(*p.Furnished)})
	}
	values = appendPatch(values, f.Description, p.Description, nil)
	if p.Tags != nil {
		values = append(values, importer.FieldValue{Spec: f.Tags, Value: strings.Join(trimTags(p.Tags), ", ")})
	}
	values = appendPatch(values, f.Image, p.ImageURL, nil)

	values = append(values,
		importer.FieldValue{Spec: f.Version, Value: strconv.Itoa(current.Version + 1)},
		importer.FieldValue{Spec: f.UpdatedAt, Value: now.UTC().Format(time.RFC3339)},
	)
	return values
}

func priceSpec(currency crm.Currency) importer.FieldSpec {
	if currency == crm.CurrencyUSD {
		return importer.PropertyFields.PriceUSD
	}
	return importer.PropertyFields.PricePEN
}

func appendIfSet(values []importer.FieldValue, spec importer.FieldSpec, value string) []importer.FieldValue {
	if value == "" {
		return values
	}
	return append(values, importer.FieldValue{Spec: spec, Value: value})
}

func appendPatch(values []importer.FieldValue, spec importer.FieldSpec, value *string, canonical func(string) string) []importer.FieldValue {
	if value == nil {
		return values
	}
	text := strings.TrimSpace(*value)
	if canonical != nil {
		text = canonical(text)
	}
	return append(values, importer.FieldValue{Spec: spec, Value: text})
}

func trimAll(fields ...*string) {
	for _, field := range fields {
		*field = strings.TrimSpace(*field)
	}
}

func trimTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			out = append(out, tag)
		}
	}
	return out
}

func formatBool(value bool) string {
	if value {
		return "TRUE"
	}
	return "FALSE"
}

func formatNumber(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
