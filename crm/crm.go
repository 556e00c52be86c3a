// Package crm holds the normalized entities produced from spreadsheet rows.
// Every value is transient: it is rebuilt from the spreadsheet on each read.
package crm

type Operation string

const (
	OperationSale   Operation = "Venta"
	OperationRental Operation = "Alquiler"
)

type PropertyType string

const (
	PropertyApartment  PropertyType = "Departamento"
	PropertyHouse      PropertyType = "Casa"
	PropertyOffice     PropertyType = "Oficina"
	PropertyLand       PropertyType = "Terreno"
	PropertyCommercial PropertyType = "Local"
)

type Availability string

const (
	AvailabilityAvailable   Availability = "Disponible"
	AvailabilityReserved    Availability = "Reservado"
	AvailabilityUnavailable Availability = "No disponible"
)

type Currency string

const (
	CurrencyPEN Currency = "PEN"
	CurrencyUSD Currency = "USD"
)

type LeadStage string

const (
	LeadNew       LeadStage = "Nuevo"
	LeadContacted LeadStage = "Contactado"
	LeadHot       LeadStage = "Caliente"
	LeadClosed    LeadStage = "Cerrado"
)

type LeadSource string

const (
	SourceWhatsApp LeadSource = "WhatsApp"
	SourceWeb      LeadSource = "Web"
	SourceReferral LeadSource = "Referencia"
	SourceFacebook LeadSource = "Facebook"
	SourceSheets   LeadSource = "Sheets"
)

type LeadPriority string

const (
	PriorityHigh   LeadPriority = "Alta"
	PriorityMedium LeadPriority = "Media"
	PriorityLow    LeadPriority = "Baja"
)

type LeadInterest string

const (
	InterestBuy  LeadInterest = "Comprar"
	InterestRent LeadInterest = "Alquilar"
)

type AppointmentStatus string

const (
	AppointmentPending     AppointmentStatus = "Pendiente"
	AppointmentConfirmed   AppointmentStatus = "Confirmada"
	AppointmentCancelled   AppointmentStatus = "Cancelada"
	AppointmentRescheduled AppointmentStatus = "Reprogramada"
)

// Property is one row of the inventory tab.
//
// PricePEN and PriceUSD keep the raw price columns: nil means the column was
// empty, which is different from a zero price. Price is the value chosen for
// Currency and is always finite and >= 0.
type Property struct {
	ID          string       `json:"id"`
	Title       string       `json:"titulo"`
	Operation   Operation    `json:"operacion"`
	Type        PropertyType `json:"tipo"`
	Price       float64      `json:"precio"`
	Currency    Currency     `json:"moneda"`
	PricePEN    *float64     `json:"precio_soles,omitempty"`
	PriceUSD    *float64     `json:"precio_usd_ref,omitempty"`
	Status      Availability `json:"disponibilidad"`
	District    string       `json:"distrito"`
	Address     string       `json:"direccion"`
	AreaM2      float64      `json:"area_m2"`
	OwnerName   string       `json:"propietario_nombre"`
	OwnerPhone  string       `json:"propietario_celular"`
	Furnished   bool         `json:"amoblado"`
	Description string       `json:"descripcion"`
	Tags        []string     `json:"tags"`
	ImageURL    string       `json:"imagen,omitempty"`
	Version     int          `json:"version"`
	UpdatedAt   string       `json:"updated_at,omitempty"`
}

// Lead is one row of the gold list tab. Mobile mirrors Phone for clients that
// read the "celular" key.
type Lead struct {
	ID         string       `json:"id"`
	Name       string       `json:"nombre"`
	Phone      string       `json:"telefono"`
	Mobile     string       `json:"celular"`
	Email      string       `json:"email,omitempty"`
	Stage      LeadStage    `json:"estado"`
	Priority   LeadPriority `json:"prioridad"`
	Source     LeadSource   `json:"fuente"`
	Interest   LeadInterest `json:"interes"`
	Budget     string       `json:"presupuesto,omitempty"`
	PropertyID string       `json:"propiedad,omitempty"`
	CreatedAt  string       `json:"fecha"`
	Notes      string       `json:"notas"`
}

type Appointment struct {
	ID          string            `json:"id"`
	Date        string            `json:"fecha"`
	Time        string            `json:"hora"`
	ClientName  string            `json:"cliente"`
	ClientPhone string            `json:"telefono"`
	PropertyRef string            `json:"propiedad,omitempty"`
	Status      AppointmentStatus `json:"estado"`
	Notified    bool              `json:"notificado"`
	Notes       string            `json:"notas"`
}

// Meta carries the change marker clients poll to know when to refetch.
type Meta struct {
	LastChangeTS string `json:"last_change_ts"`
}
