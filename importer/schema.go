package importer

// CandidateTableVersion is bumped whenever a candidate list below changes.
// Both health checks report it.
const CandidateTableVersion = 2

// noColumn marks a field the positional layout does not carry.
const noColumn = -1

// FieldSpec describes how one logical field is found in a row: by header
// candidates in priority order, or by Column when the tab has no header row.
type FieldSpec struct {
	Names    []string
	Column   int
	Fallback string
}

type PropertySchema struct {
	ID          FieldSpec
	Title       FieldSpec
	Type        FieldSpec
	Operation   FieldSpec
	PricePEN    FieldSpec
	PriceUSD    FieldSpec
	Currency    FieldSpec
	Status      FieldSpec
	District    FieldSpec
	Address     FieldSpec
	Area        FieldSpec
	OwnerName   FieldSpec
	OwnerPhone  FieldSpec
	Furnished   FieldSpec
	Description FieldSpec
	Tags        FieldSpec
	Image       FieldSpec
	Version     FieldSpec
	UpdatedAt   FieldSpec
}

type LeadSchema struct {
	ID         FieldSpec
	Name       FieldSpec
	Phone      FieldSpec
	Email      FieldSpec
	Status     FieldSpec
	Priority   FieldSpec
	Source     FieldSpec
	Interest   FieldSpec
	Budget     FieldSpec
	PropertyID FieldSpec
	Date       FieldSpec
	Notes      FieldSpec
}

type AppointmentSchema struct {
	ID       FieldSpec
	Date     FieldSpec
	Time     FieldSpec
	Client   FieldSpec
	Phone    FieldSpec
	Property FieldSpec
	Status   FieldSpec
	Notified FieldSpec
	Notes    FieldSpec
}

// PropertyFields follows the inventory sheet layout for positional reads:
// A owner | B type | C address | D zone | E front | F depth | G area |
// H features | I price S/ | J guarantee | K status | L registry |
// M operation | N currency | O price USD ref | P internal id | Q created_at |
// R updated_at.
var PropertyFields = PropertySchema{
	ID:          FieldSpec{Names: []string{"id", "codigo"}, Column: 15},
	Title:       FieldSpec{Names: []string{"titulo", "title", "nombre"}, Column: noColumn},
	Type:        FieldSpec{Names: []string{"tipo", "type"}, Column: 1},
	Operation:   FieldSpec{Names: []string{"operacion", "operation", "modalidad"}, Column: 12},
	PricePEN:    FieldSpec{Names: []string{"preciosoles", "precios", "precio", "price", "preciopen"}, Column: 8},
	PriceUSD:    FieldSpec{Names: []string{"preciousdref", "preciousd", "usd"}, Column: 14},
	Currency:    FieldSpec{Names: []string{"moneda", "currency"}, Column: 13},
	Status:      FieldSpec{Names: []string{"estado", "status"}, Column: 10, Fallback: "Disponible"},
	District:    FieldSpec{Names: []string{"distrito", "zona"}, Column: 3},
	Address:     FieldSpec{Names: []string{"direccion", "address"}, Column: 2},
	Area:        FieldSpec{Names: []string{"aream2", "area", "metros"}, Column: 6},
	OwnerName:   FieldSpec{Names: []string{"propietario", "propietarionombre", "owner"}, Column: 0},
	OwnerPhone:  FieldSpec{Names: []string{"propietariocelular", "celularpropietario", "ownerphone"}, Column: noColumn},
	Furnished:   FieldSpec{Names: []string{"amoblado", "furnished"}, Column: noColumn},
	Description: FieldSpec{Names: []string{"descripcion", "caracteristicas", "description"}, Column: 7},
	Tags:        FieldSpec{Names: []string{"tags", "etiquetas"}, Column: noColumn},
	Image:       FieldSpec{Names: []string{"imagen", "image", "foto"}, Column: noColumn},
	Version:     FieldSpec{Names: []string{"version"}, Column: noColumn},
	UpdatedAt:   FieldSpec{Names: []string{"updatedat", "actualizado", "fechaactualizacion"}, Column: 17},
}

// LeadFields positional layout: A id | B name | C phone | D email | E source |
// F stage | G property id | H notes.
var LeadFields = LeadSchema{
	ID:         FieldSpec{Names: []string{"id", "codigo", "code"}, Column: 0},
	Name:       FieldSpec{Names: []string{"nombre", "cliente", "fullname", "name"}, Column: 1},
	Phone:      FieldSpec{Names: []string{"telefono", "celular", "phone", "whatsapp"}, Column: 2},
	Email:      FieldSpec{Names: []string{"email", "correo"}, Column: 3},
	Status:     FieldSpec{Names: []string{"estado", "status"}, Column: 5, Fallback: "Nuevo"},
	Priority:   FieldSpec{Names: []string{"prioridad", "priority"}, Column: noColumn, Fallback: "Media"},
	Source:     FieldSpec{Names: []string{"fuente", "source"}, Column: 4, Fallback: "Sheets"},
	Interest:   FieldSpec{Names: []string{"interes", "interest"}, Column: noColumn},
	Budget:     FieldSpec{Names: []string{"presupuesto", "budget"}, Column: noColumn},
	PropertyID: FieldSpec{Names: []string{"propiedad", "propiedadid", "inmueble"}, Column: 6},
	Date:       FieldSpec{Names: []string{"fecha", "createdat", "creado", "registro"}, Column: noColumn},
	Notes:      FieldSpec{Names: []string{"notas", "nota", "comentarios", "comments"}, Column: 7},
}

// AppointmentFields positional layout: A id | B client | C phone |
// D property id | E date | F time | G status | H notes | I notified.
var AppointmentFields = AppointmentSchema{
	ID:       FieldSpec{Names: []string{"id", "codigo"}, Column: 0},
	Date:     FieldSpec{Names: []string{"fecha", "date"}, Column: 4},
	Time:     FieldSpec{Names: []string{"hora", "time"}, Column: 5},
	Client:   FieldSpec{Names: []string{"cliente", "nombre", "name"}, Column: 1},
	Phone:    FieldSpec{Names: []string{"telefono", "celular", "phone", "whatsapp"}, Column: 2},
	Property: FieldSpec{Names: []string{"propiedad", "inmueble", "titulo"}, Column: 3},
	Status:   FieldSpec{Names: []string{"estado", "status"}, Column: 6, Fallback: "Pendiente"},
	Notified: FieldSpec{Names: []string{"notificado", "whatsappsent", "notified"}, Column: 8},
	Notes:    FieldSpec{Names: []string{"notas", "comentarios"}, Column: 7},
}
