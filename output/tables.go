package output

import (
	"strconv"
	"strings"

	"sheetcrm/crm"
)

func PropertyTable(properties []crm.Property) Table {
	table := Table{
		Name: "Propiedades",
		Headers: []string{
			"ID", "Titulo", "Operacion", "Tipo", "Precio", "Moneda", "Precio Soles", "Precio USD Ref",
			"Disponibilidad", "Distrito", "Direccion", "Area m2", "Propietario", "Celular Propietario",
			"Amoblado", "Descripcion", "Tags", "Imagen", "Version", "Actualizado",
		},
		Rows: make([][]string, 0, len(properties)),
	}
	for _, p := range properties {
		table.Rows = append(table.Rows, []string{
			p.ID,
			p.Title,
			string(p.Operation),
			string(p.Type),
			formatFloat(p.Price),
			string(p.Currency),
			formatOptional(p.PricePEN),
			formatOptional(p.PriceUSD),
			string(p.Status),
			p.District,
			p.Address,
			formatFloat(p.AreaM2),
			p.OwnerName,
			p.OwnerPhone,
			strconv.FormatBool(p.Furnished),
			p.Description,
			strings.Join(p.Tags, ", "),
			p.ImageURL,
			strconv.Itoa(p.Version),
			p.UpdatedAt,
		})
	}
	return table
}

func LeadTable(leads []crm.Lead) Table {
	table := Table{
		Name: "Leads",
		Headers: []string{
			"ID", "Nombre", "Telefono", "Email", "Estado", "Prioridad", "Fuente", "Interes",
			"Presupuesto", "Propiedad", "Fecha", "Notas",
		},
		Rows: make([][]string, 0, len(leads)),
	}
	for _, l := range leads {
		table.Rows = append(table.Rows, []string{
			l.ID,
			l.Name,
			l.Phone,
			l.Email,
			string(l.Stage),
			string(l.Priority),
			string(l.Source),
			string(l.Interest),
			l.Budget,
			l.PropertyID,
			l.CreatedAt,
			l.Notes,
		})
	}
	return table
}

func AppointmentTable(appointments []crm.Appointment) Table {
	table := Table{
		Name:    "Citas",
		Headers: []string{"ID", "Fecha", "Hora", "Cliente", "Telefono", "Propiedad", "Estado", "Notificado", "Notas"},
		Rows:    make([][]string, 0, len(appointments)),
	}
	for _, a := range appointments {
		table.Rows = append(table.Rows, []string{
			a.ID,
			a.Date,
			a.Time,
			a.ClientName,
			a.ClientPhone,
			a.PropertyRef,
			string(a.Status),
			strconv.FormatBool(a.Notified),
			a.Notes,
		})
	}
	return table
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

func formatOptional(value *float64) string {
	if value == nil {
		return ""
	}
	return formatFloat(*value)
}
