package output

import (
	"math"
	"strconv"
	"time"

	"sheetcrm/crm"
	"sheetcrm/internal/timeutil"
)

// Report holds the dashboard KPIs. Every count is derived from the
// canonical entity values, so free-text spellings in the sheet do not
// change the numbers.
type Report struct {
	GeneratedAt           string                        `json:"generated_at"`
	TotalProperties       int                           `json:"total_propiedades"`
	AvailableProperties   int                           `json:"propiedades_disponibles"`
	ReservedProperties    int                           `json:"propiedades_reservadas"`
	UnavailableProperties int                           `json:"propiedades_no_disponibles"`
	TotalLeads            int                           `json:"leads_nuevos"`
	HotLeads              int                           `json:"leads_calientes"`
	AppointmentsToday     int                           `json:"citas_hoy"`
	AppointmentsByStatus  map[crm.AppointmentStatus]int `json:"citas_por_estado"`
	ClosingRate           float64                       `json:"tasa_cierre"`
}

func BuildReport(properties []crm.Property, leads []crm.Lead, appointments []crm.Appointment, now time.Time) Report {
	report := Report{
		GeneratedAt:     now.Format(time.RFC3339),
		TotalProperties: len(properties),
		TotalLeads:      len(leads),
		AppointmentsByStatus: map[crm.AppointmentStatus]int{
			crm.AppointmentPending:     0,
			crm.AppointmentConfirmed:   0,
			crm.AppointmentCancelled:   0,
			crm.AppointmentRescheduled: 0,
		},
	}

	for _, property := range properties {
		switch property.Status {
		case crm.AvailabilityReserved:
			report.ReservedProperties++
		case crm.AvailabilityUnavailable:
			report.UnavailableProperties++
		default:
			report.AvailableProperties++
		}
	}

	for _, lead := range leads {
		if lead.Stage == crm.LeadHot || lead.Priority == crm.PriorityHigh {
			report.HotLeads++
		}
	}

	for _, appointment := range appointments {
		report.AppointmentsByStatus[appointment.Status]++
		if day, ok := timeutil.ParseLooseDate(appointment.Date); ok && timeutil.SameDay(day, now) {
			report.AppointmentsToday++
		}
	}

	total := max(len(properties), 1)
	report.ClosingRate = roundTo(float64(report.UnavailableProperties)/float64(total)*100, 1)

	return report
}

// ReportTable lays the report out as metric/value rows for export.
func ReportTable(report Report) Table {
	rows := [][]string{
		{"generado", report.GeneratedAt},
		{"propiedades", strconv.Itoa(report.TotalProperties)},
		{"propiedades disponibles", strconv.Itoa(report.AvailableProperties)},
		{"propiedades reservadas", strconv.Itoa(report.ReservedProperties)},
		{"propiedades no disponibles", strconv.Itoa(report.UnavailableProperties)},
		{"leads nuevos", strconv.Itoa(report.TotalLeads)},
		{"leads calientes", strconv.Itoa(report.HotLeads)},
		{"citas hoy", strconv.Itoa(report.AppointmentsToday)},
	}
	for _, status := range []crm.AppointmentStatus{
		crm.AppointmentPending,
		crm.AppointmentConfirmed,
		crm.AppointmentCancelled,
		crm.AppointmentRescheduled,
	} {
		rows = append(rows, []string{"citas " + string(status), strconv.Itoa(report.AppointmentsByStatus[status])})
	}
	rows = append(rows, []string{"tasa cierre %", strconv.FormatFloat(report.ClosingRate, 'f', 1, 64)})

	return Table{Name: "Reporte", Headers: []string{"Metrica", "Valor"}, Rows: rows}
}

func roundTo(value float64, decimals int) float64 {
	factor := math.Pow(10, float64(decimals))
	return math.Round(value*factor) / factor
}
