package importer

import (
	"sheetcrm/crm"
	"sheetcrm/internal/classify"
	"sheetcrm/internal/timeutil"
)

type AppointmentMapper struct{}

func (m *AppointmentMapper) Name() string {
	return "appointments"
}

func (m *AppointmentMapper) Map(record Record) crm.Appointment {
	fields := AppointmentFields

	return crm.Appointment{
		ID:          fallback(record.Field(fields.ID), synthesizeID("A", record)),
		Date:        timeutil.NormalizeDate(record.Field(fields.Date)),
		Time:        timeutil.NormalizeTime(record.Field(fields.Time)),
		ClientName:  record.Field(fields.Client),
		ClientPhone: record.Field(fields.Phone),
		PropertyRef: record.Field(fields.Property),
		Status:      classify.AppointmentStatus(record.Field(fields.Status)),
		Notified:    ParseBool(record.Field(fields.Notified)),
		Notes:       record.Field(fields.Notes),
	}
}
