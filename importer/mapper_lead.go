package importer

import (
	"sheetcrm/crm"
	"sheetcrm/internal/classify"
	"sheetcrm/internal/timeutil"
)

type LeadMapper struct{}

func (m *LeadMapper) Name() string {
	return "leads"
}

func (m *LeadMapper) Map(record Record) crm.Lead {
	fields := LeadFields
	phone := record.Field(fields.Phone)

	return crm.Lead{
		ID:         fallback(record.Field(fields.ID), synthesizeID("L", record)),
		Name:       record.Field(fields.Name),
		Phone:      phone,
		Mobile:     phone,
		Email:      record.Field(fields.Email),
		Stage:      classify.LeadStage(record.Field(fields.Status)),
		Priority:   classify.LeadPriority(record.Field(fields.Priority)),
		Source:     classify.LeadSource(record.Field(fields.Source)),
		Interest:   classify.LeadInterest(record.Field(fields.Interest)),
		Budget:     record.Field(fields.Budget),
		PropertyID: record.Field(fields.PropertyID),
		CreatedAt:  timeutil.NormalizeDate(record.Field(fields.Date)),
		Notes:      record.Field(fields.Notes),
	}
}
