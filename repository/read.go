package repository

import (
	"context"

	"sheetcrm/crm"
	"sheetcrm/importer"
	"sheetcrm/sheets"
)

// LoadProperties reads and maps the inventory tab, returning transport
// errors to the caller.
func (r *Repository) LoadProperties(ctx context.Context) ([]crm.Property, error) {
	t, err := r.readTab(ctx, sheets.TabProperties)
	if err != nil {
		return nil, err
	}
	return importer.MapRecords[crm.Property](&importer.PropertyMapper{}, t.records()), nil
}

func (r *Repository) LoadLeads(ctx context.Context) ([]crm.Lead, error) {
	t, err := r.readTab(ctx, sheets.TabLeads)
	if err != nil {
		return nil, err
	}
	return importer.MapRecords[crm.Lead](&importer.LeadMapper{}, t.records()), nil
}

func (r *Repository) LoadAppointments(ctx context.Context) ([]crm.Appointment, error) {
	t, err := r.readTab(ctx, sheets.TabAppointments)
	if err != nil {
		return nil, err
	}
	return importer.MapRecords[crm.Appointment](&importer.AppointmentMapper{}, t.records()), nil
}

// Properties never fails: ok is false when the spreadsheet could not be read
// and the result is then empty.
func (r *Repository) Properties(ctx context.Context) ([]crm.Property, bool) {
	items, err := r.LoadProperties(ctx)
	return orEmpty(r.logger, sheets.TabProperties, items, err)
}

func (r *Repository) Leads(ctx context.Context) ([]crm.Lead, bool) {
	items, err := r.LoadLeads(ctx)
	return orEmpty(r.logger, sheets.TabLeads, items, err)
}

func (r *Repository) Appointments(ctx context.Context) ([]crm.Appointment, bool) {
	items, err := r.LoadAppointments(ctx)
	return orEmpty(r.logger, sheets.TabAppointments, items, err)
}
