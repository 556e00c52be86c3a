package repository

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"sheetcrm/crm"
	"sheetcrm/importer"
	"sheetcrm/sheets"
)

// CreateLead validates input, appends it to the leads tab and bumps META.
// The returned lead is what a subsequent read of the new row yields.
func (r *Repository) CreateLead(ctx context.Context, input LeadInput) (crm.Lead, error) {
	input.trim()
	if err := r.check(input); err != nil {
		return crm.Lead{}, err
	}
	if input.ID == "" {
		input.ID = r.newID()
	}
	return create[crm.Lead](ctx, r, sheets.TabLeads, &importer.LeadMapper{}, input.fieldValues(r.now()))
}

func (r *Repository) CreateAppointment(ctx context.Context, input AppointmentInput) (crm.Appointment, error) {
	input.trim()
	if err := r.check(input); err != nil {
		return crm.Appointment{}, err
	}
	if input.ID == "" {
		input.ID = r.newID()
	}
	return create[crm.Appointment](ctx, r, sheets.TabAppointments, &importer.AppointmentMapper{}, input.fieldValues())
}

func (r *Repository) CreateProperty(ctx context.Context, input PropertyInput) (crm.Property, error) {
	input.trim()
	if err := r.check(input); err != nil {
		return crm.Property{}, err
	}
	if input.ID == "" {
		input.ID = r.newID()
	}
	return create[crm.Property](ctx, r, sheets.TabProperties, &importer.PropertyMapper{}, input.fieldValues(r.now()))
}

// UpdateLead overwrites the patched fields of the lead with the given id.
// ErrNotFound is returned when no row maps to id.
func (r *Repository) UpdateLead(ctx context.Context, id string, patch LeadPatch) (crm.Lead, error) {
	if err := r.check(patch); err != nil {
		return crm.Lead{}, err
	}
	return update[crm.Lead](ctx, r, sheets.TabLeads, &importer.LeadMapper{}, id,
		func(lead crm.Lead) string { return lead.ID },
		func(crm.Lead) []importer.FieldValue { return patch.fieldValues() },
	)
}

func (r *Repository) UpdateAppointment(ctx context.Context, id string, patch AppointmentPatch) (crm.Appointment, error) {
	if err := r.check(patch); err != nil {
		return crm.Appointment{}, err
	}
	return update[crm.Appointment](ctx, r, sheets.TabAppointments, &importer.AppointmentMapper{}, id,
		func(appointment crm.Appointment) string { return appointment.ID },
		func(crm.Appointment) []importer.FieldValue { return patch.fieldValues() },
	)
}

func (r *Repository) UpdateProperty(ctx context.Context, id string, patch PropertyPatch) (crm.Property, error) {
	if err := r.check(patch); err != nil {
		return crm.Property{}, err
	}
	return update[crm.Property](ctx, r, sheets.TabProperties, &importer.PropertyMapper{}, id,
		func(property crm.Property) string { return property.ID },
		func(current crm.Property) []importer.FieldValue { return patch.fieldValues(current, r.now()) },
	)
}

func (r *Repository) check(input any) error {
	if err := r.validate.Struct(input); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalid, err.Error())
	}
	return nil
}

func create[T any](ctx context.Context, r *Repository, key string, mapper importer.Mapper[T], values []importer.FieldValue) (T, error) {
	var zero T

	t, err := r.readTab(ctx, key)
	if err != nil {
		return zero, err
	}
	index := t.headerIndex()
	if t.mode == importer.ModeHeaderRow && len(index) == 0 {
		return zero, fmt.Errorf("tab %q has no header row", t.title)
	}

	row, dropped := importer.EncodeRow(index, nil, values)
	r.logDropped(key, t.title, dropped)

	if err := r.client.AppendValues(ctx, sheets.QuoteTab(t.title), [][]string{row}); err != nil {
		return zero, fmt.Errorf("append to %q: %w", t.title, err)
	}
	r.TouchMeta(ctx)

	return mapper.Map(importer.NewRecord(index, t.nextPosition(), row)), nil
}

func update[T any](
	ctx context.Context,
	r *Repository,
	key string,
	mapper importer.Mapper[T],
	id string,
	idOf func(T) string,
	patch func(current T) []importer.FieldValue,
) (T, error) {
	var zero T

	t, err := r.readTab(ctx, key)
	if err != nil {
		return zero, err
	}
	index := t.headerIndex()

	for _, record := range t.records() {
		current := mapper.Map(record)
		if idOf(current) != id {
			continue
		}

		row, dropped := importer.EncodeRow(index, record.Cells, patch(current))
		r.logDropped(key, t.title, dropped)

		rng := sheets.RowRange(t.title, t.sheetRow(record.Position))
		if err := r.client.UpdateValues(ctx, rng, [][]string{row}); err != nil {
			return zero, fmt.Errorf("update %s: %w", rng, err)
		}
		r.TouchMeta(ctx)
		return mapper.Map(importer.NewRecord(index, record.Position, row)), nil
	}

	return zero, fmt.Errorf("%w: %s %q", ErrNotFound, key, id)
}

func (r *Repository) logDropped(key, title string, dropped []string) {
	if len(dropped) == 0 {
		return
	}
	r.logger.WithFields(logrus.Fields{
		"entity": key,
		"tab":    title,
		"fields": dropped,
	}).Debug("tab has no column for fields, values not written")
}
