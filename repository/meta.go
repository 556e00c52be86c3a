package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"sheetcrm/crm"
	"sheetcrm/importer"
	"sheetcrm/sheets"
)

func (r *Repository) LoadMeta(ctx context.Context) (crm.Meta, error) {
	t, err := r.readTab(ctx, sheets.TabMeta)
	if err != nil {
		return crm.Meta{}, err
	}
	return importer.MapMeta(t.rows), nil
}

// Meta returns the change marker, or an empty marker when META is unreadable.
func (r *Repository) Meta(ctx context.Context) (crm.Meta, bool) {
	meta, err := r.LoadMeta(ctx)
	if err != nil {
		r.logger.WithField("error", err.Error()).Warn("meta read failed")
		return crm.Meta{}, false
	}
	return meta, true
}

// WriteMeta stores the current time as the change marker.
func (r *Repository) WriteMeta(ctx context.Context) (crm.Meta, error) {
	meta := crm.Meta{LastChangeTS: r.now().UTC().Format(time.RFC3339)}

	title, err := r.resolveTitle(ctx, sheets.TabMeta)
	if err != nil {
		return meta, err
	}
	if err := r.client.UpdateValues(ctx, sheets.RowRange(title, 1), importer.MetaRows(meta)); err != nil {
		r.forget(sheets.TabMeta)
		return meta, fmt.Errorf("write meta: %w", err)
	}
	return meta, nil
}

// TouchMeta bumps the change marker. Failures are logged; the returned marker
// always carries the current time so clients still refresh.
func (r *Repository) TouchMeta(ctx context.Context) crm.Meta {
	meta, err := r.WriteMeta(ctx)
	if err != nil {
		r.logger.WithFields(logrus.Fields{
			"error": err.Error(),
			"ts":    meta.LastChangeTS,
		}).Warn("meta touch failed")
	}
	return meta
}
