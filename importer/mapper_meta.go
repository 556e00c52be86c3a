package importer

import "sheetcrm/crm"

const metaLastChangeKey = "last_change_ts"

// MapMeta reads the change marker from the META tab. Both a key/value layout
// (A: last_change_ts, B: value) and a header row with a last_change_ts
// column are understood; anything else yields an empty marker.
func MapMeta(rows [][]string) crm.Meta {
	key := NormalizeHeader(metaLastChangeKey)
	for _, row := range rows {
		if len(row) >= 2 && NormalizeHeader(row[0]) == key {
			if value := cellAt(row, 1); value != "" {
				return crm.Meta{LastChangeTS: value}
			}
		}
	}

	for _, record := range Records(rows, ModeHeaderRow) {
		if value := record.Get(metaLastChangeKey, "lastchange", "updatedat"); value != "" {
			return crm.Meta{LastChangeTS: value}
		}
	}
	return crm.Meta{}
}

// MetaRows is the key/value layout MapMeta reads back.
func MetaRows(meta crm.Meta) [][]string {
	return [][]string{{metaLastChangeKey, meta.LastChangeTS}}
}
