package importer

import (
	"fmt"
	"strings"

	"sheetcrm/crm"
)

// Mode tells the row-set mapper how to interpret the matrix it receives.
type Mode int

const (
	// ModeHeaderRow treats rows[0] as the header row and resolves fields by
	// header name.
	ModeHeaderRow Mode = iota
	// ModePositional treats every row as data and resolves fields by the
	// fixed column layout of each entity.
	ModePositional
)

func (m Mode) String() string {
	if m == ModePositional {
		return "positional"
	}
	return "header"
}

// ParseMode accepts "header" or "positional"; empty means header.
func ParseMode(value string) (Mode, error) {
	switch NormalizeHeader(value) {
	case "", "header", "headerrow", "named":
		return ModeHeaderRow, nil
	case "positional", "position", "fixed":
		return ModePositional, nil
	default:
		return ModeHeaderRow, fmt.Errorf("unsupported layout mode: %s", value)
	}
}

// Mapper turns one record into one entity. Map must not fail: unparseable
// cells degrade to the field default.
type Mapper[T any] interface {
	Name() string
	Map(record Record) T
}

// Records splits rows into non-blank data records according to mode. The
// header index is built once per call.
func Records(rows [][]string, mode Mode) []Record {
	if mode == ModePositional {
		return buildRecords(rows, nil)
	}
	if len(rows) == 0 {
		return []Record{}
	}
	return buildRecords(rows[1:], BuildHeaderIndex(rows[0]))
}

// RecordsWithHeaders is for callers that read the header row separately from
// the data rows.
func RecordsWithHeaders(headers []string, rows [][]string) []Record {
	return buildRecords(rows, BuildHeaderIndex(headers))
}

func buildRecords(rows [][]string, index HeaderIndex) []Record {
	records := make([]Record, 0, len(rows))
	for i, row := range rows {
		if isBlankRow(row) {
			continue
		}
		records = append(records, Record{Position: i + 1, Cells: row, index: index})
	}
	return records
}

// SkipRows drops the first n rows, for positional tabs whose data starts
// below one or more header rows. Positions of the remaining records count
// from the first row kept.
func SkipRows(rows [][]string, n int) [][]string {
	if n <= 0 {
		return rows
	}
	if n >= len(rows) {
		return [][]string{}
	}
	return rows[n:]
}

// MapRecords maps records in order. The result is never nil.
func MapRecords[T any](mapper Mapper[T], records []Record) []T {
	out := make([]T, 0, len(records))
	for _, record := range records {
		out = append(out, mapper.Map(record))
	}
	return out
}

// MapRows is Records followed by MapRecords.
func MapRows[T any](mapper Mapper[T], rows [][]string, mode Mode) []T {
	return MapRecords(mapper, Records(rows, mode))
}

// SupportedEntityNames lists the entity names MapEntity accepts, in the
// form shown to users.
func SupportedEntityNames() []string {
	return []string{"properties", "leads", "appointments"}
}

// MapEntity maps rows with the mapper registered for entity and returns the
// typed slice as any, for callers that only serialize the result.
func MapEntity(entity string, rows [][]string, mode Mode) (any, error) {
	switch NormalizeHeader(entity) {
	case "properties", "property", "propiedades":
		return MapRows[crm.Property](&PropertyMapper{}, rows, mode), nil
	case "leads", "lead", "goldleads":
		return MapRows[crm.Lead](&LeadMapper{}, rows, mode), nil
	case "appointments", "appointment", "citas":
		return MapRows[crm.Appointment](&AppointmentMapper{}, rows, mode), nil
	default:
		return nil, fmt.Errorf("unsupported entity: %s (want one of %s)", entity, strings.Join(SupportedEntityNames(), ", "))
	}
}

func synthesizeID(prefix string, record Record) string {
	return fmt.Sprintf("%s-%d", prefix, record.Position)
}
