package importer

import (
	"strings"
)

// Record is one non-blank data row. Position is the 1-based position of the
// row among the data rows of the tab (blank rows are counted but never
// emitted), which keeps synthesized ids aligned with the sheet.
type Record struct {
	Position int
	Cells    []string
	index    HeaderIndex
}

// Field resolves spec by header candidates, or by its fixed column when the
// record has no header index.
func (r Record) Field(spec FieldSpec) string {
	if r.index == nil {
		if value := cellAt(r.Cells, spec.Column); value != "" {
			return value
		}
		return spec.Fallback
	}
	return Extract(r.Cells, r.index, spec.Names, spec.Fallback)
}

// Get returns the first non-empty cell among keys, or "".
func (r Record) Get(keys ...string) string {
	return Extract(r.Cells, r.index, keys, "")
}

// Extract walks candidates in priority order and returns the first non-empty
// cell whose header matches. Missing headers, short rows and whitespace-only
// cells are skipped; fallback is returned when nothing matches.
func Extract(row []string, index HeaderIndex, candidates []string, fallback string) string {
	for _, candidate := range candidates {
		col, ok := index[NormalizeHeader(candidate)]
		if !ok {
			continue
		}
		if value := cellAt(row, col); value != "" {
			return value
		}
	}
	return fallback
}

func cellAt(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
