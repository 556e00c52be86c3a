package importer

// FieldValue pairs a field with the cell text to write for it.
type FieldValue struct {
	Spec  FieldSpec
	Value string
}

// ColumnIn reports where spec lives in a tab: the first candidate present in
// index, or the fixed column when index is nil.
func (spec FieldSpec) ColumnIn(index HeaderIndex) (int, bool) {
	if index == nil {
		return spec.Column, spec.Column >= 0
	}
	for _, name := range spec.Names {
		if col, ok := index[NormalizeHeader(name)]; ok {
			return col, true
		}
	}
	return 0, false
}

// EncodeRow lays values out along a tab, starting from base (the existing
// row on update, nil on create). Fields the tab has no column for are
// dropped and returned by name so callers can report them.
func EncodeRow(index HeaderIndex, base []string, values []FieldValue) ([]string, []string) {
	row := append([]string(nil), base...)
	var dropped []string
	for _, value := range values {
		col, ok := value.Spec.ColumnIn(index)
		if !ok {
			if len(value.Spec.Names) > 0 {
				dropped = append(dropped, value.Spec.Names[0])
			}
			continue
		}
		for len(row) <= col {
			row = append(row, "")
		}
		row[col] = value.Value
	}
	return row, dropped
}

// NewRecord wraps a single row so it can be mapped outside of a full tab
// read. A nil index means positional resolution.
func NewRecord(index HeaderIndex, position int, cells []string) Record {
	return Record{Position: position, Cells: cells, index: index}
}
