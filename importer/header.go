package importer

import "sheetcrm/internal/textnorm"

// HeaderIndex maps a normalized header to its column position.
type HeaderIndex map[string]int

// NormalizeHeader folds accents and case and drops everything outside
// [a-z0-9], so "Código", "codigo" and "CODIGO!!" resolve to the same key.
func NormalizeHeader(input string) string {
	return textnorm.Key(input)
}

// BuildHeaderIndex records the column of every non-blank header. The first
// occurrence of a duplicated header wins.
func BuildHeaderIndex(headers []string) HeaderIndex {
	index := make(HeaderIndex, len(headers))
	for col, header := range headers {
		key := NormalizeHeader(header)
		if key == "" {
			continue
		}
		if _, exists := index[key]; exists {
			continue
		}
		index[key] = col
	}
	return index
}
