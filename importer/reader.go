package importer

import "fmt"

// Reader loads a local tabular file as a raw cell matrix, header row
// included, in the same shape a spreadsheet range read returns.
type Reader interface {
	Read(path string) ([][]string, error)
}

func ReaderForFormat(format string) (Reader, error) {
	switch NormalizeHeader(format) {
	case "csv":
		return &CSVReader{}, nil
	case "excel", "xlsx", "xlsm":
		return &ExcelReader{}, nil
	default:
		return nil, fmt.Errorf("unsupported input format: %s", format)
	}
}
