package task

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/timgluz/dva/sample"
)

var ErrMissingColumns = errors.New("csv header must contain Sample ID, Weight and Unit columns")

// ReadCSVRows reads import rows from CSV with a "Sample ID, Weight, Unit"
// header. Column order is free and header names are matched case-insensitively.
func ReadCSVRows(r io.Reader) ([]sample.ImportRow, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrMissingColumns
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	columns := map[string]int{}
	for i, name := range header {
		columns[normalizeColumn(name)] = i
	}

	idCol, okID := columns["sample id"]
	weightCol, okWeight := columns["weight"]
	unitCol, okUnit := columns["unit"]
	if !okID || !okWeight || !okUnit {
		return nil, fmt.Errorf("%w, got %q", ErrMissingColumns, header)
	}

	var rows []sample.ImportRow
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}

		rows = append(rows, sample.ImportRow{
			SampleID: field(record, idCol),
			Value:    sample.RowValue(field(record, weightCol)),
			Unit:     field(record, unitCol),
		})
	}

	return rows, nil
}

func normalizeColumn(name string) string {
	name = strings.TrimPrefix(name, "\ufeff")
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// short rows yield empty cells, which fail row validation
func field(record []string, i int) string {
	if i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}
