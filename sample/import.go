package sample

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/timgluz/dva/measurement"
)

// RowValue is the weight cell of an import row. JSON input may carry it as a
// number or as a string, CSV input always as a string.
type RowValue string

func (v *RowValue) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*v = RowValue(text)
		return nil
	}

	var number json.Number
	if err := json.Unmarshal(data, &number); err != nil {
		return fmt.Errorf("row value must be a string or number: %w", err)
	}
	*v = RowValue(number.String())
	return nil
}

type ImportRow struct {
	SampleID string   `json:"sampleId"`
	Value    RowValue `json:"value"`
	Unit     string   `json:"unit"`
}

func NewImportRow(sampleID string, value float64, unit string) ImportRow {
	return ImportRow{
		SampleID: sampleID,
		Value:    RowValue(strconv.FormatFloat(value, 'f', -1, 64)),
		Unit:     unit,
	}
}

// Sample validates the row and turns it into a sample.
func (r ImportRow) Sample() (Sample, error) {
	id := strings.TrimSpace(r.SampleID)
	if id == "" {
		return Sample{}, ErrMissingSampleID
	}

	m, err := measurement.Parse(string(r.Value), r.Unit)
	if err != nil {
		return Sample{}, err
	}

	return Sample{SampleID: id, WeightMeasurement: m}, nil
}

// RowFailure describes one rejected row; Row is the zero based input position.
type RowFailure struct {
	Row      int    `json:"row"`
	SampleID string `json:"sampleId"`
	Reason   string `json:"reason"`
	Err      error  `json:"-"`
}

type ImportReport struct {
	RunID    string       `json:"runId"`
	Total    int          `json:"total"`
	Imported []Sample     `json:"imported"`
	Failures []RowFailure `json:"failures"`
}

func (r ImportReport) Failed() bool {
	return len(r.Failures) > 0
}

// Import appends every valid row and records the rejected ones. A bad row
// never aborts the batch: when any row fails the full report is returned
// together with an error wrapping ErrPartialImportFailure.
func (b *Batch) Import(rows []ImportRow) (ImportReport, error) {
	report := ImportReport{
		RunID:    uuid.NewString(),
		Total:    len(rows),
		Imported: make([]Sample, 0, len(rows)),
		Failures: []RowFailure{},
	}

	for i, row := range rows {
		s, err := row.Sample()
		if err != nil {
			report.Failures = append(report.Failures, RowFailure{
				Row:      i,
				SampleID: row.SampleID,
				Reason:   err.Error(),
				Err:      err,
			})
			continue
		}

		b.samples = append(b.samples, s)
		report.Imported = append(report.Imported, s)
	}

	if report.Failed() {
		return report, fmt.Errorf("%w: %d of %d rows rejected (run %s)",
			ErrPartialImportFailure, len(report.Failures), report.Total, report.RunID)
	}

	return report, nil
}
