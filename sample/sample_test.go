package sample

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timgluz/dva/measurement"
)

func grams(v float64) measurement.Measurement {
	return measurement.Measurement{Value: v, Unit: measurement.Gram}
}

func TestAdd(t *testing.T) {
	tests := []struct {
		name     string
		sampleID string
		weight   measurement.Measurement
		wantErr  error
	}{
		{"valid", "S1", grams(10), nil},
		{"trims id", "  S2 ", grams(1), nil},
		{"empty id", "  ", grams(10), ErrMissingSampleID},
		{"zero weight", "S3", grams(0), measurement.ErrInvalidValue},
		{"unknown unit", "S4", measurement.Measurement{Value: 1, Unit: "stone"}, measurement.ErrInvalidUnit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			batch := &Batch{}
			s, err := batch.Add(tt.sampleID, tt.weight)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, 0, batch.Len())
				return
			}

			require.NoError(t, err)
			assert.NotContains(t, s.SampleID, " ")
			assert.Equal(t, 1, batch.Len())
		})
	}
}

func TestRemove(t *testing.T) {
	batch, err := NewBatch(DefaultSamples()...)
	require.NoError(t, err)

	removed, err := batch.Remove(1)
	require.NoError(t, err)
	assert.Equal(t, "Sample-002", removed.SampleID)
	assert.Equal(t, 4, batch.Len())

	first, err := batch.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "Sample-003", first.SampleID, "order of the remaining samples is kept")

	for _, index := range []int{-1, 4, 100} {
		_, err := batch.Remove(index)
		assert.ErrorIs(t, err, ErrOutOfRange, "index %d", index)
	}
	assert.Equal(t, 4, batch.Len())
}

func TestImportPartialFailure(t *testing.T) {
	batch := &Batch{}
	rows := []ImportRow{
		{SampleID: "S1", Value: "10", Unit: "gram"},
		{SampleID: "S2", Value: "bad", Unit: "ounce"},
	}

	report, err := batch.Import(rows)
	assert.ErrorIs(t, err, ErrPartialImportFailure)

	_, parseErr := uuid.Parse(report.RunID)
	assert.NoError(t, parseErr)

	assert.Equal(t, 2, report.Total)
	require.Len(t, report.Imported, 1)
	assert.Equal(t, "S1", report.Imported[0].SampleID)

	require.Len(t, report.Failures, 1)
	assert.Equal(t, 1, report.Failures[0].Row)
	assert.Equal(t, "S2", report.Failures[0].SampleID)
	assert.ErrorIs(t, report.Failures[0].Err, measurement.ErrInvalidValue)

	assert.Equal(t, []Sample{{SampleID: "S1", WeightMeasurement: grams(10)}}, batch.List())
}

func TestImportRowValidation(t *testing.T) {
	tests := []struct {
		name    string
		row     ImportRow
		wantErr error
	}{
		{"alias unit", ImportRow{SampleID: "A", Value: "2.5", Unit: "Pounds"}, nil},
		{"padded value", ImportRow{SampleID: "A", Value: " 3 ", Unit: "kg"}, nil},
		{"unknown unit", ImportRow{SampleID: "A", Value: "1", Unit: "bushel"}, measurement.ErrInvalidUnit},
		{"negative", ImportRow{SampleID: "A", Value: "-1", Unit: "gram"}, measurement.ErrInvalidValue},
		{"missing id", ImportRow{Value: "1", Unit: "gram"}, ErrMissingSampleID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.row.Sample()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestImportAllValid(t *testing.T) {
	batch := &Batch{}
	report, err := batch.Import([]ImportRow{
		NewImportRow("A", 1, "g"),
		NewImportRow("B", 0.5, "oz"),
	})
	require.NoError(t, err)
	assert.False(t, report.Failed())
	assert.Equal(t, 2, batch.Len())
}

func TestImportRowJSON(t *testing.T) {
	var rows []ImportRow
	data := `[{"sampleId":"A","value":12.5,"unit":"gram"},{"sampleId":"B","value":"7","unit":"ounce"}]`
	require.NoError(t, json.Unmarshal([]byte(data), &rows))

	require.Len(t, rows, 2)
	assert.Equal(t, RowValue("12.5"), rows[0].Value)
	assert.Equal(t, RowValue("7"), rows[1].Value)

	var row ImportRow
	assert.Error(t, json.Unmarshal([]byte(`{"value":{"x":1}}`), &row))
}

func TestConvertedVolumes(t *testing.T) {
	batch := &Batch{}
	_, err := batch.Add("S1", grams(10))
	require.NoError(t, err)
	_, err = batch.Add("S2", measurement.Measurement{Value: 1, Unit: measurement.Kilogram})
	require.NoError(t, err)

	var first []ConvertedVolume
	for cv := range batch.ConvertedVolumes() {
		first = append(first, cv)
	}
	require.Len(t, first, 2)
	assert.Equal(t, "S1", first[0].SampleID)
	assert.Equal(t, 10000.0, first[0].Volumes.CubicMillimeters)
	assert.Equal(t, 10.0, first[0].Volumes.CubicCentimeters)
	assert.Equal(t, 1, first[1].Index)
	assert.Equal(t, 1000.0, first[1].Volumes.CubicCentimeters)

	// a second iteration sees the current content
	_, err = batch.Remove(0)
	require.NoError(t, err)
	count := 0
	for cv := range batch.ConvertedVolumes() {
		assert.Equal(t, "S2", cv.SampleID)
		count++
	}
	assert.Equal(t, 1, count)

	// early break stops the sequence
	_, err = batch.Add("S3", grams(1))
	require.NoError(t, err)
	seen := 0
	for range batch.ConvertedVolumes() {
		seen++
		break
	}
	assert.Equal(t, 1, seen)
}

func TestDuplicates(t *testing.T) {
	batch := &Batch{}
	for _, id := range []string{"A", "B", "A", "C", "A", "B"} {
		_, err := batch.Add(id, grams(1))
		require.NoError(t, err)
	}

	assert.Equal(t, map[string][]int{"A": {0, 2, 4}, "B": {1, 5}}, batch.Duplicates())
}

func TestRestoreIsAllOrNothing(t *testing.T) {
	batch, err := NewBatch(DefaultSamples()...)
	require.NoError(t, err)

	err = batch.Restore([]Sample{
		{SampleID: "ok", WeightMeasurement: grams(1)},
		{SampleID: "broken", WeightMeasurement: grams(-2)},
	})
	assert.ErrorIs(t, err, measurement.ErrInvalidValue)
	assert.Equal(t, DefaultSamples(), batch.List())

	_, err = NewBatch(Sample{WeightMeasurement: grams(1)})
	assert.ErrorIs(t, err, ErrMissingSampleID)
}
