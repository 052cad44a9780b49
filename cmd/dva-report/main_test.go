package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timgluz/dva/measurement"
	"github.com/timgluz/dva/project"
	"github.com/timgluz/dva/sample"
)

func TestParseIDs(t *testing.T) {
	ids, err := parseIDs(" 1, 2,3 ")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, ids)

	ids, err = parseIDs("")
	require.NoError(t, err)
	assert.Nil(t, ids)

	_, err = parseIDs("1,two")
	assert.Error(t, err)
}

func TestWriteTables(t *testing.T) {
	store := project.NewStore()
	_, err := store.Create(project.Draft{
		Name:                 "Gift box",
		PrimaryMeasurement:   measurement.Measurement{Value: 500, Unit: measurement.Gram},
		SecondaryMeasurement: measurement.Measurement{Value: 1000, Unit: measurement.CubicCentimeter},
	})
	require.NoError(t, err)
	rows, err := store.Compare(measurement.CubicCentimeter)
	require.NoError(t, err)

	batch, err := sample.NewBatch(sample.DefaultSamples()...)
	require.NoError(t, err)
	_, err = batch.Add("Sample-001", measurement.Measurement{Value: 1, Unit: measurement.Gram})
	require.NoError(t, err)

	r := report{Unit: measurement.CubicCentimeter, Projects: rows, Dups: batch.Duplicates()}
	for cv := range batch.ConvertedVolumes() {
		r.Samples = append(r.Samples, cv)
	}

	var out bytes.Buffer
	require.NoError(t, writeTables(&out, r))

	text := out.String()
	assert.Contains(t, text, "Gift box")
	assert.Contains(t, text, "50.0%")
	assert.Contains(t, text, "Moderate")
	assert.Contains(t, text, "Sample-001 (duplicate)")
	assert.Contains(t, text, "150 g")
}
