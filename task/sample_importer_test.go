package task

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timgluz/dva/measurement"
	"github.com/timgluz/dva/sample"
	"github.com/timgluz/dva/storage"
)

var errDiskFull = errors.New("disk full")

type failingRepository struct{}

func (failingRepository) Load(context.Context) (*storage.Snapshot, error) {
	return nil, storage.ErrSnapshotNotFound
}
func (failingRepository) Save(context.Context, *storage.Snapshot) error { return errDiskFull }
func (failingRepository) IsReady() bool                                 { return true }
func (failingRepository) Close() error                                  { return nil }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSampleImporterPersistsAcceptedRows(t *testing.T) {
	ctx := context.Background()
	repo, err := storage.NewFileRepository(filepath.Join(t.TempDir(), "dva.json"), storage.JSONCodec{}, testLogger())
	require.NoError(t, err)

	ws := storage.NewWorkspace()
	importer := NewSampleImporter(repo, testLogger())

	report, err := importer.Run(ctx, ws, []sample.ImportRow{
		{SampleID: "S1", Value: "10", Unit: "gram"},
		{SampleID: "S2", Value: "bad", Unit: "ounce"},
	})
	assert.ErrorIs(t, err, sample.ErrPartialImportFailure)
	assert.Len(t, report.Imported, 1)
	assert.Len(t, report.Failures, 1)

	loaded := storage.NewWorkspace()
	require.NoError(t, loaded.Load(ctx, repo))
	require.Equal(t, 1, loaded.Samples.Len())
	s, err := loaded.Samples.Get(0)
	require.NoError(t, err)
	assert.Equal(t, "S1", s.SampleID)
}

func TestSampleImporterRollsBackOnSaveFailure(t *testing.T) {
	ws := storage.NewWorkspace()
	_, err := ws.Samples.Add("existing", measurement.Measurement{Value: 1, Unit: measurement.Gram})
	require.NoError(t, err)

	importer := NewSampleImporter(failingRepository{}, testLogger())
	_, err = importer.Run(context.Background(), ws, []sample.ImportRow{
		sample.NewImportRow("new", 2, "kg"),
	})
	assert.ErrorIs(t, err, errDiskFull)

	require.Equal(t, 1, ws.Samples.Len())
	s, err := ws.Samples.Get(0)
	require.NoError(t, err)
	assert.Equal(t, "existing", s.SampleID)
}

func TestSampleImporterAllRejectedSkipsSave(t *testing.T) {
	importer := NewSampleImporter(failingRepository{}, testLogger())
	ws := storage.NewWorkspace()

	report, err := importer.Run(context.Background(), ws, []sample.ImportRow{
		{SampleID: "x", Value: "1", Unit: "furlong"},
	})
	assert.ErrorIs(t, err, sample.ErrPartialImportFailure)
	assert.NotErrorIs(t, err, errDiskFull)
	assert.Empty(t, report.Imported)
	assert.Equal(t, 0, ws.Samples.Len())
}

func TestReadCSVRows(t *testing.T) {
	input := "Unit, sample id ,WEIGHT\n" +
		"grams,Sample-001,150\n" +
		"oz, Sample-002, 5.5\n" +
		"pounds,Sample-003\n"

	rows, err := ReadCSVRows(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, sample.ImportRow{SampleID: "Sample-001", Value: "150", Unit: "grams"}, rows[0])
	assert.Equal(t, sample.ImportRow{SampleID: "Sample-002", Value: "5.5", Unit: "oz"}, rows[1])
	assert.Equal(t, sample.RowValue(""), rows[2].Value)

	batch := &sample.Batch{}
	report, err := batch.Import(rows)
	assert.ErrorIs(t, err, sample.ErrPartialImportFailure)
	assert.Len(t, report.Imported, 2)
	assert.Equal(t, 2, report.Failures[0].Row)
}

func TestReadCSVRowsHeader(t *testing.T) {
	_, err := ReadCSVRows(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrMissingColumns)

	_, err = ReadCSVRows(strings.NewReader("id,weight,unit\nA,1,g\n"))
	assert.ErrorIs(t, err, ErrMissingColumns)

	rows, err := ReadCSVRows(strings.NewReader("\ufeffSample ID,Weight,Unit\n"))
	require.NoError(t, err)
	assert.Empty(t, rows)
}
