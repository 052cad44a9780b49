package postgres

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timgluz/dva/measurement"
	"github.com/timgluz/dva/project"
	"github.com/timgluz/dva/storage"
)

func TestRepositoryRoundTrip(t *testing.T) {
	dsn := os.Getenv("DVA_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("DVA_TEST_POSTGRES_DSN not set")
	}

	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo, err := NewRepository(ctx, dsn, logger)
	require.NoError(t, err)
	defer repo.Close()

	_, err = repo.db.ExecContext(ctx, `DELETE FROM dva_state`)
	require.NoError(t, err)

	_, err = repo.Load(ctx)
	assert.ErrorIs(t, err, storage.ErrSnapshotNotFound)

	ws := storage.NewWorkspace()
	_, err = ws.Projects.Create(project.Draft{
		Name:                 "Tin",
		PrimaryMeasurement:   measurement.Measurement{Value: 123.456, Unit: measurement.Gram},
		SecondaryMeasurement: measurement.Measurement{Value: 0.0075, Unit: measurement.CubicFoot},
	})
	require.NoError(t, err)
	_, err = ws.Samples.Add("P-1", measurement.Measurement{Value: 3, Unit: measurement.Pound})
	require.NoError(t, err)

	require.NoError(t, ws.Save(ctx, repo))

	loaded := storage.NewWorkspace()
	require.NoError(t, loaded.Load(ctx, repo))
	assert.Equal(t, ws.Projects.List(), loaded.Projects.List())
	assert.Equal(t, ws.Samples.List(), loaded.Samples.List())
	assert.Equal(t, ws.Projects.NextID(), loaded.Projects.NextID())
}

func TestNewRepositoryUnreachable(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRepository(ctx, "postgres://127.0.0.1:1/none?sslmode=disable&connect_timeout=1", logger)
	assert.Error(t, err)
}
