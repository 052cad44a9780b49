package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/timgluz/dva/sample"
	"github.com/timgluz/dva/storage"
)

// SampleImporter appends import rows to the workspace batch and persists the result.
type SampleImporter struct {
	repo   storage.Repository
	logger *slog.Logger
}

func NewSampleImporter(repo storage.Repository, logger *slog.Logger) *SampleImporter {
	return &SampleImporter{repo, logger}
}

// Run imports rows into ws. Accepted rows are saved even when others were
// rejected; the returned error then wraps sample.ErrPartialImportFailure.
// If saving fails the workspace is rolled back to its previous content.
func (t *SampleImporter) Run(ctx context.Context, ws *storage.Workspace, rows []sample.ImportRow) (sample.ImportReport, error) {
	if !t.repo.IsReady() {
		return sample.ImportReport{}, storage.ErrRepositoryNotReady
	}

	previous := ws.Snapshot()
	t.logger.Info("Importing samples", "rows", len(rows))

	report, importErr := ws.Samples.Import(rows)
	if importErr != nil && !errors.Is(importErr, sample.ErrPartialImportFailure) {
		t.logger.Error("Failed to import samples", "runID", report.RunID, "error", importErr)
		return report, importErr
	}

	for _, failure := range report.Failures {
		t.logger.Warn("Rejected import row", "runID", report.RunID, "row", failure.Row, "sampleID", failure.SampleID, "reason", failure.Reason)
	}

	if len(report.Imported) == 0 {
		t.logger.Info("No samples imported, nothing to save", "runID", report.RunID)
		return report, importErr
	}

	if err := ws.Save(ctx, t.repo); err != nil {
		t.logger.Error("Failed to save imported samples", "runID", report.RunID, "error", err)
		if rollbackErr := ws.Apply(previous); rollbackErr != nil {
			t.logger.Error("Failed to roll back workspace", "runID", report.RunID, "error", rollbackErr)
		}
		return report, fmt.Errorf("save imported samples: %w", err)
	}

	t.logger.Info("Samples imported", "runID", report.RunID, "imported", len(report.Imported), "rejected", len(report.Failures))
	return report, importErr
}
