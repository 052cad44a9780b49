// dva-import appends samples from a CSV file with the columns
// "Sample ID, Weight, Unit" to the configured workspace.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/timgluz/dva/config"
	"github.com/timgluz/dva/sample"
	"github.com/timgluz/dva/storage"
	"github.com/timgluz/dva/storage/backend"
	"github.com/timgluz/dva/task"
)

func main() {
	file := flag.String("file", "-", "CSV file to import, - reads stdin")
	flag.Parse()

	code, err := run(*file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dva-import: %v\n", err)
	}
	os.Exit(code)
}

func run(file string) (int, error) {
	cfg, err := config.Load()
	if err != nil {
		return 1, fmt.Errorf("load config: %w", err)
	}
	logger := cfg.Logger("dva-import")

	var input io.Reader = os.Stdin
	if file != "-" {
		f, err := os.Open(file)
		if err != nil {
			return 1, err
		}
		defer f.Close()
		input = f
	}

	rows, err := task.ReadCSVRows(input)
	if err != nil {
		return 1, err
	}

	ctx := context.Background()
	repo, err := backend.Open(ctx, cfg.Storage, logger)
	if err != nil {
		return 1, fmt.Errorf("open storage: %w", err)
	}
	defer repo.Close()

	workspace := storage.NewWorkspace()
	if err := workspace.Load(ctx, repo); err != nil && !errors.Is(err, storage.ErrSnapshotNotFound) {
		return 1, fmt.Errorf("load workspace: %w", err)
	}

	report, err := task.NewSampleImporter(repo, logger).Run(ctx, workspace, rows)
	if encodeErr := printReport(os.Stdout, report); encodeErr != nil {
		return 1, encodeErr
	}

	switch {
	case errors.Is(err, sample.ErrPartialImportFailure):
		// rejected rows are listed in the report
		return 2, nil
	case err != nil:
		return 1, err
	}
	return 0, nil
}

func printReport(w io.Writer, report sample.ImportReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
