// dva-report prints the project comparison and the sample volume table of
// the configured workspace.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/timgluz/dva/config"
	"github.com/timgluz/dva/measurement"
	"github.com/timgluz/dva/project"
	"github.com/timgluz/dva/sample"
	"github.com/timgluz/dva/storage"
	"github.com/timgluz/dva/storage/backend"
)

type report struct {
	Unit     measurement.Unit         `json:"unit"`
	Projects []project.ComparisonRow  `json:"projects"`
	Samples  []sample.ConvertedVolume `json:"samples"`
	Dups     map[string][]int         `json:"duplicateSampleIds,omitempty"`
}

func main() {
	unitFlag := flag.String("unit", string(measurement.CubicCentimeter), "volume unit for the project comparison")
	idsFlag := flag.String("ids", "", "comma separated project ids, all projects when empty")
	format := flag.String("format", "table", "output format: table or json")
	flag.Parse()

	if err := run(*unitFlag, *idsFlag, *format, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "dva-report: %v\n", err)
		os.Exit(1)
	}
}

func run(unitFlag, idsFlag, format string, out io.Writer) error {
	unit, err := measurement.ParseUnit(unitFlag)
	if err != nil {
		return err
	}

	ids, err := parseIDs(idsFlag)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := cfg.Logger("dva-report")

	ctx := context.Background()
	repo, err := backend.Open(ctx, cfg.Storage, logger)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer repo.Close()

	workspace := storage.NewWorkspace()
	if err := workspace.Load(ctx, repo); err != nil {
		return fmt.Errorf("load workspace: %w", err)
	}

	rows, err := workspace.Projects.Compare(unit, ids...)
	if err != nil {
		return err
	}

	r := report{Unit: unit, Projects: rows, Samples: []sample.ConvertedVolume{}, Dups: workspace.Samples.Duplicates()}
	for cv := range workspace.Samples.ConvertedVolumes() {
		r.Samples = append(r.Samples, cv)
	}

	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case "table":
		return writeTables(out, r)
	}
	return fmt.Errorf("unknown format %q", format)
}

func parseIDs(raw string) ([]int, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	var ids []int
	for _, part := range strings.Split(raw, ",") {
		id, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid project id %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func writeTables(out io.Writer, r report) error {
	symbol := r.Unit.Symbol()
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "ID\tPROJECT\tPRIMARY %s\tSECONDARY %s\tREMAINING %s\tEFFICIENCY\tRATING\tFIT\n", symbol, symbol, symbol)
	for _, row := range r.Projects {
		fmt.Fprintf(tw, "%d\t%s\t%.3f\t%.3f\t%.3f\t%.1f%%\t%s\t%s\n",
			row.ID, row.Name, row.PrimaryVolume, row.SecondaryVolume, row.RemainingVolume,
			row.EfficiencyPercent, row.Rating, row.Fit)
	}
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "#\tSAMPLE\tWEIGHT\tmm³\tcm³\tin³\tft³")
	for _, cv := range r.Samples {
		marker := ""
		if _, dup := r.Dups[cv.SampleID]; dup {
			marker = " (duplicate)"
		}
		fmt.Fprintf(tw, "%d\t%s%s\t%s\t%.2f\t%.3f\t%.4f\t%.6f\n",
			cv.Index, cv.SampleID, marker, cv.Measurement,
			cv.Volumes.CubicMillimeters, cv.Volumes.CubicCentimeters, cv.Volumes.CubicInches, cv.Volumes.CubicFeet)
	}

	return tw.Flush()
}
