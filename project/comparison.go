package project

import (
	"fmt"

	"github.com/timgluz/dva/efficiency"
	"github.com/timgluz/dva/measurement"
)

// ComparisonRow shows one project's volumes in a common unit.
type ComparisonRow struct {
	ID                int               `json:"id"`
	Slug              string            `json:"slug"`
	Name              string            `json:"name"`
	Unit              measurement.Unit  `json:"unit"`
	PrimaryVolume     float64           `json:"primaryVolume"`
	SecondaryVolume   float64           `json:"secondaryVolume"`
	RemainingVolume   float64           `json:"remainingVolume"`
	EfficiencyPercent float64           `json:"efficiencyPercent"`
	RemainingPercent  float64           `json:"remainingPercent"`
	Rating            efficiency.Rating `json:"rating"`
	Fit               efficiency.Fit    `json:"fit"`
}

// Compare builds comparison rows for the given ids, or for every record when
// no ids are given. Volumes are expressed in unit, which must be a volume unit.
func (s *Store) Compare(unit measurement.Unit, ids ...int) ([]ComparisonRow, error) {
	if !unit.IsVolume() {
		return nil, fmt.Errorf("%w: %q is not a volume unit", measurement.ErrInvalidUnit, string(unit))
	}

	var records []Record
	if len(ids) == 0 {
		records = s.List()
	} else {
		for _, id := range ids {
			record, err := s.Get(id)
			if err != nil {
				return nil, err
			}
			records = append(records, record)
		}
	}

	rows := make([]ComparisonRow, 0, len(records))
	for _, r := range records {
		row, err := newComparisonRow(r, unit)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func newComparisonRow(r Record, unit measurement.Unit) (ComparisonRow, error) {
	result := r.EfficiencyResult
	convert := func(mm3 float64) (float64, error) {
		return measurement.FromCanonicalVolume(mm3, unit)
	}

	primary, err := convert(result.PrimaryVolume)
	if err != nil {
		return ComparisonRow{}, err
	}
	secondary, err := convert(result.SecondaryVolume)
	if err != nil {
		return ComparisonRow{}, err
	}
	remaining, err := convert(result.RemainingVolume)
	if err != nil {
		return ComparisonRow{}, err
	}

	return ComparisonRow{
		ID:                r.ID,
		Slug:              r.Slug(),
		Name:              r.Name,
		Unit:              unit,
		PrimaryVolume:     primary,
		SecondaryVolume:   secondary,
		RemainingVolume:   remaining,
		EfficiencyPercent: result.EfficiencyPercent,
		RemainingPercent:  result.RemainingPercent(),
		Rating:            result.Rating,
		Fit:               result.Fit(),
	}, nil
}
