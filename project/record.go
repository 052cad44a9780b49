package project

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gosimple/slug"

	"github.com/timgluz/dva/efficiency"
	"github.com/timgluz/dva/measurement"
)

// Record is one stored packaging analysis.
type Record struct {
	ID                   int                     `json:"id"`
	Name                 string                  `json:"name"`
	Designer             string                  `json:"designer"`
	Description          string                  `json:"description"`
	Contact              string                  `json:"contact,omitempty"`
	CreatedAt            time.Time               `json:"createdAt"`
	UpdatedAt            time.Time               `json:"updatedAt"`
	PrimaryMeasurement   measurement.Measurement `json:"primaryMeasurement"`
	SecondaryMeasurement measurement.Measurement `json:"secondaryMeasurement"`
	SecondaryDimensions  *measurement.Box        `json:"secondaryDimensions,omitempty"`
	EfficiencyResult     efficiency.Result       `json:"efficiencyResult"`
}

// Slug is a readable, stable key for reports, e.g. "12-gift-box".
func (r Record) Slug() string {
	return slug.Make(strconv.Itoa(r.ID) + "-" + r.Name)
}

func (r Record) clone() Record {
	if r.SecondaryDimensions != nil {
		dims := *r.SecondaryDimensions
		r.SecondaryDimensions = &dims
	}
	return r
}

// Draft carries the caller supplied fields of a new record.
// When SecondaryDimensions is set the secondary measurement is derived from it.
type Draft struct {
	Name                 string                  `json:"name"`
	Designer             string                  `json:"designer"`
	Description          string                  `json:"description"`
	Contact              string                  `json:"contact,omitempty"`
	PrimaryMeasurement   measurement.Measurement `json:"primaryMeasurement"`
	SecondaryMeasurement measurement.Measurement `json:"secondaryMeasurement"`
	SecondaryDimensions  *measurement.Box        `json:"secondaryDimensions,omitempty"`
}

// Fields is a partial update; nil fields keep their current value.
type Fields struct {
	Name                 *string                  `json:"name,omitempty"`
	Designer             *string                  `json:"designer,omitempty"`
	Description          *string                  `json:"description,omitempty"`
	Contact              *string                  `json:"contact,omitempty"`
	PrimaryMeasurement   *measurement.Measurement `json:"primaryMeasurement,omitempty"`
	SecondaryMeasurement *measurement.Measurement `json:"secondaryMeasurement,omitempty"`
	SecondaryDimensions  *measurement.Box         `json:"secondaryDimensions,omitempty"`
}

func (f Fields) changesMeasurements() bool {
	return f.PrimaryMeasurement != nil || f.SecondaryMeasurement != nil || f.SecondaryDimensions != nil
}

// merge returns a new record with the fields applied, dashboard-style.
// An explicit secondary measurement drops previously stored dimensions.
func (f Fields) merge(r Record) Record {
	updated := r.clone()
	if f.Name != nil {
		updated.Name = *f.Name
	}
	if f.Designer != nil {
		updated.Designer = *f.Designer
	}
	if f.Description != nil {
		updated.Description = *f.Description
	}
	if f.Contact != nil {
		updated.Contact = *f.Contact
	}
	if f.PrimaryMeasurement != nil {
		updated.PrimaryMeasurement = *f.PrimaryMeasurement
	}
	if f.SecondaryMeasurement != nil {
		updated.SecondaryMeasurement = *f.SecondaryMeasurement
		updated.SecondaryDimensions = nil
	}
	if f.SecondaryDimensions != nil {
		dims := *f.SecondaryDimensions
		updated.SecondaryDimensions = &dims
	}
	return updated
}

// resolveSecondary derives the secondary measurement from the box dimensions, if any.
func resolveSecondary(secondary measurement.Measurement, dims *measurement.Box) (measurement.Measurement, error) {
	if dims == nil {
		return secondary, nil
	}

	m, err := dims.Measurement()
	if err != nil {
		return measurement.Measurement{}, fmt.Errorf("secondary dimensions: %w", err)
	}
	return m, nil
}

// derive fills the computed parts of r from its raw measurements.
func derive(r Record) (Record, error) {
	secondary, err := resolveSecondary(r.SecondaryMeasurement, r.SecondaryDimensions)
	if err != nil {
		return Record{}, err
	}
	r.SecondaryMeasurement = secondary

	result, err := efficiency.Compute(r.PrimaryMeasurement, r.SecondaryMeasurement)
	if err != nil {
		return Record{}, err
	}
	r.EfficiencyResult = result
	return r, nil
}
