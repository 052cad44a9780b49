// Package efficiency scores how much of a secondary package's volume is used
// by the primary product it holds.
package efficiency

import (
	"fmt"
	"math"

	"github.com/timgluz/dva/measurement"
)

var ErrNonPositiveSecondaryVolume = fmt.Errorf("secondary volume must be positive")

type Rating string

const (
	Excellent Rating = "Excellent"
	Good      Rating = "Good"
	Moderate  Rating = "Moderate"
	Low       Rating = "Low"
)

// RatingFor buckets an efficiency percentage. Values above 100 stay Excellent.
func RatingFor(efficiencyPercent float64) Rating {
	switch {
	case efficiencyPercent >= 80:
		return Excellent
	case efficiencyPercent >= 60:
		return Good
	case efficiencyPercent >= 40:
		return Moderate
	default:
		return Low
	}
}

type Fit string

const (
	GoodSpace Fit = "good_space"
	TightFit  Fit = "tight_fit"
	TooFull   Fit = "too_full"
	Overflow  Fit = "overflow"
)

// FitFor classifies the remaining space share of the secondary volume.
func FitFor(remainingPercent float64) Fit {
	switch {
	case remainingPercent < 0:
		return Overflow
	case remainingPercent >= 20:
		return GoodSpace
	case remainingPercent >= 5:
		return TightFit
	default:
		return TooFull
	}
}

// Result holds all volumes in cubic millimeters.
type Result struct {
	PrimaryVolume     float64 `json:"primaryVolume"`
	SecondaryVolume   float64 `json:"secondaryVolume"`
	RemainingVolume   float64 `json:"remainingVolume"`
	EfficiencyPercent float64 `json:"efficiencyPercent"`
	Rating            Rating  `json:"rating"`
}

// Compute converts both measurements to canonical volume and scores them.
func Compute(primary, secondary measurement.Measurement) (Result, error) {
	primaryVolume, err := measurement.ToCanonicalVolume(primary)
	if err != nil {
		return Result{}, fmt.Errorf("primary measurement: %w", err)
	}

	secondaryVolume, err := measurement.ToCanonicalVolume(secondary)
	if err != nil {
		return Result{}, fmt.Errorf("secondary measurement: %w", err)
	}

	return FromVolumes(primaryVolume, secondaryVolume)
}

// FromVolumes scores two canonical volumes. A primary larger than the
// secondary yields a negative remaining volume, it is not clamped.
func FromVolumes(primaryMm3, secondaryMm3 float64) (Result, error) {
	if math.IsNaN(secondaryMm3) || secondaryMm3 <= 0 {
		return Result{}, fmt.Errorf("%w: got %v", ErrNonPositiveSecondaryVolume, secondaryMm3)
	}

	if math.IsInf(secondaryMm3, 0) {
		return Result{}, fmt.Errorf("%w: secondary volume %v", measurement.ErrInvalidValue, secondaryMm3)
	}
	if math.IsNaN(primaryMm3) || math.IsInf(primaryMm3, 0) || primaryMm3 <= 0 {
		return Result{}, fmt.Errorf("%w: primary volume %v", measurement.ErrInvalidValue, primaryMm3)
	}

	efficiencyPercent := 100 * primaryMm3 / secondaryMm3
	if math.IsInf(efficiencyPercent, 0) {
		return Result{}, fmt.Errorf("%w: efficiency of %v mm³ in %v mm³ is out of range", measurement.ErrInvalidValue, primaryMm3, secondaryMm3)
	}
	return Result{
		PrimaryVolume:     primaryMm3,
		SecondaryVolume:   secondaryMm3,
		RemainingVolume:   secondaryMm3 - primaryMm3,
		EfficiencyPercent: efficiencyPercent,
		Rating:            RatingFor(efficiencyPercent),
	}, nil
}

// RemainingPercent is the free share of the secondary volume, negative on overflow.
func (r Result) RemainingPercent() float64 {
	if r.SecondaryVolume <= 0 {
		return 0
	}
	return 100 * r.RemainingVolume / r.SecondaryVolume
}

func (r Result) Fit() Fit {
	return FitFor(r.RemainingPercent())
}

func (r Result) Overflows() bool {
	return r.RemainingVolume < 0
}

// Matches reports whether other carries the same figures within a relative tolerance.
func (r Result) Matches(other Result, tolerance float64) bool {
	return r.Rating == other.Rating &&
		closeEnough(r.PrimaryVolume, other.PrimaryVolume, tolerance) &&
		closeEnough(r.SecondaryVolume, other.SecondaryVolume, tolerance) &&
		closeEnough(r.RemainingVolume, other.RemainingVolume, tolerance) &&
		closeEnough(r.EfficiencyPercent, other.EfficiencyPercent, tolerance)
}

// remaining volume can be near zero, so the scale is floored at 1 mm³
func closeEnough(a, b, tolerance float64) bool {
	scale := math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
	return math.Abs(a-b) <= tolerance*scale
}
