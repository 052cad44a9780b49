package measurement

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

var ErrInvalidValue = fmt.Errorf("invalid measurement value")

// Measurement is a positive quantity in one of the supported units.
type Measurement struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

// New returns a validated measurement.
func New(value float64, unit Unit) (Measurement, error) {
	m := Measurement{Value: value, Unit: unit}
	if err := m.Validate(); err != nil {
		return Measurement{}, err
	}
	return m, nil
}

// Parse builds a measurement from loosely typed input, e.g. a CSV row.
func Parse(value, unit string) (Measurement, error) {
	u, err := ParseUnit(unit)
	if err != nil {
		return Measurement{}, err
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return Measurement{}, fmt.Errorf("%w: %q is not a number", ErrInvalidValue, value)
	}

	return New(v, u)
}

func (m Measurement) Validate() error {
	if !m.Unit.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidUnit, string(m.Unit))
	}

	if math.IsNaN(m.Value) || math.IsInf(m.Value, 0) || m.Value <= 0 {
		return fmt.Errorf("%w: %v must be a positive number", ErrInvalidValue, m.Value)
	}

	return nil
}

func (m Measurement) String() string {
	return strconv.FormatFloat(m.Value, 'f', -1, 64) + " " + m.Unit.Symbol()
}

// ToCanonicalVolume returns the displaced volume of m in cubic millimeters.
func ToCanonicalVolume(m Measurement) (float64, error) {
	if err := m.Validate(); err != nil {
		return 0, err
	}

	factor, err := m.Unit.Factor()
	if err != nil {
		return 0, err
	}

	volume := m.Value * factor
	if !isPositiveFinite(volume) {
		return 0, fmt.Errorf("%w: %s is out of range as a volume", ErrInvalidValue, m)
	}
	return volume, nil
}

func isPositiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}

// FromCanonicalVolume expresses a volume in cubic millimeters in the target unit.
// For mass units the result is the mass of water displacing that volume.
func FromCanonicalVolume(volumeMm3 float64, target Unit) (float64, error) {
	factor, err := target.Factor()
	if err != nil {
		return 0, err
	}

	return volumeMm3 / factor, nil
}

// Convert re-expresses m in the target unit through the canonical volume.
func Convert(m Measurement, target Unit) (Measurement, error) {
	volume, err := ToCanonicalVolume(m)
	if err != nil {
		return Measurement{}, err
	}

	value, err := FromCanonicalVolume(volume, target)
	if err != nil {
		return Measurement{}, err
	}

	converted := Measurement{Value: value, Unit: target}
	if err := converted.Validate(); err != nil {
		return Measurement{}, fmt.Errorf("convert %s: %w", m, err)
	}
	return converted, nil
}
