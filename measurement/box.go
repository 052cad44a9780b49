package measurement

import (
	"fmt"
	"math"
)

// LengthUnit is used for packaging dimensions.
type LengthUnit string

const (
	Millimeter LengthUnit = "millimeter"
	Centimeter LengthUnit = "centimeter"
	Inch       LengthUnit = "inch"
	Foot       LengthUnit = "foot"
)

var lengthToMmFactor = map[LengthUnit]float64{
	Millimeter: 1,
	Centimeter: 10,
	Inch:       25.4,
	Foot:       304.8,
}

var lengthAliases = map[string]LengthUnit{
	"millimeter": Millimeter, "millimeters": Millimeter, "mm": Millimeter,
	"centimeter": Centimeter, "centimeters": Centimeter, "cm": Centimeter,
	"inch": Inch, "inches": Inch, "in": Inch,
	"foot": Foot, "feet": Foot, "ft": Foot,
}

func ParseLengthUnit(tag string) (LengthUnit, error) {
	unit, ok := lengthAliases[normalizeUnitTag(tag)]
	if !ok {
		return "", fmt.Errorf("%w: %q is not a length unit", ErrInvalidUnit, tag)
	}
	return unit, nil
}

func (u LengthUnit) IsValid() bool {
	_, ok := lengthToMmFactor[u]
	return ok
}

func (u *LengthUnit) UnmarshalText(text []byte) error {
	parsed, err := ParseLengthUnit(string(text))
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}

func (u LengthUnit) MarshalText() ([]byte, error) {
	if !u.IsValid() {
		return nil, fmt.Errorf("%w: %q is not a length unit", ErrInvalidUnit, string(u))
	}
	return []byte(u), nil
}

// Box describes secondary packaging by its outer dimensions.
type Box struct {
	Length float64    `json:"length"`
	Width  float64    `json:"width"`
	Height float64    `json:"height"`
	Unit   LengthUnit `json:"unit"`
}

func (b Box) Validate() error {
	factor, ok := lengthToMmFactor[b.Unit]
	if !ok || factor <= 0 {
		return fmt.Errorf("%w: %q is not a length unit", ErrInvalidUnit, string(b.Unit))
	}

	for name, side := range map[string]float64{"length": b.Length, "width": b.Width, "height": b.Height} {
		if math.IsNaN(side) || math.IsInf(side, 0) || side <= 0 {
			return fmt.Errorf("%w: box %s %v must be a positive number", ErrInvalidValue, name, side)
		}
	}

	return nil
}

// Volume returns the box volume in cubic millimeters.
func (b Box) Volume() (float64, error) {
	if err := b.Validate(); err != nil {
		return 0, err
	}

	factor := lengthToMmFactor[b.Unit]
	volume := (b.Length * factor) * (b.Width * factor) * (b.Height * factor)
	if !isPositiveFinite(volume) {
		return 0, fmt.Errorf("%w: box volume %v is out of range", ErrInvalidValue, volume)
	}
	return volume, nil
}

// Measurement expresses the box as a volume measurement in cubic millimeters.
func (b Box) Measurement() (Measurement, error) {
	volume, err := b.Volume()
	if err != nil {
		return Measurement{}, err
	}
	return New(volume, CubicMillimeter)
}
