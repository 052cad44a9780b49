package measurement

import (
	"fmt"
	"strings"

	"github.com/gosimple/slug"
)

// Unit is the closed set of mass and volume units a measurement can be taken in.
type Unit string

const (
	Gram     Unit = "gram"
	Ounce    Unit = "ounce"
	Pound    Unit = "pound"
	Kilogram Unit = "kilogram"

	CubicMillimeter Unit = "cubic_millimeter"
	CubicCentimeter Unit = "cubic_centimeter"
	CubicInch       Unit = "cubic_inch"
	CubicFoot       Unit = "cubic_foot"
)

var ErrInvalidUnit = fmt.Errorf("invalid unit")

// mass factors encode the water density equivalence 1 g = 1 mL = 1000 mm³
var massToVolumeFactor = map[Unit]float64{
	Gram:     1000,
	Ounce:    28316.85,
	Pound:    453592.37,
	Kilogram: 1000000,
}

var volumeToMm3Factor = map[Unit]float64{
	CubicMillimeter: 1,
	CubicCentimeter: 1000,
	CubicInch:       16387.064,
	CubicFoot:       28316846.592,
}

var (
	massUnits   = []Unit{Gram, Ounce, Pound, Kilogram}
	volumeUnits = []Unit{CubicMillimeter, CubicCentimeter, CubicInch, CubicFoot}
)

var unitSymbols = map[Unit]string{
	Gram:            "g",
	Ounce:           "oz",
	Pound:           "lb",
	Kilogram:        "kg",
	CubicMillimeter: "mm³",
	CubicCentimeter: "cm³",
	CubicInch:       "in³",
	CubicFoot:       "ft³",
}

// unitAliases is keyed by the slugged spelling, see normalizeUnitTag.
var unitAliases = map[string]Unit{
	"gram": Gram, "grams": Gram, "g": Gram, "gr": Gram,
	"ounce": Ounce, "ounces": Ounce, "oz": Ounce,
	"pound": Pound, "pounds": Pound, "lb": Pound, "lbs": Pound,
	"kilogram": Kilogram, "kilograms": Kilogram, "kg": Kilogram,

	"cubic-millimeter": CubicMillimeter, "cubic-millimeters": CubicMillimeter, "cubic-mm": CubicMillimeter, "mm3": CubicMillimeter,
	"cubic-centimeter": CubicCentimeter, "cubic-centimeters": CubicCentimeter, "cubic-cm": CubicCentimeter, "cm3": CubicCentimeter, "cc": CubicCentimeter, "ml": CubicCentimeter,
	"cubic-inch": CubicInch, "cubic-inches": CubicInch, "cubic-in": CubicInch, "in3": CubicInch,
	"cubic-foot": CubicFoot, "cubic-feet": CubicFoot, "cubic-ft": CubicFoot, "ft3": CubicFoot,
}

// Units returns every supported unit, mass units first.
func Units() []Unit {
	units := make([]Unit, 0, len(massUnits)+len(volumeUnits))
	units = append(units, massUnits...)
	return append(units, volumeUnits...)
}

func MassUnits() []Unit {
	return append([]Unit(nil), massUnits...)
}

func VolumeUnits() []Unit {
	return append([]Unit(nil), volumeUnits...)
}

// ParseUnit maps a caller supplied tag onto the closed Unit type.
// Canonical tags and common spellings ("grams", "cubic cm", "in3") are accepted.
func ParseUnit(tag string) (Unit, error) {
	key := normalizeUnitTag(tag)
	if key == "" {
		return "", fmt.Errorf("%w: empty unit", ErrInvalidUnit)
	}

	unit, ok := unitAliases[key]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidUnit, tag)
	}

	return unit, nil
}

func normalizeUnitTag(tag string) string {
	return strings.ReplaceAll(slug.Make(tag), "_", "-")
}

func (u Unit) IsValid() bool {
	return u.IsMass() || u.IsVolume()
}

func (u Unit) IsMass() bool {
	_, ok := massToVolumeFactor[u]
	return ok
}

func (u Unit) IsVolume() bool {
	_, ok := volumeToMm3Factor[u]
	return ok
}

// Symbol returns the short display symbol, e.g. "cm³".
func (u Unit) Symbol() string {
	if symbol, ok := unitSymbols[u]; ok {
		return symbol
	}
	return string(u)
}

func (u Unit) String() string {
	return string(u)
}

// Factor returns the multiplier from one u to cubic millimeters.
func (u Unit) Factor() (float64, error) {
	if factor, ok := massToVolumeFactor[u]; ok {
		return factor, nil
	}
	if factor, ok := volumeToMm3Factor[u]; ok {
		return factor, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidUnit, string(u))
}

// UnmarshalText validates the unit at decode boundaries (JSON, msgpack, query params).
func (u *Unit) UnmarshalText(text []byte) error {
	parsed, err := ParseUnit(string(text))
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}

func (u Unit) MarshalText() ([]byte, error) {
	if !u.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidUnit, string(u))
	}
	return []byte(u), nil
}
