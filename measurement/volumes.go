package measurement

import "fmt"

// VolumeSet is one volume expressed in every supported volume unit.
type VolumeSet struct {
	CubicMillimeters float64 `json:"cubic_millimeter"`
	CubicCentimeters float64 `json:"cubic_centimeter"`
	CubicInches      float64 `json:"cubic_inch"`
	CubicFeet        float64 `json:"cubic_foot"`
}

// NewVolumeSet expands a canonical volume. Negative volumes are allowed so
// remaining space overflows can be shown in any unit.
func NewVolumeSet(volumeMm3 float64) VolumeSet {
	return VolumeSet{
		CubicMillimeters: volumeMm3 / volumeToMm3Factor[CubicMillimeter],
		CubicCentimeters: volumeMm3 / volumeToMm3Factor[CubicCentimeter],
		CubicInches:      volumeMm3 / volumeToMm3Factor[CubicInch],
		CubicFeet:        volumeMm3 / volumeToMm3Factor[CubicFoot],
	}
}

// VolumesOf converts a measurement to all volume units.
func VolumesOf(m Measurement) (VolumeSet, error) {
	volume, err := ToCanonicalVolume(m)
	if err != nil {
		return VolumeSet{}, err
	}
	return NewVolumeSet(volume), nil
}

// In returns the value for a single volume unit.
func (vs VolumeSet) In(unit Unit) (float64, error) {
	switch unit {
	case CubicMillimeter:
		return vs.CubicMillimeters, nil
	case CubicCentimeter:
		return vs.CubicCentimeters, nil
	case CubicInch:
		return vs.CubicInches, nil
	case CubicFoot:
		return vs.CubicFeet, nil
	}
	return 0, fmt.Errorf("%w: %q is not a volume unit", ErrInvalidUnit, string(unit))
}
