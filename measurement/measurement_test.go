package measurement

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func relativeError(got, want float64) float64 {
	if want == 0 {
		return math.Abs(got)
	}
	return math.Abs(got-want) / math.Abs(want)
}

func TestToCanonicalVolumeFactors(t *testing.T) {
	testCases := []struct {
		unit     Unit
		expected float64
	}{
		{Gram, 1000},
		{Ounce, 28316.85},
		{Pound, 453592.37},
		{Kilogram, 1000000},
		{CubicMillimeter, 1},
		{CubicCentimeter, 1000},
		{CubicInch, 16387.064},
		{CubicFoot, 28316846.592},
	}

	for _, tc := range testCases {
		t.Run(string(tc.unit), func(t *testing.T) {
			volume, err := ToCanonicalVolume(Measurement{Value: 1, Unit: tc.unit})
			require.NoError(t, err)
			assert.Equal(t, tc.expected, volume)
		})
	}
}

func TestToCanonicalVolumeRejectsInvalidInput(t *testing.T) {
	testCases := []struct {
		name     string
		m        Measurement
		expected error
	}{
		{"zero value", Measurement{Value: 0, Unit: Gram}, ErrInvalidValue},
		{"negative value", Measurement{Value: -3, Unit: CubicInch}, ErrInvalidValue},
		{"nan", Measurement{Value: math.NaN(), Unit: Gram}, ErrInvalidValue},
		{"infinite", Measurement{Value: math.Inf(1), Unit: Pound}, ErrInvalidValue},
		{"unknown unit", Measurement{Value: 10, Unit: Unit("stone")}, ErrInvalidUnit},
		{"empty unit", Measurement{Value: 10}, ErrInvalidUnit},
		{"volume overflows", Measurement{Value: 1e305, Unit: Kilogram}, ErrInvalidValue},
		{"largest float in cubic feet", Measurement{Value: math.MaxFloat64, Unit: CubicFoot}, ErrInvalidValue},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ToCanonicalVolume(tc.m)
			assert.ErrorIs(t, err, tc.expected)
		})
	}
}

func TestCanonicalRoundTrip(t *testing.T) {
	values := []float64{1e-6, 0.75, 1, 2.3, 5.5, 150, 12345.678, 9.87e9}

	for _, unit := range Units() {
		for _, value := range values {
			m := Measurement{Value: value, Unit: unit}
			volume, err := ToCanonicalVolume(m)
			require.NoError(t, err)
			assert.Greater(t, volume, 0.0)

			back, err := FromCanonicalVolume(volume, unit)
			require.NoError(t, err)
			assert.LessOrEqual(t, relativeError(back, value), 1e-9, "unit %s value %v", unit, value)
		}
	}
}

func TestCrossUnitRoundTrip(t *testing.T) {
	for _, from := range Units() {
		for _, to := range Units() {
			original := Measurement{Value: 42.125, Unit: from}

			converted, err := Convert(original, to)
			require.NoError(t, err)
			assert.Equal(t, to, converted.Unit)

			back, err := Convert(converted, from)
			require.NoError(t, err)
			assert.LessOrEqual(t, relativeError(back.Value, original.Value), 1e-9, "%s -> %s", from, to)
		}
	}
}

func TestConvertRejectsUnrepresentableResult(t *testing.T) {
	_, err := Convert(Measurement{Value: 5e-324, Unit: CubicMillimeter}, CubicFoot)
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestFromCanonicalVolumeRejectsUnknownUnit(t *testing.T) {
	_, err := FromCanonicalVolume(1000, Unit("barrel"))
	assert.ErrorIs(t, err, ErrInvalidUnit)
}

func TestParseUnit(t *testing.T) {
	testCases := []struct {
		input    string
		expected Unit
	}{
		{"gram", Gram},
		{"grams", Gram},
		{" Grams ", Gram},
		{"ounces", Ounce},
		{"OZ", Ounce},
		{"pounds", Pound},
		{"lbs", Pound},
		{"kilograms", Kilogram},
		{"kg", Kilogram},
		{"cubic_millimeter", CubicMillimeter},
		{"cubic mm", CubicMillimeter},
		{"mm3", CubicMillimeter},
		{"cubic_centimeter", CubicCentimeter},
		{"cubic cm", CubicCentimeter},
		{"cubic inches", CubicInch},
		{"cubic_foot", CubicFoot},
		{"cubic feet", CubicFoot},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			unit, err := ParseUnit(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, unit)
		})
	}

	for _, bad := range []string{"", "stone", "liters of milk", "cubic"} {
		_, err := ParseUnit(bad)
		assert.ErrorIs(t, err, ErrInvalidUnit, "input %q", bad)
	}
}

func TestParseMeasurement(t *testing.T) {
	m, err := Parse(" 10.5 ", "grams")
	require.NoError(t, err)
	assert.Equal(t, Measurement{Value: 10.5, Unit: Gram}, m)

	_, err = Parse("bad", "ounce")
	assert.ErrorIs(t, err, ErrInvalidValue)

	_, err = Parse("-1", "ounce")
	assert.ErrorIs(t, err, ErrInvalidValue)

	_, err = Parse("1", "furlong")
	assert.ErrorIs(t, err, ErrInvalidUnit)
}

func TestMeasurementJSONValidatesUnit(t *testing.T) {
	var m Measurement
	require.NoError(t, json.Unmarshal([]byte(`{"value": 2.5, "unit": "pounds"}`), &m))
	assert.Equal(t, Measurement{Value: 2.5, Unit: Pound}, m)

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"value": 2.5, "unit": "pound"}`, string(data))

	err = json.Unmarshal([]byte(`{"value": 2.5, "unit": "bushel"}`), &m)
	assert.ErrorIs(t, err, ErrInvalidUnit)
}

func TestVolumeSet(t *testing.T) {
	vs, err := VolumesOf(Measurement{Value: 500, Unit: Gram})
	require.NoError(t, err)

	assert.Equal(t, 500000.0, vs.CubicMillimeters)
	assert.Equal(t, 500.0, vs.CubicCentimeters)
	assert.InDelta(t, 30.5119, vs.CubicInches, 1e-4)
	assert.InDelta(t, 0.0176573, vs.CubicFeet, 1e-7)

	cm3, err := vs.In(CubicCentimeter)
	require.NoError(t, err)
	assert.Equal(t, 500.0, cm3)

	_, err = vs.In(Gram)
	assert.ErrorIs(t, err, ErrInvalidUnit)

	negative := NewVolumeSet(-1000)
	assert.Equal(t, -1.0, negative.CubicCentimeters)
}

func TestBoxVolume(t *testing.T) {
	box := Box{Length: 10, Width: 10, Height: 10, Unit: Centimeter}
	volume, err := box.Volume()
	require.NoError(t, err)
	assert.InDelta(t, 1000000.0, volume, 1e-6)

	m, err := box.Measurement()
	require.NoError(t, err)
	assert.Equal(t, CubicMillimeter, m.Unit)

	inches := Box{Length: 1, Width: 1, Height: 1, Unit: Inch}
	volume, err = inches.Volume()
	require.NoError(t, err)
	assert.InDelta(t, 16387.064, volume, 1e-6)

	_, err = Box{Length: 0, Width: 1, Height: 1, Unit: Centimeter}.Volume()
	assert.ErrorIs(t, err, ErrInvalidValue)

	_, err = Box{Length: 1e200, Width: 1e200, Height: 1, Unit: Foot}.Volume()
	assert.ErrorIs(t, err, ErrInvalidValue)

	_, err = Box{Length: 1e-200, Width: 1e-200, Height: 1, Unit: Millimeter}.Volume()
	assert.ErrorIs(t, err, ErrInvalidValue, "underflow to zero")

	_, err = Box{Length: 1, Width: 1, Height: 1, Unit: LengthUnit("yard")}.Volume()
	assert.ErrorIs(t, err, ErrInvalidUnit)

	unit, err := ParseLengthUnit("Inches")
	require.NoError(t, err)
	assert.Equal(t, Inch, unit)
}

func TestUnitListings(t *testing.T) {
	assert.Len(t, Units(), 8)
	for _, u := range MassUnits() {
		assert.True(t, u.IsMass())
		assert.False(t, u.IsVolume())
	}
	for _, u := range VolumeUnits() {
		assert.True(t, u.IsVolume())
	}
	assert.Equal(t, "cm³", CubicCentimeter.Symbol())
	assert.Equal(t, "500 g", Measurement{Value: 500, Unit: Gram}.String())
}
