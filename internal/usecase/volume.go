package usecase

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Canonical volume units
const (
	UnitMilliliter = "ml"
	UnitCentiliter = "cl"
	UnitLiter      = "l"
	UnitOunce      = "oz"
)

const (
	mlPerOunce = 29.5735

	// volumeToleranceML absorbs rounding in listings such as 1.75l vs 1750ml
	volumeToleranceML = 10.0
)

// volumePattern matches a number followed by an optional unit once whitespace
// has been removed, e.g. "750ml", "0.75l", "1.5", "25.4floz"
var volumePattern = regexp.MustCompile(`^(\d+(?:\.\d+)?)([a-z]*)$`)

// unitAliases folds accepted unit spellings to the canonical unit
var unitAliases = map[string]string{
	"":            UnitMilliliter,
	"ml":          UnitMilliliter,
	"milliliter":  UnitMilliliter,
	"milliliters": UnitMilliliter,
	"millilitre":  UnitMilliliter,
	"millilitres": UnitMilliliter,
	"cl":          UnitCentiliter,
	"l":           UnitLiter,
	"ltr":         UnitLiter,
	"liter":       UnitLiter,
	"liters":      UnitLiter,
	"litre":       UnitLiter,
	"litres":      UnitLiter,
	"oz":          UnitOunce,
	"floz":        UnitOunce,
}

// Volume is a parsed quantity with its canonical unit
type Volume struct {
	Value float64
	Unit  string
}

// Milliliters converts the volume to milliliters
func (v Volume) Milliliters() float64 {
	return ToMilliliters(v.Value, v.Unit)
}

// ParseVolume parses free-form volume text such as "750ml", "75 CL" or "1.75 L".
// A bare number is read as milliliters. The second return value is false when
// the text is empty or does not match.
func ParseVolume(text string) (Volume, bool) {
	compact := strings.Join(strings.Fields(strings.ToLower(text)), "")
	if compact == "" {
		return Volume{}, false
	}

	matches := volumePattern.FindStringSubmatch(compact)
	if matches == nil {
		return Volume{}, false
	}

	unit, ok := unitAliases[matches[2]]
	if !ok {
		return Volume{}, false
	}

	value, err := strconv.ParseFloat(matches[1], 64)
	if err != nil {
		return Volume{}, false
	}

	return Volume{Value: value, Unit: unit}, true
}

// ToMilliliters converts value in unit to milliliters; unknown units yield 0
func ToMilliliters(value float64, unit string) float64 {
	switch strings.ToLower(unit) {
	case UnitMilliliter:
		return value
	case UnitCentiliter:
		return value * 10
	case UnitLiter:
		return value * 1000
	case UnitOunce:
		return value * mlPerOunce
	default:
		return 0
	}
}

// VolumesEqual reports whether two volume strings describe the same bottle size
func VolumesEqual(a, b string) bool {
	va, ok := ParseVolume(a)
	if !ok {
		return false
	}
	vb, ok := ParseVolume(b)
	if !ok {
		return false
	}

	mlA := va.Milliliters()
	mlB := vb.Milliliters()
	if mlA <= 0 || mlB <= 0 {
		return false
	}

	return math.Abs(mlA-mlB) < volumeToleranceML
}
