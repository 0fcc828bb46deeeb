package domain

import (
	"errors"
	"math"
)

// centsPerDollar scales between the float API surface and the integer
// cents used for all internal arithmetic.
const centsPerDollar = 100

var errSubCentPrecision = errors.New("monetary values must have at most 2 decimal places")

// DollarsToCents converts a dollar amount to integer cents. Sub-cent
// precision is rejected rather than rounded away: a price the book can't
// represent exactly must not be silently altered.
func DollarsToCents(dollars float64) (int64, error) {
	cents := dollars * centsPerDollar
	rounded := math.Round(cents)
	// Tolerance absorbs float artifacts (0.29*100 = 28.999999999999996)
	// without letting genuine sub-cent digits through.
	if math.Abs(cents-rounded) > 1e-6 {
		return 0, errSubCentPrecision
	}
	return int64(rounded), nil
}

// CentsToDollars converts integer cents back to a dollar amount.
func CentsToDollars(cents int64) float64 {
	return float64(cents) / centsPerDollar
}
