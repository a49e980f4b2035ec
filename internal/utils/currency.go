package utils

import "math"

// Gateway wire format is the smallest currency unit (paise); the
// application works in whole-rupee-and-decimal amounts.

func ToMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func ToMajorUnits(minor int64) float64 {
	return float64(minor) / 100
}

// RoundRupees rounds an amount to whole rupees; server-side prices are
// persisted rounded.
func RoundRupees(amount float64) float64 {
	return math.Round(amount)
}

func RoundCurrency(amount float64) float64 {
	return math.Round(amount*100) / 100
}
