package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToMinorUnits(t *testing.T) {
	assert.Equal(t, int64(250000), ToMinorUnits(2500))
	assert.Equal(t, int64(99950), ToMinorUnits(999.50))
	// Guard against float representation drift on fractional paise.
	assert.Equal(t, int64(1005), ToMinorUnits(10.05))
	assert.Equal(t, int64(0), ToMinorUnits(0))
}

func TestToMajorUnits(t *testing.T) {
	assert.Equal(t, 2500.0, ToMajorUnits(250000))
	assert.Equal(t, 999.5, ToMajorUnits(99950))
	assert.Equal(t, 0.01, ToMajorUnits(1))
}

func TestMinorMajorRoundTrip(t *testing.T) {
	for _, amount := range []float64{0, 1, 10.05, 999.99, 2500, 123456.78} {
		assert.Equal(t, amount, ToMajorUnits(ToMinorUnits(amount)))
	}
}

func TestRoundRupees(t *testing.T) {
	assert.Equal(t, 2750.0, RoundRupees(2750.4))
	assert.Equal(t, 2751.0, RoundRupees(2750.5))
	assert.Equal(t, 0.0, RoundRupees(0.2))
}

func TestRoundCurrency(t *testing.T) {
	assert.Equal(t, 10.05, RoundCurrency(10.054))
	assert.Equal(t, 10.06, RoundCurrency(10.055))
}
