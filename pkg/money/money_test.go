package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestRound2(t *testing.T) {
	assert.True(t, dec("10.13").Equal(Round2(dec("10.125"))))
	assert.True(t, dec("10.12").Equal(Round2(dec("10.124"))))
	assert.True(t, dec("-10.13").Equal(Round2(dec("-10.125"))))
}

func TestEqualWithinEpsilon(t *testing.T) {
	assert.True(t, Equal(dec("100.00"), dec("100.01")))
	assert.True(t, Equal(dec("100.01"), dec("100.00")))
	assert.False(t, Equal(dec("100.00"), dec("100.02")))
}

func TestLessThan(t *testing.T) {
	// Below allowed by exactly one cent is still tolerated.
	assert.False(t, LessThan(dec("89.99"), dec("90.00")))
	assert.True(t, LessThan(dec("85.00"), dec("90.00")))
}

func TestClamp(t *testing.T) {
	assert.True(t, dec("0").Equal(Clamp(dec("-5"), Zero, dec("300"))))
	assert.True(t, dec("300").Equal(Clamp(dec("450"), Zero, dec("300"))))
	assert.True(t, dec("250").Equal(Clamp(dec("250"), Zero, dec("300"))))
}

func TestPercent(t *testing.T) {
	assert.True(t, dec("10.00").Equal(Percent(dec("100.00"), dec("10"))))
	assert.True(t, dec("33.33").Equal(Percent(dec("99.99"), dec("33.33"))))
}

func TestNonNegative(t *testing.T) {
	assert.True(t, Zero.Equal(NonNegative(dec("-1.50"))))
	assert.True(t, dec("1.50").Equal(NonNegative(dec("1.50"))))
}
