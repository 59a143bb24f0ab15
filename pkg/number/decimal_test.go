package number

import (
	"testing"

	"github.com/bmizerany/assert"
	"github.com/shopspring/decimal"
)

func TestParseUnits(t *testing.T) {
	data := map[string]string{
		"1000000":       "1",
		"1500000":       "1.5",
		"1":             "0.000001",
		"1000000000000": "1000000",
	}

	for k, v := range data {
		t.Run(k, func(t *testing.T) {
			got := ParseUnits(Decimal(k), 6)
			assert.Equal(t, v, got.String(), "should scale by 10^-6")
		})
	}
}

func TestWindowedAverage(t *testing.T) {
	avg := decimal.Zero
	// fold in 1, 2, 3 -> running averages 1, 1.5, 2
	avg = WindowedAverage(avg, 0, Decimal("1"))
	assert.Equal(t, "1", avg.String())

	avg = WindowedAverage(avg, 1, Decimal("2"))
	assert.Equal(t, "1.5", avg.String())

	avg = WindowedAverage(avg, 2, Decimal("3"))
	assert.Equal(t, "2", avg.String())
}

func TestWindowedAverageConverges(t *testing.T) {
	// a constant observation leaves the average at that constant
	avg := Decimal("5")
	for n := int64(1); n < 100; n++ {
		avg = WindowedAverage(avg, n, Decimal("5"))
	}
	assert.Equal(t, true, avg.Equal(Decimal("5")))
}
