package number

import (
	"github.com/shopspring/decimal"
)

func Decimal(v string) decimal.Decimal {
	d, _ := decimal.NewFromString(v)
	return d
}

// Pow10 10^n as a decimal
func Pow10(n int32) decimal.Decimal {
	return decimal.New(1, n)
}

// ParseUnits scale a raw integer token amount down by the token's decimals
func ParseUnits(amount decimal.Decimal, decimals int32) decimal.Decimal {
	return amount.Shift(-decimals)
}

// WindowedAverage fold a new observation into a running average over n prior
// observations: (avg*n + v) / (n+1). Converges to the true value as n grows.
func WindowedAverage(avg decimal.Decimal, n int64, v decimal.Decimal) decimal.Decimal {
	count := decimal.NewFromInt(n)
	return avg.Mul(count).Add(v).Div(count.Add(decimal.New(1, 0)))
}
