package common

import "github.com/shopspring/decimal"

// RoundMoney rounds to the smallest currency unit (two decimal places,
// half up). Every ledger operation rounds exactly once; downstream math
// works with the already-rounded value.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// PercentOf returns amount * percent / 100, rounded to the currency unit.
func PercentOf(amount decimal.Decimal, percent float64) decimal.Decimal {
	return RoundMoney(amount.Mul(decimal.NewFromFloat(percent)).Div(decimal.NewFromInt(100)))
}

// MulFactor returns amount * factor, rounded to the currency unit.
func MulFactor(amount decimal.Decimal, factor float64) decimal.Decimal {
	return RoundMoney(amount.Mul(decimal.NewFromFloat(factor)))
}
