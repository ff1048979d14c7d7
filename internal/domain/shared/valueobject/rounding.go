package valueobject

import "github.com/shopspring/decimal"

// RoundToNearestInteger rounds amount to the nearest whole unit and returns
// the rounded value together with the adjustment (rounded - amount).
// Ties round half away from zero: 10.5 -> 11, -10.5 -> -11.
// The adjustment always satisfies |delta| < 1.
func RoundToNearestInteger(amount decimal.Decimal) (rounded, delta decimal.Decimal) {
	rounded = amount.Round(0)
	return rounded, rounded.Sub(amount)
}

// RoundMoney rounds amount to MoneyPlaces, ties away from zero
func RoundMoney(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(MoneyPlaces)
}

// IsMoneyPrecise reports whether amount carries no more than MoneyPlaces decimals
func IsMoneyPrecise(amount decimal.Decimal) bool {
	return amount.Equal(amount.Round(MoneyPlaces))
}
