package billing

import (
	"github.com/billmaster/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// PricedLine is the minimal shape the calculator needs from a line
type PricedLine struct {
	Quantity decimal.Decimal
	Rate     decimal.Decimal
}

// Subtotal returns quantity * rate rounded to money precision
func (l PricedLine) Subtotal() decimal.Decimal {
	return valueobject.RoundMoney(l.Quantity.Mul(l.Rate))
}

// Quote holds the computed totals for a set of lines
type Quote struct {
	Subtotal      decimal.Decimal
	AfterDiscount decimal.Decimal
	RoundingOff   decimal.Decimal
	GrandTotal    decimal.Decimal
}

// CalculateTotals prices lines. It is pure and performs no validation;
// callers enforce rate and discount preconditions before finalizing.
//
// With applyRounding the grand total is the after-discount amount rounded
// to the nearest integer and RoundingOff holds the adjustment; otherwise
// RoundingOff is zero. The subtotal is the exact sum of quantity * rate
// rounded once to money precision, so per-line rounding never accumulates.
func CalculateTotals(lines []PricedLine, discount decimal.Decimal, applyRounding bool) Quote {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.Quantity.Mul(l.Rate))
	}
	subtotal = valueobject.RoundMoney(subtotal)
	after := subtotal.Sub(discount)

	q := Quote{
		Subtotal:      subtotal,
		AfterDiscount: after,
		RoundingOff:   decimal.Zero,
		GrandTotal:    after,
	}
	if applyRounding {
		q.GrandTotal, q.RoundingOff = valueobject.RoundToNearestInteger(after)
	}
	return q
}
