package printing

import (
	"strings"

	"github.com/shopspring/decimal"
)

var (
	onesWords  = []string{"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine"}
	teensWords = []string{"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen", "Seventeen", "Eighteen", "Nineteen"}
	tensWords  = []string{"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety"}
)

const (
	crore    = 10_000_000
	lakh     = 100_000
	thousand = 1_000
)

// AmountInWords spells a rupee amount rounded to whole rupees,
// e.g. 125000 -> "One Lakh Twenty Five Thousand Rupees Only".
func AmountInWords(amount decimal.Decimal) string {
	return NumberToWords(amount.Abs().Round(0).IntPart()) + " Rupees Only"
}

// NumberToWords spells n using Indian grouping (crore, lakh, thousand)
func NumberToWords(n int64) string {
	if n <= 0 {
		return "Zero"
	}
	var parts []string
	if c := n / crore; c > 0 {
		// Amounts of a thousand crore and up repeat the grouping for the crore count
		if c >= thousand {
			parts = append(parts, NumberToWords(c))
		} else {
			parts = append(parts, below1000(c))
		}
		parts = append(parts, "Crore")
	}
	if l := n % crore / lakh; l > 0 {
		parts = append(parts, below1000(l), "Lakh")
	}
	if t := n % lakh / thousand; t > 0 {
		parts = append(parts, below1000(t), "Thousand")
	}
	if r := n % thousand; r > 0 {
		parts = append(parts, below1000(r))
	}
	return strings.Join(parts, " ")
}

func below1000(n int64) string {
	switch {
	case n == 0:
		return ""
	case n < 10:
		return onesWords[n]
	case n < 20:
		return teensWords[n-10]
	case n < 100:
		if n%10 == 0 {
			return tensWords[n/10]
		}
		return tensWords[n/10] + " " + onesWords[n%10]
	}
	if n%100 == 0 {
		return onesWords[n/100] + " Hundred"
	}
	return onesWords[n/100] + " Hundred " + below1000(n%100)
}
