package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCreditTerm_DueDate(t *testing.T) {
	ref := time.Date(2026, 1, 1, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		term CreditTerm
		want time.Time
	}{
		{CreditTermNet7, time.Date(2026, 1, 8, 0, 0, 0, 0, time.UTC)},
		{CreditTermNet15, time.Date(2026, 1, 16, 0, 0, 0, 0, time.UTC)},
		{CreditTermNet30, time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)},
		{CreditTermNet45, time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC)},
		{CreditTermNet60, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)},
		{CreditTermNet90, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(string(tt.term), func(t *testing.T) {
			assert.True(t, tt.term.IsValid())
			assert.Equal(t, tt.want, tt.term.DueDate(ref))
		})
	}
}

func TestCreditTerm_Invalid(t *testing.T) {
	assert.False(t, CreditTerm("net_10").IsValid())
	assert.Equal(t, 0, CreditTerm("").Days())
}

func TestFormatInvoiceNumber(t *testing.T) {
	assert.Equal(t, "INV-1", FormatInvoiceNumber("", 0))
	assert.Equal(t, "BMP-43", FormatInvoiceNumber(" BMP ", 42))
}
