package report

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentModeTotal is the sales figure for one payment mode
type PaymentModeTotal struct {
	PaymentMode string
	Count       int64
	Total       decimal.Decimal
}

// SalesSummary aggregates active invoices over a date range
type SalesSummary struct {
	From          time.Time
	To            time.Time
	InvoiceCount  int64
	TotalSales    decimal.Decimal
	TotalDiscount decimal.Decimal
	// AverageInvoice is TotalSales / InvoiceCount at 2 places, zero without sales
	AverageInvoice decimal.Decimal
	ByPaymentMode  []PaymentModeTotal
}

// DashboardStats is the landing-page snapshot
type DashboardStats struct {
	TodaySales             decimal.Decimal
	TodayInvoiceCount      int64
	MonthSales             decimal.Decimal
	LowStockCount          int64
	DueTomorrowCount       int64
	PendingCancellations   int64
	TotalOutstandingCredit decimal.Decimal
}

// Repository runs aggregate queries over invoices, items and customers.
// Ranges are half open: [from, to).
type Repository interface {
	SalesByPaymentMode(ctx context.Context, from, to time.Time) ([]PaymentModeTotal, error)
	DiscountTotal(ctx context.Context, from, to time.Time) (decimal.Decimal, error)
	CountLowStock(ctx context.Context) (int64, error)
	CountDueBetween(ctx context.Context, from, to time.Time) (int64, error)
	CountPendingCancellations(ctx context.Context) (int64, error)

	TopCustomers(ctx context.Context, from, to time.Time, limit int) ([]CustomerSales, error)
	CountBuyingCustomers(ctx context.Context, from, to time.Time) (int64, error)
	CountCustomers(ctx context.Context) (int64, error)
	CustomersOwing(ctx context.Context) ([]CustomerCredit, error)
	CountItems(ctx context.Context) (total, active int64, err error)
}

// Summarize folds per-mode totals into a SalesSummary
func Summarize(from, to time.Time, modes []PaymentModeTotal, discount decimal.Decimal) SalesSummary {
	s := SalesSummary{
		From:           from,
		To:             to,
		TotalSales:     decimal.Zero,
		TotalDiscount:  discount,
		AverageInvoice: decimal.Zero,
		ByPaymentMode:  modes,
	}
	for _, m := range modes {
		s.InvoiceCount += m.Count
		s.TotalSales = s.TotalSales.Add(m.Total)
	}
	if s.InvoiceCount > 0 {
		s.AverageInvoice = s.TotalSales.DivRound(decimal.NewFromInt(s.InvoiceCount), 2)
	}
	return s
}
