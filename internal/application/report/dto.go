package report

import (
	"time"

	"github.com/billmaster/backend/internal/domain/inventory"
	"github.com/billmaster/backend/internal/domain/report"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SalesSummaryRequest selects the reporting window. To is inclusive.
type SalesSummaryRequest struct {
	From time.Time `form:"from" binding:"required" time_format:"2006-01-02"`
	To   time.Time `form:"to" binding:"required" time_format:"2006-01-02"`
}

// PaymentModeTotalResponse is one row of the per-mode breakdown
type PaymentModeTotalResponse struct {
	PaymentMode string          `json:"payment_mode"`
	Count       int64           `json:"count"`
	Total       decimal.Decimal `json:"total"`
}

// CustomerSalesResponse is one row of the top customers ranking
type CustomerSalesResponse struct {
	CustomerID   uuid.UUID       `json:"customer_id"`
	CustomerName string          `json:"customer_name"`
	InvoiceCount int64           `json:"invoice_count"`
	Total        decimal.Decimal `json:"total"`
}

// SalesSummaryResponse represents a sales summary in API responses
type SalesSummaryResponse struct {
	From           string                     `json:"from"`
	To             string                     `json:"to"`
	InvoiceCount   int64                      `json:"invoice_count"`
	TotalSales     decimal.Decimal            `json:"total_sales"`
	TotalDiscount  decimal.Decimal            `json:"total_discount"`
	AverageInvoice decimal.Decimal            `json:"average_invoice"`
	ByPaymentMode  []PaymentModeTotalResponse `json:"by_payment_mode"`
	TopCustomers   []CustomerSalesResponse    `json:"top_customers"`
}

// CustomerReportRequest selects the window for per-customer sales. To is inclusive.
type CustomerReportRequest struct {
	From time.Time `form:"from" binding:"required" time_format:"2006-01-02"`
	To   time.Time `form:"to" binding:"required" time_format:"2006-01-02"`
}

// CustomerCreditResponse is a customer with money still owing
type CustomerCreditResponse struct {
	CustomerID        uuid.UUID       `json:"customer_id"`
	Name              string          `json:"name"`
	Phone             string          `json:"phone,omitempty"`
	OutstandingCredit decimal.Decimal `json:"outstanding_credit"`
}

// CustomerReportResponse is the customer tab of the reports screen
type CustomerReportResponse struct {
	From             string                   `json:"from"`
	To               string                   `json:"to"`
	TotalCustomers   int64                    `json:"total_customers"`
	BuyingCustomers  int64                    `json:"buying_customers"`
	TotalOutstanding decimal.Decimal          `json:"total_outstanding"`
	TopCustomers     []CustomerSalesResponse  `json:"top_customers"`
	Owing            []CustomerCreditResponse `json:"owing"`
}

// InventoryReportResponse is the stock tab of the reports screen
type InventoryReportResponse struct {
	TotalItems  int64                  `json:"total_items"`
	ActiveItems int64                  `json:"active_items"`
	LowStock    []LowStockItemResponse `json:"low_stock"`
}

// DashboardResponse represents the dashboard snapshot
type DashboardResponse struct {
	TodaySales             decimal.Decimal `json:"today_sales"`
	TodayInvoiceCount      int64           `json:"today_invoice_count"`
	MonthSales             decimal.Decimal `json:"month_sales"`
	LowStockCount          int64           `json:"low_stock_count"`
	DueTomorrowCount       int64           `json:"due_tomorrow_count"`
	PendingCancellations   int64           `json:"pending_cancellations"`
	TotalOutstandingCredit decimal.Decimal `json:"total_outstanding_credit"`
}

// LowStockItemResponse is an item at or below its alert level
type LowStockItemResponse struct {
	ID                uuid.UUID       `json:"id"`
	Name              string          `json:"name"`
	Unit              string          `json:"unit"`
	QuantityInStock   decimal.Decimal `json:"quantity_in_stock"`
	MinimumStockAlert decimal.Decimal `json:"minimum_stock_alert"`
}

func toSalesSummaryResponse(s report.SalesSummary, top []report.CustomerSales, inclusiveTo time.Time) SalesSummaryResponse {
	modes := make([]PaymentModeTotalResponse, len(s.ByPaymentMode))
	for i, m := range s.ByPaymentMode {
		modes[i] = PaymentModeTotalResponse{PaymentMode: m.PaymentMode, Count: m.Count, Total: m.Total}
	}
	return SalesSummaryResponse{
		From:           s.From.Format("2006-01-02"),
		To:             inclusiveTo.Format("2006-01-02"),
		InvoiceCount:   s.InvoiceCount,
		TotalSales:     s.TotalSales,
		TotalDiscount:  s.TotalDiscount,
		AverageInvoice: s.AverageInvoice,
		ByPaymentMode:  modes,
		TopCustomers:   toCustomerSalesResponses(top),
	}
}

func toCustomerSalesResponses(rows []report.CustomerSales) []CustomerSalesResponse {
	out := make([]CustomerSalesResponse, len(rows))
	for i, r := range rows {
		out[i] = CustomerSalesResponse{
			CustomerID:   r.CustomerID,
			CustomerName: r.CustomerName,
			InvoiceCount: r.InvoiceCount,
			Total:        r.Total,
		}
	}
	return out
}

func toCustomerReportResponse(s report.CustomerSummary, from, inclusiveTo time.Time) CustomerReportResponse {
	owing := make([]CustomerCreditResponse, len(s.Owing))
	for i, c := range s.Owing {
		owing[i] = CustomerCreditResponse{
			CustomerID:        c.CustomerID,
			Name:              c.Name,
			Phone:             c.Phone,
			OutstandingCredit: c.OutstandingCredit,
		}
	}
	return CustomerReportResponse{
		From:             from.Format("2006-01-02"),
		To:               inclusiveTo.Format("2006-01-02"),
		TotalCustomers:   s.TotalCustomers,
		BuyingCustomers:  s.BuyingCustomers,
		TotalOutstanding: s.TotalOutstanding,
		TopCustomers:     toCustomerSalesResponses(s.TopCustomers),
		Owing:            owing,
	}
}

func toLowStockResponses(items []inventory.Item) []LowStockItemResponse {
	out := make([]LowStockItemResponse, len(items))
	for i, it := range items {
		out[i] = LowStockItemResponse{
			ID:                it.ID,
			Name:              it.Name,
			Unit:              it.Unit.String(),
			QuantityInStock:   it.QuantityInStock,
			MinimumStockAlert: it.MinimumStockAlert,
		}
	}
	return out
}
