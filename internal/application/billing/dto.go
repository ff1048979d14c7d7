package billing

import (
	"time"

	"github.com/billmaster/backend/internal/domain/billing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ==================== Invoice DTOs ====================

// LineItemInput is one requested line on a new invoice
type LineItemInput struct {
	ItemID   uuid.UUID       `json:"item_id" binding:"required"`
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
	Rate     decimal.Decimal `json:"rate" binding:"required"`
}

// CreateInvoiceRequest represents a request to finalize an invoice
type CreateInvoiceRequest struct {
	CustomerID     uuid.UUID       `json:"customer_id" binding:"required"`
	Items          []LineItemInput `json:"items" binding:"required,min=1,dive"`
	Discount       decimal.Decimal `json:"discount"`
	ApplyRounding  *bool           `json:"apply_rounding"` // Defaults to true when omitted
	PaymentMode    string          `json:"payment_mode" binding:"required,oneof=cash card upi credit"`
	CreditTerm     string          `json:"credit_term" binding:"omitempty,oneof=net_7 net_15 net_30 net_45 net_60 net_90"`
	AmountPaid     decimal.Decimal `json:"amount_paid"`
	IdempotencyKey string          `json:"-"` // Taken from the Idempotency-Key header
}

// RoundingEnabled resolves the optional rounding flag
func (r CreateInvoiceRequest) RoundingEnabled() bool {
	return r.ApplyRounding == nil || *r.ApplyRounding
}

// QuoteLineInput is a line priced by the quote endpoint
type QuoteLineInput struct {
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
	Rate     decimal.Decimal `json:"rate"`
}

// QuoteRequest asks for totals without creating anything
type QuoteRequest struct {
	Items         []QuoteLineInput `json:"items" binding:"dive"`
	Discount      decimal.Decimal  `json:"discount"`
	ApplyRounding *bool            `json:"apply_rounding"`
}

// QuoteResponse carries computed totals
type QuoteResponse struct {
	Subtotal      decimal.Decimal `json:"subtotal"`
	AfterDiscount decimal.Decimal `json:"after_discount"`
	RoundingOff   decimal.Decimal `json:"rounding_off"`
	GrandTotal    decimal.Decimal `json:"grand_total"`
}

// RecordPaymentRequest represents a payment against a credit invoice
type RecordPaymentRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// CancellationRequest carries the reason for a cancellation request or rejection
type CancellationRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// LineItemResponse represents an invoice line in API responses
type LineItemResponse struct {
	ItemID   uuid.UUID       `json:"item_id"`
	Name     string          `json:"name"`
	Unit     string          `json:"unit"`
	HSNCode  string          `json:"hsn_code,omitempty"`
	Quantity decimal.Decimal `json:"quantity"`
	Rate     decimal.Decimal `json:"rate"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// InvoiceResponse represents an invoice in API responses
type InvoiceResponse struct {
	ID                 uuid.UUID          `json:"id"`
	InvoiceNumber      string             `json:"invoice_number"`
	CustomerID         uuid.UUID          `json:"customer_id"`
	CustomerName       string             `json:"customer_name"`
	CustomerPhone      string             `json:"customer_phone,omitempty"`
	CustomerAddress    string             `json:"customer_address,omitempty"`
	Items              []LineItemResponse `json:"items"`
	Subtotal           decimal.Decimal    `json:"subtotal"`
	Discount           decimal.Decimal    `json:"discount"`
	RoundingOff        decimal.Decimal    `json:"rounding_off"`
	GrandTotal         decimal.Decimal    `json:"grand_total"`
	PaymentMode        string             `json:"payment_mode"`
	CreditTerm         string             `json:"credit_term,omitempty"`
	DueDate            *time.Time         `json:"due_date,omitempty"`
	AmountPaid         decimal.Decimal    `json:"amount_paid"`
	BalanceDue         decimal.Decimal    `json:"balance_due"`
	Status             string             `json:"status"`
	CancellationReason string             `json:"cancellation_reason,omitempty"`
	CancelledBy        string             `json:"cancelled_by,omitempty"`
	CancelledAt        *time.Time         `json:"cancelled_date,omitempty"`
	CreatedBy          string             `json:"created_by"`
	CreatedAt          time.Time          `json:"created_date"`
	Version            int                `json:"version"`
}

// CreditDueResponse is an invoice with an outstanding balance
type CreditDueResponse struct {
	InvoiceResponse
	DaysUntilDue int  `json:"days_until_due"`
	Overdue      bool `json:"overdue"`
}

// DueFilter selects which credit dues to list
type DueFilter string

const (
	DueFilterAll     DueFilter = "all"
	DueFilterOverdue DueFilter = "overdue"
	DueFilterDueSoon DueFilter = "due_soon"
)

// DueSoonWindowDays is how far ahead due_soon looks (0-7 days inclusive)
const DueSoonWindowDays = 7

// ListInvoicesRequest filters the invoice listing
type ListInvoicesRequest struct {
	Page        int        `form:"page"`
	PageSize    int        `form:"page_size"`
	Search      string     `form:"search"`
	Status      string     `form:"status" binding:"omitempty,oneof=active pending_cancel cancelled"`
	PaymentMode string     `form:"payment_mode" binding:"omitempty,oneof=cash card upi credit"`
	CustomerID  *uuid.UUID `form:"-"` // Parsed from customer_id by the transport
	From        *time.Time `form:"from" time_format:"2006-01-02"`
	To          *time.Time `form:"to" time_format:"2006-01-02"`
}

// ToInvoiceResponse converts a domain invoice to its response
func ToInvoiceResponse(inv *billing.Invoice) InvoiceResponse {
	items := make([]LineItemResponse, len(inv.Items))
	for i, it := range inv.Items {
		items[i] = LineItemResponse{
			ItemID:   it.ItemID,
			Name:     it.Name,
			Unit:     it.Unit.String(),
			HSNCode:  it.HSNCode,
			Quantity: it.Quantity,
			Rate:     it.Rate,
			Subtotal: it.Subtotal,
		}
	}
	return InvoiceResponse{
		ID:                 inv.ID,
		InvoiceNumber:      inv.InvoiceNumber,
		CustomerID:         inv.CustomerID,
		CustomerName:       inv.CustomerName,
		CustomerPhone:      inv.CustomerPhone,
		CustomerAddress:    inv.CustomerAddress,
		Items:              items,
		Subtotal:           inv.Subtotal,
		Discount:           inv.Discount,
		RoundingOff:        inv.RoundingOff,
		GrandTotal:         inv.GrandTotal,
		PaymentMode:        string(inv.PaymentMode),
		CreditTerm:         string(inv.CreditTerm),
		DueDate:            inv.DueDate,
		AmountPaid:         inv.AmountPaid,
		BalanceDue:         inv.BalanceDue,
		Status:             inv.Status.String(),
		CancellationReason: inv.CancellationReason,
		CancelledBy:        inv.CancelledBy,
		CancelledAt:        inv.CancelledAt,
		CreatedBy:          inv.CreatedBy,
		CreatedAt:          inv.CreatedAt,
		Version:            inv.Version,
	}
}

// ToInvoiceResponses converts a slice of invoices
func ToInvoiceResponses(invoices []billing.Invoice) []InvoiceResponse {
	out := make([]InvoiceResponse, len(invoices))
	for i := range invoices {
		out[i] = ToInvoiceResponse(&invoices[i])
	}
	return out
}
