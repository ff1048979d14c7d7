package billing

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/billmaster/backend/internal/domain/shared"
	"github.com/billmaster/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status represents the lifecycle state of an invoice
type Status string

const (
	StatusActive        Status = "active"
	StatusPendingCancel Status = "pending_cancel"
	StatusCancelled     Status = "cancelled"
)

// IsValid checks if the status is a valid Status
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusPendingCancel, StatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusActive:
		return target == StatusPendingCancel
	case StatusPendingCancel:
		return target == StatusCancelled || target == StatusActive
	case StatusCancelled:
		return false // Terminal state
	}
	return false
}

// PaymentMode is how the buyer settles the invoice
type PaymentMode string

const (
	PaymentModeCash   PaymentMode = "cash"
	PaymentModeCard   PaymentMode = "card"
	PaymentModeUPI    PaymentMode = "upi"
	PaymentModeCredit PaymentMode = "credit"
)

// IsValid checks if the mode is a valid PaymentMode
func (m PaymentMode) IsValid() bool {
	switch m {
	case PaymentModeCash, PaymentModeCard, PaymentModeUPI, PaymentModeCredit:
		return true
	}
	return false
}

// AllPaymentModes returns the payment modes in display order
func AllPaymentModes() []PaymentMode {
	return []PaymentMode{PaymentModeCash, PaymentModeCard, PaymentModeUPI, PaymentModeCredit}
}

// LineItem is one priced row of an invoice. Name, unit and HSN code are
// snapshots taken from the item at sale time.
type LineItem struct {
	ItemID   uuid.UUID        `json:"item_id"`
	Name     string           `json:"name"`
	Unit     valueobject.Unit `json:"unit"`
	HSNCode  string           `json:"hsn_code,omitempty"`
	Quantity decimal.Decimal  `json:"quantity"`
	Rate     decimal.Decimal  `json:"rate"`
	Subtotal decimal.Decimal  `json:"subtotal"`
}

// NewLineItem creates a line item and computes its subtotal
func NewLineItem(itemID uuid.UUID, name string, unit valueobject.Unit, hsnCode string, quantity, rate decimal.Decimal) (LineItem, error) {
	if itemID == uuid.Nil {
		return LineItem{}, shared.NewDomainError("INVALID_ITEMS", "Item ID cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return LineItem{}, shared.NewDomainError("INVALID_QUANTITY",
			fmt.Sprintf("Quantity for %s must be positive", name))
	}
	if rate.LessThanOrEqual(decimal.Zero) {
		return LineItem{}, shared.NewDomainError("INVALID_RATE",
			fmt.Sprintf("Rate for %s must be greater than zero", name))
	}
	return LineItem{
		ItemID:   itemID,
		Name:     name,
		Unit:     unit,
		HSNCode:  hsnCode,
		Quantity: quantity,
		Rate:     rate,
		Subtotal: valueobject.RoundMoney(quantity.Mul(rate)),
	}, nil
}

// CustomerSnapshot copies the buyer details onto the invoice
type CustomerSnapshot struct {
	ID      uuid.UUID
	Name    string
	Phone   string
	Address string
}

// InvoiceDraft carries everything needed to finalize an invoice
type InvoiceDraft struct {
	Number        string
	Customer      CustomerSnapshot
	Items         []LineItem
	Discount      decimal.Decimal
	ApplyRounding bool
	PaymentMode   PaymentMode
	CreditTerm    CreditTerm
	// AmountPaid is the upfront payment on a credit sale; ignored otherwise
	AmountPaid decimal.Decimal
	CreatedBy  string
	Now        time.Time
}

// StockDelta is a signed quantity change for one item
type StockDelta struct {
	ItemID   uuid.UUID
	Quantity decimal.Decimal
}

// Invoice is the aggregate root of a sale
type Invoice struct {
	shared.BaseAggregateRoot
	InvoiceNumber      string
	CustomerID         uuid.UUID
	CustomerName       string
	CustomerPhone      string
	CustomerAddress    string
	Items              []LineItem
	Subtotal           decimal.Decimal
	Discount           decimal.Decimal
	RoundingOff        decimal.Decimal
	GrandTotal         decimal.Decimal
	PaymentMode        PaymentMode
	CreditTerm         CreditTerm
	DueDate            *time.Time
	AmountPaid         decimal.Decimal
	BalanceDue         decimal.Decimal
	Status             Status
	CancellationReason string
	CancelledBy        string
	CancelledAt        *time.Time
	CreatedBy          string
}

// NewInvoice validates a draft and produces a finalized active invoice.
// No side effects are performed here; stock and balance movements are
// derived from the result by the caller.
func NewInvoice(d InvoiceDraft) (*Invoice, error) {
	if d.Customer.ID == uuid.Nil || strings.TrimSpace(d.Customer.Name) == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Please select a customer")
	}
	if len(d.Items) == 0 {
		return nil, shared.NewDomainError("INVALID_ITEMS", "Please add at least one item")
	}
	lines := make([]PricedLine, 0, len(d.Items))
	for _, item := range d.Items {
		if item.Rate.LessThanOrEqual(decimal.Zero) {
			return nil, shared.NewDomainError("INVALID_RATE",
				fmt.Sprintf("Please enter rate for %s", item.Name))
		}
		if item.Quantity.LessThanOrEqual(decimal.Zero) {
			return nil, shared.NewDomainError("INVALID_QUANTITY",
				fmt.Sprintf("Quantity for %s must be positive", item.Name))
		}
		lines = append(lines, PricedLine{Quantity: item.Quantity, Rate: item.Rate})
	}
	if !d.PaymentMode.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_MODE",
			fmt.Sprintf("Unsupported payment mode: %s", d.PaymentMode))
	}
	if d.Discount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot be negative")
	}
	if !valueobject.IsMoneyPrecise(d.Discount) {
		return nil, shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot have more than two decimal places")
	}

	quote := CalculateTotals(lines, d.Discount, d.ApplyRounding)
	if d.Discount.GreaterThan(quote.Subtotal) {
		return nil, shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot exceed the subtotal")
	}

	now := d.Now
	if now.IsZero() {
		now = time.Now()
	}

	inv := &Invoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		InvoiceNumber:     d.Number,
		CustomerID:        d.Customer.ID,
		CustomerName:      d.Customer.Name,
		CustomerPhone:     d.Customer.Phone,
		CustomerAddress:   d.Customer.Address,
		Items:             d.Items,
		Subtotal:          quote.Subtotal,
		Discount:          d.Discount,
		RoundingOff:       quote.RoundingOff,
		GrandTotal:        quote.GrandTotal,
		PaymentMode:       d.PaymentMode,
		Status:            StatusActive,
		CreatedBy:         d.CreatedBy,
	}
	inv.CreatedAt = now
	inv.UpdatedAt = now

	if d.PaymentMode == PaymentModeCredit {
		if !d.CreditTerm.IsValid() {
			return nil, shared.NewDomainError("INVALID_CREDIT_TERM",
				fmt.Sprintf("Unsupported credit term: %s", d.CreditTerm))
		}
		if !valueobject.IsMoneyPrecise(d.AmountPaid) {
			return nil, shared.NewDomainError("INVALID_AMOUNT_PAID",
				"Amount paid cannot have more than two decimal places")
		}
		if d.AmountPaid.IsNegative() || d.AmountPaid.GreaterThan(quote.GrandTotal) {
			return nil, shared.NewDomainError("INVALID_AMOUNT_PAID",
				"Amount paid must be between zero and the grand total")
		}
		due := d.CreditTerm.DueDate(now)
		inv.CreditTerm = d.CreditTerm
		inv.DueDate = &due
		inv.AmountPaid = d.AmountPaid
		inv.BalanceDue = quote.GrandTotal.Sub(d.AmountPaid)
	} else {
		inv.AmountPaid = quote.GrandTotal
		inv.BalanceDue = decimal.Zero
	}

	return inv, nil
}

// RecordPayment applies a payment against the outstanding balance
func (i *Invoice) RecordPayment(amount decimal.Decimal) error {
	if i.Status == StatusCancelled {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot record payment on invoice in %s status", i.Status))
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_PAYMENT_AMOUNT", "Payment amount must be greater than zero")
	}
	if !valueobject.IsMoneyPrecise(amount) {
		return shared.NewDomainError("INVALID_PAYMENT_AMOUNT", "Payment amount cannot have more than two decimal places")
	}
	if amount.GreaterThan(i.BalanceDue) {
		return shared.NewDomainError("INVALID_PAYMENT_AMOUNT",
			fmt.Sprintf("Payment amount cannot exceed balance due of %s", i.BalanceDue.StringFixed(2)))
	}

	i.BalanceDue = i.BalanceDue.Sub(amount)
	i.AmountPaid = i.AmountPaid.Add(amount)
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
	return nil
}

// RequestCancellation moves an active invoice to pending_cancel
func (i *Invoice) RequestCancellation(reason string) error {
	if !i.Status.CanTransitionTo(StatusPendingCancel) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot request cancellation of invoice in %s status", i.Status))
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancellation reason is required")
	}

	i.Status = StatusPendingCancel
	i.CancellationReason = reason
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
	return nil
}

// ApproveCancellation cancels a pending invoice. The caller must then apply
// RestockDeltas and CreditReversal exactly once.
func (i *Invoice) ApproveCancellation(approvedBy string, at time.Time) error {
	if i.Status != StatusPendingCancel {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot approve cancellation of invoice in %s status", i.Status))
	}

	i.Status = StatusCancelled
	i.CancelledBy = approvedBy
	i.CancelledAt = &at
	i.UpdatedAt = at
	i.IncrementVersion()
	return nil
}

// RejectCancellation returns a pending invoice to active, replacing the
// stored reason with the rejection reason
func (i *Invoice) RejectCancellation(reason string) error {
	if i.Status != StatusPendingCancel {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot reject cancellation of invoice in %s status", i.Status))
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Rejection reason is required")
	}

	i.Status = StatusActive
	i.CancellationReason = reason
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
	return nil
}

// SaleDeltas returns the stock decrements for each line
func (i *Invoice) SaleDeltas() []StockDelta {
	return i.stockDeltas(-1)
}

// RestockDeltas returns the stock increments that reverse the sale
func (i *Invoice) RestockDeltas() []StockDelta {
	return i.stockDeltas(1)
}

func (i *Invoice) stockDeltas(sign int64) []StockDelta {
	deltas := make([]StockDelta, 0, len(i.Items))
	for _, item := range i.Items {
		deltas = append(deltas, StockDelta{
			ItemID:   item.ItemID,
			Quantity: item.Quantity.Mul(decimal.NewFromInt(sign)),
		})
	}
	return deltas
}

// HasBalance reports whether the invoice still carries an unpaid credit balance
func (i *Invoice) HasBalance() bool {
	return i.BalanceDue.IsPositive()
}

// IsOverdue reports whether a balance is still owed after the due date
func (i *Invoice) IsOverdue(today time.Time) bool {
	if i.DueDate == nil || !i.HasBalance() || i.Status == StatusCancelled {
		return false
	}
	return DateOf(*i.DueDate).Before(DateOf(today))
}

// DaysUntilDue returns whole days from today to the due date (negative when overdue)
func (i *Invoice) DaysUntilDue(today time.Time) (int, bool) {
	if i.DueDate == nil {
		return 0, false
	}
	hours := DateOf(*i.DueDate).Sub(DateOf(today)).Hours()
	return int(math.Round(hours / 24)), true
}

// GrandTotalMoney returns grand total as Money
func (i *Invoice) GrandTotalMoney() valueobject.Money {
	return valueobject.NewMoney(i.GrandTotal)
}
