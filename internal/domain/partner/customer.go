package partner

import (
	"strings"
	"time"

	"github.com/billmaster/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Customer is a buyer. OutstandingCredit accumulates unpaid credit-sale
// balances and never drops below zero.
type Customer struct {
	shared.BaseAggregateRoot
	Name              string
	Phone             string
	Email             string
	Address           string
	City              string
	State             string
	GSTIN             string
	OutstandingCredit decimal.Decimal
	CreditEligible    bool
}

// NewCustomer creates a new customer with no outstanding credit
func NewCustomer(name, phone string) (*Customer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Customer name cannot be empty")
	}
	return &Customer{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Phone:             strings.TrimSpace(phone),
		OutstandingCredit: decimal.Zero,
	}, nil
}

// ApplyCreditDelta adds a signed amount to the outstanding credit, clamping
// the result at zero. It returns the amount actually applied.
func (c *Customer) ApplyCreditDelta(delta decimal.Decimal) decimal.Decimal {
	next := c.OutstandingCredit.Add(delta)
	if next.IsNegative() {
		next = decimal.Zero
	}
	applied := next.Sub(c.OutstandingCredit)
	c.OutstandingCredit = next
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return applied
}

// FullAddress joins the non-empty address parts for invoice snapshots
func (c *Customer) FullAddress() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{c.Address, c.City, c.State} {
		if s := strings.TrimSpace(p); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}

// CustomerUpdate carries editable contact fields. Outstanding credit is
// not editable here; it moves only with invoices and payments.
type CustomerUpdate struct {
	Name           *string
	Phone          *string
	Email          *string
	Address        *string
	City           *string
	State          *string
	GSTIN          *string
	CreditEligible *bool
}

// Update applies u and bumps the version once
func (c *Customer) Update(u CustomerUpdate) error {
	if u.Name != nil {
		name := strings.TrimSpace(*u.Name)
		if name == "" {
			return shared.NewDomainError("INVALID_INPUT", "Customer name cannot be empty")
		}
		c.Name = name
	}
	assign := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	assign(&c.Phone, u.Phone)
	assign(&c.Email, u.Email)
	assign(&c.Address, u.Address)
	assign(&c.City, u.City)
	assign(&c.State, u.State)
	if u.GSTIN != nil {
		c.GSTIN = strings.ToUpper(strings.TrimSpace(*u.GSTIN))
	}
	if u.CreditEligible != nil {
		c.CreditEligible = *u.CreditEligible
	}
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// CanDelete reports whether the customer may be removed. Customers who owe
// money or appear on invoices are kept.
func (c *Customer) CanDelete(hasInvoices bool) error {
	if c.OutstandingCredit.IsPositive() {
		return shared.NewDomainError("CANNOT_DELETE",
			"Cannot delete customer with outstanding credit of "+c.OutstandingCredit.StringFixed(2))
	}
	if hasInvoices {
		return shared.NewDomainError("CANNOT_DELETE", "Cannot delete customer with invoices on record")
	}
	return nil
}
