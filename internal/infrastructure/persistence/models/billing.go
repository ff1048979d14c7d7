package models

import (
	"time"

	"github.com/billmaster/backend/internal/domain/billing"
	"github.com/billmaster/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// LineItemRecord is one invoice line as stored in the items JSON column.
// Decimals serialize as strings so no precision is lost.
type LineItemRecord struct {
	ItemID   uuid.UUID       `json:"item_id"`
	Name     string          `json:"name"`
	Unit     string          `json:"unit"`
	HSNCode  string          `json:"hsn_code,omitempty"`
	Quantity decimal.Decimal `json:"quantity"`
	Rate     decimal.Decimal `json:"rate"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// InvoiceModel is the persistence model for the Invoice aggregate.
type InvoiceModel struct {
	AggregateModel
	InvoiceNumber      string                              `gorm:"type:varchar(50);not null;uniqueIndex"`
	CustomerID         uuid.UUID                           `gorm:"type:uuid;not null;index"`
	CustomerName       string                              `gorm:"type:varchar(200);not null"`
	CustomerPhone      string                              `gorm:"type:varchar(50)"`
	CustomerAddress    string                              `gorm:"type:text"`
	Items              datatypes.JSONSlice[LineItemRecord] `gorm:"not null"`
	Subtotal           decimal.Decimal                     `gorm:"type:decimal(18,2);not null"`
	Discount           decimal.Decimal                     `gorm:"type:decimal(18,2);not null;default:0"`
	RoundingOff        decimal.Decimal                     `gorm:"type:decimal(18,2);not null;default:0"`
	GrandTotal         decimal.Decimal                     `gorm:"type:decimal(18,2);not null"`
	PaymentMode        billing.PaymentMode                 `gorm:"type:varchar(20);not null;index"`
	CreditTerm         billing.CreditTerm                  `gorm:"type:varchar(20)"`
	DueDate            *time.Time                          `gorm:"index"`
	AmountPaid         decimal.Decimal                     `gorm:"type:decimal(18,2);not null;default:0"`
	BalanceDue         decimal.Decimal                     `gorm:"type:decimal(18,2);not null;default:0"`
	Status             billing.Status                      `gorm:"type:varchar(20);not null;default:'active';index"`
	CancellationReason string                              `gorm:"type:text"`
	CancelledBy        string                              `gorm:"type:varchar(200)"`
	CancelledAt        *time.Time
	CreatedBy          string `gorm:"type:varchar(200);not null"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model to a domain Invoice aggregate.
func (m *InvoiceModel) ToDomain() *billing.Invoice {
	items := make([]billing.LineItem, len(m.Items))
	for i, r := range m.Items {
		items[i] = billing.LineItem{
			ItemID:   r.ItemID,
			Name:     r.Name,
			Unit:     valueobject.Unit(r.Unit),
			HSNCode:  r.HSNCode,
			Quantity: r.Quantity,
			Rate:     r.Rate,
			Subtotal: r.Subtotal,
		}
	}
	return &billing.Invoice{
		BaseAggregateRoot:  m.ToAggregateRoot(),
		InvoiceNumber:      m.InvoiceNumber,
		CustomerID:         m.CustomerID,
		CustomerName:       m.CustomerName,
		CustomerPhone:      m.CustomerPhone,
		CustomerAddress:    m.CustomerAddress,
		Items:              items,
		Subtotal:           m.Subtotal,
		Discount:           m.Discount,
		RoundingOff:        m.RoundingOff,
		GrandTotal:         m.GrandTotal,
		PaymentMode:        m.PaymentMode,
		CreditTerm:         m.CreditTerm,
		DueDate:            m.DueDate,
		AmountPaid:         m.AmountPaid,
		BalanceDue:         m.BalanceDue,
		Status:             m.Status,
		CancellationReason: m.CancellationReason,
		CancelledBy:        m.CancelledBy,
		CancelledAt:        m.CancelledAt,
		CreatedBy:          m.CreatedBy,
	}
}

// InvoiceModelFromDomain creates a persistence model from a domain Invoice.
func InvoiceModelFromDomain(inv *billing.Invoice) *InvoiceModel {
	records := make(datatypes.JSONSlice[LineItemRecord], len(inv.Items))
	for i, it := range inv.Items {
		records[i] = LineItemRecord{
			ItemID:   it.ItemID,
			Name:     it.Name,
			Unit:     it.Unit.String(),
			HSNCode:  it.HSNCode,
			Quantity: it.Quantity,
			Rate:     it.Rate,
			Subtotal: it.Subtotal,
		}
	}
	m := &InvoiceModel{
		InvoiceNumber:      inv.InvoiceNumber,
		CustomerID:         inv.CustomerID,
		CustomerName:       inv.CustomerName,
		CustomerPhone:      inv.CustomerPhone,
		CustomerAddress:    inv.CustomerAddress,
		Items:              records,
		Subtotal:           inv.Subtotal,
		Discount:           inv.Discount,
		RoundingOff:        inv.RoundingOff,
		GrandTotal:         inv.GrandTotal,
		PaymentMode:        inv.PaymentMode,
		CreditTerm:         inv.CreditTerm,
		DueDate:            inv.DueDate,
		AmountPaid:         inv.AmountPaid,
		BalanceDue:         inv.BalanceDue,
		Status:             inv.Status,
		CancellationReason: inv.CancellationReason,
		CancelledBy:        inv.CancelledBy,
		CancelledAt:        inv.CancelledAt,
		CreatedBy:          inv.CreatedBy,
	}
	m.FromDomainAggregateRoot(inv.BaseAggregateRoot)
	return m
}
