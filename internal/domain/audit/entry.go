package audit

import (
	"context"
	"time"

	"github.com/billmaster/backend/internal/domain/identity"
	"github.com/billmaster/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Action names a recorded operation
type Action string

const (
	ActionCreateInvoice       Action = "Create Invoice"
	ActionPaymentReceived     Action = "Payment Received"
	ActionRequestCancellation Action = "Request Invoice Cancellation"
	ActionApproveCancellation Action = "Approve Invoice Cancellation"
	ActionRejectCancellation  Action = "Reject Invoice Cancellation"
	ActionUpdateSettings      Action = "Update Settings"
	ActionCreateItem          Action = "Create Item"
	ActionUpdateItem          Action = "Update Item"
	ActionDeleteItem          Action = "Delete Item"
	ActionCreateCustomer      Action = "Create Customer"
	ActionUpdateCustomer      Action = "Update Customer"
	ActionDeleteCustomer      Action = "Delete Customer"
	ActionCreateCategory      Action = "Create Category"
	ActionUpdateCategory      Action = "Update Category"
	ActionDeleteCategory      Action = "Delete Category"
)

// Entry is an append-only record of who did what
type Entry struct {
	ID            uuid.UUID
	Action        Action
	UserEmail     string
	UserRole      identity.Role
	Details       string
	InvoiceNumber string
	CreatedAt     time.Time
}

// NewEntry stamps an entry for actor
func NewEntry(actor identity.Actor, action Action, details, invoiceNumber string) *Entry {
	return &Entry{
		ID:            uuid.New(),
		Action:        action,
		UserEmail:     actor.Email,
		UserRole:      actor.Role,
		Details:       details,
		InvoiceNumber: invoiceNumber,
		CreatedAt:     time.Now(),
	}
}

// Recorder appends audit entries
type Recorder interface {
	Record(ctx context.Context, entry *Entry) error
}

// EntryFilter narrows audit listings
type EntryFilter struct {
	shared.Filter
	Action    Action
	UserEmail string
}

// Repository stores and lists audit entries. There is no update or delete.
type Repository interface {
	Recorder
	FindAll(ctx context.Context, filter EntryFilter) ([]Entry, int64, error)
}
