package billing

import (
	"context"
	"time"

	"github.com/billmaster/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// InvoiceFilter narrows invoice listings
type InvoiceFilter struct {
	shared.Filter
	Status      Status
	PaymentMode PaymentMode
	CustomerID  *uuid.UUID
	// From and To bound created_at as [From, To)
	From *time.Time
	To   *time.Time
	// OnlyOutstanding keeps active credit invoices with a positive balance
	OnlyOutstanding bool
	// DueFrom and DueTo bound due_date as [DueFrom, DueTo)
	DueFrom *time.Time
	DueTo   *time.Time
}

// InvoiceRepository persists invoices
type InvoiceRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)
	FindByNumber(ctx context.Context, number string) (*Invoice, error)
	FindAll(ctx context.Context, filter InvoiceFilter) ([]Invoice, int64, error)
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, invoice *Invoice) error
	// SaveWithLock persists the invoice only if the stored version is invoice.Version-1
	SaveWithLock(ctx context.Context, invoice *Invoice) error
}
