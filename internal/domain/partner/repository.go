package partner

import (
	"context"

	"github.com/billmaster/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CustomerRepository persists customers
type CustomerRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Customer, int64, error)
	Create(ctx context.Context, customer *Customer) error
	// SaveWithLock persists the customer only if the stored version is customer.Version-1
	SaveWithLock(ctx context.Context, customer *Customer) error
	// HasInvoices reports whether any invoice references the customer
	HasInvoices(ctx context.Context, id uuid.UUID) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// SumOutstandingCredit totals the outstanding credit across all customers
	SumOutstandingCredit(ctx context.Context) (decimal.Decimal, error)
}
