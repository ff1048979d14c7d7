package persistence

import (
	"context"

	billingapp "github.com/billmaster/backend/internal/application/billing"
	"github.com/billmaster/backend/internal/domain/audit"
	"github.com/billmaster/backend/internal/domain/billing"
	"github.com/billmaster/backend/internal/domain/inventory"
	"github.com/billmaster/backend/internal/domain/partner"
	"gorm.io/gorm"
)

// GormTransactionScope implements billingapp.TransactionScope using GORM
// transactions: invoice, stock, balance and audit writes commit together.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs fn within a database transaction, rolling back if it returns an error.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos billingapp.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// Atomic is true: a failed Execute leaves nothing behind.
func (s *GormTransactionScope) Atomic() bool { return true }

// gormTransactionalRepositories hands out repositories bound to one transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

func (r *gormTransactionalRepositories) InvoiceRepo() billing.InvoiceRepository {
	return NewGormInvoiceRepository(r.tx)
}

func (r *gormTransactionalRepositories) ItemRepo() inventory.ItemRepository {
	return NewGormItemRepository(r.tx)
}

func (r *gormTransactionalRepositories) CustomerRepo() partner.CustomerRepository {
	return NewGormCustomerRepository(r.tx)
}

func (r *gormTransactionalRepositories) AuditRepo() audit.Recorder {
	return NewGormAuditRepository(r.tx)
}

var _ billingapp.TransactionScope = (*GormTransactionScope)(nil)
var _ billingapp.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
