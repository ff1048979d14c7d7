package billing

import (
	"context"

	"github.com/billmaster/backend/internal/domain/audit"
	"github.com/billmaster/backend/internal/domain/billing"
	"github.com/billmaster/backend/internal/domain/inventory"
	"github.com/billmaster/backend/internal/domain/partner"
)

// TransactionScope provides transactional access to the repositories an
// invoice operation touches.
type TransactionScope interface {
	// Execute runs fn with repositories bound to one unit of work.
	// If fn returns an error, the work is rolled back where the store supports it.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
	// Atomic reports whether a failed Execute leaves no partial writes behind
	Atomic() bool
}

// TransactionalRepositories provides access to repositories within a unit of work.
type TransactionalRepositories interface {
	InvoiceRepo() billing.InvoiceRepository
	ItemRepo() inventory.ItemRepository
	CustomerRepo() partner.CustomerRepository
	AuditRepo() audit.Recorder
}

// NoOpTransactionScope runs operations without a transaction. A failure
// part-way leaves earlier writes in place; callers learn which ones from
// the StepError it produces.
type NoOpTransactionScope struct {
	invoiceRepo  billing.InvoiceRepository
	itemRepo     inventory.ItemRepository
	customerRepo partner.CustomerRepository
	auditRepo    audit.Recorder
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	invoiceRepo billing.InvoiceRepository,
	itemRepo inventory.ItemRepository,
	customerRepo partner.CustomerRepository,
	auditRepo audit.Recorder,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		invoiceRepo:  invoiceRepo,
		itemRepo:     itemRepo,
		customerRepo: customerRepo,
		auditRepo:    auditRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// Atomic is false: nothing is rolled back.
func (s *NoOpTransactionScope) Atomic() bool { return false }

// InvoiceRepo returns the invoice repository.
func (s *NoOpTransactionScope) InvoiceRepo() billing.InvoiceRepository { return s.invoiceRepo }

// ItemRepo returns the item repository.
func (s *NoOpTransactionScope) ItemRepo() inventory.ItemRepository { return s.itemRepo }

// CustomerRepo returns the customer repository.
func (s *NoOpTransactionScope) CustomerRepo() partner.CustomerRepository { return s.customerRepo }

// AuditRepo returns the audit recorder.
func (s *NoOpTransactionScope) AuditRepo() audit.Recorder { return s.auditRepo }

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
