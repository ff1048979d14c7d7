package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/billmaster/backend/internal/domain/audit"
	"github.com/billmaster/backend/internal/domain/billing"
	"github.com/billmaster/backend/internal/domain/identity"
	"github.com/billmaster/backend/internal/domain/inventory"
	"github.com/billmaster/backend/internal/domain/settings"
	"github.com/billmaster/backend/internal/domain/shared"
	"github.com/billmaster/backend/internal/domain/shared/valueobject"
	"github.com/billmaster/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// IdempotencyStore guards invoice creation against client retries
type IdempotencyStore interface {
	// Claim returns true if key was not seen within ttl and is now taken
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)
	// Release frees a key so a failed request can be retried
	Release(ctx context.Context, key string) error
}

// Options tunes invoice behaviour
type Options struct {
	// AllowNegativeStock lets a sale take stock below zero
	AllowNegativeStock bool
	IdempotencyTTL     time.Duration
}

// DefaultOptions allows overselling and keeps idempotency keys for a day
func DefaultOptions() Options {
	return Options{
		AllowNegativeStock: true,
		IdempotencyTTL:     24 * time.Hour,
	}
}

// InvoiceService runs the invoice lifecycle: creation, payments and the
// cancellation workflow, with their stock, balance and audit side effects.
type InvoiceService struct {
	txScope      TransactionScope
	invoiceRepo  billing.InvoiceRepository
	settingsRepo settings.Repository
	policy       identity.Policy
	idempotency  IdempotencyStore
	opts         Options
	now          func() time.Time
	logger       *zap.Logger
	metrics      *telemetry.BillingMetrics
}

// NewInvoiceService creates a new InvoiceService. idempotency may be nil.
func NewInvoiceService(
	txScope TransactionScope,
	invoiceRepo billing.InvoiceRepository,
	settingsRepo settings.Repository,
	policy identity.Policy,
	idempotency IdempotencyStore,
	opts Options,
	logger *zap.Logger,
) *InvoiceService {
	return &InvoiceService{
		txScope:      txScope,
		invoiceRepo:  invoiceRepo,
		settingsRepo: settingsRepo,
		policy:       policy,
		idempotency:  idempotency,
		opts:         opts,
		now:          time.Now,
		logger:       logger,
	}
}

// SetBusinessMetrics attaches invoice counters. Nil disables them.
func (s *InvoiceService) SetBusinessMetrics(m *telemetry.BillingMetrics) {
	s.metrics = m
}

// SetClock overrides the time source
func (s *InvoiceService) SetClock(now func() time.Time) {
	s.now = now
}

// Quote prices lines without creating anything
func (s *InvoiceService) Quote(ctx context.Context, actor identity.Actor, req QuoteRequest) (*QuoteResponse, error) {
	if err := identity.Authorize(s.policy, actor, identity.PermInvoiceCreate); err != nil {
		return nil, err
	}
	lines := make([]billing.PricedLine, len(req.Items))
	for i, l := range req.Items {
		lines[i] = billing.PricedLine{Quantity: l.Quantity, Rate: l.Rate}
	}
	rounding := req.ApplyRounding == nil || *req.ApplyRounding
	q := billing.CalculateTotals(lines, req.Discount, rounding)
	return &QuoteResponse{
		Subtotal:      q.Subtotal,
		AfterDiscount: q.AfterDiscount,
		RoundingOff:   q.RoundingOff,
		GrandTotal:    q.GrandTotal,
	}, nil
}

// Create finalizes an invoice, consumes stock, books any credit balance on
// the customer and records the audit entry, all in one unit of work.
func (s *InvoiceService) Create(ctx context.Context, actor identity.Actor, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	if err := identity.Authorize(s.policy, actor, identity.PermInvoiceCreate); err != nil {
		return nil, err
	}
	if req.CustomerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Please select a customer")
	}
	if len(req.Items) == 0 {
		return nil, shared.NewDomainError("INVALID_ITEMS", "Please add at least one item")
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "InvoiceService", "Create",
		attribute.String(telemetry.AttrPaymentMode, req.PaymentMode),
		attribute.String(telemetry.AttrActorRole, string(actor.Role)))
	defer span.End()

	if req.IdempotencyKey != "" && s.idempotency != nil {
		claimed, err := s.idempotency.Claim(ctx, req.IdempotencyKey, s.opts.IdempotencyTTL)
		if err != nil {
			s.logger.Error("Failed to claim idempotency key", zap.Error(err))
			return nil, fmt.Errorf("claim idempotency key: %w", err)
		}
		if !claimed {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "An invoice for this request was already submitted")
		}
	}

	prefix, err := s.invoicePrefix(ctx)
	if err != nil {
		s.releaseKey(ctx, req.IdempotencyKey)
		return nil, err
	}

	now := s.now()
	steps := newStepRunner("create invoice")
	var created *billing.Invoice

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		customer, err := repos.CustomerRepo().FindByID(ctx, req.CustomerID)
		if err != nil {
			return fmt.Errorf("load customer: %w", err)
		}

		lines, err := s.buildLines(ctx, repos.ItemRepo(), req.Items)
		if err != nil {
			return err
		}

		count, err := repos.InvoiceRepo().Count(ctx)
		if err != nil {
			return fmt.Errorf("count invoices: %w", err)
		}

		inv, err := billing.NewInvoice(billing.InvoiceDraft{
			Number: billing.FormatInvoiceNumber(prefix, count),
			Customer: billing.CustomerSnapshot{
				ID:      customer.ID,
				Name:    customer.Name,
				Phone:   customer.Phone,
				Address: customer.FullAddress(),
			},
			Items:         lines,
			Discount:      req.Discount,
			ApplyRounding: req.RoundingEnabled(),
			PaymentMode:   billing.PaymentMode(req.PaymentMode),
			CreditTerm:    billing.CreditTerm(req.CreditTerm),
			AmountPaid:    req.AmountPaid,
			CreatedBy:     actor.Email,
			Now:           now,
		})
		if err != nil {
			return err
		}

		if err := steps.run(StepSaveInvoice, func() error {
			return repos.InvoiceRepo().Create(ctx, inv)
		}); err != nil {
			return err
		}
		if err := steps.run(StepAdjustStock, func() error {
			return NewStockLedger(repos.ItemRepo(), s.opts.AllowNegativeStock).ApplyAll(ctx, inv.SaleDeltas())
		}); err != nil {
			return err
		}
		if inv.HasBalance() {
			if err := steps.run(StepAdjustBalance, func() error {
				_, err := NewBalanceLedger(repos.CustomerRepo()).ApplyDelta(ctx, inv.CustomerID, inv.BalanceDue)
				return err
			}); err != nil {
				return err
			}
		}
		if err := steps.run(StepWriteAudit, func() error {
			details := fmt.Sprintf("Invoice %s created for %s, Amount: %s",
				inv.InvoiceNumber, inv.CustomerName, inv.GrandTotalMoney().Display())
			return repos.AuditRepo().Record(ctx, audit.NewEntry(actor, audit.ActionCreateInvoice, details, inv.InvoiceNumber))
		}); err != nil {
			return err
		}

		created = inv
		return nil
	})
	if err = steps.finish(err, s.txScope.Atomic()); err != nil {
		if !hasPartialWrites(err) {
			s.releaseKey(ctx, req.IdempotencyKey)
		}
		s.logFailure(ctx, "Failed to create invoice", err)
		telemetry.RecordError(span, err)
		return nil, err
	}
	span.SetAttributes(
		attribute.String(telemetry.AttrInvoiceID, created.ID.String()),
		attribute.String(telemetry.AttrInvoiceNumber, created.InvoiceNumber))
	s.metrics.RecordInvoiceCreated(ctx, string(created.PaymentMode), created.GrandTotal)

	s.logger.Info("Invoice created",
		zap.String("invoice_number", created.InvoiceNumber),
		zap.String("customer_id", created.CustomerID.String()),
		zap.String("grand_total", created.GrandTotal.StringFixed(2)),
		zap.String("payment_mode", string(created.PaymentMode)))

	resp := ToInvoiceResponse(created)
	return &resp, nil
}

// buildLines snapshots each requested item, refusing inactive ones, and when
// overselling is not allowed checks the merged demand against stock before anything is written.
func (s *InvoiceService) buildLines(ctx context.Context, items inventory.ItemRepository, inputs []LineItemInput) ([]billing.LineItem, error) {
	lines := make([]billing.LineItem, 0, len(inputs))
	loaded := make(map[uuid.UUID]*inventory.Item, len(inputs))
	demand := make([]billing.StockDelta, 0, len(inputs))

	for _, in := range inputs {
		item, ok := loaded[in.ItemID]
		if !ok {
			var err error
			item, err = items.FindByID(ctx, in.ItemID)
			if err != nil {
				return nil, fmt.Errorf("load item %s: %w", in.ItemID, err)
			}
			if !item.IsActive() {
				return nil, shared.NewDomainError("ITEM_INACTIVE",
					fmt.Sprintf("%s is inactive and cannot be billed", item.Name))
			}
			loaded[in.ItemID] = item
		}
		line, err := billing.NewLineItem(item.ID, item.Name, item.Unit, item.HSNCode, in.Quantity, in.Rate)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
		demand = append(demand, billing.StockDelta{ItemID: item.ID, Quantity: in.Quantity})
	}

	if !s.opts.AllowNegativeStock {
		for _, d := range MergeStockDeltas(demand) {
			item := loaded[d.ItemID]
			if !item.CanSupply(d.Quantity) {
				return nil, shared.NewDomainError("INSUFFICIENT_STOCK",
					fmt.Sprintf("Insufficient stock for %s: available %s, requested %s",
						item.Name, item.QuantityInStock.String(), d.Quantity.String()))
			}
		}
	}
	return lines, nil
}

// RecordPayment applies a payment to a credit invoice and reduces the
// customer's outstanding credit by the same amount.
func (s *InvoiceService) RecordPayment(ctx context.Context, actor identity.Actor, invoiceID uuid.UUID, req RecordPaymentRequest) (*InvoiceResponse, error) {
	if err := identity.Authorize(s.policy, actor, identity.PermInvoicePay); err != nil {
		return nil, err
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "InvoiceService", "RecordPayment",
		attribute.String(telemetry.AttrInvoiceID, invoiceID.String()))
	defer span.End()

	steps := newStepRunner("record payment")
	var updated *billing.Invoice

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		inv, err := repos.InvoiceRepo().FindByID(ctx, invoiceID)
		if err != nil {
			return fmt.Errorf("load invoice: %w", err)
		}
		if err := inv.RecordPayment(req.Amount); err != nil {
			return err
		}

		if err := steps.run(StepSaveInvoice, func() error {
			return repos.InvoiceRepo().SaveWithLock(ctx, inv)
		}); err != nil {
			return err
		}
		if err := steps.run(StepAdjustBalance, func() error {
			_, err := NewBalanceLedger(repos.CustomerRepo()).ApplyDelta(ctx, inv.CustomerID, req.Amount.Neg())
			return err
		}); err != nil {
			return err
		}
		if err := steps.run(StepWriteAudit, func() error {
			details := fmt.Sprintf("Payment of %s received for Invoice %s from %s. Balance due: %s",
				valueobject.NewMoney(req.Amount).Display(), inv.InvoiceNumber, inv.CustomerName,
				valueobject.NewMoney(inv.BalanceDue).Display())
			return repos.AuditRepo().Record(ctx, audit.NewEntry(actor, audit.ActionPaymentReceived, details, inv.InvoiceNumber))
		}); err != nil {
			return err
		}

		updated = inv
		return nil
	})
	if err = steps.finish(err, s.txScope.Atomic()); err != nil {
		s.logFailure(ctx, "Failed to record payment", err)
		telemetry.RecordError(span, err)
		return nil, err
	}
	s.metrics.RecordPayment(ctx, req.Amount)

	s.logger.Info("Payment recorded",
		zap.String("invoice_number", updated.InvoiceNumber),
		zap.String("amount", req.Amount.StringFixed(2)),
		zap.String("balance_due", updated.BalanceDue.StringFixed(2)))

	resp := ToInvoiceResponse(updated)
	return &resp, nil
}

// RequestCancellation moves an active invoice to pending_cancel
func (s *InvoiceService) RequestCancellation(ctx context.Context, actor identity.Actor, invoiceID uuid.UUID, req CancellationRequest) (*InvoiceResponse, error) {
	if err := identity.Authorize(s.policy, actor, identity.PermInvoiceRequestCancel); err != nil {
		return nil, err
	}

	steps := newStepRunner("request cancellation")
	var updated *billing.Invoice

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		inv, err := repos.InvoiceRepo().FindByID(ctx, invoiceID)
		if err != nil {
			return fmt.Errorf("load invoice: %w", err)
		}
		if err := inv.RequestCancellation(req.Reason); err != nil {
			return err
		}

		if err := steps.run(StepSaveInvoice, func() error {
			return repos.InvoiceRepo().SaveWithLock(ctx, inv)
		}); err != nil {
			return err
		}
		if err := steps.run(StepWriteAudit, func() error {
			details := fmt.Sprintf("Invoice %s cancellation requested. Reason: %s", inv.InvoiceNumber, inv.CancellationReason)
			return repos.AuditRepo().Record(ctx, audit.NewEntry(actor, audit.ActionRequestCancellation, details, inv.InvoiceNumber))
		}); err != nil {
			return err
		}

		updated = inv
		return nil
	})
	if err = steps.finish(err, s.txScope.Atomic()); err != nil {
		s.logFailure(ctx, "Failed to request cancellation", err)
		return nil, err
	}
	s.metrics.RecordCancellation(ctx, telemetry.OutcomeRequested)

	s.logger.Info("Invoice cancellation requested", zap.String("invoice_number", updated.InvoiceNumber))
	resp := ToInvoiceResponse(updated)
	return &resp, nil
}

// ApproveCancellation cancels a pending invoice, restores stock for every
// line and removes any remaining balance from the customer's credit.
func (s *InvoiceService) ApproveCancellation(ctx context.Context, actor identity.Actor, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	if err := identity.Authorize(s.policy, actor, identity.PermInvoiceApproveCancel); err != nil {
		return nil, err
	}

	steps := newStepRunner("approve cancellation")
	var updated *billing.Invoice

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		inv, err := repos.InvoiceRepo().FindByID(ctx, invoiceID)
		if err != nil {
			return fmt.Errorf("load invoice: %w", err)
		}
		if err := inv.ApproveCancellation(actor.Email, s.now()); err != nil {
			return err
		}

		if err := steps.run(StepSaveInvoice, func() error {
			return repos.InvoiceRepo().SaveWithLock(ctx, inv)
		}); err != nil {
			return err
		}
		if err := steps.run(StepAdjustStock, func() error {
			// Restocking only adds, so the negative-stock guard never applies
			return NewStockLedger(repos.ItemRepo(), true).ApplyAll(ctx, inv.RestockDeltas())
		}); err != nil {
			return err
		}
		if inv.HasBalance() {
			if err := steps.run(StepAdjustBalance, func() error {
				_, err := NewBalanceLedger(repos.CustomerRepo()).ApplyDelta(ctx, inv.CustomerID, inv.BalanceDue.Neg())
				return err
			}); err != nil {
				return err
			}
		}
		if err := steps.run(StepWriteAudit, func() error {
			details := fmt.Sprintf("Invoice %s cancellation approved. Stock restored.", inv.InvoiceNumber)
			return repos.AuditRepo().Record(ctx, audit.NewEntry(actor, audit.ActionApproveCancellation, details, inv.InvoiceNumber))
		}); err != nil {
			return err
		}

		updated = inv
		return nil
	})
	if err = steps.finish(err, s.txScope.Atomic()); err != nil {
		s.logFailure(ctx, "Failed to approve cancellation", err)
		return nil, err
	}
	s.metrics.RecordCancellation(ctx, telemetry.OutcomeApproved)

	s.logger.Info("Invoice cancelled",
		zap.String("invoice_number", updated.InvoiceNumber),
		zap.String("approved_by", actor.Email))
	resp := ToInvoiceResponse(updated)
	return &resp, nil
}

// RejectCancellation returns a pending invoice to active
func (s *InvoiceService) RejectCancellation(ctx context.Context, actor identity.Actor, invoiceID uuid.UUID, req CancellationRequest) (*InvoiceResponse, error) {
	if err := identity.Authorize(s.policy, actor, identity.PermInvoiceRejectCancel); err != nil {
		return nil, err
	}

	steps := newStepRunner("reject cancellation")
	var updated *billing.Invoice

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		inv, err := repos.InvoiceRepo().FindByID(ctx, invoiceID)
		if err != nil {
			return fmt.Errorf("load invoice: %w", err)
		}
		if err := inv.RejectCancellation(req.Reason); err != nil {
			return err
		}

		if err := steps.run(StepSaveInvoice, func() error {
			return repos.InvoiceRepo().SaveWithLock(ctx, inv)
		}); err != nil {
			return err
		}
		if err := steps.run(StepWriteAudit, func() error {
			details := fmt.Sprintf("Invoice %s cancellation rejected. Reason: %s", inv.InvoiceNumber, inv.CancellationReason)
			return repos.AuditRepo().Record(ctx, audit.NewEntry(actor, audit.ActionRejectCancellation, details, inv.InvoiceNumber))
		}); err != nil {
			return err
		}

		updated = inv
		return nil
	})
	if err = steps.finish(err, s.txScope.Atomic()); err != nil {
		s.logFailure(ctx, "Failed to reject cancellation", err)
		return nil, err
	}
	s.metrics.RecordCancellation(ctx, telemetry.OutcomeRejected)

	s.logger.Info("Invoice cancellation rejected", zap.String("invoice_number", updated.InvoiceNumber))
	resp := ToInvoiceResponse(updated)
	return &resp, nil
}

// Get returns one invoice
func (s *InvoiceService) Get(ctx context.Context, actor identity.Actor, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	inv, err := s.GetInvoice(ctx, actor, invoiceID)
	if err != nil {
		return nil, err
	}
	resp := ToInvoiceResponse(inv)
	return &resp, nil
}

// GetByNumber looks an invoice up by its printed number, as a customer
// quotes it at the counter
func (s *InvoiceService) GetByNumber(ctx context.Context, actor identity.Actor, number string) (*InvoiceResponse, error) {
	if err := identity.Authorize(s.policy, actor, identity.PermInvoiceRead); err != nil {
		return nil, err
	}
	number = strings.TrimSpace(number)
	if number == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Invoice number is required")
	}
	inv, err := s.invoiceRepo.FindByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	resp := ToInvoiceResponse(inv)
	return &resp, nil
}

// GetInvoice returns the domain invoice, for renderers that need the full aggregate
func (s *InvoiceService) GetInvoice(ctx context.Context, actor identity.Actor, invoiceID uuid.UUID) (*billing.Invoice, error) {
	if err := identity.Authorize(s.policy, actor, identity.PermInvoiceRead); err != nil {
		return nil, err
	}
	inv, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// List returns a page of invoices, newest first
func (s *InvoiceService) List(ctx context.Context, actor identity.Actor, req ListInvoicesRequest) (*shared.Paginated[InvoiceResponse], error) {
	if err := identity.Authorize(s.policy, actor, identity.PermInvoiceRead); err != nil {
		return nil, err
	}
	filter := billing.InvoiceFilter{
		Filter:      shared.DefaultFilter(),
		Status:      billing.Status(req.Status),
		PaymentMode: billing.PaymentMode(req.PaymentMode),
		CustomerID:  req.CustomerID,
		From:        req.From,
	}
	if req.To != nil {
		// The requested end date is inclusive; the store filters [From, To)
		end := billing.DateOf(*req.To).AddDate(0, 0, 1)
		filter.To = &end
	}
	if req.Page > 0 {
		filter.Page = req.Page
	}
	if req.PageSize > 0 {
		filter.PageSize = req.PageSize
	}
	filter.Search = req.Search

	invoices, total, err := s.invoiceRepo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list invoices", zap.Error(err))
		return nil, err
	}
	page := shared.NewPaginated(ToInvoiceResponses(invoices), total, filter.Page, filter.Limit())
	return &page, nil
}

// ListCreditDues lists active invoices with an outstanding balance
func (s *InvoiceService) ListCreditDues(ctx context.Context, actor identity.Actor, which DueFilter, page, pageSize int) (*shared.Paginated[CreditDueResponse], error) {
	if err := identity.Authorize(s.policy, actor, identity.PermInvoiceRead); err != nil {
		return nil, err
	}
	today := billing.DateOf(s.now())
	filter := billing.InvoiceFilter{
		Filter:          shared.DefaultFilter(),
		OnlyOutstanding: true,
	}
	filter.OrderBy = "due_date"
	filter.OrderDir = "asc"
	if page > 0 {
		filter.Page = page
	}
	if pageSize > 0 {
		filter.PageSize = pageSize
	}

	switch which {
	case DueFilterOverdue:
		filter.DueTo = &today
	case DueFilterDueSoon:
		end := today.AddDate(0, 0, DueSoonWindowDays+1)
		filter.DueFrom = &today
		filter.DueTo = &end
	case DueFilterAll, "":
	default:
		return nil, shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Unknown due filter: %s", which))
	}

	invoices, total, err := s.invoiceRepo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list credit dues", zap.Error(err))
		return nil, err
	}
	dues := make([]CreditDueResponse, len(invoices))
	for i := range invoices {
		inv := &invoices[i]
		days, _ := inv.DaysUntilDue(today)
		dues[i] = CreditDueResponse{
			InvoiceResponse: ToInvoiceResponse(inv),
			DaysUntilDue:    days,
			Overdue:         inv.IsOverdue(today),
		}
	}
	result := shared.NewPaginated(dues, total, filter.Page, filter.Limit())
	return &result, nil
}

func (s *InvoiceService) invoicePrefix(ctx context.Context) (string, error) {
	cfg, err := s.settingsRepo.Get(ctx)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return settings.DefaultInvoicePrefix, nil
		}
		return "", fmt.Errorf("load shop settings: %w", err)
	}
	return cfg.EffectiveInvoicePrefix(), nil
}

func (s *InvoiceService) releaseKey(ctx context.Context, key string) {
	if key == "" || s.idempotency == nil {
		return
	}
	if err := s.idempotency.Release(ctx, key); err != nil {
		s.logger.Warn("Failed to release idempotency key", zap.String("key", key), zap.Error(err))
	}
}

// hasPartialWrites reports whether a failed operation left writes behind
func hasPartialWrites(err error) bool {
	var se *StepError
	return errors.As(err, &se) && !se.RolledBack && len(se.Completed) > 0
}

func (s *InvoiceService) logFailure(ctx context.Context, msg string, err error) {
	if shared.IsValidationError(err) {
		s.logger.Warn(msg, zap.Error(err))
		return
	}
	var se *StepError
	if errors.As(err, &se) {
		s.metrics.RecordCommitFailure(ctx, string(se.Failed))
		s.logger.Error(msg,
			zap.String("failed_step", string(se.Failed)),
			zap.Any("completed_steps", se.Completed),
			zap.Bool("rolled_back", se.RolledBack),
			zap.Error(se.Err))
		return
	}
	s.logger.Error(msg, zap.Error(err))
}
