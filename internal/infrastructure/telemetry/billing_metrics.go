package telemetry

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// Metric attribute keys
const (
	AttrKeyPaymentMode = "payment_mode"
	AttrKeyOutcome     = "outcome"
	AttrKeyStep        = "step"
)

// Cancellation outcomes
const (
	OutcomeRequested = "requested"
	OutcomeApproved  = "approved"
	OutcomeRejected  = "rejected"
)

// LowStockCounter reports how many active items sit at or below their alert level
type LowStockCounter interface {
	CountLowStock(ctx context.Context) (int64, error)
}

// BillingMetrics records invoice lifecycle counters. A nil *BillingMetrics is
// valid and records nothing.
type BillingMetrics struct {
	invoicesCreated  metric.Int64Counter
	invoiceAmount    metric.Float64Counter
	paymentsRecorded metric.Int64Counter
	paymentAmount    metric.Float64Counter
	cancellations    metric.Int64Counter
	commitFailures   metric.Int64Counter
	lowStockGauge    metric.Int64ObservableGauge
	registration     metric.Registration

	logger *zap.Logger
	mu     sync.Mutex
}

// NewBillingMetrics creates the billing instruments on the given meter. When
// lowStock is non-nil a gauge polls it on every collection cycle.
func NewBillingMetrics(meter metric.Meter, lowStock LowStockCounter, logger *zap.Logger) (*BillingMetrics, error) {
	bm := &BillingMetrics{logger: logger}
	var err error

	if bm.invoicesCreated, err = meter.Int64Counter("billing.invoices.created",
		metric.WithDescription("Invoices finalized"),
		metric.WithUnit("{invoice}")); err != nil {
		return nil, fmt.Errorf("invoices created counter: %w", err)
	}
	if bm.invoiceAmount, err = meter.Float64Counter("billing.invoices.amount",
		metric.WithDescription("Grand total of finalized invoices"),
		metric.WithUnit("{INR}")); err != nil {
		return nil, fmt.Errorf("invoice amount counter: %w", err)
	}
	if bm.paymentsRecorded, err = meter.Int64Counter("billing.payments.recorded",
		metric.WithDescription("Payments recorded against credit invoices"),
		metric.WithUnit("{payment}")); err != nil {
		return nil, fmt.Errorf("payments counter: %w", err)
	}
	if bm.paymentAmount, err = meter.Float64Counter("billing.payments.amount",
		metric.WithDescription("Amount collected against credit invoices"),
		metric.WithUnit("{INR}")); err != nil {
		return nil, fmt.Errorf("payment amount counter: %w", err)
	}
	if bm.cancellations, err = meter.Int64Counter("billing.cancellations",
		metric.WithDescription("Cancellation workflow transitions"),
		metric.WithUnit("{transition}")); err != nil {
		return nil, fmt.Errorf("cancellations counter: %w", err)
	}
	if bm.commitFailures, err = meter.Int64Counter("billing.commit.failures",
		metric.WithDescription("Invoice commits that failed part way"),
		metric.WithUnit("{failure}")); err != nil {
		return nil, fmt.Errorf("commit failures counter: %w", err)
	}

	if lowStock != nil {
		if bm.lowStockGauge, err = meter.Int64ObservableGauge("inventory.items.low_stock",
			metric.WithDescription("Active items at or below their low stock alert"),
			metric.WithUnit("{item}")); err != nil {
			return nil, fmt.Errorf("low stock gauge: %w", err)
		}
		bm.registration, err = meter.RegisterCallback(func(ctx context.Context, o metric.Observer) error {
			n, err := lowStock.CountLowStock(ctx)
			if err != nil {
				logger.Warn("Failed to count low stock items", zap.Error(err))
				return nil
			}
			o.ObserveInt64(bm.lowStockGauge, n)
			return nil
		}, bm.lowStockGauge)
		if err != nil {
			return nil, fmt.Errorf("register low stock callback: %w", err)
		}
	}
	return bm, nil
}

// RecordInvoiceCreated counts a finalized invoice and its grand total
func (bm *BillingMetrics) RecordInvoiceCreated(ctx context.Context, paymentMode string, grandTotal decimal.Decimal) {
	if bm == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String(AttrKeyPaymentMode, paymentMode))
	bm.invoicesCreated.Add(ctx, 1, attrs)
	bm.invoiceAmount.Add(ctx, grandTotal.InexactFloat64(), attrs)
}

// RecordPayment counts a payment against a credit invoice
func (bm *BillingMetrics) RecordPayment(ctx context.Context, amount decimal.Decimal) {
	if bm == nil {
		return
	}
	bm.paymentsRecorded.Add(ctx, 1)
	bm.paymentAmount.Add(ctx, amount.InexactFloat64())
}

// RecordCancellation counts a cancellation transition by outcome
func (bm *BillingMetrics) RecordCancellation(ctx context.Context, outcome string) {
	if bm == nil {
		return
	}
	bm.cancellations.Add(ctx, 1, metric.WithAttributes(attribute.String(AttrKeyOutcome, outcome)))
}

// RecordCommitFailure counts an invoice commit that failed at the given step
func (bm *BillingMetrics) RecordCommitFailure(ctx context.Context, step string) {
	if bm == nil {
		return
	}
	bm.commitFailures.Add(ctx, 1, metric.WithAttributes(attribute.String(AttrKeyStep, step)))
}

// Close unregisters the low stock callback
func (bm *BillingMetrics) Close() error {
	if bm == nil {
		return nil
	}
	bm.mu.Lock()
	defer bm.mu.Unlock()
	if bm.registration == nil {
		return nil
	}
	err := bm.registration.Unregister()
	bm.registration = nil
	return err
}
