package billing

import (
	"context"
	"fmt"

	"github.com/billmaster/backend/internal/domain/billing"
	"github.com/billmaster/backend/internal/domain/inventory"
	"github.com/billmaster/backend/internal/domain/partner"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockLedger applies signed quantity changes to item stock
type StockLedger struct {
	items         inventory.ItemRepository
	allowNegative bool
}

// NewStockLedger creates a StockLedger over items
func NewStockLedger(items inventory.ItemRepository, allowNegative bool) *StockLedger {
	return &StockLedger{items: items, allowNegative: allowNegative}
}

// ApplyDelta adds quantity (negative to consume) to one item's stock and
// persists it with a version check.
func (l *StockLedger) ApplyDelta(ctx context.Context, itemID uuid.UUID, quantity decimal.Decimal) (*inventory.Item, error) {
	item, err := l.items.FindByID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("load item %s: %w", itemID, err)
	}
	if err := item.ApplyStockDelta(quantity, l.allowNegative); err != nil {
		return nil, err
	}
	if err := l.items.SaveWithLock(ctx, item); err != nil {
		return nil, fmt.Errorf("save item %s: %w", itemID, err)
	}
	return item, nil
}

// ApplyAll merges deltas per item and applies each once, in order of first
// appearance. Merging keeps a repeated item on one versioned write.
func (l *StockLedger) ApplyAll(ctx context.Context, deltas []billing.StockDelta) error {
	for _, d := range MergeStockDeltas(deltas) {
		if _, err := l.ApplyDelta(ctx, d.ItemID, d.Quantity); err != nil {
			return err
		}
	}
	return nil
}

// MergeStockDeltas sums deltas that share an item, preserving first-seen order
func MergeStockDeltas(deltas []billing.StockDelta) []billing.StockDelta {
	index := make(map[uuid.UUID]int, len(deltas))
	merged := make([]billing.StockDelta, 0, len(deltas))
	for _, d := range deltas {
		if i, ok := index[d.ItemID]; ok {
			merged[i].Quantity = merged[i].Quantity.Add(d.Quantity)
			continue
		}
		index[d.ItemID] = len(merged)
		merged = append(merged, d)
	}
	return merged
}

// BalanceLedger applies signed amounts to a customer's outstanding credit
type BalanceLedger struct {
	customers partner.CustomerRepository
}

// NewBalanceLedger creates a BalanceLedger over customers
func NewBalanceLedger(customers partner.CustomerRepository) *BalanceLedger {
	return &BalanceLedger{customers: customers}
}

// ApplyDelta adds amount to the customer's outstanding credit, floored at
// zero, and returns the amount actually applied.
func (l *BalanceLedger) ApplyDelta(ctx context.Context, customerID uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error) {
	customer, err := l.customers.FindByID(ctx, customerID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("load customer %s: %w", customerID, err)
	}
	applied := customer.ApplyCreditDelta(amount)
	if err := l.customers.SaveWithLock(ctx, customer); err != nil {
		return decimal.Zero, fmt.Errorf("save customer %s: %w", customerID, err)
	}
	return applied, nil
}
