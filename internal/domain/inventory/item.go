package inventory

import (
	"fmt"
	"strings"
	"time"

	"github.com/billmaster/backend/internal/domain/shared"
	"github.com/billmaster/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemStatus represents whether an item can be sold
type ItemStatus string

const (
	ItemStatusActive   ItemStatus = "active"
	ItemStatusInactive ItemStatus = "inactive"
)

// IsValid checks if the status is a valid ItemStatus
func (s ItemStatus) IsValid() bool {
	return s == ItemStatusActive || s == ItemStatusInactive
}

// Item is a stock-keeping unit. QuantityInStock is mutated only through
// ApplyStockDelta.
type Item struct {
	shared.BaseAggregateRoot
	Name              string
	Unit              valueobject.Unit
	QuantityInStock   decimal.Decimal
	MinimumStockAlert decimal.Decimal
	SellingPrice      decimal.Decimal
	HSNCode           string
	Status            ItemStatus
	CategoryID        *uuid.UUID
}

// NewItem creates a new active item with the given opening stock
func NewItem(name string, unit valueobject.Unit, openingStock, minimumAlert decimal.Decimal) (*Item, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Item name cannot be empty")
	}
	if !unit.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Unsupported unit: %s", unit))
	}
	if minimumAlert.IsNegative() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Minimum stock alert cannot be negative")
	}
	return &Item{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Unit:              unit,
		QuantityInStock:   openingStock,
		MinimumStockAlert: minimumAlert,
		Status:            ItemStatusActive,
	}, nil
}

// ApplyStockDelta adds a signed quantity to the stock on hand. A negative
// result is rejected with INSUFFICIENT_STOCK unless allowNegative is set.
func (i *Item) ApplyStockDelta(delta decimal.Decimal, allowNegative bool) error {
	next := i.QuantityInStock.Add(delta)
	if next.IsNegative() && !allowNegative {
		return shared.NewDomainError("INSUFFICIENT_STOCK",
			fmt.Sprintf("Insufficient stock for %s: available %s, requested %s",
				i.Name, i.QuantityInStock.String(), delta.Neg().String()))
	}
	i.QuantityInStock = next
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
	return nil
}

// CanSupply reports whether quantity can be taken without going negative
func (i *Item) CanSupply(quantity decimal.Decimal) bool {
	return i.QuantityInStock.GreaterThanOrEqual(quantity)
}

// IsLowStock reports whether stock is at or below the alert threshold
func (i *Item) IsLowStock() bool {
	return i.QuantityInStock.LessThanOrEqual(i.MinimumStockAlert)
}

// IsActive reports whether the item is sellable
func (i *Item) IsActive() bool {
	return i.Status == ItemStatusActive
}

// Deactivate hides the item from billing
func (i *Item) Deactivate() {
	i.Status = ItemStatusInactive
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
}

// ItemUpdate carries the editable fields of an item. Nil fields are left
// unchanged; QuantityInStock is a stock-take correction, not a sale.
type ItemUpdate struct {
	Name              *string
	Unit              *valueobject.Unit
	QuantityInStock   *decimal.Decimal
	MinimumStockAlert *decimal.Decimal
	SellingPrice      *decimal.Decimal
	HSNCode           *string
	CategoryID        *uuid.UUID
	ClearCategory     bool
	Status            *ItemStatus
}

// Update validates u in full before applying any of it, then bumps the
// version once.
func (i *Item) Update(u ItemUpdate) error {
	name := i.Name
	if u.Name != nil {
		name = strings.TrimSpace(*u.Name)
		if name == "" {
			return shared.NewDomainError("INVALID_INPUT", "Item name cannot be empty")
		}
	}
	if u.Unit != nil && !u.Unit.IsValid() {
		return shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Unsupported unit: %s", *u.Unit))
	}
	if u.QuantityInStock != nil && u.QuantityInStock.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "Stock on hand cannot be negative")
	}
	if u.MinimumStockAlert != nil && u.MinimumStockAlert.IsNegative() {
		return shared.NewDomainError("INVALID_INPUT", "Minimum stock alert cannot be negative")
	}
	if u.SellingPrice != nil {
		if err := ValidateSellingPrice(*u.SellingPrice); err != nil {
			return err
		}
	}
	if u.Status != nil && !u.Status.IsValid() {
		return shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Unsupported status: %s", *u.Status))
	}

	i.Name = name
	if u.Unit != nil {
		i.Unit = *u.Unit
	}
	if u.QuantityInStock != nil {
		i.QuantityInStock = *u.QuantityInStock
	}
	if u.MinimumStockAlert != nil {
		i.MinimumStockAlert = *u.MinimumStockAlert
	}
	if u.SellingPrice != nil {
		i.SellingPrice = *u.SellingPrice
	}
	if u.HSNCode != nil {
		i.HSNCode = strings.TrimSpace(*u.HSNCode)
	}
	switch {
	case u.ClearCategory:
		i.CategoryID = nil
	case u.CategoryID != nil:
		id := *u.CategoryID
		i.CategoryID = &id
	}
	if u.Status != nil {
		i.Status = *u.Status
	}
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
	return nil
}

// ValidateSellingPrice rejects negative prices and prices finer than a paisa
func ValidateSellingPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_RATE", "Selling price cannot be negative")
	}
	if !valueobject.IsMoneyPrecise(price) {
		return shared.NewDomainError("INVALID_RATE", "Selling price cannot have more than two decimal places")
	}
	return nil
}
