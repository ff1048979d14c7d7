package inventory

import (
	"context"

	"github.com/billmaster/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ItemRepository persists stock items
type ItemRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Item, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Item, int64, error)
	// FindLowStock returns active items with quantity at or below their alert level
	FindLowStock(ctx context.Context) ([]Item, error)
	Create(ctx context.Context, item *Item) error
	// SaveWithLock persists the item only if the stored version is item.Version-1
	SaveWithLock(ctx context.Context, item *Item) error
}
