package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/billmaster/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Category groups items for browsing. Deleting a category leaves its items
// in place, uncategorised.
type Category struct {
	shared.BaseAggregateRoot
	Name        string
	Description string
}

// NewCategory creates a named category
func NewCategory(name, description string) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Category name cannot be empty")
	}
	return &Category{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Description:       strings.TrimSpace(description),
	}, nil
}

// Rename changes the name and description; nil leaves a field unchanged
func (c *Category) Rename(name, description *string) error {
	next := c.Name
	if name != nil {
		next = strings.TrimSpace(*name)
		if next == "" {
			return shared.NewDomainError("INVALID_CATEGORY", "Category name cannot be empty")
		}
	}
	c.Name = next
	if description != nil {
		c.Description = strings.TrimSpace(*description)
	}
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// CategoryRepository persists categories
type CategoryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)
	FindAll(ctx context.Context) ([]Category, error)
	// ExistsByName matches case-insensitively, ignoring excludeID
	ExistsByName(ctx context.Context, name string, excludeID uuid.UUID) (bool, error)
	Create(ctx context.Context, category *Category) error
	SaveWithLock(ctx context.Context, category *Category) error
	// Delete removes the category and clears it from every item that used it
	Delete(ctx context.Context, id uuid.UUID) error
}
