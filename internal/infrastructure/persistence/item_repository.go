package persistence

import (
	"context"
	"errors"

	"github.com/billmaster/backend/internal/domain/inventory"
	"github.com/billmaster/backend/internal/domain/shared"
	"github.com/billmaster/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormItemRepository implements inventory.ItemRepository using GORM
type GormItemRepository struct {
	db *gorm.DB
}

// NewGormItemRepository creates a new GormItemRepository
func NewGormItemRepository(db *gorm.DB) *GormItemRepository {
	return &GormItemRepository{db: db}
}

// FindByID finds an item by its ID
func (r *GormItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Item, error) {
	var model models.ItemModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists items matching the filter's name search
func (r *GormItemRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.Item, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ItemModel{})
	if filter.Search != "" {
		query = query.Where("LOWER(name) LIKE ? ESCAPE '\\'", likePattern(filter.Search))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.ItemModel
	if err := paginate(query.Order(OrderClause(filter, ItemSortFields, "name")), filter).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	items := make([]inventory.Item, len(rows))
	for i := range rows {
		items[i] = *rows[i].ToDomain()
	}
	return items, total, nil
}

// FindLowStock returns active items at or below their minimum stock alert
func (r *GormItemRepository) FindLowStock(ctx context.Context) ([]inventory.Item, error) {
	var rows []models.ItemModel
	if err := r.db.WithContext(ctx).
		Where("status = ? AND quantity_in_stock <= minimum_stock_alert", inventory.ItemStatusActive).
		Order("quantity_in_stock ASC, name ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	items := make([]inventory.Item, len(rows))
	for i := range rows {
		items[i] = *rows[i].ToDomain()
	}
	return items, nil
}

// Create inserts a new item
func (r *GormItemRepository) Create(ctx context.Context, item *inventory.Item) error {
	return r.db.WithContext(ctx).Create(models.ItemModelFromDomain(item)).Error
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormItemRepository) SaveWithLock(ctx context.Context, item *inventory.Item) error {
	result := r.db.WithContext(ctx).
		Model(&models.ItemModel{}).
		Where("id = ? AND version = ?", item.ID, item.Version-1).
		Updates(map[string]any{
			"name":                item.Name,
			"unit":                item.Unit.String(),
			"quantity_in_stock":   item.QuantityInStock,
			"minimum_stock_alert": item.MinimumStockAlert,
			"selling_price":       item.SellingPrice,
			"hsn_code":            item.HSNCode,
			"status":              item.Status,
			"category_id":         item.CategoryID,
			"version":             item.Version,
			"updated_at":          item.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("CONCURRENCY_CONFLICT", "Item "+item.Name+" was modified by another request")
	}
	return nil
}

var _ inventory.ItemRepository = (*GormItemRepository)(nil)
