package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/billmaster/backend/internal/domain/audit"
	"github.com/billmaster/backend/internal/domain/identity"
	"github.com/billmaster/backend/internal/domain/inventory"
	"github.com/billmaster/backend/internal/domain/shared"
	"github.com/billmaster/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CreateItemRequest represents a request to add a stock item
type CreateItemRequest struct {
	Name              string          `json:"name" binding:"required,min=1,max=200"`
	Unit              string          `json:"unit" binding:"required,oneof=pcs box kg ltr mtr set"`
	OpeningStock      decimal.Decimal `json:"opening_stock"`
	MinimumStockAlert decimal.Decimal `json:"minimum_stock_alert"`
	SellingPrice      decimal.Decimal `json:"selling_price"`
	HSNCode           string          `json:"hsn_code" binding:"max=20"`
	CategoryID        *uuid.UUID      `json:"category_id"`
}

// UpdateItemRequest edits an item. Omitted fields are left unchanged.
// QuantityInStock overwrites the stock on hand after a stock take.
type UpdateItemRequest struct {
	Name              *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Unit              *string          `json:"unit" binding:"omitempty,oneof=pcs box kg ltr mtr set"`
	QuantityInStock   *decimal.Decimal `json:"quantity_in_stock"`
	MinimumStockAlert *decimal.Decimal `json:"minimum_stock_alert"`
	SellingPrice      *decimal.Decimal `json:"selling_price"`
	HSNCode           *string          `json:"hsn_code" binding:"omitempty,max=20"`
	CategoryID        *uuid.UUID       `json:"category_id"`
	ClearCategory     bool             `json:"clear_category"`
	Status            *string          `json:"status" binding:"omitempty,oneof=active inactive"`
}

// ItemResponse represents an item in API responses
type ItemResponse struct {
	ID                uuid.UUID       `json:"id"`
	Name              string          `json:"name"`
	Unit              string          `json:"unit"`
	QuantityInStock   decimal.Decimal `json:"quantity_in_stock"`
	MinimumStockAlert decimal.Decimal `json:"minimum_stock_alert"`
	SellingPrice      decimal.Decimal `json:"selling_price"`
	HSNCode           string          `json:"hsn_code,omitempty"`
	Status            string          `json:"status"`
	CategoryID        *uuid.UUID      `json:"category_id,omitempty"`
	LowStock          bool            `json:"low_stock"`
	CreatedAt         time.Time       `json:"created_at"`
	Version           int             `json:"version"`
}

// ListItemsRequest pages through items
type ListItemsRequest struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	Search   string `form:"search"`
}

// ToItemResponse converts a domain item to its response
func ToItemResponse(item *inventory.Item) ItemResponse {
	return ItemResponse{
		ID:                item.ID,
		Name:              item.Name,
		Unit:              item.Unit.String(),
		QuantityInStock:   item.QuantityInStock,
		MinimumStockAlert: item.MinimumStockAlert,
		SellingPrice:      item.SellingPrice,
		HSNCode:           item.HSNCode,
		Status:            string(item.Status),
		CategoryID:        item.CategoryID,
		LowStock:          item.IsLowStock(),
		CreatedAt:         item.CreatedAt,
		Version:           item.Version,
	}
}

// ItemService manages the stock catalogue. Outside of invoices, stock
// changes only through an explicit stock-take correction on Update.
type ItemService struct {
	repo       inventory.ItemRepository
	categories inventory.CategoryRepository
	recorder   audit.Recorder
	policy     identity.Policy
	logger     *zap.Logger
}

// NewItemService creates a new ItemService
func NewItemService(
	repo inventory.ItemRepository,
	categories inventory.CategoryRepository,
	recorder audit.Recorder,
	policy identity.Policy,
	logger *zap.Logger,
) *ItemService {
	return &ItemService{repo: repo, categories: categories, recorder: recorder, policy: policy, logger: logger}
}

// Create adds an item with its opening stock
func (s *ItemService) Create(ctx context.Context, actor identity.Actor, req CreateItemRequest) (*ItemResponse, error) {
	if err := identity.Authorize(s.policy, actor, identity.PermCatalogManage); err != nil {
		return nil, err
	}
	unit, ok := valueobject.ParseUnit(req.Unit)
	if !ok {
		return nil, shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Unsupported unit: %s", req.Unit))
	}
	if req.OpeningStock.IsNegative() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Opening stock cannot be negative")
	}
	if err := inventory.ValidateSellingPrice(req.SellingPrice); err != nil {
		return nil, err
	}
	item, err := inventory.NewItem(req.Name, unit, req.OpeningStock, req.MinimumStockAlert)
	if err != nil {
		return nil, err
	}
	if err := s.checkCategory(ctx, req.CategoryID); err != nil {
		return nil, err
	}
	item.SellingPrice = req.SellingPrice
	item.HSNCode = req.HSNCode
	item.CategoryID = req.CategoryID

	if err := s.repo.Create(ctx, item); err != nil {
		s.logger.Error("Failed to create item", zap.String("name", item.Name), zap.Error(err))
		return nil, fmt.Errorf("create item: %w", err)
	}
	details := fmt.Sprintf("Item %s created with opening stock %s %s", item.Name, item.QuantityInStock.String(), item.Unit)
	if err := s.recorder.Record(ctx, audit.NewEntry(actor, audit.ActionCreateItem, details, "")); err != nil {
		s.logger.Error("Failed to record item audit entry", zap.Error(err))
		return nil, fmt.Errorf("record audit entry: %w", err)
	}

	resp := ToItemResponse(item)
	return &resp, nil
}

// Update edits an item's catalogue fields, stock on hand or status
func (s *ItemService) Update(ctx context.Context, actor identity.Actor, id uuid.UUID, req UpdateItemRequest) (*ItemResponse, error) {
	if err := identity.Authorize(s.policy, actor, identity.PermCatalogManage); err != nil {
		return nil, err
	}
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	update := inventory.ItemUpdate{
		Name:              req.Name,
		QuantityInStock:   req.QuantityInStock,
		MinimumStockAlert: req.MinimumStockAlert,
		SellingPrice:      req.SellingPrice,
		HSNCode:           req.HSNCode,
		ClearCategory:     req.ClearCategory,
	}
	if req.Unit != nil {
		unit, ok := valueobject.ParseUnit(*req.Unit)
		if !ok {
			return nil, shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Unsupported unit: %s", *req.Unit))
		}
		update.Unit = &unit
	}
	if req.Status != nil {
		status := inventory.ItemStatus(*req.Status)
		update.Status = &status
	}
	if !req.ClearCategory {
		if err := s.checkCategory(ctx, req.CategoryID); err != nil {
			return nil, err
		}
		update.CategoryID = req.CategoryID
	}
	if err := item.Update(update); err != nil {
		return nil, err
	}

	if err := s.repo.SaveWithLock(ctx, item); err != nil {
		s.logger.Error("Failed to update item", zap.String("item_id", id.String()), zap.Error(err))
		return nil, err
	}
	details := fmt.Sprintf("Item updated: %s, Stock: %s", item.Name, item.QuantityInStock.String())
	if err := s.recorder.Record(ctx, audit.NewEntry(actor, audit.ActionUpdateItem, details, "")); err != nil {
		s.logger.Error("Failed to record item audit entry", zap.Error(err))
		return nil, fmt.Errorf("record audit entry: %w", err)
	}

	resp := ToItemResponse(item)
	return &resp, nil
}

// Delete retires an item. Invoices keep referring to it, so the row stays
// and the item is marked inactive, which blocks it from new invoices.
// Deleting an inactive item is a no-op.
func (s *ItemService) Delete(ctx context.Context, actor identity.Actor, id uuid.UUID) error {
	if err := identity.Authorize(s.policy, actor, identity.PermCatalogManage); err != nil {
		return err
	}
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !item.IsActive() {
		return nil
	}
	item.Deactivate()
	if err := s.repo.SaveWithLock(ctx, item); err != nil {
		s.logger.Error("Failed to delete item", zap.String("item_id", id.String()), zap.Error(err))
		return err
	}
	details := fmt.Sprintf("Item deleted: %s", item.Name)
	if err := s.recorder.Record(ctx, audit.NewEntry(actor, audit.ActionDeleteItem, details, "")); err != nil {
		s.logger.Error("Failed to record item audit entry", zap.Error(err))
		return fmt.Errorf("record audit entry: %w", err)
	}
	return nil
}

func (s *ItemService) checkCategory(ctx context.Context, id *uuid.UUID) error {
	if id == nil {
		return nil
	}
	if _, err := s.categories.FindByID(ctx, *id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("INVALID_CATEGORY", "Category does not exist")
		}
		return err
	}
	return nil
}

// Get returns one item
func (s *ItemService) Get(ctx context.Context, actor identity.Actor, id uuid.UUID) (*ItemResponse, error) {
	if err := identity.Authorize(s.policy, actor, identity.PermInvoiceRead); err != nil {
		return nil, err
	}
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToItemResponse(item)
	return &resp, nil
}

// List returns a page of items ordered by name
func (s *ItemService) List(ctx context.Context, actor identity.Actor, req ListItemsRequest) (*shared.Paginated[ItemResponse], error) {
	if err := identity.Authorize(s.policy, actor, identity.PermInvoiceRead); err != nil {
		return nil, err
	}
	filter := shared.DefaultFilter()
	filter.OrderBy = "name"
	filter.OrderDir = "asc"
	filter.Search = req.Search
	if req.Page > 0 {
		filter.Page = req.Page
	}
	if req.PageSize > 0 {
		filter.PageSize = req.PageSize
	}

	items, total, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list items", zap.Error(err))
		return nil, err
	}
	out := make([]ItemResponse, len(items))
	for i := range items {
		out[i] = ToItemResponse(&items[i])
	}
	page := shared.NewPaginated(out, total, filter.Page, filter.Limit())
	return &page, nil
}
