package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/billmaster/backend/internal/domain/audit"
	"github.com/billmaster/backend/internal/domain/identity"
	"github.com/billmaster/backend/internal/domain/inventory"
	"github.com/billmaster/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateCategoryRequest represents a request to add a category
type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description" binding:"max=500"`
}

// UpdateCategoryRequest renames a category
type UpdateCategoryRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=100"`
	Description *string `json:"description" binding:"omitempty,max=500"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	Version     int       `json:"version"`
}

func toCategoryResponse(c *inventory.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		Version:     c.Version,
	}
}

// CategoryService manages item categories
type CategoryService struct {
	repo     inventory.CategoryRepository
	recorder audit.Recorder
	policy   identity.Policy
	logger   *zap.Logger
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(repo inventory.CategoryRepository, recorder audit.Recorder, policy identity.Policy, logger *zap.Logger) *CategoryService {
	return &CategoryService{repo: repo, recorder: recorder, policy: policy, logger: logger}
}

// Create adds a category with a unique name
func (s *CategoryService) Create(ctx context.Context, actor identity.Actor, req CreateCategoryRequest) (*CategoryResponse, error) {
	if err := identity.Authorize(s.policy, actor, identity.PermCatalogManage); err != nil {
		return nil, err
	}
	category, err := inventory.NewCategory(req.Name, req.Description)
	if err != nil {
		return nil, err
	}
	if err := s.ensureUnique(ctx, category.Name, uuid.Nil); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, category); err != nil {
		s.logger.Error("Failed to create category", zap.String("name", category.Name), zap.Error(err))
		return nil, fmt.Errorf("create category: %w", err)
	}
	if err := s.record(ctx, actor, audit.ActionCreateCategory, "Category created: "+category.Name); err != nil {
		return nil, err
	}
	resp := toCategoryResponse(category)
	return &resp, nil
}

// List returns every category by name
func (s *CategoryService) List(ctx context.Context, actor identity.Actor) ([]CategoryResponse, error) {
	if err := identity.Authorize(s.policy, actor, identity.PermInvoiceRead); err != nil {
		return nil, err
	}
	categories, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.Error("Failed to list categories", zap.Error(err))
		return nil, err
	}
	out := make([]CategoryResponse, len(categories))
	for i := range categories {
		out[i] = toCategoryResponse(&categories[i])
	}
	return out, nil
}

// Update renames a category
func (s *CategoryService) Update(ctx context.Context, actor identity.Actor, id uuid.UUID, req UpdateCategoryRequest) (*CategoryResponse, error) {
	if err := identity.Authorize(s.policy, actor, identity.PermCatalogManage); err != nil {
		return nil, err
	}
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := category.Rename(req.Name, req.Description); err != nil {
		return nil, err
	}
	if err := s.ensureUnique(ctx, category.Name, category.ID); err != nil {
		return nil, err
	}
	if err := s.repo.SaveWithLock(ctx, category); err != nil {
		s.logger.Error("Failed to update category", zap.String("category_id", id.String()), zap.Error(err))
		return nil, err
	}
	if err := s.record(ctx, actor, audit.ActionUpdateCategory, "Category updated: "+category.Name); err != nil {
		return nil, err
	}
	resp := toCategoryResponse(category)
	return &resp, nil
}

// Delete removes a category. Its items stay and become uncategorised.
func (s *CategoryService) Delete(ctx context.Context, actor identity.Actor, id uuid.UUID) error {
	if err := identity.Authorize(s.policy, actor, identity.PermCatalogManage); err != nil {
		return err
	}
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("Failed to delete category", zap.String("category_id", id.String()), zap.Error(err))
		return err
	}
	return s.record(ctx, actor, audit.ActionDeleteCategory, "Category deleted: "+category.Name)
}

func (s *CategoryService) ensureUnique(ctx context.Context, name string, self uuid.UUID) error {
	exists, err := s.repo.ExistsByName(ctx, name, self)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError("ALREADY_EXISTS", fmt.Sprintf("Category %s already exists", name))
	}
	return nil
}

func (s *CategoryService) record(ctx context.Context, actor identity.Actor, action audit.Action, details string) error {
	if err := s.recorder.Record(ctx, audit.NewEntry(actor, action, details, "")); err != nil {
		s.logger.Error("Failed to record category audit entry", zap.Error(err))
		return fmt.Errorf("record audit entry: %w", err)
	}
	return nil
}
