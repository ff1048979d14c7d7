package persistence

import (
	"context"
	"errors"

	"github.com/billmaster/backend/internal/domain/settings"
	"github.com/billmaster/backend/internal/domain/shared"
	"github.com/billmaster/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormSettingsRepository implements settings.Repository over a single row
type GormSettingsRepository struct {
	db *gorm.DB
}

// NewGormSettingsRepository creates a new GormSettingsRepository
func NewGormSettingsRepository(db *gorm.DB) *GormSettingsRepository {
	return &GormSettingsRepository{db: db}
}

// Get returns the settings row, or ErrNotFound before the shop is configured
func (r *GormSettingsRepository) Get(ctx context.Context) (*settings.ShopSettings, error) {
	var model models.ShopSettingsModel
	if err := r.db.WithContext(ctx).Order("created_at ASC").First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save updates the row with optimistic locking, inserting it on first save
func (r *GormSettingsRepository) Save(ctx context.Context, s *settings.ShopSettings) error {
	model := models.ShopSettingsModelFromDomain(s)
	db := r.db.WithContext(ctx)

	result := db.Model(&models.ShopSettingsModel{}).
		Where("id = ? AND version = ?", s.ID, s.Version-1).
		Updates(map[string]any{
			"shop_name":           model.ShopName,
			"address":             model.Address,
			"city":                model.City,
			"state":               model.State,
			"phone":               model.Phone,
			"email":               model.Email,
			"gstin":               model.GSTIN,
			"logo_url":            model.LogoURL,
			"bank_name":           model.BankName,
			"account_number":      model.AccountNumber,
			"ifsc_code":           model.IFSCCode,
			"bank_address":        model.BankAddress,
			"upi_id":              model.UPIID,
			"upi_qr_url":          model.UPIQRURL,
			"invoice_prefix":      model.InvoicePrefix,
			"invoice_footer_text": model.InvoiceFooterText,
			"version":             model.Version,
			"updated_at":          model.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var existing int64
	if err := db.Model(&models.ShopSettingsModel{}).Where("id = ?", s.ID).Count(&existing).Error; err != nil {
		return err
	}
	if existing > 0 {
		return shared.NewDomainError("CONCURRENCY_CONFLICT", "Shop settings were modified by another request")
	}
	return db.Create(model).Error
}

var _ settings.Repository = (*GormSettingsRepository)(nil)
