package models

import (
	"github.com/billmaster/backend/internal/domain/settings"
)

// ShopSettingsModel is the persistence model for the single shop settings row.
type ShopSettingsModel struct {
	AggregateModel
	ShopName          string `gorm:"type:varchar(200);not null"`
	Address           string `gorm:"type:text"`
	City              string `gorm:"type:varchar(100)"`
	State             string `gorm:"type:varchar(100)"`
	Phone             string `gorm:"type:varchar(50)"`
	Email             string `gorm:"type:varchar(200)"`
	GSTIN             string `gorm:"column:gstin;type:varchar(15)"`
	LogoURL           string `gorm:"type:text"`
	BankName          string `gorm:"type:varchar(200)"`
	AccountNumber     string `gorm:"type:varchar(50)"`
	IFSCCode          string `gorm:"column:ifsc_code;type:varchar(11)"`
	BankAddress       string `gorm:"type:text"`
	UPIID             string `gorm:"column:upi_id;type:varchar(100)"`
	UPIQRURL          string `gorm:"column:upi_qr_url;type:text"`
	InvoicePrefix     string `gorm:"type:varchar(20);not null;default:'INV'"`
	InvoiceFooterText string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (ShopSettingsModel) TableName() string {
	return "shop_settings"
}

// ToDomain converts the persistence model to domain ShopSettings.
func (m *ShopSettingsModel) ToDomain() *settings.ShopSettings {
	return &settings.ShopSettings{
		BaseAggregateRoot: m.ToAggregateRoot(),
		ShopName:          m.ShopName,
		Address:           m.Address,
		City:              m.City,
		State:             m.State,
		Phone:             m.Phone,
		Email:             m.Email,
		GSTIN:             m.GSTIN,
		LogoURL:           m.LogoURL,
		BankName:          m.BankName,
		AccountNumber:     m.AccountNumber,
		IFSCCode:          m.IFSCCode,
		BankAddress:       m.BankAddress,
		UPIID:             m.UPIID,
		UPIQRURL:          m.UPIQRURL,
		InvoicePrefix:     m.InvoicePrefix,
		InvoiceFooterText: m.InvoiceFooterText,
	}
}

// ShopSettingsModelFromDomain creates a persistence model from domain ShopSettings.
func ShopSettingsModelFromDomain(s *settings.ShopSettings) *ShopSettingsModel {
	m := &ShopSettingsModel{
		ShopName:          s.ShopName,
		Address:           s.Address,
		City:              s.City,
		State:             s.State,
		Phone:             s.Phone,
		Email:             s.Email,
		GSTIN:             s.GSTIN,
		LogoURL:           s.LogoURL,
		BankName:          s.BankName,
		AccountNumber:     s.AccountNumber,
		IFSCCode:          s.IFSCCode,
		BankAddress:       s.BankAddress,
		UPIID:             s.UPIID,
		UPIQRURL:          s.UPIQRURL,
		InvoicePrefix:     s.InvoicePrefix,
		InvoiceFooterText: s.InvoiceFooterText,
	}
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	return m
}

// AllModels lists every model, for AutoMigrate in tests and the sqlite driver
func AllModels() []any {
	return []any{
		&CategoryModel{},
		&ItemModel{},
		&CustomerModel{},
		&InvoiceModel{},
		&AuditLogModel{},
		&ShopSettingsModel{},
	}
}
