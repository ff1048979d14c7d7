package settings

import (
	"time"

	"github.com/billmaster/backend/internal/domain/settings"
)

// UpdateSettingsRequest represents a request to update shop settings
type UpdateSettingsRequest struct {
	ShopName          string `json:"shop_name" binding:"required,min=1,max=200"`
	Address           string `json:"address" binding:"max=500"`
	City              string `json:"city" binding:"max=100"`
	State             string `json:"state" binding:"max=100"`
	Phone             string `json:"phone" binding:"max=20"`
	Email             string `json:"email" binding:"omitempty,email"`
	GSTIN             string `json:"gstin" binding:"omitempty,len=15"`
	BankName          string `json:"bank_name" binding:"max=100"`
	AccountNumber     string `json:"account_number" binding:"max=30"`
	IFSCCode          string `json:"ifsc_code" binding:"omitempty,len=11"`
	BankAddress       string `json:"bank_address" binding:"max=300"`
	UPIID             string `json:"upi_id" binding:"max=100"`
	InvoicePrefix     string `json:"invoice_prefix" binding:"max=20"`
	InvoiceFooterText string `json:"invoice_footer_text" binding:"max=300"`
}

// toProfile maps the request onto the domain's editable fields
func (r UpdateSettingsRequest) toProfile() settings.Profile {
	return settings.Profile{
		ShopName:          r.ShopName,
		Address:           r.Address,
		City:              r.City,
		State:             r.State,
		Phone:             r.Phone,
		Email:             r.Email,
		GSTIN:             r.GSTIN,
		BankName:          r.BankName,
		AccountNumber:     r.AccountNumber,
		IFSCCode:          r.IFSCCode,
		BankAddress:       r.BankAddress,
		UPIID:             r.UPIID,
		InvoicePrefix:     r.InvoicePrefix,
		InvoiceFooterText: r.InvoiceFooterText,
	}
}

// SettingsResponse represents shop settings in API responses
type SettingsResponse struct {
	ShopName          string    `json:"shop_name"`
	Address           string    `json:"address"`
	City              string    `json:"city"`
	State             string    `json:"state"`
	Phone             string    `json:"phone"`
	Email             string    `json:"email"`
	GSTIN             string    `json:"gstin"`
	LogoURL           string    `json:"logo_url"`
	BankName          string    `json:"bank_name"`
	AccountNumber     string    `json:"account_number"`
	IFSCCode          string    `json:"ifsc_code"`
	BankAddress       string    `json:"bank_address"`
	UPIID             string    `json:"upi_id"`
	UPIQRURL          string    `json:"upi_qr_url"`
	InvoicePrefix     string    `json:"invoice_prefix"`
	InvoiceFooterText string    `json:"invoice_footer_text"`
	UpdatedAt         time.Time `json:"updated_at"`
	Version           int       `json:"version"`
}

// ToSettingsResponse converts domain settings to a response
func ToSettingsResponse(s *settings.ShopSettings) SettingsResponse {
	return SettingsResponse{
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
		InvoicePrefix:     s.EffectiveInvoicePrefix(),
		InvoiceFooterText: s.FooterText(),
		UpdatedAt:         s.UpdatedAt,
		Version:           s.Version,
	}
}

// UploadImageRequest is an image received from a multipart form
type UploadImageRequest struct {
	FileName    string
	ContentType string
	Size        int64
	Data        []byte
}
