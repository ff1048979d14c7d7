package settings

import (
	"context"
	"strings"
	"time"

	"github.com/billmaster/backend/internal/domain/shared"
)

const (
	DefaultInvoicePrefix     = "INV"
	DefaultInvoiceFooterText = "Thank You For Business With Us!"
)

// ShopSettings holds the single row of shop-wide configuration printed on invoices
type ShopSettings struct {
	shared.BaseAggregateRoot
	ShopName          string
	Address           string
	City              string
	State             string
	Phone             string
	Email             string
	GSTIN             string
	LogoURL           string
	BankName          string
	AccountNumber     string
	IFSCCode          string
	BankAddress       string
	UPIID             string
	UPIQRURL          string
	InvoicePrefix     string
	InvoiceFooterText string
}

// Defaults returns settings for a shop that has not been configured yet
func Defaults() *ShopSettings {
	return &ShopSettings{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		InvoicePrefix:     DefaultInvoicePrefix,
		InvoiceFooterText: DefaultInvoiceFooterText,
	}
}

// Profile is the editable part of ShopSettings
type Profile struct {
	ShopName          string
	Address           string
	City              string
	State             string
	Phone             string
	Email             string
	GSTIN             string
	BankName          string
	AccountNumber     string
	IFSCCode          string
	BankAddress       string
	UPIID             string
	InvoicePrefix     string
	InvoiceFooterText string
}

// Update replaces the editable fields
func (s *ShopSettings) Update(p Profile) error {
	if strings.TrimSpace(p.ShopName) == "" {
		return shared.NewDomainError("INVALID_SETTINGS", "Shop name is required")
	}
	prefix := strings.TrimSpace(p.InvoicePrefix)
	if strings.ContainsAny(prefix, " /\\") {
		return shared.NewDomainError("INVALID_SETTINGS", "Invoice prefix cannot contain spaces or slashes")
	}

	s.ShopName = strings.TrimSpace(p.ShopName)
	s.Address = p.Address
	s.City = p.City
	s.State = p.State
	s.Phone = p.Phone
	s.Email = p.Email
	s.GSTIN = strings.ToUpper(strings.TrimSpace(p.GSTIN))
	s.BankName = p.BankName
	s.AccountNumber = p.AccountNumber
	s.IFSCCode = strings.ToUpper(strings.TrimSpace(p.IFSCCode))
	s.BankAddress = p.BankAddress
	s.UPIID = p.UPIID
	s.InvoicePrefix = prefix
	s.InvoiceFooterText = p.InvoiceFooterText
	s.touch()
	return nil
}

// SetLogoURL records the uploaded logo location
func (s *ShopSettings) SetLogoURL(url string) {
	s.LogoURL = url
	s.touch()
}

// SetUPIQRURL records the uploaded UPI QR code location
func (s *ShopSettings) SetUPIQRURL(url string) {
	s.UPIQRURL = url
	s.touch()
}

// EffectiveInvoicePrefix returns the configured prefix or the default
func (s *ShopSettings) EffectiveInvoicePrefix() string {
	if s == nil || strings.TrimSpace(s.InvoicePrefix) == "" {
		return DefaultInvoicePrefix
	}
	return s.InvoicePrefix
}

// FooterText returns the configured footer or the default
func (s *ShopSettings) FooterText() string {
	if s == nil || strings.TrimSpace(s.InvoiceFooterText) == "" {
		return DefaultInvoiceFooterText
	}
	return s.InvoiceFooterText
}

func (s *ShopSettings) touch() {
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}

// Repository loads and stores the settings row
type Repository interface {
	// Get returns the stored settings, or ErrNotFound when none exist yet
	Get(ctx context.Context) (*ShopSettings, error)
	Save(ctx context.Context, s *ShopSettings) error
}
