package printing

import (
	"context"
	"errors"
	"fmt"

	"github.com/billmaster/backend/internal/domain/billing"
	"github.com/billmaster/backend/internal/domain/identity"
	"github.com/billmaster/backend/internal/domain/settings"
	"github.com/billmaster/backend/internal/domain/shared"
	infra "github.com/billmaster/backend/internal/infrastructure/printing"
	"github.com/billmaster/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// InvoiceSource loads invoices on behalf of an actor
type InvoiceSource interface {
	GetInvoice(ctx context.Context, actor identity.Actor, invoiceID uuid.UUID) (*billing.Invoice, error)
}

// PDFDocument is a rendered invoice ready for download
type PDFDocument struct {
	FileName string
	Data     []byte
	Pages    int
}

// InvoicePrintService renders printable invoices
type InvoicePrintService struct {
	invoices     InvoiceSource
	settingsRepo settings.Repository
	engine       *infra.TemplateEngine
	renderer     infra.PDFRenderer
	logger       *zap.Logger
}

// NewInvoicePrintService creates a new InvoicePrintService. renderer may be
// nil, in which case only HTML output is available.
func NewInvoicePrintService(
	invoices InvoiceSource,
	settingsRepo settings.Repository,
	engine *infra.TemplateEngine,
	renderer infra.PDFRenderer,
	logger *zap.Logger,
) *InvoicePrintService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InvoicePrintService{
		invoices:     invoices,
		settingsRepo: settingsRepo,
		engine:       engine,
		renderer:     renderer,
		logger:       logger,
	}
}

// RenderHTML returns the printable HTML for an invoice
func (s *InvoicePrintService) RenderHTML(ctx context.Context, actor identity.Actor, invoiceID uuid.UUID) (string, error) {
	inv, err := s.invoices.GetInvoice(ctx, actor, invoiceID)
	if err != nil {
		return "", err
	}
	shop, err := s.loadSettings(ctx)
	if err != nil {
		return "", err
	}
	html, err := s.engine.RenderInvoice(BuildInvoiceView(inv, shop))
	if err != nil {
		s.logger.Error("Failed to render invoice template", zap.String("invoice_number", inv.InvoiceNumber), zap.Error(err))
		return "", err
	}
	return html, nil
}

// RenderPDF returns the invoice as an A4 PDF
func (s *InvoicePrintService) RenderPDF(ctx context.Context, actor identity.Actor, invoiceID uuid.UUID) (*PDFDocument, error) {
	if s.renderer == nil {
		return nil, shared.NewDomainError("PDF_UNAVAILABLE", "PDF rendering is not configured")
	}
	inv, err := s.invoices.GetInvoice(ctx, actor, invoiceID)
	if err != nil {
		return nil, err
	}
	shop, err := s.loadSettings(ctx)
	if err != nil {
		return nil, err
	}
	html, err := s.engine.RenderInvoice(BuildInvoiceView(inv, shop))
	if err != nil {
		return nil, err
	}

	var result *infra.RenderResult
	telemetry.WithProfilingLabels(ctx, map[string]string{"operation": "render_invoice_pdf"}, func(ctx context.Context) {
		result, err = s.renderer.Render(ctx, &infra.RenderRequest{
			HTML:      html,
			PaperSize: infra.PaperSizeA4,
			Margins:   infra.DefaultMargins(),
			Title:     "Invoice " + inv.InvoiceNumber,
		})
	})
	if err != nil {
		s.logger.Error("Failed to render invoice PDF", zap.String("invoice_number", inv.InvoiceNumber), zap.Error(err))
		return nil, fmt.Errorf("render invoice %s: %w", inv.InvoiceNumber, err)
	}
	s.logger.Info("Invoice PDF rendered",
		zap.String("invoice_number", inv.InvoiceNumber),
		zap.Int("pages", result.PageCount),
		zap.Duration("duration", result.RenderDuration))

	return &PDFDocument{
		FileName: inv.InvoiceNumber + ".pdf",
		Data:     result.PDFData,
		Pages:    result.PageCount,
	}, nil
}

func (s *InvoicePrintService) loadSettings(ctx context.Context) (*settings.ShopSettings, error) {
	shop, err := s.settingsRepo.Get(ctx)
	if errors.Is(err, shared.ErrNotFound) {
		return settings.Defaults(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load shop settings: %w", err)
	}
	return shop, nil
}

// BuildInvoiceView maps an invoice and the shop profile onto the print layout
func BuildInvoiceView(inv *billing.Invoice, shop *settings.ShopSettings) *infra.InvoiceView {
	lines := make([]infra.LineView, len(inv.Items))
	for i, it := range inv.Items {
		lines[i] = infra.LineView{
			Name:     it.Name,
			HSNCode:  it.HSNCode,
			Quantity: it.Quantity,
			Unit:     it.Unit.String(),
			Rate:     it.Rate,
			Subtotal: it.Subtotal,
		}
	}
	return &infra.InvoiceView{
		Shop: infra.ShopView{
			Name:          shop.ShopName,
			Address:       shop.Address,
			City:          shop.City,
			State:         shop.State,
			Phone:         shop.Phone,
			Email:         shop.Email,
			GSTIN:         shop.GSTIN,
			LogoURL:       shop.LogoURL,
			BankName:      shop.BankName,
			AccountNumber: shop.AccountNumber,
			IFSCCode:      shop.IFSCCode,
			BankAddress:   shop.BankAddress,
			UPIID:         shop.UPIID,
			UPIQRURL:      shop.UPIQRURL,
			FooterText:    shop.FooterText(),
		},
		InvoiceNumber:   inv.InvoiceNumber,
		InvoiceDate:     inv.CreatedAt,
		PaymentMode:     string(inv.PaymentMode),
		DueDate:         inv.DueDate,
		Cancelled:       inv.Status == billing.StatusCancelled,
		CustomerName:    inv.CustomerName,
		CustomerAddress: inv.CustomerAddress,
		CustomerPhone:   inv.CustomerPhone,
		Lines:           lines,
		Subtotal:        inv.Subtotal,
		Discount:        inv.Discount,
		RoundingOff:     inv.RoundingOff,
		GrandTotal:      inv.GrandTotal,
		AmountPaid:      inv.AmountPaid,
		BalanceDue:      inv.BalanceDue,
	}
}
