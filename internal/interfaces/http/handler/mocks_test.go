package handler

import (
	"context"

	"github.com/billmaster/backend/internal/application/audit"
	"github.com/billmaster/backend/internal/application/billing"
	"github.com/billmaster/backend/internal/application/inventory"
	"github.com/billmaster/backend/internal/application/partner"
	"github.com/billmaster/backend/internal/application/printing"
	"github.com/billmaster/backend/internal/application/report"
	"github.com/billmaster/backend/internal/application/settings"
	"github.com/billmaster/backend/internal/domain/identity"
	"github.com/billmaster/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// result returns args.Get(0) as *T, tolerating a nil first value
func result[T any](args mock.Arguments) *T {
	if v := args.Get(0); v != nil {
		return v.(*T)
	}
	return nil
}

type MockInvoiceService struct {
	mock.Mock
}

func (m *MockInvoiceService) Quote(ctx context.Context, actor identity.Actor, req billing.QuoteRequest) (*billing.QuoteResponse, error) {
	args := m.Called(ctx, actor, req)
	return result[billing.QuoteResponse](args), args.Error(1)
}

func (m *MockInvoiceService) Create(ctx context.Context, actor identity.Actor, req billing.CreateInvoiceRequest) (*billing.InvoiceResponse, error) {
	args := m.Called(ctx, actor, req)
	return result[billing.InvoiceResponse](args), args.Error(1)
}

func (m *MockInvoiceService) RecordPayment(ctx context.Context, actor identity.Actor, id uuid.UUID, req billing.RecordPaymentRequest) (*billing.InvoiceResponse, error) {
	args := m.Called(ctx, actor, id, req)
	return result[billing.InvoiceResponse](args), args.Error(1)
}

func (m *MockInvoiceService) RequestCancellation(ctx context.Context, actor identity.Actor, id uuid.UUID, req billing.CancellationRequest) (*billing.InvoiceResponse, error) {
	args := m.Called(ctx, actor, id, req)
	return result[billing.InvoiceResponse](args), args.Error(1)
}

func (m *MockInvoiceService) ApproveCancellation(ctx context.Context, actor identity.Actor, id uuid.UUID) (*billing.InvoiceResponse, error) {
	args := m.Called(ctx, actor, id)
	return result[billing.InvoiceResponse](args), args.Error(1)
}

func (m *MockInvoiceService) RejectCancellation(ctx context.Context, actor identity.Actor, id uuid.UUID, req billing.CancellationRequest) (*billing.InvoiceResponse, error) {
	args := m.Called(ctx, actor, id, req)
	return result[billing.InvoiceResponse](args), args.Error(1)
}

func (m *MockInvoiceService) Get(ctx context.Context, actor identity.Actor, id uuid.UUID) (*billing.InvoiceResponse, error) {
	args := m.Called(ctx, actor, id)
	return result[billing.InvoiceResponse](args), args.Error(1)
}

func (m *MockInvoiceService) GetByNumber(ctx context.Context, actor identity.Actor, number string) (*billing.InvoiceResponse, error) {
	args := m.Called(ctx, actor, number)
	return result[billing.InvoiceResponse](args), args.Error(1)
}

func (m *MockInvoiceService) List(ctx context.Context, actor identity.Actor, req billing.ListInvoicesRequest) (*shared.Paginated[billing.InvoiceResponse], error) {
	args := m.Called(ctx, actor, req)
	return result[shared.Paginated[billing.InvoiceResponse]](args), args.Error(1)
}

func (m *MockInvoiceService) ListCreditDues(ctx context.Context, actor identity.Actor, which billing.DueFilter, page, pageSize int) (*shared.Paginated[billing.CreditDueResponse], error) {
	args := m.Called(ctx, actor, which, page, pageSize)
	return result[shared.Paginated[billing.CreditDueResponse]](args), args.Error(1)
}

type MockInvoicePrinter struct {
	mock.Mock
}

func (m *MockInvoicePrinter) RenderHTML(ctx context.Context, actor identity.Actor, id uuid.UUID) (string, error) {
	args := m.Called(ctx, actor, id)
	return args.String(0), args.Error(1)
}

func (m *MockInvoicePrinter) RenderPDF(ctx context.Context, actor identity.Actor, id uuid.UUID) (*printing.PDFDocument, error) {
	args := m.Called(ctx, actor, id)
	return result[printing.PDFDocument](args), args.Error(1)
}

type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) SalesSummary(ctx context.Context, actor identity.Actor, req report.SalesSummaryRequest) (*report.SalesSummaryResponse, error) {
	args := m.Called(ctx, actor, req)
	return result[report.SalesSummaryResponse](args), args.Error(1)
}

func (m *MockReportService) Dashboard(ctx context.Context, actor identity.Actor) (*report.DashboardResponse, error) {
	args := m.Called(ctx, actor)
	return result[report.DashboardResponse](args), args.Error(1)
}

func (m *MockReportService) LowStock(ctx context.Context, actor identity.Actor) ([]report.LowStockItemResponse, error) {
	args := m.Called(ctx, actor)
	items, _ := args.Get(0).([]report.LowStockItemResponse)
	return items, args.Error(1)
}

func (m *MockReportService) CustomerReport(ctx context.Context, actor identity.Actor, req report.CustomerReportRequest) (*report.CustomerReportResponse, error) {
	args := m.Called(ctx, actor, req)
	return result[report.CustomerReportResponse](args), args.Error(1)
}

func (m *MockReportService) InventoryReport(ctx context.Context, actor identity.Actor) (*report.InventoryReportResponse, error) {
	args := m.Called(ctx, actor)
	return result[report.InventoryReportResponse](args), args.Error(1)
}

type MockAuditLogService struct {
	mock.Mock
}

func (m *MockAuditLogService) List(ctx context.Context, actor identity.Actor, req audit.ListAuditLogsRequest) (*shared.Paginated[audit.AuditLogResponse], error) {
	args := m.Called(ctx, actor, req)
	return result[shared.Paginated[audit.AuditLogResponse]](args), args.Error(1)
}

type MockSettingsService struct {
	mock.Mock
}

func (m *MockSettingsService) Get(ctx context.Context, actor identity.Actor) (*settings.SettingsResponse, error) {
	args := m.Called(ctx, actor)
	return result[settings.SettingsResponse](args), args.Error(1)
}

func (m *MockSettingsService) Update(ctx context.Context, actor identity.Actor, req settings.UpdateSettingsRequest) (*settings.SettingsResponse, error) {
	args := m.Called(ctx, actor, req)
	return result[settings.SettingsResponse](args), args.Error(1)
}

func (m *MockSettingsService) UploadLogo(ctx context.Context, actor identity.Actor, req settings.UploadImageRequest) (*settings.SettingsResponse, error) {
	args := m.Called(ctx, actor, req)
	return result[settings.SettingsResponse](args), args.Error(1)
}

func (m *MockSettingsService) UploadUPIQR(ctx context.Context, actor identity.Actor, req settings.UploadImageRequest) (*settings.SettingsResponse, error) {
	args := m.Called(ctx, actor, req)
	return result[settings.SettingsResponse](args), args.Error(1)
}

type MockItemService struct {
	mock.Mock
}

func (m *MockItemService) Create(ctx context.Context, actor identity.Actor, req inventory.CreateItemRequest) (*inventory.ItemResponse, error) {
	args := m.Called(ctx, actor, req)
	return result[inventory.ItemResponse](args), args.Error(1)
}

func (m *MockItemService) Get(ctx context.Context, actor identity.Actor, id uuid.UUID) (*inventory.ItemResponse, error) {
	args := m.Called(ctx, actor, id)
	return result[inventory.ItemResponse](args), args.Error(1)
}

func (m *MockItemService) List(ctx context.Context, actor identity.Actor, req inventory.ListItemsRequest) (*shared.Paginated[inventory.ItemResponse], error) {
	args := m.Called(ctx, actor, req)
	return result[shared.Paginated[inventory.ItemResponse]](args), args.Error(1)
}

func (m *MockItemService) Update(ctx context.Context, actor identity.Actor, id uuid.UUID, req inventory.UpdateItemRequest) (*inventory.ItemResponse, error) {
	args := m.Called(ctx, actor, id, req)
	return result[inventory.ItemResponse](args), args.Error(1)
}

func (m *MockItemService) Delete(ctx context.Context, actor identity.Actor, id uuid.UUID) error {
	return m.Called(ctx, actor, id).Error(0)
}

type MockCategoryService struct {
	mock.Mock
}

func (m *MockCategoryService) Create(ctx context.Context, actor identity.Actor, req inventory.CreateCategoryRequest) (*inventory.CategoryResponse, error) {
	args := m.Called(ctx, actor, req)
	return result[inventory.CategoryResponse](args), args.Error(1)
}

func (m *MockCategoryService) List(ctx context.Context, actor identity.Actor) ([]inventory.CategoryResponse, error) {
	args := m.Called(ctx, actor)
	categories, _ := args.Get(0).([]inventory.CategoryResponse)
	return categories, args.Error(1)
}

func (m *MockCategoryService) Update(ctx context.Context, actor identity.Actor, id uuid.UUID, req inventory.UpdateCategoryRequest) (*inventory.CategoryResponse, error) {
	args := m.Called(ctx, actor, id, req)
	return result[inventory.CategoryResponse](args), args.Error(1)
}

func (m *MockCategoryService) Delete(ctx context.Context, actor identity.Actor, id uuid.UUID) error {
	return m.Called(ctx, actor, id).Error(0)
}

type MockCustomerService struct {
	mock.Mock
}

func (m *MockCustomerService) Create(ctx context.Context, actor identity.Actor, req partner.CreateCustomerRequest) (*partner.CustomerResponse, error) {
	args := m.Called(ctx, actor, req)
	return result[partner.CustomerResponse](args), args.Error(1)
}

func (m *MockCustomerService) Get(ctx context.Context, actor identity.Actor, id uuid.UUID) (*partner.CustomerResponse, error) {
	args := m.Called(ctx, actor, id)
	return result[partner.CustomerResponse](args), args.Error(1)
}

func (m *MockCustomerService) List(ctx context.Context, actor identity.Actor, req partner.ListCustomersRequest) (*shared.Paginated[partner.CustomerResponse], error) {
	args := m.Called(ctx, actor, req)
	return result[shared.Paginated[partner.CustomerResponse]](args), args.Error(1)
}

func (m *MockCustomerService) Update(ctx context.Context, actor identity.Actor, id uuid.UUID, req partner.UpdateCustomerRequest) (*partner.CustomerResponse, error) {
	args := m.Called(ctx, actor, id, req)
	return result[partner.CustomerResponse](args), args.Error(1)
}

func (m *MockCustomerService) Delete(ctx context.Context, actor identity.Actor, id uuid.UUID) error {
	return m.Called(ctx, actor, id).Error(0)
}
