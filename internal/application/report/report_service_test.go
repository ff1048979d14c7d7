package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/billmaster/backend/internal/domain/identity"
	"github.com/billmaster/backend/internal/domain/inventory"
	"github.com/billmaster/backend/internal/domain/report"
	"github.com/billmaster/backend/internal/domain/shared"
	"github.com/billmaster/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var clerk = identity.Actor{Email: "clerk@shop.in", Role: identity.RoleUser}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newTestService() (*ReportService, *MockReportRepository, *MockItemRepository, *MockCustomerRepository) {
	reports := new(MockReportRepository)
	items := new(MockItemRepository)
	customers := new(MockCustomerRepository)
	svc := NewReportService(reports, items, customers, identity.DefaultPolicy(), zap.NewNop())
	svc.SetClock(func() time.Time { return time.Date(2026, 3, 14, 15, 30, 0, 0, time.UTC) })
	return svc, reports, items, customers
}

func TestReportService_SalesSummary(t *testing.T) {
	svc, reports, _, _ := newTestService()
	from, end := day(2026, 3, 1), day(2026, 3, 11)
	reports.On("SalesByPaymentMode", mock.Anything, from, end).Return([]report.PaymentModeTotal{
		{PaymentMode: "cash", Count: 3, Total: decimal.NewFromInt(1200)},
		{PaymentMode: "credit", Count: 1, Total: decimal.NewFromInt(800)},
	}, nil)
	reports.On("DiscountTotal", mock.Anything, from, end).Return(decimal.NewFromInt(50), nil)
	asha := uuid.New()
	reports.On("TopCustomers", mock.Anything, from, end, report.TopCustomerLimit).Return([]report.CustomerSales{
		{CustomerID: asha, CustomerName: "Asha", InvoiceCount: 3, Total: decimal.NewFromInt(1500)},
	}, nil)

	resp, err := svc.SalesSummary(context.Background(), clerk, SalesSummaryRequest{
		From: day(2026, 3, 1),
		To:   time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(4), resp.InvoiceCount)
	assert.True(t, resp.TotalSales.Equal(decimal.NewFromInt(2000)))
	assert.True(t, resp.TotalDiscount.Equal(decimal.NewFromInt(50)))
	assert.Equal(t, "2026-03-01", resp.From)
	assert.Equal(t, "2026-03-10", resp.To)
	require.Len(t, resp.ByPaymentMode, 4, "every mode is listed")
	var order []string
	for _, m := range resp.ByPaymentMode {
		order = append(order, m.PaymentMode)
	}
	assert.Equal(t, []string{"cash", "card", "upi", "credit"}, order)
	assert.Equal(t, int64(0), resp.ByPaymentMode[1].Count)
	assert.True(t, resp.ByPaymentMode[1].Total.IsZero())
	assert.Equal(t, int64(1), resp.ByPaymentMode[3].Count)
	assert.Equal(t, "500", resp.AverageInvoice.String())
	require.Len(t, resp.TopCustomers, 1)
	assert.Equal(t, asha, resp.TopCustomers[0].CustomerID)
	assert.Equal(t, int64(3), resp.TopCustomers[0].InvoiceCount)
}

func TestReportService_SalesSummary_InvertedRange(t *testing.T) {
	svc, reports, _, _ := newTestService()

	_, err := svc.SalesSummary(context.Background(), clerk, SalesSummaryRequest{
		From: day(2026, 3, 10),
		To:   day(2026, 3, 1),
	})
	assert.Equal(t, "INVALID_INPUT", shared.ErrorCode(err))
	reports.AssertNotCalled(t, "SalesByPaymentMode", mock.Anything, mock.Anything, mock.Anything)
}

func TestReportService_Dashboard(t *testing.T) {
	svc, reports, _, customers := newTestService()
	today, tomorrow := day(2026, 3, 14), day(2026, 3, 15)

	reports.On("SalesByPaymentMode", mock.Anything, today, tomorrow).Return([]report.PaymentModeTotal{
		{PaymentMode: "upi", Count: 2, Total: decimal.NewFromInt(300)},
	}, nil)
	reports.On("DiscountTotal", mock.Anything, today, tomorrow).Return(decimal.Zero, nil)
	reports.On("SalesByPaymentMode", mock.Anything, day(2026, 3, 1), day(2026, 4, 1)).Return([]report.PaymentModeTotal{
		{PaymentMode: "upi", Count: 9, Total: decimal.NewFromInt(4500)},
	}, nil)
	reports.On("DiscountTotal", mock.Anything, day(2026, 3, 1), day(2026, 4, 1)).Return(decimal.Zero, nil)
	reports.On("CountLowStock", mock.Anything).Return(int64(3), nil)
	reports.On("CountDueBetween", mock.Anything, tomorrow, day(2026, 3, 16)).Return(int64(2), nil)
	reports.On("CountPendingCancellations", mock.Anything).Return(int64(1), nil)
	customers.On("SumOutstandingCredit", mock.Anything).Return(decimal.NewFromInt(1800), nil)

	resp, err := svc.Dashboard(context.Background(), clerk)
	require.NoError(t, err)
	assert.True(t, resp.TodaySales.Equal(decimal.NewFromInt(300)))
	assert.Equal(t, int64(2), resp.TodayInvoiceCount)
	assert.True(t, resp.MonthSales.Equal(decimal.NewFromInt(4500)))
	assert.Equal(t, int64(3), resp.LowStockCount)
	assert.Equal(t, int64(2), resp.DueTomorrowCount)
	assert.Equal(t, int64(1), resp.PendingCancellations)
	assert.True(t, resp.TotalOutstandingCredit.Equal(decimal.NewFromInt(1800)))
}

func TestReportService_Dashboard_StoreError(t *testing.T) {
	svc, reports, _, _ := newTestService()
	reports.On("SalesByPaymentMode", mock.Anything, mock.Anything, mock.Anything).
		Return([]report.PaymentModeTotal(nil), errors.New("db down"))

	_, err := svc.Dashboard(context.Background(), clerk)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
}

func TestReportService_LowStock(t *testing.T) {
	svc, _, items, _ := newTestService()
	washer, err := inventory.NewItem("Washer", valueobject.UnitBox, decimal.NewFromInt(1), decimal.NewFromInt(5))
	require.NoError(t, err)
	items.On("FindLowStock", mock.Anything).Return([]inventory.Item{*washer}, nil)

	resp, err := svc.LowStock(context.Background(), clerk)
	require.NoError(t, err)
	require.Len(t, resp, 1)
	assert.Equal(t, "Washer", resp[0].Name)
	assert.Equal(t, "box", resp[0].Unit)
}

func TestReportService_Forbidden(t *testing.T) {
	svc, _, _, _ := newTestService()
	stranger := identity.Actor{Email: "x@y.z", Role: identity.Role("guest")}

	_, err := svc.Dashboard(context.Background(), stranger)
	assert.ErrorIs(t, err, shared.ErrForbidden)
}

func TestReportService_CustomerReport(t *testing.T) {
	svc, reports, _, customers := newTestService()
	from, end := day(2026, 3, 1), day(2026, 4, 1)
	asha, ravi := uuid.New(), uuid.New()

	reports.On("CountCustomers", mock.Anything).Return(int64(12), nil)
	reports.On("CountBuyingCustomers", mock.Anything, from, end).Return(int64(2), nil)
	customers.On("SumOutstandingCredit", mock.Anything).Return(decimal.NewFromInt(2300), nil)
	reports.On("TopCustomers", mock.Anything, from, end, report.TopCustomerLimit).Return([]report.CustomerSales{
		{CustomerID: asha, CustomerName: "Asha", InvoiceCount: 4, Total: decimal.NewFromInt(5200)},
		{CustomerID: ravi, CustomerName: "Ravi", InvoiceCount: 1, Total: decimal.NewFromInt(700)},
	}, nil)
	reports.On("CustomersOwing", mock.Anything).Return([]report.CustomerCredit{
		{CustomerID: ravi, Name: "Ravi", Phone: "9800000002", OutstandingCredit: decimal.NewFromInt(2300)},
	}, nil)

	resp, err := svc.CustomerReport(context.Background(), clerk, CustomerReportRequest{From: from, To: day(2026, 3, 31)})
	require.NoError(t, err)
	assert.Equal(t, "2026-03-01", resp.From)
	assert.Equal(t, "2026-03-31", resp.To)
	assert.Equal(t, int64(12), resp.TotalCustomers)
	assert.Equal(t, int64(2), resp.BuyingCustomers)
	assert.True(t, resp.TotalOutstanding.Equal(decimal.NewFromInt(2300)))
	require.Len(t, resp.TopCustomers, 2)
	assert.Equal(t, "Asha", resp.TopCustomers[0].CustomerName)
	require.Len(t, resp.Owing, 1)
	assert.Equal(t, ravi, resp.Owing[0].CustomerID)
}

func TestReportService_CustomerReport_InvertedRange(t *testing.T) {
	svc, reports, _, _ := newTestService()

	_, err := svc.CustomerReport(context.Background(), clerk, CustomerReportRequest{From: day(2026, 3, 10), To: day(2026, 3, 1)})
	assert.Equal(t, "INVALID_INPUT", shared.ErrorCode(err))
	reports.AssertNotCalled(t, "CountCustomers", mock.Anything)
}

func TestReportService_InventoryReport(t *testing.T) {
	svc, reports, items, _ := newTestService()
	washer, err := inventory.NewItem("Washer", valueobject.UnitBox, decimal.NewFromInt(1), decimal.NewFromInt(5))
	require.NoError(t, err)
	reports.On("CountItems", mock.Anything).Return(int64(40), int64(37), nil)
	items.On("FindLowStock", mock.Anything).Return([]inventory.Item{*washer}, nil)

	resp, err := svc.InventoryReport(context.Background(), clerk)
	require.NoError(t, err)
	assert.Equal(t, int64(40), resp.TotalItems)
	assert.Equal(t, int64(37), resp.ActiveItems)
	require.Len(t, resp.LowStock, 1)
	assert.Equal(t, "Washer", resp.LowStock[0].Name)
}
