package report

import (
	"context"
	"fmt"
	"time"

	"github.com/billmaster/backend/internal/domain/billing"
	"github.com/billmaster/backend/internal/domain/identity"
	"github.com/billmaster/backend/internal/domain/inventory"
	"github.com/billmaster/backend/internal/domain/partner"
	"github.com/billmaster/backend/internal/domain/report"
	"github.com/billmaster/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ReportService answers read-only sales and stock questions
type ReportService struct {
	reportRepo   report.Repository
	itemRepo     inventory.ItemRepository
	customerRepo partner.CustomerRepository
	policy       identity.Policy
	now          func() time.Time
	logger       *zap.Logger
}

// NewReportService creates a new ReportService
func NewReportService(
	reportRepo report.Repository,
	itemRepo inventory.ItemRepository,
	customerRepo partner.CustomerRepository,
	policy identity.Policy,
	logger *zap.Logger,
) *ReportService {
	return &ReportService{
		reportRepo:   reportRepo,
		itemRepo:     itemRepo,
		customerRepo: customerRepo,
		policy:       policy,
		now:          time.Now,
		logger:       logger,
	}
}

// SetClock overrides the time source
func (s *ReportService) SetClock(now func() time.Time) {
	s.now = now
}

// SalesSummary totals active invoices created between the two dates, both inclusive
func (s *ReportService) SalesSummary(ctx context.Context, actor identity.Actor, req SalesSummaryRequest) (*SalesSummaryResponse, error) {
	if err := identity.Authorize(s.policy, actor, identity.PermReportRead); err != nil {
		return nil, err
	}
	from := billing.DateOf(req.From)
	to := billing.DateOf(req.To)
	if to.Before(from) {
		return nil, shared.NewDomainError("INVALID_INPUT", "End date must not be before start date")
	}
	end := to.AddDate(0, 0, 1)

	summary, err := s.summarize(ctx, from, end)
	if err != nil {
		return nil, err
	}
	summary.ByPaymentMode = withEveryPaymentMode(summary.ByPaymentMode)
	top, err := s.reportRepo.TopCustomers(ctx, from, end, report.TopCustomerLimit)
	if err != nil {
		return nil, s.storeError("top customers", err)
	}
	resp := toSalesSummaryResponse(summary, top, to)
	return &resp, nil
}

// CustomerReport ranks customers by sales between two inclusive dates and
// lists everyone who still owes credit
func (s *ReportService) CustomerReport(ctx context.Context, actor identity.Actor, req CustomerReportRequest) (*CustomerReportResponse, error) {
	if err := identity.Authorize(s.policy, actor, identity.PermReportRead); err != nil {
		return nil, err
	}
	from := billing.DateOf(req.From)
	to := billing.DateOf(req.To)
	if to.Before(from) {
		return nil, shared.NewDomainError("INVALID_INPUT", "End date must not be before start date")
	}
	end := to.AddDate(0, 0, 1)

	var summary report.CustomerSummary
	var err error
	if summary.TotalCustomers, err = s.reportRepo.CountCustomers(ctx); err != nil {
		return nil, s.storeError("count customers", err)
	}
	if summary.BuyingCustomers, err = s.reportRepo.CountBuyingCustomers(ctx, from, end); err != nil {
		return nil, s.storeError("count buying customers", err)
	}
	if summary.TotalOutstanding, err = s.customerRepo.SumOutstandingCredit(ctx); err != nil {
		return nil, s.storeError("sum outstanding credit", err)
	}
	if summary.TopCustomers, err = s.reportRepo.TopCustomers(ctx, from, end, report.TopCustomerLimit); err != nil {
		return nil, s.storeError("top customers", err)
	}
	if summary.Owing, err = s.reportRepo.CustomersOwing(ctx); err != nil {
		return nil, s.storeError("customers owing", err)
	}

	resp := toCustomerReportResponse(summary, from, to)
	return &resp, nil
}

// InventoryReport counts items and lists the ones running low
func (s *ReportService) InventoryReport(ctx context.Context, actor identity.Actor) (*InventoryReportResponse, error) {
	if err := identity.Authorize(s.policy, actor, identity.PermReportRead); err != nil {
		return nil, err
	}
	total, active, err := s.reportRepo.CountItems(ctx)
	if err != nil {
		return nil, s.storeError("count items", err)
	}
	low, err := s.itemRepo.FindLowStock(ctx)
	if err != nil {
		return nil, s.storeError("find low stock", err)
	}
	return &InventoryReportResponse{
		TotalItems:  total,
		ActiveItems: active,
		LowStock:    toLowStockResponses(low),
	}, nil
}

// Dashboard builds the landing-page snapshot for today
func (s *ReportService) Dashboard(ctx context.Context, actor identity.Actor) (*DashboardResponse, error) {
	if err := identity.Authorize(s.policy, actor, identity.PermReportRead); err != nil {
		return nil, err
	}
	today := billing.DateOf(s.now())
	tomorrow := today.AddDate(0, 0, 1)
	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())

	daily, err := s.summarize(ctx, today, tomorrow)
	if err != nil {
		return nil, err
	}
	monthly, err := s.summarize(ctx, monthStart, monthStart.AddDate(0, 1, 0))
	if err != nil {
		return nil, err
	}

	lowStock, err := s.reportRepo.CountLowStock(ctx)
	if err != nil {
		return nil, s.storeError("count low stock", err)
	}
	dueTomorrow, err := s.reportRepo.CountDueBetween(ctx, tomorrow, tomorrow.AddDate(0, 0, 1))
	if err != nil {
		return nil, s.storeError("count dues", err)
	}
	pending, err := s.reportRepo.CountPendingCancellations(ctx)
	if err != nil {
		return nil, s.storeError("count pending cancellations", err)
	}
	outstanding, err := s.customerRepo.SumOutstandingCredit(ctx)
	if err != nil {
		return nil, s.storeError("sum outstanding credit", err)
	}

	return &DashboardResponse{
		TodaySales:             daily.TotalSales,
		TodayInvoiceCount:      daily.InvoiceCount,
		MonthSales:             monthly.TotalSales,
		LowStockCount:          lowStock,
		DueTomorrowCount:       dueTomorrow,
		PendingCancellations:   pending,
		TotalOutstandingCredit: outstanding,
	}, nil
}

// LowStock lists active items at or below their alert level
func (s *ReportService) LowStock(ctx context.Context, actor identity.Actor) ([]LowStockItemResponse, error) {
	if err := identity.Authorize(s.policy, actor, identity.PermReportRead); err != nil {
		return nil, err
	}
	items, err := s.itemRepo.FindLowStock(ctx)
	if err != nil {
		return nil, s.storeError("find low stock", err)
	}
	return toLowStockResponses(items), nil
}

func (s *ReportService) summarize(ctx context.Context, from, to time.Time) (report.SalesSummary, error) {
	modes, err := s.reportRepo.SalesByPaymentMode(ctx, from, to)
	if err != nil {
		return report.SalesSummary{}, s.storeError("sales by payment mode", err)
	}
	discount, err := s.reportRepo.DiscountTotal(ctx, from, to)
	if err != nil {
		return report.SalesSummary{}, s.storeError("discount total", err)
	}
	return report.Summarize(from, to, modes, discount), nil
}

// withEveryPaymentMode lists every payment mode in display order, with zero
// rows for modes that had no sales
func withEveryPaymentMode(rows []report.PaymentModeTotal) []report.PaymentModeTotal {
	byMode := make(map[string]report.PaymentModeTotal, len(rows))
	for _, r := range rows {
		byMode[r.PaymentMode] = r
	}
	out := make([]report.PaymentModeTotal, 0, len(rows))
	for _, mode := range billing.AllPaymentModes() {
		row, ok := byMode[string(mode)]
		if !ok {
			row = report.PaymentModeTotal{PaymentMode: string(mode), Total: decimal.Zero}
		}
		out = append(out, row)
		delete(byMode, string(mode))
	}
	for _, r := range rows {
		if _, ok := byMode[r.PaymentMode]; ok {
			out = append(out, r)
		}
	}
	return out
}

func (s *ReportService) storeError(op string, err error) error {
	s.logger.Error("Report query failed", zap.String("query", op), zap.Error(err))
	return fmt.Errorf("%s: %w", op, err)
}
