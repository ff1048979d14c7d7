package persistence

import (
	"context"
	"time"

	"github.com/billmaster/backend/internal/domain/billing"
	"github.com/billmaster/backend/internal/domain/inventory"
	"github.com/billmaster/backend/internal/domain/report"
	"github.com/billmaster/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormReportRepository implements report.Repository with aggregate queries
type GormReportRepository struct {
	db *gorm.DB
}

// NewGormReportRepository creates a new GormReportRepository
func NewGormReportRepository(db *gorm.DB) *GormReportRepository {
	return &GormReportRepository{db: db}
}

// salesInRange selects active invoices created in [from, to). Invoices
// awaiting a cancellation decision are not counted as sales.
func (r *GormReportRepository) salesInRange(ctx context.Context, from, to time.Time) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.InvoiceModel{}).
		Where("status = ? AND created_at >= ? AND created_at < ?", billing.StatusActive, from, to)
}

// SalesByPaymentMode totals sales per payment mode
func (r *GormReportRepository) SalesByPaymentMode(ctx context.Context, from, to time.Time) ([]report.PaymentModeTotal, error) {
	var rows []struct {
		PaymentMode string
		Count       int64
		Total       decimal.NullDecimal
	}
	if err := r.salesInRange(ctx, from, to).
		Select("payment_mode, COUNT(*) AS count, SUM(grand_total) AS total").
		Group("payment_mode").
		Order("payment_mode").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	totals := make([]report.PaymentModeTotal, len(rows))
	for i, row := range rows {
		totals[i] = report.PaymentModeTotal{
			PaymentMode: row.PaymentMode,
			Count:       row.Count,
			Total:       row.Total.Decimal,
		}
	}
	return totals, nil
}

// DiscountTotal sums discounts given over the range
func (r *GormReportRepository) DiscountTotal(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	var result struct {
		Total decimal.NullDecimal
	}
	if err := r.salesInRange(ctx, from, to).
		Select("SUM(discount) AS total").
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	if !result.Total.Valid {
		return decimal.Zero, nil
	}
	return result.Total.Decimal, nil
}

// CountLowStock counts active items at or below their alert level
func (r *GormReportRepository) CountLowStock(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ItemModel{}).
		Where("status = ? AND quantity_in_stock <= minimum_stock_alert", inventory.ItemStatusActive).
		Count(&count).Error
	return count, err
}

// CountDueBetween counts outstanding credit invoices due in [from, to)
func (r *GormReportRepository) CountDueBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var count int64
	err := outstandingCredit(r.db.WithContext(ctx).Model(&models.InvoiceModel{})).
		Where("due_date >= ? AND due_date < ?", from, to).
		Count(&count).Error
	return count, err
}

// CountPendingCancellations counts invoices awaiting an admin decision
func (r *GormReportRepository) CountPendingCancellations(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.InvoiceModel{}).
		Where("status = ?", billing.StatusPendingCancel).
		Count(&count).Error
	return count, err
}

// TopCustomers ranks customers by sales over the range, largest first
func (r *GormReportRepository) TopCustomers(ctx context.Context, from, to time.Time, limit int) ([]report.CustomerSales, error) {
	var rows []struct {
		CustomerID   uuid.UUID
		CustomerName string
		Count        int64
		Total        decimal.NullDecimal
	}
	if err := r.salesInRange(ctx, from, to).
		Select("customer_id, MAX(customer_name) AS customer_name, COUNT(*) AS count, SUM(grand_total) AS total").
		Group("customer_id").
		Order("total DESC, customer_name ASC").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	ranked := make([]report.CustomerSales, len(rows))
	for i, row := range rows {
		ranked[i] = report.CustomerSales{
			CustomerID:   row.CustomerID,
			CustomerName: row.CustomerName,
			InvoiceCount: row.Count,
			Total:        row.Total.Decimal,
		}
	}
	return ranked, nil
}

// CountBuyingCustomers counts distinct customers with a sale in the range
func (r *GormReportRepository) CountBuyingCustomers(ctx context.Context, from, to time.Time) (int64, error) {
	var count int64
	err := r.salesInRange(ctx, from, to).
		Distinct("customer_id").
		Count(&count).Error
	return count, err
}

// CountCustomers counts every customer on file
func (r *GormReportRepository) CountCustomers(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.CustomerModel{}).Count(&count).Error
	return count, err
}

// CustomersOwing lists customers with outstanding credit, largest balance first
func (r *GormReportRepository) CustomersOwing(ctx context.Context) ([]report.CustomerCredit, error) {
	var rows []models.CustomerModel
	if err := r.db.WithContext(ctx).
		Where("outstanding_credit > 0").
		Order("outstanding_credit DESC, name ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	owing := make([]report.CustomerCredit, len(rows))
	for i, row := range rows {
		owing[i] = report.CustomerCredit{
			CustomerID:        row.ID,
			Name:              row.Name,
			Phone:             row.Phone,
			OutstandingCredit: row.OutstandingCredit,
		}
	}
	return owing, nil
}

// CountItems returns the number of items on file and how many are active
func (r *GormReportRepository) CountItems(ctx context.Context) (total, active int64, err error) {
	var row struct {
		Total  int64
		Active int64
	}
	err = r.db.WithContext(ctx).
		Model(&models.ItemModel{}).
		Select("COUNT(*) AS total, COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS active", inventory.ItemStatusActive).
		Scan(&row).Error
	return row.Total, row.Active, err
}

var _ report.Repository = (*GormReportRepository)(nil)
