package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/billmaster/backend/internal/domain/billing"
	"github.com/billmaster/backend/internal/domain/inventory"
	"github.com/billmaster/backend/internal/domain/partner"
	"github.com/billmaster/backend/internal/domain/shared/valueobject"
	"github.com/billmaster/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newSQLiteDB opens a private in-memory sqlite database with every table migrated
func newSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := NewDatabase(&config.DatabaseConfig{Driver: "sqlite", SQLitePath: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(context.Background()))
	t.Cleanup(func() { _ = db.Close() })
	return db.DB
}

// newMockGormDB wires GORM's postgres dialect to sqlmock
func newMockGormDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err)
	return gormDB, mock, mockDB
}

var baseTime = time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)

func newTestItem(t *testing.T, name string, stock, alert int64) *inventory.Item {
	t.Helper()
	item, err := inventory.NewItem(name, valueobject.UnitPieces, decimal.NewFromInt(stock), decimal.NewFromInt(alert))
	require.NoError(t, err)
	item.SellingPrice = decimal.NewFromInt(100)
	item.CreatedAt = baseTime
	item.UpdatedAt = baseTime
	return item
}

func newTestCustomer(t *testing.T, name, phone string) *partner.Customer {
	t.Helper()
	c, err := partner.NewCustomer(name, phone)
	require.NoError(t, err)
	c.CreditEligible = true
	c.CreatedAt = baseTime
	c.UpdatedAt = baseTime
	return c
}

type invoiceOpts struct {
	number   string
	customer *partner.Customer
	mode     billing.PaymentMode
	paid     decimal.Decimal
	at       time.Time
	discount decimal.Decimal
}

func newTestInvoice(t *testing.T, o invoiceOpts) *billing.Invoice {
	t.Helper()
	if o.mode == "" {
		o.mode = billing.PaymentModeCash
	}
	if o.at.IsZero() {
		o.at = baseTime
	}
	line, err := billing.NewLineItem(uuid.New(), "Cement Bag", valueobject.UnitBox, "2523",
		decimal.NewFromInt(2), decimal.RequireFromString("450.50"))
	require.NoError(t, err)

	draft := billing.InvoiceDraft{
		Number: o.number,
		Customer: billing.CustomerSnapshot{
			ID:    o.customer.ID,
			Name:  o.customer.Name,
			Phone: o.customer.Phone,
		},
		Items:         []billing.LineItem{line},
		Discount:      o.discount,
		ApplyRounding: true,
		PaymentMode:   o.mode,
		AmountPaid:    o.paid,
		CreatedBy:     "cashier@shop.test",
		Now:           o.at,
	}
	if o.mode == billing.PaymentModeCredit {
		draft.CreditTerm = billing.CreditTermNet7
	}
	inv, err := billing.NewInvoice(draft)
	require.NoError(t, err)
	return inv
}
