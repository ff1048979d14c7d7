package persistence

import (
	"context"
	"errors"
	"testing"

	billingapp "github.com/billmaster/backend/internal/application/billing"
	"github.com/billmaster/backend/internal/domain/audit"
	"github.com/billmaster/backend/internal/domain/identity"
	"github.com/billmaster/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormTransactionScope(t *testing.T) {
	ctx := context.Background()
	actor := identity.Actor{Email: "cashier@shop.test", Role: identity.RoleUser}

	t.Run("commits every write together", func(t *testing.T) {
		db := newSQLiteDB(t)
		scope := NewGormTransactionScope(db)
		assert.True(t, scope.Atomic())

		item := newTestItem(t, "Cement", 10, 2)
		customer := newTestCustomer(t, "Ravi Traders", "9800000001")
		require.NoError(t, NewGormItemRepository(db).Create(ctx, item))
		require.NoError(t, NewGormCustomerRepository(db).Create(ctx, customer))

		err := scope.Execute(ctx, func(repos billingapp.TransactionalRepositories) error {
			inv := newTestInvoice(t, invoiceOpts{number: "INV-0001", customer: customer, mode: "credit"})
			if err := repos.InvoiceRepo().Create(ctx, inv); err != nil {
				return err
			}
			if _, err := billingapp.NewStockLedger(repos.ItemRepo(), true).ApplyDelta(ctx, item.ID, decimal.NewFromInt(-2)); err != nil {
				return err
			}
			if _, err := billingapp.NewBalanceLedger(repos.CustomerRepo()).ApplyDelta(ctx, customer.ID, inv.BalanceDue); err != nil {
				return err
			}
			return repos.AuditRepo().Record(ctx, audit.NewEntry(actor, audit.ActionCreateInvoice, "ok", "INV-0001"))
		})
		require.NoError(t, err)

		stored, err := NewGormItemRepository(db).FindByID(ctx, item.ID)
		require.NoError(t, err)
		assert.True(t, stored.QuantityInStock.Equal(decimal.NewFromInt(8)))

		buyer, err := NewGormCustomerRepository(db).FindByID(ctx, customer.ID)
		require.NoError(t, err)
		assert.True(t, buyer.OutstandingCredit.Equal(decimal.NewFromInt(901)))
	})

	t.Run("rolls back on failure", func(t *testing.T) {
		db := newSQLiteDB(t)
		scope := NewGormTransactionScope(db)

		item := newTestItem(t, "Cement", 10, 2)
		customer := newTestCustomer(t, "Ravi Traders", "9800000001")
		require.NoError(t, NewGormItemRepository(db).Create(ctx, item))

		boom := errors.New("balance write failed")
		err := scope.Execute(ctx, func(repos billingapp.TransactionalRepositories) error {
			inv := newTestInvoice(t, invoiceOpts{number: "INV-0001", customer: customer})
			if err := repos.InvoiceRepo().Create(ctx, inv); err != nil {
				return err
			}
			if _, err := billingapp.NewStockLedger(repos.ItemRepo(), true).ApplyDelta(ctx, item.ID, decimal.NewFromInt(-2)); err != nil {
				return err
			}
			return boom
		})
		require.ErrorIs(t, err, boom)

		_, err = NewGormInvoiceRepository(db).FindByNumber(ctx, "INV-0001")
		assert.ErrorIs(t, err, shared.ErrNotFound)

		stored, err := NewGormItemRepository(db).FindByID(ctx, item.ID)
		require.NoError(t, err)
		assert.True(t, stored.QuantityInStock.Equal(decimal.NewFromInt(10)))
		assert.Equal(t, 1, stored.Version)
	})
}
