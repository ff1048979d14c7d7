package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/billmaster/backend/internal/domain/audit"
	"github.com/billmaster/backend/internal/domain/identity"
	"github.com/billmaster/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormAuditRepository(t *testing.T) {
	db := newSQLiteDB(t)
	repo := NewGormAuditRepository(db)
	ctx := context.Background()

	admin := identity.Actor{Email: "owner@shop.test", Name: "Owner", Role: identity.RoleAdmin}
	cashier := identity.Actor{Email: "cashier@shop.test", Name: "Cashier", Role: identity.RoleUser}

	entries := []*audit.Entry{
		audit.NewEntry(cashier, audit.ActionCreateInvoice, "Created invoice for Ravi Traders", "INV-0001"),
		audit.NewEntry(cashier, audit.ActionRequestCancellation, "Wrong quantity", "INV-0001"),
		audit.NewEntry(admin, audit.ActionApproveCancellation, "Approved", "INV-0001"),
		audit.NewEntry(admin, audit.ActionUpdateSettings, "Changed shop name", ""),
	}
	for i, e := range entries {
		e.CreatedAt = baseTime.Add(time.Duration(i) * time.Minute)
		require.NoError(t, repo.Record(ctx, e))
	}

	t.Run("newest first by default", func(t *testing.T) {
		got, total, err := repo.FindAll(ctx, audit.EntryFilter{Filter: shared.DefaultFilter()})
		require.NoError(t, err)
		assert.Equal(t, int64(4), total)
		require.Len(t, got, 4)
		assert.Equal(t, audit.ActionUpdateSettings, got[0].Action)
		assert.Equal(t, identity.RoleAdmin, got[0].UserRole)
		assert.Equal(t, audit.ActionCreateInvoice, got[3].Action)
	})

	tests := []struct {
		name   string
		filter audit.EntryFilter
		want   int64
	}{
		{"by action", audit.EntryFilter{Action: audit.ActionRequestCancellation}, 1},
		{"by user", audit.EntryFilter{UserEmail: "owner@shop.test"}, 2},
		{"search in invoice number", audit.EntryFilter{Filter: shared.Filter{Search: "inv-0001"}}, 3},
		{"search in details", audit.EntryFilter{Filter: shared.Filter{Search: "shop name"}}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter := tt.filter
			filter.Page, filter.PageSize = 1, 20
			_, total, err := repo.FindAll(ctx, filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, total)
		})
	}
}
