package audit

import (
	"testing"

	"github.com/billmaster/backend/internal/domain/identity"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNewEntry(t *testing.T) {
	actor := identity.Actor{Email: "owner@shop.in", Role: identity.RoleAdmin}
	e := NewEntry(actor, ActionApproveCancellation, "Invoice INV-3 cancellation approved. Stock restored.", "INV-3")

	assert.NotEqual(t, uuid.Nil, e.ID)
	assert.Equal(t, "Approve Invoice Cancellation", string(e.Action))
	assert.Equal(t, "owner@shop.in", e.UserEmail)
	assert.Equal(t, identity.RoleAdmin, e.UserRole)
	assert.Equal(t, "INV-3", e.InvoiceNumber)
	assert.False(t, e.CreatedAt.IsZero())
}
