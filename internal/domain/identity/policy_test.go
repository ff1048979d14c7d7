package identity

import (
	"errors"
	"testing"

	"github.com/billmaster/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPolicy(t *testing.T) {
	policy := DefaultPolicy()
	admin := Actor{Email: "owner@shop.in", Role: RoleAdmin}
	user := Actor{Email: "clerk@shop.in", Role: RoleUser}

	tests := []struct {
		perm      Permission
		userAllow bool
	}{
		{PermInvoiceCreate, true},
		{PermInvoicePay, true},
		{PermInvoiceRequestCancel, true},
		{PermInvoiceApproveCancel, false},
		{PermInvoiceRejectCancel, false},
		{PermAuditRead, false},
		{PermSettingsUpdate, false},
		{PermReportRead, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.perm), func(t *testing.T) {
			assert.True(t, policy.Allows(admin, tt.perm))
			assert.Equal(t, tt.userAllow, policy.Allows(user, tt.perm))
		})
	}
}

func TestAuthorize(t *testing.T) {
	err := Authorize(DefaultPolicy(), Actor{Email: "a@b.c", Role: RoleUser}, PermAuditRead)
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrForbidden))

	assert.NoError(t, Authorize(DefaultPolicy(), Actor{Email: "a@b.c", Role: RoleAdmin}, PermAuditRead))
}

func TestNewActor(t *testing.T) {
	a, err := NewActor(" owner@shop.in ", "", RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, "owner@shop.in", a.Email)
	assert.Equal(t, "owner@shop.in", a.DisplayName())
	assert.True(t, a.IsAdmin())

	_, err = NewActor("", "x", RoleUser)
	assert.Error(t, err)

	_, err = NewActor("x@y.z", "x", Role("superuser"))
	assert.Error(t, err)
}
