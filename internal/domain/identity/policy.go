package identity

import (
	"fmt"

	"github.com/billmaster/backend/internal/domain/shared"
)

// Permission is a functional permission code in resource:action form
type Permission string

const (
	PermInvoiceCreate        Permission = "invoice:create"
	PermInvoiceRead          Permission = "invoice:read"
	PermInvoicePay           Permission = "invoice:pay"
	PermInvoiceRequestCancel Permission = "invoice:request_cancel"
	PermInvoiceApproveCancel Permission = "invoice:approve_cancel"
	PermInvoiceRejectCancel  Permission = "invoice:reject_cancel"
	PermCatalogManage        Permission = "catalog:manage"
	PermReportRead           Permission = "report:read"
	PermAuditRead            Permission = "audit:read"
	PermSettingsRead         Permission = "settings:read"
	PermSettingsUpdate       Permission = "settings:update"
)

// Policy decides whether an actor may perform an operation
type Policy interface {
	Allows(actor Actor, perm Permission) bool
}

// Authorize returns ErrForbidden-coded error when policy rejects the actor
func Authorize(p Policy, actor Actor, perm Permission) error {
	if p.Allows(actor, perm) {
		return nil
	}
	return shared.NewDomainError("FORBIDDEN", fmt.Sprintf("Role %s is not allowed to %s", actor.Role, perm))
}

// RolePolicy grants permissions by role
type RolePolicy struct {
	grants map[Role]map[Permission]bool
}

// NewRolePolicy creates a RolePolicy from an explicit grant table
func NewRolePolicy(grants map[Role][]Permission) *RolePolicy {
	p := &RolePolicy{grants: make(map[Role]map[Permission]bool, len(grants))}
	for role, perms := range grants {
		set := make(map[Permission]bool, len(perms))
		for _, perm := range perms {
			set[perm] = true
		}
		p.grants[role] = set
	}
	return p
}

// DefaultPolicy returns the stock grant table: users bill and request
// cancellations, admins additionally approve/reject, read the audit log and
// manage shop settings.
func DefaultPolicy() *RolePolicy {
	user := []Permission{
		PermInvoiceCreate,
		PermInvoiceRead,
		PermInvoicePay,
		PermInvoiceRequestCancel,
		PermCatalogManage,
		PermReportRead,
		PermSettingsRead,
	}
	admin := append([]Permission{
		PermInvoiceApproveCancel,
		PermInvoiceRejectCancel,
		PermAuditRead,
		PermSettingsUpdate,
	}, user...)
	return NewRolePolicy(map[Role][]Permission{
		RoleUser:  user,
		RoleAdmin: admin,
	})
}

// Allows implements Policy
func (p *RolePolicy) Allows(actor Actor, perm Permission) bool {
	return p.grants[actor.Role][perm]
}

var _ Policy = (*RolePolicy)(nil)
