package audit

import (
	"context"
	"time"

	"github.com/billmaster/backend/internal/domain/audit"
	"github.com/billmaster/backend/internal/domain/identity"
	"github.com/billmaster/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ListAuditLogsRequest filters the audit listing
type ListAuditLogsRequest struct {
	Page      int    `form:"page"`
	PageSize  int    `form:"page_size"`
	Action    string `form:"action"`
	UserEmail string `form:"user_email"`
	Search    string `form:"search"`
}

// AuditLogResponse represents an audit entry in API responses
type AuditLogResponse struct {
	ID            uuid.UUID `json:"id"`
	Action        string    `json:"action"`
	UserEmail     string    `json:"user_email"`
	UserRole      string    `json:"user_role"`
	Details       string    `json:"details"`
	InvoiceNumber string    `json:"invoice_number,omitempty"`
	CreatedAt     time.Time `json:"created_date"`
}

// AuditService exposes the audit trail to administrators
type AuditService struct {
	repo   audit.Repository
	policy identity.Policy
	logger *zap.Logger
}

// NewAuditService creates a new AuditService
func NewAuditService(repo audit.Repository, policy identity.Policy, logger *zap.Logger) *AuditService {
	return &AuditService{repo: repo, policy: policy, logger: logger}
}

// List returns a page of audit entries, newest first
func (s *AuditService) List(ctx context.Context, actor identity.Actor, req ListAuditLogsRequest) (*shared.Paginated[AuditLogResponse], error) {
	if err := identity.Authorize(s.policy, actor, identity.PermAuditRead); err != nil {
		return nil, err
	}
	filter := audit.EntryFilter{
		Filter:    shared.DefaultFilter(),
		Action:    audit.Action(req.Action),
		UserEmail: req.UserEmail,
	}
	if req.Page > 0 {
		filter.Page = req.Page
	}
	if req.PageSize > 0 {
		filter.PageSize = req.PageSize
	}
	filter.Search = req.Search

	entries, total, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list audit logs", zap.Error(err))
		return nil, err
	}
	out := make([]AuditLogResponse, len(entries))
	for i, e := range entries {
		out[i] = AuditLogResponse{
			ID:            e.ID,
			Action:        string(e.Action),
			UserEmail:     e.UserEmail,
			UserRole:      e.UserRole.String(),
			Details:       e.Details,
			InvoiceNumber: e.InvoiceNumber,
			CreatedAt:     e.CreatedAt,
		}
	}
	page := shared.NewPaginated(out, total, filter.Page, filter.Limit())
	return &page, nil
}
