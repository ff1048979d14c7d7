package models

import (
	"time"

	"github.com/billmaster/backend/internal/domain/audit"
	"github.com/billmaster/backend/internal/domain/identity"
	"github.com/google/uuid"
)

// AuditLogModel is the persistence model for audit entries. Rows are only
// ever inserted.
type AuditLogModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	Action        string    `gorm:"type:varchar(100);not null;index"`
	UserEmail     string    `gorm:"type:varchar(200);not null;index"`
	UserRole      string    `gorm:"type:varchar(20);not null"`
	Details       string    `gorm:"type:text;not null"`
	InvoiceNumber string    `gorm:"type:varchar(50);index"`
	CreatedAt     time.Time `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (AuditLogModel) TableName() string {
	return "audit_logs"
}

// ToDomain converts the persistence model to a domain audit Entry.
func (m *AuditLogModel) ToDomain() audit.Entry {
	return audit.Entry{
		ID:            m.ID,
		Action:        audit.Action(m.Action),
		UserEmail:     m.UserEmail,
		UserRole:      identity.Role(m.UserRole),
		Details:       m.Details,
		InvoiceNumber: m.InvoiceNumber,
		CreatedAt:     m.CreatedAt,
	}
}

// AuditLogModelFromDomain creates a persistence model from an audit Entry.
func AuditLogModelFromDomain(e *audit.Entry) *AuditLogModel {
	return &AuditLogModel{
		ID:            e.ID,
		Action:        string(e.Action),
		UserEmail:     e.UserEmail,
		UserRole:      e.UserRole.String(),
		Details:       e.Details,
		InvoiceNumber: e.InvoiceNumber,
		CreatedAt:     e.CreatedAt,
	}
}
