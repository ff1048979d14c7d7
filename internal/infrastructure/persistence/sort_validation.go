package persistence

import (
	"strings"

	"github.com/billmaster/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	if strings.ToUpper(strings.TrimSpace(orderDir)) == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField returns sortField if it is whitelisted, otherwise defaultField
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// OrderClause builds a whitelisted ORDER BY expression. id is appended as a
// tie-breaker so pages are stable.
func OrderClause(filter shared.Filter, allowedFields map[string]bool, defaultField string) string {
	field := ValidateSortField(filter.OrderBy, allowedFields, defaultField)
	clause := field + " " + ValidateSortOrder(filter.OrderDir)
	if field != "id" {
		clause += ", id ASC"
	}
	return clause
}

// paginate applies the filter's offset and limit
func paginate(db *gorm.DB, filter shared.Filter) *gorm.DB {
	return db.Offset(filter.Offset()).Limit(filter.Limit())
}

// likePattern builds a case-insensitive LIKE pattern for a search term.
// Wildcards typed by the user are matched literally.
func likePattern(search string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + strings.ToLower(r.Replace(strings.TrimSpace(search))) + "%"
}

// ItemSortFields contains allowed sort fields for items
var ItemSortFields = map[string]bool{
	"id":                  true,
	"created_at":          true,
	"updated_at":          true,
	"name":                true,
	"quantity_in_stock":   true,
	"minimum_stock_alert": true,
	"selling_price":       true,
}

// CustomerSortFields contains allowed sort fields for customers
var CustomerSortFields = map[string]bool{
	"id":                 true,
	"created_at":         true,
	"updated_at":         true,
	"name":               true,
	"phone":              true,
	"outstanding_credit": true,
}

// InvoiceSortFields contains allowed sort fields for invoices
var InvoiceSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"invoice_number": true,
	"grand_total":    true,
	"balance_due":    true,
	"due_date":       true,
	"customer_name":  true,
}

// AuditSortFields contains allowed sort fields for audit entries
var AuditSortFields = map[string]bool{
	"created_at": true,
	"action":     true,
	"user_email": true,
}
