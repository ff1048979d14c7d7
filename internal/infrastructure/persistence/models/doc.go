// Package models contains GORM persistence models that map to database tables.
// They are kept apart from domain entities so the domain layer stays free of
// ORM tags; each model carries ToDomain and a From<Entity> constructor.
//
// Tables:
//   - items: stock items (inventory.Item)
//   - customers: buyers and their outstanding credit (partner.Customer)
//   - invoices: finalized invoices with line items in a JSON column (billing.Invoice)
//   - audit_logs: append-only audit entries (audit.Entry)
//   - shop_settings: the single shop settings row (settings.ShopSettings)
package models
