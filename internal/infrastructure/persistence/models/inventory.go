package models

import (
	"github.com/billmaster/backend/internal/domain/inventory"
	"github.com/billmaster/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemModel is the persistence model for the Item domain entity.
type ItemModel struct {
	AggregateModel
	Name              string               `gorm:"type:varchar(200);not null;index"`
	Unit              string               `gorm:"type:varchar(10);not null"`
	QuantityInStock   decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0"`
	MinimumStockAlert decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0"`
	SellingPrice      decimal.Decimal      `gorm:"type:decimal(18,2);not null;default:0"`
	HSNCode           string               `gorm:"column:hsn_code;type:varchar(20)"`
	Status            inventory.ItemStatus `gorm:"type:varchar(20);not null;default:'active';index"`
	CategoryID        *uuid.UUID           `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (ItemModel) TableName() string {
	return "items"
}

// ToDomain converts the persistence model to a domain Item entity.
func (m *ItemModel) ToDomain() *inventory.Item {
	return &inventory.Item{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Name:              m.Name,
		Unit:              valueobject.Unit(m.Unit),
		QuantityInStock:   m.QuantityInStock,
		MinimumStockAlert: m.MinimumStockAlert,
		SellingPrice:      m.SellingPrice,
		HSNCode:           m.HSNCode,
		Status:            m.Status,
		CategoryID:        m.CategoryID,
	}
}

// ItemModelFromDomain creates a persistence model from a domain Item entity.
func ItemModelFromDomain(item *inventory.Item) *ItemModel {
	m := &ItemModel{
		Name:              item.Name,
		Unit:              item.Unit.String(),
		QuantityInStock:   item.QuantityInStock,
		MinimumStockAlert: item.MinimumStockAlert,
		SellingPrice:      item.SellingPrice,
		HSNCode:           item.HSNCode,
		Status:            item.Status,
		CategoryID:        item.CategoryID,
	}
	m.FromDomainAggregateRoot(item.BaseAggregateRoot)
	return m
}

// CategoryModel is the persistence model for the Category domain entity.
type CategoryModel struct {
	AggregateModel
	Name        string `gorm:"type:varchar(100);not null;uniqueIndex"`
	Description string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (CategoryModel) TableName() string {
	return "categories"
}

// ToDomain converts the persistence model to a domain Category.
func (m *CategoryModel) ToDomain() *inventory.Category {
	return &inventory.Category{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Name:              m.Name,
		Description:       m.Description,
	}
}

// CategoryModelFromDomain creates a persistence model from a domain Category.
func CategoryModelFromDomain(c *inventory.Category) *CategoryModel {
	m := &CategoryModel{
		Name:        c.Name,
		Description: c.Description,
	}
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	return m
}
