package models

import (
	"github.com/billmaster/backend/internal/domain/partner"
	"github.com/shopspring/decimal"
)

// CustomerModel is the persistence model for the Customer domain entity.
type CustomerModel struct {
	AggregateModel
	Name              string          `gorm:"type:varchar(200);not null;index"`
	Phone             string          `gorm:"type:varchar(50);index"`
	Email             string          `gorm:"type:varchar(200)"`
	Address           string          `gorm:"type:text"`
	City              string          `gorm:"type:varchar(100)"`
	State             string          `gorm:"type:varchar(100)"`
	GSTIN             string          `gorm:"column:gstin;type:varchar(15)"`
	OutstandingCredit decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	CreditEligible    bool            `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer entity.
func (m *CustomerModel) ToDomain() *partner.Customer {
	return &partner.Customer{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Name:              m.Name,
		Phone:             m.Phone,
		Email:             m.Email,
		Address:           m.Address,
		City:              m.City,
		State:             m.State,
		GSTIN:             m.GSTIN,
		OutstandingCredit: m.OutstandingCredit,
		CreditEligible:    m.CreditEligible,
	}
}

// CustomerModelFromDomain creates a persistence model from a domain Customer entity.
func CustomerModelFromDomain(c *partner.Customer) *CustomerModel {
	m := &CustomerModel{
		Name:              c.Name,
		Phone:             c.Phone,
		Email:             c.Email,
		Address:           c.Address,
		City:              c.City,
		State:             c.State,
		GSTIN:             c.GSTIN,
		OutstandingCredit: c.OutstandingCredit,
		CreditEligible:    c.CreditEligible,
	}
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	return m
}
