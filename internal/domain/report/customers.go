package report

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TopCustomerLimit is how many customers the sales ranking shows
const TopCustomerLimit = 10

// CustomerSales is one customer's share of sales in a range
type CustomerSales struct {
	CustomerID   uuid.UUID
	CustomerName string
	InvoiceCount int64
	Total        decimal.Decimal
}

// CustomerCredit is a customer who still owes money
type CustomerCredit struct {
	CustomerID        uuid.UUID
	Name              string
	Phone             string
	OutstandingCredit decimal.Decimal
}

// CustomerSummary is the customer report for a range
type CustomerSummary struct {
	TotalCustomers   int64
	BuyingCustomers  int64
	TotalOutstanding decimal.Decimal
	TopCustomers     []CustomerSales
	Owing            []CustomerCredit
}

