package partner

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/billmaster/backend/internal/domain/audit"
	"github.com/billmaster/backend/internal/domain/identity"
	"github.com/billmaster/backend/internal/domain/partner"
	"github.com/billmaster/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CreateCustomerRequest represents a request to create a customer
type CreateCustomerRequest struct {
	Name           string `json:"name" binding:"required,min=1,max=200"`
	Phone          string `json:"phone" binding:"max=20"`
	Email          string `json:"email" binding:"omitempty,email"`
	Address        string `json:"address" binding:"max=500"`
	City           string `json:"city" binding:"max=100"`
	State          string `json:"state" binding:"max=100"`
	GSTIN          string `json:"gstin" binding:"omitempty,len=15"`
	CreditEligible bool   `json:"credit_eligible"`
}

// UpdateCustomerRequest edits a customer. Omitted fields are left unchanged.
type UpdateCustomerRequest struct {
	Name           *string `json:"name" binding:"omitempty,min=1,max=200"`
	Phone          *string `json:"phone" binding:"omitempty,max=20"`
	Email          *string `json:"email" binding:"omitempty,email"`
	Address        *string `json:"address" binding:"omitempty,max=500"`
	City           *string `json:"city" binding:"omitempty,max=100"`
	State          *string `json:"state" binding:"omitempty,max=100"`
	GSTIN          *string `json:"gstin" binding:"omitempty,len=15"`
	CreditEligible *bool   `json:"credit_eligible"`
}

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID                uuid.UUID       `json:"id"`
	Name              string          `json:"name"`
	Phone             string          `json:"phone"`
	Email             string          `json:"email,omitempty"`
	Address           string          `json:"address,omitempty"`
	City              string          `json:"city,omitempty"`
	State             string          `json:"state,omitempty"`
	GSTIN             string          `json:"gstin,omitempty"`
	OutstandingCredit decimal.Decimal `json:"outstanding_credit"`
	CreditEligible    bool            `json:"credit_eligible"`
	CreatedAt         time.Time       `json:"created_at"`
	Version           int             `json:"version"`
}

// ListCustomersRequest pages through customers
type ListCustomersRequest struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	Search   string `form:"search"`
}

// ToCustomerResponse converts a domain customer to its response
func ToCustomerResponse(c *partner.Customer) CustomerResponse {
	return CustomerResponse{
		ID:                c.ID,
		Name:              c.Name,
		Phone:             c.Phone,
		Email:             c.Email,
		Address:           c.Address,
		City:              c.City,
		State:             c.State,
		GSTIN:             c.GSTIN,
		OutstandingCredit: c.OutstandingCredit,
		CreditEligible:    c.CreditEligible,
		CreatedAt:         c.CreatedAt,
		Version:           c.Version,
	}
}

// CustomerService handles customer-related business operations
type CustomerService struct {
	repo     partner.CustomerRepository
	recorder audit.Recorder
	policy   identity.Policy
	logger   *zap.Logger
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(repo partner.CustomerRepository, recorder audit.Recorder, policy identity.Policy, logger *zap.Logger) *CustomerService {
	return &CustomerService{repo: repo, recorder: recorder, policy: policy, logger: logger}
}

// Create creates a new customer with no outstanding credit
func (s *CustomerService) Create(ctx context.Context, actor identity.Actor, req CreateCustomerRequest) (*CustomerResponse, error) {
	if err := identity.Authorize(s.policy, actor, identity.PermCatalogManage); err != nil {
		return nil, err
	}
	customer, err := partner.NewCustomer(req.Name, req.Phone)
	if err != nil {
		return nil, err
	}
	customer.Email = strings.TrimSpace(req.Email)
	customer.Address = req.Address
	customer.City = req.City
	customer.State = req.State
	customer.GSTIN = strings.ToUpper(strings.TrimSpace(req.GSTIN))
	customer.CreditEligible = req.CreditEligible

	if err := s.repo.Create(ctx, customer); err != nil {
		s.logger.Error("Failed to create customer", zap.String("name", customer.Name), zap.Error(err))
		return nil, fmt.Errorf("create customer: %w", err)
	}
	details := fmt.Sprintf("Customer %s created", customer.Name)
	if err := s.recorder.Record(ctx, audit.NewEntry(actor, audit.ActionCreateCustomer, details, "")); err != nil {
		s.logger.Error("Failed to record customer audit entry", zap.Error(err))
		return nil, fmt.Errorf("record audit entry: %w", err)
	}

	resp := ToCustomerResponse(customer)
	return &resp, nil
}

// Update edits a customer's contact details
func (s *CustomerService) Update(ctx context.Context, actor identity.Actor, id uuid.UUID, req UpdateCustomerRequest) (*CustomerResponse, error) {
	if err := identity.Authorize(s.policy, actor, identity.PermCatalogManage); err != nil {
		return nil, err
	}
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := customer.Update(partner.CustomerUpdate{
		Name:           req.Name,
		Phone:          req.Phone,
		Email:          req.Email,
		Address:        req.Address,
		City:           req.City,
		State:          req.State,
		GSTIN:          req.GSTIN,
		CreditEligible: req.CreditEligible,
	}); err != nil {
		return nil, err
	}
	if err := s.repo.SaveWithLock(ctx, customer); err != nil {
		s.logger.Error("Failed to update customer", zap.String("customer_id", id.String()), zap.Error(err))
		return nil, err
	}
	details := fmt.Sprintf("Customer updated: %s", customer.Name)
	if err := s.recorder.Record(ctx, audit.NewEntry(actor, audit.ActionUpdateCustomer, details, "")); err != nil {
		s.logger.Error("Failed to record customer audit entry", zap.Error(err))
		return nil, fmt.Errorf("record audit entry: %w", err)
	}

	resp := ToCustomerResponse(customer)
	return &resp, nil
}

// Delete removes a customer who has no outstanding credit and no invoices
func (s *CustomerService) Delete(ctx context.Context, actor identity.Actor, id uuid.UUID) error {
	if err := identity.Authorize(s.policy, actor, identity.PermCatalogManage); err != nil {
		return err
	}
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	hasInvoices, err := s.repo.HasInvoices(ctx, id)
	if err != nil {
		return err
	}
	if err := customer.CanDelete(hasInvoices); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("Failed to delete customer", zap.String("customer_id", id.String()), zap.Error(err))
		return err
	}
	details := fmt.Sprintf("Customer deleted: %s", customer.Name)
	if err := s.recorder.Record(ctx, audit.NewEntry(actor, audit.ActionDeleteCustomer, details, "")); err != nil {
		s.logger.Error("Failed to record customer audit entry", zap.Error(err))
		return fmt.Errorf("record audit entry: %w", err)
	}
	return nil
}

// Get returns one customer
func (s *CustomerService) Get(ctx context.Context, actor identity.Actor, id uuid.UUID) (*CustomerResponse, error) {
	if err := identity.Authorize(s.policy, actor, identity.PermInvoiceRead); err != nil {
		return nil, err
	}
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToCustomerResponse(customer)
	return &resp, nil
}

// List returns a page of customers ordered by name
func (s *CustomerService) List(ctx context.Context, actor identity.Actor, req ListCustomersRequest) (*shared.Paginated[CustomerResponse], error) {
	if err := identity.Authorize(s.policy, actor, identity.PermInvoiceRead); err != nil {
		return nil, err
	}
	filter := shared.DefaultFilter()
	filter.OrderBy = "name"
	filter.OrderDir = "asc"
	filter.Search = req.Search
	if req.Page > 0 {
		filter.Page = req.Page
	}
	if req.PageSize > 0 {
		filter.PageSize = req.PageSize
	}

	customers, total, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list customers", zap.Error(err))
		return nil, err
	}
	out := make([]CustomerResponse, len(customers))
	for i := range customers {
		out[i] = ToCustomerResponse(&customers[i])
	}
	page := shared.NewPaginated(out, total, filter.Page, filter.Limit())
	return &page, nil
}
