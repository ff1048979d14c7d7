package partner

import (
	"context"
	"testing"

	"github.com/billmaster/backend/internal/domain/audit"
	"github.com/billmaster/backend/internal/domain/identity"
	"github.com/billmaster/backend/internal/domain/partner"
	"github.com/billmaster/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Customer, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]partner.Customer), args.Get(1).(int64), args.Error(2)
}

func (m *MockCustomerRepository) Create(ctx context.Context, customer *partner.Customer) error {
	return m.Called(ctx, customer).Error(0)
}

func (m *MockCustomerRepository) SaveWithLock(ctx context.Context, customer *partner.Customer) error {
	return m.Called(ctx, customer).Error(0)
}

func (m *MockCustomerRepository) HasInvoices(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockCustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockCustomerRepository) SumOutstandingCredit(ctx context.Context) (decimal.Decimal, error) {
	args := m.Called(ctx)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

type MockAuditRecorder struct {
	mock.Mock
}

func (m *MockAuditRecorder) Record(ctx context.Context, entry *audit.Entry) error {
	return m.Called(ctx, entry).Error(0)
}

var clerk = identity.Actor{Email: "clerk@shop.in", Role: identity.RoleUser}

func TestCustomerService_Create(t *testing.T) {
	repo := new(MockCustomerRepository)
	recorder := new(MockAuditRecorder)
	svc := NewCustomerService(repo, recorder, identity.DefaultPolicy(), zap.NewNop())
	repo.On("Create", mock.Anything, mock.AnythingOfType("*partner.Customer")).Return(nil)
	recorder.On("Record", mock.Anything, mock.MatchedBy(func(e *audit.Entry) bool {
		return e.Action == audit.ActionCreateCustomer && e.Details == "Customer Ravi Traders created"
	})).Return(nil)

	resp, err := svc.Create(context.Background(), clerk, CreateCustomerRequest{
		Name:           "Ravi Traders",
		Phone:          " 9988776655 ",
		GSTIN:          "29aaaaa0000a1z5",
		CreditEligible: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "9988776655", resp.Phone)
	assert.Equal(t, "29AAAAA0000A1Z5", resp.GSTIN)
	assert.True(t, resp.OutstandingCredit.IsZero())
	assert.True(t, resp.CreditEligible)
	recorder.AssertExpectations(t)
}

func TestCustomerService_Create_BlankName(t *testing.T) {
	repo := new(MockCustomerRepository)
	svc := NewCustomerService(repo, new(MockAuditRecorder), identity.DefaultPolicy(), zap.NewNop())

	_, err := svc.Create(context.Background(), clerk, CreateCustomerRequest{Name: " "})
	assert.True(t, shared.IsValidationError(err))
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCustomerService_GetAndList(t *testing.T) {
	repo := new(MockCustomerRepository)
	svc := NewCustomerService(repo, new(MockAuditRecorder), identity.DefaultPolicy(), zap.NewNop())
	c, err := partner.NewCustomer("Meena", "")
	require.NoError(t, err)
	c.ApplyCreditDelta(decimal.NewFromInt(250))
	repo.On("FindByID", mock.Anything, c.ID).Return(c, nil)
	repo.On("FindAll", mock.Anything, mock.Anything).Return([]partner.Customer{*c}, int64(1), nil)

	got, err := svc.Get(context.Background(), clerk, c.ID)
	require.NoError(t, err)
	assert.True(t, got.OutstandingCredit.Equal(decimal.NewFromInt(250)))

	page, err := svc.List(context.Background(), clerk, ListCustomersRequest{Page: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	assert.Equal(t, "Meena", page.Items[0].Name)
}

func TestCustomerService_Update(t *testing.T) {
	repo := new(MockCustomerRepository)
	recorder := new(MockAuditRecorder)
	svc := NewCustomerService(repo, recorder, identity.DefaultPolicy(), zap.NewNop())
	c, err := partner.NewCustomer("Meena", "9000000000")
	require.NoError(t, err)
	c.ApplyCreditDelta(decimal.NewFromInt(250))
	repo.On("FindByID", mock.Anything, c.ID).Return(c, nil)
	repo.On("SaveWithLock", mock.Anything, mock.MatchedBy(func(got *partner.Customer) bool {
		return got.Version == 3 && got.City == "Mysuru"
	})).Return(nil)
	recorder.On("Record", mock.Anything, mock.MatchedBy(func(e *audit.Entry) bool {
		return e.Action == audit.ActionUpdateCustomer && e.Details == "Customer updated: Meena Stores"
	})).Return(nil)

	name := "Meena Stores"
	city := " Mysuru "
	resp, err := svc.Update(context.Background(), clerk, c.ID, UpdateCustomerRequest{Name: &name, City: &city})
	require.NoError(t, err)
	assert.Equal(t, "Meena Stores", resp.Name)
	assert.Equal(t, "9000000000", resp.Phone)
	assert.True(t, resp.OutstandingCredit.Equal(decimal.NewFromInt(250)))
	repo.AssertExpectations(t)
	recorder.AssertExpectations(t)
}

func TestCustomerService_Delete(t *testing.T) {
	t.Run("removes customer without history", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		recorder := new(MockAuditRecorder)
		svc := NewCustomerService(repo, recorder, identity.DefaultPolicy(), zap.NewNop())
		c, err := partner.NewCustomer("Walk-in", "")
		require.NoError(t, err)
		repo.On("FindByID", mock.Anything, c.ID).Return(c, nil)
		repo.On("HasInvoices", mock.Anything, c.ID).Return(false, nil)
		repo.On("Delete", mock.Anything, c.ID).Return(nil)
		recorder.On("Record", mock.Anything, mock.MatchedBy(func(e *audit.Entry) bool {
			return e.Action == audit.ActionDeleteCustomer && e.Details == "Customer deleted: Walk-in"
		})).Return(nil)

		require.NoError(t, svc.Delete(context.Background(), clerk, c.ID))
		repo.AssertExpectations(t)
		recorder.AssertExpectations(t)
	})

	tests := []struct {
		name        string
		credit      int64
		hasInvoices bool
	}{
		{"outstanding credit", 100, false},
		{"invoices on record", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockCustomerRepository)
			svc := NewCustomerService(repo, new(MockAuditRecorder), identity.DefaultPolicy(), zap.NewNop())
			c, err := partner.NewCustomer("Ravi", "")
			require.NoError(t, err)
			c.OutstandingCredit = decimal.NewFromInt(tt.credit)
			repo.On("FindByID", mock.Anything, c.ID).Return(c, nil)
			repo.On("HasInvoices", mock.Anything, c.ID).Return(tt.hasInvoices, nil)

			err = svc.Delete(context.Background(), clerk, c.ID)
			assert.Equal(t, "CANNOT_DELETE", shared.ErrorCode(err))
			repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
		})
	}
}
