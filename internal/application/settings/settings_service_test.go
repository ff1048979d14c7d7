package settings

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/billmaster/backend/internal/domain/audit"
	"github.com/billmaster/backend/internal/domain/identity"
	"github.com/billmaster/backend/internal/domain/settings"
	"github.com/billmaster/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) Get(ctx context.Context) (*settings.ShopSettings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*settings.ShopSettings), args.Error(1)
}

func (m *MockSettingsRepository) Save(ctx context.Context, s *settings.ShopSettings) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

type MockAuditRecorder struct {
	mock.Mock
}

func (m *MockAuditRecorder) Record(ctx context.Context, entry *audit.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

type MockObjectStorage struct {
	mock.Mock
}

func (m *MockObjectStorage) PutObject(ctx context.Context, storageKey, contentType string, data []byte) (string, error) {
	args := m.Called(ctx, storageKey, contentType, data)
	return args.String(0), args.Error(1)
}

func (m *MockObjectStorage) DeleteObject(ctx context.Context, storageKey string) error {
	args := m.Called(ctx, storageKey)
	return args.Error(0)
}

var (
	owner = identity.Actor{Email: "owner@shop.in", Role: identity.RoleAdmin}
	clerk = identity.Actor{Email: "clerk@shop.in", Role: identity.RoleUser}
)

func newTestService() (*SettingsService, *MockSettingsRepository, *MockAuditRecorder, *MockObjectStorage) {
	repo := new(MockSettingsRepository)
	recorder := new(MockAuditRecorder)
	storage := new(MockObjectStorage)
	svc := NewSettingsService(repo, recorder, storage, identity.DefaultPolicy(), zap.NewNop())
	return svc, repo, recorder, storage
}

func validUpdate() UpdateSettingsRequest {
	return UpdateSettingsRequest{
		ShopName:      "Sharma Hardware",
		City:          "Pune",
		GSTIN:         "27abcde1234f1z5",
		IFSCCode:      "sbin0001234",
		InvoicePrefix: "SH",
	}
}

func TestSettingsService_Get(t *testing.T) {
	t.Run("returns defaults when nothing is stored", func(t *testing.T) {
		svc, repo, _, _ := newTestService()
		repo.On("Get", mock.Anything).Return(nil, shared.ErrNotFound)

		resp, err := svc.Get(context.Background(), clerk)
		require.NoError(t, err)
		assert.Equal(t, "INV", resp.InvoicePrefix)
		assert.Equal(t, settings.DefaultInvoiceFooterText, resp.InvoiceFooterText)
	})

	t.Run("propagates store failures", func(t *testing.T) {
		svc, repo, _, _ := newTestService()
		repo.On("Get", mock.Anything).Return(nil, errors.New("connection reset"))

		_, err := svc.Get(context.Background(), clerk)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "connection reset")
	})
}

func TestSettingsService_Update(t *testing.T) {
	t.Run("admin updates and audit is recorded", func(t *testing.T) {
		svc, repo, recorder, _ := newTestService()
		repo.On("Get", mock.Anything).Return(nil, shared.ErrNotFound)
		repo.On("Save", mock.Anything, mock.AnythingOfType("*settings.ShopSettings")).Return(nil)
		var entry *audit.Entry
		recorder.On("Record", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) { entry = args.Get(1).(*audit.Entry) }).
			Return(nil)

		resp, err := svc.Update(context.Background(), owner, validUpdate())
		require.NoError(t, err)
		assert.Equal(t, "Sharma Hardware", resp.ShopName)
		assert.Equal(t, "27ABCDE1234F1Z5", resp.GSTIN)
		assert.Equal(t, "SBIN0001234", resp.IFSCCode)
		assert.Equal(t, "SH", resp.InvoicePrefix)

		require.NotNil(t, entry)
		assert.Equal(t, audit.ActionUpdateSettings, entry.Action)
		assert.Equal(t, "owner@shop.in", entry.UserEmail)
	})

	t.Run("user is forbidden", func(t *testing.T) {
		svc, repo, _, _ := newTestService()

		_, err := svc.Update(context.Background(), clerk, validUpdate())
		assert.ErrorIs(t, err, shared.ErrForbidden)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("invalid prefix is rejected before saving", func(t *testing.T) {
		svc, repo, _, _ := newTestService()
		repo.On("Get", mock.Anything).Return(settings.Defaults(), nil)

		req := validUpdate()
		req.InvoicePrefix = "SH/26"
		_, err := svc.Update(context.Background(), owner, req)
		assert.Equal(t, "INVALID_SETTINGS", shared.ErrorCode(err))
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestSettingsService_UploadLogo(t *testing.T) {
	png := []byte{0x89, 'P', 'N', 'G'}

	t.Run("stores image and records url", func(t *testing.T) {
		svc, repo, recorder, storage := newTestService()
		repo.On("Get", mock.Anything).Return(settings.Defaults(), nil)
		repo.On("Save", mock.Anything, mock.Anything).Return(nil)
		recorder.On("Record", mock.Anything, mock.Anything).Return(nil)
		storage.On("PutObject", mock.Anything,
			mock.MatchedBy(func(key string) bool {
				return strings.HasPrefix(key, "settings/logo/") && strings.HasSuffix(key, ".png")
			}),
			"image/png", png).
			Return("https://cdn.shop.in/settings/logo/a.png", nil)

		resp, err := svc.UploadLogo(context.Background(), owner, UploadImageRequest{
			FileName: "logo.png", ContentType: "image/png", Size: int64(len(png)), Data: png,
		})
		require.NoError(t, err)
		assert.Equal(t, "https://cdn.shop.in/settings/logo/a.png", resp.LogoURL)
		storage.AssertExpectations(t)
	})

	tests := []struct {
		name string
		req  UploadImageRequest
	}{
		{"empty file", UploadImageRequest{ContentType: "image/png"}},
		{"unsupported type", UploadImageRequest{ContentType: "application/pdf", Size: 4, Data: png}},
		{"too large", UploadImageRequest{ContentType: "image/png", Size: MaxImageSize + 1, Data: png}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _, storage := newTestService()

			_, err := svc.UploadLogo(context.Background(), owner, tt.req)
			assert.Equal(t, "INVALID_FILE", shared.ErrorCode(err))
			assert.True(t, shared.IsValidationError(err))
			storage.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestSettingsService_UploadUPIQR_StorageFailure(t *testing.T) {
	svc, repo, _, storage := newTestService()
	repo.On("Get", mock.Anything).Return(settings.Defaults(), nil)
	storage.On("PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("", errors.New("bucket unavailable"))

	_, err := svc.UploadUPIQR(context.Background(), owner, UploadImageRequest{
		ContentType: "image/jpeg", Size: 3, Data: []byte{1, 2, 3},
	})
	require.Error(t, err)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestSettingsService_UploadLogo_SaveFailureRemovesObject(t *testing.T) {
	svc, repo, recorder, storage := newTestService()
	repo.On("Get", mock.Anything).Return(settings.Defaults(), nil)
	repo.On("Save", mock.Anything, mock.Anything).Return(errors.New("db down"))

	var uploadedKey string
	storage.On("PutObject", mock.Anything, mock.Anything, "image/png", mock.Anything).
		Run(func(args mock.Arguments) { uploadedKey = args.String(1) }).
		Return("https://cdn.shop.in/x.png", nil)
	storage.On("DeleteObject", mock.Anything, mock.Anything).Return(nil)

	_, err := svc.UploadLogo(context.Background(), owner, UploadImageRequest{
		ContentType: "image/png", Size: 4, Data: []byte{0x89, 'P', 'N', 'G'},
	})
	require.Error(t, err)
	storage.AssertCalled(t, "DeleteObject", mock.Anything, uploadedKey)
	recorder.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
}
