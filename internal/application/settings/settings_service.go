package settings

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/billmaster/backend/internal/domain/audit"
	"github.com/billmaster/backend/internal/domain/identity"
	"github.com/billmaster/backend/internal/domain/settings"
	"github.com/billmaster/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MaxImageSize is the largest logo or QR image accepted (2 MiB)
const MaxImageSize = 2 << 20

var allowedImageTypes = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
}

// ObjectStorage stores uploaded files.
// Implemented by the infrastructure layer (S3, MinIO, RustFS, ...).
type ObjectStorage interface {
	// PutObject uploads data under storageKey and returns a URL it can be fetched from
	PutObject(ctx context.Context, storageKey, contentType string, data []byte) (string, error)
	DeleteObject(ctx context.Context, storageKey string) error
}

// SettingsService manages the shop profile printed on invoices
type SettingsService struct {
	repo     settings.Repository
	recorder audit.Recorder
	storage  ObjectStorage
	policy   identity.Policy
	logger   *zap.Logger
}

// NewSettingsService creates a new SettingsService
func NewSettingsService(
	repo settings.Repository,
	recorder audit.Recorder,
	storage ObjectStorage,
	policy identity.Policy,
	logger *zap.Logger,
) *SettingsService {
	return &SettingsService{
		repo:     repo,
		recorder: recorder,
		storage:  storage,
		policy:   policy,
		logger:   logger,
	}
}

// Get returns the current settings, or defaults when the shop is unconfigured
func (s *SettingsService) Get(ctx context.Context, actor identity.Actor) (*SettingsResponse, error) {
	if err := identity.Authorize(s.policy, actor, identity.PermSettingsRead); err != nil {
		return nil, err
	}
	current, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	resp := ToSettingsResponse(current)
	return &resp, nil
}

// Update replaces the editable profile fields
func (s *SettingsService) Update(ctx context.Context, actor identity.Actor, req UpdateSettingsRequest) (*SettingsResponse, error) {
	if err := identity.Authorize(s.policy, actor, identity.PermSettingsUpdate); err != nil {
		return nil, err
	}
	current, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if err := current.Update(req.toProfile()); err != nil {
		return nil, err
	}
	if err := s.save(ctx, actor, current, "Shop settings updated"); err != nil {
		return nil, err
	}
	resp := ToSettingsResponse(current)
	return &resp, nil
}

// UploadLogo stores a logo image and points the settings at it
func (s *SettingsService) UploadLogo(ctx context.Context, actor identity.Actor, req UploadImageRequest) (*SettingsResponse, error) {
	return s.uploadImage(ctx, actor, req, "logo", func(st *settings.ShopSettings, url string) {
		st.SetLogoURL(url)
	})
}

// UploadUPIQR stores a UPI QR image and points the settings at it
func (s *SettingsService) UploadUPIQR(ctx context.Context, actor identity.Actor, req UploadImageRequest) (*SettingsResponse, error) {
	return s.uploadImage(ctx, actor, req, "upi-qr", func(st *settings.ShopSettings, url string) {
		st.SetUPIQRURL(url)
	})
}

func (s *SettingsService) uploadImage(
	ctx context.Context,
	actor identity.Actor,
	req UploadImageRequest,
	kind string,
	apply func(*settings.ShopSettings, string),
) (*SettingsResponse, error) {
	if err := identity.Authorize(s.policy, actor, identity.PermSettingsUpdate); err != nil {
		return nil, err
	}
	ext, err := validateImage(req)
	if err != nil {
		return nil, err
	}
	current, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	key := path.Join("settings", kind, uuid.New().String()+ext)
	url, err := s.storage.PutObject(ctx, key, req.ContentType, req.Data)
	if err != nil {
		s.logger.Error("Failed to upload settings image", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("upload %s: %w", kind, err)
	}
	s.logger.Info("Settings image uploaded", zap.String("kind", kind), zap.String("key", key))

	apply(current, url)
	if err := s.repo.Save(ctx, current); err != nil {
		s.logger.Error("Failed to save shop settings", zap.Error(err))
		// Nothing references the new object yet
		if derr := s.storage.DeleteObject(ctx, key); derr != nil {
			s.logger.Warn("Failed to remove orphaned settings image", zap.String("key", key), zap.Error(derr))
		}
		return nil, fmt.Errorf("save shop settings: %w", err)
	}
	if err := s.record(ctx, actor, fmt.Sprintf("Shop %s uploaded", kind)); err != nil {
		return nil, err
	}
	resp := ToSettingsResponse(current)
	return &resp, nil
}

func validateImage(req UploadImageRequest) (string, error) {
	if len(req.Data) == 0 {
		return "", shared.NewDomainError("INVALID_FILE", "File is empty")
	}
	if req.Size > MaxImageSize || len(req.Data) > MaxImageSize {
		return "", shared.NewDomainError("INVALID_FILE", "File must be 2 MB or smaller")
	}
	ext, ok := allowedImageTypes[strings.ToLower(req.ContentType)]
	if !ok {
		return "", shared.NewDomainError("INVALID_FILE", fmt.Sprintf("Unsupported image type: %s", req.ContentType))
	}
	return ext, nil
}

func (s *SettingsService) load(ctx context.Context) (*settings.ShopSettings, error) {
	current, err := s.repo.Get(ctx)
	if errors.Is(err, shared.ErrNotFound) {
		return settings.Defaults(), nil
	}
	if err != nil {
		s.logger.Error("Failed to load shop settings", zap.Error(err))
		return nil, fmt.Errorf("load shop settings: %w", err)
	}
	return current, nil
}

func (s *SettingsService) save(ctx context.Context, actor identity.Actor, st *settings.ShopSettings, details string) error {
	if err := s.repo.Save(ctx, st); err != nil {
		s.logger.Error("Failed to save shop settings", zap.Error(err))
		return fmt.Errorf("save shop settings: %w", err)
	}
	return s.record(ctx, actor, details)
}

func (s *SettingsService) record(ctx context.Context, actor identity.Actor, details string) error {
	if err := s.recorder.Record(ctx, audit.NewEntry(actor, audit.ActionUpdateSettings, details, "")); err != nil {
		s.logger.Error("Failed to record settings audit entry", zap.Error(err))
		return fmt.Errorf("record audit entry: %w", err)
	}
	s.logger.Info("Shop settings saved", zap.String("by", actor.Email))
	return nil
}
