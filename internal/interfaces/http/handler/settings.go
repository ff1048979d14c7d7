package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/billmaster/backend/internal/application/settings"
	"github.com/billmaster/backend/internal/domain/identity"
	"github.com/billmaster/backend/internal/interfaces/http/dto"
	"github.com/billmaster/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// MaxImageUploadSize bounds logo and UPI QR uploads
const MaxImageUploadSize = 2 << 20

// SettingsService manages the shop profile and its images
type SettingsService interface {
	Get(ctx context.Context, actor identity.Actor) (*settings.SettingsResponse, error)
	Update(ctx context.Context, actor identity.Actor, req settings.UpdateSettingsRequest) (*settings.SettingsResponse, error)
	UploadLogo(ctx context.Context, actor identity.Actor, req settings.UploadImageRequest) (*settings.SettingsResponse, error)
	UploadUPIQR(ctx context.Context, actor identity.Actor, req settings.UploadImageRequest) (*settings.SettingsResponse, error)
}

// SettingsHandler handles shop settings endpoints
type SettingsHandler struct {
	BaseHandler
	settings SettingsService
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(svc SettingsService) *SettingsHandler {
	return &SettingsHandler{settings: svc}
}

// Get godoc
// @ID           getSettings
// @Summary      Get shop settings
// @Description  The shop profile printed on every invoice
// @Tags         settings
// @Produce      json
// @Success      200 {object} dto.Response{data=settings.SettingsResponse}
// @Failure      401 {object} dto.Response
// @Security     BearerAuth
// @Router       /settings [get]
func (h *SettingsHandler) Get(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	s, err := h.settings.Get(c.Request.Context(), actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, s)
}

// Update godoc
// @ID           updateSettings
// @Summary      Update shop settings
// @Description  Replace the editable shop profile. Admin only.
// @Tags         settings
// @Accept       json
// @Produce      json
// @Param        request body settings.UpdateSettingsRequest true "Shop settings"
// @Success      200 {object} dto.Response{data=settings.SettingsResponse}
// @Failure      400 {object} dto.Response
// @Failure      403 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Security     BearerAuth
// @Router       /settings [put]
func (h *SettingsHandler) Update(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req settings.UpdateSettingsRequest
	if !h.bind(c, &req) {
		return
	}
	s, err := h.settings.Update(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, s)
}

// UploadLogo godoc
// @ID           uploadLogo
// @Summary      Upload shop logo
// @Description  Store the multipart "file" field as the shop logo. PNG or JPEG up to 2 MB.
// @Tags         settings
// @Accept       multipart/form-data
// @Produce      json
// @Param        file formData file true "Logo image"
// @Success      200 {object} dto.Response{data=settings.SettingsResponse}
// @Failure      400 {object} dto.Response
// @Failure      413 {object} dto.Response
// @Security     BearerAuth
// @Router       /settings/logo [post]
func (h *SettingsHandler) UploadLogo(c *gin.Context) {
	h.upload(c, h.settings.UploadLogo)
}

// UploadUPIQR godoc
// @ID           uploadUPIQR
// @Summary      Upload UPI QR code
// @Description  Store the multipart "file" field as the UPI QR image printed on invoices
// @Tags         settings
// @Accept       multipart/form-data
// @Produce      json
// @Param        file formData file true "QR image"
// @Success      200 {object} dto.Response{data=settings.SettingsResponse}
// @Failure      400 {object} dto.Response
// @Failure      413 {object} dto.Response
// @Security     BearerAuth
// @Router       /settings/upi-qr [post]
func (h *SettingsHandler) UploadUPIQR(c *gin.Context) {
	h.upload(c, h.settings.UploadUPIQR)
}

func (h *SettingsHandler) upload(
	c *gin.Context,
	store func(context.Context, identity.Actor, settings.UploadImageRequest) (*settings.SettingsResponse, error),
) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	req, ok := h.readImage(c)
	if !ok {
		return
	}
	s, err := store(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, s)
}

func (h *SettingsHandler) readImage(c *gin.Context) (settings.UploadImageRequest, bool) {
	fh, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "Multipart field \"file\" is required")
		return settings.UploadImageRequest{}, false
	}
	if fh.Size > MaxImageUploadSize {
		c.JSON(http.StatusRequestEntityTooLarge, dto.NewErrorResponse(dto.ErrCodeRequestTooLarge, "Image exceeds 2 MB", middleware.GetRequestID(c)))
		return settings.UploadImageRequest{}, false
	}

	f, err := fh.Open()
	if err != nil {
		h.HandleError(c, err)
		return settings.UploadImageRequest{}, false
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxImageUploadSize+1))
	if err != nil {
		h.HandleError(c, err)
		return settings.UploadImageRequest{}, false
	}

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	return settings.UploadImageRequest{
		FileName:    fh.Filename,
		ContentType: contentType,
		Size:        int64(len(data)),
		Data:        data,
	}, true
}
