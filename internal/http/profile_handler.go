package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"profile-hub/internal/domain"
	"profile-hub/internal/service"
)

type ProfileStore interface {
	GetAggregate(ctx context.Context, requester domain.Principal, principalID string) (domain.ProfileAggregate, error)
	MergeUpdate(ctx context.Context, requester domain.Principal, principalID string, delta domain.ProfileDelta, source domain.MergeSource) (domain.ProfileAggregate, error)
}

type CVIngestor interface {
	Run(ctx context.Context, principal domain.Principal, file service.FileUpload) (service.CVPipelineResult, error)
}

type Verifier interface {
	Verify(ctx context.Context, principal domain.Principal) error
}

// ProfileHandler expone el agregado de perfil, la subida de CV y la verificacion.
type ProfileHandler struct {
	logger       *zap.Logger
	profiles     ProfileStore
	cv           CVIngestor
	verification Verifier
	maxUpload    int64
}

func NewProfileHandler(logger *zap.Logger, profiles ProfileStore, cv CVIngestor, verification Verifier, maxUpload int64) *ProfileHandler {
	return &ProfileHandler{
		logger:       logger,
		profiles:     profiles,
		cv:           cv,
		verification: verification,
		maxUpload:    maxUpload,
	}
}

// GetProfile maneja GET /api/profile.
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	principal, _ := GetPrincipal(c)
	principalID := strings.TrimSpace(c.DefaultQuery("principal_id", principal.ID))

	agg, err := h.profiles.GetAggregate(c.Request.Context(), principal, principalID)
	if err != nil {
		writeError(c, h.logger, "get profile failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": agg})
}

// UpdateProfile maneja POST /api/profile. Los campos desconocidos se rechazan.
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	principal, _ := GetPrincipal(c)
	raw, err := c.GetRawData()
	if err != nil {
		h.logger.Warn("invalid update profile request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	delta, err := domain.DecodeStrictDelta(raw)
	if err != nil {
		h.logger.Warn("invalid update profile request", zap.Error(err))
		writeError(c, h.logger, "decode profile failed", err)
		return
	}

	agg, err := h.profiles.MergeUpdate(c.Request.Context(), principal, principal.ID, delta, domain.MergeSourceManual)
	if err != nil {
		writeError(c, h.logger, "update profile failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": agg})
}

// UploadCV maneja POST /api/profile/upload-cv (multipart, campo "file").
func (h *ProfileHandler) UploadCV(c *gin.Context) {
	principal, _ := GetPrincipal(c)
	if h.maxUpload > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload+(1<<20))
	}

	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file uploaded"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		h.logger.Warn("open uploaded file failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read uploaded file"})
		return
	}
	defer f.Close()

	res, err := h.cv.Run(c.Request.Context(), principal, service.FileUpload{
		Name:    fh.Filename,
		Size:    fh.Size,
		Content: f,
	})
	if err != nil {
		writeError(c, h.logger, "cv upload failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"filePath":   res.Document.FilePath,
		"fileName":   res.Document.FileName,
		"fileSize":   res.Document.FileSize,
		"mimeType":   res.Document.MimeType,
		"extraction": res.Extraction,
	})
}

// VerifyLinkedIn maneja POST /api/profile/verify-linkedin.
func (h *ProfileHandler) VerifyLinkedIn(c *gin.Context) {
	principal, _ := GetPrincipal(c)
	if err := h.verification.Verify(c.Request.Context(), principal); err != nil {
		writeError(c, h.logger, "verify profile failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Profile verified"})
}
