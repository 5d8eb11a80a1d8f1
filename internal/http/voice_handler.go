package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"profile-hub/internal/domain"
	"profile-hub/internal/service"
)

type VoiceRecorder interface {
	SaveSession(ctx context.Context, principal domain.Principal, in service.SaveSessionInput) (service.SaveSessionResult, error)
	ListSessions(ctx context.Context, principal domain.Principal, limit int) ([]domain.VoiceSession, error)
}

type VoiceHandler struct {
	logger *zap.Logger
	voice  VoiceRecorder
}

func NewVoiceHandler(logger *zap.Logger, voice VoiceRecorder) *VoiceHandler {
	return &VoiceHandler{logger: logger, voice: voice}
}

// SaveSession maneja POST /api/voice/save-session.
func (h *VoiceHandler) SaveSession(c *gin.Context) {
	principal, _ := GetPrincipal(c)
	var req struct {
		Transcript    string          `json:"transcript"`
		ExtractedData json.RawMessage `json:"extractedData"`
		CVData        json.RawMessage `json:"cvData"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid save session request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	res, err := h.voice.SaveSession(c.Request.Context(), principal, service.SaveSessionInput{
		Transcript:    req.Transcript,
		ExtractedData: req.ExtractedData,
		AuxData:       req.CVData,
	})
	var mergeErr *service.MergeFailedError
	switch {
	case errors.As(err, &mergeErr):
		h.logger.Warn("voice session saved without profile merge",
			zap.Error(mergeErr.Err),
			zap.String("principal_id", principal.ID),
			zap.String("session_id", mergeErr.SessionID),
		)
		c.JSON(http.StatusOK, gin.H{
			"success":      true,
			"sessionId":    mergeErr.SessionID,
			"message":      "Session saved, but the profile could not be updated",
			"profileMerge": service.IngestionFailed,
		})
		return
	case err != nil:
		writeError(c, h.logger, "save voice session failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"sessionId":    res.Session.ID,
		"message":      "Session saved",
		"profileMerge": res.ProfileMerge,
	})
}

// ListSessions maneja GET /api/voice/sessions.
func (h *VoiceHandler) ListSessions(c *gin.Context) {
	principal, _ := GetPrincipal(c)
	limit, _ := strconv.Atoi(c.Query("limit"))
	sessions, err := h.voice.ListSessions(c.Request.Context(), principal, limit)
	if err != nil {
		writeError(c, h.logger, "list voice sessions failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}
