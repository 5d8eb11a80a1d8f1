package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"profile-hub/internal/domain"
	"profile-hub/internal/metrics"
	"profile-hub/internal/repository"
)

const defaultVoiceSessionLimit = 20

// MergeFailedError indica que la sesion se guardo pero el merge del perfil fallo.
type MergeFailedError struct {
	SessionID string
	Err       error
}

func (e *MergeFailedError) Error() string {
	return fmt.Sprintf("voice session %s saved, profile merge failed: %v", e.SessionID, e.Err)
}

func (e *MergeFailedError) Unwrap() error {
	return e.Err
}

type SaveSessionInput struct {
	Transcript    string
	ExtractedData json.RawMessage
	AuxData       json.RawMessage
}

type SaveSessionResult struct {
	Session      domain.VoiceSession
	ProfileMerge IngestionStatus
}

// VoiceService registra las entrevistas por voz. La sesion se escribe primero y no
// depende del resultado del merge.
type VoiceService struct {
	logger   *zap.Logger
	sessions repository.VoiceSessionRepository
	merger   *IngestionMerger
	metrics  *metrics.Metrics
	now      func() time.Time
}

func NewVoiceService(logger *zap.Logger, sessions repository.VoiceSessionRepository, merger *IngestionMerger, m *metrics.Metrics) *VoiceService {
	return &VoiceService{
		logger:   logger,
		sessions: sessions,
		merger:   merger,
		metrics:  m,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// RecordSession escribe la fila de la sesion sin tocar el perfil.
func (s *VoiceService) RecordSession(ctx context.Context, principal domain.Principal, in SaveSessionInput) (domain.VoiceSession, error) {
	const op = "voice.record"
	if principal.IsZero() {
		return domain.VoiceSession{}, domain.NotAuthenticated(op)
	}
	if strings.TrimSpace(in.Transcript) == "" {
		return domain.VoiceSession{}, domain.Validation(op, "transcript is required")
	}
	for name, raw := range map[string]json.RawMessage{"extractedData": in.ExtractedData, "cvData": in.AuxData} {
		if len(raw) > 0 && !json.Valid(raw) {
			return domain.VoiceSession{}, domain.Validation(op, name+" must be valid JSON")
		}
	}

	now := s.now()
	session := domain.VoiceSession{
		ID:              uuid.NewString(),
		UserID:          principal.ID,
		Transcript:      in.Transcript,
		ExtractedData:   presentJSON(in.ExtractedData),
		SessionMetadata: presentJSON(in.AuxData),
		Completed:       true,
		DurationSeconds: domain.EstimateDuration(utf8.RuneCountInString(in.Transcript)),
		CompletedAt:     now,
		CreatedAt:       now,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		s.logger.Error("save voice session failed", zap.Error(err), zap.String("principal_id", principal.ID))
		return domain.VoiceSession{}, domain.Storage(op, err)
	}
	return session, nil
}

// SaveSession registra la sesion y, si trae datos extraidos, los mezcla en el perfil.
// Si el merge falla devuelve el resultado junto con un *MergeFailedError.
func (s *VoiceService) SaveSession(ctx context.Context, principal domain.Principal, in SaveSessionInput) (SaveSessionResult, error) {
	session, err := s.RecordSession(ctx, principal, in)
	if err != nil {
		return SaveSessionResult{}, err
	}
	result := SaveSessionResult{Session: session, ProfileMerge: IngestionSkipped}

	if session.ExtractedData == nil || s.merger == nil {
		s.metrics.ObserveVoiceSession(string(result.ProfileMerge))
		return result, nil
	}

	_, applied, err := s.merger.ApplyRaw(ctx, principal, session.ExtractedData, domain.MergeSourceVoice)
	if err != nil {
		result.ProfileMerge = IngestionFailed
		s.metrics.ObserveVoiceSession(string(result.ProfileMerge))
		s.logger.Warn("voice profile merge failed",
			zap.Error(err),
			zap.String("principal_id", principal.ID),
			zap.String("session_id", session.ID),
		)
		return result, &MergeFailedError{SessionID: session.ID, Err: err}
	}
	if applied {
		result.ProfileMerge = IngestionApplied
	}
	s.metrics.ObserveVoiceSession(string(result.ProfileMerge))
	return result, nil
}

// ListSessions devuelve las sesiones del principal, la mas reciente primero.
func (s *VoiceService) ListSessions(ctx context.Context, principal domain.Principal, limit int) ([]domain.VoiceSession, error) {
	const op = "voice.list"
	if principal.IsZero() {
		return nil, domain.NotAuthenticated(op)
	}
	if limit <= 0 || limit > 100 {
		limit = defaultVoiceSessionLimit
	}
	sessions, err := s.sessions.ListByUser(ctx, principal.ID, limit)
	if err != nil {
		s.logger.Error("list voice sessions failed", zap.Error(err), zap.String("principal_id", principal.ID))
		return nil, domain.Storage(op, err)
	}
	if sessions == nil {
		sessions = []domain.VoiceSession{}
	}
	return sessions, nil
}

// presentJSON normaliza vacio y null a nil.
func presentJSON(raw json.RawMessage) json.RawMessage {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	return trimmed
}
