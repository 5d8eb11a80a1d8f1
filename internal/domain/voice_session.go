package domain

import (
	"encoding/json"
	"time"
)

// VoiceSession es el registro de auditoria de una entrevista por voz.
// Append-only: no se actualiza despues de Completed = true.
type VoiceSession struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id"`
	Transcript      string          `json:"transcript"`
	ExtractedData   json.RawMessage `json:"extracted_data,omitempty"`
	SessionMetadata json.RawMessage `json:"session_metadata,omitempty"`
	Completed       bool            `json:"completed"`
	DurationSeconds int             `json:"duration_seconds"`
	CompletedAt     time.Time       `json:"completed_at"`
	CreatedAt       time.Time       `json:"created_at"`
}

// EstimateDuration aplica la heuristica fija: una unidad cada diez caracteres, redondeando hacia arriba.
func EstimateDuration(runeCount int) int {
	if runeCount <= 0 {
		return 0
	}
	return (runeCount + 9) / 10
}
